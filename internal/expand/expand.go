// Package expand crosses a model's scaling points with its declared
// candidate configurations, producing partial vectors that lack only the
// globally-declared other factors.
package expand

import (
	"github.com/vk/benchplan/internal/bytesize"
	"github.com/vk/benchplan/internal/config"
	"github.com/vk/benchplan/internal/scaling"
	"github.com/vk/benchplan/internal/vector"
)

// PartialVector is a TestVector-shaped mapping missing only the global
// other factors. Model, Policy and Tag are provenance metadata, carried
// whether or not they are declared factors.
type PartialVector struct {
	Model      string
	Policy     string
	Tag        string
	NNodes     int
	MemPerNode bytesize.Size

	// Extra holds the candidate's additional factor values (mesh type,
	// dimensionality, total_mem, resizability, ...), keyed by factor name.
	Extra map[string]vector.Value

	// TotalMem and MinNCores feed the feasibility check; zero means the
	// candidate or policy does not constrain them.
	TotalMem  bytesize.Size
	MinNCores int
}

// Model crosses every scaling point of every policy the model participates
// in with every declared candidate. A candidate that declares nnodes or
// mem_per_node is an exact-match filter: it only pairs with points whose
// values match; a candidate omitting them sweeps all points.
func Model(mc *config.ModelConfig, bench *config.BenchConfig, pairs map[string][]scaling.Pair) []PartialVector {
	var out []PartialVector
	for _, policy := range mc.BenchPolicies {
		minNCores := 0
		if policy == config.PolicyOneNode && bench.OneNode != nil {
			minNCores = bench.OneNode.MinNCores
		}
		for _, p := range pairs[policy] {
			for _, c := range mc.Candidates {
				if !matches(c, p) {
					continue
				}
				pv := PartialVector{
					Model:      mc.Name,
					Policy:     policy,
					Tag:        c.Tag,
					NNodes:     p.NNodes,
					MemPerNode: p.MemPerNode,
					Extra:      candidateFactors(mc, c),
					MinNCores:  minNCores,
				}
				if c.TotalMem != nil {
					pv.TotalMem = *c.TotalMem
				}
				out = append(out, pv)
			}
		}
	}
	return out
}

// matches applies the optional-field filter: declared candidate fields must
// equal the scaling point exactly, absent fields match everything.
func matches(c *config.Candidate, p scaling.Pair) bool {
	if c.NNodes != nil && *c.NNodes != p.NNodes {
		return false
	}
	if c.MemPerNode != nil && *c.MemPerNode != p.MemPerNode {
		return false
	}
	return true
}

// candidateFactors collects the factor values a candidate contributes
// beyond the scaling point itself.
func candidateFactors(mc *config.ModelConfig, c *config.Candidate) map[string]vector.Value {
	vals := make(map[string]vector.Value, len(c.Extra)+4)
	for k, v := range c.Extra {
		vals[k] = v
	}
	if c.MeshType != "" {
		vals["type"] = vector.String(c.MeshType)
	} else if mc.Type != "" {
		vals["type"] = vector.String(mc.Type)
	}
	if c.Dim != nil {
		vals["dim"] = vector.Int(int64(*c.Dim))
	}
	if c.Resizable != nil {
		vals["resizable"] = vector.Bool(*c.Resizable)
	}
	if c.TotalMem != nil {
		vals["total_mem"] = vector.Size(*c.TotalMem)
	}
	return vals
}
