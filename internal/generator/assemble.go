package generator

import (
	"github.com/vk/benchplan/internal/config"
	"github.com/vk/benchplan/internal/expand"
	"github.com/vk/benchplan/internal/report"
	"github.com/vk/benchplan/internal/vector"
)

// assemble crosses every feasible partial vector with the Cartesian product
// of the other-factor value lists, deduplicates by full factor/value
// equality with provenance merged, and enforces the emission cap. Ordering
// is left to the caller's final sort.
func (g *Generator) assemble(pvs []expand.PartialVector, rep *report.Report) ([]*vector.TestVector, error) {
	factors := g.cfg.Project.TestFactors
	assignments := crossOtherFactors(g.cfg.OtherFactors)

	var out []*vector.TestVector
	index := make(map[string]*vector.TestVector)
	for i := range pvs {
		pv := &pvs[i]
		pool := factorValues(pv)
		origin := vector.Origin{Model: pv.Model, Policy: pv.Policy, Tag: pv.Tag}
		for _, assign := range assignments {
			values := make(map[string]vector.Value, len(factors))
			for _, f := range factors {
				if v, ok := pool[f]; ok {
					values[f] = v
					continue
				}
				if v, ok := assign[f]; ok {
					values[f] = v
					continue
				}
				return nil, config.Errorf("project.test_factors",
					"factor %q has no value source for model %q (policy %s, candidate %s)",
					f, pv.Model, pv.Policy, pv.Tag)
			}
			tv, err := vector.New(factors, values, origin)
			if err != nil {
				return nil, err
			}
			key := tv.Key()
			if existing, dup := index[key]; dup {
				existing.MergeOrigins(tv)
				rep.Deduplicated++
				continue
			}
			index[key] = tv
			out = append(out, tv)
			if len(out) > g.opts.MaxVectors {
				return nil, &LimitError{Limit: g.opts.MaxVectors}
			}
		}
	}
	return out, nil
}

// crossOtherFactors enumerates the Cartesian product of the other-factor
// value lists in declared order. With no other factors it returns a single
// empty assignment, making the cross a no-op expansion.
func crossOtherFactors(ofs []config.OtherFactor) []map[string]vector.Value {
	assignments := []map[string]vector.Value{{}}
	for _, of := range ofs {
		next := make([]map[string]vector.Value, 0, len(assignments)*len(of.Values))
		for _, base := range assignments {
			for _, v := range of.Values {
				a := make(map[string]vector.Value, len(base)+1)
				for k, bv := range base {
					a[k] = bv
				}
				a[of.Name] = v
				next = append(next, a)
			}
		}
		assignments = next
	}
	return assignments
}
