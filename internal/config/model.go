package config

import (
	"github.com/vk/benchplan/internal/bytesize"
	"github.com/vk/benchplan/internal/vector"
)

// Model is the unified, format-agnostic representation of an entire project
// configuration document. It is loaded once at startup and read-only
// afterwards.
type Model struct {
	Project      Project
	System       SystemDescription
	Bench        BenchConfig
	Models       []*ModelConfig
	OtherFactors []OtherFactor
}

// Project holds the top-level project section: the declared factor space,
// the case-generator selection and the data-file categories shipped with
// the campaign.
type Project struct {
	Name        string
	TestFactors []string
	CaseGen     GeneratorRef
	DataFiles   []string
}

// GeneratorRef names an external case-construction transform plus its
// keyword-argument bag, resolved once at startup against the casegen
// registry.
type GeneratorRef struct {
	Name   string
	Kwargs map[string]vector.Value
}

// Range is an inclusive integer range, used for CPU core groups and NUMA
// node groups.
type Range struct {
	Lo int
	Hi int
}

// SystemDescription declares the target machine the campaign runs on.
type SystemDescription struct {
	NNodes         int
	CoresPerNode   int
	MemPerNode     bytesize.Size
	FreeMemPerNode bytesize.Size
	CPUCoreGroups  []Range
	NUMAGroups     []Range
	NUMAMem        []bytesize.Size
}

// Policy names form a closed set: every scaling spec is one of these three
// variants, dispatched by a fixed switch so the set stays exhaustively
// checkable.
const (
	PolicyOneNode = "one_node"
	PolicyWeak    = "weak"
	PolicyStrong  = "strong"
)

// BenchConfig holds the per-policy scaling parameters. A nil entry means
// the project does not configure that policy.
type BenchConfig struct {
	OneNode *OneNodeSpec
	Weak    *WeakSpec
	Strong  *StrongSpec
}

// Has reports whether the named policy is configured.
func (b *BenchConfig) Has(policy string) bool {
	switch policy {
	case PolicyOneNode:
		return b.OneNode != nil
	case PolicyWeak:
		return b.Weak != nil
	case PolicyStrong:
		return b.Strong != nil
	default:
		return false
	}
}

// Policies returns the configured policy names in canonical order.
func (b *BenchConfig) Policies() []string {
	var out []string
	for _, p := range []string{PolicyOneNode, PolicyWeak, PolicyStrong} {
		if b.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// OneNodeSpec describes fixed-size single-node runs: one run per memory
// option, provided the system satisfies the core-count floor.
type OneNodeSpec struct {
	MinNCores  int
	MemOptions []bytesize.Size
}

// WeakSpec describes a weak-scaling sweep: node count grows geometrically
// from NNodesMin to NNodesMax while per-node memory stays constant. Step is
// the geometric factor; 0 means the default of 2 (doubling).
type WeakSpec struct {
	NNodesMin  int
	NNodesMax  int
	Step       int
	MemOptions []bytesize.Size
}

// StrongSpec describes strong-scaling sweeps: each base node count is grown
// geometrically for a fixed-size problem, capped per base by MaxMultiple
// and globally by MaxNNodes. Step is the geometric factor; 0 means 2.
type StrongSpec struct {
	BaseNNodes  []int
	MaxMultiple int
	MaxNNodes   int
	Step        int
	MemOptions  []bytesize.Size
}

// ModelConfig declares one benchmark model: the scaling policies it
// participates in and its candidate problem configurations.
type ModelConfig struct {
	Name          string
	Type          string
	BenchPolicies []string
	Candidates    []*Candidate
}

// Candidate is one concrete problem configuration of a model, contributing
// extra factor values. NNodes and MemPerNode, when declared, restrict the
// candidate to scaling points that match them exactly; when nil the
// candidate sweeps every generated point.
type Candidate struct {
	Tag        string
	NNodes     *int
	MemPerNode *bytesize.Size
	TotalMem   *bytesize.Size
	Resizable  *bool
	Dim        *int
	MeshType   string
	Extra      map[string]vector.Value
}

// OtherFactor is one globally-declared factor value list crossed against
// every model-derived vector, e.g. repetition ids.
type OtherFactor struct {
	Name   string
	Values []vector.Value
}
