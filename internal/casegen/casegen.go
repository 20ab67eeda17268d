// Package casegen defines the boundary to the case generator: the
// component that maps each abstract test vector to an executable benchmark
// case. The generator core depends only on the Builder interface; concrete
// builders are resolved once at startup through the registry.
package casegen

import (
	"github.com/vk/benchplan/internal/vector"
)

// RunSpec holds the launch parameters of one case.
type RunSpec struct {
	NNodes       int `json:"nnodes"`
	ProcsPerNode int `json:"procs_per_node"`
	TasksPerProc int `json:"tasks_per_proc"`
	NProcs       int `json:"nprocs"`
}

// CaseSpec describes one executable benchmark case. It is a description
// only: nothing here writes files or launches processes.
type CaseSpec struct {
	// Path is the case's result directory, derived injectively from the
	// vector's factor values in declared order.
	Path    string            `json:"path"`
	Cmd     []string          `json:"cmd"`
	Envs    map[string]string `json:"envs"`
	Run     RunSpec           `json:"run"`
	Results []string          `json:"results"`
}

// Builder turns one test vector into a case description. Implementations
// must be pure: the same vector always yields the same case.
type Builder interface {
	BuildCase(v *vector.TestVector) (*CaseSpec, error)
}
