package casegen

import (
	"fmt"
	"strconv"

	"github.com/vk/benchplan/internal/resize"
	"github.com/vk/benchplan/internal/vector"
)

// mpiBuilder is the built-in case builder for MPI binaries: it derives the
// launch parameters from the vector's node count and the configured cores
// per node, and computes mesh refinement arguments for resizable
// candidates.
type mpiBuilder struct {
	bin     string
	cpn     int
	threads int
}

func newMPIBuilder(kwargs map[string]vector.Value) (Builder, error) {
	b := &mpiBuilder{threads: 1}
	v, ok := kwargs["bin"]
	if !ok {
		return nil, fmt.Errorf("missing required kwarg %q", "bin")
	}
	b.bin = v.String()
	v, ok = kwargs["cpn"]
	if !ok {
		return nil, fmt.Errorf("missing required kwarg %q", "cpn")
	}
	if v.Kind() != vector.KindInt || v.AsInt() <= 0 {
		return nil, fmt.Errorf("kwarg %q must be a positive integer", "cpn")
	}
	b.cpn = int(v.AsInt())
	if v, ok = kwargs["threads_per_proc"]; ok {
		if v.Kind() != vector.KindInt || v.AsInt() <= 0 {
			return nil, fmt.Errorf("kwarg %q must be a positive integer", "threads_per_proc")
		}
		b.threads = int(v.AsInt())
	}
	if b.cpn%b.threads != 0 {
		return nil, fmt.Errorf("cpn %d is not divisible by threads_per_proc %d", b.cpn, b.threads)
	}
	return b, nil
}

// BuildCase maps one vector to a case description. Requires the vector to
// carry an nnodes factor; mem_per_node, total_mem, dim and resizable are
// consumed when present to size the mesh.
func (b *mpiBuilder) BuildCase(v *vector.TestVector) (*CaseSpec, error) {
	nnodesVal, ok := v.Value("nnodes")
	if !ok {
		return nil, fmt.Errorf("vector %s has no nnodes factor", v)
	}
	nnodes := int(nnodesVal.AsInt())
	if nnodes <= 0 {
		return nil, fmt.Errorf("vector %s has non-positive nnodes", v)
	}
	procsPerNode := b.cpn / b.threads

	cmd := []string{b.bin}
	args, err := b.meshArgs(v, nnodes)
	if err != nil {
		return nil, err
	}
	cmd = append(cmd, args...)

	return &CaseSpec{
		Path: v.DirName(),
		Cmd:  cmd,
		Envs: map[string]string{
			"OMP_NUM_THREADS": strconv.Itoa(b.threads),
			"KMP_AFFINITY":    "disabled",
		},
		Run: RunSpec{
			NNodes:       nnodes,
			ProcsPerNode: procsPerNode,
			TasksPerProc: b.threads,
			NProcs:       nnodes * procsPerNode,
		},
		Results: []string{"STDOUT"},
	}, nil
}

// meshArgs computes the refinement argument for resizable candidates: the
// unrefined mesh is sized to the vector's per-node footprint, then refined
// until it occupies at least the vector's node count.
func (b *mpiBuilder) meshArgs(v *vector.TestVector, nnodes int) ([]string, error) {
	resizable, ok := v.Value("resizable")
	if !ok || !resizable.AsBool() {
		return nil, nil
	}
	dim, ok := v.Value("dim")
	if !ok {
		return nil, fmt.Errorf("resizable vector %s has no dim factor", v)
	}
	totalMem, ok := v.Value("total_mem")
	if !ok {
		return nil, fmt.Errorf("resizable vector %s has no total_mem factor", v)
	}
	memPerNode, ok := v.Value("mem_per_node")
	if !ok {
		return nil, fmt.Errorf("resizable vector %s has no mem_per_node factor", v)
	}

	r, err := resize.NewUnstructuredGridResizer(int(dim.AsInt()), totalMem.AsSize())
	if err != nil {
		return nil, err
	}
	st := r.Resize(memPerNode.AsSize())
	for st.NNodes < nnodes {
		st = r.Next(st)
	}
	return []string{"-r", strconv.Itoa(st.NRefines)}, nil
}
