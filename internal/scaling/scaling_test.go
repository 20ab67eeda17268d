package scaling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/benchplan/internal/bytesize"
	"github.com/vk/benchplan/internal/config"
	"github.com/vk/benchplan/internal/feasible"
)

func TestExpand_UnknownPolicy(t *testing.T) {
	_, _, err := Expand("diagonal", &config.BenchConfig{}, &config.SystemDescription{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diagonal")
}

func TestExpand_UnconfiguredPolicy(t *testing.T) {
	bench := &config.BenchConfig{Weak: &config.WeakSpec{NNodesMin: 1, NNodesMax: 4}}
	_, _, err := Expand(config.PolicyOneNode, bench, &config.SystemDescription{})
	require.Error(t, err)
}

func TestExpandOneNode(t *testing.T) {
	sys := &config.SystemDescription{NNodes: 8, CoresPerNode: 64}
	bench := &config.BenchConfig{OneNode: &config.OneNodeSpec{
		MinNCores:  4,
		MemOptions: []bytesize.Size{5 * bytesize.GiB, 25 * bytesize.GiB},
	}}

	pairs, violations, err := Expand(config.PolicyOneNode, bench, sys)
	require.NoError(t, err)
	assert.Empty(t, violations)
	assert.Equal(t, []Pair{
		{NNodes: 1, MemPerNode: 5 * bytesize.GiB},
		{NNodes: 1, MemPerNode: 25 * bytesize.GiB},
	}, pairs)
}

func TestExpandOneNode_CoreFloor(t *testing.T) {
	// A system below the core floor invalidates the whole policy: no pairs,
	// one recorded violation.
	sys := &config.SystemDescription{NNodes: 8, CoresPerNode: 2}
	bench := &config.BenchConfig{OneNode: &config.OneNodeSpec{
		MinNCores:  4,
		MemOptions: []bytesize.Size{5 * bytesize.GiB},
	}}

	pairs, violations, err := Expand(config.PolicyOneNode, bench, sys)
	require.NoError(t, err)
	assert.Empty(t, pairs)
	require.Len(t, violations, 1)
	assert.Equal(t, config.PolicyOneNode, violations[0].Policy)
	assert.Equal(t, feasible.ReasonCores, violations[0].Reason)
}

func TestExpandWeak_DefaultStep(t *testing.T) {
	bench := &config.BenchConfig{Weak: &config.WeakSpec{
		NNodesMin:  1,
		NNodesMax:  8,
		MemOptions: []bytesize.Size{10 * bytesize.GiB},
	}}

	pairs, violations, err := Expand(config.PolicyWeak, bench, &config.SystemDescription{})
	require.NoError(t, err)
	assert.Empty(t, violations)

	var counts []int
	for _, p := range pairs {
		counts = append(counts, p.NNodes)
	}
	assert.Equal(t, []int{1, 2, 4, 8}, counts)
}

func TestExpandWeak_InclusiveMaxNotReached(t *testing.T) {
	// The sweep stops at the last count not exceeding nnodes_max.
	bench := &config.BenchConfig{Weak: &config.WeakSpec{
		NNodesMin:  3,
		NNodesMax:  20,
		MemOptions: []bytesize.Size{bytesize.GiB},
	}}

	pairs, _, err := Expand(config.PolicyWeak, bench, &config.SystemDescription{})
	require.NoError(t, err)

	var counts []int
	for _, p := range pairs {
		counts = append(counts, p.NNodes)
	}
	assert.Equal(t, []int{3, 6, 12}, counts)
}

func TestExpandWeak_CustomStep(t *testing.T) {
	bench := &config.BenchConfig{Weak: &config.WeakSpec{
		NNodesMin:  1,
		NNodesMax:  81,
		Step:       3,
		MemOptions: []bytesize.Size{bytesize.GiB},
	}}

	pairs, _, err := Expand(config.PolicyWeak, bench, &config.SystemDescription{})
	require.NoError(t, err)

	var counts []int
	for _, p := range pairs {
		counts = append(counts, p.NNodes)
	}
	assert.Equal(t, []int{1, 3, 9, 27, 81}, counts)
}

func TestExpandWeak_MemOptionsOrderPreserved(t *testing.T) {
	bench := &config.BenchConfig{Weak: &config.WeakSpec{
		NNodesMin:  2,
		NNodesMax:  2,
		MemOptions: []bytesize.Size{50 * bytesize.GiB, 5 * bytesize.GiB},
	}}

	pairs, _, err := Expand(config.PolicyWeak, bench, &config.SystemDescription{})
	require.NoError(t, err)
	assert.Equal(t, []Pair{
		{NNodes: 2, MemPerNode: 50 * bytesize.GiB},
		{NNodes: 2, MemPerNode: 5 * bytesize.GiB},
	}, pairs)
}

func TestExpandWeak_EmptyMemOptions(t *testing.T) {
	bench := &config.BenchConfig{Weak: &config.WeakSpec{NNodesMin: 1, NNodesMax: 8}}
	pairs, violations, err := Expand(config.PolicyWeak, bench, &config.SystemDescription{})
	require.NoError(t, err)
	assert.Empty(t, pairs)
	assert.Empty(t, violations)
}

func TestExpandStrong_Caps(t *testing.T) {
	// Base 2 is capped at 2*4=8 by max_multiple; base 16 at 32 by
	// max_nnodes.
	bench := &config.BenchConfig{Strong: &config.StrongSpec{
		BaseNNodes:  []int{2, 16},
		MaxMultiple: 4,
		MaxNNodes:   32,
		MemOptions:  []bytesize.Size{bytesize.GiB},
	}}

	pairs, _, err := Expand(config.PolicyStrong, bench, &config.SystemDescription{})
	require.NoError(t, err)

	var counts []int
	for _, p := range pairs {
		counts = append(counts, p.NNodes)
	}
	assert.Equal(t, []int{2, 4, 8, 16, 32}, counts)
}

func TestExpandStrong_FullSweep(t *testing.T) {
	// Base 1 grows to 1*64=64, base 4 to 4*64=256, both well below the
	// global cap of 4096; the shared counts 4..64 are emitted once.
	bench := &config.BenchConfig{Strong: &config.StrongSpec{
		BaseNNodes:  []int{1, 4},
		MaxMultiple: 64,
		MaxNNodes:   4096,
		MemOptions:  []bytesize.Size{bytesize.GiB},
	}}

	pairs, _, err := Expand(config.PolicyStrong, bench, &config.SystemDescription{})
	require.NoError(t, err)

	var counts []int
	for _, p := range pairs {
		counts = append(counts, p.NNodes)
	}
	assert.Equal(t, []int{1, 2, 4, 8, 16, 32, 64, 128, 256}, counts)
}

func TestExpandStrong_OverlappingBasesDedup(t *testing.T) {
	// Bases 1 and 4 both reach 4 and 8; each point is emitted once.
	bench := &config.BenchConfig{Strong: &config.StrongSpec{
		BaseNNodes:  []int{1, 4},
		MaxMultiple: 8,
		MaxNNodes:   8,
		MemOptions:  []bytesize.Size{bytesize.GiB},
	}}

	pairs, _, err := Expand(config.PolicyStrong, bench, &config.SystemDescription{})
	require.NoError(t, err)

	var counts []int
	for _, p := range pairs {
		counts = append(counts, p.NNodes)
	}
	assert.Equal(t, []int{1, 2, 4, 8}, counts)
}
