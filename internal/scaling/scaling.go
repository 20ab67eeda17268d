// Package scaling expands the configured scaling policies into concrete
// (nnodes, mem_per_node) pairs. The policy set is closed: one_node, weak
// and strong, dispatched by a fixed switch.
package scaling

import (
	"fmt"

	"github.com/vk/benchplan/internal/bytesize"
	"github.com/vk/benchplan/internal/config"
	"github.com/vk/benchplan/internal/feasible"
)

// Pair is one scaling point: a node count and a per-node memory footprint.
type Pair struct {
	NNodes     int
	MemPerNode bytesize.Size
}

// Violation records a policy that could not emit on this system, such as a
// one_node core-count floor the machine does not meet. Violations are
// report entries, not errors.
type Violation struct {
	Policy string
	Reason feasible.Reason
	Detail string
}

const defaultStep = 2

// Expand produces the ordered scaling points for one configured policy.
// The sequence is finite and deterministic: node counts ascending, memory
// options in declared order. An unconfigured or unknown policy name is an
// error; an empty mem_options list yields no pairs and no error.
func Expand(policy string, bench *config.BenchConfig, sys *config.SystemDescription) ([]Pair, []Violation, error) {
	switch policy {
	case config.PolicyOneNode:
		if bench.OneNode == nil {
			return nil, nil, fmt.Errorf("policy %q is not configured", policy)
		}
		return expandOneNode(bench.OneNode, sys)
	case config.PolicyWeak:
		if bench.Weak == nil {
			return nil, nil, fmt.Errorf("policy %q is not configured", policy)
		}
		return expandWeak(bench.Weak), nil, nil
	case config.PolicyStrong:
		if bench.Strong == nil {
			return nil, nil, fmt.Errorf("policy %q is not configured", policy)
		}
		return expandStrong(bench.Strong), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown policy %q", policy)
	}
}

// expandOneNode emits (1, m) per memory option. One-node runs are fixed
// size, so a system below the core-count floor invalidates the whole
// policy: nothing is emitted and a single violation is recorded.
func expandOneNode(spec *config.OneNodeSpec, sys *config.SystemDescription) ([]Pair, []Violation, error) {
	if sys.CoresPerNode < spec.MinNCores {
		v := Violation{
			Policy: config.PolicyOneNode,
			Reason: feasible.ReasonCores,
			Detail: fmt.Sprintf("system provides %d cores per node, policy requires %d",
				sys.CoresPerNode, spec.MinNCores),
		}
		return nil, []Violation{v}, nil
	}
	pairs := make([]Pair, 0, len(spec.MemOptions))
	for _, m := range spec.MemOptions {
		pairs = append(pairs, Pair{NNodes: 1, MemPerNode: m})
	}
	return pairs, nil, nil
}

// expandWeak sweeps node counts geometrically from nnodes_min to
// nnodes_max inclusive, pairing every count with every memory option.
func expandWeak(spec *config.WeakSpec) []Pair {
	step := spec.Step
	if step == 0 {
		step = defaultStep
	}
	var pairs []Pair
	for n := spec.NNodesMin; n <= spec.NNodesMax; {
		for _, m := range spec.MemOptions {
			pairs = append(pairs, Pair{NNodes: n, MemPerNode: m})
		}
		if n > spec.NNodesMax/step {
			break
		}
		n *= step
	}
	return pairs
}

// expandStrong grows each base node count geometrically, capped per base
// at base*max_multiple and globally at max_nnodes. Points reached from
// more than one base are emitted once, first occurrence wins.
func expandStrong(spec *config.StrongSpec) []Pair {
	step := spec.Step
	if step == 0 {
		step = defaultStep
	}
	var pairs []Pair
	seen := make(map[Pair]struct{})
	for _, base := range spec.BaseNNodes {
		limit := spec.MaxNNodes
		if perBase := base * spec.MaxMultiple; perBase < limit {
			limit = perBase
		}
		for n := base; n <= limit; {
			for _, m := range spec.MemOptions {
				p := Pair{NNodes: n, MemPerNode: m}
				if _, dup := seen[p]; !dup {
					seen[p] = struct{}{}
					pairs = append(pairs, p)
				}
			}
			if n > limit/step {
				break
			}
			n *= step
		}
	}
	return pairs
}
