// Package resize scales benchmark model meshes to hit a requested memory
// footprint. A structured grid can be regridded arbitrarily; an
// unstructured mesh can only be refined uniformly, so reaching a target
// size may also mean splitting the problem across nodes.
package resize

import (
	"fmt"
	"math"
	"sort"

	"github.com/vk/benchplan/internal/bytesize"
)

// State is one resized placement of a model: the node count it occupies,
// the per-node memory it actually reaches, and the mesh parameters that
// got it there.
type State struct {
	NNodes     int
	MemPerNode bytesize.Size

	// Grid is the cell grid of a structured model; nil for unstructured.
	Grid []int
	// NRefines is the uniform refinement count of an unstructured model.
	NRefines int

	axis int
}

// StructuredGridResizer regrids a structured-mesh model to any requested
// total memory.
type StructuredGridResizer struct {
	grid     []int
	totalMem bytesize.Size
}

// NewStructuredGridResizer takes the model's reference grid shape and the
// total memory that shape occupies.
func NewStructuredGridResizer(grid []int, totalMem bytesize.Size) (*StructuredGridResizer, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("grid shape must not be empty")
	}
	for _, g := range grid {
		if g <= 0 {
			return nil, fmt.Errorf("invalid grid shape %v", grid)
		}
	}
	if totalMem <= 0 {
		return nil, fmt.Errorf("total memory must be positive")
	}
	return &StructuredGridResizer{grid: grid, totalMem: totalMem}, nil
}

// Resize regrids the model to occupy memPerNode on a single node, using a
// near-cubic base grid. The reached footprint can undershoot the request
// because grid axes are integers.
func (r *StructuredGridResizer) Resize(memPerNode bytesize.Size) State {
	dim := len(r.grid)
	cells := 1
	for _, g := range r.grid {
		cells *= g
	}
	bytesPerCell := float64(r.totalMem) / float64(cells)
	newCells := float64(memPerNode) / bytesPerCell
	// The epsilon keeps exact roots from flooring one short, e.g.
	// pow(262144, 1/3) evaluating to 63.999...
	nx := int(math.Floor(math.Pow(newCells, 1.0/float64(dim)) + 1e-9))
	if nx < 1 {
		nx = 1
	}
	grid := make([]int, dim)
	reached := 1
	for i := range grid {
		grid[i] = nx
		reached *= nx
	}
	return State{
		NNodes:     1,
		Grid:       grid,
		MemPerNode: bytesize.Size(bytesPerCell * float64(reached)),
	}
}

// Next doubles the node count, growing one grid axis round-robin so the
// per-node footprint stays constant along a weak-scaling sweep.
func (r *StructuredGridResizer) Next(s State) State {
	out := s
	out.Grid = append([]int(nil), s.Grid...)
	out.NNodes *= 2
	out.Grid[out.axis] *= 2
	out.axis = (out.axis + 1) % len(out.Grid)
	return out
}

// UnstructuredGridResizer refines an unstructured mesh uniformly; one
// refinement multiplies the memory footprint by 2^dim.
type UnstructuredGridResizer struct {
	dim      int
	totalMem bytesize.Size
	stride   int
}

// NewUnstructuredGridResizer takes the mesh dimensionality and the total
// memory of the unrefined mesh.
func NewUnstructuredGridResizer(dim int, totalMem bytesize.Size) (*UnstructuredGridResizer, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dim must be positive, got %d", dim)
	}
	if totalMem <= 0 {
		return nil, fmt.Errorf("total memory must be positive")
	}
	return &UnstructuredGridResizer{dim: dim, totalMem: totalMem, stride: 1 << dim}, nil
}

// Resize picks the refinement level and node count that best reach the
// requested per-node memory:
//
//   - within 10% of the unrefined mesh, inclusive, use it as-is on one node;
//   - for larger requests, refine; when even the closest refinement
//     overshoots a single node by more than 2x, split it across nodes;
//   - for smaller requests, split the unrefined mesh across enough nodes.
func (r *UnstructuredGridResizer) Resize(memPerNode bytesize.Size) State {
	mem := float64(memPerNode)
	total := float64(r.totalMem)
	stride := float64(r.stride)

	if math.Abs((mem-total)/total) <= 0.1 {
		return State{NRefines: 0, NNodes: 1, MemPerNode: r.totalMem}
	}
	if mem > total {
		ratio := mem / total
		i := int(math.Floor(math.Log(ratio) / math.Log(stride)))
		real := total * math.Pow(stride, float64(i))
		if real*2 < mem {
			// The closest refinement is still too small; refine once more
			// and spread the result across nodes.
			i++
			real = total * math.Pow(stride, float64(i))
			nnodes := int(math.Ceil(real / mem))
			return State{
				NRefines:   i,
				NNodes:     nnodes,
				MemPerNode: bytesize.Size(real / float64(nnodes)),
			}
		}
		return State{NRefines: i, NNodes: 1, MemPerNode: bytesize.Size(real)}
	}
	nnodes := int(math.Ceil(total / mem))
	return State{
		NRefines:   0,
		NNodes:     nnodes,
		MemPerNode: bytesize.Size(total / float64(nnodes)),
	}
}

// Next refines once more and multiplies the node count by 2^dim, holding
// the per-node footprint constant.
func (r *UnstructuredGridResizer) Next(s State) State {
	out := s
	out.NNodes *= r.stride
	out.NRefines++
	return out
}

// ProcessGrid factors n processes into a dim-dimensional grid as balanced
// as possible, axes descending. Each axis is the smallest divisor of the
// remaining process count that is at least its geometric share.
func ProcessGrid(n, dim int) []int {
	if n < 1 || dim < 1 {
		return nil
	}
	grid := make([]int, 0, dim)
	rest := n
	for k := dim; k >= 1; k-- {
		if k == 1 {
			grid = append(grid, rest)
			break
		}
		target := math.Pow(float64(rest), 1.0/float64(k))
		d := smallestDivisorAtLeast(rest, target)
		grid = append(grid, d)
		rest /= d
	}
	sort.Sort(sort.Reverse(sort.IntSlice(grid)))
	return grid
}

func smallestDivisorAtLeast(n int, target float64) int {
	start := int(math.Ceil(target - 1e-9))
	if start < 1 {
		start = 1
	}
	for d := start; d < n; d++ {
		if n%d == 0 {
			return d
		}
	}
	return n
}
