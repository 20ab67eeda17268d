// Package feasible decides whether a generated scaling point fits within
// the declared system's capacity. Checks are pure and total; a failed check
// is reported as a reason, never as an error, so campaigns may declare
// aspirational scaling ranges that exceed the current allocation.
package feasible

import (
	"github.com/vk/benchplan/internal/bytesize"
	"github.com/vk/benchplan/internal/config"
)

// Reason identifies which capacity rule a rejected point violated.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonNodes      Reason = "nnodes_exceeds_system"
	ReasonMemPerNode Reason = "mem_per_node_exceeds_free"
	ReasonTotalMem   Reason = "total_mem_exceeds_capacity"
	ReasonCores      Reason = "cores_below_floor"
)

// Demand is the resource requirement of one scaling point. TotalMem and
// MinNCores are zero when the candidate or policy does not declare them.
type Demand struct {
	NNodes     int
	MemPerNode bytesize.Size
	TotalMem   bytesize.Size
	MinNCores  int
}

// Check applies every capacity rule in a fixed order and returns the first
// violated one. All rules must hold for the point to be feasible.
func Check(d Demand, sys *config.SystemDescription) (bool, Reason) {
	if d.NNodes > sys.NNodes {
		return false, ReasonNodes
	}
	if d.MemPerNode > sys.FreeMemPerNode {
		return false, ReasonMemPerNode
	}
	if d.TotalMem > 0 && d.TotalMem.Bytes() > int64(d.NNodes)*sys.FreeMemPerNode.Bytes() {
		return false, ReasonTotalMem
	}
	if d.MinNCores > 0 && d.MinNCores > sys.CoresPerNode {
		return false, ReasonCores
	}
	return true, ReasonNone
}
