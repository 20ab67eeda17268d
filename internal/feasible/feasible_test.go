package feasible

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/benchplan/internal/bytesize"
	"github.com/vk/benchplan/internal/config"
)

func TestCheck(t *testing.T) {
	sys := &config.SystemDescription{
		NNodes:         16,
		CoresPerNode:   32,
		MemPerNode:     128 * bytesize.GiB,
		FreeMemPerNode: 120 * bytesize.GiB,
	}

	testCases := []struct {
		name   string
		demand Demand
		ok     bool
		reason Reason
	}{
		{
			name:   "fits",
			demand: Demand{NNodes: 16, MemPerNode: 120 * bytesize.GiB},
			ok:     true,
			reason: ReasonNone,
		},
		{
			name:   "too many nodes",
			demand: Demand{NNodes: 17, MemPerNode: bytesize.GiB},
			ok:     false,
			reason: ReasonNodes,
		},
		{
			name:   "per-node memory exceeds free",
			demand: Demand{NNodes: 1, MemPerNode: 121 * bytesize.GiB},
			ok:     false,
			reason: ReasonMemPerNode,
		},
		{
			name:   "total memory exceeds aggregate free",
			demand: Demand{NNodes: 2, MemPerNode: 100 * bytesize.GiB, TotalMem: 241 * bytesize.GiB},
			ok:     false,
			reason: ReasonTotalMem,
		},
		{
			name:   "total memory exactly at aggregate free",
			demand: Demand{NNodes: 2, MemPerNode: 100 * bytesize.GiB, TotalMem: 240 * bytesize.GiB},
			ok:     true,
			reason: ReasonNone,
		},
		{
			name:   "core floor not met",
			demand: Demand{NNodes: 1, MemPerNode: bytesize.GiB, MinNCores: 33},
			ok:     false,
			reason: ReasonCores,
		},
		{
			name:   "zero total memory is unconstrained",
			demand: Demand{NNodes: 1, MemPerNode: bytesize.GiB},
			ok:     true,
			reason: ReasonNone,
		},
		{
			name:   "node rule checked before memory rule",
			demand: Demand{NNodes: 100, MemPerNode: 500 * bytesize.GiB},
			ok:     false,
			reason: ReasonNodes,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := Check(tc.demand, sys)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.reason, reason)
		})
	}
}
