package hclconf

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of a project document.
type fileRoot struct {
	Project *projectBlock `hcl:"project,block"`
	System  *systemBlock  `hcl:"system,block"`
	Benches []*benchBlock `hcl:"bench,block"`
	Models  []*modelBlock `hcl:"model,block"`
	Other   *otherBlock   `hcl:"other_factors,block"`
	Remain  hcl.Body      `hcl:",remain"`
}

type projectBlock struct {
	Name        string        `hcl:"name,label"`
	TestFactors []string      `hcl:"test_factors"`
	DataFiles   []string      `hcl:"data_files,optional"`
	CaseGen     *caseGenBlock `hcl:"case_generator,block"`
}

type caseGenBlock struct {
	Name   string         `hcl:"name,label"`
	Kwargs hcl.Expression `hcl:"kwargs,optional"`
}

type systemBlock struct {
	NNodes         int      `hcl:"nnodes"`
	CoresPerNode   int      `hcl:"cores_per_node"`
	MemPerNode     string   `hcl:"mem_per_node"`
	FreeMemPerNode string   `hcl:"free_mem_per_node"`
	CPUCoreGroups  [][]int  `hcl:"cpu_core_groups,optional"`
	NUMAGroups     [][]int  `hcl:"numa_groups,optional"`
	NUMAMem        []string `hcl:"numa_mem,optional"`
}

// benchBlock is one `bench "<policy>" {}` block; the body is decoded per
// policy into the matching spec schema below.
type benchBlock struct {
	Policy string   `hcl:"policy,label"`
	Body   hcl.Body `hcl:",remain"`
}

type oneNodeSpec struct {
	MinNCores  int      `hcl:"min_ncores"`
	MemOptions []string `hcl:"mem_options"`
}

type weakSpec struct {
	NNodesMin  int      `hcl:"nnodes_min"`
	NNodesMax  int      `hcl:"nnodes_max"`
	Step       int      `hcl:"step,optional"`
	MemOptions []string `hcl:"mem_options"`
}

type strongSpec struct {
	BaseNNodes  []int    `hcl:"base_nnodes"`
	MaxMultiple int      `hcl:"max_multiple"`
	MaxNNodes   int      `hcl:"max_nnodes"`
	Step        int      `hcl:"step,optional"`
	MemOptions  []string `hcl:"mem_options"`
}

type modelBlock struct {
	Name          string            `hcl:"name,label"`
	Type          string            `hcl:"type,optional"`
	BenchPolicies []string          `hcl:"bench_policies"`
	Candidates    []*candidateBlock `hcl:"candidate,block"`
}

type candidateBlock struct {
	Tag        string         `hcl:"tag,label"`
	NNodes     *int           `hcl:"nnodes,optional"`
	MemPerNode *string        `hcl:"mem_per_node,optional"`
	TotalMem   *string        `hcl:"total_mem,optional"`
	Resizable  *bool          `hcl:"resizable,optional"`
	Dim        *int           `hcl:"dim,optional"`
	Type       string         `hcl:"type,optional"`
	Extra      hcl.Expression `hcl:"extra,optional"`
}

// otherBlock holds free-form `name = [values...]` attributes.
type otherBlock struct {
	Body hcl.Body `hcl:",remain"`
}
