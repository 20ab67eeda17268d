// Package hclconf loads project configuration documents written in HCL and
// translates them into the format-agnostic config model.
package hclconf

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/benchplan/internal/bytesize"
	"github.com/vk/benchplan/internal/config"
	"github.com/vk/benchplan/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL project loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses one project document and translates it into the agnostic
// model. Malformed fields surface as *config.Error with a field path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", path, diags)
	}

	model, err := translate(&root)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL document translated into unified model.",
		"models", len(model.Models), "factors", len(model.Project.TestFactors))
	return model, nil
}

func translate(root *fileRoot) (*config.Model, error) {
	model := &config.Model{}

	if root.Project == nil {
		return nil, config.Errorf("project", "project block is required")
	}
	if err := translateProject(root.Project, &model.Project); err != nil {
		return nil, err
	}

	if root.System == nil {
		return nil, config.Errorf("system_config", "system block is required")
	}
	if err := translateSystem(root.System, &model.System); err != nil {
		return nil, err
	}

	for _, b := range root.Benches {
		if err := translateBench(b, &model.Bench); err != nil {
			return nil, err
		}
	}

	for _, mb := range root.Models {
		mc, err := translateModel(mb)
		if err != nil {
			return nil, err
		}
		model.Models = append(model.Models, mc)
	}

	if root.Other != nil {
		ofs, err := translateOtherFactors(root.Other)
		if err != nil {
			return nil, err
		}
		model.OtherFactors = ofs
	}
	return model, nil
}

func translateProject(b *projectBlock, out *config.Project) error {
	out.Name = b.Name
	out.TestFactors = b.TestFactors
	out.DataFiles = b.DataFiles
	if b.CaseGen == nil {
		return nil // validation reports the missing generator
	}
	out.CaseGen.Name = b.CaseGen.Name
	if b.CaseGen.Kwargs == nil {
		return nil
	}
	v, diags := b.CaseGen.Kwargs.Value(nil)
	if diags.HasErrors() {
		return config.WrapErr("project.case_generator.kwargs", diags)
	}
	kwargs, err := toValueMap(v)
	if err != nil {
		return config.WrapErr("project.case_generator.kwargs", err)
	}
	out.CaseGen.Kwargs = kwargs
	return nil
}

func translateSystem(b *systemBlock, out *config.SystemDescription) error {
	out.NNodes = b.NNodes
	out.CoresPerNode = b.CoresPerNode

	var err error
	if out.MemPerNode, err = bytesize.Parse(b.MemPerNode); err != nil {
		return config.WrapErr("system_config.mem_per_node", err)
	}
	if out.FreeMemPerNode, err = bytesize.Parse(b.FreeMemPerNode); err != nil {
		return config.WrapErr("system_config.free_mem_per_node", err)
	}
	if out.CPUCoreGroups, err = toRanges(b.CPUCoreGroups); err != nil {
		return config.WrapErr("system_config.cpu_core_groups", err)
	}
	if out.NUMAGroups, err = toRanges(b.NUMAGroups); err != nil {
		return config.WrapErr("system_config.numa_groups", err)
	}
	for i, s := range b.NUMAMem {
		m, err := bytesize.Parse(s)
		if err != nil {
			return config.WrapErr(fmt.Sprintf("system_config.numa_mem[%d]", i), err)
		}
		out.NUMAMem = append(out.NUMAMem, m)
	}
	return nil
}

func toRanges(raw [][]int) ([]config.Range, error) {
	var out []config.Range
	for i, r := range raw {
		if len(r) != 2 {
			return nil, fmt.Errorf("range %d must be a [lo, hi] pair, got %v", i, r)
		}
		out = append(out, config.Range{Lo: r[0], Hi: r[1]})
	}
	return out, nil
}

func translateBench(b *benchBlock, out *config.BenchConfig) error {
	path := "bench_config." + b.Policy
	if out.Has(b.Policy) {
		return config.Errorf(path, "policy configured twice")
	}
	switch b.Policy {
	case config.PolicyOneNode:
		var spec oneNodeSpec
		if diags := gohcl.DecodeBody(b.Body, nil, &spec); diags.HasErrors() {
			return config.WrapErr(path, diags)
		}
		mem, err := parseSizes(spec.MemOptions)
		if err != nil {
			return config.WrapErr(path+".mem_options", err)
		}
		out.OneNode = &config.OneNodeSpec{MinNCores: spec.MinNCores, MemOptions: mem}
	case config.PolicyWeak:
		var spec weakSpec
		if diags := gohcl.DecodeBody(b.Body, nil, &spec); diags.HasErrors() {
			return config.WrapErr(path, diags)
		}
		mem, err := parseSizes(spec.MemOptions)
		if err != nil {
			return config.WrapErr(path+".mem_options", err)
		}
		out.Weak = &config.WeakSpec{
			NNodesMin:  spec.NNodesMin,
			NNodesMax:  spec.NNodesMax,
			Step:       spec.Step,
			MemOptions: mem,
		}
	case config.PolicyStrong:
		var spec strongSpec
		if diags := gohcl.DecodeBody(b.Body, nil, &spec); diags.HasErrors() {
			return config.WrapErr(path, diags)
		}
		mem, err := parseSizes(spec.MemOptions)
		if err != nil {
			return config.WrapErr(path+".mem_options", err)
		}
		out.Strong = &config.StrongSpec{
			BaseNNodes:  spec.BaseNNodes,
			MaxMultiple: spec.MaxMultiple,
			MaxNNodes:   spec.MaxNNodes,
			Step:        spec.Step,
			MemOptions:  mem,
		}
	default:
		return config.Errorf(path, "unknown policy %q (known: %s, %s, %s)",
			b.Policy, config.PolicyOneNode, config.PolicyWeak, config.PolicyStrong)
	}
	return nil
}

func parseSizes(raw []string) ([]bytesize.Size, error) {
	var out []bytesize.Size
	for _, s := range raw {
		v, err := bytesize.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func translateModel(b *modelBlock) (*config.ModelConfig, error) {
	mc := &config.ModelConfig{
		Name:          b.Name,
		Type:          b.Type,
		BenchPolicies: b.BenchPolicies,
	}
	for i, cb := range b.Candidates {
		path := fmt.Sprintf("model_config.%s.candidates[%d]", b.Name, i)
		c := &config.Candidate{
			Tag:       cb.Tag,
			NNodes:    cb.NNodes,
			Resizable: cb.Resizable,
			Dim:       cb.Dim,
			MeshType:  cb.Type,
		}
		var err error
		if c.MemPerNode, err = parseOptSize(cb.MemPerNode); err != nil {
			return nil, config.WrapErr(path+".mem_per_node", err)
		}
		if c.TotalMem, err = parseOptSize(cb.TotalMem); err != nil {
			return nil, config.WrapErr(path+".total_mem", err)
		}
		if cb.Extra != nil {
			v, diags := cb.Extra.Value(nil)
			if diags.HasErrors() {
				return nil, config.WrapErr(path+".extra", diags)
			}
			if c.Extra, err = toValueMap(v); err != nil {
				return nil, config.WrapErr(path+".extra", err)
			}
		}
		mc.Candidates = append(mc.Candidates, c)
	}
	return mc, nil
}

func parseOptSize(raw *string) (*bytesize.Size, error) {
	if raw == nil {
		return nil, nil
	}
	v, err := bytesize.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// translateOtherFactors reads the free-form attributes of the
// other_factors block. Attribute order in an HCL body is not meaningful,
// so names are sorted to keep the cross order deterministic.
func translateOtherFactors(b *otherBlock) ([]config.OtherFactor, error) {
	attrs, diags := b.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, config.WrapErr("other_factor_values", diags)
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []config.OtherFactor
	for _, name := range names {
		v, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, config.WrapErr("other_factor_values."+name, diags)
		}
		values, err := toValueList(v)
		if err != nil {
			return nil, config.WrapErr("other_factor_values."+name, err)
		}
		out = append(out, config.OtherFactor{Name: name, Values: values})
	}
	return out, nil
}
