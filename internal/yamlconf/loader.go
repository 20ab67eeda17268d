// Package yamlconf loads project configuration documents written in YAML
// (or JSON, which YAML subsumes) and translates them into the
// format-agnostic config model. The document layout follows the classic
// test-project shape: a project section, a bench_vector_generator section
// and a case_generator selection.
package yamlconf

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vk/benchplan/internal/bytesize"
	"github.com/vk/benchplan/internal/config"
	"github.com/vk/benchplan/internal/ctxlog"
	"github.com/vk/benchplan/internal/vector"
)

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML project loader.
func NewLoader() *Loader {
	return &Loader{}
}

type document struct {
	Project struct {
		Name        string   `yaml:"name"`
		TestFactors []string `yaml:"test_factors"`
		DataFiles   []string `yaml:"data_files"`
	} `yaml:"project"`
	Generator struct {
		SystemConfig *systemDoc          `yaml:"system_config"`
		BenchConfig  benchDoc            `yaml:"bench_config"`
		ModelConfig  map[string]modelDoc `yaml:"model_config"`
		OtherFactors map[string][]any    `yaml:"other_factor_values"`
	} `yaml:"bench_vector_generator"`
	CaseGenerator struct {
		Func string         `yaml:"func"`
		Args map[string]any `yaml:"args"`
	} `yaml:"case_generator"`
}

type systemDoc struct {
	NNodes         int             `yaml:"nnodes"`
	CoresPerNode   int             `yaml:"cores_per_node"`
	MemPerNode     bytesize.Size   `yaml:"mem_per_node"`
	FreeMemPerNode bytesize.Size   `yaml:"free_mem_per_node"`
	CPUCoreGroups  [][]int         `yaml:"cpu_core_groups"`
	NUMAGroups     [][]int         `yaml:"numa_groups"`
	NUMAMem        []bytesize.Size `yaml:"numa_mem"`
}

type benchDoc struct {
	OneNode *oneNodeDoc `yaml:"one_node"`
	Weak    *weakDoc    `yaml:"weak"`
	Strong  *strongDoc  `yaml:"strong"`
}

type oneNodeDoc struct {
	MinNCores  int             `yaml:"min_ncores"`
	MemOptions []bytesize.Size `yaml:"mem_options"`
}

type weakDoc struct {
	NNodesMin  int             `yaml:"nnodes_min"`
	NNodesMax  int             `yaml:"nnodes_max"`
	Step       int             `yaml:"step"`
	MemOptions []bytesize.Size `yaml:"mem_options"`
}

type strongDoc struct {
	BaseNNodes  []int           `yaml:"base_nnodes"`
	MaxMultiple int             `yaml:"max_multiple"`
	MaxNNodes   int             `yaml:"max_nnodes"`
	Step        int             `yaml:"step"`
	MemOptions  []bytesize.Size `yaml:"mem_options"`
}

type modelDoc struct {
	Type          string         `yaml:"type"`
	BenchPolicies []string       `yaml:"bench_policies"`
	Candidates    []candidateDoc `yaml:"candidates"`
}

type candidateDoc struct {
	Tag        string         `yaml:"tag"`
	NNodes     *int           `yaml:"nnodes"`
	MemPerNode *bytesize.Size `yaml:"mem_per_node"`
	TotalMem   *bytesize.Size `yaml:"total_mem"`
	Resizable  *bool          `yaml:"resizable"`
	Dim        *int           `yaml:"dim"`
	Type       string         `yaml:"type"`
	Extra      map[string]any `yaml:"extra"`
}

// Load parses one project document and translates it into the agnostic
// model. Malformed fields surface as *config.Error with a field path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	model, err := translate(&doc)
	if err != nil {
		return nil, err
	}
	logger.Debug("YAML document translated into unified model.",
		"models", len(model.Models), "factors", len(model.Project.TestFactors))
	return model, nil
}

func translate(doc *document) (*config.Model, error) {
	model := &config.Model{}
	model.Project.Name = doc.Project.Name
	model.Project.TestFactors = doc.Project.TestFactors
	model.Project.DataFiles = doc.Project.DataFiles
	model.Project.CaseGen.Name = doc.CaseGenerator.Func

	if len(doc.CaseGenerator.Args) > 0 {
		kwargs := make(map[string]vector.Value, len(doc.CaseGenerator.Args))
		for k, v := range doc.CaseGenerator.Args {
			val, err := toValue(v)
			if err != nil {
				return nil, config.WrapErr("case_generator.args."+k, err)
			}
			kwargs[k] = val
		}
		model.Project.CaseGen.Kwargs = kwargs
	}

	if doc.Generator.SystemConfig == nil {
		return nil, config.Errorf("bench_vector_generator.system_config", "section is required")
	}
	if err := translateSystem(doc.Generator.SystemConfig, &model.System); err != nil {
		return nil, err
	}
	translateBench(&doc.Generator.BenchConfig, &model.Bench)

	names := make([]string, 0, len(doc.Generator.ModelConfig))
	for name := range doc.Generator.ModelConfig {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		mc, err := translateModel(name, doc.Generator.ModelConfig[name])
		if err != nil {
			return nil, err
		}
		model.Models = append(model.Models, mc)
	}

	ofs, err := translateOtherFactors(doc.Generator.OtherFactors)
	if err != nil {
		return nil, err
	}
	model.OtherFactors = ofs
	return model, nil
}

func translateSystem(doc *systemDoc, out *config.SystemDescription) error {
	out.NNodes = doc.NNodes
	out.CoresPerNode = doc.CoresPerNode
	out.MemPerNode = doc.MemPerNode
	out.FreeMemPerNode = doc.FreeMemPerNode
	out.NUMAMem = doc.NUMAMem

	var err error
	if out.CPUCoreGroups, err = toRanges(doc.CPUCoreGroups); err != nil {
		return config.WrapErr("bench_vector_generator.system_config.cpu_core_groups", err)
	}
	if out.NUMAGroups, err = toRanges(doc.NUMAGroups); err != nil {
		return config.WrapErr("bench_vector_generator.system_config.numa_groups", err)
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

func translateBench(doc *benchDoc, out *config.BenchConfig) {
	if d := doc.OneNode; d != nil {
		out.OneNode = &config.OneNodeSpec{MinNCores: d.MinNCores, MemOptions: d.MemOptions}
	}
	if d := doc.Weak; d != nil {
		out.Weak = &config.WeakSpec{
			NNodesMin:  d.NNodesMin,
			NNodesMax:  d.NNodesMax,
			Step:       d.Step,
			MemOptions: d.MemOptions,
		}
	}
	if d := doc.Strong; d != nil {
		out.Strong = &config.StrongSpec{
			BaseNNodes:  d.BaseNNodes,
			MaxMultiple: d.MaxMultiple,
			MaxNNodes:   d.MaxNNodes,
			Step:        d.Step,
			MemOptions:  d.MemOptions,
		}
	}
}

func translateModel(name string, doc modelDoc) (*config.ModelConfig, error) {
	mc := &config.ModelConfig{
		Name:          name,
		Type:          doc.Type,
		BenchPolicies: doc.BenchPolicies,
	}
	for i, cd := range doc.Candidates {
		c := &config.Candidate{
			Tag:        cd.Tag,
			NNodes:     cd.NNodes,
			MemPerNode: cd.MemPerNode,
			TotalMem:   cd.TotalMem,
			Resizable:  cd.Resizable,
			Dim:        cd.Dim,
			MeshType:   cd.Type,
		}
		if len(cd.Extra) > 0 {
			c.Extra = make(map[string]vector.Value, len(cd.Extra))
			for k, v := range cd.Extra {
				val, err := toValue(v)
				if err != nil {
					return nil, config.WrapErr(
						fmt.Sprintf("bench_vector_generator.model_config.%s.candidates[%d].extra.%s", name, i, k), err)
				}
				c.Extra[k] = val
			}
		}
		mc.Candidates = append(mc.Candidates, c)
	}
	return mc, nil
}

// translateOtherFactors sorts factor names so the cross order stays
// deterministic; YAML map order is not meaningful.
func translateOtherFactors(raw map[string][]any) ([]config.OtherFactor, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []config.OtherFactor
	for _, name := range names {
		values := make([]vector.Value, 0, len(raw[name]))
		for i, v := range raw[name] {
			val, err := toValue(v)
			if err != nil {
				return nil, config.WrapErr(
					fmt.Sprintf("bench_vector_generator.other_factor_values.%s[%d]", name, i), err)
			}
			values = append(values, val)
		}
		out = append(out, config.OtherFactor{Name: name, Values: values})
	}
	return out, nil
}

// toValue converts a decoded YAML scalar into a factor value.
func toValue(v any) (vector.Value, error) {
	switch x := v.(type) {
	case string:
		return vector.String(x), nil
	case bool:
		return vector.Bool(x), nil
	case int:
		return vector.Int(int64(x)), nil
	case int64:
		return vector.Int(x), nil
	case float64:
		n := int64(x)
		if float64(n) != x {
			return vector.Value{}, fmt.Errorf("number %v must be an integer", x)
		}
		return vector.Int(n), nil
	default:
		return vector.Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}
