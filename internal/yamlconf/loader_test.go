package yamlconf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/benchplan/internal/bytesize"
	"github.com/vk/benchplan/internal/config"
	"github.com/vk/benchplan/internal/vector"
)

const sampleDoc = `
project:
  name: omni-campaign
  test_factors: [model, nnodes, mem_per_node, test_id]
  data_files: [bin, mesh]

bench_vector_generator:
  system_config:
    nnodes: 3328
    cores_per_node: 64
    mem_per_node: 128G
    free_mem_per_node: 120G
    cpu_core_groups: [[0, 31], [32, 63]]
    numa_groups: [[0, 31], [32, 63]]
    numa_mem: [64G, 64G]
  bench_config:
    one_node:
      min_ncores: 4
      mem_options: [5G, 25G, 50G, 100G]
    weak:
      nnodes_min: 1
      nnodes_max: 256
      mem_options: [50G]
  model_config:
    omni:
      type: unstructured_grid
      bench_policies: [one_node, weak]
      candidates:
        - tag: coarse
          total_mem: 40G
          resizable: true
          dim: 3
          extra:
            mesh: m120
  other_factor_values:
    test_id: [0, 1, 2]

case_generator:
  func: mpi
  args:
    bin: /opt/bench/omni
    cpn: 64
`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	model, err := NewLoader().Load(context.Background(), writeDoc(t, sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "omni-campaign", model.Project.Name)
	assert.Equal(t, []string{"model", "nnodes", "mem_per_node", "test_id"}, model.Project.TestFactors)
	assert.Equal(t, "mpi", model.Project.CaseGen.Name)
	assert.Equal(t, vector.String("/opt/bench/omni"), model.Project.CaseGen.Kwargs["bin"])
	assert.Equal(t, vector.Int(64), model.Project.CaseGen.Kwargs["cpn"])

	assert.Equal(t, 3328, model.System.NNodes)
	assert.Equal(t, 128*bytesize.GiB, model.System.MemPerNode)
	assert.Equal(t, []config.Range{{Lo: 0, Hi: 31}, {Lo: 32, Hi: 63}}, model.System.CPUCoreGroups)
	assert.Equal(t, []bytesize.Size{64 * bytesize.GiB, 64 * bytesize.GiB}, model.System.NUMAMem)

	require.NotNil(t, model.Bench.OneNode)
	assert.Equal(t, 4, model.Bench.OneNode.MinNCores)
	assert.Len(t, model.Bench.OneNode.MemOptions, 4)
	require.NotNil(t, model.Bench.Weak)
	assert.Equal(t, 256, model.Bench.Weak.NNodesMax)
	assert.Nil(t, model.Bench.Strong)

	require.Len(t, model.Models, 1)
	mc := model.Models[0]
	assert.Equal(t, "omni", mc.Name)
	assert.Equal(t, "unstructured_grid", mc.Type)
	require.Len(t, mc.Candidates, 1)
	c := mc.Candidates[0]
	assert.Equal(t, "coarse", c.Tag)
	require.NotNil(t, c.TotalMem)
	assert.Equal(t, 40*bytesize.GiB, *c.TotalMem)
	require.NotNil(t, c.Resizable)
	assert.True(t, *c.Resizable)
	assert.Equal(t, vector.String("m120"), c.Extra["mesh"])

	require.Len(t, model.OtherFactors, 1)
	assert.Equal(t, "test_id", model.OtherFactors[0].Name)
	assert.Len(t, model.OtherFactors[0].Values, 3)

	require.NoError(t, model.Validate())
}

func TestLoad_MissingSystemSection(t *testing.T) {
	doc := `
project:
  name: p
`
	_, err := NewLoader().Load(context.Background(), writeDoc(t, doc))
	require.Error(t, err)
	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "bench_vector_generator.system_config", cfgErr.Path)
}

func TestLoad_BadRange(t *testing.T) {
	doc := `
project:
  name: p
bench_vector_generator:
  system_config:
    nnodes: 1
    cores_per_node: 1
    mem_per_node: 1G
    free_mem_per_node: 1G
    cpu_core_groups: [[0, 1, 2]]
`
	_, err := NewLoader().Load(context.Background(), writeDoc(t, doc))
	require.Error(t, err)
	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "bench_vector_generator.system_config.cpu_core_groups", cfgErr.Path)
}

func TestLoad_NonIntegerFactorValue(t *testing.T) {
	doc := `
project:
  name: p
bench_vector_generator:
  system_config:
    nnodes: 1
    cores_per_node: 1
    mem_per_node: 1G
    free_mem_per_node: 1G
  other_factor_values:
    ratio: [1.5]
`
	_, err := NewLoader().Load(context.Background(), writeDoc(t, doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "other_factor_values.ratio[0]")
}

func TestLoad_ModelNamesSorted(t *testing.T) {
	doc := `
project:
  name: p
bench_vector_generator:
  system_config:
    nnodes: 1
    cores_per_node: 1
    mem_per_node: 1G
    free_mem_per_node: 1G
  model_config:
    zephyr:
      bench_policies: [weak]
      candidates: [{tag: c0}]
    aurora:
      bench_policies: [weak]
      candidates: [{tag: c0}]
`
	model, err := NewLoader().Load(context.Background(), writeDoc(t, doc))
	require.NoError(t, err)
	require.Len(t, model.Models, 2)
	assert.Equal(t, "aurora", model.Models[0].Name)
	assert.Equal(t, "zephyr", model.Models[1].Name)
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
