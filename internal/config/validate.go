package config

import "fmt"

// Validate walks the whole configuration tree and returns the first
// violation as an *Error carrying the offending field path. A Model that
// validates cleanly is safe to hand to the generator.
func (m *Model) Validate() error {
	if err := m.Project.validate(); err != nil {
		return err
	}
	if err := m.System.validate("system_config"); err != nil {
		return err
	}
	if err := m.Bench.validate("bench_config"); err != nil {
		return err
	}
	if err := m.validateModels(); err != nil {
		return err
	}
	return m.validateOtherFactors()
}

func (p *Project) validate() error {
	if p.Name == "" {
		return Errorf("project.name", "must not be empty")
	}
	if len(p.TestFactors) == 0 {
		return Errorf("project.test_factors", "at least one factor is required")
	}
	seen := make(map[string]struct{}, len(p.TestFactors))
	for i, f := range p.TestFactors {
		if f == "" {
			return Errorf(fmt.Sprintf("project.test_factors[%d]", i), "must not be empty")
		}
		if _, dup := seen[f]; dup {
			return Errorf(fmt.Sprintf("project.test_factors[%d]", i), "duplicate factor %q", f)
		}
		seen[f] = struct{}{}
	}
	if p.CaseGen.Name == "" {
		return Errorf("project.case_generator", "generator name is required")
	}
	return nil
}

func (s *SystemDescription) validate(path string) error {
	if s.NNodes <= 0 {
		return Errorf(path+".nnodes", "must be positive, got %d", s.NNodes)
	}
	if s.CoresPerNode <= 0 {
		return Errorf(path+".cores_per_node", "must be positive, got %d", s.CoresPerNode)
	}
	if s.MemPerNode <= 0 {
		return Errorf(path+".mem_per_node", "must be positive")
	}
	if s.FreeMemPerNode <= 0 {
		return Errorf(path+".free_mem_per_node", "must be positive")
	}
	if s.FreeMemPerNode > s.MemPerNode {
		return Errorf(path+".free_mem_per_node", "%s exceeds mem_per_node %s",
			s.FreeMemPerNode, s.MemPerNode)
	}
	if len(s.NUMAMem) != len(s.NUMAGroups) {
		return Errorf(path+".numa_mem", "got %d entries for %d numa groups",
			len(s.NUMAMem), len(s.NUMAGroups))
	}
	for i, r := range s.CPUCoreGroups {
		if r.Lo < 0 || r.Hi < r.Lo {
			return Errorf(fmt.Sprintf("%s.cpu_core_groups[%d]", path, i),
				"invalid range [%d, %d]", r.Lo, r.Hi)
		}
	}
	for i, r := range s.NUMAGroups {
		if r.Lo < 0 || r.Hi < r.Lo {
			return Errorf(fmt.Sprintf("%s.numa_groups[%d]", path, i),
				"invalid range [%d, %d]", r.Lo, r.Hi)
		}
	}
	return nil
}

func (b *BenchConfig) validate(path string) error {
	if b.OneNode == nil && b.Weak == nil && b.Strong == nil {
		return Errorf(path, "at least one scaling policy must be configured")
	}
	if s := b.OneNode; s != nil {
		if s.MinNCores <= 0 {
			return Errorf(path+".one_node.min_ncores", "must be positive, got %d", s.MinNCores)
		}
	}
	if s := b.Weak; s != nil {
		if s.NNodesMin <= 0 {
			return Errorf(path+".weak.nnodes_min", "must be positive, got %d", s.NNodesMin)
		}
		if s.NNodesMax < s.NNodesMin {
			return Errorf(path+".weak.nnodes_max", "%d is below nnodes_min %d",
				s.NNodesMax, s.NNodesMin)
		}
		if s.Step < 0 || s.Step == 1 {
			return Errorf(path+".weak.step", "geometric step must be >= 2, got %d", s.Step)
		}
	}
	if s := b.Strong; s != nil {
		if len(s.BaseNNodes) == 0 {
			return Errorf(path+".strong.base_nnodes", "at least one base is required")
		}
		if s.MaxMultiple <= 0 {
			return Errorf(path+".strong.max_multiple", "must be positive, got %d", s.MaxMultiple)
		}
		if s.MaxNNodes <= 0 {
			return Errorf(path+".strong.max_nnodes", "must be positive, got %d", s.MaxNNodes)
		}
		if s.Step < 0 || s.Step == 1 {
			return Errorf(path+".strong.step", "geometric step must be >= 2, got %d", s.Step)
		}
		for i, base := range s.BaseNNodes {
			if base <= 0 {
				return Errorf(fmt.Sprintf("%s.strong.base_nnodes[%d]", path, i),
					"must be positive, got %d", base)
			}
			if base > s.MaxNNodes {
				return Errorf(fmt.Sprintf("%s.strong.base_nnodes[%d]", path, i),
					"base %d exceeds max_nnodes %d", base, s.MaxNNodes)
			}
		}
	}
	return nil
}

func (m *Model) validateModels() error {
	if len(m.Models) == 0 {
		return Errorf("model_config", "at least one model is required")
	}
	names := make(map[string]struct{}, len(m.Models))
	for i, mc := range m.Models {
		path := fmt.Sprintf("model_config[%d]", i)
		if mc.Name != "" {
			path = "model_config." + mc.Name
		}
		if mc.Name == "" {
			return Errorf(path+".name", "must not be empty")
		}
		if _, dup := names[mc.Name]; dup {
			return Errorf(path, "duplicate model name %q", mc.Name)
		}
		names[mc.Name] = struct{}{}
		if len(mc.BenchPolicies) == 0 {
			return Errorf(path+".bench_policies", "at least one policy is required")
		}
		for j, p := range mc.BenchPolicies {
			if !m.Bench.Has(p) {
				return Errorf(fmt.Sprintf("%s.bench_policies[%d]", path, j),
					"unknown policy %q (configured: %v)", p, m.Bench.Policies())
			}
		}
		if len(mc.Candidates) == 0 {
			return Errorf(path+".candidates", "at least one candidate is required")
		}
		tags := make(map[string]struct{}, len(mc.Candidates))
		for j, c := range mc.Candidates {
			cpath := fmt.Sprintf("%s.candidates[%d]", path, j)
			if c.Tag == "" {
				return Errorf(cpath+".tag", "must not be empty")
			}
			if _, dup := tags[c.Tag]; dup {
				return Errorf(cpath+".tag", "duplicate tag %q", c.Tag)
			}
			tags[c.Tag] = struct{}{}
			if c.NNodes != nil && *c.NNodes <= 0 {
				return Errorf(cpath+".nnodes", "must be positive, got %d", *c.NNodes)
			}
			if c.Dim != nil && *c.Dim <= 0 {
				return Errorf(cpath+".dim", "must be positive, got %d", *c.Dim)
			}
		}
	}
	return nil
}

func (m *Model) validateOtherFactors() error {
	declared := make(map[string]struct{}, len(m.Project.TestFactors))
	for _, f := range m.Project.TestFactors {
		declared[f] = struct{}{}
	}
	seen := make(map[string]struct{}, len(m.OtherFactors))
	for i, of := range m.OtherFactors {
		path := fmt.Sprintf("other_factor_values[%d]", i)
		if of.Name != "" {
			path = "other_factor_values." + of.Name
		}
		if of.Name == "" {
			return Errorf(path, "factor name must not be empty")
		}
		if _, dup := seen[of.Name]; dup {
			return Errorf(path, "duplicate factor %q", of.Name)
		}
		seen[of.Name] = struct{}{}
		if _, ok := declared[of.Name]; !ok {
			return Errorf(path, "factor %q is not declared in project.test_factors", of.Name)
		}
		if len(of.Values) == 0 {
			return Errorf(path, "value list must not be empty")
		}
	}
	return nil
}
