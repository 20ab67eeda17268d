// Package report accumulates generation statistics for operator review:
// vectors produced, vectors rejected per feasibility rule, and per-model,
// per-policy breakdowns. The report is informational output, not an
// interchange format for downstream tooling.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/vk/benchplan/internal/feasible"
	"github.com/vk/benchplan/internal/scaling"
)

// Report is the outcome summary of one generation run.
type Report struct {
	Produced         int
	Deduplicated     int
	RejectedByReason map[feasible.Reason]int
	Models           map[string]*ModelStats
	PolicyViolations []scaling.Violation
	MaxVectors       int
}

// ModelStats is the per-model breakdown.
type ModelStats struct {
	Kept     int
	Rejected int
	Policies map[string]*PolicyStats
}

// PolicyStats is the per-policy breakdown within one model.
type PolicyStats struct {
	Kept     int
	Rejected int
}

// New returns an empty report for a run with the given emission cap.
func New(maxVectors int) *Report {
	return &Report{
		RejectedByReason: make(map[feasible.Reason]int),
		Models:           make(map[string]*ModelStats),
		MaxVectors:       maxVectors,
	}
}

func (r *Report) policyStats(model, policy string) *PolicyStats {
	ms, ok := r.Models[model]
	if !ok {
		ms = &ModelStats{Policies: make(map[string]*PolicyStats)}
		r.Models[model] = ms
	}
	ps, ok := ms.Policies[policy]
	if !ok {
		ps = &PolicyStats{}
		ms.Policies[policy] = ps
	}
	return ps
}

// AddKept counts a feasible partial vector.
func (r *Report) AddKept(model, policy string) {
	r.Models[model].Kept++ // model entry exists once AddModel ran
	r.policyStats(model, policy).Kept++
}

// AddModel registers a model so it appears in the report even when it
// contributes nothing.
func (r *Report) AddModel(model string) {
	if _, ok := r.Models[model]; !ok {
		r.Models[model] = &ModelStats{Policies: make(map[string]*PolicyStats)}
	}
}

// AddRejected counts an infeasible partial vector and the rule it violated.
func (r *Report) AddRejected(model, policy string, reason feasible.Reason) {
	r.Models[model].Rejected++
	r.policyStats(model, policy).Rejected++
	r.RejectedByReason[reason]++
}

// AddPolicyViolations records policy-level violations, such as a one_node
// core floor the system does not meet.
func (r *Report) AddPolicyViolations(vs []scaling.Violation) {
	r.PolicyViolations = append(r.PolicyViolations, vs...)
	for _, v := range vs {
		r.RejectedByReason[v.Reason]++
	}
}

// Merge folds another report's counters into this one. Used to combine
// per-model reports collected from parallel expansion.
func (r *Report) Merge(o *Report) {
	r.Produced += o.Produced
	r.Deduplicated += o.Deduplicated
	for reason, n := range o.RejectedByReason {
		r.RejectedByReason[reason] += n
	}
	for name, ms := range o.Models {
		r.AddModel(name)
		dst := r.Models[name]
		dst.Kept += ms.Kept
		dst.Rejected += ms.Rejected
		for policy, ps := range ms.Policies {
			d := r.policyStats(name, policy)
			d.Kept += ps.Kept
			d.Rejected += ps.Rejected
		}
	}
	r.PolicyViolations = append(r.PolicyViolations, o.PolicyViolations...)
}

// Render writes the human-readable summary. Map iteration is sorted so the
// output is stable across runs.
func (r *Report) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "test vectors produced: %d (cap %d)\n", r.Produced, r.MaxVectors); err != nil {
		return err
	}
	if r.Deduplicated > 0 {
		fmt.Fprintf(w, "duplicates collapsed:  %d\n", r.Deduplicated)
	}
	if len(r.RejectedByReason) > 0 {
		fmt.Fprintln(w, "rejected by rule:")
		for _, reason := range sortedKeys(r.RejectedByReason) {
			fmt.Fprintf(w, "  %-28s %d\n", string(reason), r.RejectedByReason[reason])
		}
	}
	for _, v := range r.PolicyViolations {
		fmt.Fprintf(w, "policy %s skipped: %s\n", v.Policy, v.Detail)
	}
	models := make([]string, 0, len(r.Models))
	for name := range r.Models {
		models = append(models, name)
	}
	sort.Strings(models)
	for _, name := range models {
		ms := r.Models[name]
		fmt.Fprintf(w, "model %s: kept %d, rejected %d\n", name, ms.Kept, ms.Rejected)
		policies := make([]string, 0, len(ms.Policies))
		for p := range ms.Policies {
			policies = append(policies, p)
		}
		sort.Strings(policies)
		for _, p := range policies {
			ps := ms.Policies[p]
			fmt.Fprintf(w, "  %-10s kept %d, rejected %d\n", p, ps.Kept, ps.Rejected)
		}
	}
	return nil
}

func sortedKeys(m map[feasible.Reason]int) []feasible.Reason {
	keys := make([]feasible.Reason, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
