// Package generator orchestrates the test vector generation pipeline:
// scaling policy expansion, per-model candidate expansion, feasibility
// filtering, other-factor crossing, deduplication and the final
// deterministic ordering.
package generator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/benchplan/internal/config"
	"github.com/vk/benchplan/internal/ctxlog"
	"github.com/vk/benchplan/internal/expand"
	"github.com/vk/benchplan/internal/feasible"
	"github.com/vk/benchplan/internal/report"
	"github.com/vk/benchplan/internal/scaling"
	"github.com/vk/benchplan/internal/vector"
)

// DefaultMaxVectors caps the total number of emitted vectors. The cap
// exists to turn a runaway configuration (such as an oversized
// max_multiple) into a diagnostic instead of memory exhaustion.
const DefaultMaxVectors = 200000

// LimitError is returned when generation hits the emission cap. It almost
// always signals a configuration error rather than a genuinely huge
// campaign.
type LimitError struct {
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("generation exceeded the cap of %d test vectors; "+
		"check the scaling ranges or raise -max-vectors", e.Limit)
}

// Options tune a generation run.
type Options struct {
	// MaxVectors overrides DefaultMaxVectors when positive.
	MaxVectors int
	// Parallel expands models concurrently. The output is identical either
	// way; the final dedup and sort are order-independent.
	Parallel bool
}

// Result is the produced artifact: the ordered vector sequence plus the
// generation report.
type Result struct {
	Vectors []*vector.TestVector
	Report  *report.Report
}

// Generator runs the pipeline over one validated configuration model.
type Generator struct {
	cfg  *config.Model
	opts Options
}

// New creates a Generator. The configuration must already have passed
// Validate.
func New(cfg *config.Model, opts Options) *Generator {
	if opts.MaxVectors <= 0 {
		opts.MaxVectors = DefaultMaxVectors
	}
	return &Generator{cfg: cfg, opts: opts}
}

// modelResult is the per-model intermediate collected before assembly.
type modelResult struct {
	kept []expand.PartialVector
	rep  *report.Report
}

// Run executes the whole pipeline. The returned vector sequence is
// deterministic: identical input yields a byte-identical ordered output.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	rep := report.New(g.opts.MaxVectors)

	pairs, err := g.expandPolicies(rep)
	if err != nil {
		return nil, err
	}
	logger.Debug("Scaling policies expanded.", "policies", len(pairs))

	results := make([]*modelResult, len(g.cfg.Models))
	if g.opts.Parallel {
		eg, _ := errgroup.WithContext(ctx)
		for i, mc := range g.cfg.Models {
			i, mc := i, mc
			eg.Go(func() error {
				results[i] = g.expandModel(mc, pairs)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, mc := range g.cfg.Models {
			results[i] = g.expandModel(mc, pairs)
		}
	}

	// Collection order is fixed by the declared model order regardless of
	// how expansion ran, so the assembly below sees identical input.
	var feasiblePVs []expand.PartialVector
	for _, res := range results {
		feasiblePVs = append(feasiblePVs, res.kept...)
		rep.Merge(res.rep)
	}
	logger.Debug("Models expanded.", "feasible_partials", len(feasiblePVs))

	vectors, err := g.assemble(feasiblePVs, rep)
	if err != nil {
		return nil, err
	}

	vector.Sort(vectors)
	rep.Produced = len(vectors)
	logger.Info("Generation complete.", "vectors", len(vectors))
	return &Result{Vectors: vectors, Report: rep}, nil
}

// expandPolicies expands every configured policy once; models share the
// resulting pair sequences.
func (g *Generator) expandPolicies(rep *report.Report) (map[string][]scaling.Pair, error) {
	pairs := make(map[string][]scaling.Pair)
	for _, policy := range g.cfg.Bench.Policies() {
		ps, violations, err := scaling.Expand(policy, &g.cfg.Bench, &g.cfg.System)
		if err != nil {
			return nil, config.WrapErr("bench_config."+policy, err)
		}
		rep.AddPolicyViolations(violations)
		pairs[policy] = ps
	}
	return pairs, nil
}

// expandModel runs candidate expansion and the feasibility filter for one
// model, accumulating its own report so models can expand in parallel.
func (g *Generator) expandModel(mc *config.ModelConfig, pairs map[string][]scaling.Pair) *modelResult {
	res := &modelResult{rep: report.New(g.opts.MaxVectors)}
	res.rep.AddModel(mc.Name)
	for _, pv := range expand.Model(mc, &g.cfg.Bench, pairs) {
		ok, reason := feasible.Check(feasible.Demand{
			NNodes:     pv.NNodes,
			MemPerNode: pv.MemPerNode,
			TotalMem:   pv.TotalMem,
			MinNCores:  pv.MinNCores,
		}, &g.cfg.System)
		if !ok {
			res.rep.AddRejected(pv.Model, pv.Policy, reason)
			continue
		}
		res.rep.AddKept(pv.Model, pv.Policy)
		res.kept = append(res.kept, pv)
	}
	return res
}

// factorValues builds the full value pool a partial vector can satisfy
// declared factors from: the scaling point, the candidate extras and the
// provenance names for projects that declare them as factors.
func factorValues(pv *expand.PartialVector) map[string]vector.Value {
	vals := make(map[string]vector.Value, len(pv.Extra)+5)
	for k, v := range pv.Extra {
		vals[k] = v
	}
	vals["nnodes"] = vector.Int(int64(pv.NNodes))
	vals["mem_per_node"] = vector.Size(pv.MemPerNode)
	vals["model"] = vector.String(pv.Model)
	vals["bench"] = vector.String(pv.Policy)
	vals["tag"] = vector.String(pv.Tag)
	return vals
}
