package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/benchplan/internal/casegen"
	"github.com/vk/benchplan/internal/config"
	"github.com/vk/benchplan/internal/ctxlog"
	"github.com/vk/benchplan/internal/fsutil"
	"github.com/vk/benchplan/internal/generator"
	"github.com/vk/benchplan/internal/hclconf"
	"github.com/vk/benchplan/internal/vector"
	"github.com/vk/benchplan/internal/yamlconf"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	logger.Debug("Logger configured successfully.")
	return &App{outW: outW, logger: logger, cfg: cfg}
}

// loaderFor selects the project loader from the document's file extension.
func loaderFor(path string) config.Loader {
	if ext(path) == ".hcl" {
		return hclconf.NewLoader()
	}
	return yamlconf.NewLoader()
}

// Run executes the main application logic: load, validate, generate,
// build cases, emit.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	path, err := fsutil.ResolveProjectFile(a.cfg.ProjectPath, ".hcl", ".yaml", ".yml", ".json")
	if err != nil {
		return fmt.Errorf("failed to locate project: %w", err)
	}

	model, err := loaderFor(path).Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	a.logger.Debug("Project loaded and translated into unified model.")

	if err := model.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}
	a.logger.Debug("Project validation passed.")

	var builder casegen.Builder
	if a.cfg.EmitCases {
		builder, err = casegen.NewRegistry().Resolve(model.Project.CaseGen)
		if err != nil {
			return err
		}
	}

	a.logger.Info("🚀 Starting vector generation...", "project", model.Project.Name)
	gen := generator.New(model, generator.Options{
		MaxVectors: a.cfg.MaxVectors,
		Parallel:   a.cfg.Parallel,
	})
	result, err := gen.Run(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	a.logger.Info("🏁 Generation finished.", "vectors", len(result.Vectors))

	if err := a.emit(model, result.Vectors, builder); err != nil {
		return err
	}
	return result.Report.Render(a.outW)
}

// vectorDoc is the JSON shape of one emitted vector.
type vectorDoc struct {
	Path    string            `json:"path"`
	Factors map[string]string `json:"factors"`
	Case    *casegen.CaseSpec `json:"case,omitempty"`
}

// outputDoc is the JSON shape of the full emitted plan.
type outputDoc struct {
	Project string      `json:"project"`
	Vectors []vectorDoc `json:"vectors"`
}

// emit writes the vector list. With an output path the list goes there as
// JSON; otherwise each vector's directory name goes to the output stream,
// one per line.
func (a *App) emit(model *config.Model, vectors []*vector.TestVector, builder casegen.Builder) error {
	if a.cfg.OutputPath == "" && builder == nil {
		for _, v := range vectors {
			if _, err := fmt.Fprintln(a.outW, v.DirName()); err != nil {
				return err
			}
		}
		return nil
	}

	doc := outputDoc{Project: model.Project.Name, Vectors: make([]vectorDoc, 0, len(vectors))}
	for _, v := range vectors {
		vd := vectorDoc{Path: v.DirName(), Factors: make(map[string]string, len(v.Factors()))}
		for _, f := range v.Factors() {
			val, _ := v.Value(f)
			vd.Factors[f] = val.String()
		}
		if builder != nil {
			spec, err := builder.BuildCase(v)
			if err != nil {
				return fmt.Errorf("building case for %s: %w", v, err)
			}
			vd.Case = spec
		}
		doc.Vectors = append(doc.Vectors, vd)
	}

	w := a.outW
	if a.cfg.OutputPath != "" {
		f, err := os.Create(a.cfg.OutputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
