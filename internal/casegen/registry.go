package casegen

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/benchplan/internal/config"
	"github.com/vk/benchplan/internal/vector"
)

// Factory constructs a Builder from a project's keyword-argument bag.
type Factory func(kwargs map[string]vector.Value) (Builder, error)

// Registry maps case-generator names to their factories. The generator
// core never sees how a name resolves, only the Builder it yields.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry pre-populated with the built-in builders.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("mpi", newMPIBuilder)
	return r
}

// Register adds a named factory. Registering the same name twice is a
// programming error and panics.
func (r *Registry) Register(name string, f Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("case generator %q already registered", name))
	}
	slog.Debug("Registering case generator.", "name", name)
	r.factories[name] = f
}

// Resolve instantiates the Builder named by the project's generator
// selection. An unknown name is a configuration error.
func (r *Registry) Resolve(ref config.GeneratorRef) (Builder, error) {
	f, ok := r.factories[ref.Name]
	if !ok {
		return nil, config.Errorf("project.case_generator",
			"unknown case generator %q (registered: %v)", ref.Name, r.names())
	}
	b, err := f(ref.Kwargs)
	if err != nil {
		return nil, config.WrapErr("project.case_generator."+ref.Name, err)
	}
	return b, nil
}

func (r *Registry) names() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
