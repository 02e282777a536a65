package gotmpl

import (
	"go.uber.org/zap"

	"github.com/itsatony/go-gotmpl/internal"
)

// State is the per-render state passed to every helper function. It gives
// helpers read access to the frozen registry they were called from.
type State struct {
	registry *Registry
	logger   *zap.Logger
}

// Registry returns the registry the current render uses.
func (s *State) Registry() *Registry {
	return s.registry
}

// Logger returns the render's logger.
func (s *State) Logger() *zap.Logger {
	if s.logger == nil {
		return zap.NewNop()
	}
	return s.logger
}

// Func is a helper function with its arity metadata. The piped value of a
// pipeline stage arrives as the final argument.
type Func struct {
	// Name is the identifier used in templates (e.g. "title" for {{title .x}})
	Name string
	// MinArgs is the minimum number of arguments required
	MinArgs int
	// MaxArgs is the maximum number of arguments allowed (Variadic for no limit)
	MaxArgs int
	// Fn is the function implementation
	Fn func(state *State, args []any) (any, error)
}

// Variadic marks a Func as accepting any number of arguments.
const Variadic = internal.VariadicArgs

// Builder accumulates helper registrations and freezes them into a
// Registry. Registering a name twice silently overwrites the earlier entry,
// so later packs shadow earlier ones. Builders are not safe for concurrent
// use; built registries are.
type Builder struct {
	internal *internal.RegistryBuilder
}

// NewBuilder creates an empty registry builder
func NewBuilder() *Builder {
	return &Builder{internal: internal.NewRegistryBuilder(nil)}
}

// Register adds a single function, overwriting any existing registration
// under the same name.
func (b *Builder) Register(f *Func) *Builder {
	if f == nil || f.Name == "" || f.Fn == nil {
		return b
	}
	fn := f.Fn
	b.internal.Register(&internal.Func{
		Name:    f.Name,
		MinArgs: f.MinArgs,
		MaxArgs: f.MaxArgs,
		Fn: func(state any, args []any) (any, error) {
			st, _ := state.(*State)
			return fn(st, args)
		},
	})
	return b
}

// RegisterPack adds a batch of functions in order.
func (b *Builder) RegisterPack(pack []*Func) *Builder {
	for _, f := range pack {
		b.Register(f)
	}
	return b
}

// Has checks if a function is registered
func (b *Builder) Has(name string) bool {
	return b.internal.Has(name)
}

// Build freezes the builder into an immutable Registry. The builder may be
// reused afterwards without affecting the built registry.
func (b *Builder) Build() *Registry {
	return &Registry{internal: b.internal.Build()}
}

// Registry is a frozen, immutable set of helper functions, safe to share
// across parses and unlimited concurrent renders.
type Registry struct {
	internal *internal.Registry
}

// Has checks if a function is registered
func (r *Registry) Has(name string) bool {
	return r.internal.Has(name)
}

// Names returns all registered function names in sorted order
func (r *Registry) Names() []string {
	return r.internal.Names()
}

// Count returns the number of registered functions
func (r *Registry) Count() int {
	return r.internal.Count()
}

// Call invokes a registered function by name. Primarily useful for fixture
// replay and helper testing outside a template.
func (r *Registry) Call(state *State, name string, args []any) (any, error) {
	if state == nil {
		state = &State{registry: r}
	}
	return r.internal.Call(state, name, args)
}

// DefaultRegistry returns a registry with every built-in pack registered:
// the core template builtins plus the string, list, dict, and flow helper
// packs.
func DefaultRegistry() *Registry {
	return NewBuilder().
		RegisterPack(BuiltinFuncs()).
		RegisterPack(StringFuncs()).
		RegisterPack(ListFuncs()).
		RegisterPack(DictFuncs()).
		RegisterPack(FlowFuncs()).
		Build()
}
