package gotmpl

import (
	"context"

	"go.uber.org/zap"

	"github.com/itsatony/go-gotmpl/internal"
)

// Engine is the main entry point for parsing, rendering, and analyzing
// templates. It holds a frozen helper registry and an optional storage
// backend for named templates. An Engine is safe for concurrent use.
type Engine struct {
	registry *Registry
	storage  TemplateStorage
	config   *engineConfig
	logger   *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := config.registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	return &Engine{
		registry: registry,
		storage:  config.storage,
		config:   config,
		logger:   logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Registry returns the engine's frozen helper registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Parse parses a template source string and returns a Template.
// The returned Template can be rendered multiple times with different data.
func (e *Engine) Parse(name, source string) (*Template, error) {
	if name == "" {
		name = DefaultTemplateName
	}

	lexer := internal.NewLexer(source, e.logger)
	items, err := lexer.Lex()
	if err != nil {
		return nil, wrapTemplateError(err, name)
	}

	parser := internal.NewParser(items, e.registry.internal, e.logger)
	root, err := parser.Parse()
	if err != nil {
		return nil, wrapTemplateError(err, name)
	}

	return newTemplate(name, source, root, e.registry, e.logger), nil
}

// Render is a convenience method that parses and renders in one step.
// For templates that will be rendered multiple times, use Parse() instead.
func (e *Engine) Render(source string, data any) (string, error) {
	tmpl, err := e.Parse(DefaultTemplateName, source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data)
}

// Analyze parses a source string and returns its static inventory.
func (e *Engine) Analyze(source string) (*Analysis, error) {
	tmpl, err := e.Parse(DefaultTemplateName, source)
	if err != nil {
		return nil, err
	}
	return tmpl.Analyze(nil), nil
}

// HasFunc checks if a helper function is registered with the given name.
func (e *Engine) HasFunc(name string) bool {
	return e.registry.Has(name)
}

// ListFuncs returns all registered helper function names in sorted order.
func (e *Engine) ListFuncs() []string {
	return e.registry.Names()
}

// FuncCount returns the number of registered helper functions.
func (e *Engine) FuncCount() int {
	return e.registry.Count()
}

// SaveTemplate validates a template source by parsing it, then stores it
// under the given name. Requires configured storage.
func (e *Engine) SaveTemplate(ctx context.Context, name, source string) error {
	if e.storage == nil {
		return NewNoStorageError()
	}
	if name == "" {
		return NewEmptyNameError()
	}

	if _, err := e.Parse(name, source); err != nil {
		return err
	}

	return e.storage.Save(ctx, &StoredTemplate{
		Name:   name,
		Source: source,
	})
}

// LoadTemplate fetches a stored template by name and parses it with the
// engine's registry. Requires configured storage.
func (e *Engine) LoadTemplate(ctx context.Context, name string) (*Template, error) {
	if e.storage == nil {
		return nil, NewNoStorageError()
	}

	stored, err := e.storage.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	return e.Parse(stored.Name, stored.Source)
}

// DeleteTemplate removes a stored template by name. Requires configured
// storage.
func (e *Engine) DeleteTemplate(ctx context.Context, name string) error {
	if e.storage == nil {
		return NewNoStorageError()
	}
	return e.storage.Delete(ctx, name)
}

// ListTemplates returns the names of all stored templates in sorted order.
// Requires configured storage.
func (e *Engine) ListTemplates(ctx context.Context) ([]string, error) {
	if e.storage == nil {
		return nil, NewNoStorageError()
	}
	return e.storage.List(ctx)
}

// Close releases the engine's storage resources, if any.
func (e *Engine) Close() error {
	if e.storage == nil {
		return nil
	}
	return e.storage.Close()
}

// Parse is a package-level convenience that parses a source with the
// default registry.
func Parse(name, source string) (*Template, error) {
	engine, err := New()
	if err != nil {
		return nil, err
	}
	return engine.Parse(name, source)
}

// Must panics if err is non-nil, otherwise returns the template.
//
//	tmpl := gotmpl.Must(gotmpl.Parse("greeting", src))
func Must(tmpl *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return tmpl
}
