package gotmpl

import (
	"go.uber.org/zap"

	"github.com/itsatony/go-gotmpl/internal"
)

// Template is a parsed, immutable template. It is safe for unlimited
// concurrent renders; every render owns its own scope stack and output
// buffer.
type Template struct {
	name     string
	source   string
	root     *internal.ListNode
	registry *Registry
	logger   *zap.Logger
}

// newTemplate creates a Template from a parsed tree.
func newTemplate(name, source string, root *internal.ListNode, registry *Registry, logger *zap.Logger) *Template {
	return &Template{
		name:     name,
		source:   source,
		root:     root,
		registry: registry,
		logger:   logger,
	}
}

// Name returns the template's name.
func (t *Template) Name() string {
	return t.name
}

// Source returns the original source the template was parsed from.
func (t *Template) Source() string {
	return t.source
}

// Render evaluates the template against the given data. A failed render
// discards all partial output and returns the empty string with the error.
func (t *Template) Render(data any) (string, error) {
	evaluator := internal.NewEvaluator(t.registry.internal, t.logger)
	state := &State{registry: t.registry, logger: t.logger}

	output, err := evaluator.Render(t.root, data, state)
	if err != nil {
		return "", wrapTemplateError(err, t.name)
	}
	return output, nil
}

// MustRender renders and panics on error.
func (t *Template) MustRender(data any) string {
	output, err := t.Render(data)
	if err != nil {
		panic(err)
	}
	return output
}

// Analyze returns the template's static inventory. The registry parameter
// controls unknown-function findings; nil uses the template's own registry,
// under which every parsed name is known by construction.
func (t *Template) Analyze(registry *Registry) *Analysis {
	var funcs internal.FuncLookup
	if registry != nil {
		funcs = registry.internal
	} else {
		funcs = t.registry.internal
	}

	analyzer := internal.NewAnalyzer(funcs, t.logger)
	return newAnalysis(analyzer.Analyze(t.root))
}

// String returns the canonical form of the template: the parse tree
// rendered back to template syntax. Parsing the canonical form yields the
// same tree.
func (t *Template) String() string {
	return t.root.String()
}
