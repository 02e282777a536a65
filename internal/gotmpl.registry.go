package internal

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// FuncImpl is the implementation signature shared by all helper functions.
// The state argument is the opaque per-render state owned by the caller; it
// is passed through untouched.
type FuncImpl func(state any, args []any) (any, error)

// Func represents a callable helper function with its arity metadata.
type Func struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 for variadic
	Fn      FuncImpl
}

// FuncLookup is the read-side interface the parser and analyzer need.
type FuncLookup interface {
	// Has checks if a function is registered
	Has(name string) bool
}

// RegistryBuilder accumulates function registrations. Registering a name
// that already exists silently overwrites it, so later packs shadow earlier
// ones. Builders are not safe for concurrent use.
type RegistryBuilder struct {
	funcs  map[string]*Func
	logger *zap.Logger
}

// NewRegistryBuilder creates an empty registry builder
func NewRegistryBuilder(logger *zap.Logger) *RegistryBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryBuilder{
		funcs:  make(map[string]*Func),
		logger: logger,
	}
}

// Register adds a function to the builder, overwriting any previous
// registration under the same name.
func (b *RegistryBuilder) Register(f *Func) *RegistryBuilder {
	if f == nil || f.Name == "" {
		return b
	}
	if _, exists := b.funcs[f.Name]; exists {
		b.logger.Debug(LogMsgFuncShadowed, zap.String(LogFieldFunction, f.Name))
	}
	b.funcs[f.Name] = f
	return b
}

// Has checks if a function is registered
func (b *RegistryBuilder) Has(name string) bool {
	_, ok := b.funcs[name]
	return ok
}

// Build freezes the builder into an immutable registry. The builder may be
// reused afterwards without affecting the built registry.
func (b *RegistryBuilder) Build() *Registry {
	funcs := make(map[string]*Func, len(b.funcs))
	for name, f := range b.funcs {
		funcs[name] = f
	}
	b.logger.Debug(LogMsgFuncRegistered, zap.Int(LogFieldFunctions, len(funcs)))
	return &Registry{funcs: funcs}
}

// Registry is a frozen, immutable set of helper functions. It is safe to
// share across parses and concurrent renders.
type Registry struct {
	funcs map[string]*Func
}

// Has checks if a function is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

// Get retrieves a function by name
func (r *Registry) Get(name string) (*Func, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

// Names returns all registered function names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered functions
func (r *Registry) Count() int {
	return len(r.funcs)
}

// Call invokes a function by name after checking argument counts.
func (r *Registry) Call(state any, name string, args []any) (any, error) {
	f, ok := r.funcs[name]
	if !ok {
		return nil, NewFuncError(ErrMsgFuncNotFound, name)
	}

	argCount := len(args)
	if argCount < f.MinArgs {
		return nil, NewFuncArgError(ErrMsgFuncTooFewArgs, name, f.MinArgs, argCount)
	}
	if f.MaxArgs >= 0 && argCount > f.MaxArgs {
		return nil, NewFuncArgError(ErrMsgFuncTooManyArgs, name, f.MaxArgs, argCount)
	}

	return f.Fn(state, args)
}

// FuncError represents a function-related error
type FuncError struct {
	Message  string
	FuncName string
}

// NewFuncError creates a new function error
func NewFuncError(message, funcName string) *FuncError {
	return &FuncError{
		Message:  message,
		FuncName: funcName,
	}
}

// Error implements the error interface
func (e *FuncError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.FuncName)
}

// FuncArgError represents a function argument count error
type FuncArgError struct {
	Message  string
	FuncName string
	Expected int
	Actual   int
}

// NewFuncArgError creates a new function argument error
func NewFuncArgError(message, funcName string, expected, actual int) *FuncArgError {
	return &FuncArgError{
		Message:  message,
		FuncName: funcName,
		Expected: expected,
		Actual:   actual,
	}
}

// Error implements the error interface
func (e *FuncArgError) Error() string {
	return fmt.Sprintf("%s: %s (expected %d, got %d)", e.Message, e.FuncName, e.Expected, e.Actual)
}

// FuncTypeError represents a type error in function arguments
type FuncTypeError struct {
	Message  string
	FuncName string
	ArgIndex int
}

// NewFuncTypeError creates a new function type error
func NewFuncTypeError(message, funcName string, argIndex int) *FuncTypeError {
	return &FuncTypeError{
		Message:  message,
		FuncName: funcName,
		ArgIndex: argIndex,
	}
}

// Error implements the error interface
func (e *FuncTypeError) Error() string {
	return fmt.Sprintf("%s: %s (argument %d)", e.Message, e.FuncName, e.ArgIndex)
}

// Function error messages
const (
	ErrMsgFuncNotFound         = "function not found"
	ErrMsgFuncTooFewArgs       = "too few arguments"
	ErrMsgFuncTooManyArgs      = "too many arguments"
	ErrMsgFuncExpectedString   = "expected string argument"
	ErrMsgFuncExpectedNumber   = "expected numeric argument"
	ErrMsgFuncExpectedList     = "expected list argument"
	ErrMsgFuncExpectedDict     = "expected dict argument"
	ErrMsgFuncExpectedCallable = "expected callable argument"
	ErrMsgFuncComparableKinds  = "incompatible kinds for comparison"
	ErrMsgFuncConversionFailed = "type conversion failed"
)
