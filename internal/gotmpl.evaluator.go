package internal

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Evaluator renders a parsed tree against dynamically-typed input data.
// It holds no per-render state; a single evaluator may serve unlimited
// concurrent renders of shared trees.
type Evaluator struct {
	registry *Registry
	logger   *zap.Logger
}

// NewEvaluator creates an evaluator bound to a frozen registry
func NewEvaluator(registry *Registry, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		registry: registry,
		logger:   logger,
	}
}

// renderState is the private state of one render: the scope arena, the
// output buffer, and the opaque state handed to helper functions.
type renderState struct {
	scopes    *ScopeStack
	out       strings.Builder
	funcState any
}

// Render walks the tree and returns the output. A failed render discards
// all partial output and returns the empty string with the error.
func (e *Evaluator) Render(root *ListNode, data any, funcState any) (string, error) {
	e.logger.Debug(LogMsgRenderStart)

	st := &renderState{
		scopes:    NewScopeStack(data),
		funcState: funcState,
	}

	if err := e.walkList(st, root, 0); err != nil {
		e.logger.Debug(LogMsgRenderFailed, zap.String(LogFieldError, err.Error()))
		return "", err
	}

	output := st.out.String()
	e.logger.Debug(LogMsgRenderEnd, zap.Int(LogFieldOutput, len(output)))
	return output, nil
}

// walkList renders every node of a list in the given scope frame.
func (e *Evaluator) walkList(st *renderState, list *ListNode, frame int) error {
	for _, node := range list.Nodes {
		if err := e.walkNode(st, node, frame); err != nil {
			return err
		}
	}
	return nil
}

// walkNode renders a single node.
func (e *Evaluator) walkNode(st *renderState, node Node, frame int) error {
	switch n := node.(type) {
	case *TextNode:
		st.out.WriteString(n.Text)
		return nil

	case *CommentNode:
		return nil

	case *ActionNode:
		value, declared, err := e.evalPipe(st, n.Pipe, frame, frame)
		if err != nil {
			return err
		}
		if !declared {
			st.out.WriteString(Stringify(value))
		}
		return nil

	case *IfNode:
		return e.walkIf(st, n, frame)

	case *WithNode:
		return e.walkWith(st, n, frame)

	case *RangeNode:
		return e.walkRange(st, n, frame)

	default:
		return nil
	}
}

// walkIf renders an if construct. A declared variable is visible in both
// branches but not outside the construct.
func (e *Evaluator) walkIf(st *renderState, n *IfNode, frame int) error {
	child := st.scopes.Push(frame, st.scopes.Dot(frame))
	value, _, err := e.evalPipe(st, n.Pipe, frame, child)
	if err != nil {
		return err
	}

	if IsTruthy(value) {
		return e.walkList(st, n.List, child)
	}
	if n.ElseList != nil {
		return e.walkList(st, n.ElseList, child)
	}
	return nil
}

// walkWith renders a with construct: the block sees the pipeline value as
// its dot, the else branch keeps the enclosing dot.
func (e *Evaluator) walkWith(st *renderState, n *WithNode, frame int) error {
	child := st.scopes.Push(frame, st.scopes.Dot(frame))
	value, _, err := e.evalPipe(st, n.Pipe, frame, child)
	if err != nil {
		return err
	}

	if IsTruthy(value) {
		body := st.scopes.Push(child, value)
		return e.walkList(st, n.List, body)
	}
	if n.ElseList != nil {
		return e.walkList(st, n.ElseList, child)
	}
	return nil
}

// walkRange renders a range construct. Lists iterate in order; maps in
// sorted key order. Every iteration gets its own scope frame.
func (e *Evaluator) walkRange(st *renderState, n *RangeNode, frame int) error {
	value, err := e.evalPipeValue(st, n.Pipe, frame)
	if err != nil {
		return err
	}

	iterate := func(key, elem any) error {
		iter := st.scopes.Push(frame, elem)
		if err := e.bindRangeVars(st, n.Pipe, iter, key, elem); err != nil {
			return err
		}
		return e.walkList(st, n.List, iter)
	}

	switch val := value.(type) {
	case nil:
		// treated as empty
	case []any:
		if len(val) > 0 {
			for i, elem := range val {
				if err := iterate(int64(i), elem); err != nil {
					return err
				}
			}
			return nil
		}
	case map[string]any:
		if len(val) > 0 {
			for _, key := range SortedKeys(val) {
				if err := iterate(key, val[key]); err != nil {
					return err
				}
			}
			return nil
		}
	default:
		return NewRenderError(RenderTypeMismatch, ErrMsgNotRangeable, "", n.Pipe.ByteSpan)
	}

	if n.ElseList != nil {
		child := st.scopes.Push(frame, st.scopes.Dot(frame))
		return e.walkList(st, n.ElseList, child)
	}
	return nil
}

// bindRangeVars binds the declared range variables for one iteration.
// With one variable it receives the element; with two, the index or key
// comes first.
func (e *Evaluator) bindRangeVars(st *renderState, pipe *PipeNode, frame int, key, elem any) error {
	if len(pipe.Decl) == 0 {
		return nil
	}

	values := []any{elem}
	if len(pipe.Decl) == MaxDeclVars {
		values = []any{key, elem}
	}

	for i, decl := range pipe.Decl {
		if err := e.bindVariable(st, pipe, decl, frame, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// evalPipe evaluates a pipeline and applies its declaration, if any, in
// declFrame. Range pipelines never reach this path; their variables bind
// per iteration. Returns whether a declaration consumed the value.
func (e *Evaluator) evalPipe(st *renderState, pipe *PipeNode, frame, declFrame int) (any, bool, error) {
	value, err := e.evalPipeValue(st, pipe, frame)
	if err != nil {
		return nil, false, err
	}

	if len(pipe.Decl) == 0 {
		return value, false, nil
	}

	if err := e.bindVariable(st, pipe, pipe.Decl[0], declFrame, value); err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// bindVariable declares or assigns one variable binding.
func (e *Evaluator) bindVariable(st *renderState, pipe *PipeNode, decl *VariableNode, frame int, value any) error {
	if decl.Name == "" {
		return NewRenderError(RenderUndefinedVariable, ErrMsgRootImmutable,
			VarNameRoot, decl.ByteSpan)
	}
	if pipe.IsAssign {
		if !st.scopes.Assign(frame, decl.Name, value) {
			return NewRenderError(RenderUndefinedVariable, ErrMsgUndefinedVariable,
				decl.String(), decl.ByteSpan)
		}
		return nil
	}
	st.scopes.Declare(frame, decl.Name, value)
	return nil
}

// evalPipeValue evaluates the command chain of a pipeline, threading each
// stage's value into the next command as its final argument.
func (e *Evaluator) evalPipeValue(st *renderState, pipe *PipeNode, frame int) (any, error) {
	var piped any
	hasPiped := false

	for _, cmd := range pipe.Cmds {
		value, err := e.evalCommand(st, cmd, frame, piped, hasPiped)
		if err != nil {
			return nil, err
		}
		piped = value
		hasPiped = true
	}

	return piped, nil
}

// evalCommand evaluates one pipeline stage.
func (e *Evaluator) evalCommand(st *renderState, cmd *CommandNode, frame int, piped any, hasPiped bool) (any, error) {
	lead := cmd.Args[0]

	if ident, ok := lead.(*IdentifierNode); ok {
		args := make([]any, 0, len(cmd.Args))
		for _, argNode := range cmd.Args[1:] {
			arg, err := e.evalExpr(st, argNode, frame)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if hasPiped {
			args = append(args, piped)
		}
		return e.callFunc(st, ident, args, cmd.ByteSpan)
	}

	// A non-function lead cannot take arguments or a piped value.
	if len(cmd.Args) > 1 || hasPiped {
		return nil, NewRenderError(RenderTypeMismatch, ErrMsgTypeMismatch,
			lead.String(), cmd.ByteSpan)
	}

	return e.evalExpr(st, lead, frame)
}

// callFunc invokes a registered helper and maps its failures onto the
// render error taxonomy.
func (e *Evaluator) callFunc(st *renderState, ident *IdentifierNode, args []any, span Span) (any, error) {
	result, err := e.registry.Call(st.funcState, ident.Name, args)
	if err == nil {
		return result, nil
	}

	var typeErr *FuncTypeError
	if errors.As(err, &typeErr) {
		renderErr := NewRenderError(RenderTypeMismatch, err.Error(), ident.Name, span)
		renderErr.Cause = err
		return nil, renderErr
	}

	var funcErr *FuncError
	if errors.As(err, &funcErr) {
		if funcErr.Message == ErrMsgFuncNotFound {
			return nil, NewRenderError(RenderUnknownFunction, ErrMsgUnknownFunction,
				ident.Name, span)
		}
		if funcErr.Message == ErrMsgFuncComparableKinds {
			renderErr := NewRenderError(RenderTypeMismatch, err.Error(), ident.Name, span)
			renderErr.Cause = err
			return nil, renderErr
		}
	}

	renderErr := NewRenderError(RenderHelperError, ErrMsgHelperFailed, ident.Name, span)
	renderErr.Cause = err
	return nil, renderErr
}

// evalExpr evaluates a single expression operand.
func (e *Evaluator) evalExpr(st *renderState, node Node, frame int) (any, error) {
	switch n := node.(type) {
	case *IdentifierNode:
		return e.callFunc(st, n, nil, n.ByteSpan)

	case *FieldNode:
		return e.resolvePath(st.scopes.Dot(frame), n.Path, n.ByteSpan)

	case *VariableNode:
		return e.evalVariable(st, n, frame)

	case *DotNode:
		return st.scopes.Dot(frame), nil

	case *StringNode:
		return n.Value, nil

	case *NumberNode:
		if n.IsInt {
			return n.Int64, nil
		}
		return n.Float64, nil

	case *BoolNode:
		return n.Value, nil

	case *NilNode:
		return nil, nil

	case *SubPipeNode:
		return e.evalPipeValue(st, n.Pipe, frame)

	default:
		return nil, NewRenderError(RenderTypeMismatch, ErrMsgTypeMismatch,
			node.String(), node.Span())
	}
}

// evalVariable resolves a $name reference and applies its attached field
// path. An unresolved name is an error, never a silent nil.
func (e *Evaluator) evalVariable(st *renderState, n *VariableNode, frame int) (any, error) {
	var value any
	if n.Name == "" {
		value = st.scopes.Root()
	} else {
		resolved, ok := st.scopes.Lookup(frame, n.Name)
		if !ok {
			return nil, NewRenderError(RenderUndefinedVariable, ErrMsgUndefinedVariable,
				string(CharDollar)+n.Name, n.ByteSpan)
		}
		value = resolved
	}

	return e.resolvePath(value, n.Path, n.ByteSpan)
}

// resolvePath walks a field path. Missing map keys and out-of-range list
// indices yield nil; projecting a field onto a scalar is an error.
func (e *Evaluator) resolvePath(value any, path []string, span Span) (any, error) {
	for _, segment := range path {
		switch container := value.(type) {
		case nil:
			return nil, nil

		case map[string]any:
			value = container[segment]

		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return nil, NewRenderError(RenderFieldNotFound, ErrMsgFieldNotFound,
					segment, span)
			}
			if idx < 0 || idx >= len(container) {
				value = nil
			} else {
				value = container[idx]
			}

		default:
			return nil, NewRenderError(RenderFieldNotFound, ErrMsgFieldNotFound,
				segment, span)
		}
	}
	return value, nil
}
