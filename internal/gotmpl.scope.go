package internal

// scopeFrame is one lexical scope: its variable bindings, its dot value,
// and the index of its parent frame.
type scopeFrame struct {
	parent int
	dot    any
	vars   map[string]any
}

// ScopeStack is an arena of scope frames addressed by index. Frames are
// never removed; a block simply stops referencing its frame when it ends.
// Each render owns a private stack, so no locking is needed.
type ScopeStack struct {
	frames []scopeFrame
	root   any
}

// NewScopeStack creates a scope stack whose root frame has the given value
// as both the root input and the initial dot.
func NewScopeStack(root any) *ScopeStack {
	return &ScopeStack{
		frames: []scopeFrame{{parent: -1, dot: root}},
		root:   root,
	}
}

// Root returns the root input value, the meaning of $.
func (s *ScopeStack) Root() any {
	return s.root
}

// Push creates a child frame of parent with the given dot value and returns
// its index.
func (s *ScopeStack) Push(parent int, dot any) int {
	s.frames = append(s.frames, scopeFrame{parent: parent, dot: dot})
	return len(s.frames) - 1
}

// Dot returns the dot value of the given frame.
func (s *ScopeStack) Dot(frame int) any {
	return s.frames[frame].dot
}

// Declare binds a variable in the given frame, shadowing any binding of the
// same name in enclosing frames.
func (s *ScopeStack) Declare(frame int, name string, value any) {
	f := &s.frames[frame]
	if f.vars == nil {
		f.vars = make(map[string]any)
	}
	f.vars[name] = value
}

// Assign rebinds an existing variable, walking outward through enclosing
// frames. Returns false when no enclosing frame owns the name.
func (s *ScopeStack) Assign(frame int, name string, value any) bool {
	for idx := frame; idx >= 0; idx = s.frames[idx].parent {
		if _, ok := s.frames[idx].vars[name]; ok {
			s.frames[idx].vars[name] = value
			return true
		}
	}
	return false
}

// Lookup resolves a variable, walking outward through enclosing frames.
func (s *ScopeStack) Lookup(frame int, name string) (any, bool) {
	for idx := frame; idx >= 0; idx = s.frames[idx].parent {
		if value, ok := s.frames[idx].vars[name]; ok {
			return value, true
		}
	}
	return nil, false
}
