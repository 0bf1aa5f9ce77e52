// Package env implements Lx's lexically nested variable scopes with a
// per-frame "global" promotion set — PHP-style function-local scoping,
// not C-style lexical scoping: ordinary names never resolve through a
// frame's parent link. The link is used to reach the root frame for
// promoted names and by the garbage collector's walk over a frame and
// its ancestors.
package env

import "github.com/ppyne/lx/value"

// Environment is one scope frame. The root frame (created with a nil
// parent) is the target of every "global" promotion.
type Environment struct {
	parent   *Environment
	bindings map[string]*value.Value
	globals  map[string]bool
}

// New creates a frame linked to parent (nil for the root frame).
func New(parent *Environment) *Environment {
	return &Environment{
		parent:   parent,
		bindings: make(map[string]*value.Value),
		globals:  make(map[string]bool),
	}
}

// Root walks up the parent chain and returns the outermost frame.
func (e *Environment) Root() *Environment {
	cur := e
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// frameFor returns the frame that owns name's binding: the root frame if
// name has been promoted with AddGlobal in the current frame, else the
// current frame itself.
func (e *Environment) frameFor(name string) *Environment {
	if e.globals[name] {
		return e.Root()
	}
	return e
}

// Has reports whether name is bound in the frame that owns it.
func (e *Environment) Has(name string) bool {
	f := e.frameFor(name)
	_, ok := f.bindings[name]
	return ok
}

// Get returns a copy of name's value, or Undefined if unbound.
func (e *Environment) Get(name string) value.Value {
	f := e.frameFor(name)
	if v, ok := f.bindings[name]; ok {
		return *v
	}
	return value.Undefined()
}

// GetRef returns the mutable slot backing name, creating an
// Undefined-valued one in the owning frame if it does not exist yet.
func (e *Environment) GetRef(name string) *value.Value {
	f := e.frameFor(name)
	if v, ok := f.bindings[name]; ok {
		return v
	}
	nv := value.Undefined()
	f.bindings[name] = &nv
	return f.bindings[name]
}

// Set stores v under name in the frame that owns it, releasing whatever
// handle the previous binding held.
func (e *Environment) Set(name string, v value.Value) {
	f := e.frameFor(name)
	if old, ok := f.bindings[name]; ok {
		value.Release(*old)
	}
	nv := value.Retain(v)
	f.bindings[name] = &nv
}

// Unset removes name's binding from the frame that owns it.
func (e *Environment) Unset(name string) {
	f := e.frameFor(name)
	if old, ok := f.bindings[name]; ok {
		value.Release(*old)
		delete(f.bindings, name)
	}
}

// AddGlobal marks name as promoted to the root frame for the remainder of
// the current frame's lifetime.
func (e *Environment) AddGlobal(name string) { e.globals[name] = true }

// IsGlobal reports whether name has been promoted in this frame.
func (e *Environment) IsGlobal(name string) bool { return e.globals[name] }

// Visit calls fn with every binding reachable from e: e's own bindings
// and those of every ancestor frame up to the root. This is the GC
// rooting walk described by the collector.
func (e *Environment) Visit(fn func(value.Value)) {
	for cur := e; cur != nil; cur = cur.parent {
		for _, v := range cur.bindings {
			fn(*v)
		}
	}
}
