package store

import (
	"fmt"

	"github.com/mu-lang/mu/internal/ast"
	"github.com/mu-lang/mu/internal/errors"
)

// FuncDef is the body and declared parameters of a recorded function
// (spec §3: "stack... functions map (name → (args, body))").
type FuncDef struct {
	Args []ast.Argument
	Body []ast.Term
	Ret  ast.Type
}

// Frame is one stack frame: bound names and declared functions visible at
// this scope depth.
type Frame struct {
	Locations map[string]ast.Address
	Functions map[string]FuncDef
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{
		Locations: make(map[string]ast.Address),
		Functions: make(map[string]FuncDef),
	}
}

// State is the runtime state: a nonempty stack of frames plus the shared
// heap (spec §3, §4.2).
type State struct {
	Stack []*Frame
	Heap  *Heap
}

// New returns a fresh State with a single empty frame at lifetime 0.
func New() *State {
	return &State{Stack: []*Frame{NewFrame()}, Heap: NewHeap()}
}

// Clone returns a deep-enough copy of s: every frame's location and
// function maps are copied, and the heap is cloned, so mutating the
// result never affects s. Used by the property checker to speculatively
// type-check/evaluate a term without mutating the live interpreter state
// (spec §4.5 assert_progress/assert_preservation).
func (s *State) Clone() *State {
	stack := make([]*Frame, len(s.Stack))
	for i, f := range s.Stack {
		locations := make(map[string]ast.Address, len(f.Locations))
		for k, v := range f.Locations {
			locations[k] = v
		}
		functions := make(map[string]FuncDef, len(f.Functions))
		for k, v := range f.Functions {
			functions[k] = v
		}
		stack[i] = &Frame{Locations: locations, Functions: functions}
	}
	return &State{Stack: stack, Heap: s.Heap.Clone()}
}

// Top returns the innermost frame.
func (s *State) Top() *Frame {
	return s.Stack[len(s.Stack)-1]
}

// PushFrame pushes a new frame, copying in the enclosing frame's function
// table so a callee can still see functions declared before it (spec
// §4.4 FnCall: "Push a new frame (with the enclosing function table
// copied in)").
func (s *State) PushFrame() {
	f := NewFrame()
	for name, def := range s.Top().Functions {
		f.Functions[name] = def
	}
	s.Stack = append(s.Stack, f)
}

// DropLifetime removes every heap cell at lifetime l and pops the frame
// at depth l (spec §4.2).
func (s *State) DropLifetime(l ast.Lifetime) {
	s.Heap.DropLifetime(l)
	if int(l) >= 0 && int(l) < len(s.Stack) {
		s.Stack = append(s.Stack[:l], s.Stack[l+1:]...)
	}
}

// Locate resolves an lvalue to a heap address: a bare name looks up the
// current frame's binding directly; a dereference locates the inner
// lvalue, reads the reference stored there, and returns its address
// (spec §4.2).
func (s *State) Locate(l *ast.LVal) (ast.Address, error) {
	if l.Kind == ast.LValName {
		addr, ok := s.Top().Locations[l.Name]
		if !ok {
			return 0, errors.InvalidState(fmt.Sprintf("no binding for %q in current frame", l.Name))
		}
		return addr, nil
	}
	innerAddr, err := s.Locate(l.Inner)
	if err != nil {
		return 0, err
	}
	v, err := s.Heap.Read(innerAddr)
	if err != nil {
		return 0, err
	}
	ref, ok := v.(ast.Ref)
	if !ok {
		return 0, errors.InvalidState(fmt.Sprintf("cannot dereference non-reference value %v", v))
	}
	return ref.Addr, nil
}

// Bind records name -> ref.Addr in the current frame (spec §4.2).
func (s *State) Bind(name string, ref ast.Ref) {
	s.Top().Locations[name] = ref.Addr
}

// Insert allocates value at lifetime and returns the fresh reference
// (spec §4.2: shorthand for allocate).
func (s *State) Insert(lifetime ast.Lifetime, value ast.Value) ast.Ref {
	return s.Heap.Allocate(value, lifetime)
}

// AddFunction records a function declaration in the current frame.
func (s *State) AddFunction(name string, args []ast.Argument, body []ast.Term, ret ast.Type) {
	s.Top().Functions[name] = FuncDef{Args: args, Body: body, Ret: ret}
}

// LookupFunction finds a declared function visible from the current
// frame.
func (s *State) LookupFunction(name string) (FuncDef, bool) {
	fn, ok := s.Top().Functions[name]
	return fn, ok
}

// Dom returns every bound name across all live frames, used by the
// property checker to compare against dom(Γ) (spec §4.5, §8).
func (s *State) Dom() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range s.Stack {
		for name := range f.Locations {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// Bindings returns the current frame's name->address map, used to render
// final state output (spec §6: "for each name bound in any live frame,
// emit one line...").
func (s *State) Bindings() map[string]ast.Address {
	out := make(map[string]ast.Address, len(s.Top().Locations))
	for name, addr := range s.Top().Locations {
		out[name] = addr
	}
	return out
}
