// Package evaluator implements C4 (spec §2, §4.4): evaluate(term, S, l)
// → (S', v), the small-step evaluator over the explicit store.
package evaluator

import (
	"fmt"

	"github.com/mu-lang/mu/internal/ast"
	"github.com/mu-lang/mu/internal/errors"
	"github.com/mu-lang/mu/internal/store"
)

// Evaluate dispatches on term's concrete kind and returns the updated
// state and the term's resulting value.
func Evaluate(term ast.Term, s *store.State, l ast.Lifetime) (*store.State, ast.Value, error) {
	switch t := term.(type) {
	case *ast.ValueTerm:
		return s, t.Val, nil
	case *ast.VarTerm:
		return evalVar(t, s)
	case *ast.BoxTerm:
		return evalBox(t, s, l)
	case *ast.RefTerm:
		return evalRef(t, s)
	case *ast.LetTerm:
		return evalLet(t, s, l)
	case *ast.AssignTerm:
		return evalAssign(t, s, l)
	case *ast.FnDeclTerm:
		return evalFnDecl(t, s)
	case *ast.FnCallTerm:
		return evalFnCall(t, s, l)
	default:
		return nil, nil, errors.InvalidState(fmt.Sprintf("evaluator: unsupported term %T", term))
	}
}

// EvaluateProgram evaluates every top-level term of p in order, returning
// the final term's value (spec §4.4 Program is implicit: the driver, §4.6,
// folds terms the same way the checker does).
func EvaluateProgram(p *ast.Program, s *store.State, l ast.Lifetime) (*store.State, ast.Value, error) {
	var v ast.Value = ast.Epsilon{}
	for _, term := range p.Terms {
		s2, v2, err := Evaluate(term, s, l)
		if err != nil {
			return nil, nil, err
		}
		s, v = s2, v2
	}
	return s, v, nil
}

// evalVar implements Var(L) (spec §4.4): the type checker's copyable
// annotation on L decides whether the read copies (slot left untouched)
// or moves (slot overwritten with Undefined, prior value returned). A nil
// annotation means the evaluator ran without a preceding type-check pass,
// which is itself an interpreter bug.
func evalVar(t *ast.VarTerm, s *store.State) (*store.State, ast.Value, error) {
	if t.L.Copyable == nil {
		return nil, nil, errors.InvalidState(fmt.Sprintf("evaluator: Var(%s) evaluated without a type-check pass", t.L))
	}
	addr, err := s.Locate(t.L)
	if err != nil {
		return nil, nil, err
	}
	v, err := s.Heap.Read(addr)
	if err != nil {
		return nil, nil, err
	}
	if *t.L.Copyable {
		return s, v, nil
	}
	if err := s.Heap.Write(addr, ast.Undefined{}); err != nil {
		return nil, nil, err
	}
	return s, v, nil
}

// evalBox implements Box(t) (spec §4.4): evaluate the inner term, then
// heap-allocate its value at lifetime 0 (box contents are freed only by
// an explicit drop, never by scope exit) and return an owning reference.
func evalBox(t *ast.BoxTerm, s *store.State, l ast.Lifetime) (*store.State, ast.Value, error) {
	s2, v, err := Evaluate(t.Inner, s, l)
	if err != nil {
		return nil, nil, err
	}
	ref := s2.Insert(0, v)
	return s2, ref, nil
}

// evalRef implements Ref{_, L} (spec §4.4): locate L and return a
// non-owning reference to its address.
func evalRef(t *ast.RefTerm, s *store.State) (*store.State, ast.Value, error) {
	addr, err := s.Locate(t.L)
	if err != nil {
		return nil, nil, err
	}
	return s, ast.Ref{Addr: addr, Owned: false}, nil
}

// evalLet implements Let{L, t} (spec §4.4): evaluate the initializer,
// allocate its value at the current lifetime, and bind L's name to the
// fresh reference.
func evalLet(t *ast.LetTerm, s *store.State, l ast.Lifetime) (*store.State, ast.Value, error) {
	s2, v, err := Evaluate(t.Init, s, l)
	if err != nil {
		return nil, nil, err
	}
	ref := s2.Insert(l, v)
	s2.Bind(t.L.Name, ref)
	return s2, ast.Epsilon{}, nil
}

// evalAssign implements Assign{L, t} (spec §4.4): evaluate the right-hand
// side, then overwrite L's cell in place after recursively dropping its
// displaced contents.
func evalAssign(t *ast.AssignTerm, s *store.State, l ast.Lifetime) (*store.State, ast.Value, error) {
	s2, vNew, err := Evaluate(t.RHS, s, l)
	if err != nil {
		return nil, nil, err
	}
	addr, err := s2.Locate(t.L)
	if err != nil {
		return nil, nil, err
	}
	old, err := s2.Heap.Read(addr)
	if err != nil {
		return nil, nil, err
	}
	if err := s2.Heap.Drop(old); err != nil {
		return nil, nil, err
	}
	if err := s2.Heap.Write(addr, vNew); err != nil {
		return nil, nil, err
	}
	return s2, ast.Epsilon{}, nil
}

// evalFnDecl implements FnDecl (spec §4.4): record the declaration in the
// current frame's function table.
func evalFnDecl(t *ast.FnDeclTerm, s *store.State) (*store.State, ast.Value, error) {
	s.AddFunction(t.Name, t.Args, t.Body, t.Ret)
	return s, ast.Epsilon{}, nil
}

// evalFnCall implements FnCall{name, params} (spec §4.4): reference
// arguments borrow their actual parameter's address directly instead of
// evaluating it; every other argument is evaluated normally (which itself
// performs the move or copy). A fresh frame is pushed at lifetime l+1,
// each argument is bound there, the body executes threading that frame,
// and the frame's lifetime is dropped before the call's value is
// returned.
func evalFnCall(t *ast.FnCallTerm, s *store.State, l ast.Lifetime) (*store.State, ast.Value, error) {
	fn, ok := s.LookupFunction(t.Name)
	if !ok {
		return nil, nil, errors.InvalidState(fmt.Sprintf("evaluator: function %q not found", t.Name))
	}
	if len(t.Params) != len(fn.Args) {
		return nil, nil, errors.InvalidState(fmt.Sprintf("evaluator: call to %q has %d params, declaration has %d args", t.Name, len(t.Params), len(fn.Args)))
	}

	values := make([]ast.Value, len(t.Params))
	for i, param := range t.Params {
		arg := fn.Args[i]
		if arg.Reference {
			varTerm, ok := param.(*ast.VarTerm)
			if !ok {
				return nil, nil, errors.InvalidState(fmt.Sprintf("evaluator: reference argument %q not passed a variable", arg.Name))
			}
			addr, err := s.Locate(varTerm.L)
			if err != nil {
				return nil, nil, err
			}
			values[i] = ast.Ref{Addr: addr, Owned: false}
			continue
		}
		s2, v, err := Evaluate(param, s, l)
		if err != nil {
			return nil, nil, err
		}
		s = s2
		values[i] = v
	}

	s.PushFrame()
	inner := l + 1
	for i, arg := range fn.Args {
		ref := s.Insert(inner, values[i])
		s.Bind(arg.Name, ref)
	}

	var result ast.Value = ast.Epsilon{}
	for _, bodyTerm := range fn.Body {
		s2, v, err := Evaluate(bodyTerm, s, inner)
		if err != nil {
			return nil, nil, err
		}
		s, result = s2, v
	}

	s.DropLifetime(inner)
	return s, result, nil
}
