// Package properties implements C5 (spec §2, §4.5): the Wright-style
// progress/preservation checks run around every evaluated term, plus the
// state invariants (valid_store, valid_state, well_formed,
// safe_abstraction, valid_type) they're built from.
package properties

import (
	"fmt"
	"reflect"

	"github.com/mu-lang/mu/internal/ast"
	"github.com/mu-lang/mu/internal/errors"
	"github.com/mu-lang/mu/internal/evaluator"
	"github.com/mu-lang/mu/internal/store"
	"github.com/mu-lang/mu/internal/typechecker"
	"github.com/mu-lang/mu/internal/types"
)

// ValidStore reports whether every store value other than Num is
// pairwise distinct: no two cells may hold the same reference value
// (spec §4.5 valid_store).
func ValidStore(s *store.State) bool {
	var seen []ast.Value
	for _, v := range s.Heap.Values() {
		if _, isNum := v.(ast.Num); isNum {
			continue
		}
		for _, prior := range seen {
			if reflect.DeepEqual(v, prior) {
				return false
			}
		}
		seen = append(seen, v)
	}
	return true
}

// CollectLiteralValues gathers the literal values syntactically reachable
// through a term's Box/Assign/FnDecl structure (spec §4.5 valid_state:
// "Box/Assign/FnDecl-reachable value in t"). Any other term kind
// contributes nothing — a bare Var/Ref/Let/FnCall never embeds a literal
// the checker needs to guard against aliasing with the heap.
func CollectLiteralValues(term ast.Term) []ast.Value {
	switch t := term.(type) {
	case *ast.ValueTerm:
		return []ast.Value{t.Val}
	case *ast.BoxTerm:
		return CollectLiteralValues(t.Inner)
	case *ast.AssignTerm:
		return CollectLiteralValues(t.RHS)
	case *ast.FnDeclTerm:
		var out []ast.Value
		for _, b := range t.Body {
			out = append(out, CollectLiteralValues(b)...)
		}
		return out
	default:
		return nil
	}
}

// ValidState reports valid_store(S) and that no store value equals one of
// term's literal values (spec §4.5 valid_state) — guarding against a
// source literal accidentally aliasing a heap cell.
func ValidState(s *store.State, term ast.Term) bool {
	if !ValidStore(s) {
		return false
	}
	literals := CollectLiteralValues(term)
	if len(literals) == 0 {
		return true
	}
	for _, v := range s.Heap.Values() {
		for _, lit := range literals {
			if reflect.DeepEqual(v, lit) {
				return false
			}
		}
	}
	return true
}

// refReferent reports the root name borrowed by t, recursing through Box
// wrappers the same way internal/types scans for outstanding borrows —
// Ref is a structural leaf, not recursed into further.
func refReferent(t ast.Type) (string, bool) {
	switch v := t.(type) {
	case ast.RefType:
		return v.Var.Root(), true
	case ast.BoxType:
		return refReferent(v.Elem)
	default:
		return "", false
	}
}

// WellFormed reports whether every outstanding borrow in g still targets
// a live, type-checkable binding: for every x in dom(Γ) whose type
// contains a Ref{var: y,...}, y itself must still resolve via Get (spec
// §4.5 well_formed).
func WellFormed(g *types.Env) bool {
	for x, slot := range g.Slots() {
		y, ok := refReferent(slot.Type)
		if !ok || y == x {
			continue
		}
		if _, err := g.Get(y); err != nil {
			return false
		}
	}
	return true
}

// SafeAbstraction reports whether S and Γ denote the same live bindings
// (excluding functions) and whether each binding's store value is a
// valid instance of its declared type (spec §4.5 safe_abstraction).
func SafeAbstraction(s *store.State, g *types.Env) (bool, error) {
	names := g.Dom()
	live := make(map[string]bool, len(names))
	for _, n := range s.Dom() {
		live[n] = true
	}
	if len(live) != len(names) {
		return false, nil
	}
	for _, n := range names {
		if !live[n] {
			return false, nil
		}
	}

	for _, x := range names {
		addr, err := s.Locate(ast.NewName(x))
		if err != nil {
			return false, err
		}
		val, err := s.Heap.Read(addr)
		if err != nil {
			return false, err
		}
		slot, err := g.GetPartial(x)
		if err != nil {
			return false, err
		}
		ok, err := ValidType(s, val, slot.Type)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ValidType reports whether v is a valid runtime instance of static type
// t, recursing through Box/Undefined as needed (spec §4.5 valid_type).
// The `(Ref{owned:false}, Ref{var,...})` case is permissive by
// construction — this is the first of spec.md §9's preserved "possibly
// buggy" behaviors: no address comparison is made, so any non-owning
// reference is accepted against any Ref type as a sound
// over-approximation.
func ValidType(s *store.State, v ast.Value, t ast.Type) (bool, error) {
	switch v.(type) {
	case ast.Undefined:
		if _, ok := t.(ast.UndefinedType); ok {
			return true, nil
		}
	case ast.Epsilon:
		if _, ok := t.(ast.EpsilonType); ok {
			return true, nil
		}
	case ast.Num:
		if _, ok := t.(ast.NumericType); ok {
			return true, nil
		}
	}
	if u, ok := t.(ast.UndefinedType); ok {
		return ValidType(s, v, u.Elem)
	}
	ref, ok := v.(ast.Ref)
	if !ok {
		return false, nil
	}
	switch tt := t.(type) {
	case ast.BoxType:
		if !ref.Owned {
			return false, nil
		}
		inner, err := s.Heap.Read(ref.Addr)
		if err != nil {
			return false, err
		}
		return ValidType(s, inner, tt.Elem)
	case ast.RefType:
		return !ref.Owned, nil
	default:
		return false, nil
	}
}

// AssertProgress implements assert_progress (spec §4.5): the state
// invariants must already hold, the term must type-check, and if it
// isn't already a value it must be able to take a step. The type-check
// and speculative step run against clones so this check never mutates
// the live interpreter state (the driver performs the real step itself
// immediately afterward, per spec §4.6).
func AssertProgress(s *store.State, term ast.Term, g *types.Env, l ast.Lifetime) error {
	if !ValidState(s, term) {
		return errors.PropertyViolation("valid_state failed before evaluating the term")
	}
	if !WellFormed(g) {
		return errors.PropertyViolation("type environment is not well-formed")
	}
	if ok, err := SafeAbstraction(s, g); err != nil {
		return err
	} else if !ok {
		return errors.PropertyViolation("type environment is not a safe abstraction of the current state")
	}

	if _, _, err := typechecker.Check(term, g.Clone(), l); err != nil {
		return err
	}

	if _, isValue := term.(*ast.ValueTerm); isValue {
		return nil
	}
	if _, _, err := evaluator.Evaluate(term, s.Clone(), l); err != nil {
		return err
	}
	return nil
}

// AssertPreservation implements assert_preservation (spec §4.5): after a
// speculative type-check and evaluation of term (again against clones),
// the resulting environment must still be a safe abstraction of the
// resulting state, and the resulting value must be a valid instance of
// the resulting type.
func AssertPreservation(s *store.State, term ast.Term, g *types.Env, l ast.Lifetime) error {
	if !ValidState(s, term) {
		return errors.PropertyViolation("valid_state failed before evaluating the term")
	}
	if !WellFormed(g) {
		return errors.PropertyViolation("type environment is not well-formed")
	}
	if ok, err := SafeAbstraction(s, g); err != nil {
		return err
	} else if !ok {
		return errors.PropertyViolation("type environment is not a safe abstraction of the current state")
	}

	g2, ty, err := typechecker.Check(term, g.Clone(), l)
	if err != nil {
		return err
	}
	s2, v, err := evaluator.Evaluate(term, s.Clone(), l)
	if err != nil {
		return err
	}

	if ok, err := SafeAbstraction(s2, g2); err != nil {
		return err
	} else if !ok {
		return errors.PropertyViolation("type environment is not a safe abstraction of the state after the step")
	}

	ok, err := ValidType(s2, v, ty)
	if err != nil {
		return err
	}
	if !ok {
		return errors.PropertyViolation(fmt.Sprintf("value %s is not a valid instance of type %s after the step", v, ty))
	}
	return nil
}
