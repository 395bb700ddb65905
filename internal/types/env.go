// Package types implements C1 (spec §2, §4.1): the representation of
// types and the type environment Γ, plus the structural primitives the
// type checker builds on (shape-compatibility, containment, root
// resolution, borrow prohibitions, mutability, move, strong-update write,
// and lifetime containment).
package types

import (
	"fmt"
	"reflect"

	"github.com/mu-lang/mu/internal/ast"
	"github.com/mu-lang/mu/internal/errors"
)

// Slot is one binding in the type environment: a type paired with the
// scope-nesting depth at which the binding was introduced.
type Slot struct {
	Type     ast.Type
	Lifetime ast.Lifetime
}

// Env is Γ: an unordered map from variable name to Slot.
type Env struct {
	slots map[string]Slot
}

// New returns an empty type environment.
func New() *Env {
	return &Env{slots: make(map[string]Slot)}
}

// Clone returns a shallow copy of g; slot values are themselves immutable
// Type trees, so a shallow map copy is a full logical copy.
func (g *Env) Clone() *Env {
	c := New()
	for k, v := range g.slots {
		c.slots[k] = v
	}
	return c
}

// GetPartial returns the slot for name verbatim, including Undefined
// types. Looking up a name the checker never bound is an interpreter bug,
// not a surface type error: every lookup is expected to be preceded by a
// dom/scope check at the call site.
func (g *Env) GetPartial(name string) (Slot, error) {
	slot, ok := g.slots[name]
	if !ok {
		return Slot{}, errors.InvalidState(fmt.Sprintf("type environment has no binding for %q", name))
	}
	return slot, nil
}

// Get is GetPartial, but fails with TypeMoved if the stored type is
// Undefined, or Box(Undefined) — the two shapes spec §4.1 calls out
// explicitly as "moved".
func (g *Env) Get(name string) (ast.Type, error) {
	slot, err := g.GetPartial(name)
	if err != nil {
		return nil, err
	}
	return requireDefined(slot.Type)
}

func requireDefined(t ast.Type) (ast.Type, error) {
	switch v := t.(type) {
	case ast.UndefinedType:
		return nil, errors.TypeMoved(v.Elem)
	case ast.BoxType:
		if _, ok := v.Elem.(ast.UndefinedType); ok {
			return nil, errors.TypeMoved(t)
		}
	}
	return t, nil
}

// Insert adds or replaces the binding for name.
func (g *Env) Insert(name string, ty ast.Type, lifetime ast.Lifetime) {
	g.slots[name] = Slot{Type: ty, Lifetime: lifetime}
}

// Contains reports whether name is bound in Γ at all (including to an
// Undefined type) — used for dom-membership checks prior to GetPartial.
func (g *Env) Contains(name string) bool {
	_, ok := g.slots[name]
	return ok
}

// Dom returns the bound names in Γ, excluding those bound to a Function
// type (spec §4.1: "dom(Γ) — names excluding those bound to Function").
func (g *Env) Dom() []string {
	names := make([]string, 0, len(g.slots))
	for name, slot := range g.slots {
		if _, isFn := slot.Type.(ast.FunctionType); isFn {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Slots exposes the full binding set, including functions, for callers
// that need to range over every entry (e.g. borrow scans, property
// checks).
func (g *Env) Slots() map[string]Slot {
	return g.slots
}

// TypeOf computes the type denoted by an lvalue, traversing dereferences:
// for a bare name, the binding's type; for *L' through a Ref{var:v}, the
// type of v; through Box(T'), T' (spec §4.3 Var(L), rule 1).
func (g *Env) TypeOf(l *ast.LVal) (ast.Type, error) {
	if l.Kind == ast.LValName {
		return g.Get(l.Name)
	}
	innerType, err := g.TypeOf(l.Inner)
	if err != nil {
		return nil, err
	}
	switch it := innerType.(type) {
	case ast.RefType:
		return g.TypeOf(it.Var)
	case ast.BoxType:
		return it.Elem, nil
	default:
		return nil, errors.InvalidState(fmt.Sprintf("cannot dereference non-reference, non-box type %s", innerType))
	}
}

// Root returns the bare name at the bottom of L's dereference chain,
// after confirming that name is actually bound in Γ (spec §4.1).
func (g *Env) Root(l *ast.LVal) (string, error) {
	root := l.Root()
	if !g.Contains(root) {
		return "", errors.InvalidState(fmt.Sprintf("lvalue root %q not found in type environment", root))
	}
	return root, nil
}

// refTargetingRoot reports whether t is (or is reached by recursing
// through Box wrappers of) a Ref naming root, and if so whether that
// borrow is mutable. Box is the only recursion the scan performs — Ref is
// a structural leaf, per spec §9's third preserved "possibly buggy"
// behavior (contains() in the source recurses only through Box).
func refTargetingRoot(t ast.Type, root string) (mutable, matched bool) {
	switch v := t.(type) {
	case ast.RefType:
		if v.Var.Root() == root {
			return v.Mutable, true
		}
		return false, false
	case ast.BoxType:
		return refTargetingRoot(v.Elem, root)
	default:
		return false, false
	}
}

// WriteProhibited reports whether any binding in Γ holds an outstanding
// borrow — shared or mutable — of root. Per spec §4.1/§9 (second
// preserved "possibly buggy" behavior), shared borrows block writes too,
// not just mutable ones.
func (g *Env) WriteProhibited(root string) bool {
	for _, slot := range g.slots {
		if _, matched := refTargetingRoot(slot.Type, root); matched {
			return true
		}
	}
	return false
}

// ReadProhibited reports whether any binding in Γ holds an outstanding
// mutable borrow of root. Only mutable borrows block reads.
func (g *Env) ReadProhibited(root string) bool {
	for _, slot := range g.slots {
		if mutable, matched := refTargetingRoot(slot.Type, root); matched && mutable {
			return true
		}
	}
	return false
}

// Mut decides whether the place denoted by l is mutable (spec §4.1): a
// bare name typed Ref{mut:false,...} is not; a deref through Box recurses
// into the box; a deref through Ref{mut:true, var:r} recurses onto r;
// everything else is mutable.
func (g *Env) Mut(l *ast.LVal) (bool, error) {
	if l.Kind == ast.LValName {
		t, err := g.Get(l.Name)
		if err != nil {
			return false, err
		}
		if ref, ok := t.(ast.RefType); ok && !ref.Mutable {
			return false, nil
		}
		return true, nil
	}
	innerType, err := g.TypeOf(l.Inner)
	if err != nil {
		return false, err
	}
	switch it := innerType.(type) {
	case ast.BoxType:
		return g.Mut(l.Inner)
	case ast.RefType:
		if it.Mutable {
			return g.Mut(it.Var)
		}
	}
	return true, nil
}

// ShapeCompatible reports whether two types may stand in for one another
// in an assignment (spec §4.1): Numeric~Numeric; Box(A)~Box(B) iff A~B;
// Ref{m1,_}~Ref{m2,_} iff m1==m2 (the borrowed variable need not match);
// Undefined(A)~B iff A~B, symmetrically.
func ShapeCompatible(t1, t2 ast.Type) bool {
	if u, ok := t1.(ast.UndefinedType); ok {
		return ShapeCompatible(u.Elem, t2)
	}
	if u, ok := t2.(ast.UndefinedType); ok {
		return ShapeCompatible(t1, u.Elem)
	}
	switch a := t1.(type) {
	case ast.NumericType:
		_, ok := t2.(ast.NumericType)
		return ok
	case ast.BoxType:
		b, ok := t2.(ast.BoxType)
		return ok && ShapeCompatible(a.Elem, b.Elem)
	case ast.RefType:
		b, ok := t2.(ast.RefType)
		return ok && a.Mutable == b.Mutable
	default:
		return false
	}
}

// TypeContains reports whether T == U or T = Box(A) and TypeContains(A,
// U) (spec §4.1). Equality is full structural equality. The borrow scans
// in WriteProhibited and ReadProhibited do not call it; they walk Box
// wrappers themselves via refTargetingRoot.
func TypeContains(t, u ast.Type) bool {
	if reflect.DeepEqual(t, u) {
		return true
	}
	if b, ok := t.(ast.BoxType); ok {
		return TypeContains(b.Elem, u)
	}
	return false
}

// undefine implements the structural "undefine" used by Move: undefine(L
// = x, T) = Undefined(T); undefine(L = *L', Box(T)) = Box(undefine(L',
// T)) — it preserves Box shells while marking the moved-through leaf
// Undefined (spec §4.1, §9).
func undefine(l *ast.LVal, t ast.Type) (ast.Type, error) {
	if l.Kind == ast.LValName {
		return ast.UndefinedType{Elem: t}, nil
	}
	box, ok := t.(ast.BoxType)
	if !ok {
		return nil, errors.InvalidState(fmt.Sprintf("cannot move through non-box type %s", t))
	}
	inner, err := undefine(l.Inner, box.Elem)
	if err != nil {
		return nil, err
	}
	return ast.BoxType{Elem: inner}, nil
}

// Move replaces the type of L's root binding with its undefine()'d form,
// re-inserting it at the root's existing lifetime — the lifetime is
// unchanged by a move (spec §4.1: "Re-insert with unchanged lifetime").
func (g *Env) Move(l *ast.LVal) error {
	root := l.Root()
	slot, err := g.GetPartial(root)
	if err != nil {
		return err
	}
	newType, err := undefine(l, slot.Type)
	if err != nil {
		return err
	}
	g.Insert(root, newType, slot.Lifetime)
	return nil
}

// update is the structural-descent half of the write/update pair (spec
// §9): it computes the rewritten type for the place l, given l's current
// type cur and the incoming value type tnew.
func (g *Env) update(l *ast.LVal, cur ast.Type, tnew ast.Type) (ast.Type, error) {
	if l.Kind == ast.LValName {
		return tnew, nil
	}
	switch c := cur.(type) {
	case ast.BoxType:
		newElem, err := g.update(l.Inner, c.Elem, tnew)
		if err != nil {
			return nil, err
		}
		return ast.BoxType{Elem: newElem}, nil
	case ast.RefType:
		if !c.Mutable {
			return nil, errors.AssignBorrowed(l.Root())
		}
		rRoot := c.Var.Root()
		rSlot, err := g.GetPartial(rRoot)
		if err != nil {
			return nil, err
		}
		newRType, err := g.update(c.Var, rSlot.Type, tnew)
		if err != nil {
			return nil, err
		}
		g.Insert(rRoot, newRType, rSlot.Lifetime)
		return cur, nil
	default:
		return nil, errors.InvalidState(fmt.Sprintf("cannot write through type %s", cur))
	}
}

// Write performs a strong update through L: inside a Box the update
// recurses into the contained type; through a mutable reference it
// recurses into the referent's own binding; a shared reference rejects
// the write outright (spec §4.1, §9).
func (g *Env) Write(l *ast.LVal, tnew ast.Type) error {
	root := l.Root()
	slot, err := g.GetPartial(root)
	if err != nil {
		return err
	}
	newType, err := g.update(l, slot.Type, tnew)
	if err != nil {
		return err
	}
	g.Insert(root, newType, slot.Lifetime)
	return nil
}

// Within reports whether t is valid at lifetime l: a Ref{var:r,...} is
// within l iff the lifetime of r's binding is <= l; Box(T') recurses;
// every other type is always within (spec §4.1).
func (g *Env) Within(t ast.Type, l ast.Lifetime) bool {
	switch v := t.(type) {
	case ast.RefType:
		slot, err := g.GetPartial(v.Var.Root())
		if err != nil {
			return false
		}
		return slot.Lifetime <= l
	case ast.BoxType:
		return g.Within(v.Elem, l)
	default:
		return true
	}
}
