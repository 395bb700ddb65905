// Package typechecker implements C3 (spec §2, §4.3): type_check(term, Γ,
// l) → (Γ', T), the static checker that enforces move, borrow, and
// lifetime-containment rules ahead of evaluation.
package typechecker

import (
	"fmt"

	"github.com/mu-lang/mu/internal/ast"
	"github.com/mu-lang/mu/internal/errors"
	"github.com/mu-lang/mu/internal/types"
)

// Check dispatches on term's concrete kind and returns the updated
// environment and the term's static type, or a *errors.TypeError /
// *errors.InternalError.
func Check(term ast.Term, g *types.Env, l ast.Lifetime) (*types.Env, ast.Type, error) {
	switch t := term.(type) {
	case *ast.ValueTerm:
		return checkValue(t, g)
	case *ast.VarTerm:
		return checkVar(t, g)
	case *ast.BoxTerm:
		return checkBox(t, g, l)
	case *ast.RefTerm:
		return checkRef(t, g)
	case *ast.LetTerm:
		return checkLet(t, g, l)
	case *ast.AssignTerm:
		return checkAssign(t, g, l)
	case *ast.FnDeclTerm:
		return checkFnDecl(t, g, l)
	case *ast.FnCallTerm:
		return checkFnCall(t, g, l)
	default:
		return nil, nil, errors.InvalidState(fmt.Sprintf("type checker: unsupported term %T", term))
	}
}

// CheckProgram folds every top-level term through Check, threading Γ
// forward and returning the type of the final term (spec §4.3 Program).
func CheckProgram(p *ast.Program, g *types.Env, l ast.Lifetime) (*types.Env, ast.Type, error) {
	var ty ast.Type = ast.EpsilonType{}
	for _, term := range p.Terms {
		g2, t2, err := Check(term, g, l)
		if err != nil {
			return nil, nil, err
		}
		g, ty = g2, t2
	}
	return g, ty, nil
}

// checkValue types a literal: Num to Numeric, Epsilon to Epsilon. Any
// other Value reaching the checker is an interpreter bug — the parser
// never produces them (spec §4.3 Value).
func checkValue(t *ast.ValueTerm, g *types.Env) (*types.Env, ast.Type, error) {
	switch t.Val.(type) {
	case ast.Num:
		return g, ast.NumericType{}, nil
	case ast.Epsilon:
		return g, ast.EpsilonType{}, nil
	default:
		return nil, nil, errors.InvalidState(fmt.Sprintf("type checker: unexpected literal value %T", t.Val))
	}
}

// checkVar implements the crucial Var(L) rule (spec §4.3): resolve L's
// type through its dereference chain, annotate the lvalue with the
// copy-vs-move decision the evaluator will later consult, then either
// permit a copying read or perform a move.
func checkVar(t *ast.VarTerm, g *types.Env) (*types.Env, ast.Type, error) {
	ty, err := g.TypeOf(t.L)
	if err != nil {
		return nil, nil, err
	}
	copyable := ast.Copyable(ty)
	t.L.SetCopyable(copyable)
	root := t.L.Root()
	if copyable {
		if g.ReadProhibited(root) {
			return nil, nil, errors.CopyNotReadable(root)
		}
		return g, ty, nil
	}
	if g.WriteProhibited(root) {
		return nil, nil, errors.MoveNotWritable(root)
	}
	if err := g.Move(t.L); err != nil {
		return nil, nil, err
	}
	return g, ty, nil
}

// checkBox type-checks the inner term and wraps its type in Box (spec
// §4.3 Box(t)).
func checkBox(t *ast.BoxTerm, g *types.Env, l ast.Lifetime) (*types.Env, ast.Type, error) {
	g2, ty, err := Check(t.Inner, g, l)
	if err != nil {
		return nil, nil, err
	}
	return g2, ast.BoxType{Elem: ty}, nil
}

// checkRef implements Ref{mut, L} (spec §4.3): a mutable borrow requires
// both that no outstanding borrow blocks a write and that the place
// itself is mutable; a shared borrow requires only that no outstanding
// mutable borrow blocks a read.
func checkRef(t *ast.RefTerm, g *types.Env) (*types.Env, ast.Type, error) {
	root := t.L.Root()
	if t.Mutable {
		if g.WriteProhibited(root) {
			return nil, nil, errors.MutRefAlreadyBorrowedImmut(root)
		}
		mut, err := g.Mut(t.L)
		if err != nil {
			return nil, nil, err
		}
		if !mut {
			return nil, nil, errors.MutRefImmut(root)
		}
		return g, ast.RefType{Mutable: true, Var: t.L}, nil
	}
	if g.ReadProhibited(root) {
		return nil, nil, errors.RefAlreadyBorrowedMut(root)
	}
	return g, ast.RefType{Mutable: false, Var: t.L}, nil
}

// checkLet implements Let{L, t} (spec §4.3): L's name must be fresh, the
// initializer must type to something other than Epsilon (a statement
// cannot be bound), and the fresh binding is inserted at l.
func checkLet(t *ast.LetTerm, g *types.Env, l ast.Lifetime) (*types.Env, ast.Type, error) {
	if g.Contains(t.L.Name) {
		return nil, nil, errors.LetAlreadyDefined(t.L.Name)
	}
	g2, ty, err := Check(t.Init, g, l)
	if err != nil {
		return nil, nil, err
	}
	if _, isEpsilon := ty.(ast.EpsilonType); isEpsilon {
		return nil, nil, errors.LetExprNoReturn(t.Init.Span().String())
	}
	g2.Insert(t.L.Name, ty, l)
	return g2, ast.EpsilonType{}, nil
}

// checkAssign implements Assign{L, t} (spec §4.3): the right-hand side
// must be shape-compatible with L's current type, must not outlive its
// place (no dangling references), and the strong update must not itself
// land on a place an outstanding borrow has made unwritable.
func checkAssign(t *ast.AssignTerm, g *types.Env, l ast.Lifetime) (*types.Env, ast.Type, error) {
	tLHS, err := g.TypeOf(t.L)
	if err != nil {
		return nil, nil, err
	}
	lhsSlot, err := g.GetPartial(t.L.Root())
	if err != nil {
		return nil, nil, err
	}
	g2, tRHS, err := Check(t.RHS, g, l)
	if err != nil {
		return nil, nil, err
	}
	if !types.ShapeCompatible(tLHS, tRHS) {
		return nil, nil, errors.IncompatibleTypes(tLHS, tRHS)
	}
	// Containment is checked against the place's own lifetime, not the
	// ambient one: a reference written into a place that outlives its
	// referent must be rejected even when the write happens from a
	// deeper scope (e.g. a function body assigning into a variable owned
	// by its caller) — spec §4.3's "you cannot assign a shorter-lived
	// reference into a longer-lived place".
	if !g2.Within(tRHS, lhsSlot.Lifetime) {
		return nil, nil, errors.NotWithinScope(tRHS.String())
	}
	if err := g2.Write(t.L, tRHS); err != nil {
		return nil, nil, err
	}
	if g2.WriteProhibited(t.L.Root()) {
		return nil, nil, errors.AssignBorrowed(t.L.Root())
	}
	return g2, ast.EpsilonType{}, nil
}

// syntheticArgName is the backing name introduced for a reference
// parameter, so the visible argument name can be bound to a Ref pointing
// at it (spec §4.3 FnDecl: "a synthetic backing name").
func syntheticArgName(fnName, argName string) string {
	return fmt.Sprintf("%s-%s", fnName, argName)
}

// checkFnDecl implements FnDecl{name, args, body, ret} (spec §4.3):
// argument names must be distinct; the function is recorded in Γ at l;
// the body is checked in a fresh inner environment seeded with the
// enclosing bindings plus the arguments, at lifetime l+1; when a return
// type was declared, the body's final type must be shape-compatible with
// it.
func checkFnDecl(t *ast.FnDeclTerm, g *types.Env, l ast.Lifetime) (*types.Env, ast.Type, error) {
	seen := make(map[string]bool, len(t.Args))
	argTypes := make([]ast.Type, len(t.Args))
	for i, a := range t.Args {
		if seen[a.Name] {
			return nil, nil, errors.FunctionDeclDupArg(a.Name)
		}
		seen[a.Name] = true
		argTypes[i] = a.Ty
	}

	g.Insert(t.Name, ast.FunctionType{Args: argTypes, Ret: t.Ret}, l)

	inner := g.Clone()
	innerLifetime := l + 1
	for _, a := range t.Args {
		if a.Reference {
			backing := syntheticArgName(t.Name, a.Name)
			inner.Insert(backing, a.Ty, innerLifetime)
			inner.Insert(a.Name, ast.RefType{Mutable: a.Mutable, Var: ast.NewName(backing)}, innerLifetime)
			continue
		}
		inner.Insert(a.Name, a.Ty, innerLifetime)
	}

	var bodyType ast.Type = ast.EpsilonType{}
	for _, term := range t.Body {
		g2, ty, err := Check(term, inner, innerLifetime)
		if err != nil {
			return nil, nil, err
		}
		inner, bodyType = g2, ty
	}

	// "Compare the final body type to the declared return (if any)" (spec
	// §4.3): the comparison only runs when a return type was declared. A
	// function with no declared return may still end its body on a
	// value-typed term (FnCall types such a call to Epsilon regardless,
	// per checkFnCall's "Return ret or Epsilon" — the value is simply
	// never surfaced to the caller).
	if t.Ret != nil && !types.ShapeCompatible(t.Ret, bodyType) {
		return nil, nil, errors.FunctionUnexpectedReturn(t.Ret, bodyType)
	}

	return g, ast.EpsilonType{}, nil
}

// checkFnCall implements FnCall{name, params} (spec §4.3): the callee
// must be declared, the argument count must match, and each parameter
// must be shape-compatible with the declared argument type in sequence.
func checkFnCall(t *ast.FnCallTerm, g *types.Env, l ast.Lifetime) (*types.Env, ast.Type, error) {
	slot, err := g.GetPartial(t.Name)
	if err != nil {
		return nil, nil, errors.FunctionNotDefined(t.Name)
	}
	fn, ok := slot.Type.(ast.FunctionType)
	if !ok {
		return nil, nil, errors.FunctionNotDefined(t.Name)
	}
	if len(t.Params) != len(fn.Args) {
		return nil, nil, errors.FunctionCallIncompatibleArgumentCount(len(fn.Args), len(t.Params))
	}
	for i, param := range t.Params {
		g2, ty, err := Check(param, g, l)
		if err != nil {
			return nil, nil, err
		}
		g = g2
		if !types.ShapeCompatible(fn.Args[i], ty) {
			return nil, nil, errors.FunctionCallIncompatibleArgumentType(fn.Args[i], ty)
		}
	}
	if fn.Ret == nil {
		return g, ast.EpsilonType{}, nil
	}
	return g, fn.Ret, nil
}
