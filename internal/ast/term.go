package ast

import "github.com/mu-lang/mu/internal/position"

// Term is a node of Mu's abstract syntax (spec §3).
type Term interface {
	isTerm()
	Span() position.Span
}

type termBase struct {
	span position.Span
}

func (b termBase) Span() position.Span { return b.span }

// ValueTerm wraps a literal runtime value that already appears in source
// position (currently only numeric literals are produced by the parser;
// other Value kinds occur only as intermediate evaluation results).
type ValueTerm struct {
	termBase
	Val Value
}

func (*ValueTerm) isTerm() {}

// NewValueTerm builds a ValueTerm at span.
func NewValueTerm(span position.Span, v Value) *ValueTerm {
	return &ValueTerm{termBase: termBase{span}, Val: v}
}

// VarTerm reads an lvalue. Whether the read copies or moves depends on the
// type checker's resolution of L, recorded on L.Copyable (spec §4.3, §9).
type VarTerm struct {
	termBase
	L *LVal
}

func (*VarTerm) isTerm() {}

// NewVarTerm builds a VarTerm at span.
func NewVarTerm(span position.Span, l *LVal) *VarTerm {
	return &VarTerm{termBase: termBase{span}, L: l}
}

// BoxTerm heap-allocates the result of Inner, yielding an owning reference.
type BoxTerm struct {
	termBase
	Inner Term
}

func (*BoxTerm) isTerm() {}

// NewBoxTerm builds a BoxTerm at span.
func NewBoxTerm(span position.Span, inner Term) *BoxTerm {
	return &BoxTerm{termBase: termBase{span}, Inner: inner}
}

// RefTerm takes a borrow of L, mutable or shared.
type RefTerm struct {
	termBase
	Mutable bool
	L       *LVal
}

func (*RefTerm) isTerm() {}

// NewRefTerm builds a RefTerm at span.
func NewRefTerm(span position.Span, mutable bool, l *LVal) *RefTerm {
	return &RefTerm{termBase: termBase{span}, Mutable: mutable, L: l}
}

// LetTerm binds L (always freshly, Mut is retained for surface fidelity
// though Mu's typing rules do not currently distinguish mut/immut lets
// beyond the grammar requiring the keyword) to the result of Init in the
// current scope.
type LetTerm struct {
	termBase
	Mut  bool
	L    *LVal
	Init Term
}

func (*LetTerm) isTerm() {}

// NewLetTerm builds a LetTerm at span.
func NewLetTerm(span position.Span, mut bool, l *LVal, init Term) *LetTerm {
	return &LetTerm{termBase: termBase{span}, Mut: mut, L: l, Init: init}
}

// AssignTerm overwrites the slot addressed by L with the result of RHS,
// first recursively dropping the previous contents.
type AssignTerm struct {
	termBase
	L   *LVal
	RHS Term
}

func (*AssignTerm) isTerm() {}

// NewAssignTerm builds an AssignTerm at span.
func NewAssignTerm(span position.Span, l *LVal, rhs Term) *AssignTerm {
	return &AssignTerm{termBase: termBase{span}, L: l, RHS: rhs}
}

// Argument is a function parameter declaration: name, declared type, and
// whether it is mutable and/or passed by reference (spec §3).
type Argument struct {
	Name      string
	Ty        Type
	Mutable   bool
	Reference bool
}

// FnDeclTerm declares a function named Name with parameters Args, a body
// sequence Body, and an optional declared return type Ret (nil means no
// declared return, and the body's final type is not checked).
type FnDeclTerm struct {
	termBase
	Name string
	Args []Argument
	Body []Term
	Ret  Type
}

func (*FnDeclTerm) isTerm() {}

// NewFnDeclTerm builds an FnDeclTerm at span.
func NewFnDeclTerm(span position.Span, name string, args []Argument, body []Term, ret Type) *FnDeclTerm {
	return &FnDeclTerm{termBase: termBase{span}, Name: name, Args: args, Body: body, Ret: ret}
}

// FnCallTerm calls the function named Name with argument expressions
// Params, evaluated left to right.
type FnCallTerm struct {
	termBase
	Name   string
	Params []Term
}

func (*FnCallTerm) isTerm() {}

// NewFnCallTerm builds an FnCallTerm at span.
func NewFnCallTerm(span position.Span, name string, params []Term) *FnCallTerm {
	return &FnCallTerm{termBase: termBase{span}, Name: name, Params: params}
}

// Program is a sequence of top-level terms, evaluated in order (spec §2).
type Program struct {
	Terms []Term
}
