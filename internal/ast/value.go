package ast

import "fmt"

// Value is a runtime value: the result of evaluating a term, or the
// contents of a store cell.
type Value interface {
	isValue()
	String() string
}

// Num is a 64-bit signed integer literal value.
type Num struct {
	N int64
}

func (Num) isValue()         {}
func (v Num) String() string { return fmt.Sprintf("%d", v.N) }

// Ref is a reference value: either an owning pointer created by Box
// (Owned == true), or a borrow created by Ref/MutRef (Owned == false).
// Path is reserved for future field projection and is currently unused,
// mirroring the original prototype (spec §3).
type Ref struct {
	Addr  Address
	Owned bool
	Path  []int
}

func (Ref) isValue() {}
func (v Ref) String() string {
	if v.Owned {
		return fmt.Sprintf("box@%d", v.Addr)
	}
	return fmt.Sprintf("ref@%d", v.Addr)
}

// Epsilon is the unit-like result of evaluating a statement (Let, Assign,
// FnDecl).
type Epsilon struct{}

func (Epsilon) isValue()       {}
func (Epsilon) String() string { return "()" }

// Undefined is written into a store cell when its content has been moved
// out. Elem can carry the type that used to live there; the evaluator
// leaves it nil when it moves a value out.
type Undefined struct {
	Elem Type
}

func (Undefined) isValue() {}
func (v Undefined) String() string {
	return "undefined"
}
