package ast

import "fmt"

// Type is a Mu static type: Epsilon, Numeric, Box or Ref, plus Undefined
// (the typing placeholder left behind after a move) and Function (spec §3).
type Type interface {
	isType()
	String() string
}

// EpsilonType is the type of a statement result.
type EpsilonType struct{}

func (EpsilonType) isType()        {}
func (EpsilonType) String() string { return "epsilon" }

// NumericType is Mu's only scalar type, a 64-bit signed integer.
type NumericType struct{}

func (NumericType) isType()        {}
func (NumericType) String() string { return "int" }

// BoxType is an owning heap pointer to a value of type Elem.
type BoxType struct {
	Elem Type
}

func (BoxType) isType() {}
func (t BoxType) String() string {
	return fmt.Sprintf("box %s", t.Elem)
}

// RefType is a borrow of a specific lvalue. The type remembers which lvalue
// is borrowed (Var), which is what makes the borrow checker sound without
// a separate lifetime variable (spec §3).
type RefType struct {
	Mutable bool
	Var     *LVal
}

func (RefType) isType() {}
func (t RefType) String() string {
	if t.Mutable {
		return fmt.Sprintf("mut ref %s", t.Var)
	}
	return fmt.Sprintf("ref %s", t.Var)
}

// UndefinedType is the typing placeholder left after a value of type Elem
// has been moved out of its slot; the slot still reserves the name.
type UndefinedType struct {
	Elem Type
}

func (UndefinedType) isType() {}
func (t UndefinedType) String() string {
	return fmt.Sprintf("undefined(%s)", t.Elem)
}

// FunctionType is the type recorded for a declared function: its parameter
// types in order, and an optional return type (nil means no declared
// return: the body's final type is not checked, and a call types to
// Epsilon).
type FunctionType struct {
	Args []Type
	Ret  Type
}

func (FunctionType) isType() {}
func (t FunctionType) String() string {
	s := "fn("
	for i, a := range t.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	s += ")"
	if t.Ret != nil {
		s += " -> " + t.Ret.String()
	}
	return s
}

// Copyable reports whether a value of type t may be read without
// consuming it. Numeric, shared references and functions are copyable;
// Box and mutable references are affine (move-only) (spec §3).
func Copyable(t Type) bool {
	switch v := t.(type) {
	case NumericType:
		return true
	case FunctionType:
		return true
	case RefType:
		return !v.Mutable
	case BoxType:
		return false
	case UndefinedType:
		return Copyable(v.Elem)
	case EpsilonType:
		return true
	default:
		return false
	}
}
