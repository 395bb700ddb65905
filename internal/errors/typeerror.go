// Package errors implements Mu's two error taxonomies (spec §7): surface
// TypeError, raised by the type checker, and InternalError, raised when an
// invariant the checker/evaluator rely on is violated.
package errors

import (
	"fmt"

	"github.com/mu-lang/mu/internal/ast"
)

// TypeErrorKind names one of the sixteen fixed kinds of surface-visible
// type error spec.md §7 enumerates.
type TypeErrorKind string

const (
	KindFunctionCallIncompatibleArgumentCount TypeErrorKind = "FunctionCallIncompatibleArgumentCount"
	KindFunctionCallIncompatibleArgumentType  TypeErrorKind = "FunctionCallIncompatibleArgumentType"
	KindFunctionNotDefined                    TypeErrorKind = "FunctionNotDefined"
	KindFunctionDeclDupArg                    TypeErrorKind = "FunctionDeclDupArg"
	KindFunctionUnexpectedReturn              TypeErrorKind = "FunctionUnexpectedReturn"
	KindCopyNotReadable                       TypeErrorKind = "CopyNotReadable"
	KindMoveNotWritable                       TypeErrorKind = "MoveNotWritable"
	KindMutRefAlreadyBorrowedImmut            TypeErrorKind = "MutRefAlreadyBorrowedImmut"
	KindMutRefImmut                           TypeErrorKind = "MutRefImmut"
	KindRefAlreadyBorrowedMut                 TypeErrorKind = "RefAlreadyBorrowedMut"
	KindLetAlreadyDefined                     TypeErrorKind = "LetAlreadyDefined"
	KindLetExprNoReturn                       TypeErrorKind = "LetExprNoReturn"
	KindAssignBorrowed                        TypeErrorKind = "AssignBorrowed"
	KindIncompatibleTypes                     TypeErrorKind = "IncompatibleTypes"
	KindNotWithinScope                        TypeErrorKind = "NotWithinScope"
	KindTypeMoved                             TypeErrorKind = "TypeMoved"
)

// TypeError is a surface-visible, user-fixable type-checking failure.
type TypeError struct {
	Kind    TypeErrorKind
	Message string
}

// Error renders the error in the driver's expected "TYPE ERROR: ..." form
// (spec §7).
func (e *TypeError) Error() string {
	return "TYPE ERROR: " + e.Message
}

func newTypeError(kind TypeErrorKind, message string) *TypeError {
	return &TypeError{Kind: kind, Message: message}
}

// FunctionCallIncompatibleArgumentCount reports an arity mismatch at a call
// site.
func FunctionCallIncompatibleArgumentCount(expected, got int) *TypeError {
	return newTypeError(KindFunctionCallIncompatibleArgumentCount,
		fmt.Sprintf("Incompatible argument count: expected %d, got %d", expected, got))
}

// FunctionCallIncompatibleArgumentType reports a shape_compatible failure
// between a declared parameter type and the actual argument type.
func FunctionCallIncompatibleArgumentType(expected, got ast.Type) *TypeError {
	return newTypeError(KindFunctionCallIncompatibleArgumentType,
		fmt.Sprintf("Incompatible argument type: expected %s, got %s", expected, got))
}

// FunctionNotDefined reports a call to an undeclared function.
func FunctionNotDefined(name string) *TypeError {
	return newTypeError(KindFunctionNotDefined,
		fmt.Sprintf("Function not defined: %s()", name))
}

// FunctionDeclDupArg reports a duplicate argument name in a declaration.
func FunctionDeclDupArg(name string) *TypeError {
	return newTypeError(KindFunctionDeclDupArg,
		fmt.Sprintf("Duplicate argument in function declaration: %s", name))
}

// FunctionUnexpectedReturn reports a body type that disagrees with the
// function's declared return type.
func FunctionUnexpectedReturn(expected, got ast.Type) *TypeError {
	return newTypeError(KindFunctionUnexpectedReturn,
		fmt.Sprintf("Unexpected return type: expected %s, got %s", expected, got))
}

// CopyNotReadable reports a copy-read blocked by an outstanding mutable
// borrow.
func CopyNotReadable(name string) *TypeError {
	return newTypeError(KindCopyNotReadable,
		fmt.Sprintf("Cannot copy variable that is mutably borrowed: %s", name))
}

// MoveNotWritable reports a move blocked by an outstanding borrow.
func MoveNotWritable(name string) *TypeError {
	return newTypeError(KindMoveNotWritable,
		fmt.Sprintf("Cannot move variable that is borrowed: %s", name))
}

// MutRefAlreadyBorrowedImmut reports a mutable borrow attempted while a
// shared borrow is outstanding.
func MutRefAlreadyBorrowedImmut(name string) *TypeError {
	return newTypeError(KindMutRefAlreadyBorrowedImmut,
		fmt.Sprintf("Cannot create a mutable reference to %s as it's already borrowed immutably", name))
}

// MutRefImmut reports a mutable borrow of a place that is not itself
// mutable.
func MutRefImmut(name string) *TypeError {
	return newTypeError(KindMutRefImmut,
		fmt.Sprintf("Mutable reference cannot be created from immutable place: %s", name))
}

// RefAlreadyBorrowedMut reports a shared borrow attempted while a mutable
// borrow is outstanding.
func RefAlreadyBorrowedMut(name string) *TypeError {
	return newTypeError(KindRefAlreadyBorrowedMut,
		fmt.Sprintf("Immutable reference already borrowed mutably: %s", name))
}

// LetAlreadyDefined reports shadowing, which Mu rejects.
func LetAlreadyDefined(name string) *TypeError {
	return newTypeError(KindLetAlreadyDefined,
		fmt.Sprintf("Variable already defined: %s", name))
}

// LetExprNoReturn reports a Let whose right-hand side is a statement
// (types to Epsilon), which cannot be bound.
func LetExprNoReturn(desc string) *TypeError {
	return newTypeError(KindLetExprNoReturn,
		fmt.Sprintf("Let expression does not return a value: %s", desc))
}

// AssignBorrowed reports an assignment into a place with an outstanding
// borrow.
func AssignBorrowed(name string) *TypeError {
	return newTypeError(KindAssignBorrowed,
		fmt.Sprintf("Cannot assign to borrowed reference: %s", name))
}

// IncompatibleTypes reports a shape_compatible failure in an assignment.
func IncompatibleTypes(t1, t2 ast.Type) *TypeError {
	return newTypeError(KindIncompatibleTypes,
		fmt.Sprintf("Incompatible types: %s and %s", t1, t2))
}

// NotWithinScope reports a lifetime-containment failure: a value does not
// live long enough for the place it is being stored into.
func NotWithinScope(desc string) *TypeError {
	return newTypeError(KindNotWithinScope,
		fmt.Sprintf("Type is not within scope: %s", desc))
}

// TypeMoved reports a read of a binding whose type is Undefined.
func TypeMoved(t ast.Type) *TypeError {
	return newTypeError(KindTypeMoved,
		fmt.Sprintf("Type of %s is undefined, indicating that it was moved", t))
}
