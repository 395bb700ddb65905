package errors

import (
	"fmt"
	"runtime"

	"github.com/mu-lang/mu/internal/ast"
)

// InternalCategory classifies a runtime/invariant error: a failure that
// indicates a bug in the interpreter, not in the Mu program being run
// (spec §7).
type InternalCategory string

const (
	CategoryStore    InternalCategory = "STORE"
	CategoryState    InternalCategory = "STATE"
	CategoryProperty InternalCategory = "PROPERTY"
)

// InternalError is raised as a fatal abort: invalid state, a missing store
// cell when one was asserted present, or a property-checker disagreement.
type InternalError struct {
	Category InternalCategory
	Message  string
	Caller   string
}

// Error renders the error in the driver's expected "ERROR: ..." form
// (spec §7).
func (e *InternalError) Error() string {
	return fmt.Sprintf("ERROR: [%s] %s (at %s)", e.Category, e.Message, e.Caller)
}

func newInternalError(category InternalCategory, message string) *InternalError {
	pc, _, _, ok := runtime.Caller(1)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}
	return &InternalError{Category: category, Message: message, Caller: caller}
}

// MissingStoreCell reports a read/write/drop against an address the store
// has no cell for, violating invariant I1/I5.
func MissingStoreCell(addr ast.Address) *InternalError {
	return newInternalError(CategoryStore, fmt.Sprintf("no store cell at address %d", addr))
}

// InvalidState reports a generic state-invariant violation (valid_state,
// valid_store, well_formed, safe_abstraction).
func InvalidState(detail string) *InternalError {
	return newInternalError(CategoryState, detail)
}

// PropertyViolation reports assert_progress or assert_preservation failing
// after a step that the type checker accepted.
func PropertyViolation(detail string) *InternalError {
	return newInternalError(CategoryProperty, detail)
}
