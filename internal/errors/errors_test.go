package errors

import (
	"strings"
	"testing"

	"github.com/mu-lang/mu/internal/ast"
)

func TestTypeErrorRendering(t *testing.T) {
	cases := []struct {
		name string
		err  *TypeError
		kind TypeErrorKind
		want string
	}{
		{
			"arg count",
			FunctionCallIncompatibleArgumentCount(2, 1),
			KindFunctionCallIncompatibleArgumentCount,
			"TYPE ERROR: Incompatible argument count: expected 2, got 1",
		},
		{
			"moved",
			TypeMoved(ast.BoxType{Elem: ast.NumericType{}}),
			KindTypeMoved,
			"TYPE ERROR: Type of box int is undefined, indicating that it was moved",
		},
		{
			"mut ref already borrowed",
			MutRefAlreadyBorrowedImmut("x"),
			KindMutRefAlreadyBorrowedImmut,
			"TYPE ERROR: Cannot create a mutable reference to x as it's already borrowed immutably",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.err.Kind != c.kind {
				t.Errorf("Kind = %s, want %s", c.err.Kind, c.kind)
			}
			if got := c.err.Error(); got != c.want {
				t.Errorf("Error() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestInternalErrorRendering(t *testing.T) {
	err := MissingStoreCell(ast.Address(7))
	if err.Category != CategoryStore {
		t.Errorf("Category = %s, want %s", err.Category, CategoryStore)
	}
	if !strings.HasPrefix(err.Error(), "ERROR: [STORE]") {
		t.Errorf("Error() = %q, want ERROR: [STORE] prefix", err.Error())
	}
	if !strings.Contains(err.Error(), "MissingStoreCell") {
		t.Errorf("Error() = %q, want caller name MissingStoreCell", err.Error())
	}
}
