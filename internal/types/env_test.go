package types

import (
	"testing"

	"github.com/mu-lang/mu/internal/ast"
)

func TestGetPartialAndGet(t *testing.T) {
	g := New()
	g.Insert("x", ast.NumericType{}, 0)
	g.Insert("y", ast.UndefinedType{Elem: ast.NumericType{}}, 0)

	if _, err := g.Get("x"); err != nil {
		t.Fatalf("Get(x) = %v, want no error", err)
	}
	if _, err := g.Get("y"); err == nil {
		t.Fatalf("Get(y) = nil error, want TypeMoved")
	}
	if _, err := g.GetPartial("z"); err == nil {
		t.Fatalf("GetPartial(z) = nil error, want error for unbound name")
	}
}

func TestGetMovedThroughBox(t *testing.T) {
	g := New()
	g.Insert("b", ast.BoxType{Elem: ast.UndefinedType{Elem: ast.NumericType{}}}, 0)
	if _, err := g.Get("b"); err == nil {
		t.Fatalf("Get(b) = nil error, want TypeMoved for Box(Undefined(_))")
	}
}

func TestDomExcludesFunctions(t *testing.T) {
	g := New()
	g.Insert("x", ast.NumericType{}, 0)
	g.Insert("f", ast.FunctionType{Args: nil, Ret: ast.NumericType{}}, 0)
	dom := g.Dom()
	if len(dom) != 1 || dom[0] != "x" {
		t.Fatalf("Dom() = %v, want [x]", dom)
	}
}

func TestShapeCompatible(t *testing.T) {
	cases := []struct {
		name   string
		t1, t2 ast.Type
		want   bool
	}{
		{"numeric/numeric", ast.NumericType{}, ast.NumericType{}, true},
		{"box/box compatible", ast.BoxType{Elem: ast.NumericType{}}, ast.BoxType{Elem: ast.NumericType{}}, true},
		{"ref same mutability", ast.RefType{Mutable: true, Var: ast.NewName("a")}, ast.RefType{Mutable: true, Var: ast.NewName("b")}, true},
		{"ref different mutability", ast.RefType{Mutable: true, Var: ast.NewName("a")}, ast.RefType{Mutable: false, Var: ast.NewName("a")}, false},
		{"undefined unwraps lhs", ast.UndefinedType{Elem: ast.NumericType{}}, ast.NumericType{}, true},
		{"undefined unwraps rhs", ast.NumericType{}, ast.UndefinedType{Elem: ast.NumericType{}}, true},
		{"numeric vs box", ast.NumericType{}, ast.BoxType{Elem: ast.NumericType{}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ShapeCompatible(c.t1, c.t2); got != c.want {
				t.Errorf("ShapeCompatible(%s, %s) = %v, want %v", c.t1, c.t2, got, c.want)
			}
		})
	}
}

func TestTypeContainsRecursesThroughBoxOnly(t *testing.T) {
	num := ast.NumericType{}
	boxed := ast.BoxType{Elem: num}
	doubleBoxed := ast.BoxType{Elem: boxed}
	if !TypeContains(boxed, num) {
		t.Errorf("TypeContains(box int, int) = false, want true")
	}
	if !TypeContains(doubleBoxed, num) {
		t.Errorf("TypeContains(box box int, int) = false, want true")
	}
	ref := ast.RefType{Mutable: false, Var: ast.NewName("x")}
	boxedRef := ast.BoxType{Elem: ref}
	if !TypeContains(boxedRef, ref) {
		t.Errorf("TypeContains(box ref x, ref x) = false, want true")
	}
	if TypeContains(ref, num) {
		t.Errorf("TypeContains does not recurse through Ref; got true for (ref x, int)")
	}
}

func TestWriteProhibitedBlocksOnSharedAndMutableBorrows(t *testing.T) {
	cases := []struct {
		name    string
		refType ast.Type
		want    bool
	}{
		{"shared borrow blocks write", ast.RefType{Mutable: false, Var: ast.NewName("x")}, true},
		{"mutable borrow blocks write", ast.RefType{Mutable: true, Var: ast.NewName("x")}, true},
		{"unrelated borrow does not block", ast.RefType{Mutable: true, Var: ast.NewName("y")}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := New()
			g.Insert("x", ast.NumericType{}, 0)
			g.Insert("r", c.refType, 0)
			if got := g.WriteProhibited("x"); got != c.want {
				t.Errorf("WriteProhibited(x) = %v, want %v", got, c.want)
			}
		})
	}
}

func TestReadProhibitedOnlyBlocksOnMutableBorrow(t *testing.T) {
	g := New()
	g.Insert("x", ast.NumericType{}, 0)
	g.Insert("r", ast.RefType{Mutable: false, Var: ast.NewName("x")}, 0)
	if g.ReadProhibited("x") {
		t.Errorf("ReadProhibited(x) = true with only a shared borrow outstanding, want false")
	}
	g.Insert("m", ast.RefType{Mutable: true, Var: ast.NewName("x")}, 0)
	if !g.ReadProhibited("x") {
		t.Errorf("ReadProhibited(x) = false with a mutable borrow outstanding, want true")
	}
}

func TestMutePlaceRules(t *testing.T) {
	g := New()
	g.Insert("x", ast.NumericType{}, 0)
	g.Insert("shared", ast.RefType{Mutable: false, Var: ast.NewName("x")}, 0)
	g.Insert("mutr", ast.RefType{Mutable: true, Var: ast.NewName("x")}, 0)
	g.Insert("b", ast.BoxType{Elem: ast.NumericType{}}, 0)

	if mut, err := g.Mut(ast.NewName("shared")); err != nil || mut {
		t.Errorf("Mut(shared) = (%v,%v), want (false,nil)", mut, err)
	}
	if mut, err := g.Mut(ast.NewName("x")); err != nil || !mut {
		t.Errorf("Mut(x) = (%v,%v), want (true,nil)", mut, err)
	}
	if mut, err := g.Mut(ast.NewDeref(ast.NewName("b"))); err != nil || !mut {
		t.Errorf("Mut(*b) = (%v,%v), want (true,nil)", mut, err)
	}
	if mut, err := g.Mut(ast.NewDeref(ast.NewName("mutr"))); err != nil || !mut {
		t.Errorf("Mut(*mutr) = (%v,%v), want (true,nil)", mut, err)
	}
}

func TestMovePreservesBoxShellAndLifetime(t *testing.T) {
	g := New()
	g.Insert("x", ast.BoxType{Elem: ast.NumericType{}}, 3)

	if err := g.Move(ast.NewName("x")); err != nil {
		t.Fatalf("Move(x) = %v, want no error", err)
	}
	slot, err := g.GetPartial("x")
	if err != nil {
		t.Fatalf("GetPartial(x) = %v", err)
	}
	if slot.Lifetime != 3 {
		t.Errorf("Lifetime after move = %d, want 3 (unchanged)", slot.Lifetime)
	}
	undef, ok := slot.Type.(ast.UndefinedType)
	if !ok {
		t.Fatalf("Type after move = %T, want ast.UndefinedType", slot.Type)
	}
	if _, ok := undef.Elem.(ast.BoxType); !ok {
		t.Errorf("Undefined.Elem = %T, want ast.BoxType (shell preserved)", undef.Elem)
	}
}

func TestWriteRejectsSharedReference(t *testing.T) {
	g := New()
	g.Insert("x", ast.NumericType{}, 0)
	g.Insert("y", ast.RefType{Mutable: false, Var: ast.NewName("x")}, 0)

	err := g.Write(ast.NewDeref(ast.NewName("y")), ast.NumericType{})
	if err == nil {
		t.Fatal("Write through shared reference succeeded, want rejection")
	}
}

func TestWriteThroughMutableReferenceUpdatesReferent(t *testing.T) {
	g := New()
	g.Insert("x", ast.NumericType{}, 0)
	g.Insert("y", ast.RefType{Mutable: true, Var: ast.NewName("x")}, 0)

	if err := g.Write(ast.NewDeref(ast.NewName("y")), ast.NumericType{}); err != nil {
		t.Fatalf("Write(*y, int) = %v, want no error", err)
	}
	xType, err := g.Get("x")
	if err != nil {
		t.Fatalf("Get(x) after write = %v", err)
	}
	if _, ok := xType.(ast.NumericType); !ok {
		t.Errorf("x type after write = %v, want NumericType", xType)
	}
}

func TestWithinLifetimeContainment(t *testing.T) {
	g := New()
	g.Insert("x", ast.NumericType{}, 2)

	refOK := ast.RefType{Mutable: false, Var: ast.NewName("x")}
	if !g.Within(refOK, 3) {
		t.Errorf("Within(ref x, 3) = false, want true (2 <= 3)")
	}
	if g.Within(refOK, 1) {
		t.Errorf("Within(ref x, 1) = true, want false (2 > 1)")
	}
	if !g.Within(ast.NumericType{}, 0) {
		t.Errorf("Within(int, 0) = false, want true (non-ref always within)")
	}
}
