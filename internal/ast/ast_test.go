package ast

import "testing"

func TestLValRootAndDepth(t *testing.T) {
	cases := []struct {
		name     string
		l        *LVal
		wantRoot string
		wantStr  string
		wantDep  int
	}{
		{"bare", NewName("x"), "x", "x", 0},
		{"one deref", NewDeref(NewName("y")), "y", "*y", 1},
		{"two deref", NewDeref(NewDeref(NewName("z"))), "z", "**z", 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.l.Root(); got != c.wantRoot {
				t.Errorf("Root() = %q, want %q", got, c.wantRoot)
			}
			if got := c.l.String(); got != c.wantStr {
				t.Errorf("String() = %q, want %q", got, c.wantStr)
			}
			if got := c.l.Depth(); got != c.wantDep {
				t.Errorf("Depth() = %d, want %d", got, c.wantDep)
			}
		})
	}
}

func TestLValCopyableAnnotation(t *testing.T) {
	l := NewName("x")
	if l.Copyable != nil {
		t.Fatalf("fresh lvalue should have nil Copyable, got %v", *l.Copyable)
	}
	l.SetCopyable(true)
	if l.Copyable == nil || *l.Copyable != true {
		t.Fatalf("SetCopyable(true) did not stick")
	}
	l.SetCopyable(false)
	if l.Copyable == nil || *l.Copyable != false {
		t.Fatalf("SetCopyable(false) did not stick")
	}
}

func TestCopyable(t *testing.T) {
	cases := []struct {
		name string
		ty   Type
		want bool
	}{
		{"numeric", NumericType{}, true},
		{"epsilon", EpsilonType{}, true},
		{"function", FunctionType{Args: []Type{NumericType{}}, Ret: NumericType{}}, true},
		{"shared ref", RefType{Mutable: false, Var: NewName("x")}, true},
		{"mut ref", RefType{Mutable: true, Var: NewName("x")}, false},
		{"box", BoxType{Elem: NumericType{}}, false},
		{"undefined of numeric", UndefinedType{Elem: NumericType{}}, true},
		{"undefined of box", UndefinedType{Elem: BoxType{Elem: NumericType{}}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Copyable(c.ty); got != c.want {
				t.Errorf("Copyable(%s) = %v, want %v", c.ty, got, c.want)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	box := BoxType{Elem: NumericType{}}
	if got, want := box.String(), "box int"; got != want {
		t.Errorf("BoxType.String() = %q, want %q", got, want)
	}
	ref := RefType{Mutable: true, Var: NewName("x")}
	if got, want := ref.String(), "mut ref x"; got != want {
		t.Errorf("RefType.String() = %q, want %q", got, want)
	}
	fn := FunctionType{Args: []Type{NumericType{}, BoxType{Elem: NumericType{}}}, Ret: NumericType{}}
	if got, want := fn.String(), "fn(int, box int) -> int"; got != want {
		t.Errorf("FunctionType.String() = %q, want %q", got, want)
	}
}
