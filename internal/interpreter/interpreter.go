// Package interpreter implements C6 (spec §2, §4.6): the driver that
// threads a program through the whole-program type-check pre-pass, then
// steps each top-level term through the property checker, the evaluator,
// and the type checker in turn.
package interpreter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mu-lang/mu/internal/ast"
	"github.com/mu-lang/mu/internal/evaluator"
	"github.com/mu-lang/mu/internal/properties"
	"github.com/mu-lang/mu/internal/store"
	"github.com/mu-lang/mu/internal/typechecker"
	"github.com/mu-lang/mu/internal/types"
)

// Result holds the final runtime state and type environment reached after
// a program runs to completion, so a caller (e.g. the CLI's -t/-e dumps)
// can render them without re-running anything.
type Result struct {
	State *store.State
	Env   *types.Env
	// Value is the value the last top-level term evaluated to, for callers
	// (the CLI's `-load` one-shot mode) that want the program's result
	// rather than its final bindings. An empty program (or one whose last
	// term is a statement) yields ast.Epsilon.
	Value ast.Value
}

// Run implements run(program) (spec §4.6): a whole-program type-check
// pre-pass against a fresh Γ₀, then for each top-level term in turn,
// assert_progress, assert_preservation, the real evaluation step, and the
// real type-check step that advances Γ to reflect the term's moves.
//
// The pre-pass runs against a throwaway environment: it exists purely to
// reject a program that doesn't type-check as a whole before any term is
// evaluated, mirroring the original's "syntax-check everything, then run
// it" two-pass shape. The per-term Γ threaded through the main loop starts
// fresh, exactly as the pre-pass's did.
func Run(program *ast.Program) (*Result, error) {
	if _, _, err := typechecker.CheckProgram(program, types.New(), 0); err != nil {
		return nil, err
	}

	s := store.New()
	g := types.New()
	var last ast.Value = ast.Epsilon{}
	for _, term := range program.Terms {
		if err := properties.AssertProgress(s, term, g, 0); err != nil {
			return nil, err
		}
		if err := properties.AssertPreservation(s, term, g, 0); err != nil {
			return nil, err
		}
		s2, v, err := evaluator.Evaluate(term, s, 0)
		if err != nil {
			return nil, err
		}
		g2, _, err := typechecker.Check(term, g, 0)
		if err != nil {
			return nil, err
		}
		s, g, last = s2, g2, v
	}
	return &Result{State: s, Env: g, Value: last}, nil
}

// RenderBindings formats the final live bindings per spec §6: one line per
// name, "name: [ref ]* value", with one "ref " prefix per dereference hop
// until a non-reference value is reached. Lines are sorted by name for
// deterministic output.
func RenderBindings(s *store.State) string {
	bindings := s.Bindings()
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %s\n", name, renderValue(s, bindings[name]))
	}
	return b.String()
}

// renderValue follows addr through any chain of stored references, one
// "ref " prefix per hop, stopping at the first non-reference value.
func renderValue(s *store.State, addr ast.Address) string {
	var prefixes strings.Builder
	for {
		v, err := s.Heap.Read(addr)
		if err != nil {
			return prefixes.String() + "<dropped>"
		}
		ref, ok := v.(ast.Ref)
		if !ok {
			return prefixes.String() + v.String()
		}
		prefixes.WriteString("ref ")
		addr = ref.Addr
	}
}
