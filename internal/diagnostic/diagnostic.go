// Package diagnostic renders the interpreter's two error taxonomies (spec
// §7) and the CLI's -l/-p/-t/-e dump output into the driver's expected
// textual form.
package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mu-lang/mu/internal/ast"
	mu_errors "github.com/mu-lang/mu/internal/errors"
	"github.com/mu-lang/mu/internal/interpreter"
	"github.com/mu-lang/mu/internal/position"
	"github.com/mu-lang/mu/internal/token"
	"github.com/mu-lang/mu/internal/types"
)

// Level distinguishes a fatal error from an informational dump line; Mu has
// no warning tier, unlike a full compiler's diagnostics.
type Level int

const (
	LevelError Level = iota
	LevelInfo
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category classifies where a diagnostic originated: lexing/parsing (a
// syntax error the user must fix before the checker ever runs), the type
// checker (spec §7's TypeError taxonomy), or the interpreter itself (spec
// §7's InternalError taxonomy — a bug in the interpreter, not the program).
type Category int

const (
	CategorySyntax Category = iota
	CategoryType
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryType:
		return "type"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Diagnostic is one reportable line: either a fatal error bubbled up from
// the lexer/parser/checker/evaluator, or an informational dump (-l/-p/-t/-e)
// the CLI requested.
type Diagnostic struct {
	Level    Level
	Category Category
	Message  string
}

// FromError classifies an error returned by the lexer, parser, type
// checker, or evaluator into the diagnostic it should render as. Per spec
// §7, every error is one of *errors.TypeError (rendered "TYPE ERROR: ..."),
// *errors.InternalError (rendered "ERROR: ..."), or a plain parse/lex error
// (rendered as a syntax diagnostic ahead of either taxonomy, since a
// program that doesn't parse never reaches the checker).
func FromError(err error) Diagnostic {
	switch e := err.(type) {
	case *mu_errors.TypeError:
		return Diagnostic{Level: LevelError, Category: CategoryType, Message: e.Error()}
	case *mu_errors.InternalError:
		return Diagnostic{Level: LevelError, Category: CategoryInternal, Message: e.Error()}
	default:
		return Diagnostic{Level: LevelError, Category: CategorySyntax, Message: err.Error()}
	}
}

// Info builds an informational diagnostic for a -l/-p/-t/-e dump line.
func Info(message string) Diagnostic {
	return Diagnostic{Level: LevelInfo, Message: message}
}

// String renders the diagnostic in the driver's expected form (spec §7):
// a type error is prefixed "TYPE ERROR: ", every other fatal error "ERROR:
// ", and an informational line is printed bare.
func (d Diagnostic) String() string {
	switch d.Level {
	case LevelError:
		if d.Category == CategoryType {
			return d.Message
		}
		if strings.HasPrefix(d.Message, "ERROR:") || strings.HasPrefix(d.Message, "TYPE ERROR:") {
			return d.Message
		}
		return fmt.Sprintf("ERROR: %s", d.Message)
	default:
		return d.Message
	}
}

// Report accumulates diagnostics across a single CLI invocation — one dump
// section per requested flag, followed by at most one fatal error — and
// renders them to the driver's combined textual output.
type Report struct {
	entries []Diagnostic
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends a diagnostic to the report.
func (r *Report) Add(d Diagnostic) {
	r.entries = append(r.entries, d)
}

// AddSection appends an informational dump section: a header line followed
// by body, used to separate -l/-p/-t/-e output from each other and from a
// trailing error.
func (r *Report) AddSection(header, body string) {
	r.Add(Info(fmt.Sprintf("== %s ==", header)))
	r.Add(Info(body))
}

// HasError reports whether any fatal diagnostic was recorded.
func (r *Report) HasError() bool {
	for _, d := range r.entries {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}

// String renders every entry in order, one per line.
func (r *Report) String() string {
	var b strings.Builder
	for i, d := range r.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.String())
	}
	return b.String()
}

// DumpTokens renders the -l/-lex dump: one token per line, each followed by
// the source line it was scanned from (via position.SourceFile, so a
// misplaced token is immediately visible in context).
func DumpTokens(filename, src string, toks []token.Token) string {
	file := position.NewSourceFile(filename, src)
	var b strings.Builder
	for _, tok := range toks {
		fmt.Fprintf(&b, "%s\t%s\n", tok.String(), file.GetLine(tok.Pos.Line))
	}
	return b.String()
}

// DumpAST renders the -p/-parse dump: one indented line per term, in
// program order, recursing into sub-terms the way the checker and
// evaluator themselves recurse.
func DumpAST(p *ast.Program) string {
	var b strings.Builder
	for _, term := range p.Terms {
		dumpTerm(&b, term, 0)
	}
	return b.String()
}

func dumpTerm(b *strings.Builder, term ast.Term, depth int) {
	indent := strings.Repeat("  ", depth)
	switch t := term.(type) {
	case *ast.ValueTerm:
		fmt.Fprintf(b, "%sValue(%s)\n", indent, t.Val.String())
	case *ast.VarTerm:
		fmt.Fprintf(b, "%sVar(%s)\n", indent, t.L.String())
	case *ast.BoxTerm:
		fmt.Fprintf(b, "%sBox\n", indent)
		dumpTerm(b, t.Inner, depth+1)
	case *ast.RefTerm:
		fmt.Fprintf(b, "%sRef(mut=%v, %s)\n", indent, t.Mutable, t.L.String())
	case *ast.LetTerm:
		fmt.Fprintf(b, "%sLet(%s)\n", indent, t.L.String())
		dumpTerm(b, t.Init, depth+1)
	case *ast.AssignTerm:
		fmt.Fprintf(b, "%sAssign(%s)\n", indent, t.L.String())
		dumpTerm(b, t.RHS, depth+1)
	case *ast.FnDeclTerm:
		fmt.Fprintf(b, "%sFnDecl(%s)\n", indent, t.Name)
		for _, body := range t.Body {
			dumpTerm(b, body, depth+1)
		}
	case *ast.FnCallTerm:
		fmt.Fprintf(b, "%sFnCall(%s)\n", indent, t.Name)
		for _, param := range t.Params {
			dumpTerm(b, param, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s%T\n", indent, term)
	}
}

// DumpEnv renders the -t/-typecheck dump: Γ's bindings sorted by name,
// "name: type@lifetime" one per line.
func DumpEnv(g *types.Env) string {
	names := g.Dom()
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		slot, err := g.GetPartial(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%s: %s@%d\n", name, slot.Type.String(), slot.Lifetime)
	}
	return b.String()
}

// DumpState renders the -e/-eval dump: the final store bindings in the
// driver's "name: [ref ]* value" form (spec §6).
func DumpState(result *interpreter.Result) string {
	return interpreter.RenderBindings(result.State)
}
