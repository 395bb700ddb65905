// Command mu is interp, the Mu language's lex/parse/typecheck/eval driver
// (spec §6). It reads one source file (or -load's inline source), runs it
// through the whole pipeline, and prints the dump each requested flag asks
// for — the final bindings with -e — or a fatal diagnostic on the first
// failure.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mu-lang/mu/internal/cli"
	"github.com/mu-lang/mu/internal/diagnostic"
	"github.com/mu-lang/mu/internal/interpreter"
	"github.com/mu-lang/mu/internal/lexer"
	"github.com/mu-lang/mu/internal/parser"
	"github.com/mu-lang/mu/internal/watch"
)

func main() {
	var (
		help        bool
		lexFlag     bool
		parseFlag   bool
		typeFlag    bool
		evalFlag    bool
		loadSrc     string
		watchFlag   bool
		version     bool
		versionJSON bool
		configPath  string
		verbose     bool
		debug       bool
	)

	flag.BoolVar(&help, "h", false, "show usage")
	flag.BoolVar(&help, "help", false, "show usage")
	flag.BoolVar(&lexFlag, "l", false, "emit tokens")
	flag.BoolVar(&lexFlag, "lex", false, "emit tokens")
	flag.BoolVar(&parseFlag, "p", false, "emit AST")
	flag.BoolVar(&parseFlag, "parse", false, "emit AST")
	flag.BoolVar(&typeFlag, "t", false, "emit type environment")
	flag.BoolVar(&typeFlag, "typecheck", false, "emit type environment")
	flag.BoolVar(&evalFlag, "e", false, "emit final state")
	flag.BoolVar(&evalFlag, "eval", false, "emit final state")
	flag.StringVar(&loadSrc, "load", "", "run inline Mu source directly, printing its final value, instead of reading a file")
	flag.BoolVar(&watchFlag, "watch", false, "re-run on source file change")
	flag.BoolVar(&version, "version", false, "print interp's version")
	flag.BoolVar(&versionJSON, "version-json", false, "print interp's version as JSON")
	flag.StringVar(&configPath, "config", "", "path to a JSON config file of default flag values")
	flag.BoolVar(&verbose, "verbose", false, "enable info-level logging")
	flag.BoolVar(&debug, "debug", false, "enable debug-level logging")
	flag.Usage = usage
	flag.Parse()

	if help {
		usage()
		return
	}
	if version || versionJSON {
		if err := cli.PrintVersion(versionJSON); err != nil {
			cli.ExitWithError("%v", err)
		}
		return
	}

	cfg, err := cli.LoadConfig(configPath)
	if err != nil {
		cli.ExitWithError("%v", err)
	}
	logger := cli.NewLogger(verbose || cfg.Verbose, debug || cfg.Debug)

	dumps := flags{lex: lexFlag, parse: parseFlag, typecheck: typeFlag, eval: evalFlag}

	if loadSrc != "" {
		if len(flag.Args()) != 0 {
			cli.ExitWithError("-load runs inline source and takes no file argument")
		}
		if watchFlag || cfg.Watch {
			cli.ExitWithError("-watch needs a file to watch; it cannot combine with -load")
		}
		report, result, fatal := runSource("<load>", loadSrc, dumps)
		fmt.Print(report.String())
		if report.String() != "" {
			fmt.Println()
		}
		if fatal {
			os.Exit(1)
		}
		fmt.Println(result.Value.String())
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}
	path := args[0]

	run := func() {
		report, _, fatal := runFile(path, dumps)
		fmt.Print(report.String())
		if report.String() != "" {
			fmt.Println()
		}
		if fatal {
			os.Exit(1)
		}
	}
	run()

	if watchFlag || cfg.Watch {
		logger.Info("watching %s for changes", path)
		w, err := watch.New(path, run)
		if err != nil {
			cli.ExitWithError("watch: %v", err)
		}
		defer w.Close()
		for err := range w.Errors() {
			logger.Warn("watch: %v", err)
		}
	}
}

type flags struct {
	lex, parse, typecheck, eval bool
}

// runFile threads one source file through lex -> parse -> interpret,
// stopping at the first failure, and returns the accumulated report, the
// interpreter result (nil on failure), and whether a fatal diagnostic was
// recorded.
func runFile(path string, f flags) (*diagnostic.Report, *interpreter.Result, bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		report := diagnostic.NewReport()
		report.Add(diagnostic.FromError(err))
		return report, nil, true
	}
	return runSource(path, string(src), f)
}

// runSource threads source text already in memory through lex -> parse ->
// interpret, stopping at the first failure. It backs both runFile (reading
// the text from disk first) and the `-load` one-shot mode (the text is the
// flag's argument, under the synthetic label "<load>").
func runSource(label, src string, f flags) (*diagnostic.Report, *interpreter.Result, bool) {
	report := diagnostic.NewReport()

	toks, err := lexer.Tokenize(label, src)
	if err != nil {
		report.Add(diagnostic.FromError(err))
		return report, nil, true
	}
	if f.lex {
		report.AddSection("tokens", diagnostic.DumpTokens(label, src, toks))
	}

	program, err := parser.Parse(toks)
	if err != nil {
		report.Add(diagnostic.FromError(err))
		return report, nil, true
	}
	if f.parse {
		report.AddSection("ast", diagnostic.DumpAST(program))
	}

	result, err := interpreter.Run(program)
	if err != nil {
		report.Add(diagnostic.FromError(err))
		return report, nil, true
	}
	if f.typecheck {
		report.AddSection("env", diagnostic.DumpEnv(result.Env))
	}
	if f.eval {
		report.AddSection("state", diagnostic.DumpState(result))
	}
	return report, result, false
}

func usage() {
	fmt.Fprintf(os.Stderr, "interp [flags] <file>\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	fmt.Fprintf(os.Stderr, "  -h, --help         show this message\n")
	fmt.Fprintf(os.Stderr, "  -l, -lex           emit tokens\n")
	fmt.Fprintf(os.Stderr, "  -p, -parse         emit AST\n")
	fmt.Fprintf(os.Stderr, "  -t, -typecheck     emit type environment\n")
	fmt.Fprintf(os.Stderr, "  -e, -eval          emit final state\n")
	fmt.Fprintf(os.Stderr, "  -load <src>        run inline source directly, printing its final value\n")
	fmt.Fprintf(os.Stderr, "  -watch             re-run on source file change\n")
	fmt.Fprintf(os.Stderr, "  -version           print version\n")
	fmt.Fprintf(os.Stderr, "  -version-json      print version as JSON\n")
}
