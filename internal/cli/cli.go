package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kvasir-mc/kvasir/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Result is the outcome of CLI parsing: the raw option set, the positional
// input paths, and the process-level logging settings.
type Result struct {
	Options     *config.Raw
	Paths       []string
	SessionFile string
	LogLevel    string
	LogFormat   string
}

// boolOptions are the flags that simply record presence in the raw option
// set. Includes the removed legacy flags, which must still parse so that
// validation can report them with a hint instead of "unknown flag".
var boolOptions = []string{
	"version",
	"test-preprocessor",
	"preprocess",
	"show-parse-tree",
	"show-symbol-table",
	"show-loops",
	"show-goto-functions",
	"list-goto-functions",
	"show-properties",
	"program-only",
	"show-vcc",
	"dimacs",
	"paths",
	"stop-on-fail",
	"trace",
	"compact-trace",
	"stack-trace",
	"localize-faults",
	"unwinding-assertions",
	"partial-loops",
	"gen-interface",
	"nondet-static",
	"drop-unused-functions",
	"reachability-slice",
	"reachability-slice-fb",
	"full-slice",
	"string-abstraction",
	"bounds-check",
	"pointer-check",
	"div-by-zero-check",
	"signed-overflow-check",
	"unsigned-overflow-check",
	"undefined-shift-check",
	"float-overflow-check",
	"nan-check",
	"no-array-field-sensitivity",
	"no-self-loops-to-assumptions",
	"arrays-uf-always",
	"arrays-uf-never",
	"refine",
	"refine-arrays",
	"refine-arithmetic",
	"smt2",
	"boolector",
	"cprover-smt2",
	"mathsat",
	"cvc4",
	"yices",
	"z3",
	"slice-by-trace",
	"smt1",
}

// stringOptions take a value.
var stringOptions = []string{
	"function",
	"cover",
	"outfile",
	"rounding",
	"module",
	"graphml-witness",
	"max-field-sensitivity-array-size",
	"unwind",
	"depth",
}

// listOptions are repeatable.
var listOptions = []string{
	"property",
	"error-label",
	"unwindset",
}

// toggleable are the default-enabled behaviors; each gets a positive and a
// no- prefixed negative flag.
var toggleable = []string{
	"assertions",
	"assumptions",
	"built-in-assertions",
	"pretty-names",
	"propagation",
	"sat-preprocessor",
	"simple-slice",
	"simplify",
	"simplify-if",
}

// Parse processes command-line arguments into a Result. It returns a boolean
// indicating if the program should exit cleanly (help requested), or an
// ExitError for malformed input.
func Parse(args []string, output io.Writer) (*Result, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("kvasir", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Kvasir - A bounded program verifier for goto representations.

Usage:
  kvasir [options] [INPUT_PATH ...]

Arguments:
  INPUT_PATH
    Paths to .gir/.jir source files, .gbin binaries, or directories
    containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	for _, name := range boolOptions {
		flagSet.Bool(name, false, optionHelp[name])
	}
	for _, name := range stringOptions {
		flagSet.String(name, "", optionHelp[name])
	}
	for _, name := range listOptions {
		flagSet.StringArray(name, nil, optionHelp[name])
	}
	for _, name := range toggleable {
		flagSet.Bool(name, false, "enable "+strings.ReplaceAll(name, "-", " ")+" (default)")
		flagSet.Bool("no-"+name, false, "disable "+strings.ReplaceAll(name, "-", " "))
	}

	jsonUI := flagSet.Bool("json-ui", false, "report results as JSON")
	xmlUI := flagSet.Bool("xml-ui", false, "report results as XML")

	sessionFile := flagSet.String("session-file", "", "Path to an HCL session file with options and inputs.")
	logFormat := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	raw := collectOptions(flagSet)

	// The report format flags collapse into a single "ui" option.
	if *jsonUI && *xmlUI {
		return nil, false, &ExitError{Code: 2, Message: "--json-ui and --xml-ui must not be given together"}
	}
	if *jsonUI {
		raw.SetString("ui", "json")
	}
	if *xmlUI {
		raw.SetString("ui", "xml")
	}

	format := strings.ToLower(*logFormat)
	if format != "text" && format != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	level := strings.ToLower(*logLevel)
	switch level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	return &Result{
		Options:     raw,
		Paths:       flagSet.Args(),
		SessionFile: *sessionFile,
		LogLevel:    level,
		LogFormat:   format,
	}, false, nil
}

// collectOptions copies the explicitly set flags into a raw option set,
// skipping the process-level flags, which must not reach configuration
// validation as verification options.
func collectOptions(flagSet *pflag.FlagSet) *config.Raw {
	processLevel := map[string]bool{
		"json-ui":      true,
		"xml-ui":       true,
		"session-file": true,
		"log-format":   true,
		"log-level":    true,
	}
	clean := config.NewRaw()
	flagSet.Visit(func(f *pflag.Flag) {
		if processLevel[f.Name] {
			return
		}
		switch f.Value.Type() {
		case "bool":
			v, _ := flagSet.GetBool(f.Name)
			clean.SetBool(f.Name, v)
		case "string":
			v, _ := flagSet.GetString(f.Name)
			clean.SetString(f.Name, v)
		case "stringArray":
			v, _ := flagSet.GetStringArray(f.Name)
			clean.SetList(f.Name, v)
		}
	})
	return clean
}

// optionHelp holds the one-line help strings for the verification options.
var optionHelp = map[string]string{
	"version":                          "show version and exit",
	"test-preprocessor":                "run the preprocessor self test and exit",
	"preprocess":                       "preprocess the inputs and exit",
	"show-parse-tree":                  "show the parse tree of a single source file and exit",
	"show-symbol-table":                "show the symbol table and exit",
	"show-loops":                       "show the natural loops and exit",
	"show-goto-functions":              "show the transformed functions and exit",
	"list-goto-functions":              "list the transformed function names and exit",
	"show-properties":                  "show the labeled properties and exit",
	"program-only":                     "stop after the transform pipeline",
	"show-vcc":                         "show the verification conditions instead of checking them",
	"dimacs":                           "export the formula in DIMACS CNF and exit",
	"outfile":                          "export the formula to the given file and exit",
	"paths":                            "explore one execution path at a time",
	"stop-on-fail":                     "stop at the first violated property",
	"trace":                            "capture a counterexample trace per violated property",
	"compact-trace":                    "capture compact counterexample traces",
	"stack-trace":                      "capture call-stack traces",
	"localize-faults":                  "rank likely fault locations for violated properties",
	"unwinding-assertions":             "assert that loop unwindings suffice",
	"unwind":                           "maximum number of loop unwindings",
	"depth":                            "maximum number of steps per path",
	"unwindset":                        "per-loop unwinding bound, as LOOP:BOUND",
	"partial-loops":                    "permit paths with partial loop iterations",
	"cover":                            "instrument coverage goals for the given criterion",
	"function":                         "entry point function (default \"main\")",
	"property":                         "restrict checking to the given property identifier",
	"error-label":                      "assert that the given label is unreachable",
	"rounding":                         "floating point rounding mode",
	"module":                           "hardware module (unsupported)",
	"gen-interface":                    "hardware interface generation (unsupported)",
	"graphml-witness":                  "write a witness for the first violated property",
	"nondet-static":                    "make static initializers nondeterministic",
	"drop-unused-functions":            "drop functions unreachable from the entry point",
	"reachability-slice":               "slice away code that cannot reach a property",
	"reachability-slice-fb":            "slice away code neither reaching nor reachable from a property",
	"full-slice":                       "slice away assignments irrelevant to the properties",
	"string-abstraction":               "abstract string operations",
	"bounds-check":                     "check array bounds",
	"pointer-check":                    "check pointer dereferences",
	"div-by-zero-check":                "check division by zero",
	"signed-overflow-check":            "check signed arithmetic overflow",
	"unsigned-overflow-check":          "check unsigned arithmetic wrap",
	"undefined-shift-check":            "check shift distances",
	"float-overflow-check":             "check floating point overflow",
	"nan-check":                        "check for NaN results",
	"no-array-field-sensitivity":       "disable array field sensitivity",
	"max-field-sensitivity-array-size": "maximum array size for field sensitivity",
	"no-self-loops-to-assumptions":     "keep self loops instead of turning them into assumptions",
	"arrays-uf-always":                 "always encode arrays as uninterpreted functions",
	"arrays-uf-never":                  "never encode arrays as uninterpreted functions",
	"refine":                           "enable refinement of arrays and arithmetic",
	"refine-arrays":                    "enable array refinement",
	"refine-arithmetic":                "enable arithmetic refinement",
	"smt2":                             "encode at the SMT layer",
	"boolector":                        "use the boolector solver",
	"cprover-smt2":                     "use the cprover SMT2 solver",
	"mathsat":                          "use the mathsat solver",
	"cvc4":                             "use the cvc4 solver",
	"yices":                            "use the yices solver",
	"z3":                               "use the z3 solver",
	"slice-by-trace":                   "removed",
	"smt1":                             "removed, use --smt2",
}
