package config

// Solvers lists the recognized backend solver options. Setting any of them
// fixes the solver and forces SMT-layer encoding.
var Solvers = []string{"boolector", "cprover-smt2", "mathsat", "cvc4", "yices", "z3"}

// exclusivePairs are the documented mutually exclusive option pairs. The
// check is symmetric: either order of setting fails identically.
var exclusivePairs = [][2]string{
	{"cover", "unwinding-assertions"},
	{"max-field-sensitivity-array-size", "no-array-field-sensitivity"},
	{"partial-loops", "unwinding-assertions"},
	{"reachability-slice", "reachability-slice-fb"},
}

// defaultTrue are the options that are enabled unless the user disabled them
// with the corresponding no- flag.
var defaultTrue = []string{
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

// Validate freezes a raw option set into a Configuration, or fails with a
// ConflictError, RemovedError or UsageError. No representation work may
// happen before this has succeeded.
func Validate(raw *Raw) (*Configuration, error) {
	if raw.IsSet("slice-by-trace") {
		return nil, &RemovedError{Option: "slice-by-trace"}
	}
	if raw.IsSet("smt1") {
		return nil, &RemovedError{Option: "smt1", Hint: "use --smt2"}
	}

	for _, pair := range exclusivePairs {
		if raw.IsSet(pair[0]) && raw.IsSet(pair[1]) {
			return nil, &ConflictError{A: pair[0], B: pair[1]}
		}
	}

	// Fault localization needs the merged multi-path exploration; the
	// single-path combination has no strategy table entry, so it is
	// rejected here instead of being silently resolved.
	if raw.IsSet("paths") && raw.IsSet("localize-faults") {
		return nil, &ConflictError{A: "paths", B: "localize-faults"}
	}

	opts := make(map[string]value, len(raw.opts)+16)
	for name, v := range raw.opts {
		opts[name] = v
	}

	setBool := func(name string, v bool) { opts[name] = value{kind: kindBool, b: v} }
	setString := func(name, v string) { opts[name] = value{kind: kindString, s: v} }
	isSet := func(name string) bool { _, ok := opts[name]; return ok }

	// Derived defaults apply only to options the user did not set.
	for _, name := range defaultTrue {
		if !raw.IsSet(name) && !raw.IsSet("no-"+name) {
			setBool(name, true)
		}
	}
	if !raw.IsSet("arrays-uf-always") && !raw.IsSet("arrays-uf-never") {
		setString("arrays-uf", "auto")
	} else if raw.IsSet("arrays-uf-always") {
		setString("arrays-uf", "always")
	} else {
		setString("arrays-uf", "never")
	}
	if !raw.IsSet("ui") {
		setString("ui", "plain")
	}

	// Negative flags flip their default-enabled counterparts.
	for _, name := range defaultTrue {
		if raw.IsSet("no-" + name) {
			setBool(name, false)
			delete(opts, "no-"+name)
		}
	}
	setBool("self-loops-to-assumptions", !raw.IsSet("no-self-loops-to-assumptions"))
	delete(opts, "no-self-loops-to-assumptions")

	// Unwinding assertions only make sense when every path is explored.
	if raw.IsSet("unwinding-assertions") {
		setBool("unwinding-assertions", true)
		setBool("paths-explore-all", true)
	}

	// A formula sink implies stopping at the first failure: the exported
	// formula encodes a single counterexample query.
	if raw.IsSet("stop-on-fail") || raw.IsSet("dimacs") || raw.IsSet("outfile") {
		setBool("stop-on-fail", true)
	}

	if raw.IsSet("graphml-witness") {
		setBool("stop-on-fail", true)
		setBool("trace", true)
	}

	// Trace capture is forced by any trace-consuming option, and by a
	// structured report format unless we are covering instead of checking.
	if raw.IsSet("trace") || raw.IsSet("compact-trace") || raw.IsSet("stack-trace") ||
		(isSet("stop-on-fail") && opts["stop-on-fail"].b) ||
		(opts["ui"].s != "plain" && !raw.IsSet("cover")) {
		setBool("trace", true)
	}

	// Refinement flags come in a group: the umbrella flag enables both
	// specific procedures, each specific flag enables the umbrella.
	if raw.IsSet("refine-arrays") || raw.IsSet("refine-arithmetic") {
		setBool("refine", true)
	}
	if raw.IsSet("refine") {
		setBool("refine", true)
		setBool("refine-arrays", true)
		setBool("refine-arithmetic", true)
	}

	// Backend solver resolution: a named solver fixes the choice and forces
	// SMT-layer encoding. SMT encoding with no solver falls back to generic
	// SMT-LIB emission when a formula file was requested, else the default
	// solver.
	solverSet := false
	for _, solver := range Solvers {
		if raw.IsSet(solver) {
			setBool(solver, true)
			setBool("smt2", true)
			solverSet = true
		}
	}
	if isSet("smt2") && opts["smt2"].b && !solverSet {
		if raw.IsSet("outfile") {
			setBool("generic", true)
		} else {
			setBool("z3", true)
		}
	}

	return &Configuration{opts: opts}, nil
}
