// Package stages implements the transform stages of the verification
// pipeline. Standard returns them in the fixed total order; each stage is a
// pure mutator over the program representation, gated by a configuration
// predicate and constrained against the stages it must follow or precede.
package stages

import (
	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/pipeline"
)

// Stage names, shared with tests and error reporting.
const (
	NameRemoveAsm              = "remove-asm"
	NameLinkRuntime            = "link-runtime"
	NameStringInstrumentation  = "string-instrumentation"
	NameRemoveFunctionPointers = "remove-function-pointers"
	NameRewriteMMIO            = "rewrite-mmio"
	NameInstrumentPrecond      = "instrument-preconditions"
	NameNormalizeComposites    = "normalize-composites"
	NameGenericChecks          = "generic-checks"
	NameAdjustFloats           = "adjust-float-expressions"
	NameNondetStatic           = "nondet-static"
	NameStringAbstraction      = "string-abstraction"
	NameAddFailedSymbols       = "add-failed-symbols"
	NameUpdateIndices          = "update-indices"
	NameRemoveUnusedFunctions  = "remove-unused-functions"
	NameRemoveSkip             = "remove-skip"
	NameInstrumentCoverGoals   = "instrument-cover-goals"
	NameLabelProperties        = "label-properties"
	NameReachabilitySlice      = "reachability-slice"
	NameFullSlice              = "full-slice"
	NameRemoveSkipFinal        = "remove-skip-final"
)

func wantsStringAbstraction(cfg *config.Configuration) bool {
	return cfg.Bool("string-abstraction")
}

// Standard returns the fixed stage order of a verification session. The
// order is never changed at runtime; configuration only decides which stages
// run. Constraint declarations let pipeline.New statically check the order.
func Standard() []pipeline.Stage {
	return []pipeline.Stage{
		{
			Name: NameRemoveAsm,
			Run:  removeAsm,
		},
		{
			// Linking must happen before function-pointer removal and
			// precondition instrumentation: both need the library
			// definitions in place.
			Name:   NameLinkRuntime,
			Before: []string{NameRemoveFunctionPointers, NameInstrumentPrecond},
			Run:    linkRuntime,
		},
		{
			Name: NameStringInstrumentation,
			When: wantsStringAbstraction,
			Run:  stringInstrumentation,
		},
		{
			Name:   NameRemoveFunctionPointers,
			After:  []string{NameLinkRuntime},
			Before: []string{NameAddFailedSymbols},
			Run:    removeFunctionPointers,
		},
		{
			Name: NameRewriteMMIO,
			Run:  rewriteMMIO,
		},
		{
			Name:  NameInstrumentPrecond,
			After: []string{NameLinkRuntime},
			Run:   instrumentPreconditions,
		},
		{
			Name: NameNormalizeComposites,
			Run:  normalizeComposites,
		},
		{
			Name: NameGenericChecks,
			Run:  genericChecks,
		},
		{
			// The inserted checks do not know about adjusted float
			// expressions, so adjustment runs after them.
			Name:  NameAdjustFloats,
			After: []string{NameGenericChecks},
			Run:   adjustFloatExpressions,
		},
		{
			Name: NameNondetStatic,
			When: func(cfg *config.Configuration) bool { return cfg.Bool("nondet-static") },
			Run:  nondetStatic,
		},
		{
			Name:  NameStringAbstraction,
			When:  wantsStringAbstraction,
			After: []string{NameStringInstrumentation},
			Run:   stringAbstraction,
		},
		{
			// Failed-symbol placeholders feed the pointer analysis, which
			// requires function pointers to be gone.
			Name:  NameAddFailedSymbols,
			After: []string{NameRemoveFunctionPointers},
			Run:   addFailedSymbols,
		},
		{
			Name: NameUpdateIndices,
			Run:  updateIndices,
		},
		{
			Name:  NameRemoveUnusedFunctions,
			When:  func(cfg *config.Configuration) bool { return cfg.Bool("drop-unused-functions") },
			After: []string{NameRemoveFunctionPointers},
			Run:   removeUnusedFunctions,
		},
		{
			// Trivial skips must be gone before coverage annotation so they
			// are not counted as coverage goals.
			Name:   NameRemoveSkip,
			Before: []string{NameInstrumentCoverGoals},
			Run:    removeSkip,
		},
		{
			Name:   NameInstrumentCoverGoals,
			When:   func(cfg *config.Configuration) bool { return cfg.IsSet("cover") },
			Before: []string{NameLabelProperties},
			Run:    instrumentCoverGoals,
		},
		{
			// Labeling runs after every stage that introduces properties
			// and before any stage that narrows the property set: slicing
			// must not change identifiers already reported to a user.
			Name:   NameLabelProperties,
			After:  []string{NameGenericChecks, NameNondetStatic, NameInstrumentCoverGoals},
			Before: []string{NameReachabilitySlice, NameFullSlice},
			Run:    labelProperties,
		},
		{
			Name: NameReachabilitySlice,
			When: func(cfg *config.Configuration) bool {
				return cfg.Bool("reachability-slice") || cfg.Bool("reachability-slice-fb")
			},
			Run: reachabilitySlice,
		},
		{
			Name:  NameFullSlice,
			When:  func(cfg *config.Configuration) bool { return cfg.Bool("full-slice") },
			After: []string{NameReachabilitySlice},
			Run:   fullSlice,
		},
		{
			Name:  NameRemoveSkipFinal,
			After: []string{NameInstrumentCoverGoals, NameReachabilitySlice, NameFullSlice},
			Run:   removeSkipFinal,
		},
	}
}
