// Package strategy selects and implements the verification strategies. The
// selection is a pure function over four independent axes derived from the
// configuration; the two unrepresentable axis combinations are rejected when
// the axes are derived, never silently resolved.
package strategy

import (
	"github.com/kvasir-mc/kvasir/internal/config"
)

// PathExploration says whether a strategy explores one execution path at a
// time or a merged multi-path representation.
type PathExploration int

const (
	MultiPath PathExploration = iota
	SinglePath
)

func (p PathExploration) String() string {
	if p == SinglePath {
		return "single"
	}
	return "multi"
}

// OutputSink says where the session's artifact goes instead of, or in
// addition to, the verdict. A sink other than SinkNone redirects the session
// to the FormulaExport or Coverage mode before strategy selection happens.
type OutputSink int

const (
	SinkNone OutputSink = iota
	SinkFormulaFile
	SinkDimacs
	SinkCoverage
)

// Axes are the independent selectors of the strategy decision table.
type Axes struct {
	StopOnFail        bool
	Paths             PathExploration
	FaultLocalization bool
	Sink              OutputSink
}

// FromConfig derives the axes from a validated configuration. Validation
// already rejects the fault-localization/single-path combination; the guard
// here keeps the invariant local.
func FromConfig(cfg *config.Configuration) (Axes, error) {
	axes := Axes{
		StopOnFail:        cfg.Bool("stop-on-fail"),
		FaultLocalization: cfg.Bool("localize-faults"),
	}
	if cfg.Bool("paths") {
		axes.Paths = SinglePath
	}
	switch {
	case cfg.Bool("dimacs"):
		axes.Sink = SinkDimacs
	case cfg.String("outfile") != "":
		axes.Sink = SinkFormulaFile
	case cfg.IsSet("cover"):
		axes.Sink = SinkCoverage
	}

	if axes.FaultLocalization && axes.Paths == SinglePath {
		return Axes{}, &config.ConflictError{A: "paths", B: "localize-faults"}
	}
	return axes, nil
}
