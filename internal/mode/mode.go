// Package mode maps a validated configuration to exactly one session mode.
// Selection is a priority-ordered decision table: the first matching row
// wins, and the fallback row makes the function total.
package mode

import (
	"github.com/kvasir-mc/kvasir/internal/config"
)

// Mode is the closed set of session modes. Exactly one is active per
// session. Every mode except StandardVerify and Coverage terminates the
// session immediately after producing its artifact.
type Mode int

const (
	ShowVersion Mode = iota
	PreprocessorSelfTest
	Preprocess
	ShowParseTree
	ShowSymbolTable
	ShowLoops
	ShowGotoFunctions
	ShowProperties
	ProgramOnly
	FormulaExport
	Coverage
	StandardVerify
)

func (m Mode) String() string {
	switch m {
	case ShowVersion:
		return "show-version"
	case PreprocessorSelfTest:
		return "preprocessor-self-test"
	case Preprocess:
		return "preprocess"
	case ShowParseTree:
		return "show-parse-tree"
	case ShowSymbolTable:
		return "show-symbol-table"
	case ShowLoops:
		return "show-loops"
	case ShowGotoFunctions:
		return "show-goto-functions"
	case ShowProperties:
		return "show-properties"
	case ProgramOnly:
		return "program-only"
	case FormulaExport:
		return "formula-export"
	case Coverage:
		return "coverage"
	case StandardVerify:
		return "standard-verify"
	default:
		return "unknown"
	}
}

// NeedsRepresentation reports whether the mode requires the program
// representation to be built before it can produce its artifact.
func (m Mode) NeedsRepresentation() bool {
	switch m {
	case ShowVersion, PreprocessorSelfTest, Preprocess, ShowParseTree:
		return false
	default:
		return true
	}
}

// NeedsPipeline reports whether the mode runs the full transform pipeline.
// The inspection modes before ShowLoops only need representation
// construction; ShowSymbolTable dumps the table straight after building.
func (m Mode) NeedsPipeline() bool {
	switch m {
	case ShowLoops, ShowGotoFunctions, ShowProperties, ProgramOnly,
		FormulaExport, Coverage, StandardVerify:
		return true
	default:
		return false
	}
}

// RunsStrategy reports whether the mode instantiates a verification
// strategy. All other modes end the session after their artifact.
func (m Mode) RunsStrategy() bool {
	return m == StandardVerify || m == Coverage
}

// Select is the decision table. It is total over validated configurations
// and deterministic; the only error case is the explicit rejection of the
// legacy hardware-module options. Boolean flags count only when enabled, so
// an explicit --show-loops=false selects nothing.
func Select(cfg *config.Configuration) (Mode, error) {
	switch {
	case cfg.Bool("version"):
		return ShowVersion, nil
	case cfg.IsSet("module") || cfg.Bool("gen-interface"):
		return 0, &config.UsageError{
			Message: "hardware modules are not supported by this tool",
		}
	case cfg.Bool("test-preprocessor"):
		return PreprocessorSelfTest, nil
	case cfg.Bool("preprocess"):
		return Preprocess, nil
	case cfg.Bool("show-parse-tree"):
		return ShowParseTree, nil
	case cfg.Bool("show-symbol-table"):
		return ShowSymbolTable, nil
	case cfg.Bool("show-loops"):
		return ShowLoops, nil
	case cfg.Bool("show-goto-functions") || cfg.Bool("list-goto-functions"):
		return ShowGotoFunctions, nil
	case cfg.Bool("show-properties"):
		return ShowProperties, nil
	case cfg.Bool("program-only") || cfg.Bool("show-vcc"):
		return ProgramOnly, nil
	case cfg.Bool("dimacs") || cfg.String("outfile") != "":
		return FormulaExport, nil
	case cfg.IsSet("cover"):
		return Coverage, nil
	default:
		return StandardVerify, nil
	}
}
