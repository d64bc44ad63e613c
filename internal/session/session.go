// Package session owns the lifecycle of one verification session: validate
// the configuration, select the mode, build the representation, run the
// transform pipeline, run the strategy, and map the result to an exit
// status. The collaborators do the work; the controller only sequences them.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kvasir-mc/kvasir/internal/builder"
	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/ctxlog"
	"github.com/kvasir-mc/kvasir/internal/mode"
	"github.com/kvasir-mc/kvasir/internal/pipeline"
	"github.com/kvasir-mc/kvasir/internal/program"
	"github.com/kvasir-mc/kvasir/internal/stages"
	"github.com/kvasir-mc/kvasir/internal/strategy"
	"github.com/kvasir-mc/kvasir/internal/testinput"
)

// Version is the tool version reported by --version.
const Version = "0.4.1"

// Exit statuses of a session. Anything the controller cannot attribute to
// the user's input or the verification result is an internal error.
const (
	ExitSuccess         = 0
	ExitUsage           = 2
	ExitInconclusive    = 5
	ExitInternal        = 6
	ExitCounterexamples = 10
)

// Controller runs one session from validated-input to exit status.
type Controller struct {
	out    io.Writer
	logger *slog.Logger
}

// New returns a session controller writing its artifacts to out.
func New(out io.Writer, logger *slog.Logger) *Controller {
	return &Controller{out: out, logger: logger}
}

// Run executes one full session. The returned value is the process exit
// status; all reporting has been written to the controller's output by the
// time it returns.
func (c *Controller) Run(ctx context.Context, raw *config.Raw, paths []string) int {
	ctx = ctxlog.WithLogger(ctx, c.logger)
	c.logger.Debug("Session started.", "inputs", len(paths))

	cfg, err := config.Validate(raw)
	if err != nil {
		return c.usageFailure(err)
	}
	c.logger.Debug("Configuration validated.")

	selected, err := mode.Select(cfg)
	if err != nil {
		return c.usageFailure(err)
	}
	c.logger.Debug("Mode selected.", "mode", selected.String())

	if !selected.NeedsRepresentation() {
		return c.runFrontendMode(selected, paths)
	}

	m, err := builder.Build(ctx, paths, cfg)
	if err != nil {
		var usage *config.UsageError
		if errors.As(err, &usage) {
			return c.usageFailure(err)
		}
		return c.internalFailure(err)
	}

	if selected == mode.ShowSymbolTable {
		writeSymbolTable(c.out, m)
		return ExitSuccess
	}

	pl, err := pipeline.New(stages.Standard())
	if err != nil {
		return c.internalFailure(err)
	}
	if err := pl.Run(ctx, m, cfg); err != nil {
		return c.internalFailure(err)
	}
	if err := m.Validate(); err != nil {
		return c.internalFailure(fmt.Errorf("inconsistent representation after transforms: %w", err))
	}
	c.logger.Debug("Transform pipeline finished.", "functions", len(m.Functions))

	switch selected {
	case mode.ShowLoops:
		writeLoops(c.out, m)
		return ExitSuccess
	case mode.ShowGotoFunctions:
		writeFunctions(c.out, m)
		return ExitSuccess
	case mode.ShowProperties:
		writeProperties(c.out, m)
		return ExitSuccess
	case mode.ProgramOnly:
		writeProgram(c.out, m)
		return ExitSuccess
	case mode.FormulaExport:
		return c.exportFormula(cfg, m)
	case mode.Coverage:
		return c.runCoverage(ctx, cfg, m)
	case mode.StandardVerify:
		return c.runVerification(ctx, cfg, m)
	default:
		return c.internalFailure(fmt.Errorf("mode %s reached the dispatch fallback", selected))
	}
}

// runFrontendMode handles the modes that never build the representation.
func (c *Controller) runFrontendMode(selected mode.Mode, paths []string) int {
	switch selected {
	case mode.ShowVersion:
		fmt.Fprintf(c.out, "kvasir %s\n", Version)
		return ExitSuccess
	case mode.PreprocessorSelfTest:
		if err := builder.SelfTestPreprocessor(c.out); err != nil {
			return c.internalFailure(err)
		}
		return ExitSuccess
	case mode.Preprocess:
		if len(paths) == 0 {
			return c.usageFailure(&config.UsageError{Message: "please provide a program to preprocess"})
		}
		if err := builder.Preprocess(paths, c.out); err != nil {
			return c.internalFailure(err)
		}
		return ExitSuccess
	case mode.ShowParseTree:
		if len(paths) != 1 {
			return c.usageFailure(&config.UsageError{Message: "parse tree output requires exactly one input file"})
		}
		if builder.IsBinary(paths[0]) {
			return c.usageFailure(&config.UsageError{
				Message: fmt.Sprintf("cannot show the parse tree of the binary input %q", paths[0]),
			})
		}
		if err := builder.ParseTree(paths, c.out); err != nil {
			return c.internalFailure(err)
		}
		return ExitSuccess
	default:
		return c.internalFailure(fmt.Errorf("mode %s has no frontend handler", selected))
	}
}

// runVerification is the standard flow: derive the axes, select and run the
// strategy, report, and map the outcome to the exit status.
func (c *Controller) runVerification(ctx context.Context, cfg *config.Configuration, m *program.Model) int {
	axes, err := strategy.FromConfig(cfg)
	if err != nil {
		return c.internalFailure(err)
	}
	id, err := strategy.Select(axes)
	if err != nil {
		return c.internalFailure(err)
	}
	c.logger.Debug("Strategy selected.", "strategy", id.String())

	strat, err := strategy.New(id)
	if err != nil {
		return c.internalFailure(err)
	}
	outcome := strat.Run(ctx, m)
	c.report(cfg, strat.Report(), outcome)
	return exitStatus(outcome)
}

// runCoverage runs the coverage strategy and generates test inputs from the
// covered goals.
func (c *Controller) runCoverage(ctx context.Context, cfg *config.Configuration, m *program.Model) int {
	strat := strategy.NewCoverGoals()
	outcome := strat.Run(ctx, m)

	report := strat.Report() + testinput.Render(testinput.Generate(strat.Traces()))
	c.report(cfg, report, outcome)
	return exitStatus(outcome)
}

// exitStatus is the outcome-to-exit mapping. Violated properties are a
// distinct status so callers can script against them.
func exitStatus(outcome strategy.Outcome) int {
	switch outcome {
	case strategy.OutcomeSuccess:
		return ExitSuccess
	case strategy.OutcomeFoundCounterexamples:
		return ExitCounterexamples
	case strategy.OutcomeUnknown:
		return ExitInconclusive
	default:
		return ExitInternal
	}
}

// exportFormula writes the formula artifact and ends the session. DIMACS
// goes to the session output; a named outfile is created, with "-" standing
// for the session output.
func (c *Controller) exportFormula(cfg *config.Configuration, m *program.Model) int {
	if cfg.Bool("dimacs") {
		if err := writeDimacs(c.out, m); err != nil {
			return c.internalFailure(err)
		}
		return ExitSuccess
	}

	outfile := cfg.String("outfile")
	w := c.out
	if outfile != "-" {
		f, err := os.Create(outfile)
		if err != nil {
			return c.internalFailure(fmt.Errorf("cannot create outfile %q: %w", outfile, err))
		}
		defer f.Close()
		w = f
	}
	if err := writeSMT(w, m); err != nil {
		return c.internalFailure(err)
	}
	return ExitSuccess
}

func (c *Controller) usageFailure(err error) int {
	fmt.Fprintln(c.out, err.Error())
	c.logger.Error("Session rejected the input.", "error", err)
	return ExitUsage
}

func (c *Controller) internalFailure(err error) int {
	fmt.Fprintln(c.out, err.Error())
	c.logger.Error("Session failed.", "error", err)
	return ExitInternal
}
