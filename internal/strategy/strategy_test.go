package strategy

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

func axesFrom(t *testing.T, set func(raw *config.Raw)) Axes {
	t.Helper()
	raw := config.NewRaw()
	if set != nil {
		set(raw)
	}
	cfg, err := config.Validate(raw)
	require.NoError(t, err)
	axes, err := FromConfig(cfg)
	require.NoError(t, err)
	return axes
}

func TestSelect_DecisionTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		axes Axes
		want ID
	}{
		{"stop single", Axes{StopOnFail: true, Paths: SinglePath}, StopOnFailSinglePath},
		{"stop multi", Axes{StopOnFail: true, Paths: MultiPath}, StopOnFailMultiPath},
		{"stop multi faultloc", Axes{StopOnFail: true, Paths: MultiPath, FaultLocalization: true}, StopOnFailMultiPathFaultLocalization},
		{"all single", Axes{Paths: SinglePath}, AllPropertiesSinglePathTraceStorage},
		{"all multi", Axes{Paths: MultiPath}, AllPropertiesMultiPathTraceStorage},
		{"all multi faultloc", Axes{Paths: MultiPath, FaultLocalization: true}, AllPropertiesMultiPathFaultLocalization},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Select(tc.axes)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			strat, err := New(got)
			require.NoError(t, err)
			assert.NotNil(t, strat)
		})
	}
}

func TestSelect_UnrepresentableCombinations(t *testing.T) {
	t.Parallel()

	for _, axes := range []Axes{
		{Paths: SinglePath, FaultLocalization: true},
		{StopOnFail: true, Paths: SinglePath, FaultLocalization: true},
	} {
		_, err := Select(axes)
		assert.Error(t, err)
	}
}

func TestFromConfig_Derivation(t *testing.T) {
	t.Parallel()

	axes := axesFrom(t, nil)
	assert.Equal(t, Axes{}, axes)

	axes = axesFrom(t, func(raw *config.Raw) {
		raw.SetBool("stop-on-fail", true)
		raw.SetBool("paths", true)
	})
	assert.True(t, axes.StopOnFail)
	assert.Equal(t, SinglePath, axes.Paths)

	axes = axesFrom(t, func(raw *config.Raw) {
		raw.SetBool("dimacs", true)
	})
	assert.Equal(t, SinkDimacs, axes.Sink)
	// A formula sink forces stop-on-fail during validation.
	assert.True(t, axes.StopOnFail)

	axes = axesFrom(t, func(raw *config.Raw) {
		raw.SetString("outfile", "formula.smt2")
	})
	assert.Equal(t, SinkFormulaFile, axes.Sink)

	axes = axesFrom(t, func(raw *config.Raw) {
		raw.SetString("cover", "branch")
	})
	assert.Equal(t, SinkCoverage, axes.Sink)
}

// failingModel holds one passing, one failing and one undecidable property,
// already labeled.
func failingModel() *program.Model {
	m := program.NewModel()
	m.AddFunction(&program.Function{
		Name: "main",
		Body: []*program.Instruction{
			{Kind: program.KindAssign, Name: "x", Code: "nondet_int()"},
			{
				Kind:  program.KindAssert,
				Guard: program.True,
				Property: &program.Property{
					ID: "main.assertion.1", Class: "assertion",
					Description: "holds", Guard: program.True,
				},
			},
			{
				Kind:  program.KindAssert,
				Guard: program.False,
				Property: &program.Property{
					ID: "main.assertion.2", Class: "assertion",
					Description: "violated", Guard: program.False,
				},
			},
			{
				Kind:  program.KindAssert,
				Guard: program.Sym{Name: "unknown_sym"},
				Property: &program.Property{
					ID: "main.assertion.3", Class: "assertion",
					Description: "undecided", Guard: program.Sym{Name: "unknown_sym"},
				},
			},
			{Kind: program.KindEnd},
		},
	})
	m.EntryPoint = "main"
	return m
}

func TestStopOnFail_StopsAtFirstViolation(t *testing.T) {
	t.Parallel()

	strat, err := New(StopOnFailMultiPath)
	require.NoError(t, err)

	outcome := strat.Run(context.Background(), failingModel())
	assert.Equal(t, OutcomeFoundCounterexamples, outcome)

	report := strat.Report()
	assert.Contains(t, report, "main.assertion.2")
	// The undecided property after the failure was never reached.
	assert.NotContains(t, report, "main.assertion.3")
}

func TestAllProperties_DecidesEverythingAndStoresTraces(t *testing.T) {
	t.Parallel()

	strat, err := New(AllPropertiesMultiPathTraceStorage)
	require.NoError(t, err)

	outcome := strat.Run(context.Background(), failingModel())
	assert.Equal(t, OutcomeFoundCounterexamples, outcome)

	report := strat.Report()
	for _, id := range []string{"main.assertion.1", "main.assertion.2", "main.assertion.3"} {
		assert.Contains(t, report, id)
	}

	all, ok := strat.(*allProperties)
	require.True(t, ok)
	require.Len(t, all.Traces(), 1)
	assert.Equal(t, "main.assertion.2", all.Traces()[0].PropertyID)
}

func TestFaultLocalization_RanksTraceAssignments(t *testing.T) {
	t.Parallel()

	strat, err := New(AllPropertiesMultiPathFaultLocalization)
	require.NoError(t, err)

	outcome := strat.Run(context.Background(), failingModel())
	assert.Equal(t, OutcomeFoundCounterexamples, outcome)

	report := strat.Report()
	assert.Contains(t, report, "Fault localization for [main.assertion.2]")
	assert.Contains(t, report, "nondet_int()")
}

func TestOutcome_AllPass(t *testing.T) {
	t.Parallel()

	m := program.NewModel()
	m.AddFunction(&program.Function{
		Name: "main",
		Body: []*program.Instruction{
			{
				Kind:  program.KindAssert,
				Guard: program.True,
				Property: &program.Property{
					ID: "main.assertion.1", Class: "assertion",
					Description: "holds", Guard: program.True,
				},
			},
			{Kind: program.KindEnd},
		},
	})
	m.EntryPoint = "main"

	strat, err := New(AllPropertiesMultiPathTraceStorage)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, strat.Run(context.Background(), m))
}

func TestCoverGoals_CoveredAndUncovered(t *testing.T) {
	t.Parallel()

	m := program.NewModel()
	m.AddFunction(&program.Function{
		Name: "main",
		Body: []*program.Instruction{
			{
				Kind:  program.KindAssert,
				Guard: program.False,
				Property: &program.Property{
					ID: "main.coverage.1", Class: "coverage",
					Description: "block 1 covered", Guard: program.False,
				},
			},
			{
				Kind:  program.KindAssert,
				Guard: program.Sym{Name: "maybe"},
				Property: &program.Property{
					ID: "main.coverage.2", Class: "coverage",
					Description: "block 2 covered", Guard: program.Sym{Name: "maybe"},
				},
			},
			{Kind: program.KindEnd},
		},
	})
	m.EntryPoint = "main"

	strat := NewCoverGoals()
	outcome := strat.Run(context.Background(), m)
	assert.Equal(t, OutcomeUnknown, outcome)

	report := strat.Report()
	assert.Contains(t, report, "main.coverage.1: COVERED")
	assert.Contains(t, report, "main.coverage.2: UNCOVERED")
	assert.Contains(t, report, "1 of 2 covered")

	require.Len(t, strat.Traces(), 1)
	assert.Equal(t, "main.coverage.1", strat.Traces()[0].PropertyID)
}

func TestCoverGoals_AllCovered(t *testing.T) {
	t.Parallel()

	m := program.NewModel()
	m.AddFunction(&program.Function{
		Name: "main",
		Body: []*program.Instruction{
			{
				Kind:  program.KindAssert,
				Guard: program.False,
				Property: &program.Property{
					ID: "main.coverage.1", Class: "coverage",
					Description: "block 1 covered", Guard: program.False,
				},
			},
			{Kind: program.KindEnd},
		},
	})
	m.EntryPoint = "main"

	strat := NewCoverGoals()
	assert.Equal(t, OutcomeSuccess, strat.Run(context.Background(), m))
}

func TestOutcome_Strings(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasPrefix(OutcomeSuccess.String(), "VERIFICATION"))
	assert.Equal(t, "VERIFICATION FAILED", OutcomeFoundCounterexamples.String())
	assert.Equal(t, "VERIFICATION INCONCLUSIVE", OutcomeUnknown.String())
}
