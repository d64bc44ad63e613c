package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ExclusivePairsAreSymmetric(t *testing.T) {
	t.Parallel()

	for _, pair := range exclusivePairs {
		pair := pair
		t.Run(pair[0]+"/"+pair[1], func(t *testing.T) {
			t.Parallel()

			for _, order := range [][2]string{pair, {pair[1], pair[0]}} {
				raw := NewRaw()
				raw.SetBool(order[0], true)
				raw.SetBool(order[1], true)

				_, err := Validate(raw)
				require.Error(t, err)
				var conflict *ConflictError
				require.ErrorAs(t, err, &conflict)
				// The message names the canonical pair regardless of the
				// order the options were set in.
				assert.Equal(t, pair[0], conflict.A)
				assert.Equal(t, pair[1], conflict.B)
			}
		})
	}
}

func TestValidate_RemovedOptions(t *testing.T) {
	t.Parallel()

	raw := NewRaw()
	raw.SetBool("slice-by-trace", true)
	_, err := Validate(raw)
	var removed *RemovedError
	require.ErrorAs(t, err, &removed)
	assert.Equal(t, "slice-by-trace", removed.Option)

	raw = NewRaw()
	raw.SetBool("smt1", true)
	_, err = Validate(raw)
	require.ErrorAs(t, err, &removed)
	assert.Equal(t, "smt1", removed.Option)
	assert.Contains(t, err.Error(), "--smt2")
}

func TestValidate_SinglePathFaultLocalizationRejected(t *testing.T) {
	t.Parallel()

	raw := NewRaw()
	raw.SetBool("paths", true)
	raw.SetBool("localize-faults", true)

	_, err := Validate(raw)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "paths", conflict.A)
	assert.Equal(t, "localize-faults", conflict.B)
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Validate(NewRaw())
	require.NoError(t, err)

	for _, name := range defaultTrue {
		assert.True(t, cfg.Bool(name), name)
	}
	assert.Equal(t, "auto", cfg.String("arrays-uf"))
	assert.Equal(t, "plain", cfg.String("ui"))
	assert.True(t, cfg.Bool("self-loops-to-assumptions"))
	assert.False(t, cfg.Bool("stop-on-fail"))
	assert.False(t, cfg.Bool("trace"))
}

func TestValidate_NegativeFlagsFlipDefaults(t *testing.T) {
	t.Parallel()

	raw := NewRaw()
	raw.SetBool("no-assertions", true)
	raw.SetBool("no-simplify", true)
	raw.SetBool("no-self-loops-to-assumptions", true)

	cfg, err := Validate(raw)
	require.NoError(t, err)
	assert.False(t, cfg.Bool("assertions"))
	assert.False(t, cfg.Bool("simplify"))
	assert.False(t, cfg.Bool("self-loops-to-assumptions"))
	assert.True(t, cfg.Bool("assumptions"))
	assert.False(t, cfg.IsSet("no-assertions"))
}

func TestValidate_UnwindingAssertionsForcePathsExploreAll(t *testing.T) {
	t.Parallel()

	raw := NewRaw()
	raw.SetBool("unwinding-assertions", true)

	cfg, err := Validate(raw)
	require.NoError(t, err)
	assert.True(t, cfg.Bool("unwinding-assertions"))
	assert.True(t, cfg.Bool("paths-explore-all"))
}

func TestValidate_FormulaSinksForceStopOnFail(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		set  func(raw *Raw)
	}{
		{"stop-on-fail", func(raw *Raw) { raw.SetBool("stop-on-fail", true) }},
		{"dimacs", func(raw *Raw) { raw.SetBool("dimacs", true) }},
		{"outfile", func(raw *Raw) { raw.SetString("outfile", "formula.smt2") }},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			raw := NewRaw()
			tc.set(raw)
			cfg, err := Validate(raw)
			require.NoError(t, err)
			assert.True(t, cfg.Bool("stop-on-fail"))
			assert.True(t, cfg.Bool("trace"))
		})
	}
}

func TestValidate_GraphmlWitnessForcesStopAndTrace(t *testing.T) {
	t.Parallel()

	raw := NewRaw()
	raw.SetString("graphml-witness", "witness.graphml")

	cfg, err := Validate(raw)
	require.NoError(t, err)
	assert.True(t, cfg.Bool("stop-on-fail"))
	assert.True(t, cfg.Bool("trace"))
}

func TestValidate_StructuredUIForcesTrace(t *testing.T) {
	t.Parallel()

	raw := NewRaw()
	raw.SetString("ui", "json")
	cfg, err := Validate(raw)
	require.NoError(t, err)
	assert.True(t, cfg.Bool("trace"))

	// Coverage suppresses the forcing: goals are not counterexamples.
	raw = NewRaw()
	raw.SetString("ui", "json")
	raw.SetString("cover", "branch")
	cfg, err = Validate(raw)
	require.NoError(t, err)
	assert.False(t, cfg.Bool("trace"))
}

func TestValidate_CoverForcesNeitherStopOnFailNorTrace(t *testing.T) {
	t.Parallel()

	raw := NewRaw()
	raw.SetString("cover", "branch")

	cfg, err := Validate(raw)
	require.NoError(t, err)
	assert.False(t, cfg.Bool("stop-on-fail"))
	assert.False(t, cfg.Bool("trace"))
}

func TestValidate_RefineGroup(t *testing.T) {
	t.Parallel()

	raw := NewRaw()
	raw.SetBool("refine", true)
	cfg, err := Validate(raw)
	require.NoError(t, err)
	assert.True(t, cfg.Bool("refine-arrays"))
	assert.True(t, cfg.Bool("refine-arithmetic"))

	raw = NewRaw()
	raw.SetBool("refine-arrays", true)
	cfg, err = Validate(raw)
	require.NoError(t, err)
	assert.True(t, cfg.Bool("refine"))
	assert.False(t, cfg.Bool("refine-arithmetic"))
}

func TestValidate_SolverResolution(t *testing.T) {
	t.Parallel()

	for _, solver := range Solvers {
		solver := solver
		t.Run(solver, func(t *testing.T) {
			t.Parallel()

			raw := NewRaw()
			raw.SetBool(solver, true)
			cfg, err := Validate(raw)
			require.NoError(t, err)
			assert.True(t, cfg.Bool(solver))
			assert.True(t, cfg.Bool("smt2"))
		})
	}
}

func TestValidate_SMT2WithoutSolver(t *testing.T) {
	t.Parallel()

	raw := NewRaw()
	raw.SetBool("smt2", true)
	cfg, err := Validate(raw)
	require.NoError(t, err)
	assert.True(t, cfg.Bool("z3"))
	assert.False(t, cfg.Bool("generic"))

	raw = NewRaw()
	raw.SetBool("smt2", true)
	raw.SetString("outfile", "formula.smt2")
	cfg, err = Validate(raw)
	require.NoError(t, err)
	assert.True(t, cfg.Bool("generic"))
	assert.False(t, cfg.Bool("z3"))
}

func TestValidate_ArraysUF(t *testing.T) {
	t.Parallel()

	raw := NewRaw()
	raw.SetBool("arrays-uf-always", true)
	cfg, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "always", cfg.String("arrays-uf"))

	raw = NewRaw()
	raw.SetBool("arrays-uf-never", true)
	cfg, err = Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "never", cfg.String("arrays-uf"))
}

func TestRaw_MergeUnder(t *testing.T) {
	t.Parallel()

	flags := NewRaw()
	flags.SetString("function", "entry")
	file := NewRaw()
	file.SetString("function", "other")
	file.SetBool("trace", true)

	flags.MergeUnder(file)
	assert.Equal(t, "entry", flags.String("function"))
	assert.True(t, flags.Bool("trace"))
}
