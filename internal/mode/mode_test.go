package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasir-mc/kvasir/internal/config"
)

func validated(t *testing.T, set func(raw *config.Raw)) *config.Configuration {
	t.Helper()
	raw := config.NewRaw()
	if set != nil {
		set(raw)
	}
	cfg, err := config.Validate(raw)
	require.NoError(t, err)
	return cfg
}

func TestSelect_PriorityOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		set  func(raw *config.Raw)
		want Mode
	}{
		{"version", func(r *config.Raw) { r.SetBool("version", true) }, ShowVersion},
		{"self test", func(r *config.Raw) { r.SetBool("test-preprocessor", true) }, PreprocessorSelfTest},
		{"preprocess", func(r *config.Raw) { r.SetBool("preprocess", true) }, Preprocess},
		{"parse tree", func(r *config.Raw) { r.SetBool("show-parse-tree", true) }, ShowParseTree},
		{"symbol table", func(r *config.Raw) { r.SetBool("show-symbol-table", true) }, ShowSymbolTable},
		{"loops", func(r *config.Raw) { r.SetBool("show-loops", true) }, ShowLoops},
		{"goto functions", func(r *config.Raw) { r.SetBool("show-goto-functions", true) }, ShowGotoFunctions},
		{"goto function list", func(r *config.Raw) { r.SetBool("list-goto-functions", true) }, ShowGotoFunctions},
		{"properties", func(r *config.Raw) { r.SetBool("show-properties", true) }, ShowProperties},
		{"program only", func(r *config.Raw) { r.SetBool("program-only", true) }, ProgramOnly},
		{"show vcc", func(r *config.Raw) { r.SetBool("show-vcc", true) }, ProgramOnly},
		{"dimacs", func(r *config.Raw) { r.SetBool("dimacs", true) }, FormulaExport},
		{"outfile", func(r *config.Raw) { r.SetString("outfile", "f.smt2") }, FormulaExport},
		{"cover", func(r *config.Raw) { r.SetString("cover", "branch") }, Coverage},
		{"fallback", nil, StandardVerify},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Select(validated(t, tc.set))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSelect_VersionWinsOverEverything(t *testing.T) {
	t.Parallel()

	cfg := validated(t, func(r *config.Raw) {
		r.SetBool("version", true)
		r.SetBool("show-properties", true)
		r.SetString("cover", "branch")
	})
	got, err := Select(cfg)
	require.NoError(t, err)
	assert.Equal(t, ShowVersion, got)
}

func TestSelect_EarlierModeWinsOverLater(t *testing.T) {
	t.Parallel()

	cfg := validated(t, func(r *config.Raw) {
		r.SetBool("show-loops", true)
		r.SetBool("program-only", true)
		r.SetBool("dimacs", true)
	})
	got, err := Select(cfg)
	require.NoError(t, err)
	assert.Equal(t, ShowLoops, got)
}

func TestSelect_HardwareModulesRejected(t *testing.T) {
	t.Parallel()

	for _, opt := range []string{"module", "gen-interface"} {
		opt := opt
		t.Run(opt, func(t *testing.T) {
			t.Parallel()

			raw := config.NewRaw()
			if opt == "module" {
				raw.SetString(opt, "top")
			} else {
				raw.SetBool(opt, true)
			}
			cfg, err := config.Validate(raw)
			require.NoError(t, err)

			_, err = Select(cfg)
			var usage *config.UsageError
			require.ErrorAs(t, err, &usage)
		})
	}
}

func TestSelect_DisabledFlagsSelectNothing(t *testing.T) {
	t.Parallel()

	cfg := validated(t, func(r *config.Raw) {
		r.SetBool("show-loops", false)
		r.SetBool("program-only", false)
		r.SetBool("dimacs", false)
	})
	got, err := Select(cfg)
	require.NoError(t, err)
	assert.Equal(t, StandardVerify, got)
}

func TestSelect_Deterministic(t *testing.T) {
	t.Parallel()

	cfg := validated(t, func(r *config.Raw) { r.SetString("cover", "branch") })
	first, err := Select(cfg)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := Select(cfg)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestMode_Phases(t *testing.T) {
	t.Parallel()

	assert.False(t, ShowVersion.NeedsRepresentation())
	assert.False(t, ShowParseTree.NeedsRepresentation())
	assert.True(t, ShowSymbolTable.NeedsRepresentation())
	assert.False(t, ShowSymbolTable.NeedsPipeline())
	assert.True(t, ShowLoops.NeedsPipeline())
	assert.False(t, ShowLoops.RunsStrategy())
	assert.True(t, Coverage.RunsStrategy())
	assert.True(t, StandardVerify.RunsStrategy())
}
