package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

func noop(ctx context.Context, m *program.Model, cfg *config.Configuration) error {
	return nil
}

func emptyConfig(t *testing.T) *config.Configuration {
	t.Helper()
	cfg, err := config.Validate(config.NewRaw())
	require.NoError(t, err)
	return cfg
}

func TestNew_RejectsBrokenStageLists(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		stages []Stage
	}{
		{"missing run", []Stage{{Name: "a"}}},
		{"duplicate name", []Stage{{Name: "a", Run: noop}, {Name: "a", Run: noop}}},
		{"unknown after", []Stage{{Name: "a", Run: noop, After: []string{"ghost"}}}},
		{"unknown before", []Stage{{Name: "a", Run: noop, Before: []string{"ghost"}}}},
		{"self constraint", []Stage{{Name: "a", Run: noop, After: []string{"a"}}}},
		{"cyclic constraints", []Stage{
			{Name: "a", Run: noop, After: []string{"b"}},
			{Name: "b", Run: noop, After: []string{"a"}},
		}},
		{"order violates constraint", []Stage{
			{Name: "a", Run: noop, After: []string{"b"}},
			{Name: "b", Run: noop},
		}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tc.stages)
			assert.Error(t, err)
		})
	}
}

func TestNew_AcceptsConsistentOrder(t *testing.T) {
	t.Parallel()

	pl, err := New([]Stage{
		{Name: "a", Run: noop, Before: []string{"c"}},
		{Name: "b", Run: noop, After: []string{"a"}},
		{Name: "c", Run: noop},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, pl.StageNames())
}

func TestRun_GatingAndOrder(t *testing.T) {
	t.Parallel()

	var ran []string
	record := func(name string) func(context.Context, *program.Model, *config.Configuration) error {
		return func(context.Context, *program.Model, *config.Configuration) error {
			ran = append(ran, name)
			return nil
		}
	}

	pl, err := New([]Stage{
		{Name: "always", Run: record("always")},
		{
			Name: "gated",
			When: func(cfg *config.Configuration) bool { return cfg.Bool("trace") },
			Run:  record("gated"),
		},
		{Name: "last", Run: record("last")},
	})
	require.NoError(t, err)

	require.NoError(t, pl.Run(context.Background(), program.NewModel(), emptyConfig(t)))
	assert.Equal(t, []string{"always", "last"}, ran)

	raw := config.NewRaw()
	raw.SetBool("trace", true)
	cfg, err := config.Validate(raw)
	require.NoError(t, err)

	ran = nil
	require.NoError(t, pl.Run(context.Background(), program.NewModel(), cfg))
	assert.Equal(t, []string{"always", "gated", "last"}, ran)
}

func TestRun_FailureNamesTheStage(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("bad criterion")
	var reached bool
	pl, err := New([]Stage{
		{Name: "boom", Run: func(context.Context, *program.Model, *config.Configuration) error {
			return sentinel
		}},
		{Name: "after", Run: func(context.Context, *program.Model, *config.Configuration) error {
			reached = true
			return nil
		}},
	})
	require.NoError(t, err)

	err = pl.Run(context.Background(), program.NewModel(), emptyConfig(t))
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "boom", stageErr.Stage)
	assert.ErrorIs(t, err, sentinel)
	assert.False(t, reached, "stages after a failure must not run")
}
