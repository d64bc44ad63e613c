package builder

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/program"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func emptyConfig(t *testing.T) *config.Configuration {
	t.Helper()
	cfg, err := config.Validate(config.NewRaw())
	require.NoError(t, err)
	return cfg
}

const sampleSource = `# sample program
static device_status int

function main
  decl x int
  assign x nondet_int()
  call helper
  goto done if x_ok
  assign x 0
  label done
  assert x_ok "x is valid"
  return x
end

function helper
  assume helper_pre
end
`

func TestBuild_ParsesSourceFiles(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "main.gir", sampleSource)
	m, err := Build(context.Background(), []string{path}, emptyConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "main", m.EntryPoint)
	assert.Equal(t, []string{"c"}, m.Dialects)
	require.NotNil(t, m.Functions["helper"])

	main := m.Functions["main"]
	require.NotNil(t, main)
	// The parser appends a terminating END to every body.
	assert.Equal(t, program.KindEnd, main.Body[len(main.Body)-1].Kind)
	assert.GreaterOrEqual(t, main.LabelIndex("done"), 0)
	require.NoError(t, m.Validate())

	// Guard and property of the user assertion.
	idx := -1
	for i, instr := range main.Body {
		if instr.Kind == program.KindAssert {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	require.NotNil(t, main.Body[idx].Property)
	assert.Equal(t, "assertion", main.Body[idx].Property.Class)
	assert.Equal(t, "x is valid", main.Body[idx].Property.Description)

	// Top-level static symbol.
	sym := m.Symbols.Lookup("device_status")
	require.NotNil(t, sym)
	assert.Equal(t, program.SymbolStatic, sym.Kind)
}

func TestBuild_EntryPointOverride(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "main.gir", sampleSource)

	raw := config.NewRaw()
	raw.SetString("function", "helper")
	cfg, err := config.Validate(raw)
	require.NoError(t, err)

	m, err := Build(context.Background(), []string{path}, cfg)
	require.NoError(t, err)
	assert.Equal(t, "helper", m.EntryPoint)

	raw = config.NewRaw()
	raw.SetString("function", "missing")
	cfg, err = config.Validate(raw)
	require.NoError(t, err)
	_, err = Build(context.Background(), []string{path}, cfg)
	assert.ErrorContains(t, err, "missing")
}

func TestBuild_NoInputsIsUsageError(t *testing.T) {
	t.Parallel()

	_, err := Build(context.Background(), nil, emptyConfig(t))
	var usage *config.UsageError
	require.ErrorAs(t, err, &usage)
}

func TestBuild_DirectoryExpansion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.gir"), []byte("function main\nend\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.jir"), []byte("function jlib\nend\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0600))

	m, err := Build(context.Background(), []string{dir}, emptyConfig(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "jvm"}, m.Dialects)
	assert.NotNil(t, m.Functions["jlib"])
}

func TestBuild_UnknownExtension(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "main.weird", "function main\nend\n")
	_, err := Build(context.Background(), []string{path}, emptyConfig(t))
	assert.ErrorContains(t, err, "dialect")
}

func TestParseFile_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
	}{
		{"missing end", "function f\nreturn\n"},
		{"instruction outside function", "assign x 1\n"},
		{"unknown keyword", "function f\nfrobnicate\nend\n"},
		{"malformed goto", "function f\ngoto a b c\nend\n"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeInput(t, "bad.gir", tc.content)
			err := parseFile(program.NewModel(), path)
			assert.Error(t, err)
		})
	}
}

func TestParseFile_OpsAnnotation(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "ops.gir", "function f\nassign a b[i]/c ops=index,div\nend\n")
	m := program.NewModel()
	require.NoError(t, parseFile(m, path))

	instr := m.Functions["f"].Body[0]
	assert.True(t, instr.HasOp("index"))
	assert.True(t, instr.HasOp("div"))
	assert.Equal(t, "b[i]/c", instr.Code)
}

func TestIsBinary(t *testing.T) {
	t.Parallel()

	binary := writeInput(t, "prebuilt.gbin", "#!goto-binary\nfunction main\nend\n")
	source := writeInput(t, "main.gir", "function main\nend\n")

	assert.True(t, IsBinary(binary))
	assert.False(t, IsBinary(source))
}

func TestPreprocess_StripsCommentsAndBlanks(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "main.gir", "# header\nfunction main # entry\n\n  return\nend\n")
	var out bytes.Buffer
	require.NoError(t, Preprocess([]string{path}, &out))
	assert.Equal(t, "function main\nreturn\nend\n", out.String())
}

func TestParseTree(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "main.gir", "function main\nreturn x\nend\n")
	var out bytes.Buffer
	require.NoError(t, ParseTree([]string{path}, &out))
	assert.Contains(t, out.String(), "function")
	assert.Contains(t, out.String(), "* main")

	require.Error(t, ParseTree([]string{path, path}, &out))
}

func TestSelfTestPreprocessor(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, SelfTestPreprocessor(&out))
	assert.Contains(t, out.String(), "all cases passed")
}
