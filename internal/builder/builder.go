// Package builder is the representation-construction collaborator: it turns
// input paths into a program.Model. Two text dialects are supported, plus a
// pre-built binary form of the representation. The session controller owns
// sequencing; this package only parses and merges.
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kvasir-mc/kvasir/internal/config"
	"github.com/kvasir-mc/kvasir/internal/ctxlog"
	"github.com/kvasir-mc/kvasir/internal/fsutil"
	"github.com/kvasir-mc/kvasir/internal/program"
)

// Source dialects by file extension. The .gir dialect is the C-shaped front
// end, .jir the JVM-shaped one; .gbin is the pre-built binary form.
const (
	ExtC      = ".gir"
	ExtJVM    = ".jir"
	ExtBinary = ".gbin"
)

// binaryMagic is the first line of a pre-built representation file.
const binaryMagic = "#!goto-binary"

// IsBinary reports whether path holds a pre-built representation rather
// than dialect source text.
func IsBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, len(binaryMagic))
	n, _ := f.Read(buf)
	return string(buf[:n]) == binaryMagic
}

// dialectOf maps a path to its front-end dialect, "" for binaries.
func dialectOf(path string) (string, error) {
	switch filepath.Ext(path) {
	case ExtC:
		return "c", nil
	case ExtJVM:
		return "jvm", nil
	case ExtBinary:
		return "", nil
	default:
		return "", fmt.Errorf("cannot determine the source dialect of %q", path)
	}
}

// Build constructs the program representation from the given input paths.
// Directories are expanded to their source files. Building with no inputs
// is a fatal usage error.
func Build(ctx context.Context, paths []string, cfg *config.Configuration) (*program.Model, error) {
	logger := ctxlog.FromContext(ctx)

	if len(paths) == 0 {
		return nil, &config.UsageError{Message: "please provide a program to verify"}
	}

	files, err := expandPaths(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &config.UsageError{Message: "no source files found in the given paths"}
	}

	m := program.NewModel()
	dialects := make(map[string]bool)
	for _, file := range files {
		dialect, err := dialectOf(file)
		if err != nil {
			return nil, err
		}
		if err := parseFile(m, file); err != nil {
			return nil, err
		}
		if dialect != "" {
			dialects[dialect] = true
		}
		logger.Debug("Parsed input.", "file", file, "dialect", dialect)
	}
	for _, d := range []string{"c", "jvm"} {
		if dialects[d] {
			m.Dialects = append(m.Dialects, d)
		}
	}

	entry := cfg.String("function")
	if entry == "" {
		entry = "main"
	}
	if m.Functions[entry] == nil {
		return nil, fmt.Errorf("entry point %q not found in the input program", entry)
	}
	m.EntryPoint = entry

	logger.Debug("Representation built.", "functions", len(m.Functions), "entry", entry)
	return m, nil
}

// expandPaths resolves directories to their contained source files and
// passes plain files through.
func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot open input %q: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ExtC, ExtJVM, ExtBinary)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// stripComments removes comment-only and blank lines; shared by the
// preprocessor and the parser.
func stripComments(src string) []string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if i := strings.Index(trimmed, " #"); i >= 0 {
			trimmed = strings.TrimSpace(trimmed[:i])
		}
		lines = append(lines, trimmed)
	}
	return lines
}
