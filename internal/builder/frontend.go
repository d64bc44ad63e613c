package builder

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Preprocess writes the preprocessed form of each input to w: comments and
// blank lines stripped, one logical line per output line. It mirrors what
// the parser sees before tokenization.
func Preprocess(paths []string, w io.Writer) error {
	for _, path := range paths {
		if IsBinary(path) {
			return fmt.Errorf("cannot preprocess the binary input %q", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read input %q: %w", path, err)
		}
		for _, line := range stripComments(string(data)) {
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// SelfTestPreprocessor runs the preprocessor against a fixed corpus of
// inputs and checks the output line count against the expected value. A
// mismatch means the preprocessor dropped or duplicated lines.
func SelfTestPreprocessor(w io.Writer) error {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"comments only", "# a\n  # b\n\n", 0},
		{"plain body", "function f\nreturn\nend\n", 3},
		{"trailing comment", "function f # entry\nend\n", 2},
		{"blank interleave", "\nfunction f\n\nend\n\n", 2},
	}
	for _, tc := range cases {
		got := len(stripComments(tc.input))
		if got != tc.want {
			return fmt.Errorf("preprocessor self test %q: got %d lines, want %d", tc.name, got, tc.want)
		}
		fmt.Fprintf(w, "PASS %s\n", tc.name)
	}
	fmt.Fprintln(w, "preprocessor self test: all cases passed")
	return nil
}

// ParseTree writes an indented dump of a single source file without building
// the full representation. Exactly one non-binary input is required.
func ParseTree(paths []string, w io.Writer) error {
	if len(paths) != 1 {
		return fmt.Errorf("parse tree output requires exactly one input file")
	}
	path := paths[0]
	if IsBinary(path) {
		return fmt.Errorf("cannot show the parse tree of the binary input %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read input %q: %w", path, err)
	}

	depth := 0
	for _, line := range stripComments(string(data)) {
		fields := strings.Fields(line)
		keyword := fields[0]
		if keyword == "end" {
			depth = 0
			fmt.Fprintln(w, "end")
			continue
		}
		fmt.Fprintf(w, "%s%s", strings.Repeat("  ", depth), keyword)
		for _, arg := range fields[1:] {
			fmt.Fprintf(w, "\n%s* %s", strings.Repeat("  ", depth+1), arg)
		}
		fmt.Fprintln(w)
		if keyword == "function" {
			depth = 1
		}
	}
	return nil
}
