package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kvasir-mc/kvasir/internal/cli"
	"github.com/kvasir-mc/kvasir/internal/hclsession"
	"github.com/kvasir-mc/kvasir/internal/session"
)

// main is the entrypoint for the kvasir verifier.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	code, err := run(os.Stdout, os.Args[1:])
	if err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(session.ExitInternal)
	}
	os.Exit(code)
}

// run encapsulates the main application logic for easier testing and error
// handling. The returned status is the process exit code.
func run(outW io.Writer, args []string) (int, error) {
	res, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return 0, err
	}
	if shouldExit {
		return session.ExitSuccess, nil
	}

	raw := res.Options
	paths := res.Paths
	if res.SessionFile != "" {
		file, err := hclsession.Load(res.SessionFile)
		if err != nil {
			return 0, &cli.ExitError{Code: session.ExitUsage, Message: err.Error()}
		}
		// Flags win over the session file; file inputs extend the
		// positional paths.
		raw.MergeUnder(file.Options)
		paths = append(paths, file.Inputs...)
	}

	logger := session.NewLogger(res.LogLevel, res.LogFormat, os.Stderr)
	controller := session.New(outW, logger)
	return controller.Run(context.Background(), raw, paths), nil
}
