// markergen generates profiler marker payload code for annotated Go struct types.
//
// Typical use is a go:generate directive next to the annotated types:
//
//	//go:generate go run github.com/vast-data/markergen/cmd/markergen generate
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/vast-data/markergen"
)

// errReported is returned by commands that already printed their diagnostics.
var errReported = errors.New("markergen: failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	g := &globals{stdout: stdout, stderr: stderr}
	fs := flag.NewFlagSet("markergen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g.register(fs)

	var root *ffcli.Command
	root = &ffcli.Command{
		Name:       "markergen",
		ShortUsage: "markergen [flags] <subcommand> [dir ...]",
		ShortHelp:  "Generate profiler marker payload code for annotated struct types",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix("MARKERGEN")},
		Subcommands: []*ffcli.Command{
			newGenerateCmd(g),
			newCheckCmd(g),
			newDescribeCmd(g),
			newExportCmd(g),
			newMarkersCmd(g),
			newVersionCmd(g),
		},
		Exec: func(context.Context, []string) error {
			fmt.Fprintln(stderr, ffcli.DefaultUsageFunc(root))
			return flag.ErrHelp
		},
	}

	err := root.ParseAndRun(ctx, args)
	if g.logs != nil {
		_ = g.logs.Close()
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 2
	case errors.Is(err, errReported):
		return 1
	default:
		fmt.Fprintf(stderr, "markergen: %v\n", err)
		return 1
	}
}

func newVersionCmd(g *globals) *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "markergen version",
		ShortHelp:  "Print the markergen version",
		Exec: func(context.Context, []string) error {
			fmt.Fprintln(g.stdout, markergen.Version())
			return nil
		},
	}
}
