// Command svgwriter renders scene files to SVG documents
// and summarizes existing documents.
//
//	svgwriter render scene.yaml -o out.svg
//	svgwriter inspect out.svg
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/benoitkugler/svgwriter/svgcanvas"
	"github.com/benoitkugler/svgwriter/svgread"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "svgwriter:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "svgwriter",
		Short:         "Render and inspect SVG documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	root.AddCommand(newRenderCmd(), newInspectCmd())
	return root
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	svgcanvas.SetLogger(logger)
	svgread.SetLogger(logger)
}

// expandPath resolves a leading ~ in path.
func expandPath(path string) (string, error) {
	out, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	return out, nil
}
