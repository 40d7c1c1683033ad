package main

import (
	"bufio"
	"io"
	"log/slog"
	"os"

	"github.com/benoitkugler/svgwriter/scene"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render SCENE",
		Short: "Render a YAML or TOML scene file to SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(args[0], output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: standard output)")
	return cmd
}

func render(input, output string, stdout io.Writer) error {
	input, err := expandPath(input)
	if err != nil {
		return err
	}
	sc, err := scene.Load(input)
	if err != nil {
		return err
	}
	c, err := sc.Render()
	if err != nil {
		return err
	}

	if output == "" {
		_, err = c.WriteTo(stdout)
		return err
	}
	if output, err = expandPath(output); err != nil {
		return err
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := c.WriteTo(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("document written", slog.String("file", output), slog.Int("elements", len(c.Elements())))
	return nil
}
