package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/benoitkugler/svgwriter/svgread"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize the elements and definitions of an SVG document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := svgread.WarnErrorMode
			if strict {
				mode = svgread.StrictErrorMode
			}
			return inspect(args[0], mode, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on unsupported elements")
	return cmd
}

func inspect(file string, mode svgread.ErrorMode, w io.Writer) error {
	file, err := expandPath(file)
	if err != nil {
		return err
	}
	doc, err := svgread.ReadDocument(file, mode)
	if err != nil {
		return err
	}
	out := termenv.NewOutput(w)
	title := func(s string) string { return out.String(s).Bold().String() }
	tag := func(s string) string { return out.String(s).Foreground(out.Color("4")).String() }
	id := func(s string) string { return out.String("#" + s).Foreground(out.Color("2")).String() }

	fmt.Fprintf(w, "%s %s x %s, view box %g %g %g %g\n", title("document"),
		doc.Width, doc.Height, doc.ViewBox.X, doc.ViewBox.Y, doc.ViewBox.W, doc.ViewBox.H)
	for _, t := range doc.Titles {
		fmt.Fprintf(w, "  title: %s\n", t)
	}

	fmt.Fprintf(w, "%s (%d)\n", title("elements"), len(doc.Elements))
	var printElement func(e *svgread.Element, indent string)
	printElement = func(e *svgread.Element, indent string) {
		line := indent + tag(e.Tag)
		if e.ID != "" {
			line += " " + id(e.ID)
		}
		if b, ok := e.Bounds(); ok {
			line += fmt.Sprintf(" [%g %g %g %g]", b.X, b.Y, b.W, b.H)
		}
		if e.ClipPath != "" {
			line += " clip=" + id(e.ClipPath)
		}
		if e.Filter != "" {
			line += " filter=" + id(e.Filter)
		}
		fmt.Fprintln(w, line)
		for _, child := range e.Children {
			printElement(child, indent+"  ")
		}
	}
	for _, e := range doc.Elements {
		printElement(e, "  ")
	}

	ids := make([]string, 0, len(doc.Defs))
	for k := range doc.Defs {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	fmt.Fprintf(w, "%s (%d)\n", title("definitions"), len(ids))
	for _, k := range ids {
		fmt.Fprintf(w, "  %s %s\n", id(k), tag(doc.Defs[k].Tag))
	}
	return nil
}
