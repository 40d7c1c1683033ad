package svgcanvas

import (
	"fmt"
	"log/slog"

	"github.com/benoitkugler/svgwriter/svgnum"
)

// AspectRatio is the alignment token of "preserveAspectRatio".
type AspectRatio uint8

const (
	AspectUnset AspectRatio = iota // attribute omitted
	AspectNone
	XMinYMin
	XMidYMin
	XMaxYMin
	XMinYMid
	XMidYMid
	XMaxYMid
	XMinYMax
	XMidYMax
	XMaxYMax
)

var aspectRatioNames = [...]string{
	AspectUnset: "",
	AspectNone:  "none",
	XMinYMin:    "xMinYMin",
	XMidYMin:    "xMidYMin",
	XMaxYMin:    "xMaxYMin",
	XMinYMid:    "xMinYMid",
	XMidYMid:    "xMidYMid",
	XMaxYMid:    "xMaxYMid",
	XMinYMax:    "xMinYMax",
	XMidYMax:    "xMidYMax",
	XMaxYMax:    "xMaxYMax",
}

func (a AspectRatio) String() string {
	if int(a) < len(aspectRatioNames) {
		return aspectRatioNames[a]
	}
	return "<invalid aspect ratio>"
}

// ParseAspectRatio returns the alignment with the given token.
func ParseAspectRatio(s string) (AspectRatio, error) {
	for i, name := range aspectRatioNames {
		if name == s {
			return AspectRatio(i), nil
		}
	}
	return 0, fmt.Errorf("svgcanvas: invalid aspect ratio %q", s)
}

// MeetOrSlice is the optional scaling token of "preserveAspectRatio".
type MeetOrSlice uint8

const (
	MeetOrSliceUnset MeetOrSlice = iota
	Meet
	Slice
)

func (m MeetOrSlice) String() string {
	switch m {
	case MeetOrSliceUnset:
		return ""
	case Meet:
		return "meet"
	case Slice:
		return "slice"
	default:
		return "<invalid meet or slice>"
	}
}

// ViewBox is the "viewBox" of the root element.
type ViewBox struct {
	X, Y, Width, Height float64
}

// RootOptions configures the root element.
type RootOptions struct {
	ID                string
	IncludeDimensions bool     // emit width and height, with the canvas unit
	ViewBox           *ViewBox // optional
	AspectRatio       AspectRatio
	MeetOrSlice       MeetOrSlice // only used with an AspectRatio
}

// Finalize sets the root attributes. It may be called several
// times: each call replaces the attributes set by the previous one.
// The id, when set, is registered, so it must not be used by an
// element.
func (c *Canvas) Finalize(opts RootOptions) error {
	f := c.geometry
	root := c.root
	previousID, _ := root.Get("id")

	attrs := root.Attrs
	root.Attrs = nil
	root.Set("xmlns", NamespaceSVG)
	root.Set("xmlns:xlink", NamespaceXLink)
	root.Set("xmlns:jfreesvg", NamespaceJFreeSVG)

	fail := func(err error) error {
		root.Attrs = attrs
		return err
	}
	if opts.ID != "" {
		root.Set("id", opts.ID)
	}
	if opts.IncludeDimensions {
		for _, dim := range [2]struct {
			name string
			v    float64
		}{{"width", c.width}, {"height", c.height}} {
			s, err := f.Format(dim.v)
			if err != nil {
				return fail(fmt.Errorf("svgcanvas: root %s: %w", dim.name, err))
			}
			root.Set(dim.name, s+c.unit.String())
		}
	}
	if vb := opts.ViewBox; vb != nil {
		s, err := svgnum.Join(f, []float64{vb.X, vb.Y, vb.Width, vb.Height}, " ")
		if err != nil {
			return fail(fmt.Errorf("svgcanvas: root viewBox: %w", err))
		}
		root.Set("viewBox", s)
	}
	if opts.AspectRatio != AspectUnset {
		s := opts.AspectRatio.String()
		if opts.MeetOrSlice != MeetOrSliceUnset {
			s += " " + opts.MeetOrSlice.String()
		}
		root.Set("preserveAspectRatio", s)
	}

	if opts.ID != previousID {
		if opts.ID != "" {
			if err := c.RegisterID(opts.ID); err != nil {
				return fail(err)
			}
		}
		if previousID != "" {
			delete(c.ids, previousID)
		}
	}
	c.finalized = true
	Logger().Debug("root finalized", slog.Int("attributes", len(root.Attrs)),
		slog.Int("elements", len(c.body)), slog.Int("definitions", len(c.defs)))
	return nil
}
