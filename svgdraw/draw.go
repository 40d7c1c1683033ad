// Package svgdraw defines the drawable entities (shapes, gradients,
// filters and their effects) and how each of them is emitted
// as an SVG element.
//
// Entities are plain values, created by the caller and converted
// to elements at draw time. They never keep a reference to the
// canvas drawing them: the few canvas services they need (id
// registration, path definitions) are passed explicitly through
// a Context.
package svgdraw

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/benoitkugler/svgwriter/svgnum"
	"github.com/benoitkugler/svgwriter/svgpath"
	"github.com/benoitkugler/svgwriter/svgxml"
)

// ErrTooFewPoints is returned for polygons with less than
// 3 points and polylines with less than 2 points.
var ErrTooFewPoints = errors.New("svgdraw: not enough points")

// Context is the part of the canvas state an entity
// may consult while emitting itself.
type Context interface {
	// RegisterID reserves id, failing if it is already used.
	RegisterID(id string) error
	// DefinePath adds p to the document definitions and
	// returns the id it may be referenced with.
	DefinePath(p svgpath.Path) (string, error)
}

// Shape is a drawable entity.
type Shape interface {
	// Element returns the markup of the shape. It does not
	// modify the shape.
	Element(ctx Context, f svgnum.Formatter) (*svgxml.Element, error)
	// Clone returns a deep copy.
	Clone() Shape
}

// FillRule selects the winding rule of fills and clips.
type FillRule uint8

const (
	NonZero FillRule = iota // default
	EvenOdd
)

func (r FillRule) String() string {
	switch r {
	case NonZero:
		return "nonzero"
	case EvenOdd:
		return "evenodd"
	default:
		return "<invalid fill rule>"
	}
}

// Units is the coordinate system of gradients, filters and clip paths.
type Units uint8

const (
	BoundingBox Units = iota // relative to the painted object
	UserSpace                // absolute user coordinates
)

func (u Units) String() string {
	switch u {
	case BoundingBox:
		return "objectBoundingBox"
	case UserSpace:
		return "userSpaceOnUse"
	default:
		return "<invalid units>"
	}
}

// ShapeBase holds the attributes shared by every shape.
type ShapeBase struct {
	ClipRule FillRule
}

// addBaseAttrs appends the shared attributes, only
// when they are not the default.
func addBaseAttrs(e *svgxml.Element, b ShapeBase) {
	if b.ClipRule != NonZero {
		e.Set("clip-rule", b.ClipRule.String())
	}
}

// attrWriter sets attributes on an element, remembering
// the first formatting error.
type attrWriter struct {
	e   *svgxml.Element
	f   svgnum.Formatter
	err error
}

func newWriter(tag string, f svgnum.Formatter) *attrWriter {
	return &attrWriter{e: svgxml.NewElement(tag), f: f}
}

func (w *attrWriter) num(name string, v float64) {
	if w.err != nil {
		return
	}
	s, err := w.f.Format(v)
	if err != nil {
		w.err = fmt.Errorf("%s %s: %w", w.e.Tag, name, err)
		return
	}
	w.e.Set(name, s)
}

func (w *attrWriter) list(name string, values []float64, sep string) {
	if w.err != nil {
		return
	}
	s, err := svgnum.Join(w.f, values, sep)
	if err != nil {
		w.err = fmt.Errorf("%s %s: %w", w.e.Tag, name, err)
		return
	}
	w.e.Set(name, s)
}

func (w *attrWriter) int(name string, v int) { w.e.Set(name, svgnum.FormatInt(v)) }

func (w *attrWriter) str(name, v string) { w.e.Set(name, v) }

// optStr sets the attribute only if v is not empty.
func (w *attrWriter) optStr(name, v string) {
	if v != "" {
		w.e.Set(name, v)
	}
}

func (w *attrWriter) result() (*svgxml.Element, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.e, nil
}

// RGB returns the "rgb(r,g,b)" notation of the low 24 bits
// of the packed ARGB color c.
func RGB(c uint32) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", (c>>16)&0xff, (c>>8)&0xff, c&0xff)
}

// Alpha returns the alpha channel of the packed ARGB color c.
func Alpha(c uint32) uint8 { return uint8(c >> 24) }

// ARGB packs a color, removing the alpha premultiplication.
func ARGB(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
}

// opacity converts an alpha channel to a fraction in [0, 1].
func opacity(alpha uint8) float64 { return float64(alpha) / 255 }
