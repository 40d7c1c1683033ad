package svgdraw

import (
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/svgwriter/svgnum"
)

// PaintStyle selects whether shapes are filled, stroked or both.
type PaintStyle uint8

const (
	Fill PaintStyle = iota
	Stroke
	FillAndStroke
)

func (s PaintStyle) String() string {
	switch s {
	case Fill:
		return "fill"
	case Stroke:
		return "stroke"
	case FillAndStroke:
		return "fill-and-stroke"
	default:
		return "<invalid paint style>"
	}
}

// Cap is the shape of the end of strokes.
type Cap uint8

const (
	ButtCap Cap = iota // default
	RoundCap
	SquareCap
)

func (c Cap) String() string {
	switch c {
	case ButtCap:
		return "butt"
	case RoundCap:
		return "round"
	case SquareCap:
		return "square"
	default:
		return "<invalid cap>"
	}
}

// Join is the shape of stroke corners.
type Join uint8

const (
	MiterJoin Join = iota // default
	RoundJoin
	BevelJoin
)

func (j Join) String() string {
	switch j {
	case MiterJoin:
		return "miter"
	case RoundJoin:
		return "round"
	case BevelJoin:
		return "bevel"
	default:
		return "<invalid join>"
	}
}

// DefaultMiterLimit is the stroke miter limit used when
// Paint.MiterLimit is zero.
const DefaultMiterLimit = 4

// miterTolerance is the distance to DefaultMiterLimit under which
// the miter limit is not emitted
const miterTolerance = 0.001

// Paint describes how shapes are painted.
type Paint struct {
	Style PaintStyle
	Color uint32 // ARGB, used for both fill and stroke

	StrokeWidth float64 // values <= 0 are emitted as 1
	Cap         Cap
	Join        Join
	MiterLimit  float64 // 0 means DefaultMiterLimit
	DashArray   []float64

	FillRule FillRule

	// Gradient, when set, replaces Color for fills, and
	// for strokes if UseGradientStroke is true.
	Gradient          Gradient
	UseGradientStroke bool

	// Filter is an optional filter applied to the shape.
	Filter *Filter
}

// NewPaint returns an opaque black paint.
func NewPaint(style PaintStyle) *Paint {
	return &Paint{Style: style, Color: 0xff000000, StrokeWidth: 1, MiterLimit: DefaultMiterLimit}
}

// Clone returns a deep copy.
func (p *Paint) Clone() *Paint {
	out := *p
	out.DashArray = append([]float64(nil), p.DashArray...)
	if p.DashArray == nil {
		out.DashArray = nil
	}
	if p.Gradient != nil {
		out.Gradient = p.Gradient.CloneGradient()
	}
	if p.Filter != nil {
		out.Filter = p.Filter.Clone()
	}
	return &out
}

func (p *Paint) strokeGradient() bool { return p.Gradient != nil && p.UseGradientStroke }

// StyleString returns the value of the "style" attribute.
// gradientRef is the id of the registered p.Gradient; it
// is ignored when p has no gradient.
func (p *Paint) StyleString(f svgnum.Formatter, gradientRef string) (string, error) {
	switch p.Style {
	case Stroke:
		s, err := p.strokeBlock(f, gradientRef)
		if err != nil {
			return "", err
		}
		return s + ";fill-opacity:0.0", nil
	case Fill:
		return p.fillBlock(f, gradientRef)
	default:
		s, err := p.strokeBlock(f, gradientRef)
		if err != nil {
			return "", err
		}
		fill, err := p.fillBlock(f, gradientRef)
		if err != nil {
			return "", err
		}
		return s + ";" + fill, nil
	}
}

type styleBuilder struct {
	sb  strings.Builder
	f   svgnum.Formatter
	err error
}

func (b *styleBuilder) raw(s string) { b.sb.WriteString(s) }

func (b *styleBuilder) num(v float64) {
	if b.err != nil {
		return
	}
	s, err := b.f.Format(v)
	if err != nil {
		b.err = fmt.Errorf("svgdraw: style: %w", err)
		return
	}
	b.sb.WriteString(s)
}

func (p *Paint) strokeBlock(f svgnum.Formatter, gradientRef string) (string, error) {
	b := styleBuilder{f: f}
	width := p.StrokeWidth
	if width <= 0 {
		width = 1
	}
	color, alpha := RGB(p.Color), Alpha(p.Color)
	if p.strokeGradient() {
		color, alpha = "url(#"+gradientRef+")", 255
	}
	b.raw("stroke-width:")
	b.num(width)
	b.raw(";stroke:" + color + ";stroke-opacity:")
	b.num(opacity(alpha))
	if p.Cap != ButtCap {
		b.raw(";stroke-linecap:" + p.Cap.String())
	}
	if p.Join != MiterJoin {
		b.raw(";stroke-linejoin:" + p.Join.String())
	}
	miter := p.MiterLimit
	if miter == 0 {
		miter = DefaultMiterLimit
	}
	if math.Abs(miter-DefaultMiterLimit) > miterTolerance {
		b.raw(";stroke-miterlimit:")
		b.num(miter)
	}
	if len(p.DashArray) != 0 {
		dashes, err := svgnum.Join(f, p.DashArray, ",")
		if err != nil && b.err == nil {
			b.err = fmt.Errorf("svgdraw: style: %w", err)
		}
		b.raw(";stroke-dasharray:" + dashes)
	}
	return b.sb.String(), b.err
}

func (p *Paint) fillBlock(f svgnum.Formatter, gradientRef string) (string, error) {
	b := styleBuilder{f: f}
	color, alpha := RGB(p.Color), Alpha(p.Color)
	if p.Gradient != nil {
		color, alpha = "url(#"+gradientRef+")", 255
	}
	b.raw("fill:" + color)
	if alpha < 255 {
		b.raw(";fill-opacity:")
		b.num(opacity(alpha))
	}
	if p.FillRule != NonZero {
		b.raw(";fill-rule:" + p.FillRule.String())
	}
	return b.sb.String(), b.err
}
