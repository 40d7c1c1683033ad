package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgwriter/svgcanvas"
	"github.com/benoitkugler/svgwriter/svgdraw"
	"github.com/benoitkugler/svgwriter/svgpath"
)

// ShapeSpec describes a shape. Only the fields relevant
// to Kind are used.
type ShapeSpec struct {
	// Kind is one of rect, circle, oval, line, polygon, polyline, path, text.
	Kind string `yaml:"kind" toml:"kind"`

	X      float64 `yaml:"x,omitempty" toml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty" toml:"y,omitempty"`
	Width  float64 `yaml:"width,omitempty" toml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty" toml:"height,omitempty"`
	RX     float64 `yaml:"rx,omitempty" toml:"rx,omitempty"`
	RY     float64 `yaml:"ry,omitempty" toml:"ry,omitempty"`

	CX float64 `yaml:"cx,omitempty" toml:"cx,omitempty"`
	CY float64 `yaml:"cy,omitempty" toml:"cy,omitempty"`
	R  float64 `yaml:"r,omitempty" toml:"r,omitempty"`

	X1 float64 `yaml:"x1,omitempty" toml:"x1,omitempty"`
	Y1 float64 `yaml:"y1,omitempty" toml:"y1,omitempty"`
	X2 float64 `yaml:"x2,omitempty" toml:"x2,omitempty"`
	Y2 float64 `yaml:"y2,omitempty" toml:"y2,omitempty"`

	Points []float64 `yaml:"points,omitempty" toml:"points,omitempty"` // x0, y0, x1, y1 ...
	D      string    `yaml:"d,omitempty" toml:"d,omitempty"`           // path data, also used by text

	Text       string  `yaml:"text,omitempty" toml:"text,omitempty"`
	FontFamily string  `yaml:"font_family,omitempty" toml:"font_family,omitempty"`
	FontSize   int     `yaml:"font_size,omitempty" toml:"font_size,omitempty"`
	Offset     float64 `yaml:"offset,omitempty" toml:"offset,omitempty"`

	EvenOddClip bool `yaml:"evenodd_clip,omitempty" toml:"evenodd_clip,omitempty"`
}

// PaintSpec describes a paint.
type PaintSpec struct {
	Style      string    `yaml:"style,omitempty" toml:"style,omitempty"` // fill (default), stroke or both
	Color      string    `yaml:"color,omitempty" toml:"color,omitempty"` // #RRGGBB or #AARRGGBB
	Width      float64   `yaml:"width,omitempty" toml:"width,omitempty"`
	Cap        string    `yaml:"cap,omitempty" toml:"cap,omitempty"`
	Join       string    `yaml:"join,omitempty" toml:"join,omitempty"`
	MiterLimit float64   `yaml:"miter_limit,omitempty" toml:"miter_limit,omitempty"`
	Dashes     []float64 `yaml:"dashes,omitempty" toml:"dashes,omitempty"`
	EvenOdd    bool      `yaml:"evenodd,omitempty" toml:"evenodd,omitempty"`

	Gradient       *GradientSpec `yaml:"gradient,omitempty" toml:"gradient,omitempty"`
	GradientStroke bool          `yaml:"gradient_stroke,omitempty" toml:"gradient_stroke,omitempty"`

	// Blur adds a gaussian blur filter with this standard deviation.
	Blur float64 `yaml:"blur,omitempty" toml:"blur,omitempty"`
}

// GradientSpec describes a linear or radial gradient.
type GradientSpec struct {
	Kind string `yaml:"kind" toml:"kind"` // linear or radial
	// Coords are x1, y1, x2, y2 for linear gradients,
	// and cx, cy, r, fx, fy for radial ones.
	Coords    []float64  `yaml:"coords" toml:"coords"`
	Spread    string     `yaml:"spread,omitempty" toml:"spread,omitempty"`
	UserSpace bool       `yaml:"user_space,omitempty" toml:"user_space,omitempty"`
	Stops     []StopSpec `yaml:"stops" toml:"stops"`
}

// StopSpec is one gradient stop.
type StopSpec struct {
	Offset float64 `yaml:"offset" toml:"offset"`
	Color  string  `yaml:"color" toml:"color"`
}

// ParseColor parses the #RRGGBB and #AARRGGBB notations
// into a packed ARGB value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("scene: invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("scene: invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v |= 0xff000000
	}
	return uint32(v), nil
}

func (op Op) expectValues(n ...int) error {
	for _, v := range n {
		if len(op.Values) == v {
			return nil
		}
	}
	return fmt.Errorf("%w: got %d values", svgpath.ErrParamMismatch, len(op.Values))
}

func (op Op) apply(c *svgcanvas.Canvas) error {
	v := op.Values
	switch op.Op {
	case "save":
		c.Save()
	case "restore":
		return c.Restore()
	case "transform":
		if err := op.expectValues(6); err != nil {
			return err
		}
		c.Concat(svgpath.Matrix2D{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]})
	case "set-transform":
		if err := op.expectValues(6); err != nil {
			return err
		}
		c.SetTransform(svgpath.Matrix2D{A: v[0], B: v[1], C: v[2], D: v[3], E: v[4], F: v[5]})
	case "translate":
		if err := op.expectValues(2); err != nil {
			return err
		}
		c.Translate(v[0], v[1])
	case "scale":
		if err := op.expectValues(1, 2); err != nil {
			return err
		}
		sy := v[0]
		if len(v) == 2 {
			sy = v[1]
		}
		c.Scale(v[0], sy)
	case "rotate":
		if err := op.expectValues(1, 3); err != nil {
			return err
		}
		if len(v) == 3 {
			c.RotateAround(v[0]*degToRad, v[1], v[2])
		} else {
			c.RotateDegrees(v[0])
		}
	case "shear":
		if err := op.expectValues(2); err != nil {
			return err
		}
		c.Shear(v[0], v[1])
	case "reset-transform":
		c.ResetTransform()
	case "clip":
		shape, err := op.shape()
		if err != nil {
			return err
		}
		return c.Clip(shape)
	case "reset-clip":
		c.ResetClip()
	case "draw":
		shape, err := op.shape()
		if err != nil {
			return err
		}
		var paint *svgdraw.Paint
		if op.Paint != nil {
			if paint, err = op.Paint.paint(); err != nil {
				return err
			}
		} else if _, isText := shape.(*svgdraw.TextPath); isText {
			paint = svgdraw.NewPaint(svgdraw.Fill)
		}
		var opts []svgcanvas.DrawOption
		if op.ID != "" {
			opts = append(opts, svgcanvas.WithID(op.ID))
		}
		return c.Draw(shape, paint, opts...)
	default:
		return fmt.Errorf("%w %q", ErrUnknownOperation, op.Op)
	}
	return nil
}

const degToRad = math.Pi / 180

func (op Op) shape() (svgdraw.Shape, error) {
	s := op.Shape
	if s == nil {
		return nil, fmt.Errorf("%s: missing shape", op.Op)
	}
	var base svgdraw.ShapeBase
	if s.EvenOddClip {
		base.ClipRule = svgdraw.EvenOdd
	}
	switch s.Kind {
	case "rect":
		return &svgdraw.Rect{ShapeBase: base, X: s.X, Y: s.Y, Width: s.Width, Height: s.Height, RX: s.RX, RY: s.RY}, nil
	case "circle":
		return &svgdraw.Circle{ShapeBase: base, CX: s.CX, CY: s.CY, R: s.R}, nil
	case "oval":
		return &svgdraw.Oval{ShapeBase: base, CX: s.CX, CY: s.CY, RX: s.RX, RY: s.RY}, nil
	case "line":
		return &svgdraw.Line{ShapeBase: base, X1: s.X1, Y1: s.Y1, X2: s.X2, Y2: s.Y2}, nil
	case "polygon", "polyline":
		points, err := s.points()
		if err != nil {
			return nil, err
		}
		if s.Kind == "polygon" {
			if len(points) < 3 {
				return nil, fmt.Errorf("polygon: %w", svgdraw.ErrTooFewPoints)
			}
			return &svgdraw.Polygon{ShapeBase: base, Points: points}, nil
		}
		if len(points) < 2 {
			return nil, fmt.Errorf("polyline: %w", svgdraw.ErrTooFewPoints)
		}
		return &svgdraw.Polyline{ShapeBase: base, Points: points}, nil
	case "path":
		p, err := svgpath.Parse(s.D)
		if err != nil {
			return nil, err
		}
		return &svgdraw.Path{ShapeBase: base, Path: p}, nil
	case "text":
		t := &svgdraw.TextPath{ShapeBase: base, Text: s.Text, X: s.X, Y: s.Y, StartOffset: s.Offset}
		if s.D != "" {
			p, err := svgpath.Parse(s.D)
			if err != nil {
				return nil, err
			}
			t.Path = p
		}
		if s.FontFamily != "" {
			font := svgdraw.NewFont(s.FontFamily)
			if s.FontSize > 0 {
				font.Size = s.FontSize
			}
			t.Style.Font = &font
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: shape kind %q", ErrUnknownOperation, s.Kind)
}

func (s *ShapeSpec) points() ([]svgdraw.Point, error) {
	if len(s.Points)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of point coordinates", svgpath.ErrParamMismatch)
	}
	out := make([]svgdraw.Point, len(s.Points)/2)
	for i := range out {
		out[i] = svgdraw.Point{X: s.Points[2*i], Y: s.Points[2*i+1]}
	}
	return out, nil
}

func (ps *PaintSpec) paint() (*svgdraw.Paint, error) {
	var style svgdraw.PaintStyle
	switch ps.Style {
	case "", "fill":
		style = svgdraw.Fill
	case "stroke":
		style = svgdraw.Stroke
	case "both":
		style = svgdraw.FillAndStroke
	default:
		return nil, fmt.Errorf("invalid paint style %q", ps.Style)
	}
	p := svgdraw.NewPaint(style)
	if ps.Color != "" {
		var err error
		if p.Color, err = ParseColor(ps.Color); err != nil {
			return nil, err
		}
	}
	if ps.Width > 0 {
		p.StrokeWidth = ps.Width
	}
	switch ps.Cap {
	case "", "butt":
	case "round":
		p.Cap = svgdraw.RoundCap
	case "square":
		p.Cap = svgdraw.SquareCap
	default:
		return nil, fmt.Errorf("invalid cap %q", ps.Cap)
	}
	switch ps.Join {
	case "", "miter":
	case "round":
		p.Join = svgdraw.RoundJoin
	case "bevel":
		p.Join = svgdraw.BevelJoin
	default:
		return nil, fmt.Errorf("invalid join %q", ps.Join)
	}
	if ps.MiterLimit > 0 {
		p.MiterLimit = ps.MiterLimit
	}
	p.DashArray = ps.Dashes
	if ps.EvenOdd {
		p.FillRule = svgdraw.EvenOdd
	}
	if ps.Gradient != nil {
		g, err := ps.Gradient.gradient()
		if err != nil {
			return nil, err
		}
		p.Gradient = g
		p.UseGradientStroke = ps.GradientStroke
	}
	if ps.Blur > 0 {
		p.Filter = svgdraw.NewGaussianBlurFilter(ps.Blur, ps.Blur)
	}
	return p, nil
}

func (gs *GradientSpec) gradient() (svgdraw.Gradient, error) {
	var base svgdraw.GradientBase
	if gs.UserSpace {
		base.Units = svgdraw.UserSpace
	}
	switch gs.Spread {
	case "", "pad":
	case "reflect":
		base.Spread = svgdraw.ReflectSpread
	case "repeat":
		base.Spread = svgdraw.RepeatSpread
	default:
		return nil, fmt.Errorf("invalid spread method %q", gs.Spread)
	}
	for _, stop := range gs.Stops {
		color, err := ParseColor(stop.Color)
		if err != nil {
			return nil, err
		}
		base.AddStop(stop.Offset, color)
	}
	c := gs.Coords
	switch gs.Kind {
	case "linear":
		if len(c) != 4 {
			return nil, fmt.Errorf("linear gradient: %w", svgpath.ErrParamMismatch)
		}
		return &svgdraw.LinearGradient{GradientBase: base, X1: c[0], Y1: c[1], X2: c[2], Y2: c[3]}, nil
	case "radial":
		if len(c) != 3 && len(c) != 5 {
			return nil, fmt.Errorf("radial gradient: %w", svgpath.ErrParamMismatch)
		}
		g := &svgdraw.RadialGradient{GradientBase: base, CX: c[0], CY: c[1], R: c[2], FX: c[0], FY: c[1]}
		if len(c) == 5 {
			g.FX, g.FY = c[3], c[4]
		}
		return g, nil
	}
	return nil, fmt.Errorf("%w: gradient kind %q", ErrUnknownOperation, gs.Kind)
}
