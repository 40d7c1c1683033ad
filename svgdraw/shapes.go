package svgdraw

import (
	"strings"

	"github.com/benoitkugler/svgwriter/svgnum"
	"github.com/benoitkugler/svgwriter/svgpath"
	"github.com/benoitkugler/svgwriter/svgxml"
	"github.com/jinzhu/copier"
)

// deepCopy returns a structural copy of src, with
// duplicated slices.
func deepCopy[T any](src *T) *T {
	dst := new(T)
	if err := copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true}); err != nil {
		// entities only hold plain data
		panic("svgdraw: deep copy: " + err.Error())
	}
	return dst
}

// Point is a 2D point.
type Point struct{ X, Y float64 }

// Rect is a rectangle, with optional rounded corners.
type Rect struct {
	ShapeBase
	X, Y, Width, Height float64
	RX, RY              float64 // corner radii, ignored when <= 0
}

func (r *Rect) Element(_ Context, f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("rect", f)
	w.num("x", r.X)
	w.num("y", r.Y)
	w.num("width", r.Width)
	w.num("height", r.Height)
	if r.RX > 0 {
		w.num("rx", r.RX)
	}
	if r.RY > 0 {
		w.num("ry", r.RY)
	}
	addBaseAttrs(w.e, r.ShapeBase)
	return w.result()
}

func (r *Rect) Clone() Shape { cp := *r; return &cp }

// Circle is defined by its center and radius.
type Circle struct {
	ShapeBase
	CX, CY, R float64
}

func (c *Circle) Element(_ Context, f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("circle", f)
	w.num("cx", c.CX)
	w.num("cy", c.CY)
	w.num("r", c.R)
	addBaseAttrs(w.e, c.ShapeBase)
	return w.result()
}

func (c *Circle) Clone() Shape { cp := *c; return &cp }

// Oval is an axis aligned ellipse.
type Oval struct {
	ShapeBase
	CX, CY, RX, RY float64
}

func (o *Oval) Element(_ Context, f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("ellipse", f)
	w.num("cx", o.CX)
	w.num("cy", o.CY)
	w.num("rx", o.RX)
	w.num("ry", o.RY)
	addBaseAttrs(w.e, o.ShapeBase)
	return w.result()
}

func (o *Oval) Clone() Shape { cp := *o; return &cp }

// Line is a segment.
type Line struct {
	ShapeBase
	X1, Y1, X2, Y2 float64
}

func (l *Line) Element(_ Context, f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("line", f)
	w.num("x1", l.X1)
	w.num("y1", l.Y1)
	w.num("x2", l.X2)
	w.num("y2", l.Y2)
	addBaseAttrs(w.e, l.ShapeBase)
	return w.result()
}

func (l *Line) Clone() Shape { cp := *l; return &cp }

// pointsAttr writes one " x,y" chunk per vertex.
func pointsAttr(w *attrWriter, points []Point) {
	if w.err != nil {
		return
	}
	var sb strings.Builder
	for _, p := range points {
		x, err := w.f.Format(p.X)
		if err != nil {
			w.err = err
			return
		}
		y, err := w.f.Format(p.Y)
		if err != nil {
			w.err = err
			return
		}
		sb.WriteByte(' ')
		sb.WriteString(x)
		sb.WriteByte(',')
		sb.WriteString(y)
	}
	w.str("points", sb.String())
}

// Polygon is a closed polyline.
type Polygon struct {
	ShapeBase
	Points []Point
}

func (p *Polygon) Element(_ Context, f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("polygon", f)
	pointsAttr(w, p.Points)
	addBaseAttrs(w.e, p.ShapeBase)
	return w.result()
}

func (p *Polygon) Clone() Shape { return deepCopy(p) }

// Polyline is an open sequence of segments.
type Polyline struct {
	ShapeBase
	Points []Point
}

func (p *Polyline) Element(_ Context, f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("polyline", f)
	pointsAttr(w, p.Points)
	addBaseAttrs(w.e, p.ShapeBase)
	return w.result()
}

func (p *Polyline) Clone() Shape { return deepCopy(p) }

// Path is a free form shape.
type Path struct {
	ShapeBase
	Path svgpath.Path
}

func (p *Path) Element(_ Context, f svgnum.Formatter) (*svgxml.Element, error) {
	d, err := p.Path.Encode(f)
	if err != nil {
		return nil, err
	}
	e := svgxml.NewElement("path")
	e.Set("d", d)
	addBaseAttrs(e, p.ShapeBase)
	return e, nil
}

func (p *Path) Clone() Shape {
	return &Path{ShapeBase: p.ShapeBase, Path: p.Path.Clone()}
}

// Group is an ordered list of shapes, emitted as a "g" container.
type Group struct {
	ShapeBase
	Children []Shape
}

// Add appends shapes to the group.
func (g *Group) Add(shapes ...Shape) { g.Children = append(g.Children, shapes...) }

func (g *Group) Element(ctx Context, f svgnum.Formatter) (*svgxml.Element, error) {
	e := svgxml.NewElement("g")
	addBaseAttrs(e, g.ShapeBase)
	children, err := elements(ctx, f, g.Children)
	if err != nil {
		return nil, err
	}
	e.Append(children...)
	return e, nil
}

func elements(ctx Context, f svgnum.Formatter, shapes []Shape) ([]*svgxml.Element, error) {
	out := make([]*svgxml.Element, len(shapes))
	for i, s := range shapes {
		var err error
		out[i], err = s.Element(ctx, f)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (g *Group) Clone() Shape {
	out := &Group{ShapeBase: g.ShapeBase}
	if g.Children != nil {
		out.Children = make([]Shape, len(g.Children))
		for i, c := range g.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// ClipShape wraps a shape used as a clipping region.
// Use NewClipShape for the default user space coordinates.
type ClipShape struct {
	ShapeBase
	Shape Shape
	Units Units
}

// NewClipShape returns a clip in user space coordinates.
func NewClipShape(s Shape) *ClipShape { return &ClipShape{Shape: s, Units: UserSpace} }

// Element returns a "clipPath" element. The children of a wrapped
// group are inlined rather than nested.
func (c *ClipShape) Element(ctx Context, f svgnum.Formatter) (*svgxml.Element, error) {
	e := svgxml.NewElement("clipPath")
	e.Set("clipPathUnits", c.Units.String())
	addBaseAttrs(e, c.ShapeBase)
	var shapes []Shape
	if g, ok := c.Shape.(*Group); ok {
		shapes = g.Children
	} else if c.Shape != nil {
		shapes = []Shape{c.Shape}
	}
	children, err := elements(ctx, f, shapes)
	if err != nil {
		return nil, err
	}
	e.Append(children...)
	return e, nil
}

func (c *ClipShape) Clone() Shape {
	out := &ClipShape{ShapeBase: c.ShapeBase, Units: c.Units}
	if c.Shape != nil {
		out.Shape = c.Shape.Clone()
	}
	return out
}
