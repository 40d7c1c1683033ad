package svgcanvas

import (
	"fmt"
	"log/slog"

	"github.com/benoitkugler/svgwriter/svgdraw"
	"github.com/benoitkugler/svgwriter/svgpath"
	"github.com/benoitkugler/svgwriter/svgxml"
)

// transaction records the side effects of a draw call,
// so that they are undone if the call fails.
type transaction struct {
	ids      []string
	defKeys  []string
	nDefs    int
	counters struct{ gradient, clip, filter, textPath int }
}

func (c *Canvas) begin() {
	c.tx = &transaction{nDefs: len(c.defs), counters: c.counters}
}

func (c *Canvas) commit() { c.tx = nil }

func (c *Canvas) rollback() {
	tx := c.tx
	c.tx = nil
	for _, id := range tx.ids {
		delete(c.ids, id)
	}
	for _, key := range tx.defKeys {
		delete(c.defKeys, key)
	}
	c.defs = c.defs[:tx.nDefs]
	c.counters = tx.counters
}

// atomically runs fn, undoing its registrations on error.
func (c *Canvas) atomically(fn func() error) error {
	c.begin()
	if err := fn(); err != nil {
		c.rollback()
		return err
	}
	c.commit()
	return nil
}

// DrawOption customizes one draw call.
type DrawOption func(*drawOptions)

type drawOptions struct {
	id string
}

// WithID sets the id of the drawn element. The id must not be
// already used in the document.
func WithID(id string) DrawOption { return func(o *drawOptions) { o.id = id } }

// DefaultPaint returns the paint used when none is given: a black
// stroke of width 1.
func DefaultPaint() *svgdraw.Paint { return svgdraw.NewPaint(svgdraw.Stroke) }

// Draw converts s with paint (DefaultPaint if nil), applying the
// current transform and clip, and appends it to the document.
// On error, the document is left unchanged.
func (c *Canvas) Draw(s svgdraw.Shape, paint *svgdraw.Paint, opts ...DrawOption) error {
	var do drawOptions
	for _, opt := range opts {
		opt(&do)
	}
	if paint == nil {
		paint = DefaultPaint()
	}
	var e *svgxml.Element
	err := c.atomically(func() error {
		var err error
		e, err = c.element(s, paint, do)
		return err
	})
	if err != nil {
		return err
	}
	c.body = append(c.body, e)
	return nil
}

// element emits the shape followed by its style, filter,
// id, transform and clip attributes.
func (c *Canvas) element(s svgdraw.Shape, paint *svgdraw.Paint, do drawOptions) (*svgxml.Element, error) {
	e, err := s.Element(c, c.geometry)
	if err != nil {
		return nil, err
	}

	var gradientID string
	if paint.Gradient != nil {
		gradientID, err = c.DefineGradient(paint.Gradient)
		if err != nil {
			return nil, err
		}
	}
	style, err := paint.StyleString(c.geometry, gradientID)
	if err != nil {
		return nil, err
	}
	e.Set("style", style)

	if paint.Filter != nil {
		filterID, err := c.DefineFilter(paint.Filter)
		if err != nil {
			return nil, err
		}
		e.Set("filter", "url(#"+filterID+")")
	}

	if do.id != "" {
		if err := c.RegisterID(do.id); err != nil {
			return nil, err
		}
		e.Set("id", do.id)
	}

	if err := c.setTransform(e); err != nil {
		return nil, err
	}

	if c.current.clip != nil {
		clipID, err := c.clipFor(c.current.clip, c.current.transform)
		if err != nil {
			return nil, err
		}
		e.Set("clip-path", "url(#"+clipID+")")
	}
	return e, nil
}

// clipFor returns the id of a clip path mapping the active clip
// into the user space of an element drawn with tr.
// "clip-path" is resolved after the element transform, so a clip
// recorded under another transform gets a definition carrying
// tr⁻¹·T, where T is the transform active when clipping.
func (c *Canvas) clipFor(clip *activeClip, tr svgpath.Matrix2D) (string, error) {
	if tr == clip.transform {
		return clip.id, nil
	}
	inv, ok := tr.Invert()
	if !ok {
		return "", fmt.Errorf("%w: clip under %v", ErrNotInvertible, tr)
	}
	composed := inv.Mult(clip.transform)
	if composed.IsIdentity() {
		return clip.id, nil
	}
	e := clip.element.Clone()
	if err := c.setMatrix(e, composed); err != nil {
		return "", err
	}
	return c.define("clip", e, "", c.nextClipID)
}

func (c *Canvas) nextClipID() string {
	return c.nextID(&c.counters.clip, func(n int) string { return fmt.Sprintf("clip-%s%d", c.prefix, n) })
}

func (c *Canvas) setTransform(e *svgxml.Element) error {
	return c.setMatrix(e, c.current.transform)
}

func (c *Canvas) setMatrix(e *svgxml.Element, m svgpath.Matrix2D) error {
	if m.IsIdentity() {
		return nil
	}
	tr, err := m.Encode(c.transform)
	if err != nil {
		return fmt.Errorf("svgcanvas: transform: %w", err)
	}
	e.Set("transform", tr)
	return nil
}

// Clip defines s as a clip path and makes it the active clip.
// A shape which is not a *svgdraw.ClipShape is wrapped with
// svgdraw.NewClipShape. The clip is expressed in the current
// user space: shapes drawn later under another transform reference
// a variant of the definition compensating the difference.
// Identical clips share the same definition.
func (c *Canvas) Clip(s svgdraw.Shape) error {
	clip, ok := s.(*svgdraw.ClipShape)
	if !ok {
		clip = svgdraw.NewClipShape(s)
	}
	active := &activeClip{transform: c.current.transform}
	err := c.atomically(func() error {
		e, err := clip.Element(c, c.geometry)
		if err != nil {
			return err
		}
		active.element = e.Clone()
		active.id, err = c.define("clip", e, "", c.nextClipID)
		return err
	})
	if err != nil {
		return err
	}
	c.current.clip = active
	return nil
}

// ClipRect is a convenience for clipping to a rectangle.
func (c *Canvas) ClipRect(x, y, width, height float64) error {
	return c.Clip(&svgdraw.Rect{X: x, Y: y, Width: width, Height: height})
}

// ResetClip disables clipping for the next draw calls.
func (c *Canvas) ResetClip() { c.current.clip = nil }

// DrawLine draws a segment.
func (c *Canvas) DrawLine(x1, y1, x2, y2 float64, paint *svgdraw.Paint, opts ...DrawOption) error {
	return c.Draw(&svgdraw.Line{X1: x1, Y1: y1, X2: x2, Y2: y2}, paint, opts...)
}

// DrawRect draws a rectangle.
func (c *Canvas) DrawRect(x, y, width, height float64, paint *svgdraw.Paint, opts ...DrawOption) error {
	return c.Draw(&svgdraw.Rect{X: x, Y: y, Width: width, Height: height}, paint, opts...)
}

// DrawRoundRect draws a rectangle with rounded corners.
func (c *Canvas) DrawRoundRect(x, y, width, height, rx, ry float64, paint *svgdraw.Paint, opts ...DrawOption) error {
	return c.Draw(&svgdraw.Rect{X: x, Y: y, Width: width, Height: height, RX: rx, RY: ry}, paint, opts...)
}

// DrawOval draws the ellipse inscribed in the given rectangle.
func (c *Canvas) DrawOval(x, y, width, height float64, paint *svgdraw.Paint, opts ...DrawOption) error {
	oval := &svgdraw.Oval{CX: x + width/2, CY: y + height/2, RX: width / 2, RY: height / 2}
	return c.Draw(oval, paint, opts...)
}

// DrawCircle draws a circle.
func (c *Canvas) DrawCircle(cx, cy, r float64, paint *svgdraw.Paint, opts ...DrawOption) error {
	return c.Draw(&svgdraw.Circle{CX: cx, CY: cy, R: r}, paint, opts...)
}

// DrawPolygon draws a closed polygon, which requires
// at least 3 points.
func (c *Canvas) DrawPolygon(points []svgdraw.Point, paint *svgdraw.Paint, opts ...DrawOption) error {
	if len(points) < 3 {
		return fmt.Errorf("%w: polygon with %d points", svgdraw.ErrTooFewPoints, len(points))
	}
	poly := &svgdraw.Polygon{Points: append([]svgdraw.Point(nil), points...)}
	return c.Draw(poly, paint, opts...)
}

// DrawPolyline draws an open polyline, which requires
// at least 2 points.
func (c *Canvas) DrawPolyline(points []svgdraw.Point, paint *svgdraw.Paint, opts ...DrawOption) error {
	if len(points) < 2 {
		return fmt.Errorf("%w: polyline with %d points", svgdraw.ErrTooFewPoints, len(points))
	}
	poly := &svgdraw.Polyline{Points: append([]svgdraw.Point(nil), points...)}
	return c.Draw(poly, paint, opts...)
}

// DrawPath draws a free form path.
func (c *Canvas) DrawPath(p svgpath.Path, paint *svgdraw.Paint, opts ...DrawOption) error {
	return c.Draw(&svgdraw.Path{Path: p.Clone()}, paint, opts...)
}

// DrawText draws text, along its path if set.
func (c *Canvas) DrawText(t *svgdraw.TextPath, paint *svgdraw.Paint, opts ...DrawOption) error {
	if paint == nil {
		paint = svgdraw.NewPaint(svgdraw.Fill)
	}
	return c.Draw(t, paint, opts...)
}

// DrawGroup draws the shapes of g in a "g" element carrying
// the paint, transform and clip.
func (c *Canvas) DrawGroup(g *svgdraw.Group, paint *svgdraw.Paint, opts ...DrawOption) error {
	Logger().Debug("drawing group", slog.Int("children", len(g.Children)))
	return c.Draw(g, paint, opts...)
}
