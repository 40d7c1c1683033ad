// Package svgcanvas implements the stateful drawing context turning
// a sequence of draw calls into an SVG document.
//
// A Canvas owns the element tree, the set of used ids, the
// transform and clip stacks, and the formatters used for geometry
// and transform attributes. It is not safe for concurrent use.
package svgcanvas

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/benoitkugler/svgwriter/svgdraw"
	"github.com/benoitkugler/svgwriter/svgnum"
	"github.com/benoitkugler/svgwriter/svgpath"
	"github.com/benoitkugler/svgwriter/svgxml"
	"golang.org/x/image/math/f64"
)

var (
	// ErrDuplicateID is returned when registering an id already in use.
	ErrDuplicateID = errors.New("svgcanvas: duplicate id")
	// ErrUnbalancedRestore is returned by Restore when no state is saved.
	ErrUnbalancedRestore = errors.New("svgcanvas: restore without matching save")
	// ErrNotInvertible is returned when drawing a clipped shape under
	// a singular transform.
	ErrNotInvertible = errors.New("svgcanvas: transform is not invertible")
)

// Namespaces declared on the root element.
const (
	NamespaceSVG      = "http://www.w3.org/2000/svg"
	NamespaceXLink    = "http://www.w3.org/1999/xlink"
	NamespaceJFreeSVG = "http://www.jfree.org/jfreesvg/svg"
)

// state is what Save pushes and Restore pops.
type state struct {
	transform svgpath.Matrix2D
	clip      *activeClip // nil when not clipping
}

// activeClip is a clip path registered by Clip.
type activeClip struct {
	id        string           // definition used under transform
	element   *svgxml.Element  // clipPath, without id
	transform svgpath.Matrix2D // active when clipping
}

// Canvas accumulates drawn elements and their definitions.
// Use New to create one.
type Canvas struct {
	width, height float64
	unit          svgdraw.Unit

	geometry  svgnum.Formatter
	transform svgnum.Formatter
	prefix    string

	current state
	stack   []state

	ids     map[string]struct{}
	defKeys map[string]string // markup -> id
	defs    []*svgxml.Element
	body    []*svgxml.Element

	counters struct{ gradient, clip, filter, textPath int }
	tx       *transaction

	root      *svgxml.Element
	finalized bool
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithUnit sets the unit of the root width and height.
func WithUnit(u svgdraw.Unit) Option { return func(c *Canvas) { c.unit = u } }

// WithGeometryFormatter sets the formatter used for shape, paint
// and definition attributes. The default is svgnum.Shortest.
func WithGeometryFormatter(f svgnum.Formatter) Option {
	return func(c *Canvas) { c.geometry = f }
}

// WithTransformFormatter sets the formatter used for "transform"
// matrices. The default is svgnum.Shortest.
func WithTransformFormatter(f svgnum.Formatter) Option {
	return func(c *Canvas) { c.transform = f }
}

// WithDefsPrefix sets the prefix of the generated definition ids,
// which is useful when several documents are merged.
func WithDefsPrefix(prefix string) Option { return func(c *Canvas) { c.prefix = prefix } }

// New returns an empty canvas of the given size.
func New(width, height float64, opts ...Option) *Canvas {
	c := &Canvas{
		width:     width,
		height:    height,
		geometry:  svgnum.Shortest{},
		transform: svgnum.Shortest{},
		current:   state{transform: svgpath.Identity},
		ids:       make(map[string]struct{}),
		defKeys:   make(map[string]string),
		root:      svgxml.NewElement("svg"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Width returns the width of the canvas.
func (c *Canvas) Width() float64 { return c.width }

// Height returns the height of the canvas.
func (c *Canvas) Height() float64 { return c.height }

// Unit returns the unit of the canvas dimensions.
func (c *Canvas) Unit() svgdraw.Unit { return c.unit }

// GeometryFormatter returns the formatter used for geometry.
func (c *Canvas) GeometryFormatter() svgnum.Formatter { return c.geometry }

// SetGeometryFormatter changes the formatter used by the next draw calls.
func (c *Canvas) SetGeometryFormatter(f svgnum.Formatter) { c.geometry = f }

// TransformFormatter returns the formatter used for transforms.
func (c *Canvas) TransformFormatter() svgnum.Formatter { return c.transform }

// SetTransformFormatter changes the formatter used by the next draw calls.
func (c *Canvas) SetTransformFormatter(f svgnum.Formatter) { c.transform = f }

// Save pushes the current transform and clip.
func (c *Canvas) Save() {
	c.stack = append(c.stack, c.current)
}

// Restore pops the state pushed by the last Save. It returns
// ErrUnbalancedRestore, leaving the canvas unchanged, if the
// stack is empty.
func (c *Canvas) Restore() error {
	if len(c.stack) == 0 {
		return ErrUnbalancedRestore
	}
	c.current = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

// Depth returns the number of saved states.
func (c *Canvas) Depth() int { return len(c.stack) }

// Transform returns the current transform.
func (c *Canvas) Transform() svgpath.Matrix2D { return c.current.transform }

// SetTransform replaces the current transform.
func (c *Canvas) SetTransform(m svgpath.Matrix2D) { c.current.transform = m }

// ResetTransform sets the current transform to the identity.
func (c *Canvas) ResetTransform() { c.current.transform = svgpath.Identity }

// SetAff3 replaces the current transform by m.
func (c *Canvas) SetAff3(m f64.Aff3) { c.current.transform = svgpath.FromAff3(m) }

// Concat composes m onto the current transform: m is
// applied first.
func (c *Canvas) Concat(m svgpath.Matrix2D) {
	c.current.transform = c.current.transform.Mult(m)
}

// Translate composes a translation onto the current transform.
func (c *Canvas) Translate(tx, ty float64) {
	c.current.transform = c.current.transform.Translate(tx, ty)
}

// Scale composes a scaling onto the current transform.
func (c *Canvas) Scale(sx, sy float64) {
	c.current.transform = c.current.transform.Scale(sx, sy)
}

// Rotate composes a rotation (in radians) onto the current transform.
func (c *Canvas) Rotate(theta float64) {
	c.current.transform = c.current.transform.Rotate(theta)
}

// RotateAround composes a rotation (in radians) around (x, y).
func (c *Canvas) RotateAround(theta, x, y float64) {
	c.current.transform = c.current.transform.Translate(x, y).Rotate(theta).Translate(-x, -y)
}

// Shear composes a shear onto the current transform.
func (c *Canvas) Shear(shx, shy float64) {
	c.current.transform = c.current.transform.Shear(shx, shy)
}

// RotateDegrees is a convenience for Rotate with an angle in degrees.
func (c *Canvas) RotateDegrees(deg float64) { c.Rotate(deg * math.Pi / 180) }

// ClipID returns the id of the definition registered by the last
// Clip call still active, or an empty string. Shapes drawn under a
// different transform may reference a derived definition.
func (c *Canvas) ClipID() string {
	if c.current.clip == nil {
		return ""
	}
	return c.current.clip.id
}

// RegisterID reserves id for the document. It returns ErrDuplicateID
// if id is already used. Ids are never renamed.
func (c *Canvas) RegisterID(id string) error {
	if _, used := c.ids[id]; used {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	c.ids[id] = struct{}{}
	if c.tx != nil {
		c.tx.ids = append(c.tx.ids, id)
	}
	return nil
}

// IsRegistered returns true if id is used in the document.
func (c *Canvas) IsRegistered(id string) bool {
	_, ok := c.ids[id]
	return ok
}

// nextID returns the first unused id built from the counter.
func (c *Canvas) nextID(counter *int, format func(n int) string) string {
	for {
		id := format(*counter)
		*counter++
		if !c.IsRegistered(id) {
			return id
		}
	}
}

// define adds e to the definitions, reusing the id of an equal
// definition. When id is empty, one is generated with gen.
func (c *Canvas) define(kind string, e *svgxml.Element, id string, gen func() string) (string, error) {
	if id != "" {
		e.Set("id", id)
	}
	key := e.String()
	if existing, ok := c.defKeys[key]; ok {
		Logger().Debug("reusing definition", slog.String("kind", kind), slog.String("id", existing))
		return existing, nil
	}
	if id == "" {
		id = gen()
		e.Set("id", id)
	}
	if err := c.RegisterID(id); err != nil {
		return "", err
	}
	c.defKeys[key] = id
	c.defs = append(c.defs, e)
	if c.tx != nil {
		c.tx.defKeys = append(c.tx.defKeys, key)
	}
	Logger().Debug("new definition", slog.String("kind", kind), slog.String("id", id))
	return id, nil
}

// DefinePath registers p as a path definition, returning its id.
// Text paths reference their baseline this way.
func (c *Canvas) DefinePath(p svgpath.Path) (string, error) {
	d, err := p.Encode(c.geometry)
	if err != nil {
		return "", err
	}
	e := svgxml.NewElement("path")
	e.Set("d", d)
	return c.define("path", e, "", func() string {
		return c.nextID(&c.counters.textPath, func(n int) string { return fmt.Sprintf("%stp%d", c.prefix, n) })
	})
}

// DefineGradient registers g, returning its id. Equal gradients
// share the same id.
func (c *Canvas) DefineGradient(g svgdraw.Gradient) (string, error) {
	e, err := g.Element(c.geometry)
	if err != nil {
		return "", err
	}
	return c.define("gradient", e, "", func() string {
		return c.nextID(&c.counters.gradient, func(n int) string { return fmt.Sprintf("%sgp%d", c.prefix, n) })
	})
}

// DefineFilter registers fl, returning its id, which is fl.ID
// when set.
func (c *Canvas) DefineFilter(fl *svgdraw.Filter) (string, error) {
	e, err := fl.Element(c.geometry)
	if err != nil {
		return "", err
	}
	return c.define("filter", e, fl.ID, func() string {
		return c.nextID(&c.counters.filter, func(n int) string { return fmt.Sprintf("%sflt%d", c.prefix, n) })
	})
}

// Definitions returns the definition elements, in creation order.
func (c *Canvas) Definitions() []*svgxml.Element { return c.defs }

// Elements returns the drawn elements, in drawing order.
func (c *Canvas) Elements() []*svgxml.Element { return c.body }

// Document returns the document, finalizing the root with the
// default options if Finalize has not been called.
// The returned tree shares its elements with the canvas.
func (c *Canvas) Document() (*svgxml.Document, error) {
	if !c.finalized {
		if err := c.Finalize(RootOptions{IncludeDimensions: true}); err != nil {
			return nil, err
		}
	}
	root := &svgxml.Element{Tag: c.root.Tag, Attrs: c.root.Attrs}
	root.Children = append(root.Children, c.body...)
	if len(c.defs) != 0 {
		defs := svgxml.NewElement("defs")
		defs.Append(c.defs...)
		root.Append(defs)
	}
	return &svgxml.Document{Root: root}, nil
}

// WriteTo serializes the document to w.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	doc, err := c.Document()
	if err != nil {
		return 0, err
	}
	return doc.WriteTo(w)
}

// String returns the serialized document, or an XML comment
// describing the error.
func (c *Canvas) String() string {
	doc, err := c.Document()
	if err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	b, err := doc.Bytes()
	if err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	return string(b)
}
