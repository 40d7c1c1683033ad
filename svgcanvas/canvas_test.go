package svgcanvas

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/benoitkugler/svgwriter/svgdraw"
	"github.com/benoitkugler/svgwriter/svgnum"
	"github.com/benoitkugler/svgwriter/svgpath"
	"github.com/benoitkugler/svgwriter/svgxml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f64"
)

func attrNames(e *svgxml.Element) []string {
	out := make([]string, len(e.Attrs))
	for i, a := range e.Attrs {
		out[i] = a.Name
	}
	return out
}

func get(t *testing.T, e *svgxml.Element, name string) string {
	t.Helper()
	v, ok := e.Get(name)
	require.True(t, ok, "missing attribute %s on %s", name, e.Tag)
	return v
}

func TestRegisterID(t *testing.T) {
	c := New(10, 10)
	require.NoError(t, c.RegisterID("a"))
	require.NoError(t, c.RegisterID("b"))
	err := c.RegisterID("a")
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.True(t, c.IsRegistered("b"))
	assert.False(t, c.IsRegistered("c"))
}

func TestSaveRestore(t *testing.T) {
	c := New(10, 10)
	assert.ErrorIs(t, c.Restore(), ErrUnbalancedRestore)

	c.Translate(1, 2)
	require.NoError(t, c.ClipRect(0, 0, 5, 5))
	clip := c.ClipID()
	c.Save()
	c.Scale(2, 2)
	c.ResetClip()
	assert.Equal(t, svgpath.Matrix2D{A: 2, D: 2, E: 1, F: 2}, c.Transform())
	assert.Equal(t, 1, c.Depth())

	require.NoError(t, c.Restore())
	assert.Equal(t, svgpath.Identity.Translate(1, 2), c.Transform())
	assert.Equal(t, clip, c.ClipID())
	assert.Equal(t, 0, c.Depth())

	assert.ErrorIs(t, c.Restore(), ErrUnbalancedRestore)
	assert.Equal(t, clip, c.ClipID())

	c.ResetTransform()
	assert.True(t, c.Transform().IsIdentity())

	c.SetAff3(f64.Aff3{1, 0, 5, 0, 1, 6})
	assert.Equal(t, svgpath.Matrix2D{A: 1, D: 1, E: 5, F: 6}, c.Transform())
}

func TestDrawAttributeOrder(t *testing.T) {
	c := New(100, 100)
	c.Translate(10, 20)
	require.NoError(t, c.ClipRect(0, 0, 50, 50))
	paint := svgdraw.NewPaint(svgdraw.FillAndStroke)
	paint.Gradient = &svgdraw.LinearGradient{X2: 1}
	paint.Filter = svgdraw.NewGaussianBlurFilter(2, 2)
	require.NoError(t, c.DrawRect(1, 2, 3, 4, paint, WithID("r1")))

	require.Len(t, c.Elements(), 1)
	e := c.Elements()[0]
	if diff := cmp.Diff([]string{"x", "y", "width", "height", "style", "filter", "id", "transform", "clip-path"}, attrNames(e)); diff != "" {
		t.Errorf("attributes (-want +got):\n%s", diff)
	}
	assert.Equal(t, "matrix(1,0,0,1,10,20)", get(t, e, "transform"))
	assert.Equal(t, "url(#clip-0)", get(t, e, "clip-path"))
	assert.Equal(t, "url(#flt0)", get(t, e, "filter"))
	assert.Contains(t, get(t, e, "style"), "fill:url(#gp0)")

	// the element transform already maps the clip path
	defs := c.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "clipPath", defs[0].Tag)
	_, hasTransform := defs[0].Get("transform")
	assert.False(t, hasTransform)
	assert.Equal(t, "clip-0", get(t, defs[0], "id"))
	assert.Equal(t, "gp0", get(t, defs[1], "id"))
	assert.Equal(t, "flt0", get(t, defs[2], "id"))
}

// clipCorners maps the corners of the rectangle clipped by def
// to the canvas, for an element drawn with transform tr.
func clipCorners(t *testing.T, def *svgxml.Element, tr svgpath.Matrix2D) [2][2]float64 {
	t.Helper()
	composed := svgpath.Identity
	if v, ok := def.Get("transform"); ok {
		var err error
		composed, err = svgpath.ParseTransform(v)
		require.NoError(t, err)
	}
	require.Len(t, def.Children, 1)
	rect := def.Children[0]
	var xywh [4]float64
	for i, name := range []string{"x", "y", "width", "height"} {
		v, err := strconv.ParseFloat(get(t, rect, name), 64)
		require.NoError(t, err)
		xywh[i] = v
	}
	m := tr.Mult(composed)
	x0, y0 := m.Transform(xywh[0], xywh[1])
	x1, y1 := m.Transform(xywh[0]+xywh[2], xywh[1]+xywh[3])
	return [2][2]float64{{x0, y0}, {x1, y1}}
}

func findDef(t *testing.T, c *Canvas, id string) *svgxml.Element {
	t.Helper()
	for _, d := range c.Definitions() {
		if v, _ := d.Get("id"); v == id {
			return d
		}
	}
	t.Fatalf("missing definition %s", id)
	return nil
}

func TestClipFollowsTransform(t *testing.T) {
	clipRef := func(e *svgxml.Element) string {
		return strings.TrimSuffix(strings.TrimPrefix(get(t, e, "clip-path"), "url(#"), ")")
	}

	// transform changed after clipping
	c := New(100, 100)
	c.Translate(10, 20)
	require.NoError(t, c.ClipRect(0, 0, 50, 50))
	c.Scale(2, 2)
	require.NoError(t, c.DrawRect(0, 0, 25, 25, nil))
	e := c.Elements()[0]
	tr, err := svgpath.ParseTransform(get(t, e, "transform"))
	require.NoError(t, err)
	id := clipRef(e)
	assert.Equal(t, "clip-1", id)
	def := findDef(t, c, id)
	assert.Equal(t, "matrix(0.5,0,0,0.5,0,0)", get(t, def, "transform"))
	// the clip covers the canvas region of the drawn rectangle
	want := [2][2]float64{{10, 20}, {60, 70}}
	assert.Equal(t, want, clipCorners(t, def, tr))
	x0, y0 := tr.Transform(0, 0)
	x1, y1 := tr.Transform(25, 25)
	assert.Equal(t, want, [2][2]float64{{x0, y0}, {x1, y1}})

	// same transform: the derived definition is shared
	require.NoError(t, c.DrawCircle(1, 1, 1, nil))
	assert.Equal(t, "clip-1", clipRef(c.Elements()[1]))
	assert.Len(t, c.Definitions(), 2)

	// back to the clipping transform
	c.ResetTransform()
	c.Translate(10, 20)
	require.NoError(t, c.DrawLine(0, 0, 1, 1, nil))
	assert.Equal(t, "clip-0", clipRef(c.Elements()[2]))

	// translation added after clipping
	c = New(100, 100)
	require.NoError(t, c.ClipRect(0, 0, 50, 50))
	c.Translate(5, 5)
	require.NoError(t, c.DrawRect(-5, -5, 50, 50, nil))
	e = c.Elements()[0]
	assert.Equal(t, "matrix(1,0,0,1,5,5)", get(t, e, "transform"))
	def = findDef(t, c, clipRef(e))
	assert.Equal(t, "matrix(1,0,0,1,-5,-5)", get(t, def, "transform"))
	assert.Equal(t, [2][2]float64{{0, 0}, {50, 50}}, clipCorners(t, def, c.Transform()))

	// a singular transform cannot carry a clip
	before := c.String()
	c.Scale(0, 1)
	err = c.DrawRect(0, 0, 1, 1, nil)
	assert.ErrorIs(t, err, ErrNotInvertible)
	assert.Equal(t, before, c.String())
	c.ResetClip()
	require.NoError(t, c.DrawRect(0, 0, 1, 1, nil))
}

func TestDrawNoTransform(t *testing.T) {
	c := New(10, 10)
	require.NoError(t, c.DrawLine(0, 0, 1, 1, nil))
	e := c.Elements()[0]
	assert.Equal(t, []string{"x1", "y1", "x2", "y2", "style"}, attrNames(e))
	assert.Equal(t, "stroke-width:1;stroke:rgb(0,0,0);stroke-opacity:1;fill-opacity:0.0", get(t, e, "style"))
}

func TestDuplicateIDLeavesDocumentUnchanged(t *testing.T) {
	c := New(10, 10)
	require.NoError(t, c.DrawCircle(1, 1, 1, nil, WithID("dup")))
	before := c.String()

	paint := svgdraw.NewPaint(svgdraw.Fill)
	paint.Gradient = &svgdraw.RadialGradient{R: 0.5}
	var p svgpath.Path
	p.MoveTo(0, 0, false)
	p.LineTo(5, 0, false)
	text := &svgdraw.TextPath{Text: "t", Path: p}
	group := &svgdraw.Group{Children: []svgdraw.Shape{text}}
	err := c.DrawGroup(group, paint, WithID("dup"))
	assert.ErrorIs(t, err, ErrDuplicateID)

	assert.Equal(t, before, c.String())
	assert.Len(t, c.Elements(), 1)
	assert.Empty(t, c.Definitions())

	// the ids released by the failed call are available again
	require.NoError(t, c.DrawGroup(group, paint, WithID("g")))
	defs := c.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "tp0", get(t, defs[0], "id"))
	assert.Equal(t, "gp0", get(t, defs[1], "id"))
}

func TestNotFiniteLeavesDocumentUnchanged(t *testing.T) {
	c := New(10, 10)
	paint := svgdraw.NewPaint(svgdraw.Fill)
	paint.Gradient = &svgdraw.LinearGradient{X2: 1}
	err := c.DrawRect(0, 0, math.NaN(), 1, paint)
	assert.ErrorIs(t, err, svgnum.ErrNotFinite)

	c.Translate(math.Inf(1), 0)
	err = c.DrawRect(0, 0, 1, 1, paint)
	assert.ErrorIs(t, err, svgnum.ErrNotFinite)
	assert.Empty(t, c.Elements())
	assert.Empty(t, c.Definitions())
}

func TestDefinitionsDeduplicated(t *testing.T) {
	c := New(10, 10)
	for i := 0; i < 3; i++ {
		paint := svgdraw.NewPaint(svgdraw.Fill)
		g := &svgdraw.LinearGradient{X2: 1}
		g.AddStop(0, 0xffff0000)
		paint.Gradient = g
		require.NoError(t, c.DrawRect(0, 0, 1, 1, paint))
	}
	other := svgdraw.NewPaint(svgdraw.Fill)
	other.Gradient = &svgdraw.LinearGradient{X2: 2}
	require.NoError(t, c.DrawRect(0, 0, 1, 1, other))

	defs := c.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "gp0", get(t, defs[0], "id"))
	assert.Equal(t, "gp1", get(t, defs[1], "id"))

	require.NoError(t, c.ClipRect(0, 0, 1, 1))
	first := c.ClipID()
	c.Save()
	require.NoError(t, c.ClipRect(0, 0, 1, 1))
	assert.Equal(t, first, c.ClipID())
	c.Scale(2, 2)
	require.NoError(t, c.ClipRect(0, 0, 1, 1))
	assert.Equal(t, first, c.ClipID())
	require.NoError(t, c.ClipRect(0, 0, 2, 1))
	assert.NotEqual(t, first, c.ClipID())
	require.NoError(t, c.Restore())
	assert.Equal(t, first, c.ClipID())
}

func TestGeneratedIDsSkipUsedOnes(t *testing.T) {
	c := New(10, 10, WithDefsPrefix("p-"))
	require.NoError(t, c.RegisterID("p-gp0"))
	id, err := c.DefineGradient(&svgdraw.LinearGradient{X2: 1})
	require.NoError(t, err)
	assert.Equal(t, "p-gp1", id)

	id, err = c.DefineFilter(&svgdraw.Filter{ID: "shadow"})
	require.NoError(t, err)
	assert.Equal(t, "shadow", id)
	id, err = c.DefineFilter(&svgdraw.Filter{ID: "shadow"})
	require.NoError(t, err)
	assert.Equal(t, "shadow", id)
	_, err = c.DefineFilter(&svgdraw.Filter{ID: "shadow", Width: 1})
	assert.ErrorIs(t, err, ErrDuplicateID)

	require.NoError(t, c.ClipRect(0, 0, 1, 1))
	assert.Equal(t, "clip-p-0", c.ClipID())
}

func TestPolygonPoints(t *testing.T) {
	c := New(10, 10)
	err := c.DrawPolygon([]svgdraw.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, nil)
	assert.ErrorIs(t, err, svgdraw.ErrTooFewPoints)
	err = c.DrawPolyline([]svgdraw.Point{{X: 0, Y: 0}}, nil)
	assert.ErrorIs(t, err, svgdraw.ErrTooFewPoints)

	pts := []svgdraw.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	require.NoError(t, c.DrawPolygon(pts, nil))
	pts[0].X = 5
	assert.Equal(t, " 0,0 1,1 2,0", get(t, c.Elements()[0], "points"))
}

func TestFormatters(t *testing.T) {
	one, err := svgnum.NewFixed(1, svgnum.KeepOneZero)
	require.NoError(t, err)
	three, err := svgnum.NewFixed(3, svgnum.TrimZeros)
	require.NoError(t, err)
	c := New(10, 10, WithGeometryFormatter(one), WithTransformFormatter(three))
	c.Rotate(math.Pi / 6)
	require.NoError(t, c.DrawRect(0, 1, 2, 3, svgdraw.NewPaint(svgdraw.Fill)))
	e := c.Elements()[0]
	assert.Equal(t, "0.0", get(t, e, "x"))
	assert.Equal(t, "matrix(0.866,0.5,-0.5,0.866,0,0)", get(t, e, "transform"))

	c.SetGeometryFormatter(svgnum.Shortest{})
	require.NoError(t, c.DrawRect(0, 1, 2, 3, svgdraw.NewPaint(svgdraw.Fill)))
	assert.Equal(t, "0", get(t, c.Elements()[1], "x"))
}

func TestFinalize(t *testing.T) {
	c := New(200, 100, WithUnit(svgdraw.Mm))
	require.NoError(t, c.Finalize(RootOptions{
		ID: "root", IncludeDimensions: true, ViewBox: &ViewBox{0, 0, 200, 100},
		AspectRatio: XMidYMid, MeetOrSlice: Slice,
	}))
	doc, err := c.Document()
	require.NoError(t, err)
	assert.Equal(t, []svgxml.Attr{
		{Name: "xmlns", Value: NamespaceSVG},
		{Name: "xmlns:xlink", Value: NamespaceXLink},
		{Name: "xmlns:jfreesvg", Value: NamespaceJFreeSVG},
		{Name: "id", Value: "root"},
		{Name: "width", Value: "200mm"},
		{Name: "height", Value: "100mm"},
		{Name: "viewBox", Value: "0 0 200 100"},
		{Name: "preserveAspectRatio", Value: "xMidYMid slice"},
	}, doc.Root.Attrs)

	// finalizing again replaces the attributes
	require.NoError(t, c.Finalize(RootOptions{AspectRatio: AspectNone}))
	doc, err = c.Document()
	require.NoError(t, err)
	assert.Equal(t, []string{"xmlns", "xmlns:xlink", "xmlns:jfreesvg", "preserveAspectRatio"}, attrNames(doc.Root))
	assert.False(t, c.IsRegistered("root"))

	require.NoError(t, c.RegisterID("taken"))
	err = c.Finalize(RootOptions{ID: "taken"})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, []string{"xmlns", "xmlns:xlink", "xmlns:jfreesvg", "preserveAspectRatio"}, attrNames(c.root))
}

func TestDocumentLayout(t *testing.T) {
	c := New(10, 10)
	paint := svgdraw.NewPaint(svgdraw.Fill)
	paint.Gradient = &svgdraw.LinearGradient{X2: 1}
	require.NoError(t, c.DrawRect(0, 0, 1, 1, paint))
	require.NoError(t, c.DrawCircle(0, 0, 1, nil))

	doc, err := c.Document()
	require.NoError(t, err)
	tags := make([]string, len(doc.Root.Children))
	for i, child := range doc.Root.Children {
		tags[i] = child.Tag
	}
	assert.Equal(t, []string{"rect", "circle", "defs"}, tags)

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`))
	assert.Contains(t, out, `<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.0//EN" "http://www.w3.org/TR/2001/REC-SVG-20010904/DTD/svg10.dtd">`)
	assert.Contains(t, out, `width="10px"`)
	assert.Equal(t, out, c.String())

	empty := New(1, 1)
	doc, err = empty.Document()
	require.NoError(t, err)
	assert.Empty(t, doc.Root.Children)
}

func TestTextOnPath(t *testing.T) {
	c := New(10, 10)
	var p svgpath.Path
	p.MoveTo(0, 5, false)
	p.LineTo(10, 5, false)
	font := svgdraw.NewFont("Serif")
	text := &svgdraw.TextPath{Text: "abc", Path: p, Style: svgdraw.TextStyle{Font: &font}}
	require.NoError(t, c.DrawText(text, nil))
	require.NoError(t, c.DrawText(text, nil))

	defs := c.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, `<path d="M 0 5 L 10 5 " id="tp0"></path>`, defs[0].String())
	e := c.Elements()[1]
	assert.Equal(t, "fill:rgb(0,0,0)", get(t, e, "style"))
	assert.Equal(t, "#tp0", get(t, e.Children[0], "xlink:href"))
}
