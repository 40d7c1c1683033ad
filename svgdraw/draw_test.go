package svgdraw

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"testing"

	"github.com/benoitkugler/svgwriter/svgnum"
	"github.com/benoitkugler/svgwriter/svgpath"
	"github.com/benoitkugler/svgwriter/svgxml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed1(t *testing.T) svgnum.Fixed {
	f, err := svgnum.NewFixed(1, svgnum.KeepOneZero)
	require.NoError(t, err)
	return f
}

// fakeContext records path definitions.
type fakeContext struct {
	ids   map[string]bool
	paths []svgpath.Path
}

func (c *fakeContext) RegisterID(id string) error {
	if c.ids == nil {
		c.ids = map[string]bool{}
	}
	if c.ids[id] {
		return fmt.Errorf("duplicate %s", id)
	}
	c.ids[id] = true
	return nil
}

func (c *fakeContext) DefinePath(p svgpath.Path) (string, error) {
	c.paths = append(c.paths, p)
	return fmt.Sprintf("tp%d", len(c.paths)-1), nil
}

func attrs(pairs ...string) []svgxml.Attr {
	var out []svgxml.Attr
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, svgxml.Attr{Name: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func TestRectScenario(t *testing.T) {
	r := &Rect{X: 0, Y: 1, Width: 2, Height: 3}
	e, err := r.Element(nil, fixed1(t))
	require.NoError(t, err)
	assert.Equal(t, "rect", e.Tag)
	assert.Equal(t, attrs("x", "0.0", "y", "1.0", "width", "2.0", "height", "3.0"), e.Attrs)

	r.RX, r.RY = 0.5, -1
	r.ClipRule = EvenOdd
	e, err = r.Element(nil, svgnum.Shortest{})
	require.NoError(t, err)
	assert.Equal(t, `<rect x="0" y="1" width="2" height="3" rx="0.5" clip-rule="evenodd"></rect>`, e.String())
}

func TestShapeTags(t *testing.T) {
	f := svgnum.Shortest{}
	for _, test := range []struct {
		shape Shape
		exp   string
	}{
		{&Circle{CX: 1, CY: 2, R: 3}, `<circle cx="1" cy="2" r="3"></circle>`},
		{&Oval{CX: 1, CY: 2, RX: 3, RY: 4}, `<ellipse cx="1" cy="2" rx="3" ry="4"></ellipse>`},
		{&Line{X1: 1, Y1: 2, X2: 3, Y2: 4}, `<line x1="1" y1="2" x2="3" y2="4"></line>`},
		{&Polygon{Points: []Point{{1, 2}, {3, 4}, {5, 6}}}, `<polygon points=" 1,2 3,4 5,6"></polygon>`},
		{&Polyline{}, `<polyline points=""></polyline>`},
		{&Circle{R: -2}, `<circle cx="0" cy="0" r="-2"></circle>`},
	} {
		e, err := test.shape.Element(nil, f)
		require.NoError(t, err)
		assert.Equal(t, test.exp, e.String())
	}
}

func TestPathElement(t *testing.T) {
	var p svgpath.Path
	p.MoveTo(0, 0, false)
	p.ArcTo(5, 5, 0, true, false, 10, 0, false)
	e, err := (&Path{Path: p}).Element(nil, fixed1(t))
	require.NoError(t, err)
	d, _ := e.Get("d")
	assert.Equal(t, "M 0.0 0.0 A 5.0 5.0 0.0 1 0 10.0 0.0 ", d)
}

func TestNotFinitePropagates(t *testing.T) {
	_, err := (&Circle{R: math.Inf(1)}).Element(nil, svgnum.Shortest{})
	assert.ErrorIs(t, err, svgnum.ErrNotFinite)

	_, err = (&Polygon{Points: []Point{{0, math.Inf(1)}}}).Element(nil, svgnum.Shortest{})
	assert.ErrorIs(t, err, svgnum.ErrNotFinite)
}

func TestGroupAndClip(t *testing.T) {
	g := new(Group)
	g.Add(&Rect{Width: 1, Height: 1}, &Circle{R: 1})
	e, err := g.Element(nil, svgnum.Shortest{})
	require.NoError(t, err)
	assert.Equal(t, "g", e.Tag)
	assert.Empty(t, e.Attrs)
	assert.Len(t, e.Children, 2)

	clip := NewClipShape(g)
	e, err = clip.Element(nil, svgnum.Shortest{})
	require.NoError(t, err)
	assert.Equal(t, `<clipPath clipPathUnits="userSpaceOnUse"><rect x="0" y="0" width="1" height="1"></rect><circle cx="0" cy="0" r="1"></circle></clipPath>`, e.String())

	clip = &ClipShape{Shape: &Circle{R: 1}, Units: BoundingBox}
	e, err = clip.Element(nil, svgnum.Shortest{})
	require.NoError(t, err)
	assert.Equal(t, `<clipPath clipPathUnits="objectBoundingBox"><circle cx="0" cy="0" r="1"></circle></clipPath>`, e.String())
}

func TestCloneDoesNotAlias(t *testing.T) {
	poly := &Polygon{Points: []Point{{1, 2}, {3, 4}, {5, 6}}}
	cp := poly.Clone().(*Polygon)
	cp.Points[0].X = 100
	assert.Equal(t, 1.0, poly.Points[0].X)

	inner := &Polyline{Points: []Point{{0, 0}, {1, 1}}}
	g := &Group{Children: []Shape{inner}}
	gc := g.Clone().(*Group)
	gc.Children[0].(*Polyline).Points[1].Y = 7
	gc.Add(&Circle{})
	assert.Equal(t, 1.0, inner.Points[1].Y)
	assert.Len(t, g.Children, 1)

	var p svgpath.Path
	p.MoveTo(1, 1, false)
	path := &Path{Path: p}
	pc := path.Clone().(*Path)
	pc.Path[0].Operands[0] = 9
	assert.Equal(t, 1.0, path.Path[0].Operands[0])

	font := NewFont("serif")
	text := &TextPath{Text: "a", Style: TextStyle{Font: &font}}
	tc := text.Clone().(*TextPath)
	tc.Style.Font.Size = 40
	assert.Equal(t, 16, text.Style.Font.Size)

	lin := &LinearGradient{X2: 1}
	lin.AddStop(0, 0xff000000)
	lc := lin.CloneGradient().(*LinearGradient)
	lc.Stops[0].Offset = 0.3
	assert.Equal(t, 0.0, lin.Stops[0].Offset)

	m := &ColorMatrix{Values: []float64{1, 2}}
	mc := m.CloneEffect().(*ColorMatrix)
	mc.Values[0] = 5
	assert.Equal(t, []float64{1, 2}, m.Values)
}

func TestTextPath(t *testing.T) {
	var p svgpath.Path
	p.MoveTo(0, 0, false)
	p.LineTo(10, 0, false)
	font := NewFont("Arial")
	font.Style = FontItalic
	font.Variant = VariantSmallCaps
	text := &TextPath{
		Text: "hello", X: 1, Y: 2, TextLength: 50, StartOffset: 3, Path: p,
		Style: TextStyle{
			Font: &font, FontSizeUnit: Pt, Align: AlignCenter, LetterSpacing: 1.5,
			Decoration: Underline, LengthAdjust: AdjustSpacingAndGlyphs,
		},
	}
	ctx := new(fakeContext)
	e, err := text.Element(ctx, svgnum.Shortest{})
	require.NoError(t, err)
	assert.Len(t, ctx.paths, 1)
	assert.Equal(t, attrs(
		"x", "1", "y", "2", "textLength", "50",
		"font-family", "Arial", "font-style", "italic", "font-weight", "normal", "font-variant", "small-caps",
		"font-size", "16pt", "text-anchor", "middle", "letter-spacing", "1.5", "text-decoration", "underline",
		"lengthAdjust", "spacingAndGlyphs",
	), e.Attrs)
	require.Len(t, e.Children, 1)
	assert.Equal(t, `<textPath xlink:href="#tp0" startOffset="3">hello</textPath>`, e.Children[0].String())

	_, err = text.Element(nil, svgnum.Shortest{})
	assert.Error(t, err)

	plain := &TextPath{Text: "a<b", X: 1, Y: 1, Style: TextStyle{LengthAdjust: AdjustSpacingAndGlyphs}}
	e, err = plain.Element(nil, svgnum.Shortest{})
	require.NoError(t, err)
	assert.Equal(t, `<text x="1" y="1">a&lt;b</text>`, e.String())
}

func TestGradients(t *testing.T) {
	f := svgnum.Shortest{}
	lin := &LinearGradient{X1: 0, Y1: 0, X2: 1, Y2: 0}
	lin.AddStop(0.5, 0xffff0000)
	lin.AddStop(0.75, 0x800000ff)
	e, err := lin.Element(f)
	require.NoError(t, err)
	assert.Equal(t, "linearGradient", e.Tag)
	_, ok := e.Get("spreadMethod")
	assert.False(t, ok)
	_, ok = e.Get("gradientUnits")
	assert.False(t, ok)
	require.Len(t, e.Children, 2)
	assert.Equal(t, `<stop offset="0.5" stop-color="rgb(255,0,0)"></stop>`, e.Children[0].String())
	half := strconv.FormatFloat(128.0/255, 'f', -1, 64)
	assert.Equal(t, `<stop offset="0.75" stop-color="rgb(0,0,255)" stop-opacity="`+half+`"></stop>`, e.Children[1].String())

	// stop opacities use the gradient formatter, like the offsets
	two, err := svgnum.NewFixed(2, svgnum.TrimZeros)
	require.NoError(t, err)
	e, err = lin.Element(two)
	require.NoError(t, err)
	assert.Equal(t, `<stop offset="0.75" stop-color="rgb(0,0,255)" stop-opacity="0.5"></stop>`, e.Children[1].String())

	lin.Spread = ReflectSpread
	lin.Units = UserSpace
	e, err = lin.Element(f)
	require.NoError(t, err)
	spread, _ := e.Get("spreadMethod")
	assert.Equal(t, "reflect", spread)
	units, _ := e.Get("gradientUnits")
	assert.Equal(t, "userSpaceOnUse", units)

	rad := &RadialGradient{CX: 0.5, CY: 0.5, R: 0.5, FX: 0.5, FY: 0.5}
	e, err = rad.Element(fixed1(t))
	require.NoError(t, err)
	assert.Equal(t, `<radialGradient cx="0.5" cy="0.5" r="0.5" fx="0.5" fy="0.5" fr="0.0"></radialGradient>`, e.String())
}

func TestFilterScenarios(t *testing.T) {
	f := fixed1(t)
	blur := &GaussianBlur{StdDeviationX: 0.5, StdDeviationY: 0.5}
	e, err := blur.Element(f)
	require.NoError(t, err)
	assert.Equal(t, `<feGaussianBlur stdDeviation="0.5,0.5"></feGaussianBlur>`, e.String())

	conv := &ConvolveMatrix{Order: 3, Kernel: []float64{0, 1, 0, 1, 1, 1, 0, 1, 0}}
	e, err = conv.Element(svgnum.Shortest{})
	require.NoError(t, err)
	assert.Equal(t, `<feConvolveMatrix kernelMatrix="0 1 0 1 1 1 0 1 0"></feConvolveMatrix>`, e.String())

	conv.Order = 4
	e, err = conv.Element(svgnum.Shortest{})
	require.NoError(t, err)
	order, ok := e.Get("order")
	assert.True(t, ok)
	assert.Equal(t, "4", order)

	conv = &ConvolveMatrix{
		Kernel: []float64{1}, Divisor: 2, Bias: 0.5, TargetX: 1, TargetY: 2,
		EdgeMode: EdgeWrap, KernelUnitLengthX: 1, KernelUnitLengthY: 1, PreserveAlpha: true,
		EffectBase: EffectBase{In: SourceAlpha, Result: "conv"},
	}
	e, err = conv.Element(svgnum.Shortest{})
	require.NoError(t, err)
	assert.Equal(t, attrs(
		"kernelMatrix", "1", "divisor", "2", "bias", "0.5", "targetX", "1", "targetY", "2",
		"edgeMode", "wrap", "kernelUnitLength", "1", "preserveAlpha", "true", "in", "SourceAlpha", "result", "conv",
	), e.Attrs)

	conv.KernelUnitLengthY = 2
	e, err = conv.Element(svgnum.Shortest{})
	require.NoError(t, err)
	klu, _ := e.Get("kernelUnitLength")
	assert.Equal(t, "1 2", klu)
}

func TestEffectDefaults(t *testing.T) {
	f := svgnum.Shortest{}
	for _, test := range []struct {
		effect Effect
		exp    string
	}{
		{&Offset{DX: 1, DY: -1}, `<feOffset dx="1" dy="-1"></feOffset>`},
		{&ColorMatrix{Values: []float64{0.5, 1}}, `<feColorMatrix value="0.5 1"></feColorMatrix>`},
		{&ColorMatrix{Type: Saturate, Values: []float64{0.2}}, `<feColorMatrix value="0.2" type="saturate"></feColorMatrix>`},
		{&Blend{In2: "b"}, `<feBlend in2="b"></feBlend>`},
		{&Blend{In2: "b", Mode: BlendMultiply}, `<feBlend in2="b" mode="multiply"></feBlend>`},
		{&Composite{In2: "b"}, `<feComposite in2="b" operator="over"></feComposite>`},
		{
			&Composite{In2: "b", Operator: CompositeArithmetic, K1: 1, K4: 0.5},
			`<feComposite in2="b" operator="arithmetic" k1="1" k2="0" k3="0" k4="0.5"></feComposite>`,
		},
		{
			&Merge{Inputs: []string{"blur", SourceGraphic}},
			`<feMerge><feMergeNode in="blur"></feMergeNode><feMergeNode in="SourceGraphic"></feMergeNode></feMerge>`,
		},
	} {
		e, err := test.effect.Element(f)
		require.NoError(t, err)
		assert.Equal(t, test.exp, e.String())
	}
}

func TestFilterElement(t *testing.T) {
	fl := NewDropShadowFilter(2, 2, 1)
	e, err := fl.Element(svgnum.Shortest{})
	require.NoError(t, err)
	assert.Equal(t, attrs("x", "0", "y", "0", "width", "0", "height", "0", "filterUnits", "objectBoundingBox"), e.Attrs)
	tags := make([]string, len(e.Children))
	for i, c := range e.Children {
		tags[i] = c.Tag
	}
	if diff := cmp.Diff([]string{"feOffset", "feGaussianBlur", "feMerge"}, tags); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}

	cp := fl.Clone()
	cp.Effects[0].(*Offset).DX = 10
	assert.Equal(t, 2.0, fl.Effects[0].(*Offset).DX)
}

func TestStyleString(t *testing.T) {
	f := fixed1(t)
	p := NewPaint(Stroke)
	p.StrokeWidth = 2
	p.Color = 0xffff0000
	s, err := p.StyleString(f, "")
	require.NoError(t, err)
	assert.Equal(t, "stroke-width:2.0;stroke:rgb(255,0,0);stroke-opacity:1.0;fill-opacity:0.0", s)

	p.Cap, p.Join, p.MiterLimit, p.DashArray = RoundCap, BevelJoin, 10, []float64{1, 2}
	s, err = p.StyleString(f, "")
	require.NoError(t, err)
	assert.Equal(t, "stroke-width:2.0;stroke:rgb(255,0,0);stroke-opacity:1.0;stroke-linecap:round;"+
		"stroke-linejoin:bevel;stroke-miterlimit:10.0;stroke-dasharray:1.0,2.0;fill-opacity:0.0", s)

	p = NewPaint(Stroke)
	p.MiterLimit = 4.0005
	p.StrokeWidth = -3
	s, err = p.StyleString(svgnum.Shortest{}, "")
	require.NoError(t, err)
	assert.Equal(t, "stroke-width:1;stroke:rgb(0,0,0);stroke-opacity:1;fill-opacity:0.0", s)

	p = NewPaint(Fill)
	p.Color = 0x8000ff00
	s, err = p.StyleString(f, "")
	require.NoError(t, err)
	assert.Equal(t, "fill:rgb(0,255,0);fill-opacity:0.5", s)

	p.Style = FillAndStroke
	p.Color = 0xff0000ff
	p.FillRule = EvenOdd
	s, err = p.StyleString(f, "")
	require.NoError(t, err)
	assert.Equal(t, "stroke-width:1.0;stroke:rgb(0,0,255);stroke-opacity:1.0;fill:rgb(0,0,255);fill-rule:evenodd", s)
}

func TestStyleGradient(t *testing.T) {
	p := NewPaint(FillAndStroke)
	p.Color = 0x40112233
	p.Gradient = &LinearGradient{X2: 1}
	s, err := p.StyleString(svgnum.Shortest{}, "gp0")
	require.NoError(t, err)
	quarter := strconv.FormatFloat(64.0/255, 'f', -1, 64)
	assert.Equal(t, "stroke-width:1;stroke:rgb(17,34,51);stroke-opacity:"+quarter+";fill:url(#gp0)", s)

	p.UseGradientStroke = true
	s, err = p.StyleString(svgnum.Shortest{}, "gp0")
	require.NoError(t, err)
	assert.Equal(t, "stroke-width:1;stroke:url(#gp0);stroke-opacity:1;fill:url(#gp0)", s)

	cp := p.Clone()
	cp.Gradient.(*LinearGradient).X2 = 5
	assert.Equal(t, 1.0, p.Gradient.(*LinearGradient).X2)
}

func TestColors(t *testing.T) {
	assert.Equal(t, "rgb(18,52,86)", RGB(0xff123456))
	assert.Equal(t, uint8(0x7f), Alpha(0x7f000000))
	assert.Equal(t, uint32(0xff0a141e), ARGB(color.RGBA{10, 20, 30, 255}))
	assert.Equal(t, uint32(0x80ff0000), ARGB(color.RGBA{128, 0, 0, 128}))
}
