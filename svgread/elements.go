package svgread

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/benoitkugler/svgwriter/svgdraw"
	"github.com/benoitkugler/svgwriter/svgpath"
)

type svgFunc func(c *cursor, e *Element) error

var drawFuncs = map[string]svgFunc{
	"svg":            svgF,
	"g":              noopF,
	"defs":           noopF,
	"title":          noopF,
	"desc":           noopF,
	"line":           lineF,
	"rect":           rectF,
	"circle":         circleF,
	"ellipse":        ellipseF,
	"polyline":       polylineF,
	"polygon":        polygonF,
	"path":           pathF,
	"text":           noopF, // decoded when closed
	"textPath":       noopF,
	"clipPath":       noopF,
	"linearGradient": noopF, // decoded when closed
	"radialGradient": noopF,
	"stop":           noopF,
	"filter":         noopF,
}

func init() {
	for _, fe := range [...]string{
		"feGaussianBlur", "feOffset", "feColorMatrix", "feConvolveMatrix",
		"feMerge", "feMergeNode", "feBlend", "feComposite",
	} {
		drawFuncs[fe] = noopF
	}
}

func noopF(*cursor, *Element) error { return nil }

// parseFloat parses a number, accepting a trailing unit.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	end := len(s)
	for end > 0 && (s[end-1] >= 'a' && s[end-1] <= 'z' || s[end-1] == '%') {
		end--
	}
	if end == 0 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return strconv.ParseFloat(s[:end], 64)
}

// readFraction parses a number or a percentage.
func readFraction(v string) (float64, error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err := strconv.ParseFloat(v, 64)
	return f / d, err
}

// readFloats parses the attributes with the given names, in order,
// leaving missing ones to zero.
func readFloats(e *Element, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v := e.Get(name)
		if v == "" {
			continue
		}
		var err error
		out[i], err = parseFloat(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
	}
	return out, nil
}

// parseURL returns the id of a "url(#id)" reference.
func parseURL(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	v = strings.Trim(v[4:len(v)-1], `'" `)
	if !strings.HasPrefix(v, "#") {
		return "", false
	}
	return v[1:], true
}

// readCommonAttrs decodes the attributes shared by every element.
func (c *cursor) readCommonAttrs(e *Element) error {
	for _, attr := range e.Attrs {
		switch attr.Name {
		case "id":
			e.ID = attr.Value
		case "style":
			v := strings.TrimSpace(attr.Value)
			if v == "" {
				continue
			}
			// the CSS parser requires a final semicolon
			if !strings.HasSuffix(v, ";") {
				v += ";"
			}
			decls, err := parser.ParseDeclarations(v)
			if err != nil {
				return fmt.Errorf("style: %w", err)
			}
			e.Style = decls
		case "transform":
			m, err := svgpath.ParseTransform(attr.Value)
			if err != nil {
				return fmt.Errorf("transform: %w", err)
			}
			e.Transform = m
		case "clip-path":
			if id, ok := parseURL(attr.Value); ok {
				e.ClipPath = id
			}
		case "filter":
			if id, ok := parseURL(attr.Value); ok {
				e.Filter = id
			}
		}
	}
	return nil
}

func clipRule(e *Element) svgdraw.ShapeBase {
	if e.Get("clip-rule") == "evenodd" {
		return svgdraw.ShapeBase{ClipRule: svgdraw.EvenOdd}
	}
	return svgdraw.ShapeBase{}
}

func svgF(c *cursor, e *Element) error {
	doc := c.doc
	doc.Width, doc.Height = e.Get("width"), e.Get("height")
	if vb := e.Get("viewBox"); vb != "" {
		points, err := svgpath.ParseNumbers(vb)
		if err != nil {
			return err
		}
		if len(points) != 4 {
			return ErrParamMismatch
		}
		doc.ViewBox = Bounds{points[0], points[1], points[2], points[3]}
	}
	if doc.ViewBox.W == 0 && doc.Width != "" {
		w, err := parseFloat(doc.Width)
		if err != nil {
			return err
		}
		doc.ViewBox.W = w
	}
	if doc.ViewBox.H == 0 && doc.Height != "" {
		h, err := parseFloat(doc.Height)
		if err != nil {
			return err
		}
		doc.ViewBox.H = h
	}
	return nil
}

func rectF(c *cursor, e *Element) error {
	v, err := readFloats(e, "x", "y", "width", "height", "rx", "ry")
	if err != nil {
		return err
	}
	e.Shape = &svgdraw.Rect{ShapeBase: clipRule(e), X: v[0], Y: v[1], Width: v[2], Height: v[3], RX: v[4], RY: v[5]}
	return nil
}

func circleF(c *cursor, e *Element) error {
	v, err := readFloats(e, "cx", "cy", "r")
	if err != nil {
		return err
	}
	e.Shape = &svgdraw.Circle{ShapeBase: clipRule(e), CX: v[0], CY: v[1], R: v[2]}
	return nil
}

func ellipseF(c *cursor, e *Element) error {
	v, err := readFloats(e, "cx", "cy", "rx", "ry")
	if err != nil {
		return err
	}
	e.Shape = &svgdraw.Oval{ShapeBase: clipRule(e), CX: v[0], CY: v[1], RX: v[2], RY: v[3]}
	return nil
}

func lineF(c *cursor, e *Element) error {
	v, err := readFloats(e, "x1", "y1", "x2", "y2")
	if err != nil {
		return err
	}
	e.Shape = &svgdraw.Line{ShapeBase: clipRule(e), X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
	return nil
}

func readPoints(e *Element) ([]svgdraw.Point, error) {
	values, err := svgpath.ParseNumbers(e.Get("points"))
	if err != nil {
		return nil, err
	}
	if len(values)%2 != 0 {
		return nil, errors.New("odd number of points coordinates")
	}
	var points []svgdraw.Point
	for i := 0; i < len(values); i += 2 {
		points = append(points, svgdraw.Point{X: values[i], Y: values[i+1]})
	}
	return points, nil
}

func polylineF(c *cursor, e *Element) error {
	points, err := readPoints(e)
	if err != nil {
		return err
	}
	e.Shape = &svgdraw.Polyline{ShapeBase: clipRule(e), Points: points}
	return nil
}

func polygonF(c *cursor, e *Element) error {
	points, err := readPoints(e)
	if err != nil {
		return err
	}
	e.Shape = &svgdraw.Polygon{ShapeBase: clipRule(e), Points: points}
	return nil
}

func pathF(c *cursor, e *Element) error {
	p, err := svgpath.Parse(e.Get("d"))
	if err != nil {
		return err
	}
	e.Shape = &svgdraw.Path{ShapeBase: clipRule(e), Path: p}
	return nil
}

func (c *cursor) decodeText(e *Element) (*svgdraw.TextPath, error) {
	v, err := readFloats(e, "x", "y")
	if err != nil {
		return nil, err
	}
	t := &svgdraw.TextPath{ShapeBase: clipRule(e), X: v[0], Y: v[1], Text: e.Text}
	if s := e.Get("textLength"); s != "" {
		t.TextLength, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("textLength: %w", err)
		}
	}
	for _, child := range e.Children {
		if child.Tag != "textPath" {
			continue
		}
		t.Text = child.Text
		if s := child.Get("startOffset"); s != "" {
			t.StartOffset, err = parseFloat(s)
			if err != nil {
				return nil, err
			}
		}
		href := child.Get("xlink:href")
		if href == "" {
			href = child.Get("href")
		}
		if def, ok := c.doc.Defs[strings.TrimPrefix(href, "#")]; ok {
			if p, ok := def.Shape.(*svgdraw.Path); ok {
				t.Path = p.Path.Clone()
			}
		}
	}
	t.Style, err = decodeTextStyle(e)
	return t, err
}

func decodeTextStyle(e *Element) (svgdraw.TextStyle, error) {
	var (
		st  svgdraw.TextStyle
		err error
	)
	if family := e.Get("font-family"); family != "" {
		font := svgdraw.NewFont(family)
		if w := e.Get("font-weight"); w != "" {
			font.Weight = w
		}
		switch e.Get("font-style") {
		case "italic":
			font.Style = svgdraw.FontItalic
		case "oblique":
			font.Style = svgdraw.FontOblique
		}
		if e.Get("font-variant") == "small-caps" {
			font.Variant = svgdraw.VariantSmallCaps
		}
		if size := e.Get("font-size"); size != "" {
			digits := strings.TrimRightFunc(size, func(r rune) bool { return r < '0' || r > '9' })
			font.Size, err = strconv.Atoi(digits)
			if err != nil {
				return st, fmt.Errorf("font-size: %w", err)
			}
			st.FontSizeUnit, err = svgdraw.ParseUnit(size[len(digits):])
			if err != nil {
				return st, err
			}
		}
		st.Font = &font
	}
	switch e.Get("text-anchor") {
	case "middle":
		st.Align = svgdraw.AlignCenter
	case "end":
		st.Align = svgdraw.AlignRight
	}
	if s := e.Get("letter-spacing"); s != "" {
		if st.LetterSpacing, err = parseFloat(s); err != nil {
			return st, err
		}
	}
	if s := e.Get("word-spacing"); s != "" {
		if st.WordSpacing, err = parseFloat(s); err != nil {
			return st, err
		}
	}
	switch e.Get("text-decoration") {
	case "underline":
		st.Decoration = svgdraw.Underline
	case "overline":
		st.Decoration = svgdraw.Overline
	case "line-through":
		st.Decoration = svgdraw.LineThrough
	case "blink":
		st.Decoration = svgdraw.Blink
	}
	if e.Get("lengthAdjust") == "spacingAndGlyphs" {
		st.LengthAdjust = svgdraw.AdjustSpacingAndGlyphs
	}
	return st, nil
}


func decodeGradient(e *Element) (svgdraw.Gradient, error) {
	var base svgdraw.GradientBase
	if e.Get("gradientUnits") == "userSpaceOnUse" {
		base.Units = svgdraw.UserSpace
	}
	switch e.Get("spreadMethod") {
	case "reflect":
		base.Spread = svgdraw.ReflectSpread
	case "repeat":
		base.Spread = svgdraw.RepeatSpread
	}
	for _, child := range e.Children {
		if child.Tag != "stop" {
			continue
		}
		stop, err := decodeStop(child)
		if err != nil {
			return nil, err
		}
		base.Stops = append(base.Stops, stop)
	}

	fraction := func(name string, def float64) (float64, error) {
		v := e.Get(name)
		if v == "" {
			return def, nil
		}
		return readFraction(v)
	}
	if e.Tag == "linearGradient" {
		g := &svgdraw.LinearGradient{GradientBase: base}
		var err error
		for _, field := range [...]struct {
			name string
			def  float64
			dst  *float64
		}{{"x1", 0, &g.X1}, {"y1", 0, &g.Y1}, {"x2", 1, &g.X2}, {"y2", 0, &g.Y2}} {
			if *field.dst, err = fraction(field.name, field.def); err != nil {
				return nil, err
			}
		}
		return g, nil
	}

	g := &svgdraw.RadialGradient{GradientBase: base}
	var err error
	for _, field := range [...]struct {
		name string
		def  float64
		dst  *float64
	}{{"cx", 0.5, &g.CX}, {"cy", 0.5, &g.CY}, {"r", 0.5, &g.R}, {"fr", 0, &g.FR}} {
		if *field.dst, err = fraction(field.name, field.def); err != nil {
			return nil, err
		}
	}
	// the focal point defaults to the center
	if g.FX, err = fraction("fx", g.CX); err != nil {
		return nil, err
	}
	if g.FY, err = fraction("fy", g.CY); err != nil {
		return nil, err
	}
	return g, nil
}

func decodeStop(e *Element) (svgdraw.Stop, error) {
	var (
		stop svgdraw.Stop
		err  error
	)
	if v := e.Get("offset"); v != "" {
		if stop.Offset, err = readFraction(v); err != nil {
			return stop, err
		}
	}
	color := e.Get("stop-color")
	if color == "" {
		color = e.StyleValue("stop-color")
	}
	rgb := uint32(0)
	if color != "" {
		if rgb, err = parseColor(color); err != nil {
			return stop, err
		}
	}
	opacity := 1.0
	if v := e.Get("stop-opacity"); v != "" {
		if opacity, err = parseFloat(v); err != nil {
			return stop, err
		}
	}
	stop.Color = withAlpha(rgb, opacity)
	return stop, nil
}
