package svgread

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgwriter/svgdraw"
	"github.com/benoitkugler/svgwriter/svgpath"
	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]uint32{
	"black":   0x000000,
	"white":   0xffffff,
	"red":     0xff0000,
	"green":   0x008000,
	"lime":    0x00ff00,
	"blue":    0x0000ff,
	"yellow":  0xffff00,
	"gray":    0x808080,
	"grey":    0x808080,
	"orange":  0xffa500,
	"purple":  0x800080,
	"navy":    0x000080,
	"silver":  0xc0c0c0,
	"maroon":  0x800000,
	"teal":    0x008080,
	"fuchsia": 0xff00ff,
	"aqua":    0x00ffff,
	"olive":   0x808000,
}

// parseColor parses the rgb(), hexadecimal and keyword notations,
// returning an opaque ARGB value.
func parseColor(s string) (uint32, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		values, err := svgpath.ParseNumbers(s[4 : len(s)-1])
		if err != nil {
			return 0, err
		}
		if len(values) != 3 {
			return 0, fmt.Errorf("color %q: %w", s, ErrParamMismatch)
		}
		var out uint32 = 0xff000000
		for i, v := range values {
			out |= uint32(math.Max(0, math.Min(255, v))) << (16 - 8*i)
		}
		return out, nil
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return 0, err
		}
		r, g, b := c.RGB255()
		return 0xff000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
	}
	if rgb, ok := namedColors[s]; ok {
		return 0xff000000 | rgb, nil
	}
	return 0, fmt.Errorf("unsupported color %q", s)
}

// withAlpha replaces the alpha channel of c by the
// given opacity.
func withAlpha(c uint32, opacity float64) uint32 {
	a := math.Round(math.Max(0, math.Min(1, opacity)) * 255)
	return uint32(a)<<24 | c&0xffffff
}

// Paint decodes the "style" attribute of e, the reverse of
// svgdraw.Paint.StyleString. Gradient references are resolved
// with the document gradients.
// A stroke without fill is recognized by its null fill opacity.
func (d *Document) Paint(e *Element) (*svgdraw.Paint, error) {
	p := &svgdraw.Paint{StrokeWidth: 1, MiterLimit: svgdraw.DefaultMiterLimit}
	hasStroke := e.StyleValue("stroke") != ""
	hasFill := e.StyleValue("fill") != ""
	switch {
	case hasStroke && hasFill:
		p.Style = svgdraw.FillAndStroke
	case hasStroke:
		p.Style = svgdraw.Stroke
	default:
		p.Style = svgdraw.Fill
	}

	var (
		strokeOpacity, fillOpacity = 1.0, 1.0
		strokeColor, fillColor     uint32
		err                        error
	)
	for _, decl := range e.Style {
		v := strings.TrimSpace(decl.Value)
		switch decl.Property {
		case "stroke":
			strokeColor, err = d.readPaintRef(p, v, true)
		case "fill":
			fillColor, err = d.readPaintRef(p, v, false)
		case "stroke-width":
			p.StrokeWidth, err = strconv.ParseFloat(v, 64)
		case "stroke-opacity":
			strokeOpacity, err = strconv.ParseFloat(v, 64)
		case "fill-opacity":
			fillOpacity, err = strconv.ParseFloat(v, 64)
		case "stroke-linecap":
			switch v {
			case "round":
				p.Cap = svgdraw.RoundCap
			case "square":
				p.Cap = svgdraw.SquareCap
			}
		case "stroke-linejoin":
			switch v {
			case "round":
				p.Join = svgdraw.RoundJoin
			case "bevel":
				p.Join = svgdraw.BevelJoin
			}
		case "stroke-miterlimit":
			p.MiterLimit, err = strconv.ParseFloat(v, 64)
		case "stroke-dasharray":
			if v != "none" {
				p.DashArray, err = svgpath.ParseNumbers(v)
			}
		case "fill-rule":
			if v == "evenodd" {
				p.FillRule = svgdraw.EvenOdd
			}
		}
		if err != nil {
			return nil, fmt.Errorf("svgread: style %s: %w", decl.Property, err)
		}
	}

	switch p.Style {
	case svgdraw.Fill:
		p.Color = withAlpha(fillColor, fillOpacity)
	default:
		if p.UseGradientStroke && p.Gradient != nil {
			p.Color = withAlpha(fillColor, fillOpacity)
		} else {
			p.Color = withAlpha(strokeColor, strokeOpacity)
		}
	}

	if e.Filter != "" {
		if def, ok := d.Defs[e.Filter]; ok {
			p.Filter = &svgdraw.Filter{ID: def.ID}
		}
	}
	return p, nil
}

// readPaintRef decodes a color or a gradient reference.
func (d *Document) readPaintRef(p *svgdraw.Paint, v string, stroke bool) (uint32, error) {
	if id, ok := parseURL(v); ok {
		g, ok := d.Gradients[id]
		if !ok {
			return 0, fmt.Errorf("undefined gradient %q", id)
		}
		p.Gradient = g
		if stroke {
			p.UseGradientStroke = true
		}
		return 0, nil
	}
	if v == "none" {
		return 0, nil
	}
	return parseColor(v)
}
