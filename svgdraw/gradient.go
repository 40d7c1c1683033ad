package svgdraw

import (
	"github.com/benoitkugler/svgwriter/svgnum"
	"github.com/benoitkugler/svgwriter/svgxml"
)

// SpreadMethod is the type for spread parameters
type SpreadMethod uint8

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

func (s SpreadMethod) String() string {
	switch s {
	case PadSpread:
		return "pad"
	case ReflectSpread:
		return "reflect"
	case RepeatSpread:
		return "repeat"
	default:
		return "<invalid spread method>"
	}
}

// Stop is one color of a gradient.
type Stop struct {
	Offset float64
	Color  uint32 // ARGB
}

// Gradient is either a LinearGradient or a RadialGradient.
type Gradient interface {
	// Element returns the gradient definition, without id.
	Element(f svgnum.Formatter) (*svgxml.Element, error)
	// CloneGradient returns a deep copy.
	CloneGradient() Gradient
}

// GradientBase holds the fields shared by gradients.
type GradientBase struct {
	Units  Units
	Spread SpreadMethod
	Stops  []Stop
}

// AddStop appends a stop; stops are emitted in insertion order.
func (g *GradientBase) AddStop(offset float64, color uint32) {
	g.Stops = append(g.Stops, Stop{Offset: offset, Color: color})
}

// addGradientAttrs writes the optional units and spread method
// then the stops.
func addGradientAttrs(w *attrWriter, g GradientBase) {
	if g.Units == UserSpace {
		w.str("gradientUnits", g.Units.String())
	}
	if g.Spread != PadSpread {
		w.str("spreadMethod", g.Spread.String())
	}
	for _, stop := range g.Stops {
		sw := newWriter("stop", w.f)
		sw.num("offset", stop.Offset)
		sw.str("stop-color", RGB(stop.Color))
		if a := Alpha(stop.Color); a < 255 {
			sw.num("stop-opacity", opacity(a))
		}
		if sw.err != nil {
			if w.err == nil {
				w.err = sw.err
			}
			return
		}
		w.e.Append(sw.e)
	}
}

// LinearGradient varies colors along the (X1, Y1) to (X2, Y2) vector.
type LinearGradient struct {
	GradientBase
	X1, Y1, X2, Y2 float64
}

func (g *LinearGradient) Element(f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("linearGradient", f)
	w.num("x1", g.X1)
	w.num("y1", g.Y1)
	w.num("x2", g.X2)
	w.num("y2", g.Y2)
	addGradientAttrs(w, g.GradientBase)
	return w.result()
}

func (g *LinearGradient) CloneGradient() Gradient { return deepCopy(g) }

// RadialGradient varies colors from the focal circle (FX, FY, FR)
// to the circle (CX, CY, R).
type RadialGradient struct {
	GradientBase
	CX, CY, R  float64
	FX, FY, FR float64
}

func (g *RadialGradient) Element(f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("radialGradient", f)
	w.num("cx", g.CX)
	w.num("cy", g.CY)
	w.num("r", g.R)
	w.num("fx", g.FX)
	w.num("fy", g.FY)
	w.num("fr", g.FR)
	addGradientAttrs(w, g.GradientBase)
	return w.result()
}

func (g *RadialGradient) CloneGradient() Gradient { return deepCopy(g) }
