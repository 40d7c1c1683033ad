package svgread

import (
	"math"

	"github.com/benoitkugler/svgwriter/svgdraw"
	"github.com/benoitkugler/svgwriter/svgpath"
	"golang.org/x/image/math/fixed"
)

// bounding boxes are computed with 26.6 fixed point
// coordinates, on the outline of the shapes

func fToFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))}
}

func fixedTof(p fixed.Point26_6) (x, y float64) {
	return float64(p.X) / 64, float64(p.Y) / 64
}

type bezier interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point at time t
	evaluateCurve(t float64) (x, y float64)
}

type line [2]fixed.Point26_6

func (l line) criticalPoints() (tX, tY []float64) { return nil, nil }

func (l line) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := fixedTof(l[0])
	p1x, p1y := fixedTof(l[1])
	return bezierLine(p0x, p1x, t), bezierLine(p0y, p1y, t)
}

func bezierLine(p0, p1, t float64) float64 {
	return (p1-p0)*t + p0
}

type quadBezier [3]fixed.Point26_6

// quadratic polynomial
// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadBezier) criticalPoints() (tX, tY []float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])

	aX, bX := quadraticDerivative(p0x, p1x, p2x)
	aY, bY := quadraticDerivative(p0y, p1y, p2y)

	return linearRoots(aX, bX), linearRoots(aY, bY)
}

func (cu quadBezier) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	return bezierQuad(p0x, p1x, p2x, t), bezierQuad(p0y, p1y, p2y, t)
}

type cubicBezier [4]fixed.Point26_6

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	p3x, p3y := fixedTof(cu[3])

	aX, bX, cX := cubicDerivative(p0x, p1x, p2x, p3x)
	aY, bY, cY := cubicDerivative(p0y, p1y, p2y, p3y)

	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluateCurve(t float64) (x, y float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	p3x, p3y := fixedTof(cu[3])
	return bezierSpline(p0x, p1x, p2x, p3x, t), bezierSpline(p0y, p1y, p2y, p3y, t)
}

// cubic polynomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// derivative of bezierSpline, as at^2 + bt + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		return linearRoots(b, c)
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(d)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

func computeBoundingBox(curve bezier) fixed.Rectangle26_6 {
	resX, resY := curve.criticalPoints()

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	// critical points, plus the begin and end points
	for _, t := range append(append(resX, 0, 1), resY...) {
		if !(0 <= t && t <= 1) {
			continue
		}
		x, y := curve.evaluateCurve(t)
		minX, minY = math.Min(x, minX), math.Min(y, minY)
		maxX, maxY = math.Max(x, maxX), math.Max(y, maxY)
	}
	return fixed.Rectangle26_6{Min: fToFixed(minX, minY), Max: fToFixed(maxX, maxY)}
}

// walkPath sends the segments of p, converted to absolute
// coordinates and transformed by m, to emit.
func walkPath(p svgpath.Path, m svgpath.Matrix2D, emit func(bezier)) {
	tr := func(x, y float64) fixed.Point26_6 { return fToFixed(m.Transform(x, y)) }
	var (
		curX, curY     float64 // current point
		startX, startY float64 // start of the sub path
		ctrlX, ctrlY   float64 // last control point, for smooth curves
		lastCmd        svgpath.Command
	)
	for _, seg := range p {
		ops := seg.Operands
		var offX, offY float64
		if seg.Relative {
			offX, offY = curX, curY
		}
		// reflected control point for smooth curves
		reflect := func(cubic bool) (float64, float64) {
			if cubic && (lastCmd == svgpath.CubicTo || lastCmd == svgpath.SmoothCubicTo) ||
				!cubic && (lastCmd == svgpath.QuadTo || lastCmd == svgpath.SmoothQuadTo) {
				return 2*curX - ctrlX, 2*curY - ctrlY
			}
			return curX, curY
		}
		switch seg.Command {
		case svgpath.MoveTo:
			curX, curY = ops[0]+offX, ops[1]+offY
			startX, startY = curX, curY
			emit(line{tr(curX, curY), tr(curX, curY)})
		case svgpath.LineTo, svgpath.HLineTo, svgpath.VLineTo:
			x, y := curX, curY
			switch seg.Command {
			case svgpath.LineTo:
				x, y = ops[0]+offX, ops[1]+offY
			case svgpath.HLineTo:
				x = ops[0] + offX
			case svgpath.VLineTo:
				y = ops[0] + offY
			}
			emit(line{tr(curX, curY), tr(x, y)})
			curX, curY = x, y
		case svgpath.CubicTo, svgpath.SmoothCubicTo:
			var c1x, c1y float64
			if seg.Command == svgpath.CubicTo {
				c1x, c1y = ops[0]+offX, ops[1]+offY
				ops = ops[2:]
			} else {
				c1x, c1y = reflect(true)
			}
			c2x, c2y := ops[0]+offX, ops[1]+offY
			x, y := ops[2]+offX, ops[3]+offY
			emit(cubicBezier{tr(curX, curY), tr(c1x, c1y), tr(c2x, c2y), tr(x, y)})
			ctrlX, ctrlY = c2x, c2y
			curX, curY = x, y
		case svgpath.QuadTo, svgpath.SmoothQuadTo:
			var c1x, c1y float64
			if seg.Command == svgpath.QuadTo {
				c1x, c1y = ops[0]+offX, ops[1]+offY
				ops = ops[2:]
			} else {
				c1x, c1y = reflect(false)
			}
			x, y := ops[0]+offX, ops[1]+offY
			emit(quadBezier{tr(curX, curY), tr(c1x, c1y), tr(x, y)})
			ctrlX, ctrlY = c1x, c1y
			curX, curY = x, y
		case svgpath.ArcTo:
			var arc [7]float64
			copy(arc[:], ops)
			arc[5] += offX
			arc[6] += offY
			px, py := curX, curY
			arcToCubics(arc, curX, curY, func(c1x, c1y, c2x, c2y, x, y float64) {
				emit(cubicBezier{tr(px, py), tr(c1x, c1y), tr(c2x, c2y), tr(x, y)})
				px, py = x, y
			})
			curX, curY = arc[5], arc[6]
		case svgpath.Close:
			emit(line{tr(curX, curY), tr(startX, startY)})
			curX, curY = startX, startY
		}
		lastCmd = seg.Command
	}
}

// Outline returns the outline of a shape as a path, or nil for
// shapes without geometry (such as a text without path).
func Outline(s svgdraw.Shape) svgpath.Path {
	var p svgpath.Path
	switch s := s.(type) {
	case *svgdraw.Rect:
		p.AddRoundRect(s.X, s.Y, s.Width, s.Height, s.RX, s.RY)
	case *svgdraw.Circle:
		p.AddOval(s.CX, s.CY, s.R, s.R)
	case *svgdraw.Oval:
		p.AddOval(s.CX, s.CY, s.RX, s.RY)
	case *svgdraw.Line:
		p.MoveTo(s.X1, s.Y1, false)
		p.LineTo(s.X2, s.Y2, false)
	case *svgdraw.Polygon:
		addPoints(&p, s.Points)
		if len(s.Points) != 0 {
			p.Close()
		}
	case *svgdraw.Polyline:
		addPoints(&p, s.Points)
	case *svgdraw.Path:
		p = s.Path.Clone()
	case *svgdraw.TextPath:
		p = s.Path.Clone()
	case *svgdraw.Group:
		for _, child := range s.Children {
			p = append(p, Outline(child)...)
		}
	case *svgdraw.ClipShape:
		p = Outline(s.Shape)
	}
	return p
}

func addPoints(p *svgpath.Path, points []svgdraw.Point) {
	for i, pt := range points {
		if i == 0 {
			p.MoveTo(pt.X, pt.Y, false)
		} else {
			p.LineTo(pt.X, pt.Y, false)
		}
	}
}

// PathBounds returns the bounding box of p transformed by m, and false
// if p is empty.
func PathBounds(p svgpath.Path, m svgpath.Matrix2D) (Bounds, bool) {
	var (
		box   fixed.Rectangle26_6
		empty = true
	)
	walkPath(p, m, func(b bezier) {
		r := computeBoundingBox(b)
		if empty {
			box, empty = r, false
			return
		}
		// Union ignores empty (flat) rectangles
		box.Min.X, box.Min.Y = min(box.Min.X, r.Min.X), min(box.Min.Y, r.Min.Y)
		box.Max.X, box.Max.Y = max(box.Max.X, r.Max.X), max(box.Max.Y, r.Max.Y)
	})
	if empty {
		return Bounds{}, false
	}
	x0, y0 := fixedTof(box.Min)
	x1, y1 := fixedTof(box.Max)
	return Bounds{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// Bounds returns the bounding box of the element geometry,
// including its children, in the coordinates of its parent,
// that is with its own transform applied.
func (e *Element) Bounds() (Bounds, bool) {
	p := e.outline()
	return PathBounds(p, e.Transform)
}

// outline returns the outline of e and its children, in e coordinates.
func (e *Element) outline() svgpath.Path {
	p := Outline(e.Shape)
	if _, isText := e.Shape.(*svgdraw.TextPath); isText {
		return p
	}
	for _, child := range e.Children {
		childOutline := child.outline()
		if child.Transform.IsIdentity() {
			p = append(p, childOutline...)
			continue
		}
		p = append(p, transformPath(childOutline, child.Transform)...)
	}
	return p
}

// transformPath returns p in absolute coordinates, with every
// point transformed by m. Curves are kept as cubic and quadratic
// segments, arcs are approximated with cubics.
func transformPath(p svgpath.Path, m svgpath.Matrix2D) svgpath.Path {
	var out svgpath.Path
	walkPath(p, m, func(b bezier) {
		switch b := b.(type) {
		case line:
			x0, y0 := fixedTof(b[0])
			x1, y1 := fixedTof(b[1])
			out.MoveTo(x0, y0, false)
			out.LineTo(x1, y1, false)
		case quadBezier:
			x0, y0 := fixedTof(b[0])
			x1, y1 := fixedTof(b[1])
			x2, y2 := fixedTof(b[2])
			out.MoveTo(x0, y0, false)
			out.QuadTo(x1, y1, x2, y2, false)
		case cubicBezier:
			x0, y0 := fixedTof(b[0])
			x1, y1 := fixedTof(b[1])
			x2, y2 := fixedTof(b[2])
			x3, y3 := fixedTof(b[3])
			out.MoveTo(x0, y0, false)
			out.CubicTo(x1, y1, x2, y2, x3, y3, false)
		}
	})
	return out
}
