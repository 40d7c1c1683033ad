// Implements an abstract representation of
// svg paths, and its encoding into the
// "d" attribute grammar.
package svgpath

import (
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/svgwriter/svgnum"
)

// Command identifies a path command.
type Command uint8

// Human readable path constants
const (
	MoveTo Command = iota
	LineTo
	HLineTo
	VLineTo
	CubicTo
	SmoothCubicTo
	QuadTo
	SmoothQuadTo
	ArcTo
	Close
)

// Letter returns the absolute (upper case) command letter.
func (c Command) Letter() byte {
	switch c {
	case MoveTo:
		return 'M'
	case LineTo:
		return 'L'
	case HLineTo:
		return 'H'
	case VLineTo:
		return 'V'
	case CubicTo:
		return 'C'
	case SmoothCubicTo:
		return 'S'
	case QuadTo:
		return 'Q'
	case SmoothQuadTo:
		return 'T'
	case ArcTo:
		return 'A'
	case Close:
		return 'Z'
	default:
		return '?'
	}
}

// NumOperands returns the fixed number of operands expected
// by the command.
func (c Command) NumOperands() int {
	switch c {
	case MoveTo, LineTo, SmoothQuadTo:
		return 2
	case HLineTo, VLineTo:
		return 1
	case CubicTo:
		return 6
	case SmoothCubicTo, QuadTo:
		return 4
	case ArcTo:
		return 7
	default:
		return 0
	}
}

func (c Command) String() string {
	switch c {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case HLineTo:
		return "HLineTo"
	case VLineTo:
		return "VLineTo"
	case CubicTo:
		return "CubicTo"
	case SmoothCubicTo:
		return "SmoothCubicTo"
	case QuadTo:
		return "QuadTo"
	case SmoothQuadTo:
		return "SmoothQuadTo"
	case ArcTo:
		return "ArcTo"
	case Close:
		return "Close"
	default:
		return fmt.Sprintf("<invalid command %d>", uint8(c))
	}
}

// commandFromLetter is the inverse of Letter, also returning
// whether the letter denotes a relative command.
func commandFromLetter(b byte) (cmd Command, relative, ok bool) {
	relative = b >= 'a' && b <= 'z'
	if relative {
		b -= 'a' - 'A'
	}
	for cmd = MoveTo; cmd <= Close; cmd++ {
		if cmd.Letter() == b {
			return cmd, relative, true
		}
	}
	return 0, false, false
}

// Segment is one command of a path, with its operands.
// For ArcTo, the operands are rx, ry, rotation, large-arc flag,
// sweep flag, x, y.
type Segment struct {
	Command  Command
	Operands []float64
	Relative bool
}

// Path describes a sequence of path commands.
// Higher-level shapes may be reduced to a path.
type Path []Segment

// Clone returns a deep copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	for i, seg := range p {
		out[i] = Segment{Command: seg.Command, Relative: seg.Relative, Operands: append([]float64(nil), seg.Operands...)}
	}
	return out
}

// Clear zeros the path slice
func (p *Path) Clear() {
	*p = (*p)[:0]
}

func (p *Path) add(cmd Command, relative bool, operands ...float64) {
	*p = append(*p, Segment{Command: cmd, Operands: operands, Relative: relative})
}

// MoveTo starts a new sub-path at (x, y).
func (p *Path) MoveTo(x, y float64, relative bool) { p.add(MoveTo, relative, x, y) }

// LineTo adds a line to (x, y).
func (p *Path) LineTo(x, y float64, relative bool) { p.add(LineTo, relative, x, y) }

// HLineTo adds an horizontal line.
func (p *Path) HLineTo(x float64, relative bool) { p.add(HLineTo, relative, x) }

// VLineTo adds a vertical line.
func (p *Path) VLineTo(y float64, relative bool) { p.add(VLineTo, relative, y) }

// CubicTo adds a cubic bezier curve with control points (x1, y1), (x2, y2)
// ending at (x, y).
func (p *Path) CubicTo(x1, y1, x2, y2, x, y float64, relative bool) {
	p.add(CubicTo, relative, x1, y1, x2, y2, x, y)
}

// SmoothCubicTo adds a cubic bezier curve whose first control point
// is the reflection of the previous one.
func (p *Path) SmoothCubicTo(x2, y2, x, y float64, relative bool) {
	p.add(SmoothCubicTo, relative, x2, y2, x, y)
}

// QuadTo adds a quadratic bezier curve.
func (p *Path) QuadTo(x1, y1, x, y float64, relative bool) { p.add(QuadTo, relative, x1, y1, x, y) }

// SmoothQuadTo adds a quadratic bezier curve whose control point
// is the reflection of the previous one.
func (p *Path) SmoothQuadTo(x, y float64, relative bool) { p.add(SmoothQuadTo, relative, x, y) }

// ArcTo adds an elliptical arc.
func (p *Path) ArcTo(rx, ry, rotation float64, largeArc, sweep bool, x, y float64, relative bool) {
	p.add(ArcTo, relative, rx, ry, rotation, boolToFlag(largeArc), boolToFlag(sweep), x, y)
}

// Close closes the current sub-path.
func (p *Path) Close() { p.add(Close, false) }

func boolToFlag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// isArcFlag returns true for the operands of ArcTo emitted as integers.
func isArcFlag(cmd Command, index int) bool {
	return cmd == ArcTo && (index == 3 || index == 4)
}

// Encode returns the "d" attribute value of the path, formatting
// operands with f. Each command letter and each operand is followed
// by a space.
func (p Path) Encode(f svgnum.Formatter) (string, error) {
	var sb strings.Builder
	for _, seg := range p {
		if err := seg.encode(&sb, f); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func (seg Segment) encode(sb *strings.Builder, f svgnum.Formatter) error {
	if n := seg.Command.NumOperands(); len(seg.Operands) != n {
		return fmt.Errorf("svgpath: %s expects %d operands, got %d", seg.Command, n, len(seg.Operands))
	}
	letter := seg.Command.Letter()
	if seg.Relative {
		letter += 'a' - 'A'
	}
	sb.WriteByte(letter)
	sb.WriteByte(' ')
	for i, v := range seg.Operands {
		if isArcFlag(seg.Command, i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("svgpath: %s operand %d: %w: %v", seg.Command, i, svgnum.ErrNotFinite, v)
			}
			flag := 0
			if v != 0 {
				flag = 1
			}
			sb.WriteString(svgnum.FormatInt(flag))
		} else {
			s, err := f.Format(v)
			if err != nil {
				return fmt.Errorf("svgpath: %s operand %d: %w", seg.Command, i, err)
			}
			sb.WriteString(s)
		}
		sb.WriteByte(' ')
	}
	return nil
}

// String returns a readable representation of a Path,
// using the shortest number formatting.
func (p Path) String() string {
	s, err := p.Encode(svgnum.Shortest{})
	if err != nil {
		return "<invalid path: " + err.Error() + ">"
	}
	return s
}
