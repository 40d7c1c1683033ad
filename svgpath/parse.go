package svgpath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	tstrconv "github.com/tdewolff/parse/v2/strconv"
)

// ErrParamMismatch is returned when a path command or a transform
// is given the wrong number of parameters.
var ErrParamMismatch = errors.New("svgpath: param mismatch")

// pathCursor scans a "d" attribute
type pathCursor struct {
	src []byte
	pos int
}

func isSeparator(b byte) bool {
	return b == ' ' || b == ',' || b == '\n' || b == '\r' || b == '\t'
}

func (c *pathCursor) skipSeparators() {
	for c.pos < len(c.src) && isSeparator(c.src[c.pos]) {
		c.pos++
	}
}

func (c *pathCursor) atNumber() bool {
	if c.pos >= len(c.src) {
		return false
	}
	b := c.src[c.pos]
	return (b >= '0' && b <= '9') || b == '.' || b == '-' || b == '+'
}

// number reads the next float. The scanner only locates the token:
// its value is decoded by strconv so that it is bit exact.
func (c *pathCursor) number() (float64, error) {
	_, n := tstrconv.ParseFloat(c.src[c.pos:])
	if n == 0 {
		return 0, fmt.Errorf("svgpath: expected number at position %d", c.pos+1)
	}
	v, err := strconv.ParseFloat(string(c.src[c.pos:c.pos+n]), 64)
	if err != nil {
		return 0, fmt.Errorf("svgpath: invalid number at position %d: %w", c.pos+1, err)
	}
	c.pos += n
	return v, nil
}

// flag reads an arc flag, which may not be separated from the following token.
func (c *pathCursor) flag() (float64, error) {
	if c.pos < len(c.src) {
		switch c.src[c.pos] {
		case '0':
			c.pos++
			return 0, nil
		case '1':
			c.pos++
			return 1, nil
		}
	}
	return 0, fmt.Errorf("svgpath: arc flags should be 0 or 1 at position %d", c.pos+1)
}

// Parse decodes a "d" attribute. Commands are kept as written
// (relative and shorthand commands are not resolved), so that
// Parse inverts Path.Encode. Implicit repetitions are expanded
// into explicit segments.
func Parse(d string) (Path, error) {
	c := pathCursor{src: []byte(d)}
	var (
		out      Path
		cmd      Command
		relative bool
		started  bool
	)
	for {
		c.skipSeparators()
		if c.pos >= len(c.src) {
			break
		}
		if !c.atNumber() {
			b := c.src[c.pos]
			var ok bool
			cmd, relative, ok = commandFromLetter(b)
			if !ok {
				return nil, fmt.Errorf("svgpath: unknown command '%c' at position %d", b, c.pos+1)
			}
			if !started && cmd != MoveTo {
				return nil, fmt.Errorf("svgpath: path should start with a move, got '%c'", b)
			}
			started = true
			c.pos++
		} else if !started {
			return nil, errors.New("svgpath: path should start with a command")
		} else if cmd == Close {
			return nil, fmt.Errorf("svgpath: unexpected number after close at position %d", c.pos+1)
		}

		n := cmd.NumOperands()
		operands := make([]float64, n)
		for i := range operands {
			c.skipSeparators()
			var err error
			if isArcFlag(cmd, i) {
				operands[i], err = c.flag()
			} else {
				operands[i], err = c.number()
			}
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %s", ErrParamMismatch, cmd, err)
			}
		}
		if n == 0 {
			operands = nil
		}
		out = append(out, Segment{Command: cmd, Operands: operands, Relative: relative && cmd != Close})
		if cmd == MoveTo { // subsequent pairs are implicit lines
			cmd = LineTo
		}
	}
	return out, nil
}

// parseNumbers splits a list of numbers separated by spaces or commas.
func parseNumbers(s string) ([]float64, error) {
	c := pathCursor{src: []byte(s)}
	var out []float64
	for {
		c.skipSeparators()
		if c.pos >= len(c.src) {
			return out, nil
		}
		v, err := c.number()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// ParseNumbers decodes a space or comma separated list of numbers,
// as found in viewBox, points or filter attributes.
func ParseNumbers(s string) ([]float64, error) { return parseNumbers(s) }

func readTransformAttr(m1 Matrix2D, k string, points []float64) (Matrix2D, error) {
	ln := len(points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(points[1], points[2]).
				Rotate(points[0]*math.Pi/180).
				Translate(-points[1], -points[2])
		} else {
			return m1, ErrParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(points[0], points[1])
		} else {
			return m1, ErrParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(points[0] * math.Pi / 180)
		} else {
			return m1, ErrParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(points[0] * math.Pi / 180)
		} else {
			return m1, ErrParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(points[0], points[0])
		} else if ln == 2 {
			m1 = m1.Scale(points[0], points[1])
		} else {
			return m1, ErrParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: points[0],
				B: points[1],
				C: points[2],
				D: points[3],
				E: points[4],
				F: points[5]})
		} else {
			return m1, ErrParamMismatch
		}
	default:
		return m1, ErrParamMismatch
	}
	return m1, nil
}

// ParseTransform decodes a transform attribute, composing every
// listed transformation from left to right.
func ParseTransform(v string) (Matrix2D, error) {
	ts := strings.Split(v, ")")
	m1 := Identity
	for _, t := range ts {
		t = strings.TrimLeft(t, ", \t\n\r")
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, ErrParamMismatch // badly formed transformation
		}
		points, err := parseNumbers(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])), points)
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}
