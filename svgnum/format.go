// Package svgnum converts floating point values to the
// textual form used in SVG attributes.
//
// Two policies are provided: Shortest, which emits the minimal
// decimal string re-parsing to the exact same float64, and Fixed,
// which rounds to a bounded number of fractional digits.
package svgnum

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPrecision is returned when building a Fixed formatter
	// with a number of decimal places outside [MinPrecision, MaxPrecision].
	ErrInvalidPrecision = errors.New("svgnum: invalid precision")
	// ErrNotFinite is returned when formatting NaN or an infinity.
	ErrNotFinite = errors.New("svgnum: value is not finite")
)

// Bounds for the Fixed precision.
const (
	MinPrecision = 1
	MaxPrecision = 10
)

// plain decimal notation is used for magnitudes in [expLow, expHigh)
const (
	expLow  = 1e-6
	expHigh = 1e21
)

// Formatter converts a float64 to its attribute text.
type Formatter interface {
	Format(v float64) (string, error)
}

// Shortest formats values with the minimal number of digits
// which round-trips to the same float64.
type Shortest struct{}

func (Shortest) Format(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: %v", ErrNotFinite, v)
	}
	if a := math.Abs(v); a == 0 || (a >= expLow && a < expHigh) {
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return strconv.FormatFloat(v, 'e', -1, 64), nil
}

// String implements fmt.Stringer.
func (Shortest) String() string { return "shortest" }

// ZeroMode selects how trailing fractional zeros are handled
// by a Fixed formatter.
type ZeroMode uint8

const (
	// KeepOneZero trims trailing zeros but always keeps
	// at least one fractional digit: 2 -> "2.0".
	KeepOneZero ZeroMode = iota
	// TrimZeros trims every trailing zero and the dot: 2 -> "2".
	TrimZeros
)

func (m ZeroMode) String() string {
	switch m {
	case KeepOneZero:
		return "keep-one-zero"
	case TrimZeros:
		return "trim-zeros"
	default:
		return "<invalid zero mode>"
	}
}

// Fixed rounds values half-up to at most a fixed number of
// decimal places. Use NewFixed to build one.
type Fixed struct {
	dp   int
	mode ZeroMode
}

// NewFixed returns a formatter emitting at most dp fractional digits.
// dp must be in [MinPrecision, MaxPrecision].
func NewFixed(dp int, mode ZeroMode) (Fixed, error) {
	if dp < MinPrecision || dp > MaxPrecision {
		return Fixed{}, fmt.Errorf("%w: %d decimal places (expected %d to %d)", ErrInvalidPrecision, dp, MinPrecision, MaxPrecision)
	}
	return Fixed{dp: dp, mode: mode}, nil
}

// Precision returns the maximum number of fractional digits.
func (f Fixed) Precision() int { return f.dp }

// Mode returns the trailing zeros policy.
func (f Fixed) Mode() ZeroMode { return f.mode }

func (f Fixed) String() string { return fmt.Sprintf("fixed(%d, %s)", f.dp, f.mode) }

func (f Fixed) Format(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: %v", ErrNotFinite, v)
	}
	if f.dp == 0 {
		// zero value, not built with NewFixed
		return "", fmt.Errorf("%w: 0 decimal places", ErrInvalidPrecision)
	}
	s := roundHalfUp(strconv.FormatFloat(v, 'f', -1, 64), f.dp)
	return trimZeros(s, f.mode), nil
}

// roundHalfUp rounds the decimal string s (as produced by
// strconv.FormatFloat with 'f' and -1) to dp fractional digits.
// The result has exactly dp fractional digits.
func roundHalfUp(s string, dp int) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	for len(frac) <= dp {
		frac += "0"
	}
	roundUp := frac[dp] >= '5'
	digits := []byte(intPart + frac[:dp])
	if roundUp {
		i := len(digits) - 1
		for ; i >= 0; i-- {
			if digits[i] == '9' {
				digits[i] = '0'
				continue
			}
			digits[i]++
			break
		}
		if i < 0 {
			digits = append([]byte{'1'}, digits...)
		}
	}
	cut := len(digits) - dp
	out := string(digits[:cut]) + "." + string(digits[cut:])
	if neg && strings.Trim(out, "0.") != "" {
		out = "-" + out
	}
	return out
}

func trimZeros(s string, mode ZeroMode) string {
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		if mode == TrimZeros {
			return s[:len(s)-1]
		}
		return s + "0"
	}
	return s
}

// FormatInt returns the decimal form of an integer valued attribute,
// such as arc flags or convolution targets.
func FormatInt(v int) string { return strconv.Itoa(v) }

// Join formats every value with f and joins them with sep.
func Join(f Formatter, values []float64, sep string) (string, error) {
	chunks := make([]string, len(values))
	for i, v := range values {
		s, err := f.Format(v)
		if err != nil {
			return "", err
		}
		chunks[i] = s
	}
	return strings.Join(chunks, sep), nil
}
