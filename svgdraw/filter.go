package svgdraw

import (
	"github.com/benoitkugler/svgwriter/svgnum"
	"github.com/benoitkugler/svgwriter/svgxml"
)

// Predefined effect inputs.
const (
	SourceGraphic = "SourceGraphic"
	SourceAlpha   = "SourceAlpha"
)

// Effect is one filter primitive.
type Effect interface {
	Element(f svgnum.Formatter) (*svgxml.Element, error)
	CloneEffect() Effect
}

// EffectBase holds the optional input and result names of an effect.
type EffectBase struct {
	In, Result string
}

func addEffectAttrs(w *attrWriter, b EffectBase) {
	w.optStr("in", b.In)
	w.optStr("result", b.Result)
}

// Filter is a filter region holding an ordered list of effects.
// Its zero value is a bounding box filter with an empty region.
type Filter struct {
	// ID is the id of the definition. When empty, the canvas
	// generates one.
	ID                  string
	X, Y, Width, Height float64
	Units               Units
	Effects             []Effect
}

// Add appends effects and returns the filter.
func (fl *Filter) Add(effects ...Effect) *Filter {
	fl.Effects = append(fl.Effects, effects...)
	return fl
}

// Element returns the "filter" element, without id.
func (fl *Filter) Element(f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("filter", f)
	w.num("x", fl.X)
	w.num("y", fl.Y)
	w.num("width", fl.Width)
	w.num("height", fl.Height)
	w.str("filterUnits", fl.Units.String())
	if w.err != nil {
		return nil, w.err
	}
	for _, effect := range fl.Effects {
		child, err := effect.Element(f)
		if err != nil {
			return nil, err
		}
		w.e.Append(child)
	}
	return w.e, nil
}

// Clone returns a deep copy.
func (fl *Filter) Clone() *Filter {
	out := *fl
	if fl.Effects != nil {
		out.Effects = make([]Effect, len(fl.Effects))
		for i, e := range fl.Effects {
			out.Effects[i] = e.CloneEffect()
		}
	}
	return &out
}

// NewGaussianBlurFilter returns a filter blurring the source graphic.
func NewGaussianBlurFilter(stdDeviationX, stdDeviationY float64) *Filter {
	blur := &GaussianBlur{EffectBase: EffectBase{In: SourceGraphic}, StdDeviationX: stdDeviationX, StdDeviationY: stdDeviationY}
	return new(Filter).Add(blur)
}

// NewOffsetFilter returns a filter shifting the source graphic.
func NewOffsetFilter(dx, dy float64) *Filter {
	return new(Filter).Add(&Offset{EffectBase: EffectBase{In: SourceGraphic}, DX: dx, DY: dy})
}

// NewColorMatrixFilter returns a filter applying a color matrix
// to the source graphic.
func NewColorMatrixFilter(kind ColorMatrixType, values ...float64) *Filter {
	return new(Filter).Add(&ColorMatrix{EffectBase: EffectBase{In: SourceGraphic}, Type: kind, Values: values})
}

// NewDropShadowFilter returns a filter drawing a blurred, shifted copy of the
// source alpha below the source graphic.
func NewDropShadowFilter(dx, dy, stdDeviation float64) *Filter {
	return new(Filter).Add(
		&Offset{EffectBase: EffectBase{In: SourceAlpha, Result: "offset"}, DX: dx, DY: dy},
		&GaussianBlur{EffectBase: EffectBase{In: "offset", Result: "blur"}, StdDeviationX: stdDeviation, StdDeviationY: stdDeviation},
		&Merge{Inputs: []string{"blur", SourceGraphic}},
	)
}

// GaussianBlur is a "feGaussianBlur" effect.
type GaussianBlur struct {
	EffectBase
	StdDeviationX, StdDeviationY float64
}

func (g *GaussianBlur) Element(f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("feGaussianBlur", f)
	w.list("stdDeviation", []float64{g.StdDeviationX, g.StdDeviationY}, ",")
	addEffectAttrs(w, g.EffectBase)
	return w.result()
}

func (g *GaussianBlur) CloneEffect() Effect { cp := *g; return &cp }

// Offset is a "feOffset" effect.
type Offset struct {
	EffectBase
	DX, DY float64
}

func (o *Offset) Element(f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("feOffset", f)
	w.num("dx", o.DX)
	w.num("dy", o.DY)
	addEffectAttrs(w, o.EffectBase)
	return w.result()
}

func (o *Offset) CloneEffect() Effect { cp := *o; return &cp }

// ColorMatrixType is the "type" of a color matrix.
type ColorMatrixType uint8

const (
	MatrixType ColorMatrixType = iota // default
	Saturate
	HueRotate
	LuminanceToAlpha
)

func (c ColorMatrixType) String() string {
	switch c {
	case MatrixType:
		return "matrix"
	case Saturate:
		return "saturate"
	case HueRotate:
		return "hueRotate"
	case LuminanceToAlpha:
		return "luminanceToAlpha"
	default:
		return "<invalid color matrix type>"
	}
}

// ColorMatrix is a "feColorMatrix" effect.
type ColorMatrix struct {
	EffectBase
	Type   ColorMatrixType
	Values []float64
}

func (c *ColorMatrix) Element(f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("feColorMatrix", f)
	w.list("value", c.Values, " ")
	if c.Type != MatrixType {
		w.str("type", c.Type.String())
	}
	addEffectAttrs(w, c.EffectBase)
	return w.result()
}

func (c *ColorMatrix) CloneEffect() Effect { return deepCopy(c) }

// EdgeMode is the "edgeMode" of a convolution.
type EdgeMode uint8

const (
	EdgeDuplicate EdgeMode = iota // default
	EdgeWrap
	EdgeNone
)

func (e EdgeMode) String() string {
	switch e {
	case EdgeDuplicate:
		return "duplicate"
	case EdgeWrap:
		return "wrap"
	case EdgeNone:
		return "none"
	default:
		return "<invalid edge mode>"
	}
}

// DefaultOrder is the default size of a convolution kernel.
const DefaultOrder = 3

// ConvolveMatrix is a "feConvolveMatrix" effect.
// Optional attributes are omitted when they hold their default value.
type ConvolveMatrix struct {
	EffectBase
	Order                                int // 0 is the same as DefaultOrder
	Kernel                               []float64
	Divisor, Bias                        float64
	TargetX, TargetY                     int
	EdgeMode                             EdgeMode
	KernelUnitLengthX, KernelUnitLengthY float64
	PreserveAlpha                        bool
}

func (c *ConvolveMatrix) Element(f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("feConvolveMatrix", f)
	if c.Order != 0 && c.Order != DefaultOrder {
		w.int("order", c.Order)
	}
	w.list("kernelMatrix", c.Kernel, " ")
	if c.Divisor != 0 {
		w.num("divisor", c.Divisor)
	}
	if c.Bias != 0 {
		w.num("bias", c.Bias)
	}
	if c.TargetX != 0 {
		w.int("targetX", c.TargetX)
	}
	if c.TargetY != 0 {
		w.int("targetY", c.TargetY)
	}
	if c.EdgeMode != EdgeDuplicate {
		w.str("edgeMode", c.EdgeMode.String())
	}
	if c.KernelUnitLengthX == c.KernelUnitLengthY {
		if c.KernelUnitLengthX != 0 {
			w.num("kernelUnitLength", c.KernelUnitLengthX)
		}
	} else {
		w.list("kernelUnitLength", []float64{c.KernelUnitLengthX, c.KernelUnitLengthY}, " ")
	}
	if c.PreserveAlpha {
		w.str("preserveAlpha", "true")
	}
	addEffectAttrs(w, c.EffectBase)
	return w.result()
}

func (c *ConvolveMatrix) CloneEffect() Effect { return deepCopy(c) }

// Merge is a "feMerge" effect, stacking its inputs in order.
type Merge struct {
	EffectBase
	Inputs []string
}

func (m *Merge) Element(f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("feMerge", f)
	addEffectAttrs(w, m.EffectBase)
	for _, in := range m.Inputs {
		node := svgxml.NewElement("feMergeNode")
		node.Set("in", in)
		w.e.Append(node)
	}
	return w.result()
}

func (m *Merge) CloneEffect() Effect { return deepCopy(m) }

// BlendMode is the "mode" of a blend.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // default
	BlendMultiply
	BlendScreen
	BlendDarken
	BlendLighten
)

func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "normal"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendDarken:
		return "darken"
	case BlendLighten:
		return "lighten"
	default:
		return "<invalid blend mode>"
	}
}

// Blend is a "feBlend" effect.
type Blend struct {
	EffectBase
	In2  string
	Mode BlendMode
}

func (b *Blend) Element(f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("feBlend", f)
	w.str("in2", b.In2)
	if b.Mode != BlendNormal {
		w.str("mode", b.Mode.String())
	}
	addEffectAttrs(w, b.EffectBase)
	return w.result()
}

func (b *Blend) CloneEffect() Effect { cp := *b; return &cp }

// CompositeOperator is the "operator" of a composite.
type CompositeOperator uint8

const (
	CompositeOver CompositeOperator = iota
	CompositeIn
	CompositeOut
	CompositeAtop
	CompositeXor
	CompositeLighter
	CompositeArithmetic
)

func (c CompositeOperator) String() string {
	switch c {
	case CompositeOver:
		return "over"
	case CompositeIn:
		return "in"
	case CompositeOut:
		return "out"
	case CompositeAtop:
		return "atop"
	case CompositeXor:
		return "xor"
	case CompositeLighter:
		return "lighter"
	case CompositeArithmetic:
		return "arithmetic"
	default:
		return "<invalid composite operator>"
	}
}

// Composite is a "feComposite" effect. The K coefficients are
// only used by the arithmetic operator.
type Composite struct {
	EffectBase
	In2            string
	Operator       CompositeOperator
	K1, K2, K3, K4 float64
}

func (c *Composite) Element(f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("feComposite", f)
	w.str("in2", c.In2)
	w.str("operator", c.Operator.String())
	if c.Operator == CompositeArithmetic {
		w.num("k1", c.K1)
		w.num("k2", c.K2)
		w.num("k3", c.K3)
		w.num("k4", c.K4)
	}
	addEffectAttrs(w, c.EffectBase)
	return w.result()
}

func (c *Composite) CloneEffect() Effect { cp := *c; return &cp }
