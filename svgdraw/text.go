package svgdraw

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/svgwriter/svgnum"
	"github.com/benoitkugler/svgwriter/svgpath"
	"github.com/benoitkugler/svgwriter/svgxml"
)

// Unit is a CSS length unit, used for font sizes and
// document dimensions.
type Unit uint8

const (
	Px Unit = iota // default
	Pt
	Pc
	Mm
	Cm
	In
	Em
	Ex
	Percent
)

func (u Unit) String() string {
	switch u {
	case Px:
		return "px"
	case Pt:
		return "pt"
	case Pc:
		return "pc"
	case Mm:
		return "mm"
	case Cm:
		return "cm"
	case In:
		return "in"
	case Em:
		return "em"
	case Ex:
		return "ex"
	case Percent:
		return "%"
	default:
		return "<invalid unit>"
	}
}

// ParseUnit returns the unit written s. The empty string is Px.
func ParseUnit(s string) (Unit, error) {
	if s == "" {
		return Px, nil
	}
	for u := Px; u <= Percent; u++ {
		if u.String() == s {
			return u, nil
		}
	}
	return 0, fmt.Errorf("svgdraw: invalid unit %q", s)
}

// FontStyle is the "font-style" value.
type FontStyle uint8

const (
	FontNormal FontStyle = iota
	FontItalic
	FontOblique
)

func (s FontStyle) String() string {
	switch s {
	case FontNormal:
		return "normal"
	case FontItalic:
		return "italic"
	case FontOblique:
		return "oblique"
	default:
		return "<invalid font style>"
	}
}

// FontVariant is the "font-variant" value.
type FontVariant uint8

const (
	VariantNormal FontVariant = iota
	VariantSmallCaps
)

func (v FontVariant) String() string {
	switch v {
	case VariantNormal:
		return "normal"
	case VariantSmallCaps:
		return "small-caps"
	default:
		return "<invalid font variant>"
	}
}

// Font describes the text font. Use NewFont for the defaults.
type Font struct {
	Family  string
	Size    int
	Weight  string // "normal", "bold", "700" ...
	Style   FontStyle
	Variant FontVariant
}

// NewFont returns a font of size 16 with normal weight, style and variant.
func NewFont(family string) Font {
	return Font{Family: family, Size: 16, Weight: "normal"}
}

// TextAlign is the horizontal alignment of a text,
// emitted as "text-anchor".
type TextAlign uint8

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

func (a TextAlign) String() string {
	switch a {
	case AlignLeft:
		return "start"
	case AlignCenter:
		return "middle"
	case AlignRight:
		return "end"
	default:
		return "<invalid text align>"
	}
}

// TextDecoration is the "text-decoration" value.
type TextDecoration uint8

const (
	DecorationNone TextDecoration = iota
	Underline
	Overline
	LineThrough
	Blink
)

func (d TextDecoration) String() string {
	switch d {
	case DecorationNone:
		return "none"
	case Underline:
		return "underline"
	case Overline:
		return "overline"
	case LineThrough:
		return "line-through"
	case Blink:
		return "blink"
	default:
		return "<invalid text decoration>"
	}
}

// LengthAdjust is the "lengthAdjust" value.
type LengthAdjust uint8

const (
	AdjustSpacing LengthAdjust = iota
	AdjustSpacingAndGlyphs
)

func (l LengthAdjust) String() string {
	switch l {
	case AdjustSpacing:
		return "spacing"
	case AdjustSpacingAndGlyphs:
		return "spacingAndGlyphs"
	default:
		return "<invalid length adjust>"
	}
}

// TextStyle groups the typographic attributes of a text.
type TextStyle struct {
	Font          *Font // optional
	FontSizeUnit  Unit
	Align         TextAlign
	LetterSpacing float64 // ignored when <= 0
	WordSpacing   float64 // ignored when <= 0
	Decoration    TextDecoration
	LengthAdjust  LengthAdjust
}

// TextPath is a text, either laid out along a path
// or written at (X, Y) when Path is nil.
type TextPath struct {
	ShapeBase
	Text        string
	X, Y        float64
	TextLength  int     // ignored when <= 0
	StartOffset float64 // ignored when <= 0
	Path        svgpath.Path
	Style       TextStyle
}

// Element returns a "text" element. When a path is set, it is
// registered as a definition of ctx and referenced by a "textPath"
// child.
func (t *TextPath) Element(ctx Context, f svgnum.Formatter) (*svgxml.Element, error) {
	w := newWriter("text", f)
	w.num("x", t.X)
	w.num("y", t.Y)
	if t.TextLength > 0 {
		w.int("textLength", t.TextLength)
	}
	if w.err != nil {
		return nil, w.err
	}
	if t.Path != nil {
		if ctx == nil {
			return nil, errors.New("svgdraw: text on path requires a context")
		}
		id, err := ctx.DefinePath(t.Path)
		if err != nil {
			return nil, err
		}
		tp := newWriter("textPath", f)
		tp.str("xlink:href", "#"+id)
		if t.StartOffset > 0 {
			tp.num("startOffset", t.StartOffset)
		}
		tp.e.Text = t.Text
		child, err := tp.result()
		if err != nil {
			return nil, err
		}
		w.e.Append(child)
	} else {
		w.e.Text = t.Text
	}
	t.Style.addAttrs(w, t.TextLength > 0)
	addBaseAttrs(w.e, t.ShapeBase)
	return w.result()
}

func (s TextStyle) addAttrs(w *attrWriter, hasLength bool) {
	if font := s.Font; font != nil {
		w.str("font-family", font.Family)
		w.str("font-style", font.Style.String())
		w.str("font-weight", font.Weight)
		if font.Variant != VariantNormal {
			w.str("font-variant", font.Variant.String())
		}
		w.str("font-size", svgnum.FormatInt(font.Size)+s.FontSizeUnit.String())
	}
	if s.Align != AlignLeft {
		w.str("text-anchor", s.Align.String())
	}
	if s.LetterSpacing > 0 {
		w.num("letter-spacing", s.LetterSpacing)
	}
	if s.WordSpacing > 0 {
		w.num("word-spacing", s.WordSpacing)
	}
	if s.Decoration != DecorationNone {
		w.str("text-decoration", s.Decoration.String())
	}
	if s.LengthAdjust != AdjustSpacing && hasLength {
		w.str("lengthAdjust", s.LengthAdjust.String())
	}
}

func (t *TextPath) Clone() Shape {
	out := *t
	out.Path = t.Path.Clone()
	if t.Style.Font != nil {
		font := *t.Style.Font
		out.Style.Font = &font
	}
	return &out
}
