// Package scene loads declarative scene files (YAML or TOML) and
// replays them onto a canvas.
//
// A scene holds the canvas settings and an ordered list of operations,
// mirroring the calls of the svgcanvas API:
//
//	canvas:
//	  width: 200
//	  height: 100
//	  precision: 2
//	ops:
//	  - op: translate
//	    values: [10, 10]
//	  - op: draw
//	    shape: {kind: rect, width: 50, height: 20}
//	    paint: {style: fill, color: "#ff0000"}
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/svgwriter/svgcanvas"
	"github.com/benoitkugler/svgwriter/svgdraw"
	"github.com/benoitkugler/svgwriter/svgnum"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownFormat is returned for files which are neither YAML nor TOML.
	ErrUnknownFormat = errors.New("scene: unknown file format")
	// ErrUnknownOperation is returned for invalid operation or shape kinds.
	ErrUnknownOperation = errors.New("scene: unknown operation")
)

// Format is the encoding of a scene file.
type Format uint8

const (
	YAML Format = iota
	TOML
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	default:
		return "<invalid format>"
	}
}

// FormatOf returns the format matching the extension of file.
func FormatOf(file string) (Format, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, file)
}

// Scene is the content of a scene file.
type Scene struct {
	Canvas Settings `yaml:"canvas" toml:"canvas"`
	Ops    []Op     `yaml:"ops" toml:"ops"`
}

// Settings configures the canvas and its root element.
type Settings struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
	Unit   string  `yaml:"unit" toml:"unit"` // empty for px

	// Precision is the number of decimals of the geometry,
	// 0 meaning the shortest representation.
	Precision          int  `yaml:"precision" toml:"precision"`
	TransformPrecision int  `yaml:"transform_precision" toml:"transform_precision"`
	TrimZeros          bool `yaml:"trim_zeros" toml:"trim_zeros"`

	DefsPrefix string `yaml:"defs_prefix" toml:"defs_prefix"`

	ID          string    `yaml:"id" toml:"id"`
	ViewBox     []float64 `yaml:"view_box" toml:"view_box"` // x, y, width, height
	AspectRatio string    `yaml:"aspect_ratio" toml:"aspect_ratio"`
	MeetOrSlice string    `yaml:"meet_or_slice" toml:"meet_or_slice"`
	// NoDimensions omits the width and height of the root.
	NoDimensions bool `yaml:"no_dimensions" toml:"no_dimensions"`
}

// Op is one canvas operation.
type Op struct {
	// Op is one of save, restore, transform, translate, scale, rotate,
	// reset-transform, clip, reset-clip and draw.
	Op string `yaml:"op" toml:"op"`
	// Values are the arguments of the transform operations:
	// 6 matrix coefficients, (tx, ty), (sx, sy), or an angle in degrees
	// optionally followed by the rotation center.
	Values []float64  `yaml:"values,omitempty" toml:"values,omitempty"`
	Shape  *ShapeSpec `yaml:"shape,omitempty" toml:"shape,omitempty"`
	Paint  *PaintSpec `yaml:"paint,omitempty" toml:"paint,omitempty"`
	ID     string     `yaml:"id,omitempty" toml:"id,omitempty"`
}

// Decode reads a scene in the given format.
func Decode(r io.Reader, format Format) (*Scene, error) {
	var (
		sc  Scene
		err error
	)
	switch format {
	case YAML:
		err = yaml.NewDecoder(r).Decode(&sc)
		if err == io.EOF { // empty file
			err = nil
		}
	case TOML:
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(&sc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: decoding %s: %w", format, err)
	}
	return &sc, nil
}

// Load reads the named scene file, whose format is
// deduced from its extension.
func Load(file string) (*Scene, error) {
	format, err := FormatOf(file)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(b), format)
}

// Encode writes the scene in the given format.
func (sc *Scene) Encode(w io.Writer, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sc); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(sc)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func formatter(precision int, trim bool) (svgnum.Formatter, error) {
	if precision <= 0 {
		return svgnum.Shortest{}, nil
	}
	mode := svgnum.KeepOneZero
	if trim {
		mode = svgnum.TrimZeros
	}
	return svgnum.NewFixed(precision, mode)
}

// NewCanvas returns an empty canvas configured by s.
func (s Settings) NewCanvas() (*svgcanvas.Canvas, error) {
	unit, err := svgdraw.ParseUnit(s.Unit)
	if err != nil {
		return nil, fmt.Errorf("scene: canvas: %w", err)
	}
	geometry, err := formatter(s.Precision, s.TrimZeros)
	if err != nil {
		return nil, fmt.Errorf("scene: canvas precision: %w", err)
	}
	transform, err := formatter(s.TransformPrecision, s.TrimZeros)
	if err != nil {
		return nil, fmt.Errorf("scene: canvas transform precision: %w", err)
	}
	return svgcanvas.New(s.Width, s.Height,
		svgcanvas.WithUnit(unit),
		svgcanvas.WithGeometryFormatter(geometry),
		svgcanvas.WithTransformFormatter(transform),
		svgcanvas.WithDefsPrefix(s.DefsPrefix),
	), nil
}

// RootOptions returns the options used to finalize the canvas.
func (s Settings) RootOptions() (svgcanvas.RootOptions, error) {
	opts := svgcanvas.RootOptions{ID: s.ID, IncludeDimensions: !s.NoDimensions}
	if s.ViewBox != nil {
		if len(s.ViewBox) != 4 {
			return opts, fmt.Errorf("scene: view box expects 4 values, got %d", len(s.ViewBox))
		}
		opts.ViewBox = &svgcanvas.ViewBox{X: s.ViewBox[0], Y: s.ViewBox[1], Width: s.ViewBox[2], Height: s.ViewBox[3]}
	}
	var err error
	if opts.AspectRatio, err = svgcanvas.ParseAspectRatio(s.AspectRatio); err != nil {
		return opts, err
	}
	switch s.MeetOrSlice {
	case "":
	case "meet":
		opts.MeetOrSlice = svgcanvas.Meet
	case "slice":
		opts.MeetOrSlice = svgcanvas.Slice
	default:
		return opts, fmt.Errorf("scene: invalid meet or slice %q", s.MeetOrSlice)
	}
	return opts, nil
}

// Render replays the scene onto a new canvas, and finalizes its root.
func (sc *Scene) Render() (*svgcanvas.Canvas, error) {
	c, err := sc.Canvas.NewCanvas()
	if err != nil {
		return nil, err
	}
	if err := sc.Apply(c); err != nil {
		return nil, err
	}
	opts, err := sc.Canvas.RootOptions()
	if err != nil {
		return nil, err
	}
	if err := c.Finalize(opts); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply replays the operations onto c, stopping at the first error.
func (sc *Scene) Apply(c *svgcanvas.Canvas) error {
	for i, op := range sc.Ops {
		if err := op.apply(c); err != nil {
			return fmt.Errorf("scene: operation %d (%s): %w", i, op.Op, err)
		}
	}
	return nil
}
