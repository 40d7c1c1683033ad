// Package svgread decodes SVG documents, such as the ones written by
// svgcanvas, back into the entities of svgdraw.
// It only supports the subset of SVG needed to inspect and compare
// generated documents: basic shapes, paths, groups, texts, gradients,
// clip paths and filters.
package svgread

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/benoitkugler/svgwriter/svgdraw"
	"github.com/benoitkugler/svgwriter/svgpath"
	"github.com/benoitkugler/svgwriter/svgxml"
	"golang.org/x/net/html/charset"
)

var (
	// ErrParamMismatch is returned for attributes with an invalid
	// number of values.
	ErrParamMismatch = svgpath.ErrParamMismatch
	// ErrUnsupportedElement is returned in StrictErrorMode for
	// elements the package does not handle.
	ErrUnsupportedElement = errors.New("svgread: unsupported element")
	// ErrNotSVG is returned when the input has no element.
	ErrNotSVG = errors.New("svgread: invalid svg document")
)

// ErrorMode is the strategy used for unsupported elements.
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported elements.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode skips unsupported elements, logging a warning.
	WarnErrorMode
	// StrictErrorMode fails on unsupported elements.
	StrictErrorMode
)

// Bounds defines a bounding box, such as a viewport
// or a shape extent.
type Bounds struct{ X, Y, W, H float64 }

// Element is one decoded element.
type Element struct {
	Tag   string
	ID    string
	Attrs []svgxml.Attr // as written, including the ones decoded below

	// Style is the decoded "style" attribute.
	Style []*css.Declaration
	// Transform is the element own "transform" attribute,
	// or the identity.
	Transform svgpath.Matrix2D
	// ClipPath and Filter are the ids referenced by the
	// "clip-path" and "filter" attributes.
	ClipPath, Filter string

	// Shape is the geometry of shape elements ("rect", "circle",
	// "ellipse", "line", "polygon", "polyline", "path", "text"), or nil.
	Shape svgdraw.Shape

	Text     string // character data
	Children []*Element
}

// Get returns the value of the attribute, or an empty string.
func (e *Element) Get(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// StyleValue returns the value of the last declaration of property
// in the style attribute, or an empty string.
func (e *Element) StyleValue(property string) string {
	for i := len(e.Style) - 1; i >= 0; i-- {
		if e.Style[i].Property == property {
			return e.Style[i].Value
		}
	}
	return ""
}

// Document is a decoded SVG document.
type Document struct {
	Root         *Element // the "svg" element, without children
	ViewBox      Bounds
	Width        string // top level width and height attributes
	Height       string
	Titles       []string
	Descriptions []string

	// Elements are the drawn elements, in document order.
	Elements []*Element

	// Defs are the elements with an id found in "defs" blocks,
	// and the gradients, clip paths and filters found elsewhere.
	Defs map[string]*Element
	// Gradients are the decoded gradient definitions.
	Gradients map[string]svgdraw.Gradient
}

// Lookup returns the element with the given id, searching the
// definitions then the drawn elements.
func (d *Document) Lookup(id string) *Element {
	if e, ok := d.Defs[id]; ok {
		return e
	}
	var find func(elements []*Element) *Element
	find = func(elements []*Element) *Element {
		for _, e := range elements {
			if e.ID == id {
				return e
			}
			if found := find(e.Children); found != nil {
				return found
			}
		}
		return nil
	}
	return find(d.Elements)
}

// cursor is used while decoding.
type cursor struct {
	doc       *Document
	errorMode ErrorMode

	stack  []*Element // nil for skipped elements
	inDefs int
	texts  []*Element // decoded once the definitions are known
}

// isDefinition returns true for elements stored in Document.Defs
// even outside "defs" blocks.
func isDefinition(tag string) bool {
	switch tag {
	case "linearGradient", "radialGradient", "clipPath", "filter":
		return true
	}
	return false
}

func (c *cursor) top() *Element {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// skipping returns true inside an unsupported element.
func (c *cursor) skipping() bool {
	return len(c.stack) != 0 && c.top() == nil
}

func (c *cursor) unsupported(tag string) error {
	switch c.errorMode {
	case StrictErrorMode:
		return fmt.Errorf("%w: %s", ErrUnsupportedElement, tag)
	case WarnErrorMode:
		Logger().Warn("cannot process svg element", slog.String("element", tag))
	}
	return nil
}

func (c *cursor) readStartElement(se xml.StartElement) error {
	if c.skipping() {
		c.stack = append(c.stack, nil)
		return nil
	}
	tag := se.Name.Local
	df, ok := drawFuncs[tag]
	if !ok {
		c.stack = append(c.stack, nil)
		return c.unsupported(tag)
	}

	e := &Element{Tag: tag, Transform: svgpath.Identity, Attrs: make([]svgxml.Attr, len(se.Attr))}
	for i, attr := range se.Attr {
		e.Attrs[i] = svgxml.Attr{Name: attrName(attr.Name), Value: attr.Value}
	}
	if err := c.readCommonAttrs(e); err != nil {
		return fmt.Errorf("svgread: %s: %w", tag, err)
	}
	if err := df(c, e); err != nil {
		return fmt.Errorf("svgread: %s: %w", tag, err)
	}

	parent := c.top()
	c.stack = append(c.stack, e)
	switch {
	case parent == nil: // root
		c.doc.Root = e
	case tag == "defs":
		c.inDefs++
	case tag == "title" || tag == "desc":
		// collected when closed
	case c.inDefs > 0 && parent.Tag == "defs":
		if e.ID != "" {
			c.doc.Defs[e.ID] = e
		}
	case isDefinition(tag):
		if e.ID != "" {
			c.doc.Defs[e.ID] = e
		}
		if parent != c.doc.Root {
			parent.Children = append(parent.Children, e)
		}
	case parent == c.doc.Root:
		c.doc.Elements = append(c.doc.Elements, e)
	default:
		parent.Children = append(parent.Children, e)
	}
	return nil
}

func (c *cursor) readEndElement() error {
	if len(c.stack) == 0 {
		return nil
	}
	e := c.top()
	c.stack = c.stack[:len(c.stack)-1]
	if e == nil {
		return nil
	}
	switch e.Tag {
	case "defs":
		c.inDefs--
	case "title":
		c.doc.Titles = append(c.doc.Titles, strings.TrimSpace(e.Text))
	case "desc":
		c.doc.Descriptions = append(c.doc.Descriptions, strings.TrimSpace(e.Text))
	case "linearGradient", "radialGradient":
		g, err := decodeGradient(e)
		if err != nil {
			return fmt.Errorf("svgread: %s: %w", e.Tag, err)
		}
		if e.ID != "" {
			c.doc.Gradients[e.ID] = g
		}
	case "text":
		c.texts = append(c.texts, e)
	}
	return nil
}

// attrName returns the prefixed name of the attribute as written,
// resolving the namespaces used by SVG documents.
func attrName(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case "xmlns":
		return "xmlns:" + n.Local
	case "http://www.w3.org/1999/xlink", "xlink":
		return "xlink:" + n.Local
	default:
		if i := strings.LastIndexByte(n.Space, '/'); i >= 0 {
			return n.Space[i+1:] + ":" + n.Local
		}
		return n.Space + ":" + n.Local
	}
}

// ReadDocumentStream decodes the document from the given reader.
// errMode determines if unsupported elements are ignored, logged
// or reported as an error.
func ReadDocumentStream(stream io.Reader, errMode ErrorMode) (*Document, error) {
	doc := &Document{
		Defs:      make(map[string]*Element),
		Gradients: make(map[string]svgdraw.Gradient),
	}
	c := &cursor{doc: doc, errorMode: errMode}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return nil, ErrNotSVG
				}
				break
			}
			return doc, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			if !seenTag && se.Name.Local != "svg" {
				return nil, fmt.Errorf("%w: root element is %s", ErrNotSVG, se.Name.Local)
			}
			seenTag = true
			if err := c.readStartElement(se); err != nil {
				return doc, err
			}
		case xml.EndElement:
			if err := c.readEndElement(); err != nil {
				return doc, err
			}
		case xml.CharData:
			if e := c.top(); e != nil {
				e.Text += string(se)
			}
		}
	}
	// text paths reference definitions written after them
	for _, e := range c.texts {
		t, err := c.decodeText(e)
		if err != nil {
			return doc, fmt.Errorf("svgread: text: %w", err)
		}
		e.Shape = t
	}
	return doc, nil
}

// ReadDocument decodes the named file. See ReadDocumentStream.
func ReadDocument(file string, errMode ErrorMode) (*Document, error) {
	fin, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return ReadDocumentStream(fin, errMode)
}
