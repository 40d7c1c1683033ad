// Package svgxml provides the minimal DOM-like tree used to build
// SVG documents, and its serialization to indented XML.
package svgxml

import (
	"bytes"
	"encoding/xml"
)

// Attr is a name/value attribute pair. Names are written as is,
// so prefixed names such as "xlink:href" are supported.
type Attr struct {
	Name, Value string
}

// Element is a node of the tree, with ordered attributes.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string // character data, written before the children
}

// NewElement returns an empty element with the given tag.
func NewElement(tag string) *Element { return &Element{Tag: tag} }

// Set sets the attribute, overwriting it in place if already present,
// or appending it otherwise.
func (e *Element) Set(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Get returns the value of the attribute.
func (e *Element) Get(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Remove deletes the attribute, if present.
func (e *Element) Remove(name string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

// Append adds children at the end.
func (e *Element) Append(children ...*Element) {
	e.Children = append(e.Children, children...)
}

// RemoveChild removes the given child (compared by pointer),
// returning false if it is not found.
func (e *Element) RemoveChild(child *Element) bool {
	for i, c := range e.Children {
		if c == child {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the first direct child with the given tag, or nil.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	out := &Element{Tag: e.Tag, Text: e.Text, Attrs: append([]Attr(nil), e.Attrs...)}
	if len(e.Children) != 0 {
		out.Children = make([]*Element, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

func (e *Element) startElement() xml.StartElement {
	se := xml.StartElement{Name: xml.Name{Local: e.Tag}, Attr: make([]xml.Attr, len(e.Attrs))}
	for i, a := range e.Attrs {
		se.Attr[i] = xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value}
	}
	return se
}

// encode writes the element and its children as tokens.
func (e *Element) encode(enc *xml.Encoder) error {
	se := e.startElement()
	if err := enc.EncodeToken(se); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(se.End())
}

// String returns the compact markup of the element, without
// indentation. It is also used as a structural key, since two
// elements with the same markup are interchangeable.
func (e *Element) String() string {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := e.encode(enc); err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	if err := enc.Flush(); err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	return buf.String()
}
