package svgxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
)

// Legacy SVG 1.0 document type identifiers.
const (
	DocTypePublic = "-//W3C//DTD SVG 1.0//EN"
	DocTypeSystem = "http://www.w3.org/TR/2001/REC-SVG-20010904/DTD/svg10.dtd"
)

const declaration = `version="1.0" encoding="UTF-8" standalone="yes"`

// Document wraps a root element with the XML prologue
// written before it.
type Document struct {
	Root *Element

	// Indent is the indentation unit; empty means two spaces.
	Indent string
	// NoDocType disables the DOCTYPE directive.
	NoDocType bool
}

// countingWriter tracks the number of bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo serializes the document: XML declaration,
// DOCTYPE and the indented element tree.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if d.Root == nil {
		return 0, errors.New("svgxml: document has no root")
	}
	cw := &countingWriter{w: w}
	// the encoder does not break lines between prolog tokens
	prolog := "<?xml " + declaration + "?>\n"
	if !d.NoDocType {
		prolog += `<!DOCTYPE ` + d.Root.Tag + ` PUBLIC "` + DocTypePublic + `" "` + DocTypeSystem + `">` + "\n"
	}
	if _, err := io.WriteString(cw, prolog); err != nil {
		return cw.n, err
	}

	enc := xml.NewEncoder(cw)
	indent := d.Indent
	if indent == "" {
		indent = "  "
	}
	enc.Indent("", indent)
	if err := d.Root.encode(enc); err != nil {
		return cw.n, err
	}
	if err := enc.Flush(); err != nil {
		return cw.n, err
	}
	_, err := io.WriteString(cw, "\n")
	return cw.n, err
}

// Bytes returns the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	_, err := d.WriteTo(&buf)
	return buf.Bytes(), err
}
