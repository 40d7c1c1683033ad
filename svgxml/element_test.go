package svgxml

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetKeepsOrder(t *testing.T) {
	e := NewElement("rect")
	e.Set("x", "0")
	e.Set("y", "1")
	e.Set("x", "2")
	assert.Equal(t, []Attr{{"x", "2"}, {"y", "1"}}, e.Attrs)

	v, ok := e.Get("y")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	e.Remove("x")
	_, ok = e.Get("x")
	assert.False(t, ok)
	assert.Equal(t, `<rect y="1"></rect>`, e.String())
}

func TestChildren(t *testing.T) {
	g := NewElement("g")
	a, b := NewElement("a"), NewElement("b")
	g.Append(a, b)
	assert.Same(t, b, g.Find("b"))
	assert.Nil(t, g.Find("c"))
	assert.True(t, g.RemoveChild(a))
	assert.False(t, g.RemoveChild(a))
	assert.Len(t, g.Children, 1)
}

func TestClone(t *testing.T) {
	e := &Element{Tag: "text", Text: "a < b", Attrs: []Attr{{"x", "1"}}}
	e.Append(&Element{Tag: "tspan", Attrs: []Attr{{"dy", "2"}}})
	cp := e.Clone()
	assert.Empty(t, cmp.Diff(e, cp))

	cp.Set("x", "3")
	cp.Children[0].Set("dy", "4")
	v, _ := e.Get("x")
	assert.Equal(t, "1", v)
	v, _ = e.Children[0].Get("dy")
	assert.Equal(t, "2", v)

	assert.Equal(t, `<text x="1">a &lt; b<tspan dy="2"></tspan></text>`, e.String())
}

func TestDocument(t *testing.T) {
	root := &Element{Tag: "svg", Attrs: []Attr{{"xmlns", "http://www.w3.org/2000/svg"}, {"xmlns:xlink", "http://www.w3.org/1999/xlink"}}}
	root.Append(&Element{Tag: "rect", Attrs: []Attr{{"width", "1"}}})
	doc := Document{Root: root}
	b, err := doc.Bytes()
	require.NoError(t, err)

	lines := strings.Split(string(b), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`, lines[0])
	assert.Equal(t, `<!DOCTYPE svg PUBLIC "`+DocTypePublic+`" "`+DocTypeSystem+`">`, lines[1])
	assert.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`, lines[2])
	assert.Equal(t, `  <rect width="1"></rect>`, lines[3])
	assert.Equal(t, `</svg>`, lines[4])
	assert.Equal(t, "", lines[5])

	doc.NoDocType = true
	doc.Indent = "\t"
	b, err = doc.Bytes()
	require.NoError(t, err)
	assert.NotContains(t, string(b), "DOCTYPE")
	assert.Contains(t, string(b), "\n\t<rect")

	_, err = (&Document{}).Bytes()
	assert.Error(t, err)
}
