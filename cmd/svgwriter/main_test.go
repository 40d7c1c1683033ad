package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScene = `
canvas: {width: 40, height: 30}
ops:
  - op: draw
    id: box
    shape: {kind: rect, x: 5, y: 5, width: 10, height: 10}
    paint: {color: "#336699", blur: 2}
  - op: clip
    shape: {kind: circle, cx: 20, cy: 15, r: 10}
  - op: draw
    shape: {kind: line, x1: 0, y1: 0, x2: 40, y2: 30}
    paint: {style: stroke}
`

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRenderAndInspect(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scene.yaml")
	output := filepath.Join(dir, "out.svg")
	require.NoError(t, os.WriteFile(input, []byte(testScene), 0o644))

	run(t, "render", input, "-o", output)
	b, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "<?xml"))

	summary := run(t, "inspect", "--strict", output)
	assert.Contains(t, summary, "40px x 30px")
	assert.Contains(t, summary, "rect #box [5 5 10 10] filter=#flt0")
	assert.Contains(t, summary, "line [0 0 40 30] clip=#clip-0")
	assert.Contains(t, summary, "definitions (2)")
}

func TestRenderStdout(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(input, []byte(testScene), 0o644))

	out := run(t, "render", input)
	assert.Contains(t, out, `<rect x="5" y="5" width="10" height="10"`)
}

func TestRenderErrors(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"render", "missing.json"})
	assert.Error(t, cmd.Execute())
}
