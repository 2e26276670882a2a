package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(g *Grid) []Cell {
	return append([]Cell(nil), g.Cells()...)
}

func TestNewGridDefaults(t *testing.T) {
	g := NewGrid(4, 3)
	require.Equal(t, 4, g.Width())
	require.Equal(t, 3, g.Height())
	for _, c := range g.Cells() {
		assert.Equal(t, DefaultCell, c)
	}

	// Dimensions are clamped to at least one cell
	g = NewGrid(0, -5)
	assert.Equal(t, 1, g.Width())
	assert.Equal(t, 1, g.Height())
}

func TestPutOutOfBoundsIgnored(t *testing.T) {
	g := NewGrid(5, 4)
	before := snapshot(g)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 4}, {100, 100}, {-3, -3}} {
		g.Put(p[0], p[1], 'X', Red, Black)
		g.Print(p[0], p[1], "a", Red, Black)
	}
	assert.Equal(t, before, g.Cells())

	// Print starting outside writes nothing on rows out of range
	g.Print(0, 4, "hello", Red, Black)
	g.Print(0, -1, "hello", Red, Black)
	g.Print(5, 0, "hello", Red, Black)
	assert.Equal(t, before, g.Cells())
}

func TestPrintClipsAtEdge(t *testing.T) {
	g := NewGrid(5, 2)
	g.Print(3, 1, "abcd", Yellow, Blue)

	c, ok := g.At(3, 1)
	require.True(t, ok)
	assert.Equal(t, Cell{Ch: 'a', Fg: Yellow, Bg: Blue}, c)
	c, _ = g.At(4, 1)
	assert.Equal(t, byte('b'), c.Ch)

	// Nothing wraps to the next row or the row start
	c, _ = g.At(0, 1)
	assert.Equal(t, DefaultCell, c)

	// Negative start writes only the in-bounds tail
	g.Print(-2, 0, "xyz", Yellow, Blue)
	c, _ = g.At(0, 0)
	assert.Equal(t, byte('z'), c.Ch)
	c, _ = g.At(1, 0)
	assert.Equal(t, DefaultCell, c)
}

func TestClearAndResize(t *testing.T) {
	g := NewGrid(3, 3)
	g.Clear(White, Red, '#')
	for _, c := range g.Cells() {
		assert.Equal(t, Cell{Ch: '#', Fg: White, Bg: Red}, c)
	}

	require.True(t, g.Resize(6, 2))
	assert.Len(t, g.Cells(), 12)
	for _, c := range g.Cells() {
		assert.Equal(t, DefaultCell, c)
	}

	assert.False(t, g.Resize(0, 10))
	assert.Equal(t, 6, g.Width())
}

func TestRGBPacking(t *testing.T) {
	c := NewRGB(0x12, 0x34, 0x56)
	assert.Equal(t, RGB(0x123456), c)
	assert.Equal(t, uint8(0x12), c.R())
	assert.Equal(t, uint8(0x34), c.G())
	assert.Equal(t, uint8(0x56), c.B())

	assert.Equal(t, c, RGBFromColorful(c.Colorful()))
	assert.Equal(t, Black, Black.Blend(White, 0))
	assert.Equal(t, White, Black.Blend(White, 1))
}
