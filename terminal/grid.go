package terminal

// Cell represents a single terminal cell
type Cell struct {
	Ch byte
	Fg RGB
	Bg RGB
}

// DefaultCell is a space, light-gray on black
var DefaultCell = Cell{Ch: ' ', Fg: LightGray, Bg: Black}

// Grid is a row-major width*height buffer of cells
// Only the caller's thread touches it; no synchronisation
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// NewGrid allocates a grid filled with DefaultCell, dimensions clamped to at least 1
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.alloc(max(width, 1), max(height, 1))
	return g
}

// Resize reallocates the grid and resets every cell to default
// Non-positive dimensions are ignored and report false
func (g *Grid) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	g.alloc(width, height)
	return true
}

func (g *Grid) alloc(width, height int) {
	size := width * height
	if cap(g.cells) < size {
		g.cells = make([]Cell, size)
	} else {
		g.cells = g.cells[:size]
	}
	g.width = width
	g.height = height
	g.Reset()
}

// Reset fills every cell with DefaultCell
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = DefaultCell
	}
}

// Width returns the column count
func (g *Grid) Width() int { return g.width }

// Height returns the row count
func (g *Grid) Height() int { return g.height }

// Cells exposes the backing row-major slice: cells[y*width+x]
func (g *Grid) Cells() []Cell { return g.cells }

// Clear fills every cell
func (g *Grid) Clear(fg, bg RGB, ch byte) {
	c := Cell{Ch: ch, Fg: fg, Bg: bg}
	for i := range g.cells {
		g.cells[i] = c
	}
}

// Put writes one cell; out-of-bounds coordinates are silently ignored
func (g *Grid) Put(x, y int, ch byte, fg, bg RGB) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = Cell{Ch: ch, Fg: fg, Bg: bg}
}

// Print writes s left-to-right from x without wrapping
// Bytes falling outside the row are dropped individually
func (g *Grid) Print(x, y int, s string, fg, bg RGB) {
	for i := 0; i < len(s); i++ {
		g.Put(x+i, y, s[i], fg, bg)
	}
}

// At returns the cell at (x,y) and whether it is in bounds
func (g *Grid) At(x, y int) (Cell, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Cell{}, false
	}
	return g.cells[y*g.width+x], true
}
