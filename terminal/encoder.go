// @lixen: #focus{sys[term,io,output]}
// @lixen: #interact{trigger[output,ansi]}
package terminal

// Encoder serialises a cell grid into a single ANSI byte stream
// The buffer is reused across frames and grows geometrically
type Encoder struct {
	buf []byte
}

// reserve guarantees capacity for the worst-case frame size
func (e *Encoder) reserve(est int) {
	if cap(e.buf) >= est {
		return
	}
	newCap := max(cap(e.buf)*2, 4096)
	for newCap < est {
		newCap *= 2
	}
	e.buf = make([]byte, 0, newCap)
}

// Encode writes cursor-home then every cell in row-major order
// A colour pair is emitted only when it differs from the last emitted pair,
// so same-colour runs are never re-tagged. The returned slice is valid until the next call
func (e *Encoder) Encode(cells []Cell, width, height int) []byte {
	count := width * height
	if count <= 0 || len(cells) < count {
		return e.buf[:0]
	}
	e.reserve(count * maxCellBytes)

	b := append(e.buf[:0], csiHome...)

	var lastFg, lastBg RGB
	lastValid := false

	for _, c := range cells[:count] {
		if !lastValid || c.Fg != lastFg || c.Bg != lastBg {
			b = appendColors(b, c.Fg, c.Bg)
			lastFg = c.Fg
			lastBg = c.Bg
			lastValid = true
		}
		b = append(b, printable(c.Ch))
	}

	e.buf = b
	return b
}

// Cap reports the current buffer capacity
func (e *Encoder) Cap() int {
	return cap(e.buf)
}

// printable maps control bytes to space and non-ASCII bytes to '?'
// so a cell can never inject a terminal control sequence
func printable(ch byte) byte {
	if ch < 0x20 || ch == 0x7f {
		return ' '
	}
	if ch >= 0x80 {
		return '?'
	}
	return ch
}
