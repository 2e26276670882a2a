// @focus: #terminal { ansi }
package terminal

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	csiHome  = []byte("\x1b[H")
	csiSGR0  = []byte("\x1b[0m")
	csiRIS   = []byte("\x1bc")      // Reset to Initial State (emergency)
	csiFgRGB = []byte("\x1b[38;2;") // followed by R;G;B;m
	csiBgRGB = []byte("\x1b[48;2;") // followed by R;G;B;m

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")

	// Mouse: X10 click, button-event drag, urxvt extended, SGR extended
	// Disabled in reverse order of enabling
	csiMouseOn  = []byte("\x1b[?1000h\x1b[?1002h\x1b[?1015h\x1b[?1006h")
	csiMouseOff = []byte("\x1b[?1006l\x1b[?1015l\x1b[?1002l\x1b[?1000l")

	// xterm window title stack
	csiTitlePush = []byte("\x1b[22;0t")
	csiTitlePop  = []byte("\x1b[23;0t")
	oscTitle     = []byte("\x1b]0;") // followed by title BEL
)

// maxCellBytes is the worst-case encoded size of one cell:
// two 19-byte truecolor sequences plus the character, rounded up
const maxCellBytes = 45

// appendInt appends a decimal integer without allocation
// Optimized for colour channels (0-255)
func appendInt(b []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return append(b, byte(n)+'0')
	}
	if n < 100 {
		return append(b, byte(n/10)+'0', byte(n%10)+'0')
	}
	if n < 1000 {
		return append(b, byte(n/100)+'0', byte(n/10%10)+'0', byte(n%10)+'0')
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	return append(b, buf[i:]...)
}

// appendRGB appends "R;G;Bm"
func appendRGB(b []byte, c RGB) []byte {
	b = appendInt(b, int(c.R()))
	b = append(b, ';')
	b = appendInt(b, int(c.G()))
	b = append(b, ';')
	b = appendInt(b, int(c.B()))
	return append(b, 'm')
}

// appendColors appends a foreground-set + background-set escape pair
func appendColors(b []byte, fg, bg RGB) []byte {
	b = append(b, csiFgRGB...)
	b = appendRGB(b, fg)
	b = append(b, csiBgRGB...)
	return appendRGB(b, bg)
}

// appendTitle appends an OSC 0 window-title sequence, stripping control bytes
func appendTitle(b []byte, title string) []byte {
	b = append(b, oscTitle...)
	for i := 0; i < len(title); i++ {
		if c := title[i]; c >= 0x20 && c != 0x7f {
			b = append(b, c)
		}
	}
	return append(b, 0x07)
}

// appendEnterSequence appends the session setup: title stack push and title,
// alternate screen, hidden cursor, then mouse reporting
func appendEnterSequence(b []byte, title string, mouse bool) []byte {
	b = append(b, csiTitlePush...)
	if title != "" {
		b = appendTitle(b, title)
	}
	b = append(b, csiAltScreenEnter...)
	b = append(b, csiCursorHide...)
	if mouse {
		b = append(b, csiMouseOn...)
	}
	return b
}

// appendExitSequence undoes appendEnterSequence in reverse, resetting SGR
// before the cursor is shown again
func appendExitSequence(b []byte, mouse bool) []byte {
	if mouse {
		b = append(b, csiMouseOff...)
	}
	b = append(b, csiSGR0...)
	b = append(b, csiCursorShow...)
	b = append(b, csiAltScreenExit...)
	return append(b, csiTitlePop...)
}
