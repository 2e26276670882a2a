package terminal

// maxSequence bounds how far an unterminated CSI is scanned before it is
// treated as malformed rather than incomplete
const maxSequence = 32

// EventSink receives decoded input
// All calls happen on the caller's thread during a poll
type EventSink interface {
	KeyEvent(k Key, down bool)
	MouseEvent(ev MouseEvent)
	ResizeEvent(width, height int)
	CloseEvent()
}

// Decode parses as many complete events from data as possible and returns
// the number of bytes consumed. An incomplete trailing sequence is left
// unconsumed so the caller can resume once more bytes arrive
func Decode(data []byte, sink EventSink) int {
	i := 0
	for i < len(data) {
		n := decodeOne(data[i:], sink)
		if n == 0 {
			break
		}
		i += n
	}
	return i
}

// decodeOne parses one event, returns 0 on incomplete input
func decodeOne(data []byte, sink EventSink) int {
	b := data[0]

	// Fast path: printable ASCII
	if b >= 0x20 && b < 0x7f {
		sink.KeyEvent(Key(b), true)
		return 1
	}

	switch b {
	case 0x1b:
		return decodeEscape(data, sink)
	case 0x7f, 0x08:
		sink.KeyEvent(KeyBackspace, true)
		return 1
	case 0x0d, 0x0a:
		sink.KeyEvent(KeyEnter, true)
		return 1
	case 0x09:
		sink.KeyEvent(KeyTab, true)
		return 1
	case 0x03: // Ctrl+C with ISIG disabled
		sink.CloseEvent()
		return 1
	}

	// UTF-8 multibyte: ASCII-only input, consume the whole sequence and drop it
	if b >= 0x80 {
		seqLen := utf8SeqLen(b)
		if seqLen == 0 {
			return 1 // Invalid start byte, skip
		}
		if seqLen > len(data) {
			return 0 // Incomplete UTF-8, wait for more data
		}
		return seqLen
	}

	// Other control characters are ignored
	return 1
}

// decodeEscape handles input starting with ESC
func decodeEscape(data []byte, sink EventSink) int {
	if len(data) == 1 {
		sink.KeyEvent(KeyEscape, true)
		return 1
	}

	switch data[1] {
	case '[':
		return decodeCSI(data, sink)
	case 'O':
		return decodeSS3(data, sink)
	}

	// Unknown introducer: drop the ESC alone and resume at the next byte
	return 1
}

// decodeSS3 parses ESC O X
func decodeSS3(data []byte, sink EventSink) int {
	if len(data) < 3 {
		return 0
	}
	if c := data[2]; c < 0x80 {
		if key := csiLetterKeys[c]; key != KeyNone {
			sink.KeyEvent(key, true)
		}
	}
	return 3
}

// decodeCSI parses ESC [ params final
func decodeCSI(data []byte, sink EventSink) int {
	if len(data) < 3 {
		return 0
	}

	switch data[2] {
	case '<':
		return decodeSGRMouse(data, sink)
	case 'M':
		// Legacy X10 mouse report: ESC [ M b x y, superseded by SGR mode
		if len(data) < 6 {
			return 0
		}
		return 6
	}

	end := 2
	for end < len(data) {
		c := data[end]
		if (c >= '0' && c <= '9') || c == ';' {
			end++
			if end >= maxSequence {
				return 2 // Malformed, drop ESC [
			}
			continue
		}
		break
	}
	if end >= len(data) {
		return 0 // No final byte yet
	}

	final := data[end]
	if final < 0x40 || final > 0x7e {
		return 2 // Not a final byte, drop ESC [
	}

	params := data[2:end]
	var key Key
	if final == '~' {
		key = csiTildeKey(firstParam(params))
	} else {
		key = csiLetterKeys[final]
	}
	if key != KeyNone {
		sink.KeyEvent(key, true)
	}
	return end + 1
}

// decodeSGRMouse parses ESC [ < Btn ; X ; Y M/m
func decodeSGRMouse(data []byte, sink EventSink) int {
	end := 3
	for end < len(data) {
		c := data[end]
		if c == 'M' || c == 'm' {
			break
		}
		if (c < '0' || c > '9') && c != ';' {
			return 3 // Malformed, drop ESC [ <
		}
		end++
		if end >= maxSequence {
			return 3
		}
	}
	if end >= len(data) {
		return 0 // Incomplete
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return end + 1
	}

	ev := sgrButton(btn, data[end] == 'M')
	ev.X = x - 1 // Protocol is 1-indexed
	ev.Y = y - 1
	sink.MouseEvent(ev)
	return end + 1
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y" format
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	state := 0 // 0=btn, 1=x, 2=y
	val := 0
	digits := 0

	for _, b := range data {
		if b == ';' {
			if digits == 0 {
				return 0, 0, 0, false
			}
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			digits = 0
			if state > 2 {
				return 0, 0, 0, false
			}
			continue
		}
		val = val*10 + int(b-'0')
		digits++
		if val > 9999 { // Sanity limit
			return 0, 0, 0, false
		}
	}

	if state != 2 || digits == 0 {
		return 0, 0, 0, false
	}
	return btn, x, val, true
}

// firstParam returns the leading numeric parameter, 0 if absent
func firstParam(params []byte) int {
	val := 0
	for _, b := range params {
		if b == ';' {
			break
		}
		val = val*10 + int(b-'0')
		if val > 9999 {
			return 0
		}
	}
	return val
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	if b < 0x80 {
		return 1
	}
	if b&0xe0 == 0xc0 {
		return 2
	}
	if b&0xf0 == 0xe0 {
		return 3
	}
	if b&0xf8 == 0xf0 {
		return 4
	}
	return 0 // Invalid
}
