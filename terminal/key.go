package terminal

// Key is an input key code
// Printable ASCII (0x20-0x7E) is passed through as its own code
type Key uint16

// KeyMax bounds the key state tables
const KeyMax = 512

// Control and special keys; printable ASCII keys use their byte value
const (
	KeyNone      Key = 0x00
	KeyBackspace Key = 0x08
	KeyTab       Key = 0x09
	KeyEnter     Key = 0x0D
	KeyEscape    Key = 0x1B
	KeySpace     Key = 0x20

	// Navigation
	KeyUp       Key = 0xA0
	KeyDown     Key = 0xA1
	KeyLeft     Key = 0xA2
	KeyRight    Key = 0xA3
	KeyInsert   Key = 0xA4
	KeyDelete   Key = 0xA5
	KeyHome     Key = 0xA6
	KeyEnd      Key = 0xA7
	KeyPageUp   Key = 0xA8
	KeyPageDown Key = 0xA9

	// Function keys
	KeyF1  Key = 0xB0
	KeyF2  Key = 0xB1
	KeyF3  Key = 0xB2
	KeyF4  Key = 0xB3
	KeyF5  Key = 0xB4
	KeyF6  Key = 0xB5
	KeyF7  Key = 0xB6
	KeyF8  Key = 0xB7
	KeyF9  Key = 0xB8
	KeyF10 Key = 0xB9
	KeyF11 Key = 0xBA
	KeyF12 Key = 0xBB
)

// KeyRune returns the key code for a printable ASCII byte, KeyNone otherwise
func KeyRune(b byte) Key {
	if b < 0x20 || b > 0x7e {
		return KeyNone
	}
	return Key(b)
}

// Valid reports whether k fits the state tables
func (k Key) Valid() bool {
	return k > KeyNone && k < KeyMax
}

// keyToName maps special keys to display names
var keyToName = map[Key]string{
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyEnter:     "enter",
	KeyEscape:    "escape",
	KeySpace:     "space",

	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",
	KeyInsert:   "insert",
	KeyDelete:   "delete",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyPageUp:   "page_up",
	KeyPageDown: "page_down",

	KeyF1:  "f1",
	KeyF2:  "f2",
	KeyF3:  "f3",
	KeyF4:  "f4",
	KeyF5:  "f5",
	KeyF6:  "f6",
	KeyF7:  "f7",
	KeyF8:  "f8",
	KeyF9:  "f9",
	KeyF10: "f10",
	KeyF11: "f11",
	KeyF12: "f12",
}

// String returns the key name, or the character itself for printable keys
func (k Key) String() string {
	if name, ok := keyToName[k]; ok {
		return name
	}
	if k > 0x20 && k < 0x7f {
		return string(rune(k))
	}
	return "none"
}

// csiLetterKeys maps the final byte of ESC [ X / ESC O X to a key
var csiLetterKeys = [128]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

// csiTildeKey maps the numeric code of ESC [ N ~ to a key
func csiTildeKey(code int) Key {
	switch code {
	case 1, 7:
		return KeyHome
	case 2:
		return KeyInsert
	case 3:
		return KeyDelete
	case 4, 8:
		return KeyEnd
	case 5:
		return KeyPageUp
	case 6:
		return KeyPageDown
	case 11:
		return KeyF1
	case 12:
		return KeyF2
	case 13:
		return KeyF3
	case 14:
		return KeyF4
	case 15:
		return KeyF5
	case 17:
		return KeyF6
	case 18:
		return KeyF7
	case 19:
		return KeyF8
	case 20:
		return KeyF9
	case 21:
		return KeyF10
	case 23:
		return KeyF11
	case 24:
		return KeyF12
	}
	return KeyNone
}
