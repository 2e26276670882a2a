package terminal

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
)

// MouseEvent is one decoded mouse report
// Coordinates are 0-indexed cells
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Down   bool
	Motion bool // Position update only, button state unchanged
	Wheel  int  // +1 up, -1 down, 0 otherwise
}

// String returns human-readable button name
func (b MouseButton) String() string {
	switch b {
	case MouseBtnLeft:
		return "Left"
	case MouseBtnMiddle:
		return "Middle"
	case MouseBtnRight:
		return "Right"
	default:
		return "None"
	}
}

// sgrButton decodes the SGR button parameter into an event skeleton
// Bits 0-1: button (0=left, 1=middle, 2=right, 3=release)
// Bits 2-4: shift/alt/ctrl, ignored
// Bit 5 (32): motion
// Bit 6 (64): wheel, id 0 up, id 1 down, ids 2-3 horizontal
func sgrButton(btn int, press bool) MouseEvent {
	var ev MouseEvent
	buttonID := btn & 0x03

	if btn&64 != 0 {
		switch buttonID {
		case 0:
			ev.Wheel = 1
		case 1:
			ev.Wheel = -1
		default:
			// Horizontal scroll: position only, held buttons stay held
			ev.Motion = true
		}
		return ev
	}

	if btn&32 != 0 {
		ev.Motion = true
		return ev
	}

	switch buttonID {
	case 0:
		ev.Button = MouseBtnLeft
	case 1:
		ev.Button = MouseBtnMiddle
	case 2:
		ev.Button = MouseBtnRight
	case 3:
		ev.Button = MouseBtnNone // Legacy release-all
		return ev
	}
	ev.Down = press
	return ev
}
