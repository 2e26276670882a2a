package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simSession returns a tcell session backed by a simulation screen
func simSession(t *testing.T, mouse bool) (*tcellSession, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	s := newTcellSession(SessionOptions{Mouse: mouse}).(*tcellSession)
	s.newScreen = func() (tcell.Screen, error) { return sim, nil }
	return s, sim
}

func TestTcellKeyMapping(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want Key
	}{
		{tcell.KeyRune, 'a', 'a'},
		{tcell.KeyRune, '~', '~'},
		{tcell.KeyRune, ' ', KeySpace},
		{tcell.KeyRune, 'é', KeyNone},
		{tcell.KeyEnter, 0, KeyEnter},
		{tcell.KeyTab, 0, KeyTab},
		{tcell.KeyBackspace, 0, KeyBackspace},
		{tcell.KeyBackspace2, 0, KeyBackspace},
		{tcell.KeyEscape, 0, KeyEscape},
		{tcell.KeyUp, 0, KeyUp},
		{tcell.KeyDown, 0, KeyDown},
		{tcell.KeyLeft, 0, KeyLeft},
		{tcell.KeyRight, 0, KeyRight},
		{tcell.KeyInsert, 0, KeyInsert},
		{tcell.KeyDelete, 0, KeyDelete},
		{tcell.KeyHome, 0, KeyHome},
		{tcell.KeyEnd, 0, KeyEnd},
		{tcell.KeyPgUp, 0, KeyPageUp},
		{tcell.KeyPgDn, 0, KeyPageDown},
		{tcell.KeyF13, 0, KeyNone},
	}
	for _, tt := range tests {
		got := tcellKey(tcell.NewEventKey(tt.key, tt.r, tcell.ModNone))
		assert.Equal(t, tt.want, got, "tcell key %v rune %q", tt.key, tt.r)
	}

	fkeys := []tcell.Key{
		tcell.KeyF1, tcell.KeyF2, tcell.KeyF3, tcell.KeyF4, tcell.KeyF5, tcell.KeyF6,
		tcell.KeyF7, tcell.KeyF8, tcell.KeyF9, tcell.KeyF10, tcell.KeyF11, tcell.KeyF12,
	}
	want := []Key{KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12}
	for i, k := range fkeys {
		assert.Equal(t, want[i], tcellKey(tcell.NewEventKey(k, 0, tcell.ModNone)), "F%d", i+1)
	}
}

func TestTcellDispatchKeysAndResize(t *testing.T) {
	s, _ := simSession(t, false)
	var sink recordSink

	s.dispatch(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), &sink)
	s.dispatch(tcell.NewEventKey(tcell.KeyRune, 'ж', tcell.ModNone), &sink)
	s.dispatch(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), &sink)
	s.dispatch(tcell.NewEventResize(132, 43), &sink)

	assert.Equal(t, []Key{'z'}, sink.keys)
	assert.Equal(t, 1, sink.closes)
	assert.Equal(t, [][2]int{{132, 43}}, sink.resizes)
}

func TestTcellDispatchMouseEdges(t *testing.T) {
	s, _ := simSession(t, true)

	steps := []struct {
		name string
		x, y int
		btns tcell.ButtonMask
		want []MouseEvent
	}{
		{"left press", 3, 4, tcell.Button1,
			[]MouseEvent{{X: 3, Y: 4, Button: MouseBtnLeft, Down: true}}},
		{"drag", 5, 4, tcell.Button1,
			[]MouseEvent{{X: 5, Y: 4, Motion: true}}},
		{"wheel while held", 5, 4, tcell.Button1 | tcell.WheelUp,
			[]MouseEvent{{X: 5, Y: 4, Wheel: 1}, {X: 5, Y: 4, Motion: true}}},
		{"wheel down", 5, 4, tcell.Button1 | tcell.WheelDown,
			[]MouseEvent{{X: 5, Y: 4, Wheel: -1}, {X: 5, Y: 4, Motion: true}}},
		{"left release", 5, 4, tcell.ButtonNone,
			[]MouseEvent{{X: 5, Y: 4, Button: MouseBtnLeft}}},
		{"middle and right", 6, 7, tcell.Button2 | tcell.Button3,
			[]MouseEvent{
				{X: 6, Y: 7, Button: MouseBtnMiddle, Down: true},
				{X: 6, Y: 7, Button: MouseBtnRight, Down: true},
			}},
		{"right release", 6, 7, tcell.Button3,
			[]MouseEvent{{X: 6, Y: 7, Button: MouseBtnRight}}},
		{"plain move", 0, 0, tcell.Button3,
			[]MouseEvent{{Motion: true}}},
	}
	for _, st := range steps {
		var sink recordSink
		s.dispatch(tcell.NewEventMouse(st.x, st.y, st.btns, tcell.ModNone), &sink)
		assert.Equal(t, st.want, sink.mice, st.name)
	}
}

func TestTcellSessionLifecycle(t *testing.T) {
	s, sim := simSession(t, true)

	w, h, err := s.Init(0, 0, "cellbox")
	require.NoError(t, err)
	assert.Equal(t, 80, w)
	assert.Equal(t, 25, h)
	assert.Equal(t, "cellbox", sim.GetTitle())

	// Second Init reports the current size without reinitialising
	w2, h2, err := s.Init(10, 10, "")
	require.NoError(t, err)
	assert.Equal(t, w, w2)
	assert.Equal(t, h, h2)

	cells := []Cell{
		{Ch: 'h', Fg: Red, Bg: Black},
		{Ch: 0x01, Fg: Red, Bg: Black},
		{Ch: 'i', Fg: Green, Bg: Blue},
	}
	require.NoError(t, s.Present(cells, 3, 1))

	contents, cw, _ := sim.GetContents()
	require.GreaterOrEqual(t, cw, 3)
	assert.Equal(t, []rune{'h'}, contents[0].Runes)
	assert.Equal(t, []rune{' '}, contents[1].Runes)
	assert.Equal(t, []rune{'i'}, contents[2].Runes)
	fg, bg, _ := contents[2].Style.Decompose()
	assert.Equal(t, tcell.NewHexColor(int32(Green)), fg)
	assert.Equal(t, tcell.NewHexColor(int32(Blue)), bg)

	sim.InjectKey(tcell.KeyF5, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	sim.InjectMouse(1, 2, tcell.Button1, tcell.ModNone)

	var sink recordSink
	require.Eventually(t, func() bool {
		require.NoError(t, s.PollEvents(&sink))
		return len(sink.keys) >= 2 && len(sink.mice) >= 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []Key{KeyF5, 'q'}, sink.keys)
	assert.Equal(t, MouseEvent{X: 1, Y: 2, Button: MouseBtnLeft, Down: true}, sink.mice[0])

	s.Fini()
	s.Fini()
	assert.ErrorIs(t, s.Present(cells, 3, 1), ErrSessionFinished)
	_, _, err = s.Init(0, 0, "")
	assert.ErrorIs(t, err, ErrSessionFinished)
}
