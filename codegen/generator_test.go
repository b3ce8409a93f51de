package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrokit/macrocli/config"
	"github.com/macrokit/macrocli/types"
)

func intp(v int) *int { return &v }

func newGen() *Generator {
	return New(config.Default())
}

func TestHeader(t *testing.T) {
	h := newGen().Header(types.CoordWindow)

	assert.Contains(t, h, "#Requires AutoHotkey v2.0")
	assert.Contains(t, h, `CoordMode "Mouse", "Window"`)
	assert.Contains(t, h, `CoordMode "Pixel", "Window"`)
	assert.Contains(t, h, "SetDefaultMouseSpeed 0")
}

func TestClickLines(t *testing.T) {
	g := newGen()

	left := &types.RecordedEvent{Type: types.EventClick, Button: types.ButtonLeft, X1: 100, Y1: 200, Color1: "0xA1B2C3"}
	assert.Equal(t, "    Click 100, 200  ; color=0xA1B2C3 at record time", g.EventLine(left))

	right := &types.RecordedEvent{Type: types.EventClick, Button: types.ButtonRight, X1: 10, Y1: 20}
	assert.Equal(t, `    Click "Right", 10, 20`, g.EventLine(right))
}

func TestDragLines(t *testing.T) {
	g := newGen()

	ev := &types.RecordedEvent{
		Type: types.EventDrag, Button: types.ButtonLeft,
		X1: 1, Y1: 2, X2: intp(3), Y2: intp(4),
		Color1: "0x111111", Color2: "0x222222",
	}
	got := g.EventLine(ev)
	assert.Equal(t,
		"    MouseClickDrag \"Left\", 1, 2, 3, 4  ; start color=0x111111\n    ; end color=0x222222",
		got)
}

func TestMoveLine(t *testing.T) {
	ev := &types.RecordedEvent{Type: types.EventMove, Button: types.ButtonLeft, X1: 5, Y1: 6}
	assert.Equal(t, "    MouseMove 5, 6", newGen().EventLine(ev))
}

func TestSendLines(t *testing.T) {
	g := newGen()

	key := func(text string) *types.RecordedEvent {
		return &types.RecordedEvent{Type: types.EventKeystroke, KeyText: text}
	}

	assert.Equal(t, `    Send "a"`, g.EventLine(key("a")))
	assert.Equal(t, `    Send "{Enter}"`, g.EventLine(key("Enter")))
	assert.Equal(t, `    Send "{F8}"`, g.EventLine(key("F8")))
	assert.Equal(t, `    Send "{+}"`, g.EventLine(key("+")))
	assert.Equal(t, `    Send "{#}"`, g.EventLine(key("#")))
	assert.Equal(t, "    Send \"`\"\"", g.EventLine(key(`"`)))
}

func TestSubroutineEmpty(t *testing.T) {
	sess := &types.Session{Name: "Macro_001", CoordMode: types.CoordScreen}

	got := newGen().Subroutine(sess)
	assert.Equal(t, "Macro_001() {\n    ; No events recorded\n}", got)
}

func TestSubroutineSleepInsertion(t *testing.T) {
	sess := &types.Session{Name: "Macro_001", CoordMode: types.CoordScreen}
	sess.AddEvent(&types.RecordedEvent{Timestamp: 10.0, Type: types.EventClick, Button: types.ButtonLeft, X1: 1, Y1: 1})
	sess.AddEvent(&types.RecordedEvent{Timestamp: 10.03125, Type: types.EventClick, Button: types.ButtonLeft, X1: 2, Y1: 2})
	sess.AddEvent(&types.RecordedEvent{Timestamp: 11.03125, Type: types.EventClick, Button: types.ButtonLeft, X1: 3, Y1: 3})

	got := newGen().Subroutine(sess)
	lines := strings.Split(got, "\n")

	// 30ms gap elided, 1000ms gap kept
	require.Equal(t, []string{
		"Macro_001() {",
		"    Click 1, 1",
		"    Click 2, 2",
		"    Sleep 1000",
		"    Click 3, 3",
		"}",
	}, lines)
}

func TestSubroutineSleepScaledByMultiplier(t *testing.T) {
	s := config.Default()
	s.Replay.SpeedMultiplier = 0.5
	g := New(s)

	sess := &types.Session{Name: "M", CoordMode: types.CoordScreen}
	sess.AddEvent(&types.RecordedEvent{Timestamp: 0, Type: types.EventClick, Button: types.ButtonLeft})
	sess.AddEvent(&types.RecordedEvent{Timestamp: 1.0, Type: types.EventClick, Button: types.ButtonLeft})

	assert.Contains(t, g.Subroutine(sess), "    Sleep 500")
}

func TestSubroutineWinActivateOnTitleTransition(t *testing.T) {
	sess := &types.Session{Name: "M", CoordMode: types.CoordWindow}
	sess.AddEvent(&types.RecordedEvent{Timestamp: 0, Type: types.EventClick, Button: types.ButtonLeft, X1: 1, Y1: 1, WindowTitle: "Editor"})
	sess.AddEvent(&types.RecordedEvent{Timestamp: 0.01, Type: types.EventClick, Button: types.ButtonLeft, X1: 2, Y1: 2, WindowTitle: "Editor"})
	sess.AddEvent(&types.RecordedEvent{Timestamp: 0.02, Type: types.EventKeystroke, KeyText: "a"}) // no title: inherits
	sess.AddEvent(&types.RecordedEvent{Timestamp: 0.03, Type: types.EventClick, Button: types.ButtonLeft, X1: 3, Y1: 3, WindowTitle: "Browser"})

	got := newGen().Subroutine(sess)
	lines := strings.Split(got, "\n")

	require.Equal(t, []string{
		"M() {",
		`    WinActivate "Editor"`,
		"    Click 1, 1",
		"    Click 2, 2",
		`    Send "a"`,
		`    WinActivate "Browser"`,
		"    Click 3, 3",
		"}",
	}, lines)
}

func TestSubroutineNoWinActivateInScreenMode(t *testing.T) {
	sess := &types.Session{Name: "M", CoordMode: types.CoordScreen}
	sess.AddEvent(&types.RecordedEvent{Timestamp: 0, Type: types.EventClick, Button: types.ButtonLeft, WindowTitle: "Editor"})

	assert.NotContains(t, newGen().Subroutine(sess), "WinActivate")
}

func TestFullScript(t *testing.T) {
	a := &types.Session{Name: "Macro_001", CoordMode: types.CoordWindow}
	a.AddEvent(&types.RecordedEvent{Type: types.EventClick, Button: types.ButtonLeft, X1: 1, Y1: 1})
	b := &types.Session{Name: "Macro_002", CoordMode: types.CoordWindow}

	got := newGen().FullScript([]*types.Session{a, b})

	// header takes its mode from the first session
	assert.Contains(t, got, `CoordMode "Mouse", "Window"`)
	assert.Contains(t, got, "Macro_001() {")
	assert.Contains(t, got, "Macro_002() {")
	assert.Contains(t, got, "; Call the last recorded macro:")
	assert.Contains(t, got, "; Macro_002()")
}

func TestFullScriptEmptyIsHeaderOnly(t *testing.T) {
	got := newGen().FullScript(nil)
	assert.Equal(t, newGen().Header(types.CoordScreen), got)
}

func TestAppendSubroutine(t *testing.T) {
	g := newGen()
	sess := &types.Session{Name: "Macro_001", CoordMode: types.CoordClient}

	fresh := g.AppendSubroutine("", sess)
	assert.True(t, strings.HasPrefix(fresh, "#Requires AutoHotkey v2.0"))
	assert.Contains(t, fresh, `CoordMode "Mouse", "Client"`)
	assert.Contains(t, fresh, "Macro_001() {")

	grown := g.AppendSubroutine(fresh, &types.Session{Name: "Macro_002", CoordMode: types.CoordClient})
	assert.Equal(t, 1, strings.Count(grown, "#Requires AutoHotkey v2.0"))
	assert.Contains(t, grown, "Macro_002() {")
}

func TestQuoteEscapingInTitles(t *testing.T) {
	sess := &types.Session{Name: "M", CoordMode: types.CoordWindow}
	sess.AddEvent(&types.RecordedEvent{Type: types.EventClick, Button: types.ButtonLeft, WindowTitle: `My "Special" App`})

	assert.Contains(t, newGen().Subroutine(sess), "    WinActivate \"My `\"Special`\" App\"")
}
