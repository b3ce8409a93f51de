package codegen

import (
	"fmt"
	"strings"

	"github.com/macrokit/macrocli/config"
	"github.com/macrokit/macrocli/types"
)

// sleepFloorMS is the smallest inter-event gap worth reproducing. Anything at
// or below it replays back-to-back.
const sleepFloorMS = 50

// Generator renders recorded sessions as AutoHotkey v2 script text. Each
// session becomes one parameterless function named after the session.
type Generator struct {
	settings *config.Settings
}

// New builds a generator. Replay speed and coordinate-mode defaults come from
// settings.
func New(settings *config.Settings) *Generator {
	return &Generator{settings: settings}
}

// Header emits the script prologue: the v2 requirement and the coordinate
// mode for mouse and pixel commands.
func (g *Generator) Header(mode types.CoordMode) string {
	lines := []string{
		"#Requires AutoHotkey v2.0",
		fmt.Sprintf("CoordMode \"Mouse\", %q", string(mode)),
		fmt.Sprintf("CoordMode \"Pixel\", %q", string(mode)),
		"SetDefaultMouseSpeed 0",
		"",
	}
	return strings.Join(lines, "\n")
}

// EventLine renders one event as script statement(s), without timing.
func (g *Generator) EventLine(ev *types.RecordedEvent) string {
	switch ev.Type {
	case types.EventClick:
		return clickLine(ev)
	case types.EventDrag:
		return dragLines(ev)
	case types.EventMove:
		return fmt.Sprintf("    MouseMove %d, %d", ev.X1, ev.Y1)
	case types.EventKeystroke:
		return sendLine(ev.KeyText)
	}
	return fmt.Sprintf("    ; Unknown event type: %s", ev.Type)
}

func clickLine(ev *types.RecordedEvent) string {
	var comment string
	if ev.Color1 != "" {
		comment = fmt.Sprintf("  ; color=%s at record time", ev.Color1)
	}
	if ev.Button == types.ButtonLeft {
		return fmt.Sprintf("    Click %d, %d%s", ev.X1, ev.Y1, comment)
	}
	return fmt.Sprintf("    Click %q, %d, %d%s", string(ev.Button), ev.X1, ev.Y1, comment)
}

func dragLines(ev *types.RecordedEvent) string {
	x2, y2 := ev.X1, ev.Y1
	if ev.X2 != nil && ev.Y2 != nil {
		x2, y2 = *ev.X2, *ev.Y2
	}

	var comment string
	if ev.Color1 != "" {
		comment = fmt.Sprintf("  ; start color=%s", ev.Color1)
	}

	line := fmt.Sprintf("    MouseClickDrag %q, %d, %d, %d, %d%s",
		string(ev.Button), ev.X1, ev.Y1, x2, y2, comment)
	if ev.Color2 != "" {
		line += fmt.Sprintf("\n    ; end color=%s", ev.Color2)
	}
	return line
}

// sendLine renders a keystroke. Named keys use brace syntax; printable
// characters that are Send metacharacters are braced too so they arrive
// literally.
func sendLine(text string) string {
	if len(text) != 1 {
		return fmt.Sprintf("    Send \"{%s}\"", text)
	}
	switch text {
	case "!", "+", "^", "#", "{", "}":
		return fmt.Sprintf("    Send \"{%s}\"", text)
	case `"`:
		return "    Send \"`\"\""
	}
	return fmt.Sprintf("    Send %q", text)
}

// ahkQuote renders s as an AHK v2 double-quoted string literal.
func ahkQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "`\"") + `"`
}

// Subroutine renders one session as a function. Inter-event gaps become Sleep
// statements, scaled by the replay speed multiplier; gaps at or under 50ms are
// elided. In Window and Client modes a WinActivate is emitted whenever the
// owning window title changes; events without a title inherit the previous
// activation.
func (g *Generator) Subroutine(sess *types.Session) string {
	lines := []string{fmt.Sprintf("%s() {", sess.Name)}

	if len(sess.Events) == 0 {
		lines = append(lines, "    ; No events recorded")
	} else {
		activateOnTitle := sess.CoordMode != types.CoordScreen
		var prev float64
		havePrev := false
		activeTitle := ""
		for _, ev := range sess.Events {
			if havePrev {
				gapMS := int((ev.Timestamp - prev) * 1000)
				gapMS = int(float64(gapMS) * g.settings.Replay.SpeedMultiplier)
				if gapMS > sleepFloorMS {
					lines = append(lines, fmt.Sprintf("    Sleep %d", gapMS))
				}
			}
			if activateOnTitle && ev.WindowTitle != "" && ev.WindowTitle != activeTitle {
				lines = append(lines, "    WinActivate "+ahkQuote(ev.WindowTitle))
				activeTitle = ev.WindowTitle
			}
			lines = append(lines, g.EventLine(ev))
			prev = ev.Timestamp
			havePrev = true
		}
	}

	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

// FullScript renders the header plus one function per session, with a
// commented call to the most recent macro at the end.
func (g *Generator) FullScript(sessions []*types.Session) string {
	if len(sessions) == 0 {
		return g.Header(g.settings.CoordMode())
	}

	parts := []string{g.Header(sessions[0].CoordMode)}
	for _, sess := range sessions {
		parts = append(parts, g.Subroutine(sess), "")
	}

	last := sessions[len(sessions)-1]
	parts = append(parts,
		"; Call the last recorded macro:",
		fmt.Sprintf("; %s()", last.Name),
	)
	return strings.Join(parts, "\n")
}

// AppendSubroutine adds a session's function to an existing script, emitting
// a fresh header when the script is empty.
func (g *Generator) AppendSubroutine(existing string, sess *types.Session) string {
	sub := g.Subroutine(sess)
	if strings.TrimSpace(existing) == "" {
		return g.Header(sess.CoordMode) + "\n" + sub + "\n"
	}
	return existing + "\n\n" + sub + "\n"
}
