package types

import "fmt"

// EventType identifies the kind of user action a RecordedEvent captured.
type EventType string

const (
	EventClick     EventType = "Click"
	EventDrag      EventType = "Drag"
	EventMove      EventType = "Move"
	EventKeystroke EventType = "Key"
)

// MouseButton identifies which mouse button an event belongs to.
// The values match the button names AutoHotkey expects.
type MouseButton string

const (
	ButtonLeft   MouseButton = "Left"
	ButtonRight  MouseButton = "Right"
	ButtonMiddle MouseButton = "Middle"
)

// CoordMode is the coordinate frame a session records in.
type CoordMode string

const (
	CoordScreen CoordMode = "Screen"
	CoordWindow CoordMode = "Window"
	CoordClient CoordMode = "Client"
)

// RecordingState is the recorder lifecycle state.
type RecordingState string

const (
	StateIdle      RecordingState = "Idle"
	StateRecording RecordingState = "Recording"
	StatePaused    RecordingState = "Paused"
)

// RecordedEvent is a single observed user action. Coordinates are screen-space
// when the event is built and may be rewritten once, in place, by the window
// context resolver before the event is appended to a session. After that they
// are final.
type RecordedEvent struct {
	Timestamp   float64     `json:"timestamp"`
	Type        EventType   `json:"type"`
	Button      MouseButton `json:"button,omitempty"`
	X1          int         `json:"x1"`
	Y1          int         `json:"y1"`
	X2          *int        `json:"x2,omitempty"`
	Y2          *int        `json:"y2,omitempty"`
	Color1      string      `json:"color1,omitempty"`
	Color2      string      `json:"color2,omitempty"`
	WindowTitle string      `json:"windowTitle,omitempty"`
	KeyText     string      `json:"keyText,omitempty"`
}

// Description returns a short human-readable summary, used by the CLI event
// stream and the status surfaces.
func (e *RecordedEvent) Description() string {
	switch e.Type {
	case EventClick:
		if e.Color1 != "" {
			return fmt.Sprintf("%s Click at (%d, %d) color=%s", e.Button, e.X1, e.Y1, e.Color1)
		}
		return fmt.Sprintf("%s Click at (%d, %d)", e.Button, e.X1, e.Y1)
	case EventDrag:
		x2, y2 := 0, 0
		if e.X2 != nil {
			x2 = *e.X2
		}
		if e.Y2 != nil {
			y2 = *e.Y2
		}
		return fmt.Sprintf("%s Drag from (%d, %d) to (%d, %d)", e.Button, e.X1, e.Y1, x2, y2)
	case EventMove:
		return fmt.Sprintf("Move to (%d, %d)", e.X1, e.Y1)
	case EventKeystroke:
		if e.KeyText == "" {
			return "Key: ?"
		}
		return fmt.Sprintf("Key: %s", e.KeyText)
	}
	return "Unknown event"
}
