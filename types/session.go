package types

// Session is one recording run. Events are append-only and in temporal order;
// the owning recorder is the only writer while the session is active, and the
// session is immutable once recording stops.
type Session struct {
	ID                int              `json:"id"`
	Name              string           `json:"name"`
	CreatedAt         float64          `json:"createdAt"`
	CoordMode         CoordMode        `json:"coordMode"`
	TargetWindowTitle string           `json:"targetWindowTitle,omitempty"`
	Events            []*RecordedEvent `json:"events"`
}

// AddEvent appends an event to the session.
func (s *Session) AddEvent(ev *RecordedEvent) {
	s.Events = append(s.Events, ev)
}
