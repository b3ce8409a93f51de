//go:build !windows

package desktop

// stubHooks is the no-op hook source for platforms without global input
// capture. Start fails so callers learn synchronously that recording cannot
// work here.
type stubHooks struct {
	events chan RawEvent
}

// NewHookSource returns the platform hook source.
func NewHookSource() HookSource {
	return &stubHooks{events: make(chan RawEvent)}
}

func (s *stubHooks) Start() error {
	return ErrHooksUnavailable
}

func (s *stubHooks) Stop() error {
	return nil
}

func (s *stubHooks) Events() <-chan RawEvent {
	return s.events
}

// HooksAvailable reports whether this build can capture global input.
func HooksAvailable() bool {
	return false
}
