package desktop

import (
	"errors"
	"time"
)

// ErrHooksUnavailable is returned by HookSource.Start when the platform has
// no input-capture facility. Recording cannot function at all in that case,
// so the recorder surfaces it synchronously from Start.
var ErrHooksUnavailable = errors.New("desktop: input hooks are not available on this platform")

// RawKind discriminates raw hook samples.
type RawKind int

const (
	RawMove RawKind = iota
	RawButton
	RawKey
)

// Mouse button numbers used by RawEvent.
const (
	RawButtonLeft   = 1
	RawButtonRight  = 2
	RawButtonMiddle = 3
)

// RawEvent is one sample delivered by the OS input hooks. Mouse samples carry
// absolute screen coordinates; key samples carry the virtual-key code.
type RawEvent struct {
	Kind    RawKind
	X, Y    int
	Button  int
	Pressed bool
	VKey    uint32
	Time    time.Time
}

// HookSource captures raw mouse and keyboard input from the OS. Events for a
// given device arrive in temporal order on the Events channel; the source
// closes the channel once capture has wound down after Stop.
type HookSource interface {
	Start() error
	Stop() error
	Events() <-chan RawEvent
}
