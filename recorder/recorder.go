package recorder

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/macrokit/macrocli/config"
	"github.com/macrokit/macrocli/desktop"
	"github.com/macrokit/macrocli/types"
	"github.com/macrokit/macrocli/utils"
)

// stopDrainTimeout bounds how long Stop waits for the hook drain goroutine
// after the hooks are torn down.
const stopDrainTimeout = 2 * time.Second

// Callbacks are the observer hooks an embedder can install. They are invoked
// from the hook drain goroutine (OnEvent) or the calling control thread
// (OnStateChange), never while the recorder's lock is held.
type Callbacks struct {
	OnEvent       func(*types.RecordedEvent)
	OnStateChange func(types.RecordingState)
	OnStopHotkey  func()
}

// pressEntry tracks one pressed button between press and release.
type pressEntry struct {
	x, y      int
	pressTime float64
	color     string
	dragArmed bool
}

// Recorder captures raw input, classifies it into click/drag/move/keystroke
// events, resolves each event's window context and appends it to the active
// session.
type Recorder struct {
	mu sync.Mutex

	settings *config.Settings
	backend  desktop.WindowBackend
	hooks    desktop.HookSource
	resolver *WindowResolver
	cb       Callbacks

	state          types.RecordingState
	sessionCounter int
	session        *types.Session

	pressInfo  map[types.MouseButton]*pressEntry
	curX, curY int
	shiftDown  bool

	haveLastMove         bool
	lastMoveTime         float64
	lastMoveX, lastMoveY int

	drainDone chan struct{}
}

// New builds a recorder over the given platform backend and hook source.
func New(settings *config.Settings, backend desktop.WindowBackend, hooks desktop.HookSource, cb Callbacks) *Recorder {
	r := &Recorder{
		settings:  settings,
		backend:   backend,
		hooks:     hooks,
		cb:        cb,
		state:     types.StateIdle,
		pressInfo: make(map[types.MouseButton]*pressEntry),
	}
	r.resolver = NewWindowResolver(backend, nil)
	return r
}

// SetOwnWindowSupplier installs the embedder's own-window handle callback,
// used for the self-click filter and the self-window resolution abort.
func (r *Recorder) SetOwnWindowSupplier(fn func() desktop.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolver.ownHandle = fn
}

// State returns the current recording state.
func (r *Recorder) State() types.RecordingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// CurrentSession returns the active session, or nil outside a recording run.
func (r *Recorder) CurrentSession() *types.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// Start begins a new recording session. It fails if a session is already
// active or if the platform cannot install input hooks.
func (r *Recorder) Start() (*types.Session, error) {
	r.mu.Lock()

	if r.state != types.StateIdle {
		r.mu.Unlock()
		return nil, fmt.Errorf("recording is already in progress")
	}

	r.sessionCounter++
	var name string
	if r.settings.Naming.Policy == "incremental" {
		name = fmt.Sprintf("%s_%03d", r.settings.Naming.Prefix, r.sessionCounter)
	} else {
		name = fmt.Sprintf("%s_%s", r.settings.Naming.Prefix, time.Now().Format("20060102_150405"))
	}

	session := &types.Session{
		ID:                r.sessionCounter,
		Name:              name,
		CreatedAt:         nowSeconds(),
		CoordMode:         r.settings.CoordMode(),
		TargetWindowTitle: r.settings.Recording.TargetWindowTitle,
	}

	clear(r.pressInfo)
	r.haveLastMove = false
	r.resolver.ResetCache()

	if err := r.hooks.Start(); err != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("failed to install input hooks: %w", err)
	}

	r.session = session
	r.state = types.StateRecording
	r.drainDone = make(chan struct{})
	go r.drain(r.hooks.Events(), r.drainDone)

	r.mu.Unlock()

	r.notifyState(types.StateRecording)
	return session, nil
}

// Stop tears down the input hooks and returns the completed session, or nil
// if no session was active. The session is immutable from here on.
func (r *Recorder) Stop() *types.Session {
	r.mu.Lock()

	if r.state == types.StateIdle {
		r.mu.Unlock()
		return nil
	}

	if err := r.hooks.Stop(); err != nil {
		utils.Verbose("hook shutdown failed: %v", err)
	}

	session := r.session
	done := r.drainDone
	r.session = nil
	r.drainDone = nil
	r.state = types.StateIdle
	r.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(stopDrainTimeout):
			utils.Verbose("hook drain did not finish within %v, proceeding", stopDrainTimeout)
		}
	}

	r.notifyState(types.StateIdle)
	return session
}

// Pause suspends event emission. Raw callbacks are still received but
// discarded before classification; a press pending at pause time stays
// tracked, so a release after resume still completes the gesture.
func (r *Recorder) Pause() {
	r.mu.Lock()
	if r.state != types.StateRecording {
		r.mu.Unlock()
		return
	}
	r.state = types.StatePaused
	r.mu.Unlock()

	r.notifyState(types.StatePaused)
}

// Resume re-enables event emission after a pause.
func (r *Recorder) Resume() {
	r.mu.Lock()
	if r.state != types.StatePaused {
		r.mu.Unlock()
		return
	}
	r.state = types.StateRecording
	r.mu.Unlock()

	r.notifyState(types.StateRecording)
}

func (r *Recorder) notifyState(st types.RecordingState) {
	if r.cb.OnStateChange != nil {
		r.cb.OnStateChange(st)
	}
}

func (r *Recorder) drain(events <-chan desktop.RawEvent, done chan struct{}) {
	defer close(done)
	for ev := range events {
		r.dispatch(ev)
	}
}

// dispatch routes one raw sample to its handler. A panic anywhere in handling
// is swallowed here: an escaping panic would kill the drain goroutine and
// permanently break recording, which costs far more than the one lost sample.
func (r *Recorder) dispatch(ev desktop.RawEvent) {
	defer func() {
		if p := recover(); p != nil {
			utils.Verbose("input handler panic recovered: %v", p)
		}
	}()

	switch ev.Kind {
	case desktop.RawMove:
		r.onMove(ev.X, ev.Y)
	case desktop.RawButton:
		r.onButton(ev.X, ev.Y, ev.Button, ev.Pressed)
	case desktop.RawKey:
		r.onKey(ev.VKey, ev.Pressed)
	}
}

func buttonFromRaw(button int) (types.MouseButton, bool) {
	switch button {
	case desktop.RawButtonLeft:
		return types.ButtonLeft, true
	case desktop.RawButtonRight:
		return types.ButtonRight, true
	case desktop.RawButtonMiddle:
		return types.ButtonMiddle, true
	}
	return "", false
}

func (r *Recorder) onMove(x, y int) {
	r.mu.Lock()
	r.curX, r.curY = x, y

	if r.state != types.StateRecording {
		r.mu.Unlock()
		return
	}

	// arm drags for every pressed button that crossed the threshold
	threshold := float64(r.settings.Recording.DragThresholdPX)
	for _, entry := range r.pressInfo {
		if entry.dragArmed {
			continue
		}
		if math.Hypot(float64(x-entry.x), float64(y-entry.y)) >= threshold {
			entry.dragArmed = true
		}
	}

	if !r.settings.Recording.RecordMouseMoves {
		r.mu.Unlock()
		return
	}

	// move sampling: the first move of a session always emits, later ones are
	// rate-limited by interval and distance
	now := nowSeconds()
	if r.haveLastMove {
		if (now-r.lastMoveTime)*1000 < float64(r.settings.Recording.MouseMoveSampleMS) {
			r.mu.Unlock()
			return
		}
		if math.Hypot(float64(x-r.lastMoveX), float64(y-r.lastMoveY)) < float64(r.settings.Recording.MouseMoveMinDistPX) {
			r.mu.Unlock()
			return
		}
	}

	r.haveLastMove = true
	r.lastMoveTime = now
	r.lastMoveX, r.lastMoveY = x, y
	session := r.session
	r.mu.Unlock()

	r.emit(session, &types.RecordedEvent{
		Timestamp: now,
		Type:      types.EventMove,
		Button:    types.ButtonLeft,
		X1:        x,
		Y1:        y,
	})
}

func (r *Recorder) onButton(x, y, button int, pressed bool) {
	mb, ok := buttonFromRaw(button)
	if !ok {
		return
	}

	r.mu.Lock()

	if r.state != types.StateRecording {
		r.mu.Unlock()
		return
	}

	if pressed {
		if r.settings.Recording.IgnoreOwnClicks && r.resolver.IsOwnWindow(x, y) {
			r.mu.Unlock()
			return
		}
		// a stale entry from a pause/resume cycle is overwritten: the newer
		// press always wins
		r.pressInfo[mb] = &pressEntry{
			x:         x,
			y:         y,
			pressTime: nowSeconds(),
			color:     r.backend.PixelColor(x, y),
		}
		r.mu.Unlock()
		return
	}

	entry, tracked := r.pressInfo[mb]
	if !tracked {
		// orphan release with no matching press
		r.mu.Unlock()
		return
	}
	delete(r.pressInfo, mb)
	session := r.session
	r.mu.Unlock()

	// the gesture is stamped with its press time so inter-event gaps reflect
	// when the action began
	if entry.dragArmed {
		endX, endY := x, y
		r.emit(session, &types.RecordedEvent{
			Timestamp: entry.pressTime,
			Type:      types.EventDrag,
			Button:    mb,
			X1:        entry.x,
			Y1:        entry.y,
			X2:        &endX,
			Y2:        &endY,
			Color1:    entry.color,
			Color2:    r.backend.PixelColor(x, y),
		})
		return
	}

	r.emit(session, &types.RecordedEvent{
		Timestamp: entry.pressTime,
		Type:      types.EventClick,
		Button:    mb,
		X1:        entry.x,
		Y1:        entry.y,
		Color1:    entry.color,
	})
}

func (r *Recorder) onKey(vk uint32, pressed bool) {
	if desktop.IsShiftVK(vk) {
		r.mu.Lock()
		r.shiftDown = pressed
		r.mu.Unlock()
		return
	}
	if !pressed {
		return
	}

	r.mu.Lock()
	key := desktop.KeyFromVK(vk, r.shiftDown)
	state := r.state
	session := r.session
	x, y := r.curX, r.curY
	r.mu.Unlock()

	// the stop hotkey is intercepted before classification and is never
	// recorded, whether or not recording is active
	if hotkey := r.settings.Recording.StopHotkey; hotkey != "" && !key.IsZero() && key.Text() == hotkey {
		if r.cb.OnStopHotkey != nil {
			r.cb.OnStopHotkey()
		}
		return
	}

	if state != types.StateRecording || key.IsZero() {
		return
	}

	r.emit(session, &types.RecordedEvent{
		Timestamp: nowSeconds(),
		Type:      types.EventKeystroke,
		X1:        x,
		Y1:        y,
		KeyText:   key.Text(),
	})
}

// emit resolves the event's window context and appends it to the session.
// Resolution is best-effort: if it panics the event is recorded with the
// coordinates it had before the attempt. Capture never loses an event to a
// coordinate-frame problem.
func (r *Recorder) emit(session *types.Session, ev *types.RecordedEvent) {
	if session == nil {
		return
	}

	func() {
		defer func() {
			if p := recover(); p != nil {
				utils.Verbose("window context resolution failed: %v", p)
			}
		}()
		r.resolver.Apply(ev, session)
	}()

	r.mu.Lock()
	session.AddEvent(ev)
	r.mu.Unlock()

	if r.cb.OnEvent != nil {
		r.cb.OnEvent(ev)
	}
}
