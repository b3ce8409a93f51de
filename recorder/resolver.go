package recorder

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/macrokit/macrocli/desktop"
	"github.com/macrokit/macrocli/types"
)

// titleCacheSize bounds the per-session window-title cache. Enumerating and
// titling windows is the slowest part of the callback path, so repeated
// lookups against the same handle are served from the cache.
const titleCacheSize = 128

// WindowResolver decides which application window an event logically targets
// and rewrites its coordinates into that window's frame. It never drops an
// event: when nothing resolves, the event keeps its raw screen coordinates.
type WindowResolver struct {
	backend   desktop.WindowBackend
	ownHandle func() desktop.Handle
	titles    *lru.Cache[desktop.Handle, string]
}

// NewWindowResolver builds a resolver over the given backend. ownHandle, when
// non-nil, supplies the embedding tool's own window so that events targeting
// the recorder's UI are left untouched.
func NewWindowResolver(backend desktop.WindowBackend, ownHandle func() desktop.Handle) *WindowResolver {
	titles, _ := lru.New[desktop.Handle, string](titleCacheSize)
	return &WindowResolver{
		backend:   backend,
		ownHandle: ownHandle,
		titles:    titles,
	}
}

// ResetCache drops cached titles. Called at session start so a renamed or
// reused handle cannot leak a stale title into a new session.
func (r *WindowResolver) ResetCache() {
	r.titles.Purge()
}

func (r *WindowResolver) ownRoot() desktop.Handle {
	if r.ownHandle == nil {
		return 0
	}
	h := r.ownHandle()
	if h == 0 {
		return 0
	}
	return r.backend.RootOwner(h)
}

// IsOwnWindow reports whether a screen point lands on the tool's own window,
// via the same root-owner equality used during resolution.
func (r *WindowResolver) IsOwnWindow(x, y int) bool {
	own := r.ownRoot()
	if own == 0 {
		return false
	}
	h := r.backend.WindowAtPoint(x, y)
	if h == 0 {
		return false
	}
	return r.backend.RootOwner(h) == own
}

// resolveHandle runs the lookup chain for one mouse point: foreground window
// rect test, app-window enumeration excluding the tool's own window, then the
// foreground window again as a last resort. The three lookups are sequential
// best-effort snapshots; the foreground window can change between them.
// Returns 0 when nothing resolves or the point targets the tool's own UI.
func (r *WindowResolver) resolveHandle(x, y int) desktop.Handle {
	own := r.ownRoot()

	var h desktop.Handle
	if fg := r.backend.ForegroundWindow(); fg != 0 && r.backend.RectContains(fg, x, y) {
		h = fg
	} else {
		h = r.backend.FindAppWindowAt(x, y, own)
		if h == 0 {
			h = r.backend.ForegroundWindow()
		}
	}
	if h == 0 {
		return 0
	}

	root := r.backend.RootOwner(h)
	if own != 0 && root == own {
		return 0
	}
	return root
}

func (r *WindowResolver) title(h desktop.Handle) string {
	if t, ok := r.titles.Get(h); ok {
		return t
	}
	t := r.backend.WindowTitle(h)
	if t != "" {
		r.titles.Add(h, t)
	}
	return t
}

func (r *WindowResolver) convert(h desktop.Handle, x, y int, mode types.CoordMode) (int, int) {
	if mode == types.CoordClient {
		return r.backend.ScreenToClient(h, x, y)
	}
	return r.backend.ScreenToWindow(h, x, y)
}

// Apply normalizes ev into the session's coordinate frame in place and stamps
// the owning window title. It is a strict no-op in Screen mode. Coordinates
// are written only after the owning window fully resolves, so aborting at any
// step leaves the event byte-identical to its pre-resolution form.
func (r *WindowResolver) Apply(ev *types.RecordedEvent, sess *types.Session) {
	mode := sess.CoordMode
	if mode == types.CoordScreen {
		return
	}

	var h desktop.Handle
	if ev.Type == types.EventKeystroke {
		// keystrokes have no click point to test against a window rect
		fg := r.backend.ForegroundWindow()
		if fg == 0 {
			return
		}
		root := r.backend.RootOwner(fg)
		if own := r.ownRoot(); own != 0 && root == own {
			return
		}
		h = root
	} else {
		h = r.resolveHandle(ev.X1, ev.Y1)
		if h == 0 {
			return
		}
	}

	if t := r.title(h); t != "" {
		ev.WindowTitle = t
		// first resolved title becomes the session target; later events with
		// a different title never overwrite it
		if sess.TargetWindowTitle == "" {
			sess.TargetWindowTitle = t
		}
	}

	ev.X1, ev.Y1 = r.convert(h, ev.X1, ev.Y1, mode)

	if ev.Type == types.EventDrag && ev.X2 != nil && ev.Y2 != nil {
		// drag endpoints resolve independently; a drag across window
		// boundaries converts each end against its own window, and an
		// unresolvable end keeps its raw coordinates
		if h2 := r.resolveHandle(*ev.X2, *ev.Y2); h2 != 0 {
			x2, y2 := r.convert(h2, *ev.X2, *ev.Y2, mode)
			*ev.X2, *ev.Y2 = x2, y2
		}
	}
}
