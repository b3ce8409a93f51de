package desktop

// Handle is an opaque top-level window identifier. Zero means "no window".
type Handle uintptr

// ColorUnavailable is the sentinel returned when a pixel sample fails.
const ColorUnavailable = "0x000000"

// WindowBackend is the platform window-manager query surface. Every method
// runs on the hook callback path, so implementations must degrade to a
// harmless default (zero handle, empty string, unchanged coordinates,
// ColorUnavailable) instead of returning errors or panicking.
type WindowBackend interface {
	// WindowAtPoint returns the topmost window under a screen point. The
	// result may be a nested child control rather than an application frame.
	WindowAtPoint(x, y int) Handle

	// FindAppWindowAt enumerates top-level windows front to back and returns
	// the first visible, title-bar-decorated window containing the point,
	// skipping exclude. This bypasses embedded content windows that have no
	// caption, which WindowAtPoint cannot tell apart.
	FindAppWindowAt(x, y int, exclude Handle) Handle

	// ForegroundWindow returns the currently focused top-level window.
	ForegroundWindow() Handle

	// RootOwner walks the owner chain (not just the parent chain) to the
	// top-level owning window. Returns h unchanged if already root or if the
	// walk fails.
	RootOwner(h Handle) Handle

	// WindowTitle returns the window caption, or "" if unavailable.
	WindowTitle(h Handle) string

	// RectContains reports whether a screen point lies within the window's
	// outer bounding rectangle.
	RectContains(h Handle, x, y int) bool

	// ScreenToWindow converts screen coordinates to window-relative ones by
	// subtracting the window's outer top-left origin.
	ScreenToWindow(h Handle, x, y int) (int, int)

	// ScreenToClient converts screen coordinates to client-area coordinates
	// using the OS mapping, which accounts for borders and the title bar.
	ScreenToClient(h Handle, x, y int) (int, int)

	// PixelColor samples the screen color at a point as "0xRRGGBB".
	PixelColor(x, y int) string
}

// NullBackend satisfies every sentinel contract without touching the OS. It
// backs non-Windows builds and tests.
type NullBackend struct{}

func (NullBackend) WindowAtPoint(x, y int) Handle                    { return 0 }
func (NullBackend) FindAppWindowAt(x, y int, exclude Handle) Handle  { return 0 }
func (NullBackend) ForegroundWindow() Handle                         { return 0 }
func (NullBackend) RootOwner(h Handle) Handle                        { return h }
func (NullBackend) WindowTitle(h Handle) string                      { return "" }
func (NullBackend) RectContains(h Handle, x, y int) bool             { return false }
func (NullBackend) ScreenToWindow(h Handle, x, y int) (int, int)     { return x, y }
func (NullBackend) ScreenToClient(h Handle, x, y int) (int, int)     { return x, y }
func (NullBackend) PixelColor(x, y int) string                       { return ColorUnavailable }
