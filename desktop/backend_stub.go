//go:build !windows

package desktop

// NewBackend returns the null backend on platforms without native window
// manager support. Every query degrades to its documented sentinel.
func NewBackend() WindowBackend {
	return NullBackend{}
}

// OwnWindow returns 0; there is no own window to filter on this platform.
func OwnWindow() Handle {
	return 0
}
