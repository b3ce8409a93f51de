//go:build windows

package desktop

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	gaRootOwner = 3

	gwlStyle  = -16
	wsCaption = 0x00C00000
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procWindowFromPoint    = user32.NewProc("WindowFromPoint")
	procGetForegroundWnd   = user32.NewProc("GetForegroundWindow")
	procGetAncestor        = user32.NewProc("GetAncestor")
	procGetWindowTextW     = user32.NewProc("GetWindowTextW")
	procGetWindowRect      = user32.NewProc("GetWindowRect")
	procScreenToClient     = user32.NewProc("ScreenToClient")
	procEnumWindows        = user32.NewProc("EnumWindows")
	procIsWindowVisible    = user32.NewProc("IsWindowVisible")
	procGetWindowLongW     = user32.NewProc("GetWindowLongW")
	procGetDC              = user32.NewProc("GetDC")
	procReleaseDC          = user32.NewProc("ReleaseDC")
	procGetPixel           = gdi32.NewProc("GetPixel")

	procGetConsoleWindow = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetConsoleWindow")
)

// OwnWindow returns this process's console window, so the recorder can filter
// clicks that land on its own UI. Zero when the process has no console.
func OwnWindow() Handle {
	h, _, _ := procGetConsoleWindow.Call()
	return Handle(h)
}

type point struct {
	X, Y int32
}

type rect struct {
	Left, Top, Right, Bottom int32
}

// Win32Backend implements WindowBackend against user32/gdi32. All calls
// swallow failures and fall back to the interface's sentinel values.
type Win32Backend struct{}

// NewBackend returns the native window backend for this platform.
func NewBackend() WindowBackend {
	return Win32Backend{}
}

func (Win32Backend) WindowAtPoint(x, y int) Handle {
	// POINT is passed by value; on amd64 the 8-byte struct packs into one arg.
	arg := uintptr(uint32(int32(x))) | uintptr(uint32(int32(y)))<<32
	h, _, _ := procWindowFromPoint.Call(arg)
	return Handle(h)
}

func (b Win32Backend) FindAppWindowAt(x, y int, exclude Handle) Handle {
	var found Handle
	cb := syscall.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
		h := Handle(hwnd)
		if h == exclude {
			return 1 // continue
		}
		if vis, _, _ := procIsWindowVisible.Call(hwnd); vis == 0 {
			return 1
		}
		if !b.RectContains(h, x, y) {
			return 1
		}
		style, _, _ := procGetWindowLongW.Call(hwnd, uintptr(gwlStyle))
		if uint32(style)&wsCaption != wsCaption {
			// content window without a title bar, keep looking
			return 1
		}
		found = h
		return 0 // stop enumeration
	})
	procEnumWindows.Call(cb, 0)
	return found
}

func (Win32Backend) ForegroundWindow() Handle {
	h, _, _ := procGetForegroundWnd.Call()
	return Handle(h)
}

func (Win32Backend) RootOwner(h Handle) Handle {
	if h == 0 {
		return h
	}
	root, _, _ := procGetAncestor.Call(uintptr(h), uintptr(gaRootOwner))
	if root == 0 {
		return h
	}
	return Handle(root)
}

func (Win32Backend) WindowTitle(h Handle) string {
	if h == 0 {
		return ""
	}
	var buf [512]uint16
	n, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

func (Win32Backend) RectContains(h Handle, x, y int) bool {
	if h == 0 {
		return false
	}
	var r rect
	ok, _, _ := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if ok == 0 {
		return false
	}
	return int32(x) >= r.Left && int32(x) < r.Right && int32(y) >= r.Top && int32(y) < r.Bottom
}

func (Win32Backend) ScreenToWindow(h Handle, x, y int) (int, int) {
	if h == 0 {
		return x, y
	}
	var r rect
	ok, _, _ := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if ok == 0 {
		return x, y
	}
	return x - int(r.Left), y - int(r.Top)
}

func (Win32Backend) ScreenToClient(h Handle, x, y int) (int, int) {
	if h == 0 {
		return x, y
	}
	pt := point{X: int32(x), Y: int32(y)}
	ok, _, _ := procScreenToClient.Call(uintptr(h), uintptr(unsafe.Pointer(&pt)))
	if ok == 0 {
		return x, y
	}
	return int(pt.X), int(pt.Y)
}

func (Win32Backend) PixelColor(x, y int) string {
	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return ColorUnavailable
	}
	defer procReleaseDC.Call(0, hdc)

	pixel, _, _ := procGetPixel.Call(hdc, uintptr(int32(x)), uintptr(int32(y)))
	if int32(pixel) == -1 { // CLR_INVALID
		return ColorUnavailable
	}
	// COLORREF is 0x00BBGGRR
	r := pixel & 0xFF
	g := (pixel >> 8) & 0xFF
	b := (pixel >> 16) & 0xFF
	return fmt.Sprintf("0x%02X%02X%02X", r, g, b)
}
