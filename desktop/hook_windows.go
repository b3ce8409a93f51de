//go:build windows

package desktop

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	whMouseLL    = 14
	whKeyboardLL = 13

	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmSysKeyDown  = 0x0104
	wmSysKeyUp    = 0x0105
	wmQuit        = 0x0012
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetCurrentThreadId  = kernel32.NewProc("GetCurrentThreadId")
)

type msLLHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type kbdLLHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

// win32Hooks captures global input with WH_MOUSE_LL/WH_KEYBOARD_LL hooks.
// Both hooks live on one locked OS thread running a message loop; the OS
// serializes delivery per device, so the hook procedures never re-enter.
type win32Hooks struct {
	mu       sync.Mutex
	running  bool
	events   chan RawEvent
	threadID uint32
	done     chan struct{}
}

// NewHookSource returns the native low-level input hook source.
func NewHookSource() HookSource {
	return &win32Hooks{}
}

func (h *win32Hooks) Events() <-chan RawEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.events
}

func (h *win32Hooks) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return fmt.Errorf("hooks already installed")
	}

	h.events = make(chan RawEvent, 1024)
	h.done = make(chan struct{})
	ready := make(chan error, 1)
	h.running = true

	go h.hookThread(ready)

	if err := <-ready; err != nil {
		h.running = false
		return err
	}
	return nil
}

// Stop unhooks and waits for the hook thread to exit, bounded so a wedged
// message loop cannot hang the control thread.
func (h *win32Hooks) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return nil
	}
	h.running = false

	procPostThreadMessageW.Call(uintptr(h.threadID), wmQuit, 0, 0)

	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		// wedged message loop; the thread owns the events channel and closes
		// it if it ever exits, so it is not touched here
	}

	return nil
}

func (h *win32Hooks) hookThread(ready chan<- error) {
	// LL hooks are dispatched on the thread that installed them, so the
	// message loop must stay on this exact OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	// this thread is the only sender, so it must be the one to close the
	// channel; closing from Stop could race a hook callback still emitting
	defer close(h.done)
	defer close(h.events)

	h.threadID = getCurrentThreadID()

	mouseHook, _, err := procSetWindowsHookEx.Call(
		whMouseLL, syscall.NewCallback(h.mouseProc), 0, 0)
	if mouseHook == 0 {
		ready <- fmt.Errorf("SetWindowsHookEx(WH_MOUSE_LL): %v", err)
		return
	}
	keyHook, _, err := procSetWindowsHookEx.Call(
		whKeyboardLL, syscall.NewCallback(h.keyboardProc), 0, 0)
	if keyHook == 0 {
		procUnhookWindowsHookEx.Call(mouseHook)
		ready <- fmt.Errorf("SetWindowsHookEx(WH_KEYBOARD_LL): %v", err)
		return
	}
	ready <- nil

	var m msg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 || m.Message == wmQuit {
			break
		}
	}

	procUnhookWindowsHookEx.Call(mouseHook)
	procUnhookWindowsHookEx.Call(keyHook)
}

func (h *win32Hooks) emit(ev RawEvent) {
	select {
	case h.events <- ev:
	default:
		// channel full, drop the sample rather than block the hook chain
	}
}

func (h *win32Hooks) mouseProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 && h.running {
		info := (*msLLHookStruct)(unsafe.Pointer(lParam))
		ev := RawEvent{
			X:    int(info.Pt.X),
			Y:    int(info.Pt.Y),
			Time: time.Now(),
		}
		switch uint32(wParam) {
		case wmMouseMove:
			ev.Kind = RawMove
			h.emit(ev)
		case wmLButtonDown, wmLButtonUp:
			ev.Kind = RawButton
			ev.Button = RawButtonLeft
			ev.Pressed = uint32(wParam) == wmLButtonDown
			h.emit(ev)
		case wmRButtonDown, wmRButtonUp:
			ev.Kind = RawButton
			ev.Button = RawButtonRight
			ev.Pressed = uint32(wParam) == wmRButtonDown
			h.emit(ev)
		case wmMButtonDown, wmMButtonUp:
			ev.Kind = RawButton
			ev.Button = RawButtonMiddle
			ev.Pressed = uint32(wParam) == wmMButtonDown
			h.emit(ev)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func (h *win32Hooks) keyboardProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 && h.running {
		info := (*kbdLLHookStruct)(unsafe.Pointer(lParam))
		switch uint32(wParam) {
		case wmKeyDown, wmSysKeyDown:
			h.emit(RawEvent{Kind: RawKey, VKey: info.VkCode, Pressed: true, Time: time.Now()})
		case wmKeyUp, wmSysKeyUp:
			h.emit(RawEvent{Kind: RawKey, VKey: info.VkCode, Pressed: false, Time: time.Now()})
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func getCurrentThreadID() uint32 {
	id, _, _ := procGetCurrentThreadId.Call()
	return uint32(id)
}

// HooksAvailable reports whether this build can capture global input.
func HooksAvailable() bool {
	return true
}
