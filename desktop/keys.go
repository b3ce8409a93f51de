package desktop

import "fmt"

// Key is a normalized keystroke: either a named key (Enter, F5, Left) or a
// single printable character. Normalization happens once at the hook
// adaptation boundary so downstream code never inspects virtual-key codes.
type Key struct {
	Name string // named key, e.g. "Enter"; empty for printable keys
	Char string // printable character; empty for named keys
}

// IsZero reports whether the virtual key had no useful text form, e.g. a bare
// modifier press.
func (k Key) IsZero() bool {
	return k.Name == "" && k.Char == ""
}

// Text returns the recordable text for the key: the character itself for
// printable keys, the key name otherwise.
func (k Key) Text() string {
	if k.Char != "" {
		return k.Char
	}
	return k.Name
}

// Virtual-key codes referenced outside the lookup table.
const (
	VKShift    = 0x10
	VKControl  = 0x11
	VKMenu     = 0x12
	VKLShift   = 0xA0
	VKRShift   = 0xA1
	VKLControl = 0xA2
	VKRControl = 0xA3
	VKLMenu    = 0xA4
	VKRMenu    = 0xA5
)

var namedKeys = map[uint32]string{
	0x08: "Backspace",
	0x09: "Tab",
	0x0D: "Enter",
	0x13: "Pause",
	0x14: "CapsLock",
	0x1B: "Escape",
	0x20: "Space",
	0x21: "PgUp",
	0x22: "PgDn",
	0x23: "End",
	0x24: "Home",
	0x25: "Left",
	0x26: "Up",
	0x27: "Right",
	0x28: "Down",
	0x2C: "PrintScreen",
	0x2D: "Insert",
	0x2E: "Delete",
	0x5B: "LWin",
	0x5C: "RWin",
	0x90: "NumLock",
	0x91: "ScrollLock",
}

// shifted maps the US-layout OEM and digit keys to their shifted characters.
var shifted = map[byte]string{
	'1': "!", '2': "@", '3': "#", '4': "$", '5': "%",
	'6': "^", '7': "&", '8': "*", '9': "(", '0': ")",
	';': ":", '=': "+", ',': "<", '-': "_", '.': ">", '/': "?",
	'`': "~", '[': "{", '\\': "|", ']': "}", '\'': "\"",
}

var oemKeys = map[uint32]byte{
	0xBA: ';', 0xBB: '=', 0xBC: ',', 0xBD: '-', 0xBE: '.', 0xBF: '/',
	0xC0: '`', 0xDB: '[', 0xDC: '\\', 0xDD: ']', 0xDE: '\'',
}

// KeyFromVK converts a Windows virtual-key code to a normalized Key, applying
// a US-layout shift mapping for printables. Modifier keys normalize to the
// zero Key: they are never recorded on their own.
func KeyFromVK(vk uint32, shift bool) Key {
	switch vk {
	case VKShift, VKControl, VKMenu,
		VKLShift, VKRShift, VKLControl, VKRControl, VKLMenu, VKRMenu:
		return Key{}
	}

	if name, ok := namedKeys[vk]; ok {
		return Key{Name: name}
	}

	// F1..F24
	if vk >= 0x70 && vk <= 0x87 {
		return Key{Name: fmt.Sprintf("F%d", vk-0x70+1)}
	}

	// A..Z
	if vk >= 'A' && vk <= 'Z' {
		c := byte(vk)
		if !shift {
			c += 'a' - 'A'
		}
		return Key{Char: string(c)}
	}

	// 0..9
	if vk >= '0' && vk <= '9' {
		c := byte(vk)
		if shift {
			return Key{Char: shifted[c]}
		}
		return Key{Char: string(c)}
	}

	// numpad 0..9
	if vk >= 0x60 && vk <= 0x69 {
		return Key{Char: string(byte('0' + vk - 0x60))}
	}

	if c, ok := oemKeys[vk]; ok {
		if shift {
			return Key{Char: shifted[c]}
		}
		return Key{Char: string(c)}
	}

	return Key{}
}

// IsShiftVK reports whether the code is a shift key, used by the recorder
// to track shift state for printable normalization.
func IsShiftVK(vk uint32) bool {
	return vk == VKShift || vk == VKLShift || vk == VKRShift
}
