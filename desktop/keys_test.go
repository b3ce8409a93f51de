package desktop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromVK_Letters(t *testing.T) {
	assert.Equal(t, "a", KeyFromVK('A', false).Text())
	assert.Equal(t, "A", KeyFromVK('A', true).Text())
	assert.Equal(t, "z", KeyFromVK('Z', false).Text())
}

func TestKeyFromVK_DigitsAndShift(t *testing.T) {
	assert.Equal(t, "7", KeyFromVK('7', false).Text())
	assert.Equal(t, "&", KeyFromVK('7', true).Text())
	assert.Equal(t, "0", KeyFromVK(0x60, false).Text()) // numpad zero
}

func TestKeyFromVK_NamedKeys(t *testing.T) {
	enter := KeyFromVK(0x0D, false)
	assert.Equal(t, "Enter", enter.Name)
	assert.Empty(t, enter.Char)

	assert.Equal(t, "F1", KeyFromVK(0x70, false).Name)
	assert.Equal(t, "F12", KeyFromVK(0x7B, false).Name)
	assert.Equal(t, "Space", KeyFromVK(0x20, false).Name)
}

func TestKeyFromVK_ModifiersAreZero(t *testing.T) {
	for _, vk := range []uint32{VKShift, VKControl, VKMenu, VKLShift, VKRControl} {
		assert.True(t, KeyFromVK(vk, false).IsZero(), "vk=0x%X", vk)
	}
}

func TestKeyFromVK_OEM(t *testing.T) {
	assert.Equal(t, ";", KeyFromVK(0xBA, false).Text())
	assert.Equal(t, ":", KeyFromVK(0xBA, true).Text())
	assert.Equal(t, "/", KeyFromVK(0xBF, false).Text())
}

func TestKeyFromVK_UnknownIsZero(t *testing.T) {
	assert.True(t, KeyFromVK(0xFF, false).IsZero())
}

func TestNullBackendSentinels(t *testing.T) {
	b := NullBackend{}

	assert.Equal(t, Handle(0), b.WindowAtPoint(10, 10))
	assert.Equal(t, Handle(0), b.ForegroundWindow())
	assert.Equal(t, Handle(42), b.RootOwner(42))
	assert.Empty(t, b.WindowTitle(42))
	assert.False(t, b.RectContains(42, 0, 0))

	x, y := b.ScreenToWindow(42, 7, 9)
	assert.Equal(t, 7, x)
	assert.Equal(t, 9, y)

	assert.Equal(t, ColorUnavailable, b.PixelColor(0, 0))
}
