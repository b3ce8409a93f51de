package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrokit/macrocli/types"
)

func TestDefaults(t *testing.T) {
	s := Default()

	assert.Equal(t, 10, s.Recording.DragThresholdPX)
	assert.Equal(t, 50, s.Recording.MouseMoveSampleMS)
	assert.False(t, s.Recording.RecordMouseMoves)
	assert.True(t, s.Recording.IgnoreOwnClicks)
	assert.Equal(t, "F8", s.Recording.StopHotkey)
	assert.Equal(t, types.CoordScreen, s.CoordMode())
	assert.Equal(t, 1.0, s.Replay.SpeedMultiplier)
	assert.Equal(t, "timestamp", s.Naming.Policy)
	assert.Equal(t, "Macro", s.Naming.Prefix)
}

func TestCoordModeFallback(t *testing.T) {
	s := Default()

	s.Recording.CoordMode = "Window"
	assert.Equal(t, types.CoordWindow, s.CoordMode())

	s.Recording.CoordMode = "Client"
	assert.Equal(t, types.CoordClient, s.CoordMode())

	s.Recording.CoordMode = "bogus"
	assert.Equal(t, types.CoordScreen, s.CoordMode())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.ini")

	s := Default()
	s.Recording.DragThresholdPX = 25
	s.Recording.CoordMode = "Client"
	s.Recording.TargetWindowTitle = "Notepad"
	s.Replay.SpeedMultiplier = 0.5
	s.Naming.Policy = "incremental"

	require.NoError(t, Save(s, path))

	loaded := Load(path)
	assert.Equal(t, 25, loaded.Recording.DragThresholdPX)
	assert.Equal(t, types.CoordClient, loaded.CoordMode())
	assert.Equal(t, "Notepad", loaded.Recording.TargetWindowTitle)
	assert.Equal(t, 0.5, loaded.Replay.SpeedMultiplier)
	assert.Equal(t, "incremental", loaded.Naming.Policy)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	loaded := Load(filepath.Join(t.TempDir(), "nope.ini"))
	assert.Equal(t, Default(), loaded)
}

func TestLoadCorruptFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("[recording\nnot ini at all"), 0o644))

	loaded := Load(path)
	assert.Equal(t, Default(), loaded)
}
