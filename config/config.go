package config

import (
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/macrokit/macrocli/types"
)

// RecordingSettings controls capture and classification.
type RecordingSettings struct {
	RecordMouseMoves   bool   `ini:"record_mouse_moves"`
	MouseMoveSampleMS  int    `ini:"mouse_move_sample_ms"`
	MouseMoveMinDistPX int    `ini:"mouse_move_min_dist_px"`
	DragThresholdPX    int    `ini:"drag_threshold_px"`
	CoordMode          string `ini:"coord_mode"` // Screen / Window / Client
	TargetWindowTitle  string `ini:"target_window_title"`
	IgnoreOwnClicks    bool   `ini:"ignore_own_clicks"`
	StopHotkey         string `ini:"stop_hotkey"` // named key, e.g. "F8"; empty disables
	ColorFormat        string `ini:"color_format"`
}

// ReplaySettings controls script execution.
type ReplaySettings struct {
	SpeedMultiplier float64 `ini:"speed_multiplier"`
	AhkExePath      string  `ini:"ahk_exe_path"` // auto-detect if empty
}

// NamingSettings controls how recorded macros are named.
type NamingSettings struct {
	Policy string `ini:"policy"` // "timestamp" or "incremental"
	Prefix string `ini:"prefix"`
}

// Settings is the full application configuration, persisted as an INI file.
type Settings struct {
	Recording RecordingSettings `ini:"recording"`
	Replay    ReplaySettings    `ini:"replay"`
	Naming    NamingSettings    `ini:"naming"`
}

// Default returns the settings used when no config file exists or the file
// cannot be parsed.
func Default() *Settings {
	return &Settings{
		Recording: RecordingSettings{
			RecordMouseMoves:   false,
			MouseMoveSampleMS:  50,
			MouseMoveMinDistPX: 2,
			DragThresholdPX:    10,
			CoordMode:          string(types.CoordScreen),
			IgnoreOwnClicks:    true,
			StopHotkey:         "F8",
			ColorFormat:        "0x",
		},
		Replay: ReplaySettings{
			SpeedMultiplier: 1.0,
		},
		Naming: NamingSettings{
			Policy: "timestamp",
			Prefix: "Macro",
		},
	}
}

// CoordMode returns the recording coordinate mode, falling back to Screen for
// unknown values.
func (s *Settings) CoordMode() types.CoordMode {
	switch types.CoordMode(s.Recording.CoordMode) {
	case types.CoordWindow:
		return types.CoordWindow
	case types.CoordClient:
		return types.CoordClient
	default:
		return types.CoordScreen
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return filepath.Join(".", "macrocli", "config.ini")
		}
		dir = home
	}
	return filepath.Join(dir, "macrocli", "config.ini")
}

// Load reads settings from path, falling back to defaults when the file is
// missing or unparseable.
func Load(path string) *Settings {
	s := Default()

	if _, err := os.Stat(path); err != nil {
		return s
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return Default()
	}
	if err := cfg.MapTo(s); err != nil {
		return Default()
	}
	return s
}

// Save persists settings to path, creating the config directory if needed.
func Save(s *Settings, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	cfg := ini.Empty()
	if err := cfg.ReflectFrom(s); err != nil {
		return err
	}
	return cfg.SaveTo(path)
}
