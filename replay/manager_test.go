package replay

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `#Requires AutoHotkey v2.0
CoordMode "Mouse", "Screen"

Macro_001() {
    Click 100, 200
}

Macro_20260209_120000() {
    Click 1, 2
}
`

func TestExtractMacroNames(t *testing.T) {
	names := ExtractMacroNames(sampleScript)
	assert.Equal(t, []string{"Macro_001", "Macro_20260209_120000"}, names)

	assert.Empty(t, ExtractMacroNames("Click 1, 2"))
	// indented definitions are not macro entry points
	assert.Empty(t, ExtractMacroNames("    Inner() {"))
}

func TestBuildCallBlock(t *testing.T) {
	assert.Equal(t, "\nMacro_001()\n", buildCallBlock(sampleScript, "Macro_001"))
	assert.Equal(t, "\nMacro_001()\nMacro_20260209_120000()\n", buildCallBlock(sampleScript, ""))
	assert.Empty(t, buildCallBlock(sampleScript, "Nope"))
	assert.Empty(t, buildCallBlock("Click 1, 2", ""))
}

func TestFindAhkExePrefersConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AutoHotkey.exe")
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o755))

	m := NewManager(path, nil)
	found, err := m.FindAhkExe()
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindAhkExeMissing(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope.exe"), nil)
	_, err := m.FindAhkExe()
	assert.Error(t, err)
}

func TestRunReportsErrorWhenInterpreterMissing(t *testing.T) {
	var mu sync.Mutex
	var statuses []Status
	m := NewManager(filepath.Join(t.TempDir(), "nope.exe"), func(_ string, st Status, _ string) {
		mu.Lock()
		statuses = append(statuses, st)
		mu.Unlock()
	})

	_, err := m.Run(sampleScript, "")
	require.Error(t, err)
	assert.Equal(t, StatusError, m.Status())
	assert.Equal(t, []Status{StatusError}, statuses)
}

func TestRunRejectsUnknownMacroName(t *testing.T) {
	exe := fakeInterpreter(t, 0)
	m := NewManager(exe, nil)

	_, err := m.Run(sampleScript, "Nope")
	require.Error(t, err)
	assert.Equal(t, StatusError, m.Status())
}

// fakeInterpreter builds a stand-in executable with the given exit code.
func fakeInterpreter(t *testing.T, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub interpreter")
	}
	path := filepath.Join(t.TempDir(), "AutoHotkey.exe")
	script := "#!/bin/sh\nexit " + string(rune('0'+exitCode)) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func collectStatuses(t *testing.T) (StatusFunc, func() []Status) {
	t.Helper()
	var mu sync.Mutex
	var got []Status
	fn := func(_ string, st Status, _ string) {
		mu.Lock()
		got = append(got, st)
		mu.Unlock()
	}
	return fn, func() []Status {
		mu.Lock()
		defer mu.Unlock()
		out := make([]Status, len(got))
		copy(out, got)
		return out
	}
}

func waitForStatus(t *testing.T, m *Manager, want Status) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if m.Status() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("manager never reached status %s, still %s", want, m.Status())
}

func TestRunLifecycle(t *testing.T) {
	exe := fakeInterpreter(t, 0)
	fn, statuses := collectStatuses(t)
	m := NewManager(exe, fn)

	runID, err := m.Run(sampleScript, "Macro_001")
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	waitForStatus(t, m, StatusFinished)
	assert.Equal(t, []Status{StatusRunning, StatusFinished}, statuses())
	assert.Contains(t, m.LastCommand(), runID)
}

func TestRunFailureReportsError(t *testing.T) {
	exe := fakeInterpreter(t, 2)
	fn, statuses := collectStatuses(t)
	m := NewManager(exe, fn)

	_, err := m.Run(sampleScript, "")
	require.NoError(t, err)

	waitForStatus(t, m, StatusError)
	assert.Equal(t, []Status{StatusRunning, StatusError}, statuses())
}

func TestStopIsSafeWhenIdle(t *testing.T) {
	m := NewManager("", nil)
	m.Stop()
	assert.Equal(t, StatusIdle, m.Status())
}

func TestStopKillsRunningReplay(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub interpreter")
	}
	path := filepath.Join(t.TempDir(), "AutoHotkey.exe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nsleep 60\n"), 0o755))

	m := NewManager(path, nil)
	_, err := m.Run(sampleScript, "")
	require.NoError(t, err)
	waitForStatus(t, m, StatusRunning)

	m.Stop()
	waitForStatus(t, m, StatusFinished)
}
