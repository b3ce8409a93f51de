package replay

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/macrokit/macrocli/utils"
)

// Status is the replay lifecycle state.
type Status string

const (
	StatusIdle     Status = "Idle"
	StatusRunning  Status = "Running"
	StatusFinished Status = "Finished"
	StatusError    Status = "Error"
)

// StatusFunc receives replay state transitions. runID identifies the run the
// transition belongs to; it is empty for failures before a run starts.
type StatusFunc func(runID string, status Status, message string)

// killGrace is how long Stop waits for the interpreter to exit after the kill
// signal before giving up on the wait.
const killGrace = 3 * time.Second

// macroNameRe matches function definitions at the start of a line, the shape
// the generator emits.
var macroNameRe = regexp.MustCompile(`(?m)^(\w+)\(\)\s*\{`)

// ExtractMacroNames returns the macro function names defined in script text,
// in definition order.
func ExtractMacroNames(script string) []string {
	matches := macroNameRe.FindAllStringSubmatch(script, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Manager executes generated script text through the AutoHotkey v2
// interpreter. One run at a time; starting a new run stops the previous one.
type Manager struct {
	mu       sync.Mutex
	exePath  string
	onStatus StatusFunc

	status  Status
	cmd     *exec.Cmd
	runID   string
	stopped bool
	done    chan struct{}

	lastCommand string
}

// NewManager builds a manager. exePath may be empty, in which case the
// interpreter is located at run time.
func NewManager(exePath string, onStatus StatusFunc) *Manager {
	return &Manager{
		exePath:  exePath,
		onStatus: onStatus,
		status:   StatusIdle,
	}
}

// Status returns the current lifecycle state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// IsRunning reports whether a run is in flight.
func (m *Manager) IsRunning() bool {
	return m.Status() == StatusRunning
}

// LastCommand returns the command line of the most recent run, for display.
func (m *Manager) LastCommand() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCommand
}

// FindAhkExe locates the AutoHotkey v2 interpreter: the configured path
// first, then well-known install locations, then PATH.
func (m *Manager) FindAhkExe() (string, error) {
	m.mu.Lock()
	configured := m.exePath
	m.mu.Unlock()

	if configured != "" {
		if st, err := os.Stat(configured); err == nil && !st.IsDir() {
			return configured, nil
		}
	}

	programFiles := envOr("ProgramFiles", `C:\Program Files`)
	programFilesX86 := envOr("ProgramFiles(x86)", `C:\Program Files (x86)`)
	candidates := []string{
		filepath.Join(programFiles, "AutoHotkey", "v2", "AutoHotkey.exe"),
		filepath.Join(programFiles, "AutoHotkey", "AutoHotkey.exe"),
		filepath.Join(programFilesX86, "AutoHotkey", "v2", "AutoHotkey.exe"),
		filepath.Join(programFilesX86, "AutoHotkey", "AutoHotkey.exe"),
		filepath.Join(os.Getenv("LOCALAPPDATA"), "Programs", "AutoHotkey", "v2", "AutoHotkey.exe"),
	}
	for _, path := range candidates {
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, nil
		}
	}

	if path, err := exec.LookPath("AutoHotkey.exe"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("AutoHotkey.exe not found, install AutoHotkey v2 or configure replay.ahk_exe_path")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// buildCallBlock appends the invocation(s) that make the definitions run:
// the named macro when given, every defined macro in order otherwise, nothing
// when the script has no function definitions.
func buildCallBlock(script, macroName string) string {
	names := ExtractMacroNames(script)
	if macroName != "" {
		for _, n := range names {
			if n == macroName {
				return "\n" + macroName + "()\n"
			}
		}
		// unknown name: run nothing rather than everything
		return ""
	}
	if len(names) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, n := range names {
		b.WriteString(n + "()\n")
	}
	return b.String()
}

// Run executes script asynchronously and returns the run id. When macroName
// is non-empty only that macro is invoked; otherwise every macro in the
// script runs in definition order. Status transitions are delivered through
// the StatusFunc from a background goroutine.
func (m *Manager) Run(script, macroName string) (string, error) {
	m.Stop()

	exePath, err := m.FindAhkExe()
	if err != nil {
		m.setStatus("", StatusError, err.Error())
		return "", err
	}

	if macroName != "" {
		found := false
		for _, n := range ExtractMacroNames(script) {
			if n == macroName {
				found = true
				break
			}
		}
		if !found {
			err := fmt.Errorf("macro %q is not defined in the script", macroName)
			m.setStatus("", StatusError, err.Error())
			return "", err
		}
	}

	runID := uuid.New().String()
	scriptPath := filepath.Join(os.TempDir(), "macrocli-"+runID+".ahk")
	final := script + buildCallBlock(script, macroName)
	if err := os.WriteFile(scriptPath, []byte(final), 0o600); err != nil {
		m.setStatus(runID, StatusError, err.Error())
		return "", fmt.Errorf("failed to write replay script: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(exePath, scriptPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// a killed interpreter can leave children holding the pipes; without a
	// bound, Wait would block on the pipe copy and the run would stay Running
	cmd.WaitDelay = killGrace

	if err := cmd.Start(); err != nil {
		os.Remove(scriptPath)
		m.setStatus(runID, StatusError, err.Error())
		return "", fmt.Errorf("failed to start %s: %w", exePath, err)
	}

	done := make(chan struct{})
	m.mu.Lock()
	m.cmd = cmd
	m.runID = runID
	m.stopped = false
	m.done = done
	m.status = StatusRunning
	m.lastCommand = fmt.Sprintf("%q %q", exePath, scriptPath)
	m.mu.Unlock()

	m.notify(runID, StatusRunning, "Replay started")
	go m.wait(cmd, runID, scriptPath, &stdout, &stderr, done)

	return runID, nil
}

func (m *Manager) wait(cmd *exec.Cmd, runID, scriptPath string, stdout, stderr *bytes.Buffer, done chan struct{}) {
	defer close(done)

	err := cmd.Wait()
	if rmErr := os.Remove(scriptPath); rmErr != nil && !os.IsNotExist(rmErr) {
		utils.Verbose("failed to remove replay script %s: %v", scriptPath, rmErr)
	}

	m.mu.Lock()
	stopped := m.stopped
	if m.runID == runID {
		m.cmd = nil
	}
	m.mu.Unlock()

	switch {
	case stopped:
		m.setStatus(runID, StatusFinished, "Replay stopped by user")
	case err == nil:
		msg := "Replay finished successfully"
		if out := strings.TrimSpace(stdout.String()); out != "" {
			msg += "\nOutput: " + out
		}
		m.setStatus(runID, StatusFinished, msg)
	default:
		msg := fmt.Sprintf("Replay failed: %v", err)
		if errOut := strings.TrimSpace(stderr.String()); errOut != "" {
			msg += "\nError: " + errOut
		} else if out := strings.TrimSpace(stdout.String()); out != "" {
			msg += "\nOutput: " + out
		}
		m.setStatus(runID, StatusError, msg)
	}
}

// Stop kills the in-flight run, if any, and waits briefly for it to wind
// down. Safe to call when idle.
func (m *Manager) Stop() {
	m.mu.Lock()
	cmd := m.cmd
	done := m.done
	if cmd == nil {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.mu.Unlock()

	if cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			utils.Verbose("failed to kill replay process: %v", err)
		}
	}
	if done != nil {
		select {
		case <-done:
		case <-time.After(killGrace):
			utils.Verbose("replay process did not exit within %v", killGrace)
		}
	}
}

func (m *Manager) setStatus(runID string, status Status, message string) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	m.notify(runID, status, message)
}

func (m *Manager) notify(runID string, status Status, message string) {
	if m.onStatus != nil {
		m.onStatus(runID, status, message)
	}
}
