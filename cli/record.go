package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/macrokit/macrocli/commands"
	"github.com/macrokit/macrocli/types"
	"github.com/spf13/cobra"
)

// hooks into the interactive record command, set only while it runs. main.go
// forwards recorder callbacks and process signals here.
var (
	notifyMu     sync.Mutex
	onEvent      func(*types.RecordedEvent)
	onStopHotkey func()
	onInterrupt  func()
)

// NotifyEvent forwards a recorded event to the interactive record command.
func NotifyEvent(ev *types.RecordedEvent) {
	notifyMu.Lock()
	fn := onEvent
	notifyMu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// NotifyStopHotkey forwards a stop hotkey press to the interactive record
// command.
func NotifyStopHotkey() {
	notifyMu.Lock()
	fn := onStopHotkey
	notifyMu.Unlock()
	if fn != nil {
		fn()
	}
}

// Interrupt gives an interactive command a chance to finish cleanly before
// the process exits on a signal. It blocks until the command has flushed its
// output, and returns immediately when nothing interactive is running.
func Interrupt() {
	notifyMu.Lock()
	fn := onInterrupt
	notifyMu.Unlock()
	if fn != nil {
		fn()
	}
}

func setRecordHooks(event func(*types.RecordedEvent), stop func(), interrupt func()) {
	notifyMu.Lock()
	onEvent = event
	onStopHotkey = stop
	onInterrupt = interrupt
	notifyMu.Unlock()
}

func clearRecordHooks() {
	notifyMu.Lock()
	onEvent = nil
	onStopHotkey = nil
	onInterrupt = nil
	notifyMu.Unlock()
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record mouse and keyboard input",
	Long:  `Starts recording input events and streams them to the terminal until the stop hotkey or Ctrl+C.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := commands.GetService()
		if err != nil {
			return err
		}

		stopCh := make(chan struct{})
		var stopOnce sync.Once
		requestStop := func() {
			stopOnce.Do(func() { close(stopCh) })
		}
		flushed := make(chan struct{})
		defer close(flushed)
		defer clearRecordHooks()

		setRecordHooks(
			func(ev *types.RecordedEvent) { fmt.Println(ev.Description()) },
			requestStop,
			func() {
				requestStop()
				<-flushed
			},
		)

		response := commands.RecordStartCommand()
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}

		hotkey := svc.Settings.Recording.StopHotkey
		if hotkey != "" {
			fmt.Printf("Recording... press %s or Ctrl+C to stop\n", hotkey)
		} else {
			fmt.Println("Recording... press Ctrl+C to stop")
		}

		<-stopCh

		response = commands.RecordStopCommand()
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}

		session, ok := svc.Store.Last()
		if !ok || len(session.Events) == 0 {
			fmt.Println("No events recorded")
			return nil
		}
		fmt.Printf("Recorded %d events as %s\n", len(session.Events), session.Name)

		if recordOutputPath != "" {
			if err := appendScriptToFile(recordOutputPath, session); err != nil {
				return err
			}
			fmt.Printf("Script written to %s\n", recordOutputPath)
		}

		return nil
	},
}

// appendScriptToFile adds the session as a new subroutine to the script at
// path, creating the file with a header when it does not exist yet.
func appendScriptToFile(path string, session *types.Session) error {
	svc, err := commands.GetService()
	if err != nil {
		return err
	}

	existing := ""
	data, err := os.ReadFile(path)
	if err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	script := svc.Generator.AppendSubroutine(existing, session)
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVarP(&recordOutputPath, "output", "o", "", "Script file to write or append the recorded macro to")
}
