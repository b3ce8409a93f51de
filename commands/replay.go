package commands

import (
	"github.com/macrokit/macrocli/replay"
)

// ReplayResult reports a started or inspected replay run.
type ReplayResult struct {
	RunID  string        `json:"runId,omitempty"`
	Status replay.Status `json:"status"`
}

// ReplayRunCommand executes script text through the AutoHotkey interpreter.
// An empty script replays every stored session; a non-empty macroName limits
// the run to that macro.
func ReplayRunCommand(script, macroName string) *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}

	if script == "" {
		sessions, err := selectSessions(s, nil)
		if err != nil {
			return NewErrorResponse(err)
		}
		script = s.Generator.FullScript(sessions)
	}

	runID, err := s.Replayer.Run(script, macroName)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(ReplayResult{RunID: runID, Status: s.Replayer.Status()})
}

// ReplayStopCommand kills the in-flight replay, if any.
func ReplayStopCommand() *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}

	s.Replayer.Stop()
	return NewSuccessResponse(ReplayResult{Status: s.Replayer.Status()})
}

// ReplayStatusCommand reports the replay lifecycle state.
func ReplayStatusCommand() *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(ReplayResult{Status: s.Replayer.Status()})
}
