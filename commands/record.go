package commands

import (
	"github.com/macrokit/macrocli/types"
)

// RecordStatus is the payload returned by recording lifecycle commands.
type RecordStatus struct {
	State       types.RecordingState `json:"state"`
	SessionID   int                  `json:"sessionId,omitempty"`
	SessionName string               `json:"sessionName,omitempty"`
	EventCount  int                  `json:"eventCount"`
}

func recordStatus(s *Service) RecordStatus {
	status := RecordStatus{State: s.Recorder.State()}
	if sess := s.Recorder.CurrentSession(); sess != nil {
		status.SessionID = sess.ID
		status.SessionName = sess.Name
		status.EventCount = len(sess.Events)
	}
	return status
}

// RecordStartCommand begins a new recording session.
func RecordStartCommand() *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}

	if _, err := s.Recorder.Start(); err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(recordStatus(s))
}

// RecordStopCommand ends the active session and stores it.
func RecordStopCommand() *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}

	session := s.Recorder.Stop()
	if session == nil {
		return NewSuccessResponse(RecordStatus{State: types.StateIdle})
	}
	s.Store.Add(session)
	return NewSuccessResponse(RecordStatus{
		State:       types.StateIdle,
		SessionID:   session.ID,
		SessionName: session.Name,
		EventCount:  len(session.Events),
	})
}

// RecordPauseCommand suspends event capture without ending the session.
func RecordPauseCommand() *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}

	s.Recorder.Pause()
	return NewSuccessResponse(recordStatus(s))
}

// RecordResumeCommand re-enables capture after a pause.
func RecordResumeCommand() *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}

	s.Recorder.Resume()
	return NewSuccessResponse(recordStatus(s))
}

// RecordStatusCommand reports the recording state and active session.
func RecordStatusCommand() *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(recordStatus(s))
}
