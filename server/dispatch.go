package server

import (
	"encoding/json"
	"fmt"

	"github.com/macrokit/macrocli/commands"
)

// HandlerFunc is the signature for non-streaming JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP server and WebSocket clients
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"record.start":    handleRecordStart,
		"record.stop":     handleRecordStop,
		"record.pause":    handleRecordPause,
		"record.resume":   handleRecordResume,
		"record.status":   handleRecordStatus,
		"sessions.list":   handleSessionsList,
		"sessions.get":    handleSessionGet,
		"script.generate": handleScriptGenerate,
		"replay.run":      handleReplayRun,
		"replay.stop":     handleReplayStop,
		"replay.status":   handleReplayStatus,
		"doctor":          handleDoctor,
		"server.shutdown": handleShutdown,
	}
}

// Execute dispatches a method call using the registry
func Execute(method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(params)
}

// unwrap converts a command response to a dispatch result, surfacing command
// failures as JSON-RPC server errors.
func unwrap(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	if response.Data == nil {
		return okResponse, nil
	}
	return response.Data, nil
}

func handleRecordStart(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.RecordStartCommand())
}

func handleRecordStop(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.RecordStopCommand())
}

func handleRecordPause(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.RecordPauseCommand())
}

func handleRecordResume(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.RecordResumeCommand())
}

func handleRecordStatus(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.RecordStatusCommand())
}

func handleSessionsList(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.SessionsListCommand())
}

type sessionGetParams struct {
	ID int `json:"id"`
}

func handleSessionGet(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: id")
	}

	var p sessionGetParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: id", err)
	}

	return unwrap(commands.SessionGetCommand(p.ID))
}

type scriptGenerateParams struct {
	SessionIDs []int `json:"sessionIds,omitempty"`
}

func handleScriptGenerate(params json.RawMessage) (interface{}, error) {
	var p scriptGenerateParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid parameters: %v. Expected fields: sessionIds", err)
		}
	}

	return unwrap(commands.GenerateScriptCommand(p.SessionIDs))
}

type replayRunParams struct {
	Script    string `json:"script,omitempty"`
	MacroName string `json:"macroName,omitempty"`
}

func handleReplayRun(params json.RawMessage) (interface{}, error) {
	var p replayRunParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid parameters: %v. Expected fields: script, macroName", err)
		}
	}

	return unwrap(commands.ReplayRunCommand(p.Script, p.MacroName))
}

func handleReplayStop(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.ReplayStopCommand())
}

func handleReplayStatus(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.ReplayStatusCommand())
}

func handleDoctor(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.DoctorCommand(version))
}

func handleShutdown(params json.RawMessage) (interface{}, error) {
	RequestShutdown()
	return okResponse, nil
}
