package commands

import (
	"fmt"

	"github.com/macrokit/macrocli/codegen"
	"github.com/macrokit/macrocli/config"
	"github.com/macrokit/macrocli/recorder"
	"github.com/macrokit/macrocli/replay"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// Service bundles the long-lived application components commands operate on.
type Service struct {
	Settings  *config.Settings
	Recorder  *recorder.Recorder
	Store     *recorder.Store
	Generator *codegen.Generator
	Replayer  *replay.Manager
}

// service holds the instance wired up at application startup via SetService.
// Commands are invoked from both the CLI and the control server, which share
// one recorder and session store.
var service *Service

// SetService sets the global service instance. This should be called once at
// application startup (main.go or server.go).
func SetService(s *Service) {
	service = s
}

// GetService returns the current service instance.
func GetService() (*Service, error) {
	if service == nil {
		return nil, fmt.Errorf("service is not initialized")
	}
	return service, nil
}
