package commands

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/macrokit/macrocli/config"
	"github.com/macrokit/macrocli/desktop"
)

func commandOutput(name string, args ...string) string {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

type DoctorInfo struct {
	MacroCLIVersion string `json:"macrocli_version"`
	OS              string `json:"os"`
	OSVersion       string `json:"os_version"`
	HooksAvailable  bool   `json:"hooks_available"`
	AhkExePath      string `json:"ahk_exe_path,omitempty"`
	ConfigPath      string `json:"config_path"`
	ConfigExists    bool   `json:"config_exists"`
	StopHotkey      string `json:"stop_hotkey,omitempty"`
	CoordMode       string `json:"coord_mode"`
}

func getOSVersion() string {
	switch runtime.GOOS {
	case "darwin":
		return commandOutput("sw_vers", "-productVersion")
	case "windows":
		return commandOutput("cmd", "/c", "ver")
	case "linux":
		// try reading /etc/os-release
		data, err := os.ReadFile("/etc/os-release")
		if err != nil {
			return ""
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "PRETTY_NAME=") {
				return strings.Trim(strings.TrimPrefix(line, "PRETTY_NAME="), "\"")
			}
		}
		return ""
	default:
		return ""
	}
}

// DoctorCommand performs system diagnostics and returns information about the
// environment: input-hook availability, the AutoHotkey interpreter and the
// active configuration.
func DoctorCommand(version string) *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}

	configPath := config.DefaultPath()
	_, statErr := os.Stat(configPath)

	info := DoctorInfo{
		MacroCLIVersion: version,
		OS:              runtime.GOOS,
		OSVersion:       getOSVersion(),
		HooksAvailable:  desktop.HooksAvailable(),
		ConfigPath:      configPath,
		ConfigExists:    statErr == nil,
		StopHotkey:      s.Settings.Recording.StopHotkey,
		CoordMode:       string(s.Settings.CoordMode()),
	}

	if path, err := s.Replayer.FindAhkExe(); err == nil {
		info.AhkExePath = path
	}

	return NewSuccessResponse(info)
}
