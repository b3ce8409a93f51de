package cli

var (
	verbose bool

	// for record command
	recordOutputPath string

	// for generate command
	generateOutputPath string
	generateSessionIDs []int

	// for replay command
	replayFilePath  string
	replayMacroName string
	replayNoWait    bool
)
