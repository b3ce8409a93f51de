package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/macrokit/macrocli/commands"
	"github.com/macrokit/macrocli/replay"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay commands",
	Long:  `Commands for running generated scripts through the AutoHotkey interpreter.`,
}

var replayRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a generated script",
	Long:  `Runs a script file through the AutoHotkey v2 interpreter. Without --file, a script is generated from the sessions recorded in this process.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := commands.GetService()
		if err != nil {
			return err
		}

		script := ""
		if replayFilePath != "" {
			data, err := os.ReadFile(replayFilePath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", replayFilePath, err)
			}
			script = string(data)
		}

		response := commands.ReplayRunCommand(script, replayMacroName)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}

		result, ok := response.Data.(commands.ReplayResult)
		if !ok {
			return fmt.Errorf("unexpected replay result type")
		}
		fmt.Printf("Replay %s started\n", result.RunID)

		if replayNoWait {
			return nil
		}

		for svc.Replayer.IsRunning() {
			time.Sleep(200 * time.Millisecond)
		}

		status := svc.Replayer.Status()
		fmt.Printf("Replay %s: %s\n", result.RunID, status)
		if status == replay.StatusError {
			return fmt.Errorf("replay failed")
		}
		return nil
	},
}

var replayStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running replay",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.ReplayStopCommand()
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

var replayStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the replay status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.ReplayStatusCommand()
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.AddCommand(replayRunCmd)
	replayCmd.AddCommand(replayStopCmd)
	replayCmd.AddCommand(replayStatusCmd)

	replayRunCmd.Flags().StringVarP(&replayFilePath, "file", "f", "", "Script file to run")
	replayRunCmd.Flags().StringVarP(&replayMacroName, "macro", "m", "", "Run only this macro from the script")
	replayRunCmd.Flags().BoolVar(&replayNoWait, "no-wait", false, "Return immediately instead of waiting for the replay to finish")
}
