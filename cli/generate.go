package cli

import (
	"fmt"
	"os"

	"github.com/macrokit/macrocli/commands"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an AutoHotkey v2 script from recorded sessions",
	Long:  `Renders recorded sessions as an AutoHotkey v2 script. With no --session flags, all sessions are included.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.GenerateScriptCommand(generateSessionIDs)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}

		result, ok := response.Data.(commands.ScriptResult)
		if !ok {
			return fmt.Errorf("unexpected script result type")
		}

		if generateOutputPath == "" {
			fmt.Print(result.Script)
			return nil
		}

		if err := os.WriteFile(generateOutputPath, []byte(result.Script), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", generateOutputPath, err)
		}
		fmt.Printf("Script written to %s\n", generateOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntSliceVarP(&generateSessionIDs, "session", "s", nil, "Session id to include (repeatable; default all)")
	generateCmd.Flags().StringVarP(&generateOutputPath, "output", "o", "", "File to write the script to (default stdout)")
}
