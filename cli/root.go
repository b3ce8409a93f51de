package cli

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/macrokit/macrocli/utils"
	"github.com/spf13/cobra"
)

const version = "dev"

// GetVersion returns the build version string.
func GetVersion() string {
	return version
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "macrocli",
	Short: "A desktop macro recorder and AutoHotkey script generator",
	Long:  `Records mouse and keyboard input and generates replayable AutoHotkey v2 scripts`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func initConfig() {
	utils.SetVerbose(verbose)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command
func Execute() error {
	// enable microseconds in logs
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	return rootCmd.Execute()
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(jsonData))
}
