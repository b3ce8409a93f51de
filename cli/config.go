package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/macrokit/macrocli/config"
	"github.com/spf13/cobra"
	"gopkg.in/ini.v1"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
	Long:  `Commands for inspecting and editing the configuration file.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.DefaultPath())
		return nil
	},
}

// splitConfigKey splits "section.key" into its parts.
func splitConfigKey(arg string) (string, string, error) {
	section, key, found := strings.Cut(arg, ".")
	if !found || section == "" || key == "" {
		return "", "", fmt.Errorf("expected key in the form section.key, got %q", arg)
	}
	return section, key, nil
}

var configGetCmd = &cobra.Command{
	Use:   "get <section.key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section, key, err := splitConfigKey(args[0])
		if err != nil {
			return err
		}

		path := config.DefaultPath()
		cfg, err := ini.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}

		if !cfg.Section(section).HasKey(key) {
			return fmt.Errorf("%s is not set", args[0])
		}

		fmt.Println(cfg.Section(section).Key(key).String())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <section.key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		section, key, err := splitConfigKey(args[0])
		if err != nil {
			return err
		}

		path := config.DefaultPath()
		cfg, err := ini.Load(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
			cfg = ini.Empty()
		}

		cfg.Section(section).Key(key).SetValue(args[1])

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}

		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
