package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

const keyringService = "macrocli"
const keyringUser = "server-token"

// serverToken returns the stored server API token, or empty when none is set.
func serverToken() string {
	token, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		return ""
	}
	return token
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Commands for managing the server API token.`,
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Server token management",
	Long:  `Manages the bearer token the server requires when started with --auth. The token is stored in the OS keyring.`,
}

var authTokenNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate and store a new server token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenBytes := make([]byte, 32)
		if _, err := rand.Read(tokenBytes); err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		token := hex.EncodeToString(tokenBytes)

		if err := keyring.Set(keyringService, keyringUser, token); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

var authTokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the stored server token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := keyring.Get(keyringService, keyringUser)
		if err != nil {
			return fmt.Errorf("no server token stored, run 'macrocli auth token new'")
		}

		fmt.Println(token)
		return nil
	},
}

var authTokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored server token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keyring.Delete(keyringService, keyringUser); err != nil {
			fmt.Println("No server token stored")
			return nil
		}

		fmt.Println("Server token removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authTokenCmd)
	authTokenCmd.AddCommand(authTokenNewCmd, authTokenShowCmd, authTokenClearCmd)
}
