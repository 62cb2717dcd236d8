package auth

import (
	"context"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"waveline/internal/cli"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to Waveline",
	Long:  "Authenticate with your username and password; tokens are stored for the TUI too",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")

		if username == "" {
			fmt.Print("Username: ")
			fmt.Scanln(&username)
		}

		fmt.Print("Password: ")
		password, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()

		client, store, err := cli.NewClient()
		if err != nil {
			return err
		}
		defer store.Close()

		resp, err := client.Login(context.Background(), username, string(password))
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := store.SetUser(resp.User); err != nil {
			return err
		}

		fmt.Println("✓ Login successful!")
		fmt.Printf("  Welcome back, %s!\n", resp.User.DisplayName)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("username", "", "Username")
	AuthCmd.AddCommand(loginCmd)
}
