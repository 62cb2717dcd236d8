package auth

import (
	"context"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"waveline/internal/cli"
	"waveline/pkg/models"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long:  "Create a new Waveline account with username, email, and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")

		if username == "" {
			fmt.Print("Username: ")
			fmt.Scanln(&username)
		}
		if email == "" {
			fmt.Print("Email: ")
			fmt.Scanln(&email)
		}

		fmt.Print("Password: ")
		password, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()

		fmt.Print("Confirm password: ")
		confirm, _ := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()

		client, store, err := cli.NewClient()
		if err != nil {
			return err
		}
		defer store.Close()

		resp, err := client.Register(context.Background(), models.RegisterRequest{
			Username:        username,
			Email:           email,
			Password:        string(password),
			ConfirmPassword: string(confirm),
		})
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		if err := store.SetUser(resp.User); err != nil {
			return err
		}

		fmt.Println("✓ Account created!")
		fmt.Printf("  Welcome to Waveline, %s!\n", resp.User.DisplayName)
		return nil
	},
}

func init() {
	registerCmd.Flags().String("username", "", "Username")
	registerCmd.Flags().String("email", "", "Email address")
	AuthCmd.AddCommand(registerCmd)
}
