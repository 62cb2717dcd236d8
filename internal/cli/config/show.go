package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"waveline/internal/cli"
	"waveline/internal/session"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display current Waveline CLI configuration and session status",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Waveline Configuration:")
		fmt.Println("")
		fmt.Printf("Server:\n")
		fmt.Printf("  Host: %s\n", viper.GetString("server.host"))
		fmt.Printf("  HTTP Port: %d\n", viper.GetInt("server.http_port"))
		fmt.Printf("  Base URL: %s\n", cli.BaseURL())
		fmt.Println("")

		dbPath, err := session.DefaultPath()
		if err != nil {
			fmt.Printf("Session: unavailable (%v)\n", err)
			return
		}
		store, err := session.Open(dbPath)
		if err != nil {
			fmt.Printf("Session: unavailable (%v)\n", err)
			return
		}
		defer store.Close()

		user, uerr := store.User()
		_, terr := store.Tokens()
		if uerr == nil && terr == nil {
			fmt.Printf("User:\n")
			fmt.Printf("  Username: %s\n", user.Username)
			fmt.Printf("  Status: ✓ Logged in\n")
		} else {
			fmt.Printf("User: Not logged in\n")
			fmt.Printf("  Run 'waveline auth login' to authenticate\n")
		}
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration key (server.host, server.http_port) and persist it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set(args[0], args[1])
		if err := cli.SaveConfig(); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("✓ %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(showCmd)
	ConfigCmd.AddCommand(setCmd)
}
