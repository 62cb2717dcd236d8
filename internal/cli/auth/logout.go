package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"waveline/internal/cli"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of Waveline",
	Long:  "Clear the stored tokens; local preferences are kept",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := cli.NewClient()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := client.Logout(); err != nil {
			return err
		}
		fmt.Println("✓ Logged out")
		return nil
	},
}

func init() {
	AuthCmd.AddCommand(logoutCmd)
}
