package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"waveline/internal/cli"
	"waveline/internal/cli/auth"
	cliconfig "waveline/internal/cli/config"
	"waveline/internal/cli/feed"
	"waveline/internal/cli/friends"
)

var rootCmd = &cobra.Command{
	Use:   "waveline",
	Short: "Waveline command line client",
	Long:  "Interact with a Waveline server from the terminal: auth, feed, friends",
}

func main() {
	cobra.OnInitialize(cli.InitConfig)

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(cliconfig.ConfigCmd)
	rootCmd.AddCommand(feed.FeedCmd)
	rootCmd.AddCommand(friends.FriendsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
