package feed

import "github.com/spf13/cobra"

var FeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Feed commands",
	Long:  "Read the home feed and post from the terminal",
}
