package friends

import "github.com/spf13/cobra"

var FriendsCmd = &cobra.Command{
	Use:   "friends",
	Short: "Friends commands",
	Long:  "List friends and manage friend requests",
}
