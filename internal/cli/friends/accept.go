package friends

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"waveline/internal/cli"
)

var addCmd = &cobra.Command{
	Use:   "add <user-id>",
	Short: "Send a friend request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := cli.NewClient()
		if err != nil {
			return err
		}
		defer store.Close()

		f, err := client.SendFriendRequest(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("send request: %w", err)
		}
		fmt.Printf("✓ Request sent to %s\n", f.To.DisplayName)
		return nil
	},
}

var acceptCmd = &cobra.Command{
	Use:   "accept <friendship-id>",
	Short: "Accept a friend request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := cli.NewClient()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := client.AcceptFriendRequest(context.Background(), args[0]); err != nil {
			return fmt.Errorf("accept request: %w", err)
		}
		fmt.Println("✓ Request accepted")
		return nil
	},
}

var declineCmd = &cobra.Command{
	Use:   "decline <friendship-id>",
	Short: "Decline a friend request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := cli.NewClient()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := client.DeclineFriendRequest(context.Background(), args[0]); err != nil {
			return fmt.Errorf("decline request: %w", err)
		}
		fmt.Println("✓ Request declined")
		return nil
	},
}

func init() {
	FriendsCmd.AddCommand(addCmd)
	FriendsCmd.AddCommand(acceptCmd)
	FriendsCmd.AddCommand(declineCmd)
}
