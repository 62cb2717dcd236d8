package friends

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"waveline/internal/cli"
	"waveline/pkg/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List friendships",
	Long:  "Show accepted friends and pending requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := cli.NewClient()
		if err != nil {
			return err
		}
		defer store.Close()

		self, err := store.User()
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}

		friendships, err := client.ListFriendships(context.Background())
		if err != nil {
			return fmt.Errorf("load friendships: %w", err)
		}

		var friends, incoming, outgoing []models.Friendship
		for _, f := range friendships {
			switch {
			case f.Status == models.FriendshipAccepted:
				friends = append(friends, f)
			case f.Status == models.FriendshipPending && f.To.ID == self.ID:
				incoming = append(incoming, f)
			case f.Status == models.FriendshipPending && f.From.ID == self.ID:
				outgoing = append(outgoing, f)
			}
		}

		fmt.Printf("\nFriends (%d):\n", len(friends))
		for _, f := range friends {
			peer := f.From
			if peer.ID == self.ID {
				peer = f.To
			}
			fmt.Printf("  %s (%s)\n", peer.DisplayName, peer.ID)
		}

		fmt.Printf("\nIncoming requests (%d):\n", len(incoming))
		for _, f := range incoming {
			fmt.Printf("  %s (friendship %s)\n", f.From.DisplayName, f.ID)
		}

		fmt.Printf("\nOutgoing requests (%d):\n", len(outgoing))
		for _, f := range outgoing {
			fmt.Printf("  %s (friendship %s)\n", f.To.DisplayName, f.ID)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	FriendsCmd.AddCommand(listCmd)
}
