package feed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"waveline/internal/cli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the home feed",
	Long:  "Print the most recent posts from your feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		client, store, err := cli.NewClient()
		if err != nil {
			return err
		}
		defer store.Close()

		resp, err := client.ListPosts(context.Background(), limit, offset)
		if err != nil {
			return fmt.Errorf("load feed: %w", err)
		}

		fmt.Printf("\n%d posts (showing %d):\n\n", resp.Total, len(resp.Data))
		for i, post := range resp.Data {
			fmt.Printf("%d. %s\n", offset+i+1, post.Author.DisplayName)
			if post.Content != "" {
				fmt.Printf("   %s\n", post.Content)
			}
			if len(post.Attachments) > 0 {
				fmt.Printf("   [%d attachments]\n", len(post.Attachments))
			}
			fmt.Printf("   %d reactions • %d comments • %s\n",
				post.Reactions.Total, post.CommentCount, post.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Printf("   ID: %s\n\n", post.ID)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Int("limit", 10, "Number of posts")
	listCmd.Flags().Int("offset", 0, "Offset into the feed")
	FeedCmd.AddCommand(listCmd)
}
