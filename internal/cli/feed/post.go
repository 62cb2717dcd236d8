package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"waveline/internal/cli"
	"waveline/pkg/models"
)

var postCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Create a post",
	Long:  "Publish a post to your feed, optionally attaching files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.Join(args, " ")
		files, _ := cmd.Flags().GetStringSlice("attach")

		var attachments []models.Upload
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read attachment: %w", err)
			}
			attachments = append(attachments, models.Upload{
				Kind:     kindForFile(path),
				Filename: filepath.Base(path),
				Data:     data,
			})
		}

		client, store, err := cli.NewClient()
		if err != nil {
			return err
		}
		defer store.Close()

		post, err := client.CreatePost(context.Background(), models.CreatePostRequest{
			Content:     content,
			Attachments: attachments,
		})
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}

		fmt.Println("✓ Posted!")
		fmt.Printf("  ID: %s\n", post.ID)
		return nil
	},
}

// kindForFile guesses the media kind from the file extension
func kindForFile(path string) models.MediaKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".bmp":
		return models.MediaImage
	case ".gif":
		return models.MediaGIF
	case ".mp4", ".webm", ".mov", ".mkv":
		return models.MediaVideo
	default:
		return models.MediaFile
	}
}

func init() {
	postCmd.Flags().StringSlice("attach", nil, "Files to attach")
	FeedCmd.AddCommand(postCmd)
}
