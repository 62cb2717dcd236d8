package devserver

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"waveline/pkg/models"
)

const maxUploadBytes = 25 << 20

// collectAttachments reads the composer's multipart payload: binary files
// under "attachments" plus pre-hosted GIFs under "gif_urls". Stored files are
// served back from /media/:id.
func (s *Server) collectAttachments(c *gin.Context) ([]models.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}

	var out []models.Attachment
	for _, header := range form.File["attachments"] {
		if header.Size > maxUploadBytes {
			return nil, fmt.Errorf("attachment %s exceeds size limit", header.Filename)
		}
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open attachment: %w", err)
		}
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
		}
		id := s.store.SaveMedia(contentType, data)
		out = append(out, models.Attachment{
			ID:   id,
			Kind: kindForFilename(header.Filename),
			URL:  "/media/" + id,
			Name: header.Filename,
			Size: header.Size,
		})
	}

	for _, gifURL := range form.Value["gif_urls"] {
		if gifURL == "" {
			continue
		}
		out = append(out, models.Attachment{
			Kind: models.MediaGIF,
			URL:  gifURL,
		})
	}
	return out, nil
}

func kindForFilename(name string) models.MediaKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gif":
		return models.MediaGIF
	case ".jpg", ".jpeg", ".png", ".webp", ".bmp":
		return models.MediaImage
	case ".mp4", ".mov", ".webm", ".mkv", ".avi":
		return models.MediaVideo
	default:
		return models.MediaFile
	}
}
