package api

import (
	"bytes"
	"fmt"
	"mime/multipart"

	"waveline/pkg/models"
)

// encodeMultipart builds the composer payload shared by posts, comments and
// stories: plain fields, binary attachments, and pre-uploaded GIF URLs as
// separate url fields.
func encodeMultipart(fields map[string]string, attachments []models.Upload) (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(key, value); err != nil {
			return "", nil, fmt.Errorf("write field %s: %w", key, err)
		}
	}

	for i, upload := range attachments {
		if upload.GIFURL != "" {
			if err := w.WriteField("gif_urls", upload.GIFURL); err != nil {
				return "", nil, fmt.Errorf("write gif url: %w", err)
			}
			continue
		}
		name := upload.Filename
		if name == "" {
			name = fmt.Sprintf("attachment-%d", i)
		}
		part, err := w.CreateFormFile("attachments", name)
		if err != nil {
			return "", nil, fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(upload.Data); err != nil {
			return "", nil, fmt.Errorf("write attachment %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
