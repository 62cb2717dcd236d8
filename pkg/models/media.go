package models

// MediaKind classifies an attachment for upload handling and layout selection
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaGIF   MediaKind = "gif"
	MediaFile  MediaKind = "file"
)

// IsVisual reports whether the kind renders as a picture-like element
func (k MediaKind) IsVisual() bool {
	return k == MediaImage || k == MediaVideo || k == MediaGIF
}

// Attachment is a media reference attached to a post, comment or story
type Attachment struct {
	ID   string    `json:"id,omitempty"`
	Kind MediaKind `json:"kind"`
	URL  string    `json:"url"`
	Name string    `json:"name,omitempty"`
	Size int64     `json:"size,omitempty"`
}

// Upload carries a pending attachment before it reaches the server.
// GIFs picked from a search provider arrive as URLs, everything else as bytes.
type Upload struct {
	Kind     MediaKind
	Filename string
	Data     []byte
	GIFURL   string
}
