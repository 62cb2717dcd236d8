package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waveline/pkg/models"
)

func TestSelectLayout(t *testing.T) {
	img := models.MediaImage
	vid := models.MediaVideo
	gif := models.MediaGIF
	file := models.MediaFile

	tests := []struct {
		name  string
		items []models.MediaKind
		want  Layout
	}{
		{"empty", nil, LayoutNone},
		{"single image", []models.MediaKind{img}, LayoutHero},
		{"single video", []models.MediaKind{vid}, LayoutHero},
		{"single file", []models.MediaKind{file}, LayoutList},
		{"two images", []models.MediaKind{img, img}, LayoutSideBySide},
		{"two videos", []models.MediaKind{vid, vid}, LayoutSideBySideVideo},
		{"image and video", []models.MediaKind{img, vid}, LayoutSideBySide},
		{"image and file", []models.MediaKind{img, file}, LayoutGrid},
		{"two gifs", []models.MediaKind{gif, gif}, LayoutGrid},
		{"gif and image", []models.MediaKind{gif, img}, LayoutGrid},
		{"three mostly visual", []models.MediaKind{img, vid, img}, LayoutHero},
		{"three mostly files", []models.MediaKind{img, file, file}, LayoutGrid},
		{"four anything", []models.MediaKind{img, vid, file, gif}, LayoutGrid},
		{"five visual", []models.MediaKind{img, img, vid, gif, file}, LayoutMasonry},
		{"five files", []models.MediaKind{file, file, file, file, file}, LayoutList},
		{"six mixed leaning files", []models.MediaKind{img, img, file, file, file, file}, LayoutList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectLayout(tt.items))
		})
	}
}

func TestSelectLayoutIsPure(t *testing.T) {
	items := []models.MediaKind{models.MediaImage, models.MediaVideo}
	first := SelectLayout(items)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, SelectLayout(items))
	}
	assert.Equal(t, []models.MediaKind{models.MediaImage, models.MediaVideo}, items)
}
