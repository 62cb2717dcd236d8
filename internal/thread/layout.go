package thread

import "waveline/pkg/models"

// Layout is the presentational arrangement picked for a set of attachments
type Layout string

const (
	LayoutNone            Layout = ""
	LayoutHero            Layout = "hero"
	LayoutList            Layout = "list"
	LayoutGrid            Layout = "grid"
	LayoutSideBySide      Layout = "side-by-side"
	LayoutSideBySideVideo Layout = "side-by-side-video"
	LayoutMasonry         Layout = "masonry"
)

// SelectLayout picks an arrangement from the media kinds alone. Deterministic
// and side-effect free.
func SelectLayout(items []models.MediaKind) Layout {
	if len(items) == 0 {
		return LayoutNone
	}

	visual := 0
	pictures := 0 // image or video only; the pairing rules exclude GIFs
	videos := 0
	files := 0
	for _, k := range items {
		if k.IsVisual() {
			visual++
		}
		if k == models.MediaImage || k == models.MediaVideo {
			pictures++
		}
		if k == models.MediaVideo {
			videos++
		}
		if k == models.MediaFile {
			files++
		}
	}

	switch len(items) {
	case 1:
		if items[0] == models.MediaImage || items[0] == models.MediaVideo {
			return LayoutHero
		}
		return LayoutList

	case 2:
		if videos == 2 {
			return LayoutSideBySideVideo
		}
		if pictures == 2 {
			return LayoutSideBySide
		}
		return LayoutGrid

	case 3:
		if visual >= 2 {
			return LayoutHero
		}
		return LayoutGrid

	case 4:
		return LayoutGrid

	default:
		if visual >= 3 {
			return LayoutMasonry
		}
		if files > visual {
			return LayoutList
		}
		return LayoutGrid
	}
}
