package models

// Settings is the user preference bag served by GET/PATCH /settings/
type Settings struct {
	Theme         string `json:"theme" yaml:"theme"`
	FontScale     int    `json:"font_scale" yaml:"font_scale"`
	Density       string `json:"density" yaml:"density"`
	ReducedMotion bool   `json:"reduced_motion" yaml:"reduced_motion"`
	HighContrast  bool   `json:"high_contrast" yaml:"high_contrast"`
	Language      string `json:"language" yaml:"language"`
}

// DefaultSettings returns server-default preferences
func DefaultSettings() Settings {
	return Settings{
		Theme:     "dark",
		FontScale: 100,
		Density:   "comfortable",
		Language:  "en",
	}
}

// SettingsPatch carries only the fields being changed; nil means untouched
type SettingsPatch struct {
	Theme         *string `json:"theme,omitempty"`
	FontScale     *int    `json:"font_scale,omitempty"`
	Density       *string `json:"density,omitempty"`
	ReducedMotion *bool   `json:"reduced_motion,omitempty"`
	HighContrast  *bool   `json:"high_contrast,omitempty"`
	Language      *string `json:"language,omitempty"`
}

// Apply merges the patch into s
func (p *SettingsPatch) Apply(s *Settings) {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.FontScale != nil {
		s.FontScale = *p.FontScale
	}
	if p.Density != nil {
		s.Density = *p.Density
	}
	if p.ReducedMotion != nil {
		s.ReducedMotion = *p.ReducedMotion
	}
	if p.HighContrast != nil {
		s.HighContrast = *p.HighContrast
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
}
