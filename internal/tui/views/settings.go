package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"waveline/internal/api"
	"waveline/internal/session"
	"waveline/internal/tui/styles"
	"waveline/pkg/models"
)

// settingsField is one row of the preferences form
type settingsField int

const (
	fieldTheme settingsField = iota
	fieldFontScale
	fieldDensity
	fieldReducedMotion
	fieldHighContrast
	fieldLanguage
	fieldCount
)

var (
	themeOptions    = []string{"dark", "light", "system"}
	densityOptions  = []string{"comfortable", "compact"}
	languageOptions = []string{"en", "de", "fr", "es", "ja", "vi"}
	fontScaleSteps  = []int{80, 90, 100, 110, 125, 150}
)

// SettingsModel edits the server-side preference bag. Saves go to the API;
// the result is mirrored into the local session store so the next start
// renders with the right preferences before the first fetch lands.
type SettingsModel struct {
	apiClient *api.Client
	store     *session.Store

	// Data
	settings models.Settings
	saved    models.Settings // last server-acknowledged state

	// State
	cursor  settingsField
	loading bool
	dirty   bool
	err     error
	notice  string

	// Window size
	width  int
	height int
}

// NewSettingsModel creates a new settings model
func NewSettingsModel(apiClient *api.Client, store *session.Store) SettingsModel {
	return SettingsModel{
		apiClient: apiClient,
		store:     store,
		settings:  models.DefaultSettings(),
		saved:     models.DefaultSettings(),
	}
}

// Init initializes and loads settings
func (m SettingsModel) Init() tea.Cmd {
	m.loading = true
	return m.loadSettings()
}

// Update handles messages
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("j", "down"))):
			if m.cursor < fieldCount-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("k", "up"))):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("l", "right", "enter", " "))):
			m.cycle(1)
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("h", "left"))):
			m.cycle(-1)
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+s"))):
			if !m.dirty {
				return m, nil
			}
			m.loading = true
			m.notice = ""
			return m, m.saveSettings()

		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+z"))):
			m.settings = m.saved
			m.dirty = false
			m.notice = ""
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
			m.loading = true
			return m, m.loadSettings()
		}

	case SettingsLoadedMsg:
		m.loading = false
		m.settings = msg.Settings
		m.saved = msg.Settings
		m.dirty = false
		return m, nil

	case SettingsSavedMsg:
		m.loading = false
		m.settings = msg.Settings
		m.saved = msg.Settings
		m.dirty = false
		m.notice = "Saved"
		return m, nil

	case SettingsErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// cycle advances the selected field through its options
func (m *SettingsModel) cycle(dir int) {
	m.err = nil
	m.notice = ""
	switch m.cursor {
	case fieldTheme:
		m.settings.Theme = cycleString(themeOptions, m.settings.Theme, dir)
	case fieldFontScale:
		m.settings.FontScale = cycleInt(fontScaleSteps, m.settings.FontScale, dir)
	case fieldDensity:
		m.settings.Density = cycleString(densityOptions, m.settings.Density, dir)
	case fieldReducedMotion:
		m.settings.ReducedMotion = !m.settings.ReducedMotion
	case fieldHighContrast:
		m.settings.HighContrast = !m.settings.HighContrast
	case fieldLanguage:
		m.settings.Language = cycleString(languageOptions, m.settings.Language, dir)
	}
	m.dirty = m.settings != m.saved
}

// View renders the settings form
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("⚙️  Settings"))
	if m.dirty {
		b.WriteString("  ")
		b.WriteString(styles.BadgeWarningStyle.Render("unsaved"))
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Working..."))
		return b.String()
	}

	rows := []struct {
		field settingsField
		label string
		value string
	}{
		{fieldTheme, "Theme", m.settings.Theme},
		{fieldFontScale, "Font scale", fmt.Sprintf("%d%%", m.settings.FontScale)},
		{fieldDensity, "Density", m.settings.Density},
		{fieldReducedMotion, "Reduced motion", onOff(m.settings.ReducedMotion)},
		{fieldHighContrast, "High contrast", onOff(m.settings.HighContrast)},
		{fieldLanguage, "Language", m.settings.Language},
	}

	var form strings.Builder
	for _, row := range rows {
		prefix := "  "
		labelStyle := styles.MetaKeyStyle
		if row.field == m.cursor {
			prefix = "▸ "
			labelStyle = styles.InputFocusedStyle
		}
		form.WriteString(fmt.Sprintf("%s%s  %s\n",
			prefix,
			labelStyle.Render(fmt.Sprintf("%-16s", row.label)),
			styles.MetaValueStyle.Render("◂ "+row.value+" ▸")))
	}
	b.WriteString(styles.CardStyle.Render(strings.TrimRight(form.String(), "\n")))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(styles.SuccessStyle.Render("✓ " + m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ select • ←/→ change • Ctrl+S save • Ctrl+Z revert • r reload"))

	return b.String()
}

// loadSettings fetches preferences, falling back to the local mirror when
// the server is unreachable.
func (m SettingsModel) loadSettings() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		settings, err := m.apiClient.GetSettings(ctx)
		if err != nil {
			if local, lerr := m.store.Settings(); lerr == nil {
				return SettingsLoadedMsg{Settings: local}
			}
			return SettingsErrorMsg{Err: err}
		}
		return SettingsLoadedMsg{Settings: *settings}
	}
}

// saveSettings sends only the changed fields, then mirrors the
// acknowledged state locally.
func (m SettingsModel) saveSettings() tea.Cmd {
	patch := diffSettings(m.saved, m.settings)
	return func() tea.Msg {
		ctx := context.Background()
		settings, err := m.apiClient.UpdateSettings(ctx, patch)
		if err != nil {
			return SettingsErrorMsg{Err: err}
		}
		if err := m.store.SaveSettings(*settings); err != nil {
			return SettingsErrorMsg{Err: err}
		}
		return SettingsSavedMsg{Settings: *settings}
	}
}

// diffSettings builds a patch containing only fields that differ
func diffSettings(old, next models.Settings) models.SettingsPatch {
	var p models.SettingsPatch
	if old.Theme != next.Theme {
		p.Theme = &next.Theme
	}
	if old.FontScale != next.FontScale {
		p.FontScale = &next.FontScale
	}
	if old.Density != next.Density {
		p.Density = &next.Density
	}
	if old.ReducedMotion != next.ReducedMotion {
		p.ReducedMotion = &next.ReducedMotion
	}
	if old.HighContrast != next.HighContrast {
		p.HighContrast = &next.HighContrast
	}
	if old.Language != next.Language {
		p.Language = &next.Language
	}
	return p
}

// cycleString steps through options, tolerating an unknown current value
func cycleString(options []string, current string, dir int) string {
	idx := 0
	for i, opt := range options {
		if opt == current {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(options)) % len(options)
	return options[idx]
}

// cycleInt steps through numeric options
func cycleInt(options []int, current, dir int) int {
	idx := 0
	for i, opt := range options {
		if opt == current {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(options)) % len(options)
	return options[idx]
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Messages

// SettingsLoadedMsg is sent when preferences are loaded
type SettingsLoadedMsg struct {
	Settings models.Settings
}

// SettingsSavedMsg is sent when a save is acknowledged
type SettingsSavedMsg struct {
	Settings models.Settings
}

// SettingsErrorMsg is sent on settings errors
type SettingsErrorMsg struct {
	Err error
}
