package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"waveline/internal/api"
	"waveline/internal/tui/styles"
	"waveline/pkg/models"
)

// StoriesModel displays the stories rail. Expired stories are filtered
// client-side so a stale list never shows a dead story.
type StoriesModel struct {
	apiClient *api.Client

	// Data
	stories []models.Story

	// State
	loading bool
	err     error
	cursor  int
	viewing bool // full-screen view of the selected story

	// Window size
	width  int
	height int
}

// NewStoriesModel creates a new stories model
func NewStoriesModel(apiClient *api.Client) StoriesModel {
	return StoriesModel{apiClient: apiClient}
}

// Init initializes and loads data
func (m StoriesModel) Init() tea.Cmd {
	m.loading = true
	return m.loadStories()
}

// Update handles messages
func (m StoriesModel) Update(msg tea.Msg) (StoriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.viewing {
			switch {
			case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "q", "enter"))):
				m.viewing = false
				return m, nil
			case key.Matches(msg, key.NewBinding(key.WithKeys("j", "down", "l", "right"))):
				if m.cursor < len(m.stories)-1 {
					m.cursor++
				}
				return m, nil
			case key.Matches(msg, key.NewBinding(key.WithKeys("k", "up", "h", "left"))):
				if m.cursor > 0 {
					m.cursor--
				}
				return m, nil
			case key.Matches(msg, key.NewBinding(key.WithKeys("D"))):
				if len(m.stories) > 0 {
					return m, m.deleteStory(m.stories[m.cursor].ID)
				}
				return m, nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("j", "down"))):
			if m.cursor < len(m.stories)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("k", "up"))):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if len(m.stories) > 0 {
				m.viewing = true
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
			m.loading = true
			return m, m.loadStories()
		}

	case StoriesLoadedMsg:
		m.loading = false
		m.stories = msg.Stories
		if m.cursor >= len(m.stories) {
			m.cursor = 0
		}
		return m, nil

	case StoriesErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// View renders the stories rail or the full story
func (m StoriesModel) View() string {
	if m.viewing && m.cursor < len(m.stories) {
		return m.renderStory(m.stories[m.cursor])
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("✨ Stories"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Loading stories..."))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Press 'r' to retry"))
		return b.String()
	}

	if len(m.stories) == 0 {
		b.WriteString(styles.InfoStyle.Render("No active stories"))
		return b.String()
	}

	for i, story := range m.stories {
		prefix := "  "
		style := styles.ListItemStyle
		if i == m.cursor {
			prefix = "▸ "
			style = styles.ListItemSelectedStyle
		}

		author := styles.ListItemTitleStyle.Render(story.Author.DisplayName)
		age := styles.MetaValueStyle.Render(styles.RelativeTime(story.CreatedAt))
		expiry := styles.HelpStyle.Render("expires " + styles.RelativeTime(story.ExpiresAt))

		line := fmt.Sprintf("%s%s %s • %s", prefix, author, age, expiry)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.RenderDivider(40))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ navigate • Enter view • r refresh"))

	return b.String()
}

// renderStory renders the full-screen story view
func (m StoriesModel) renderStory(story models.Story) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("✨ " + story.Author.DisplayName))
	b.WriteString("  ")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(m.stories))))
	b.WriteString("\n\n")

	var c strings.Builder
	c.WriteString(styles.BadgePrimaryStyle.Render(string(story.Media.Kind)))
	c.WriteString("  ")
	c.WriteString(styles.MetaValueStyle.Render(story.Media.URL))
	if story.Caption != "" {
		c.WriteString("\n\n")
		c.WriteString(styles.CardContentStyle.Render(story.Caption))
	}
	b.WriteString(styles.CardStyle.Render(c.String()))

	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("←/→ prev/next • D delete • ESC close"))

	return b.String()
}

// loadStories loads the rail, dropping anything already expired
func (m StoriesModel) loadStories() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		stories, err := m.apiClient.ListStories(ctx)
		if err != nil {
			return StoriesErrorMsg{Err: err}
		}
		now := time.Now()
		live := stories[:0]
		for _, s := range stories {
			if !s.Expired(now) {
				live = append(live, s)
			}
		}
		return StoriesLoadedMsg{Stories: live}
	}
}

// deleteStory removes one of the user's own stories
func (m StoriesModel) deleteStory(storyID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.apiClient.DeleteStory(ctx, storyID); err != nil {
			return StoriesErrorMsg{Err: err}
		}
		stories, err := m.apiClient.ListStories(ctx)
		if err != nil {
			return StoriesErrorMsg{Err: err}
		}
		return StoriesLoadedMsg{Stories: stories}
	}
}

// Messages

// StoriesLoadedMsg is sent when the rail is loaded
type StoriesLoadedMsg struct {
	Stories []models.Story
}

// StoriesErrorMsg is sent on stories errors
type StoriesErrorMsg struct {
	Err error
}
