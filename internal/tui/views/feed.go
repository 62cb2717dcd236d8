package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"waveline/internal/api"
	"waveline/internal/thread"
	"waveline/internal/tui/styles"
	"waveline/pkg/models"
)

// FeedModel displays the paginated home feed with an inline post composer
type FeedModel struct {
	apiClient *api.Client

	// Data
	posts   []models.Post
	total   int
	hasMore bool

	// Pagination
	offset int
	limit  int

	// Composer
	composing bool
	composer  textarea.Model

	// State
	loading bool
	err     error
	cursor  int

	// Window size
	width  int
	height int
}

// NewFeedModel creates a new feed model
func NewFeedModel(apiClient *api.Client) FeedModel {
	composer := textarea.New()
	composer.Placeholder = "What's on your mind?"
	composer.CharLimit = models.MaxCommentLength
	composer.SetWidth(60)
	composer.SetHeight(4)

	return FeedModel{
		apiClient: apiClient,
		limit:     20,
		composer:  composer,
	}
}

// Init initializes and loads data
func (m FeedModel) Init() tea.Cmd {
	m.loading = true
	return m.loadPosts()
}

// Update handles messages
func (m FeedModel) Update(msg tea.Msg) (FeedModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.composing {
			return m.updateComposer(msg)
		}

		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("j", "down"))):
			if m.cursor < len(m.posts)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("k", "up"))):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("n"))):
			m.composing = true
			m.err = nil
			m.composer.Reset()
			return m, m.composer.Focus()

		case key.Matches(msg, key.NewBinding(key.WithKeys("pgdown"))):
			if m.hasMore {
				m.offset += m.limit
				m.cursor = 0
				m.loading = true
				return m, m.loadPosts()
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("pgup"))):
			if m.offset > 0 {
				m.offset -= m.limit
				if m.offset < 0 {
					m.offset = 0
				}
				m.cursor = 0
				m.loading = true
				return m, m.loadPosts()
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
			m.loading = true
			return m, m.loadPosts()

		case key.Matches(msg, key.NewBinding(key.WithKeys("x"))):
			if len(m.posts) > 0 {
				return m, m.togglePostReaction(m.posts[m.cursor].ID, models.ReactionLike)
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("D"))):
			if len(m.posts) > 0 {
				return m, m.deletePost(m.posts[m.cursor].ID)
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if len(m.posts) > 0 {
				postID := m.posts[m.cursor].ID
				return m, func() tea.Msg {
					return SelectPostMsg{PostID: postID}
				}
			}
			return m, nil
		}

	case FeedLoadedMsg:
		m.loading = false
		m.posts = msg.Posts
		m.total = msg.Total
		m.hasMore = msg.HasMore
		if m.cursor >= len(m.posts) {
			m.cursor = 0
		}
		return m, nil

	case PostCreatedMsg:
		m.loading = true
		m.offset = 0
		m.cursor = 0
		return m, m.loadPosts()

	case PostReactionMsg:
		for i := range m.posts {
			if m.posts[i].ID == msg.PostID {
				thread.ApplyToggle(&m.posts[i].Reactions, msg.Resp)
			}
		}
		return m, nil

	case FeedErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// updateComposer handles keys while the post composer is open
func (m FeedModel) updateComposer(msg tea.KeyMsg) (FeedModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		m.composing = false
		m.composer.Blur()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+s"))):
		req := models.CreatePostRequest{Content: m.composer.Value()}
		if err := req.Validate(); err != nil {
			m.err = err
			return m, nil
		}
		m.composing = false
		m.composer.Blur()
		m.err = nil
		return m, m.createPost(req)
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

// View renders the feed
func (m FeedModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🏠 Feed"))
	b.WriteString("  ")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("%d posts", m.total)))
	b.WriteString("\n\n")

	if m.composing {
		b.WriteString(styles.CardStyle.Render(m.composer.View()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Ctrl+S post • ESC cancel"))
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Loading feed..."))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Press 'r' to retry"))
		return b.String()
	}

	if len(m.posts) == 0 {
		b.WriteString(styles.InfoStyle.Render("Nothing here yet. Press 'n' to write the first post."))
		return b.String()
	}

	for i, post := range m.posts {
		b.WriteString(m.renderPost(post, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.RenderDivider(50))
	b.WriteString("\n")

	navHelp := "↑/↓ navigate • Enter open • n new post • x like • r refresh"
	if m.offset > 0 {
		navHelp += " • pgup prev"
	}
	if m.hasMore {
		navHelp += " • pgdn next"
	}
	b.WriteString(styles.HelpStyle.Render(navHelp))

	return b.String()
}

// renderPost renders a single feed entry
func (m FeedModel) renderPost(post models.Post, selected bool) string {
	prefix := "  "
	style := styles.ListItemStyle
	if selected {
		prefix = "▸ "
		style = styles.ListItemSelectedStyle
	}

	author := styles.ListItemTitleStyle.Render(post.Author.DisplayName)
	when := styles.MetaValueStyle.Render(styles.RelativeTime(post.CreatedAt))
	header := fmt.Sprintf("%s%s %s", prefix, author, when)
	if post.EditedAt != nil {
		header += " " + styles.HelpStyle.Render("(edited)")
	}

	body := styles.Truncate(post.Content, 70)
	meta := m.renderPostMeta(post)

	lines := []string{header}
	if body != "" {
		lines = append(lines, "    "+body)
	}
	if media := renderAttachmentLine(post.Attachments); media != "" {
		lines = append(lines, "    "+media)
	}
	lines = append(lines, "    "+meta)

	return style.Render(strings.Join(lines, "\n")) + "\n"
}

// renderPostMeta renders the reaction and comment counters
func (m FeedModel) renderPostMeta(post models.Post) string {
	react := fmt.Sprintf("%d reactions", post.Reactions.Total)
	if post.Reactions.UserReacted != nil {
		react = styles.ReactionIcon(string(*post.Reactions.UserReacted)) + " " + react
	}
	return styles.HelpStyle.Render(fmt.Sprintf("%s • %d comments", react, post.CommentCount))
}

// renderAttachmentLine summarizes attachments using the layout heuristic
func renderAttachmentLine(attachments []models.Attachment) string {
	if len(attachments) == 0 {
		return ""
	}
	kinds := make([]models.MediaKind, len(attachments))
	for i, a := range attachments {
		kinds[i] = a.Kind
	}
	layout := thread.SelectLayout(kinds)
	return styles.BadgePrimaryStyle.Render(fmt.Sprintf("%d media", len(attachments))) +
		" " + styles.HelpStyle.Render(string(layout))
}

// loadPosts loads the feed page from the API
func (m FeedModel) loadPosts() tea.Cmd {
	limit, offset := m.limit, m.offset
	return func() tea.Msg {
		ctx := context.Background()
		resp, err := m.apiClient.ListPosts(ctx, limit, offset)
		if err != nil {
			return FeedErrorMsg{Err: err}
		}
		return FeedLoadedMsg{
			Posts:   resp.Data,
			Total:   resp.Total,
			HasMore: resp.HasMore,
		}
	}
}

// createPost submits a new post
func (m FeedModel) createPost(req models.CreatePostRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		post, err := m.apiClient.CreatePost(ctx, req)
		if err != nil {
			return FeedErrorMsg{Err: err}
		}
		return PostCreatedMsg{Post: post}
	}
}

// togglePostReaction toggles a reaction on the selected post
func (m FeedModel) togglePostReaction(postID string, kind models.ReactionKind) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		resp, err := m.apiClient.ToggleReaction(ctx, models.ToggleReactionRequest{
			Post:         postID,
			ReactionType: kind,
		})
		if err != nil {
			return FeedErrorMsg{Err: err}
		}
		return PostReactionMsg{PostID: postID, Resp: *resp}
	}
}

// deletePost removes the selected post and reloads
func (m FeedModel) deletePost(postID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.apiClient.DeletePost(ctx, postID); err != nil {
			return FeedErrorMsg{Err: err}
		}
		return PostCreatedMsg{}
	}
}

// Messages

// FeedLoadedMsg is sent when the feed page is loaded
type FeedLoadedMsg struct {
	Posts   []models.Post
	Total   int
	HasMore bool
}

// PostCreatedMsg is sent after a post is created or deleted
type PostCreatedMsg struct {
	Post *models.Post
}

// PostReactionMsg carries a toggle result for a feed entry
type PostReactionMsg struct {
	PostID string
	Resp   models.ToggleReactionResponse
}

// SelectPostMsg navigates to the post detail view
type SelectPostMsg struct {
	PostID string
}

// FeedErrorMsg is sent on feed errors
type FeedErrorMsg struct {
	Err error
}

// Composing reports whether the post composer is capturing keys
func (m FeedModel) Composing() bool { return m.composing }
