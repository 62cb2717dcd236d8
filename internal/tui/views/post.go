package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"waveline/internal/api"
	"waveline/internal/thread"
	"waveline/internal/tui/styles"
	"waveline/pkg/models"
)

// threadRow is one rendered line of the comment tree
type threadRow struct {
	id    string
	depth int
}

// PostModel shows a single post with its nested comment thread.
// Comment writes go through the reconciler: the insert shows immediately,
// then a delayed reload replaces the whole thread with server truth.
type PostModel struct {
	apiClient *api.Client

	// Data
	postID     string
	post       *models.Post
	reconciler *thread.Reconciler
	rows       []threadRow

	// Composer; replyTo is empty for a top-level comment
	composing bool
	replyTo   string
	composer  textarea.Model

	// State
	loading bool
	err     error
	cursor  int

	// Window size
	width  int
	height int
}

// NewPostModel creates a new post detail model
func NewPostModel(apiClient *api.Client) PostModel {
	composer := textarea.New()
	composer.Placeholder = "Write a comment..."
	composer.CharLimit = models.MaxCommentLength
	composer.SetWidth(60)
	composer.SetHeight(3)

	return PostModel{
		apiClient: apiClient,
		composer:  composer,
	}
}

// SetPost switches the view to a post and loads it
func (m *PostModel) SetPost(postID string) tea.Cmd {
	m.postID = postID
	m.post = nil
	m.rows = nil
	m.cursor = 0
	m.err = nil
	m.loading = true
	m.composing = false
	m.reconciler = thread.NewReconciler(m.apiClient, thread.NewStore(postID))
	return m.loadPost()
}

// Init initializes the model
func (m PostModel) Init() tea.Cmd {
	if m.postID == "" {
		return nil
	}
	return m.loadPost()
}

// Update handles messages
func (m PostModel) Update(msg tea.Msg) (PostModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.composing {
			return m.updateComposer(msg)
		}
		return m.updateNavigation(msg)

	case PostLoadedMsg:
		if msg.PostID != m.postID {
			return m, nil // stale load from a previous post
		}
		m.loading = false
		m.post = msg.Post
		m.rebuildRows()
		return m, nil

	case ThreadChangedMsg:
		if msg.PostID != m.postID {
			return m, nil
		}
		m.rebuildRows()
		if msg.Refetch {
			// Delayed authoritative reload reconciles the optimistic insert
			return m, tea.Tick(m.reconciler.RefetchDelay(), func(t time.Time) tea.Msg {
				return ThreadRefetchMsg{PostID: m.postID}
			})
		}
		return m, nil

	case ThreadRefetchMsg:
		if msg.PostID != m.postID {
			return m, nil
		}
		return m, m.refreshThread()

	case PostErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// updateNavigation handles keys in browse mode
func (m PostModel) updateNavigation(msg tea.KeyMsg) (PostModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("j", "down"))):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("k", "up"))):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("n"))):
		// Top-level comment
		m.composing = true
		m.replyTo = ""
		m.err = nil
		m.composer.Reset()
		m.composer.Placeholder = "Write a comment..."
		return m, m.composer.Focus()

	case key.Matches(msg, key.NewBinding(key.WithKeys("c"))):
		// Reply to the selected comment, if the depth gate allows it
		if len(m.rows) == 0 {
			return m, nil
		}
		target := m.rows[m.cursor].id
		if !m.reconciler.Store().CanReply(target) {
			m.err = fmt.Errorf("reply depth limit reached")
			return m, nil
		}
		m.composing = true
		m.replyTo = target
		m.err = nil
		m.composer.Reset()
		m.composer.Placeholder = "Write a reply..."
		return m, m.composer.Focus()

	case key.Matches(msg, key.NewBinding(key.WithKeys("x"))):
		if len(m.rows) > 0 {
			return m, m.toggleReaction(m.rows[m.cursor].id, models.ReactionLike)
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("X"))):
		if len(m.rows) > 0 {
			return m, m.toggleReaction(m.rows[m.cursor].id, models.ReactionLove)
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("D"))):
		if len(m.rows) > 0 {
			return m, m.deleteComment(m.rows[m.cursor].id)
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
		return m, m.refreshThread()
	}

	return m, nil
}

// updateComposer handles keys while the composer is open
func (m PostModel) updateComposer(msg tea.KeyMsg) (PostModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		m.composing = false
		m.composer.Blur()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+s"))):
		content := m.composer.Value()
		m.composing = false
		m.composer.Blur()
		return m, m.submitComment(m.replyTo, content)
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

// View renders the post and its thread
func (m PostModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("💬 Post"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Loading post..."))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if m.post == nil {
		b.WriteString(styles.InfoStyle.Render("No post selected"))
		return b.String()
	}

	b.WriteString(m.renderPostCard())
	b.WriteString("\n\n")

	if m.composing {
		b.WriteString(styles.CardStyle.Render(m.composer.View()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Ctrl+S submit • ESC cancel"))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Comments (%d)", len(m.rows))))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(styles.InfoStyle.Render("No comments yet. Press 'n' to start the thread."))
		b.WriteString("\n")
	}

	store := m.reconciler.Store()
	for i, row := range m.rows {
		node := store.Get(row.id)
		if node == nil {
			continue
		}
		b.WriteString(m.renderComment(node, row.depth, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.RenderDivider(50))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ navigate • n comment • c reply • x like • X love • D delete • r refresh • ESC back"))

	return b.String()
}

// renderPostCard renders the post header card
func (m PostModel) renderPostCard() string {
	post := m.post
	var c strings.Builder

	c.WriteString(styles.CardTitleStyle.Render(post.Author.DisplayName))
	c.WriteString("  ")
	c.WriteString(styles.MetaValueStyle.Render(styles.RelativeTime(post.CreatedAt)))
	c.WriteString("\n\n")
	c.WriteString(styles.CardContentStyle.Render(post.Content))

	if media := renderAttachmentLine(post.Attachments); media != "" {
		c.WriteString("\n")
		c.WriteString(media)
	}

	c.WriteString("\n\n")
	c.WriteString(renderReactionBar(post.Reactions))

	return styles.CardStyle.Render(c.String())
}

// renderComment renders one comment row, indented by depth
func (m PostModel) renderComment(node *thread.Node, depth int, selected bool) string {
	indent := strings.Repeat("  ", depth)
	prefix := indent + "  "
	style := styles.ListItemStyle
	if selected {
		prefix = indent + "▸ "
		style = styles.ListItemSelectedStyle
	}

	c := node.Comment
	author := styles.ListItemTitleStyle.Render(c.Author.DisplayName)
	when := styles.MetaValueStyle.Render(styles.RelativeTime(c.CreatedAt))
	header := fmt.Sprintf("%s%s %s", prefix, author, when)
	if node.Optimistic {
		header += " " + styles.HelpStyle.Render("(sending…)")
	}

	lines := []string{header}
	body := styles.Truncate(c.Content, 70-2*depth)
	if body != "" {
		lines = append(lines, indent+"    "+body)
	}
	if media := renderAttachmentLine(c.Attachments); media != "" {
		lines = append(lines, indent+"    "+media)
	}
	if c.Reactions.Total > 0 || c.Reactions.UserReacted != nil {
		lines = append(lines, indent+"    "+renderReactionBar(c.Reactions))
	}

	return style.Render(strings.Join(lines, "\n"))
}

// renderReactionBar renders per-kind counts in display order
func renderReactionBar(s models.ReactionSummary) string {
	var parts []string
	for _, kind := range models.ReactionKinds {
		count := s.Counts[kind]
		if count == 0 {
			continue
		}
		part := fmt.Sprintf("%s %d", styles.ReactionIcon(string(kind)), count)
		if s.UserReacted != nil && *s.UserReacted == kind {
			part = styles.HighlightStyle.Render(part)
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return styles.HelpStyle.Render("no reactions")
	}
	return strings.Join(parts, "  ")
}

// rebuildRows flattens the comment tree into render order
func (m *PostModel) rebuildRows() {
	m.rows = m.rows[:0]
	m.reconciler.Store().Walk(func(n *thread.Node, depth int) {
		m.rows = append(m.rows, threadRow{id: n.Comment.ID, depth: depth})
	})
	if m.cursor >= len(m.rows) {
		m.cursor = 0
	}
}

// loadPost loads the post and its comment thread
func (m PostModel) loadPost() tea.Cmd {
	postID := m.postID
	rec := m.reconciler
	client := m.apiClient
	return func() tea.Msg {
		ctx := context.Background()
		post, err := client.GetPost(ctx, postID)
		if err != nil {
			return PostErrorMsg{Err: err}
		}
		if err := rec.Refresh(ctx); err != nil {
			return PostErrorMsg{Err: err}
		}
		return PostLoadedMsg{PostID: postID, Post: post}
	}
}

// refreshThread reloads the comment thread from the server
func (m PostModel) refreshThread() tea.Cmd {
	postID := m.postID
	rec := m.reconciler
	return func() tea.Msg {
		ctx := context.Background()
		if err := rec.Refresh(ctx); err != nil {
			return PostErrorMsg{Err: err}
		}
		return ThreadChangedMsg{PostID: postID}
	}
}

// submitComment creates a comment or reply through the reconciler
func (m PostModel) submitComment(replyTo, content string) tea.Cmd {
	postID := m.postID
	rec := m.reconciler
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if replyTo == "" {
			_, err = rec.AddTopLevel(ctx, content, nil)
		} else {
			_, err = rec.AddReply(ctx, replyTo, content, nil)
		}
		if err != nil {
			return PostErrorMsg{Err: err}
		}
		return ThreadChangedMsg{PostID: postID, Refetch: true}
	}
}

// toggleReaction toggles a reaction on the selected comment
func (m PostModel) toggleReaction(commentID string, kind models.ReactionKind) tea.Cmd {
	postID := m.postID
	rec := m.reconciler
	return func() tea.Msg {
		ctx := context.Background()
		if err := rec.Toggle(ctx, commentID, kind); err != nil {
			return PostErrorMsg{Err: err}
		}
		return ThreadChangedMsg{PostID: postID}
	}
}

// deleteComment removes a comment and its subtree
func (m PostModel) deleteComment(commentID string) tea.Cmd {
	postID := m.postID
	rec := m.reconciler
	return func() tea.Msg {
		ctx := context.Background()
		if err := rec.Delete(ctx, commentID); err != nil {
			return PostErrorMsg{Err: err}
		}
		return ThreadChangedMsg{PostID: postID, Refetch: true}
	}
}

// Messages

// PostLoadedMsg is sent when the post and thread are loaded
type PostLoadedMsg struct {
	PostID string
	Post   *models.Post
}

// ThreadChangedMsg is sent when the comment tree changed locally
type ThreadChangedMsg struct {
	PostID  string
	Refetch bool
}

// ThreadRefetchMsg triggers the delayed authoritative reload
type ThreadRefetchMsg struct {
	PostID string
}

// PostErrorMsg is sent on post view errors
type PostErrorMsg struct {
	Err error
}

// Composing reports whether the comment composer is capturing keys
func (m PostModel) Composing() bool { return m.composing }
