package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"waveline/internal/api"
	"waveline/internal/tui/styles"
	"waveline/pkg/models"
)

// FriendsTab selects which slice of friendships is shown
type FriendsTab int

const (
	TabFriends FriendsTab = iota
	TabIncoming
	TabOutgoing
)

// FriendsModel manages the friends list and pending requests
type FriendsModel struct {
	apiClient *api.Client

	// Data
	friendships []models.Friendship
	selfID      string

	// State
	tab     FriendsTab
	loading bool
	err     error
	cursor  int

	// Add-friend input
	adding   bool
	addInput textinput.Model

	// Window size
	width  int
	height int
}

// NewFriendsModel creates a new friends model
func NewFriendsModel(apiClient *api.Client) FriendsModel {
	addInput := textinput.New()
	addInput.Placeholder = "User ID"
	addInput.CharLimit = 64
	addInput.Width = 36

	return FriendsModel{
		apiClient: apiClient,
		addInput:  addInput,
	}
}

// SetSelfID tells the model who the current user is, so it can split
// pending requests into incoming and outgoing.
func (m *FriendsModel) SetSelfID(id string) {
	m.selfID = id
}

// Init initializes and loads data
func (m FriendsModel) Init() tea.Cmd {
	m.loading = true
	return m.loadFriendships()
}

// Update handles messages
func (m FriendsModel) Update(msg tea.Msg) (FriendsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			switch {
			case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
				m.adding = false
				m.addInput.Blur()
				return m, nil
			case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
				userID := strings.TrimSpace(m.addInput.Value())
				if userID == "" {
					return m, nil
				}
				m.adding = false
				m.addInput.Blur()
				m.addInput.Reset()
				return m, m.sendRequest(userID)
			}
			var cmd tea.Cmd
			m.addInput, cmd = m.addInput.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("tab"))):
			m.tab = (m.tab + 1) % 3
			m.cursor = 0
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("shift+tab"))):
			m.tab = (m.tab + 2) % 3
			m.cursor = 0
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("j", "down"))):
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("k", "up"))):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("a"))):
			if m.tab == TabIncoming {
				if f := m.selected(); f != nil {
					return m, m.accept(f.ID)
				}
				return m, nil
			}
			m.adding = true
			m.err = nil
			return m, m.addInput.Focus()

		case key.Matches(msg, key.NewBinding(key.WithKeys("d"))):
			if m.tab == TabIncoming {
				if f := m.selected(); f != nil {
					return m, m.decline(f.ID)
				}
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
			m.loading = true
			return m, m.loadFriendships()
		}

	case FriendshipsLoadedMsg:
		m.loading = false
		m.friendships = msg.Friendships
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}
		return m, nil

	case FriendsErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// View renders the friends view
func (m FriendsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("👥 Friends"))
	b.WriteString("\n\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.adding {
		b.WriteString(styles.CardStyle.Render(
			styles.MetaKeyStyle.Render("Send friend request to:") + "\n" + m.addInput.View()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Enter send • ESC cancel"))
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Loading friendships..."))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Press 'r' to retry"))
		return b.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		switch m.tab {
		case TabFriends:
			b.WriteString(styles.InfoStyle.Render("No friends yet. Press 'a' to send a request."))
		case TabIncoming:
			b.WriteString(styles.InfoStyle.Render("No incoming requests"))
		case TabOutgoing:
			b.WriteString(styles.InfoStyle.Render("No outgoing requests"))
		}
		b.WriteString("\n")
	}

	for i, f := range visible {
		b.WriteString(m.renderFriendship(f, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.RenderDivider(40))
	b.WriteString("\n")

	help := "↑/↓ navigate • Tab switch • r refresh"
	switch m.tab {
	case TabIncoming:
		help = "↑/↓ navigate • a accept • d decline • Tab switch • r refresh"
	case TabFriends, TabOutgoing:
		help = "↑/↓ navigate • a add friend • Tab switch • r refresh"
	}
	b.WriteString(styles.HelpStyle.Render(help))

	return b.String()
}

// renderTabs renders the three-tab header
func (m FriendsModel) renderTabs() string {
	names := []string{"Friends", "Incoming", "Outgoing"}
	var tabs []string
	for i, name := range names {
		label := fmt.Sprintf("%s (%d)", name, m.countFor(FriendsTab(i)))
		if FriendsTab(i) == m.tab {
			tabs = append(tabs, styles.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}
	return strings.Join(tabs, "")
}

// renderFriendship renders one row for the active tab
func (m FriendsModel) renderFriendship(f models.Friendship, selected bool) string {
	prefix := "  "
	style := styles.ListItemStyle
	if selected {
		prefix = "▸ "
		style = styles.ListItemSelectedStyle
	}

	peer := m.peerOf(f)
	name := styles.ListItemTitleStyle.Render(peer.DisplayName)
	when := styles.MetaValueStyle.Render(styles.RelativeTime(f.CreatedAt))

	badge := ""
	switch f.Status {
	case models.FriendshipPending:
		badge = styles.BadgeWarningStyle.Render("pending")
	case models.FriendshipAccepted:
		badge = styles.BadgeSuccessStyle.Render("friend")
	case models.FriendshipDeclined:
		badge = styles.BadgeDangerStyle.Render("declined")
	}

	return style.Render(fmt.Sprintf("%s%s %s %s", prefix, name, badge, when))
}

// peerOf returns the other side of a friendship
func (m FriendsModel) peerOf(f models.Friendship) models.UserSummary {
	if f.From.ID == m.selfID {
		return f.To
	}
	return f.From
}

// visible returns the friendships for the active tab
func (m FriendsModel) visible() []models.Friendship {
	var out []models.Friendship
	for _, f := range m.friendships {
		switch m.tab {
		case TabFriends:
			if f.Status == models.FriendshipAccepted {
				out = append(out, f)
			}
		case TabIncoming:
			if f.Status == models.FriendshipPending && f.To.ID == m.selfID {
				out = append(out, f)
			}
		case TabOutgoing:
			if f.Status == models.FriendshipPending && f.From.ID == m.selfID {
				out = append(out, f)
			}
		}
	}
	return out
}

// countFor counts entries for a tab
func (m FriendsModel) countFor(tab FriendsTab) int {
	saved := m.tab
	m.tab = tab
	n := len(m.visible())
	m.tab = saved
	return n
}

// selected returns the friendship under the cursor, if any
func (m FriendsModel) selected() *models.Friendship {
	visible := m.visible()
	if m.cursor < len(visible) {
		f := visible[m.cursor]
		return &f
	}
	return nil
}

// loadFriendships loads all friendships from the API
func (m FriendsModel) loadFriendships() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		friendships, err := m.apiClient.ListFriendships(ctx)
		if err != nil {
			return FriendsErrorMsg{Err: err}
		}
		return FriendshipsLoadedMsg{Friendships: friendships}
	}
}

// sendRequest sends a friend request and reloads
func (m FriendsModel) sendRequest(userID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := m.apiClient.SendFriendRequest(ctx, userID); err != nil {
			return FriendsErrorMsg{Err: err}
		}
		friendships, err := m.apiClient.ListFriendships(ctx)
		if err != nil {
			return FriendsErrorMsg{Err: err}
		}
		return FriendshipsLoadedMsg{Friendships: friendships}
	}
}

// accept accepts an incoming request and reloads
func (m FriendsModel) accept(friendshipID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.apiClient.AcceptFriendRequest(ctx, friendshipID); err != nil {
			return FriendsErrorMsg{Err: err}
		}
		friendships, err := m.apiClient.ListFriendships(ctx)
		if err != nil {
			return FriendsErrorMsg{Err: err}
		}
		return FriendshipsLoadedMsg{Friendships: friendships}
	}
}

// decline declines an incoming request and reloads
func (m FriendsModel) decline(friendshipID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.apiClient.DeclineFriendRequest(ctx, friendshipID); err != nil {
			return FriendsErrorMsg{Err: err}
		}
		friendships, err := m.apiClient.ListFriendships(ctx)
		if err != nil {
			return FriendsErrorMsg{Err: err}
		}
		return FriendshipsLoadedMsg{Friendships: friendships}
	}
}

// Messages

// FriendshipsLoadedMsg is sent when friendships are loaded
type FriendshipsLoadedMsg struct {
	Friendships []models.Friendship
}

// FriendsErrorMsg is sent on friends errors
type FriendsErrorMsg struct {
	Err error
}

// Adding reports whether the add-friend input is capturing keys
func (m FriendsModel) Adding() bool { return m.adding }
