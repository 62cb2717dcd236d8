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

// MessagesModel is the direct-message surface. It is deliberately thin:
// list conversations, open one, send a line. No receipts, no typing
// indicators, no live push; 'r' re-pulls the open conversation.
type MessagesModel struct {
	apiClient *api.Client

	// Data
	conversations []models.Conversation
	messages      []models.DirectMessage
	peer          *models.UserSummary
	selfID        string

	// Compose line
	input textinput.Model

	// State
	loading bool
	err     error
	cursor  int

	// Window size
	width  int
	height int
}

// NewMessagesModel creates a new messages model
func NewMessagesModel(apiClient *api.Client) MessagesModel {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 2000
	input.Width = 50

	return MessagesModel{
		apiClient: apiClient,
		input:     input,
	}
}

// SetSelfID tells the model who the current user is
func (m *MessagesModel) SetSelfID(id string) {
	m.selfID = id
}

// Init initializes and loads data
func (m MessagesModel) Init() tea.Cmd {
	m.loading = true
	return m.loadConversations()
}

// Update handles messages
func (m MessagesModel) Update(msg tea.Msg) (MessagesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.peer != nil {
			return m.updateConversation(msg)
		}

		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("j", "down"))):
			if m.cursor < len(m.conversations)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("k", "up"))):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if m.cursor < len(m.conversations) {
				peer := m.conversations[m.cursor].Peer
				m.peer = &peer
				m.loading = true
				return m, tea.Batch(m.loadMessages(peer.ID), m.input.Focus())
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
			m.loading = true
			return m, m.loadConversations()
		}

	case ConversationsLoadedMsg:
		m.loading = false
		m.conversations = msg.Conversations
		if m.cursor >= len(m.conversations) {
			m.cursor = 0
		}
		return m, nil

	case MessagesLoadedMsg:
		if m.peer == nil || msg.PeerID != m.peer.ID {
			return m, nil // stale load from a previously opened conversation
		}
		m.loading = false
		m.messages = msg.Messages
		return m, nil

	case MessageSentMsg:
		if m.peer != nil && msg.Message.To.ID == m.peer.ID {
			m.messages = append(m.messages, msg.Message)
		}
		return m, nil

	case MessagesErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// updateConversation handles keys while a conversation is open
func (m MessagesModel) updateConversation(msg tea.KeyMsg) (MessagesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		m.peer = nil
		m.messages = nil
		m.input.Blur()
		m.input.Reset()
		m.loading = true
		return m, m.loadConversations()

	case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+r"))):
		m.loading = true
		return m, m.loadMessages(m.peer.ID)

	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		content := strings.TrimSpace(m.input.Value())
		if content == "" {
			return m, nil
		}
		m.input.Reset()
		return m, m.sendMessage(m.peer.ID, content)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the messages view
func (m MessagesModel) View() string {
	if m.peer != nil {
		return m.renderConversation()
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("✉️  Messages"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Loading conversations..."))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Press 'r' to retry"))
		return b.String()
	}

	if len(m.conversations) == 0 {
		b.WriteString(styles.InfoStyle.Render("No conversations yet"))
		return b.String()
	}

	for i, conv := range m.conversations {
		prefix := "  "
		style := styles.ListItemStyle
		if i == m.cursor {
			prefix = "▸ "
			style = styles.ListItemSelectedStyle
		}

		name := styles.ListItemTitleStyle.Render(conv.Peer.DisplayName)
		line := prefix + name
		if conv.Unread > 0 {
			line += " " + styles.BadgePrimaryStyle.Render(fmt.Sprintf("%d", conv.Unread))
		}
		if conv.LastMessage != nil {
			line += "\n    " + styles.ListItemDescStyle.Render(styles.Truncate(conv.LastMessage.Content, 50))
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.RenderDivider(40))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ navigate • Enter open • r refresh"))

	return b.String()
}

// renderConversation renders the open conversation with the compose line
func (m MessagesModel) renderConversation() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("✉️  " + m.peer.DisplayName))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Loading messages..."))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	// Last page of messages, oldest first
	visible := m.messages
	maxLines := m.height - 10
	if maxLines > 0 && len(visible) > maxLines {
		visible = visible[len(visible)-maxLines:]
	}
	for _, dm := range visible {
		who := dm.From.DisplayName
		style := styles.MetaValueStyle
		if dm.From.ID == m.selfID {
			who = "you"
			style = styles.HighlightStyle
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			style.Render(who+":"),
			dm.Content,
			styles.HelpStyle.Render(styles.RelativeTime(dm.CreatedAt))))
	}

	b.WriteString("\n")
	b.WriteString(styles.InputStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Enter send • Ctrl+R refresh • ESC back"))

	return b.String()
}

// loadConversations loads the conversation list
func (m MessagesModel) loadConversations() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		conversations, err := m.apiClient.ListConversations(ctx)
		if err != nil {
			return MessagesErrorMsg{Err: err}
		}
		return ConversationsLoadedMsg{Conversations: conversations}
	}
}

// loadMessages loads the history with one peer
func (m MessagesModel) loadMessages(peerID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		messages, err := m.apiClient.ListMessages(ctx, peerID)
		if err != nil {
			return MessagesErrorMsg{Err: err}
		}
		return MessagesLoadedMsg{PeerID: peerID, Messages: messages}
	}
}

// sendMessage sends one message
func (m MessagesModel) sendMessage(peerID, content string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		dm, err := m.apiClient.SendMessage(ctx, peerID, content)
		if err != nil {
			return MessagesErrorMsg{Err: err}
		}
		return MessageSentMsg{Message: *dm}
	}
}

// Messages

// ConversationsLoadedMsg is sent when the conversation list is loaded
type ConversationsLoadedMsg struct {
	Conversations []models.Conversation
}

// MessagesLoadedMsg is sent when one conversation's history is loaded
type MessagesLoadedMsg struct {
	PeerID   string
	Messages []models.DirectMessage
}

// MessageSentMsg is sent after a message is delivered
type MessageSentMsg struct {
	Message models.DirectMessage
}

// MessagesErrorMsg is sent on messaging errors
type MessagesErrorMsg struct {
	Err error
}

// ConversationOpen reports whether the compose line is capturing keys
func (m MessagesModel) ConversationOpen() bool { return m.peer != nil }
