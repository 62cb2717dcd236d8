package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"waveline/internal/api"
	"waveline/internal/tui/styles"
	"waveline/internal/ws"
	"waveline/pkg/models"
)

// LiveModel lists active livestreams and hosts the stream viewer: event
// feed, live chat and viewer count over the per-stream WebSocket channel.
type LiveModel struct {
	apiClient *api.Client
	wsBase    string
	token     string

	// Stream list
	streams []models.Stream
	cursor  int

	// Viewer state
	current *models.Stream
	events  []models.StreamEvent
	viewers int

	// Connection state
	conn       *ws.Conn
	connected  bool
	connecting bool
	// connGen increments on every (re)connect; stale reads are dropped.
	connGen int64

	// Chat input
	chatInput textinput.Model

	// State
	loading bool
	err     error

	// Window size
	width  int
	height int
}

// NewLiveModel creates a new live model
func NewLiveModel(apiClient *api.Client, wsBase string) LiveModel {
	chatInput := textinput.New()
	chatInput.Placeholder = "Say something..."
	chatInput.CharLimit = 500
	chatInput.Width = 50
	chatInput.Focus()

	return LiveModel{
		apiClient: apiClient,
		wsBase:    wsBase,
		chatInput: chatInput,
	}
}

// SetToken updates the auth token used for the WebSocket handshake
func (m *LiveModel) SetToken(token string) {
	m.token = token
}

// Init initializes and loads the stream list
func (m LiveModel) Init() tea.Cmd {
	m.loading = true
	return m.loadStreams()
}

// Update handles messages
func (m LiveModel) Update(msg tea.Msg) (LiveModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.current != nil {
			return m.updateViewer(msg)
		}
		return m.updateList(msg)

	case StreamsLoadedMsg:
		m.loading = false
		m.streams = msg.Streams
		if m.cursor >= len(m.streams) {
			m.cursor = 0
		}
		return m, nil

	case StreamOpenedMsg:
		m.loading = false
		m.current = msg.Stream
		m.viewers = msg.Stream.ViewerCount
		m.events = nil
		return m.startConnect()

	case StreamConnectedMsg:
		if msg.Gen != m.connGen {
			return m, nil
		}
		m.connecting = false
		m.connected = true
		m.conn = msg.Conn
		m.err = nil
		return m, m.listen(msg.Gen)

	case StreamEventMsg:
		if msg.Gen != m.connGen {
			return m, nil
		}
		return m.applyEvent(msg)

	case StreamDisconnectedMsg:
		if msg.Gen != m.connGen {
			return m, nil
		}
		m.connected = false
		m.conn = nil
		return m, nil

	case LiveErrorMsg:
		if msg.Gen != 0 && msg.Gen != m.connGen {
			return m, nil
		}
		m.loading = false
		m.connecting = false
		m.err = msg.Err
		return m, nil
	}

	if m.current != nil {
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateList handles keys on the stream list
func (m LiveModel) updateList(msg tea.KeyMsg) (LiveModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("j", "down"))):
		if m.cursor < len(m.streams)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("k", "up"))):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		if m.cursor < len(m.streams) {
			m.loading = true
			return m, m.openStream(m.streams[m.cursor].ID)
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
		m.loading = true
		return m, m.loadStreams()
	}
	return m, nil
}

// updateViewer handles keys inside the stream viewer
func (m LiveModel) updateViewer(msg tea.KeyMsg) (LiveModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		m.Close()
		m.current = nil
		m.events = nil
		m.chatInput.Blur()
		m.chatInput.Reset()
		m.loading = true
		return m, m.loadStreams()

	case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+r"))):
		return m.startConnect()

	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		content := strings.TrimSpace(m.chatInput.Value())
		if content == "" || !m.connected {
			return m, nil
		}
		m.chatInput.Reset()
		return m, m.sendChat(content)
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// applyEvent folds one stream event into viewer state
func (m LiveModel) applyEvent(msg StreamEventMsg) (LiveModel, tea.Cmd) {
	event := msg.Event
	switch event.Type {
	case "viewer_count":
		m.viewers = event.Viewers
	case "ended":
		if m.current != nil {
			m.current.Status = models.StreamEnded
		}
		m.events = append(m.events, event)
	default:
		m.events = append(m.events, event)
	}
	// Keep a bounded scrollback
	if len(m.events) > 200 {
		m.events = m.events[len(m.events)-200:]
	}
	return m, m.listen(msg.Gen)
}

// View renders the stream list or viewer
func (m LiveModel) View() string {
	if m.current != nil {
		return m.renderViewer()
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("📺 Live"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Loading streams..."))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Press 'r' to retry"))
		return b.String()
	}

	if len(m.streams) == 0 {
		b.WriteString(styles.InfoStyle.Render("Nobody is live right now"))
		return b.String()
	}

	for i, stream := range m.streams {
		prefix := "  "
		style := styles.ListItemStyle
		if i == m.cursor {
			prefix = "▸ "
			style = styles.ListItemSelectedStyle
		}

		title := styles.ListItemTitleStyle.Render(styles.Truncate(stream.Title, 40))
		host := styles.MetaValueStyle.Render(stream.Host.DisplayName)
		badge := m.renderStatus(stream.Status)
		viewers := styles.HelpStyle.Render(fmt.Sprintf("%d watching", stream.ViewerCount))

		b.WriteString(style.Render(fmt.Sprintf("%s%s %s %s %s", prefix, title, badge, host, viewers)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.RenderDivider(50))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ navigate • Enter watch • r refresh"))

	return b.String()
}

// renderViewer renders the open stream
func (m LiveModel) renderViewer() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("📺 " + styles.Truncate(m.current.Title, 50)))
	b.WriteString("  ")
	b.WriteString(m.renderStatus(m.current.Status))
	b.WriteString("  ")

	if m.connected {
		b.WriteString(styles.SuccessStyle.Render("● Connected"))
	} else if m.connecting {
		b.WriteString(styles.WarningStyle.Render("○ Connecting..."))
	} else {
		b.WriteString(styles.ErrorStyle.Render("○ Disconnected"))
	}
	b.WriteString("\n")

	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Hosted by %s • %d watching",
		m.current.Host.DisplayName, m.viewers)))
	if m.current.PlaybackURL != "" {
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Playback: " + m.current.PlaybackURL))
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	// Event feed, most recent last
	maxVisible := 12
	start := len(m.events) - maxVisible
	if start < 0 {
		start = 0
	}
	if start > 0 {
		b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("  ↑ %d earlier", start)))
		b.WriteString("\n")
	}
	for _, event := range m.events[start:] {
		b.WriteString(m.renderEvent(event))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.RenderDivider(50))
	b.WriteString("\n")

	if m.connected && m.current.Status == models.StreamLive {
		b.WriteString(styles.InputFocusedStyle.Render("> "))
		b.WriteString(m.chatInput.View())
	} else if m.current.Status == models.StreamEnded {
		b.WriteString(styles.HelpStyle.Render("  [Stream has ended]"))
	} else {
		b.WriteString(styles.HelpStyle.Render("  [Not connected - press Ctrl+R to reconnect]"))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("Enter chat • Ctrl+R reconnect • ESC back"))

	return b.String()
}

// renderEvent renders one line of the event feed
func (m LiveModel) renderEvent(event models.StreamEvent) string {
	timeStr := event.Timestamp.Format("15:04:05")

	switch event.Type {
	case "chat":
		return "  " + styles.HelpStyle.Render("["+timeStr+"] ") +
			styles.HighlightStyle.Render(event.Username) +
			styles.CardContentStyle.Render(": "+event.Content)
	case "started":
		return "  " + styles.SuccessStyle.Render("━━━ stream started ━━━")
	case "ended":
		return "  " + styles.ErrorStyle.Render("━━━ stream ended ━━━")
	default:
		return "  " + styles.HelpStyle.Render("["+timeStr+"] "+event.Type)
	}
}

// renderStatus renders a stream status badge
func (m LiveModel) renderStatus(status models.StreamStatus) string {
	switch status {
	case models.StreamLive:
		return styles.BadgeDangerStyle.Render("LIVE")
	case models.StreamScheduled:
		return styles.BadgeWarningStyle.Render("soon")
	default:
		return styles.BadgePrimaryStyle.Render("ended")
	}
}

// startConnect bumps the generation and dials the stream channel
func (m LiveModel) startConnect() (LiveModel, tea.Cmd) {
	m.connGen++
	gen := m.connGen
	m.connecting = true
	m.connected = false
	m.err = nil
	return m, m.connect(gen)
}

// connect dials the per-stream WebSocket channel
func (m LiveModel) connect(gen int64) tea.Cmd {
	streamID := m.current.ID
	old := m.conn
	return func() tea.Msg {
		if old != nil {
			old.Close()
		}

		conn, err := ws.Dial(ws.StreamURL(m.wsBase, streamID), m.token)
		if err != nil {
			return LiveErrorMsg{Gen: gen, Err: err}
		}
		return StreamConnectedMsg{Gen: gen, Conn: conn}
	}
}

// listen reads the next stream event
func (m LiveModel) listen(gen int64) tea.Cmd {
	conn := m.conn
	return func() tea.Msg {
		if conn == nil {
			return StreamDisconnectedMsg{Gen: gen}
		}
		event, err := conn.ReadStreamEvent()
		if err != nil {
			if ws.IsExpectedClose(err) {
				return StreamDisconnectedMsg{Gen: gen}
			}
			return LiveErrorMsg{Gen: gen, Err: fmt.Errorf("read failed: %w", err)}
		}
		return StreamEventMsg{Gen: gen, Event: *event}
	}
}

// sendChat sends one chat line on the stream channel
func (m LiveModel) sendChat(content string) tea.Cmd {
	gen := m.connGen
	conn := m.conn
	return func() tea.Msg {
		if conn == nil {
			return StreamDisconnectedMsg{Gen: gen}
		}
		if err := conn.SendStreamChat(content); err != nil {
			if ws.IsExpectedClose(err) {
				return StreamDisconnectedMsg{Gen: gen}
			}
			return LiveErrorMsg{Gen: gen, Err: fmt.Errorf("send failed: %w", err)}
		}
		return nil
	}
}

// loadStreams loads the live stream list
func (m LiveModel) loadStreams() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		streams, err := m.apiClient.ListLiveStreams(ctx)
		if err != nil {
			return LiveErrorMsg{Err: err}
		}
		return StreamsLoadedMsg{Streams: streams}
	}
}

// openStream fetches one stream before connecting to its channel
func (m LiveModel) openStream(streamID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		stream, err := m.apiClient.GetStream(ctx, streamID)
		if err != nil {
			return LiveErrorMsg{Err: err}
		}
		return StreamOpenedMsg{Stream: stream}
	}
}

// Close tears down the WebSocket connection
func (m *LiveModel) Close() {
	m.connGen++
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
		m.connected = false
	}
}

// Messages

// StreamsLoadedMsg is sent when the stream list is loaded
type StreamsLoadedMsg struct {
	Streams []models.Stream
}

// StreamOpenedMsg is sent when a stream's detail is loaded
type StreamOpenedMsg struct {
	Stream *models.Stream
}

// StreamConnectedMsg signals a successful channel connection
type StreamConnectedMsg struct {
	Gen  int64
	Conn *ws.Conn
}

// StreamDisconnectedMsg signals channel disconnection
type StreamDisconnectedMsg struct{ Gen int64 }

// StreamEventMsg carries one received stream event
type StreamEventMsg struct {
	Gen   int64
	Event models.StreamEvent
}

// LiveErrorMsg carries an error; Gen is zero for list-level errors
type LiveErrorMsg struct {
	Gen int64
	Err error
}

// Watching reports whether the stream chat input is capturing keys
func (m LiveModel) Watching() bool { return m.current != nil }
