package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"waveline/internal/api"
	"waveline/internal/session"
	"waveline/internal/tui/config"
	"waveline/internal/tui/focus"
	"waveline/internal/tui/styles"
	"waveline/internal/tui/views"
	"waveline/internal/ws"
	"waveline/pkg/models"
)

// View represents different screens in the TUI
type View int

const (
	ViewAuth View = iota
	ViewFeed
	ViewPost
	ViewStories
	ViewFriends
	ViewMessages
	ViewLive
	ViewSettings
)

// Model is the root Bubble Tea model
type Model struct {
	// Configuration
	config *config.Config

	// API client and local session
	apiClient *api.Client
	store     *session.Store

	// Focus manager
	focusManager *focus.Manager

	// Current view
	currentView  View
	previousView View

	// Key bindings
	keys KeyMap

	// Window dimensions
	width  int
	height int

	// User state
	isAuthenticated bool
	currentUser     models.User

	// Notifications channel state
	notifConn *ws.Conn
	notifGen  int64
	lastNote  *models.Notification

	// View models
	authModel     views.AuthModel
	feedModel     views.FeedModel
	postModel     views.PostModel
	storiesModel  views.StoriesModel
	friendsModel  views.FriendsModel
	messagesModel views.MessagesModel
	liveModel     views.LiveModel
	settingsModel views.SettingsModel

	// Error state
	err error
}

// New creates a new TUI application
func New(cfg *config.Config, store *session.Store) *Model {
	apiClient := api.NewClient(cfg.GetHTTPBaseURL(), store)
	focusMgr := focus.NewManager()

	m := &Model{
		config:       cfg,
		apiClient:    apiClient,
		store:        store,
		focusManager: focusMgr,
		currentView:  ViewAuth,
		keys:         DefaultKeyMap(),
	}

	// Initialize view models
	m.authModel = views.NewAuthModel(apiClient)
	m.feedModel = views.NewFeedModel(apiClient)
	m.postModel = views.NewPostModel(apiClient)
	m.storiesModel = views.NewStoriesModel(apiClient)
	m.friendsModel = views.NewFriendsModel(apiClient)
	m.messagesModel = views.NewMessagesModel(apiClient)
	m.liveModel = views.NewLiveModel(apiClient, cfg.GetWebSocketURL())
	m.settingsModel = views.NewSettingsModel(apiClient, store)

	// Resume a persisted session if the tokens still verify
	if user, err := store.User(); err == nil && user.ID != "" {
		if _, terr := store.Tokens(); terr == nil {
			m.adoptUser(user)
			m.currentView = ViewFeed
		}
	}

	return m
}

// adoptUser propagates the signed-in user into the view models
func (m *Model) adoptUser(user models.User) {
	m.isAuthenticated = true
	m.currentUser = user
	m.friendsModel.SetSelfID(user.ID)
	m.messagesModel.SetSelfID(user.ID)
	if pair, err := m.store.Tokens(); err == nil {
		m.liveModel.SetToken(pair.Access)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.isAuthenticated {
		return tea.Batch(m.feedModel.Init(), m.connectNotifications())
	}
	return m.authModel.Init()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Propagate to views
		m.authModel, _ = m.authModel.Update(msg)
		m.feedModel, _ = m.feedModel.Update(msg)
		m.postModel, _ = m.postModel.Update(msg)
		m.storiesModel, _ = m.storiesModel.Update(msg)
		m.friendsModel, _ = m.friendsModel.Update(msg)
		m.messagesModel, _ = m.messagesModel.Update(msg)
		m.liveModel, _ = m.liveModel.Update(msg)
		m.settingsModel, _ = m.settingsModel.Update(msg)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

	case views.AuthSuccessMsg:
		m.adoptUser(msg.User)
		m.currentView = ViewFeed
		return m, tea.Batch(m.feedModel.Init(), m.connectNotifications())

	case views.AuthErrorMsg:
		m.err = msg.Err
		return m, nil

	case views.SelectPostMsg:
		m.previousView = m.currentView
		m.currentView = ViewPost
		return m, m.postModel.SetPost(msg.PostID)

	case NotificationsConnectedMsg:
		if msg.Gen != m.notifGen {
			return m, nil
		}
		m.notifConn = msg.Conn
		return m, m.listenNotifications(msg.Gen)

	case NotificationMsg:
		if msg.Gen != m.notifGen {
			return m, nil
		}
		m.lastNote = &msg.Note
		return m, m.listenNotifications(msg.Gen)

	case NotificationsClosedMsg:
		if msg.Gen != m.notifGen {
			return m, nil
		}
		m.notifConn = nil
		return m, nil

	case SessionExpiredMsg:
		m.logout()
		return m, m.authModel.Init()
	}

	// Session expiry can surface from any view's API error
	if expired, cmd := m.interceptSessionExpiry(msg); expired {
		return m, cmd
	}

	// Route to current view
	return m.updateCurrentView(msg)
}

// handleGlobalKey handles app-level bindings; returns handled=false to let
// the active view consume the key instead.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	// Ctrl+C always quits, even from inside an input field
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		m.liveModel.Close()
		m.closeNotifications()
		return tea.Quit, true
	}

	// Mirror the active view's composer state into the focus mode. While an
	// input is open every key belongs to the view, ESC and Enter included.
	if m.inputActive() {
		m.focusManager.SetMode(focus.ModeInput)
	} else {
		m.focusManager.SetMode(focus.ModeNavigation)
	}
	if !m.keys.ShouldHandleKey(m.focusManager.GetMode(), msg) {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewFeed {
			m.liveModel.Close()
			m.closeNotifications()
			return tea.Quit, true
		}

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewPost {
			m.currentView = m.previousView
			return nil, true
		}

	case key.Matches(msg, m.keys.Feed):
		return m.switchTo(ViewFeed)

	case key.Matches(msg, m.keys.Stories):
		return m.switchTo(ViewStories)

	case key.Matches(msg, m.keys.Friends):
		return m.switchTo(ViewFriends)

	case key.Matches(msg, m.keys.Messages):
		return m.switchTo(ViewMessages)

	case key.Matches(msg, m.keys.Live):
		return m.switchTo(ViewLive)

	case key.Matches(msg, m.keys.Settings):
		return m.switchTo(ViewSettings)
	}

	return nil, false
}

// inputActive reports whether the active view has a text input open
func (m *Model) inputActive() bool {
	switch m.currentView {
	case ViewAuth:
		return true
	case ViewFeed:
		return m.feedModel.Composing()
	case ViewPost:
		return m.postModel.Composing()
	case ViewFriends:
		return m.friendsModel.Adding()
	case ViewMessages:
		return m.messagesModel.ConversationOpen()
	case ViewLive:
		return m.liveModel.Watching()
	}
	return false
}

// switchTo changes the active view and runs its loader
func (m *Model) switchTo(v View) (tea.Cmd, bool) {
	if !m.isAuthenticated || m.currentView == ViewAuth || m.currentView == v {
		return nil, false
	}
	m.previousView = m.currentView
	m.currentView = v

	switch v {
	case ViewFeed:
		return m.feedModel.Init(), true
	case ViewStories:
		return m.storiesModel.Init(), true
	case ViewFriends:
		return m.friendsModel.Init(), true
	case ViewMessages:
		return m.messagesModel.Init(), true
	case ViewLive:
		return m.liveModel.Init(), true
	case ViewSettings:
		return m.settingsModel.Init(), true
	}
	return nil, true
}

// interceptSessionExpiry detects a failed silent refresh bubbling out of a
// view and forces re-login.
func (m Model) interceptSessionExpiry(msg tea.Msg) (bool, tea.Cmd) {
	var err error
	switch e := msg.(type) {
	case views.FeedErrorMsg:
		err = e.Err
	case views.PostErrorMsg:
		err = e.Err
	case views.StoriesErrorMsg:
		err = e.Err
	case views.FriendsErrorMsg:
		err = e.Err
	case views.MessagesErrorMsg:
		err = e.Err
	case views.SettingsErrorMsg:
		err = e.Err
	}
	if err == nil || !models.IsSessionExpired(err) {
		return false, nil
	}
	return true, func() tea.Msg { return SessionExpiredMsg{} }
}

// logout drops the session and returns to the auth screen
func (m *Model) logout() {
	m.isAuthenticated = false
	m.currentUser = models.User{}
	m.closeNotifications()
	m.liveModel.Close()
	m.apiClient.Logout()
	m.currentView = ViewAuth
}

// updateCurrentView routes updates to the active view
func (m Model) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewAuth:
		m.authModel, cmd = m.authModel.Update(msg)
	case ViewFeed:
		m.feedModel, cmd = m.feedModel.Update(msg)
	case ViewPost:
		m.postModel, cmd = m.postModel.Update(msg)
	case ViewStories:
		m.storiesModel, cmd = m.storiesModel.Update(msg)
	case ViewFriends:
		m.friendsModel, cmd = m.friendsModel.Update(msg)
	case ViewMessages:
		m.messagesModel, cmd = m.messagesModel.Update(msg)
	case ViewLive:
		m.liveModel, cmd = m.liveModel.Update(msg)
	case ViewSettings:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	}

	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.currentView {
	case ViewAuth:
		content = m.authModel.View()
	case ViewFeed:
		content = m.feedModel.View()
	case ViewPost:
		content = m.postModel.View()
	case ViewStories:
		content = m.storiesModel.View()
	case ViewFriends:
		content = m.friendsModel.View()
	case ViewMessages:
		content = m.messagesModel.View()
	case ViewLive:
		content = m.liveModel.View()
	case ViewSettings:
		content = m.settingsModel.View()
	default:
		content = "Unknown view"
	}

	var statusBar string
	if m.isAuthenticated {
		statusBar = m.renderStatusBar()
	}

	return styles.AppStyle.Render(content + "\n\n" + statusBar)
}

// renderStatusBar renders the bottom status bar
func (m Model) renderStatusBar() string {
	viewName := ""
	switch m.currentView {
	case ViewFeed:
		viewName = "Feed"
	case ViewPost:
		viewName = "Post"
	case ViewStories:
		viewName = "Stories"
	case ViewFriends:
		viewName = "Friends"
	case ViewMessages:
		viewName = "Messages"
	case ViewLive:
		viewName = "Live"
	case ViewSettings:
		viewName = "Settings"
	}

	left := styles.StatusBarActiveStyle.Render("● " + viewName)
	if m.lastNote != nil {
		left += " " + styles.StatusBarStyle.Render("🔔 "+styles.Truncate(m.lastNote.Message, 40))
	}
	right := styles.StatusBarStyle.Render(
		fmt.Sprintf("%s | 1-6 views | ? help | q quit", m.currentUser.DisplayName))

	spacing := m.width - len(left) - len(right) - 4
	if spacing < 0 {
		spacing = 0
	}
	spaces := ""
	for i := 0; i < spacing; i++ {
		spaces += " "
	}

	return left + spaces + right
}

// connectNotifications dials the per-user notifications channel
func (m *Model) connectNotifications() tea.Cmd {
	m.notifGen++
	gen := m.notifGen
	userID := m.currentUser.ID
	wsBase := m.config.GetWebSocketURL()
	store := m.store

	return func() tea.Msg {
		pair, err := store.Tokens()
		if err != nil {
			return NotificationsClosedMsg{Gen: gen}
		}
		conn, err := ws.Dial(ws.NotificationsURL(wsBase, userID), pair.Access)
		if err != nil {
			// Notifications are best-effort; the app works without them
			return NotificationsClosedMsg{Gen: gen}
		}
		return NotificationsConnectedMsg{Gen: gen, Conn: conn}
	}
}

// listenNotifications reads the next notification
func (m Model) listenNotifications(gen int64) tea.Cmd {
	conn := m.notifConn
	return func() tea.Msg {
		if conn == nil {
			return NotificationsClosedMsg{Gen: gen}
		}
		note, err := conn.ReadNotification()
		if err != nil {
			return NotificationsClosedMsg{Gen: gen}
		}
		return NotificationMsg{Gen: gen, Note: *note}
	}
}

// closeNotifications tears down the notifications channel
func (m *Model) closeNotifications() {
	m.notifGen++
	if m.notifConn != nil {
		m.notifConn.Close()
		m.notifConn = nil
	}
}

// Messages

// NotificationsConnectedMsg signals the notifications channel is up
type NotificationsConnectedMsg struct {
	Gen  int64
	Conn *ws.Conn
}

// NotificationMsg carries one received notification
type NotificationMsg struct {
	Gen  int64
	Note models.Notification
}

// NotificationsClosedMsg signals the notifications channel went down
type NotificationsClosedMsg struct{ Gen int64 }

// SessionExpiredMsg forces a return to the auth screen
type SessionExpiredMsg struct{}
