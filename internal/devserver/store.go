// Package devserver is an in-memory implementation of the waveline API for
// local development. It serves the same REST surface and WebSocket channels
// the TUI consumes, with state that lives only as long as the process.
package devserver

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"waveline/pkg/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrForbidden     = errors.New("forbidden")
)

// account pairs a public user with its credential hash
type account struct {
	user         models.User
	passwordHash string
}

// mediaBlob is an uploaded attachment body served back at /media/:id
type mediaBlob struct {
	contentType string
	data        []byte
}

// Store holds all server state behind one mutex. Every handler runs a short
// critical section; nothing blocks while holding the lock.
type Store struct {
	mu sync.Mutex

	accounts    map[string]*account // by user id
	byUsername  map[string]string   // username -> user id
	settings    map[string]models.Settings
	posts       map[string]*models.Post
	postOrder   []string // newest first
	comments    map[string]*models.Comment
	postThreads map[string][]string                       // post id -> comment ids, oldest first
	reactions   map[string]map[string]models.ReactionKind // target key -> user id -> kind
	stories     map[string]*models.Story
	storyOrder  []string
	friendships map[string]*models.Friendship
	streams     map[string]*models.Stream
	messages    []models.DirectMessage
	media       map[string]mediaBlob
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]*account),
		byUsername:  make(map[string]string),
		settings:    make(map[string]models.Settings),
		posts:       make(map[string]*models.Post),
		comments:    make(map[string]*models.Comment),
		postThreads: make(map[string][]string),
		reactions:   make(map[string]map[string]models.ReactionKind),
		stories:     make(map[string]*models.Story),
		friendships: make(map[string]*models.Friendship),
		streams:     make(map[string]*models.Stream),
		media:       make(map[string]mediaBlob),
	}
}

// ---- users ----

// CreateUser registers an account. Username comparison is case-insensitive.
func (s *Store) CreateUser(username, email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(username)
	if _, taken := s.byUsername[key]; taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:          uuid.New().String(),
		Username:    username,
		Email:       email,
		DisplayName: username,
		CreatedAt:   time.Now(),
	}
	s.accounts[user.ID] = &account{user: user, passwordHash: string(hash)}
	s.byUsername[key] = user.ID
	s.settings[user.ID] = models.DefaultSettings()
	return &user, nil
}

// Authenticate checks a username/password pair
func (s *Store) Authenticate(username, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, ErrNotFound
	}
	acct := s.accounts[id]
	if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}
	user := acct.user
	return &user, nil
}

// User looks up a user by id
func (s *Store) User(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := acct.user
	return &user, nil
}

// UserByName looks up a user by username
func (s *Store) UserByName(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, ErrNotFound
	}
	user := s.accounts[id].user
	return &user, nil
}

func (s *Store) summaryLocked(userID string) models.UserSummary {
	if acct, ok := s.accounts[userID]; ok {
		return models.UserSummary{
			ID:          acct.user.ID,
			DisplayName: acct.user.DisplayName,
			AvatarURL:   acct.user.AvatarURL,
		}
	}
	return models.UserSummary{ID: userID, DisplayName: "unknown"}
}

// ---- settings ----

// Settings returns the preference bag for a user
func (s *Store) Settings(userID string) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prefs, ok := s.settings[userID]; ok {
		return prefs
	}
	return models.DefaultSettings()
}

// PatchSettings merges a partial update and returns the result
func (s *Store) PatchSettings(userID string, patch models.SettingsPatch) models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, ok := s.settings[userID]
	if !ok {
		prefs = models.DefaultSettings()
	}
	patch.Apply(&prefs)
	s.settings[userID] = prefs
	return prefs
}

// ---- media ----

// SaveMedia stores an uploaded body and returns its id
func (s *Store) SaveMedia(contentType string, data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.media[id] = mediaBlob{contentType: contentType, data: data}
	return id
}

// Media fetches an uploaded body
func (s *Store) Media(id string) (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.media[id]
	if !ok {
		return "", nil, ErrNotFound
	}
	return blob.contentType, blob.data, nil
}

// ---- posts ----

// CreatePost appends a post to the head of the feed
func (s *Store) CreatePost(authorID, content string, attachments []models.Attachment) *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := &models.Post{
		ID:          uuid.New().String(),
		Author:      s.summaryLocked(authorID),
		Content:     content,
		Attachments: attachments,
		Reactions:   models.ReactionSummary{Counts: map[models.ReactionKind]int{}},
		CreatedAt:   time.Now(),
	}
	s.posts[post.ID] = post
	s.postOrder = append([]string{post.ID}, s.postOrder...)
	return post
}

// ListPosts returns a page of the feed, newest first
func (s *Store) ListPosts(viewerID string, limit, offset int) models.PostListResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.postOrder)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]models.Post, 0, end-offset)
	for _, id := range s.postOrder[offset:end] {
		page = append(page, s.postViewLocked(s.posts[id], viewerID))
	}
	return models.PostListResponse{
		Data:    page,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
	}
}

// Post returns one post with viewer-relative reaction state
func (s *Store) Post(postID, viewerID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return nil, ErrNotFound
	}
	view := s.postViewLocked(post, viewerID)
	return &view, nil
}

// UpdatePost replaces a post's text. Only the author may edit.
func (s *Store) UpdatePost(postID, viewerID, content string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return nil, ErrNotFound
	}
	if post.Author.ID != viewerID {
		return nil, ErrForbidden
	}
	now := time.Now()
	post.Content = content
	post.EditedAt = &now
	view := s.postViewLocked(post, viewerID)
	return &view, nil
}

// DeletePost removes a post and its thread. Only the author may delete.
func (s *Store) DeletePost(postID, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return ErrNotFound
	}
	if post.Author.ID != viewerID {
		return ErrForbidden
	}
	delete(s.posts, postID)
	for i, id := range s.postOrder {
		if id == postID {
			s.postOrder = append(s.postOrder[:i], s.postOrder[i+1:]...)
			break
		}
	}
	for _, cid := range s.postThreads[postID] {
		delete(s.comments, cid)
		delete(s.reactions, "comment:"+cid)
	}
	delete(s.postThreads, postID)
	delete(s.reactions, "post:"+postID)
	return nil
}

func (s *Store) postViewLocked(post *models.Post, viewerID string) models.Post {
	view := *post
	view.Reactions = s.reactionSummaryLocked("post:"+post.ID, viewerID)
	view.CommentCount = len(s.postThreads[post.ID])
	return view
}

// ---- comments ----

// CreateComment adds a comment to a post's thread. parentID is empty for
// top-level comments and must reference a comment on the same post otherwise.
func (s *Store) CreateComment(postID, parentID, authorID, content string, attachments []models.Attachment) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, ErrNotFound
	}
	var parent *string
	if parentID != "" {
		p, ok := s.comments[parentID]
		if !ok || p.Post != postID {
			return nil, ErrNotFound
		}
		parent = &parentID
	}

	comment := &models.Comment{
		ID:          uuid.New().String(),
		Parent:      parent,
		Post:        postID,
		Author:      s.summaryLocked(authorID),
		Content:     content,
		Attachments: attachments,
		Reactions:   models.ReactionSummary{Counts: map[models.ReactionKind]int{}},
		CreatedAt:   time.Now(),
	}
	s.comments[comment.ID] = comment
	s.postThreads[postID] = append(s.postThreads[postID], comment.ID)
	return comment, nil
}

// ListComments returns a post's thread as nested roots, oldest first
func (s *Store) ListComments(postID, viewerID string) (*models.CommentListResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, ErrNotFound
	}

	ids := s.postThreads[postID]
	children := make(map[string][]string)
	var roots []string
	for _, id := range ids {
		c := s.comments[id]
		if c.IsTopLevel() {
			roots = append(roots, id)
		} else {
			children[*c.Parent] = append(children[*c.Parent], id)
		}
	}

	var build func(id string) models.Comment
	build = func(id string) models.Comment {
		view := *s.comments[id]
		view.Reactions = s.reactionSummaryLocked("comment:"+id, viewerID)
		for _, childID := range children[id] {
			view.Replies = append(view.Replies, build(childID))
		}
		return view
	}

	out := make([]models.Comment, 0, len(roots))
	for _, id := range roots {
		out = append(out, build(id))
	}
	return &models.CommentListResponse{
		Data:  out,
		Total: len(ids),
		Limit: len(ids),
	}, nil
}

// UpdateComment replaces a comment's text. Only the author may edit.
func (s *Store) UpdateComment(commentID, viewerID, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[commentID]
	if !ok {
		return nil, ErrNotFound
	}
	if c.Author.ID != viewerID {
		return nil, ErrForbidden
	}
	now := time.Now()
	c.Content = content
	c.EditedAt = &now
	view := *c
	view.Reactions = s.reactionSummaryLocked("comment:"+commentID, viewerID)
	return &view, nil
}

// DeleteComment removes a comment and its descendants
func (s *Store) DeleteComment(commentID, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[commentID]
	if !ok {
		return ErrNotFound
	}
	if c.Author.ID != viewerID {
		return ErrForbidden
	}

	doomed := map[string]bool{commentID: true}
	// one pass per depth level; thread order guarantees parents precede children
	for changed := true; changed; {
		changed = false
		for _, id := range s.postThreads[c.Post] {
			other := s.comments[id]
			if other == nil || doomed[id] || other.Parent == nil {
				continue
			}
			if doomed[*other.Parent] {
				doomed[id] = true
				changed = true
			}
		}
	}

	kept := s.postThreads[c.Post][:0]
	for _, id := range s.postThreads[c.Post] {
		if doomed[id] {
			delete(s.comments, id)
			delete(s.reactions, "comment:"+id)
			continue
		}
		kept = append(kept, id)
	}
	s.postThreads[c.Post] = kept
	return nil
}

// CommentPost reports which post a comment belongs to
func (s *Store) CommentPost(commentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[commentID]
	if !ok {
		return "", ErrNotFound
	}
	return c.Post, nil
}

// ---- reactions ----

// Toggle applies the reaction transition for one user on one target and
// reports which of created/removed/updated happened.
func (s *Store) Toggle(targetKey, userID string, kind models.ReactionKind) (*models.ToggleReactionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.targetExistsLocked(targetKey); err != nil {
		return nil, err
	}

	held := s.reactions[targetKey]
	if held == nil {
		held = make(map[string]models.ReactionKind)
		s.reactions[targetKey] = held
	}

	prev, has := held[userID]
	switch {
	case !has:
		held[userID] = kind
		return &models.ToggleReactionResponse{Action: models.ReactionCreated, Kind: kind}, nil
	case prev == kind:
		delete(held, userID)
		return &models.ToggleReactionResponse{Action: models.ReactionRemoved, Kind: kind}, nil
	default:
		held[userID] = kind
		previous := prev
		return &models.ToggleReactionResponse{
			Action:   models.ReactionUpdated,
			Kind:     kind,
			Previous: &previous,
		}, nil
	}
}

// ReactionSummary aggregates reactions for one target
func (s *Store) ReactionSummary(targetKey, viewerID string) (*models.ReactionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.targetExistsLocked(targetKey); err != nil {
		return nil, err
	}
	summary := s.reactionSummaryLocked(targetKey, viewerID)
	return &summary, nil
}

func (s *Store) targetExistsLocked(targetKey string) error {
	switch {
	case strings.HasPrefix(targetKey, "post:"):
		if _, ok := s.posts[strings.TrimPrefix(targetKey, "post:")]; !ok {
			return ErrNotFound
		}
	case strings.HasPrefix(targetKey, "comment:"):
		if _, ok := s.comments[strings.TrimPrefix(targetKey, "comment:")]; !ok {
			return ErrNotFound
		}
	default:
		return ErrNotFound
	}
	return nil
}

func (s *Store) reactionSummaryLocked(targetKey, viewerID string) models.ReactionSummary {
	summary := models.ReactionSummary{Counts: map[models.ReactionKind]int{}}
	for userID, kind := range s.reactions[targetKey] {
		summary.Counts[kind]++
		summary.Total++
		if userID == viewerID {
			held := kind
			summary.UserReacted = &held
		}
	}
	return summary
}

// ---- stories ----

// CreateStory adds a story with a 24h lifetime
func (s *Store) CreateStory(authorID, caption string, media models.Attachment) *models.Story {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	story := &models.Story{
		ID:        uuid.New().String(),
		Author:    s.summaryLocked(authorID),
		Media:     media,
		Caption:   caption,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	s.stories[story.ID] = story
	s.storyOrder = append([]string{story.ID}, s.storyOrder...)
	return story
}

// ListStories returns unexpired stories, newest first
func (s *Store) ListStories(now time.Time) []models.Story {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Story, 0, len(s.storyOrder))
	for _, id := range s.storyOrder {
		story := s.stories[id]
		if story.Expired(now) {
			continue
		}
		out = append(out, *story)
	}
	return out
}

// DeleteStory removes one of the caller's stories
func (s *Store) DeleteStory(storyID, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	story, ok := s.stories[storyID]
	if !ok {
		return ErrNotFound
	}
	if story.Author.ID != viewerID {
		return ErrForbidden
	}
	delete(s.stories, storyID)
	for i, id := range s.storyOrder {
		if id == storyID {
			s.storyOrder = append(s.storyOrder[:i], s.storyOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ---- friendships ----

// ListFriendships returns every friendship involving the user
func (s *Store) ListFriendships(userID string) []models.Friendship {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Friendship
	for _, f := range s.friendships {
		if f.From.ID == userID || f.To.ID == userID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// SendFriendRequest creates a pending friendship from -> to
func (s *Store) SendFriendRequest(fromID, toID string) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fromID == toID {
		return nil, errors.New("cannot befriend yourself")
	}
	if _, ok := s.accounts[toID]; !ok {
		return nil, ErrNotFound
	}
	for _, f := range s.friendships {
		if f.Status == models.FriendshipDeclined {
			continue
		}
		if (f.From.ID == fromID && f.To.ID == toID) || (f.From.ID == toID && f.To.ID == fromID) {
			return nil, errors.New("friendship already exists")
		}
	}

	f := &models.Friendship{
		ID:        uuid.New().String(),
		From:      s.summaryLocked(fromID),
		To:        s.summaryLocked(toID),
		Status:    models.FriendshipPending,
		CreatedAt: time.Now(),
	}
	s.friendships[f.ID] = f
	view := *f
	return &view, nil
}

// ResolveFriendRequest accepts or declines a pending request. Only the
// recipient may resolve it.
func (s *Store) ResolveFriendRequest(friendshipID, viewerID string, accept bool) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.friendships[friendshipID]
	if !ok {
		return nil, ErrNotFound
	}
	if f.To.ID != viewerID {
		return nil, ErrForbidden
	}
	if f.Status != models.FriendshipPending {
		return nil, errors.New("request already resolved")
	}
	if accept {
		f.Status = models.FriendshipAccepted
	} else {
		f.Status = models.FriendshipDeclined
	}
	view := *f
	return &view, nil
}

// ---- streams ----

// CreateStream registers a scheduled livestream for a host
func (s *Store) CreateStream(hostID, title string) *models.Stream {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := &models.Stream{
		ID:        uuid.New().String(),
		Host:      s.summaryLocked(hostID),
		Title:     title,
		Status:    models.StreamScheduled,
		CreatedAt: time.Now(),
	}
	s.streams[stream.ID] = stream
	return stream
}

// Stream looks up a livestream by id
func (s *Store) Stream(streamID string) (*models.Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stream, ok := s.streams[streamID]
	if !ok {
		return nil, ErrNotFound
	}
	view := *stream
	return &view, nil
}

// ListLiveStreams returns streams currently live, most viewers first
func (s *Store) ListLiveStreams() []models.Stream {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Stream
	for _, stream := range s.streams {
		if stream.Status == models.StreamLive {
			out = append(out, *stream)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ViewerCount != out[j].ViewerCount {
			return out[i].ViewerCount > out[j].ViewerCount
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// TransitionStream moves a stream through scheduled -> live -> ended.
// Only the host may transition it.
func (s *Store) TransitionStream(streamID, viewerID string, to models.StreamStatus) (*models.Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, ok := s.streams[streamID]
	if !ok {
		return nil, ErrNotFound
	}
	if stream.Host.ID != viewerID {
		return nil, ErrForbidden
	}

	now := time.Now()
	switch {
	case to == models.StreamLive && stream.Status == models.StreamScheduled:
		stream.Status = models.StreamLive
		stream.StartedAt = &now
	case to == models.StreamEnded && stream.Status == models.StreamLive:
		stream.Status = models.StreamEnded
		stream.EndedAt = &now
	default:
		return nil, errors.New("invalid stream transition")
	}
	view := *stream
	return &view, nil
}

// SetViewerCount records the live viewer total for a stream
func (s *Store) SetViewerCount(streamID string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stream, ok := s.streams[streamID]; ok {
		stream.ViewerCount = count
	}
}

// ---- messages ----

// SendMessage appends a direct message
func (s *Store) SendMessage(fromID, toID, content string) (*models.DirectMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[toID]; !ok {
		return nil, ErrNotFound
	}
	msg := models.DirectMessage{
		ID:        uuid.New().String(),
		From:      s.summaryLocked(fromID),
		To:        s.summaryLocked(toID),
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.messages = append(s.messages, msg)
	return &msg, nil
}

// ListMessages returns the conversation between the user and peer,
// oldest first.
func (s *Store) ListMessages(userID, peerID string) []models.DirectMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.DirectMessage
	for _, msg := range s.messages {
		if (msg.From.ID == userID && msg.To.ID == peerID) ||
			(msg.From.ID == peerID && msg.To.ID == userID) {
			out = append(out, msg)
		}
	}
	return out
}

// ListConversations groups the user's messages by peer, most recent first
func (s *Store) ListConversations(userID string) []models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := make(map[string]models.DirectMessage)
	for _, msg := range s.messages {
		var peerID string
		switch userID {
		case msg.From.ID:
			peerID = msg.To.ID
		case msg.To.ID:
			peerID = msg.From.ID
		default:
			continue
		}
		latest[peerID] = msg
	}

	out := make([]models.Conversation, 0, len(latest))
	for peerID, msg := range latest {
		last := msg
		out = append(out, models.Conversation{
			Peer:        s.summaryLocked(peerID),
			LastMessage: &last,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt)
	})
	return out
}
