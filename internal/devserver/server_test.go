package devserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waveline/pkg/models"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer("test-secret")
}

func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func registerUser(t *testing.T, s *Server, username string) models.LoginResponse {
	t.Helper()
	rec, env := doJSON(t, s, "POST", "/api/v1/users/auth/register/", "", models.RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.Equal(t, 201, rec.Code, rec.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Tokens.Access)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	created := registerUser(t, s, "ada")
	assert.Equal(t, "ada", created.User.Username)

	rec, env := doJSON(t, s, "POST", "/api/v1/users/auth/login/", "", models.LoginRequest{
		Username: "ada",
		Password: "password123",
	})
	require.Equal(t, 200, rec.Code)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, created.User.ID, resp.User.ID)

	rec, _ = doJSON(t, s, "POST", "/api/v1/users/auth/login/", "", models.LoginRequest{
		Username: "ada",
		Password: "wrong-password",
	})
	assert.Equal(t, 401, rec.Code)

	// duplicate username is rejected case-insensitively
	rec, _ = doJSON(t, s, "POST", "/api/v1/users/auth/register/", "", models.RegisterRequest{
		Username:        "ADA",
		Email:           "ada2@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	assert.Equal(t, 409, rec.Code)
}

func TestTokenRefreshAndVerify(t *testing.T) {
	s := newTestServer(t)
	session := registerUser(t, s, "ada")

	rec, env := doJSON(t, s, "POST", "/api/v1/users/auth/token/refresh/", "",
		map[string]string{"refresh": session.Tokens.Refresh})
	require.Equal(t, 200, rec.Code)
	var pair models.TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &pair))
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	rec, _ = doJSON(t, s, "POST", "/api/v1/users/auth/token/verify/", "",
		map[string]string{"token": pair.Access})
	assert.Equal(t, 200, rec.Code)

	// a refresh token is not an access token
	rec, _ = doJSON(t, s, "POST", "/api/v1/users/auth/token/verify/", "",
		map[string]string{"token": pair.Refresh})
	assert.Equal(t, 401, rec.Code)

	rec, _ = doJSON(t, s, "POST", "/api/v1/users/auth/token/refresh/", "",
		map[string]string{"refresh": "garbage"})
	assert.Equal(t, 401, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doJSON(t, s, "GET", "/api/v1/posts/posts/", "", nil)
	assert.Equal(t, 401, rec.Code)

	rec, _ = doJSON(t, s, "GET", "/api/v1/posts/posts/", "not-a-token", nil)
	assert.Equal(t, 401, rec.Code)

	session := registerUser(t, s, "ada")
	rec, _ = doJSON(t, s, "GET", "/api/v1/posts/posts/", session.Tokens.Access, nil)
	assert.Equal(t, 200, rec.Code)
}

func createPostMultipart(t *testing.T, s *Server, token, content string) models.Post {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("content", content))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/v1/posts/posts/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, 201, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var post models.Post
	require.NoError(t, json.Unmarshal(env.Data, &post))
	return post
}

func TestPostLifecycle(t *testing.T) {
	s := newTestServer(t)
	ada := registerUser(t, s, "ada")
	bob := registerUser(t, s, "bob")

	post := createPostMultipart(t, s, ada.Tokens.Access, "hello world")
	assert.Equal(t, ada.User.ID, post.Author.ID)

	rec, env := doJSON(t, s, "GET", "/api/v1/posts/posts/?limit=10&offset=0", ada.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	var feed models.PostListResponse
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed.Data, 1)
	assert.False(t, feed.HasMore)

	// only the author may edit or delete
	rec, _ = doJSON(t, s, "PUT", "/api/v1/posts/posts/"+post.ID+"/", bob.Tokens.Access,
		map[string]string{"content": "hijacked"})
	assert.Equal(t, 403, rec.Code)

	rec, env = doJSON(t, s, "PUT", "/api/v1/posts/posts/"+post.ID+"/", ada.Tokens.Access,
		map[string]string{"content": "edited"})
	require.Equal(t, 200, rec.Code)
	var edited models.Post
	require.NoError(t, json.Unmarshal(env.Data, &edited))
	assert.Equal(t, "edited", edited.Content)
	assert.NotNil(t, edited.EditedAt)

	rec, _ = doJSON(t, s, "DELETE", "/api/v1/posts/posts/"+post.ID+"/", ada.Tokens.Access, nil)
	assert.Equal(t, 200, rec.Code)

	rec, _ = doJSON(t, s, "GET", "/api/v1/posts/posts/"+post.ID+"/", ada.Tokens.Access, nil)
	assert.Equal(t, 404, rec.Code)
}

func TestCommentThreadNesting(t *testing.T) {
	s := newTestServer(t)
	ada := registerUser(t, s, "ada")
	post := createPostMultipart(t, s, ada.Tokens.Access, "thread me")

	createComment := func(parent, content string) models.Comment {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("post", post.ID))
		if parent != "" {
			require.NoError(t, w.WriteField("parent", parent))
		}
		require.NoError(t, w.WriteField("content", content))
		require.NoError(t, w.Close())

		req := httptest.NewRequest("POST", "/api/v1/comments/comments/", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+ada.Tokens.Access)
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		require.Equal(t, 201, rec.Code, rec.Body.String())

		var env envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		var comment models.Comment
		require.NoError(t, json.Unmarshal(env.Data, &comment))
		return comment
	}

	root := createComment("", "root")
	reply := createComment(root.ID, "reply")
	createComment(reply.ID, "deeper")

	rec, env := doJSON(t, s, "GET", "/api/v1/comments/comments/?post="+post.ID, ada.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	var thread models.CommentListResponse
	require.NoError(t, json.Unmarshal(env.Data, &thread))

	require.Len(t, thread.Data, 1)
	assert.Equal(t, 3, thread.Total)
	require.Len(t, thread.Data[0].Replies, 1)
	require.Len(t, thread.Data[0].Replies[0].Replies, 1)
	assert.Equal(t, "deeper", thread.Data[0].Replies[0].Replies[0].Content)

	// deleting the root removes its descendants too
	rec, _ = doJSON(t, s, "DELETE", "/api/v1/comments/comments/"+root.ID+"/", ada.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)

	rec, env = doJSON(t, s, "GET", "/api/v1/comments/comments/?post="+post.ID, ada.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &thread))
	assert.Empty(t, thread.Data)
	assert.Zero(t, thread.Total)
}

func TestReactionToggleTransitions(t *testing.T) {
	s := newTestServer(t)
	ada := registerUser(t, s, "ada")
	post := createPostMultipart(t, s, ada.Tokens.Access, "react to me")

	toggle := func(kind models.ReactionKind) models.ToggleReactionResponse {
		rec, env := doJSON(t, s, "POST", "/api/v1/reactions/reactions/toggle/", ada.Tokens.Access,
			models.ToggleReactionRequest{Post: post.ID, ReactionType: kind})
		require.Equal(t, 200, rec.Code, rec.Body.String())
		var resp models.ToggleReactionResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		return resp
	}

	first := toggle(models.ReactionLike)
	assert.Equal(t, models.ReactionCreated, first.Action)

	switched := toggle(models.ReactionLove)
	assert.Equal(t, models.ReactionUpdated, switched.Action)
	require.NotNil(t, switched.Previous)
	assert.Equal(t, models.ReactionLike, *switched.Previous)

	removed := toggle(models.ReactionLove)
	assert.Equal(t, models.ReactionRemoved, removed.Action)

	// exactly one target
	rec, _ := doJSON(t, s, "POST", "/api/v1/reactions/reactions/toggle/", ada.Tokens.Access,
		map[string]string{"post": post.ID, "comment": "x", "reaction_type": "like"})
	assert.Equal(t, 400, rec.Code)

	rec, env := doJSON(t, s, "GET", "/api/v1/reactions/reactions/?post="+post.ID, ada.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	var summary models.ReactionSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Zero(t, summary.Total)
	assert.Nil(t, summary.UserReacted)
}

func TestFriendshipFlow(t *testing.T) {
	s := newTestServer(t)
	ada := registerUser(t, s, "ada")
	bob := registerUser(t, s, "bob")

	rec, env := doJSON(t, s, "POST", "/api/v1/users/friendships/", ada.Tokens.Access,
		models.FriendRequestBody{To: "bob"})
	require.Equal(t, 201, rec.Code, rec.Body.String())
	var f models.Friendship
	require.NoError(t, json.Unmarshal(env.Data, &f))
	assert.Equal(t, models.FriendshipPending, f.Status)
	assert.Equal(t, bob.User.ID, f.To.ID)

	// the sender cannot accept their own request
	rec, _ = doJSON(t, s, "POST", "/api/v1/users/friendships/"+f.ID+"/accept/", ada.Tokens.Access, nil)
	assert.Equal(t, 403, rec.Code)

	rec, env = doJSON(t, s, "POST", "/api/v1/users/friendships/"+f.ID+"/accept/", bob.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &f))
	assert.Equal(t, models.FriendshipAccepted, f.Status)

	rec, env = doJSON(t, s, "GET", "/api/v1/users/friendships/", ada.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	var list []models.Friendship
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
}

func TestSettingsPatch(t *testing.T) {
	s := newTestServer(t)
	ada := registerUser(t, s, "ada")

	rec, env := doJSON(t, s, "GET", "/api/v1/settings/", ada.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	var prefs models.Settings
	require.NoError(t, json.Unmarshal(env.Data, &prefs))
	assert.Equal(t, "dark", prefs.Theme)

	theme := "light"
	scale := 125
	rec, env = doJSON(t, s, "PATCH", "/api/v1/settings/", ada.Tokens.Access,
		models.SettingsPatch{Theme: &theme, FontScale: &scale})
	require.Equal(t, 200, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &prefs))
	assert.Equal(t, "light", prefs.Theme)
	assert.Equal(t, 125, prefs.FontScale)
	// untouched fields survive the patch
	assert.Equal(t, "comfortable", prefs.Density)
}

func TestMessagesFlow(t *testing.T) {
	s := newTestServer(t)
	ada := registerUser(t, s, "ada")
	bob := registerUser(t, s, "bob")

	rec, env := doJSON(t, s, "POST", "/api/v1/messages/", ada.Tokens.Access,
		map[string]string{"to": bob.User.ID, "content": "hey bob"})
	require.Equal(t, 201, rec.Code, rec.Body.String())
	var sent models.DirectMessage
	require.NoError(t, json.Unmarshal(env.Data, &sent))
	assert.Equal(t, "hey bob", sent.Content)

	rec, env = doJSON(t, s, "GET", "/api/v1/messages/?peer="+ada.User.ID, bob.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	var thread []models.DirectMessage
	require.NoError(t, json.Unmarshal(env.Data, &thread))
	require.Len(t, thread, 1)

	rec, env = doJSON(t, s, "GET", "/api/v1/messages/conversations/", bob.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	var convos []models.Conversation
	require.NoError(t, json.Unmarshal(env.Data, &convos))
	require.Len(t, convos, 1)
	assert.Equal(t, ada.User.ID, convos[0].Peer.ID)
}

func TestStreamLifecycle(t *testing.T) {
	s := newTestServer(t)
	ada := registerUser(t, s, "ada")
	bob := registerUser(t, s, "bob")

	rec, env := doJSON(t, s, "POST", "/api/v1/livestreams/", ada.Tokens.Access,
		models.CreateStreamRequest{Title: "demo stream"})
	require.Equal(t, 201, rec.Code)
	var stream models.Stream
	require.NoError(t, json.Unmarshal(env.Data, &stream))
	assert.Equal(t, models.StreamScheduled, stream.Status)

	// scheduled streams are not in the live list
	rec, env = doJSON(t, s, "GET", "/api/v1/livestreams/live/", bob.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	var live []models.Stream
	require.NoError(t, json.Unmarshal(env.Data, &live))
	assert.Empty(t, live)

	// only the host may start it
	rec, _ = doJSON(t, s, "POST", "/api/v1/livestreams/"+stream.ID+"/start/", bob.Tokens.Access, nil)
	assert.Equal(t, 403, rec.Code)

	rec, env = doJSON(t, s, "POST", "/api/v1/livestreams/"+stream.ID+"/start/", ada.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &stream))
	assert.Equal(t, models.StreamLive, stream.Status)
	assert.NotNil(t, stream.StartedAt)

	rec, env = doJSON(t, s, "GET", "/api/v1/livestreams/live/", bob.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &live))
	require.Len(t, live, 1)

	rec, env = doJSON(t, s, "POST", "/api/v1/livestreams/"+stream.ID+"/end/", ada.Tokens.Access, nil)
	require.Equal(t, 200, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &stream))
	assert.Equal(t, models.StreamEnded, stream.Status)

	// ended streams cannot restart
	rec, _ = doJSON(t, s, "POST", "/api/v1/livestreams/"+stream.ID+"/start/", ada.Tokens.Access, nil)
	assert.Equal(t, 400, rec.Code)
}

func TestStoriesExpiry(t *testing.T) {
	s := newTestServer(t)
	ada := registerUser(t, s, "ada")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("caption", "sunset"))
	require.NoError(t, w.WriteField("gif_urls", "https://example.com/sunset.gif"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/v1/stories/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ada.Tokens.Access)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, 201, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var story models.Story
	require.NoError(t, json.Unmarshal(env.Data, &story))
	assert.True(t, story.ExpiresAt.After(story.CreatedAt))

	rec2, env2 := doJSON(t, s, "GET", "/api/v1/stories/", ada.Tokens.Access, nil)
	require.Equal(t, 200, rec2.Code)
	var stories []models.Story
	require.NoError(t, json.Unmarshal(env2.Data, &stories))
	require.Len(t, stories, 1)

	rec2, _ = doJSON(t, s, "DELETE", "/api/v1/stories/"+story.ID+"/", ada.Tokens.Access, nil)
	assert.Equal(t, 200, rec2.Code)
}
