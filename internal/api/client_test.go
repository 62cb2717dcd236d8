package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waveline/pkg/models"
)

// memTokens is an in-memory TokenStore for tests
type memTokens struct {
	mu   sync.Mutex
	pair models.TokenPair
}

func (m *memTokens) Tokens() (models.TokenPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pair.Access == "" {
		return models.TokenPair{}, models.ErrNoSession
	}
	return m.pair, nil
}

func (m *memTokens) SetTokens(pair models.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = pair
	return nil
}

func (m *memTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = models.TokenPair{}
	return nil
}

func envelope(t *testing.T, w http.ResponseWriter, data interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(models.APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}))
}

func TestSilentRefreshRetriesOnce(t *testing.T) {
	var refreshes int32
	mux := http.NewServeMux()
	mux.HandleFunc("/users/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshes, 1)
		envelope(t, w, models.TokenPair{Access: "fresh", Refresh: "ref-2"})
	})
	mux.HandleFunc("/settings/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		envelope(t, w, models.DefaultSettings())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := &memTokens{pair: models.TokenPair{Access: "stale", Refresh: "ref-1"}}
	client := NewClient(srv.URL, tokens)

	settings, err := client.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))

	pair, err := tokens.Tokens()
	require.NoError(t, err)
	assert.Equal(t, "fresh", pair.Access)
	assert.Equal(t, "ref-2", pair.Refresh)
}

func TestRefreshFailureClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/settings/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := &memTokens{pair: models.TokenPair{Access: "stale", Refresh: "dead"}}
	client := NewClient(srv.URL, tokens)

	_, err := client.GetSettings(context.Background())
	assert.ErrorIs(t, err, models.ErrSessionExpired)

	_, err = tokens.Tokens()
	assert.ErrorIs(t, err, models.ErrNoSession)
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	var refreshes int32
	mux := http.NewServeMux()
	mux.HandleFunc("/users/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshes, 1)
		time.Sleep(50 * time.Millisecond)
		envelope(t, w, models.TokenPair{Access: "fresh", Refresh: "ref-2"})
	})
	mux.HandleFunc("/settings/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		envelope(t, w, models.DefaultSettings())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := &memTokens{pair: models.TokenPair{Access: "stale", Refresh: "ref-1"}}
	client := NewClient(srv.URL, tokens)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.GetSettings(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes),
		"siblings must reuse the first refresh instead of racing")
}

func TestUnauthenticatedCallsSkipRefresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, &memTokens{})
	_, err := client.Login(context.Background(), "alice", "wrong")

	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestCreateCommentMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/comments/comments/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "post-1", r.FormValue("post"))
		assert.Equal(t, "", r.FormValue("content"))
		assert.Equal(t, []string{"https://gifs.example/g1"}, r.MultipartForm.Value["gif_urls"])

		files := r.MultipartForm.File["attachments"]
		require.Len(t, files, 1)
		assert.Equal(t, "photo.png", files[0].Filename)

		envelope(t, w, models.Comment{ID: "c1", Post: "post-1"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, &memTokens{pair: models.TokenPair{Access: "tok", Refresh: "ref"}})

	// Empty text plus one attachment satisfies the composer precondition
	created, err := client.CreateComment(context.Background(), models.CreateCommentRequest{
		Post: "post-1",
		Attachments: []models.Upload{
			{Kind: models.MediaImage, Filename: "photo.png", Data: []byte{0x89, 0x50}},
			{Kind: models.MediaGIF, GIFURL: "https://gifs.example/g1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", created.ID)
	assert.Equal(t, "", created.Content)
}

func TestCreateCommentValidationBeforeNetwork(t *testing.T) {
	// No server at all: validation must fail before any dial
	client := NewClient("http://127.0.0.1:0", &memTokens{pair: models.TokenPair{Access: "t", Refresh: "r"}})
	_, err := client.CreateComment(context.Background(), models.CreateCommentRequest{
		Post:    "post-1",
		Content: "   ",
	})
	assert.ErrorIs(t, err, models.ErrEmptyComment)
}

func TestAccessTokenExpiresSoon(t *testing.T) {
	makeToken := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": exp.Unix(),
			"sub": "u1",
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return signed
	}

	tokens := &memTokens{pair: models.TokenPair{
		Access:  makeToken(time.Now().Add(time.Hour)),
		Refresh: "r",
	}}
	client := NewClient("http://127.0.0.1:0", tokens)
	assert.False(t, client.AccessTokenExpiresSoon(time.Minute))
	assert.True(t, client.AccessTokenExpiresSoon(2*time.Hour))

	tokens.SetTokens(models.TokenPair{Access: "not-a-jwt", Refresh: "r"})
	assert.True(t, client.AccessTokenExpiresSoon(time.Minute))
}
