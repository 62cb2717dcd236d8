package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waveline/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTokensRoundTrip(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Tokens()
	assert.ErrorIs(t, err, models.ErrNoSession)

	pair := models.TokenPair{Access: "acc-1", Refresh: "ref-1"}
	require.NoError(t, store.SetTokens(pair))

	got, err := store.Tokens()
	require.NoError(t, err)
	assert.Equal(t, pair, got)

	// Overwrite on refresh
	require.NoError(t, store.SetTokens(models.TokenPair{Access: "acc-2", Refresh: "ref-2"}))
	got, err = store.Tokens()
	require.NoError(t, err)
	assert.Equal(t, "acc-2", got.Access)
}

func TestClearKeepsSettings(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetTokens(models.TokenPair{Access: "a", Refresh: "r"}))
	require.NoError(t, store.SetUser(models.User{ID: "u1", Username: "alice"}))

	prefs := models.DefaultSettings()
	prefs.Theme = "light"
	require.NoError(t, store.SaveSettings(prefs))

	require.NoError(t, store.Clear())

	_, err := store.Tokens()
	assert.ErrorIs(t, err, models.ErrNoSession)
	_, err = store.User()
	assert.ErrorIs(t, err, models.ErrNoSession)

	got, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, "light", got.Theme)
}

func TestSettingsDefaultWhenEmpty(t *testing.T) {
	store := openTestStore(t)
	got, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), got)
}
