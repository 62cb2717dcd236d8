package thread

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waveline/pkg/models"
)

func kindPtr(k models.ReactionKind) *models.ReactionKind { return &k }

func total(s models.ReactionSummary) int {
	sum := 0
	for _, n := range s.Counts {
		sum += n
	}
	return sum
}

func TestApplyToggleCreated(t *testing.T) {
	var s models.ReactionSummary
	ApplyToggle(&s, models.ToggleReactionResponse{
		Action: models.ReactionCreated,
		Kind:   models.ReactionLike,
	})

	assert.Equal(t, 1, s.Counts[models.ReactionLike])
	require.NotNil(t, s.UserReacted)
	assert.Equal(t, models.ReactionLike, *s.UserReacted)
	assert.Equal(t, total(s), s.Total)
}

func TestApplyToggleRemoved(t *testing.T) {
	s := models.ReactionSummary{
		Counts:      map[models.ReactionKind]int{models.ReactionLove: 2},
		Total:       2,
		UserReacted: kindPtr(models.ReactionLove),
	}
	ApplyToggle(&s, models.ToggleReactionResponse{
		Action: models.ReactionRemoved,
		Kind:   models.ReactionLove,
	})

	assert.Equal(t, 1, s.Counts[models.ReactionLove])
	assert.Nil(t, s.UserReacted)
	assert.Equal(t, total(s), s.Total)
}

func TestApplyToggleRemovedFloorsAtZero(t *testing.T) {
	s := models.ReactionSummary{UserReacted: kindPtr(models.ReactionWow)}
	ApplyToggle(&s, models.ToggleReactionResponse{
		Action: models.ReactionRemoved,
		Kind:   models.ReactionWow,
	})

	assert.Zero(t, s.Counts[models.ReactionWow])
	assert.Zero(t, s.Total)
	assert.Nil(t, s.UserReacted)
}

func TestApplyToggleUpdated(t *testing.T) {
	s := models.ReactionSummary{
		Counts:      map[models.ReactionKind]int{models.ReactionLike: 3},
		Total:       3,
		UserReacted: kindPtr(models.ReactionLike),
	}
	ApplyToggle(&s, models.ToggleReactionResponse{
		Action:   models.ReactionUpdated,
		Kind:     models.ReactionAngry,
		Previous: kindPtr(models.ReactionLike),
	})

	assert.Equal(t, 2, s.Counts[models.ReactionLike])
	assert.Equal(t, 1, s.Counts[models.ReactionAngry])
	require.NotNil(t, s.UserReacted)
	assert.Equal(t, models.ReactionAngry, *s.UserReacted)
	assert.Equal(t, total(s), s.Total)
}

func TestApplyToggleUpdatedFallsBackToLocalPrevious(t *testing.T) {
	// Some endpoints omit "previous"; the local user_reacted stands in
	s := models.ReactionSummary{
		Counts:      map[models.ReactionKind]int{models.ReactionSad: 1},
		Total:       1,
		UserReacted: kindPtr(models.ReactionSad),
	}
	ApplyToggle(&s, models.ToggleReactionResponse{
		Action: models.ReactionUpdated,
		Kind:   models.ReactionLaugh,
	})

	assert.Zero(t, s.Counts[models.ReactionSad])
	assert.Equal(t, 1, s.Counts[models.ReactionLaugh])
	assert.Equal(t, total(s), s.Total)
}

func TestToggleSequenceInvariants(t *testing.T) {
	// For any sequence of transitions: total == sum(counts), and the user
	// holds at most one active kind whose count is >= 1 unless total is 0.
	var s models.ReactionSummary
	sequence := []models.ToggleReactionResponse{
		{Action: models.ReactionCreated, Kind: models.ReactionLike},
		{Action: models.ReactionUpdated, Kind: models.ReactionLove, Previous: kindPtr(models.ReactionLike)},
		{Action: models.ReactionRemoved, Kind: models.ReactionLove},
		{Action: models.ReactionCreated, Kind: models.ReactionWow},
		{Action: models.ReactionUpdated, Kind: models.ReactionSad, Previous: kindPtr(models.ReactionWow)},
		{Action: models.ReactionUpdated, Kind: models.ReactionAngry, Previous: kindPtr(models.ReactionSad)},
		{Action: models.ReactionRemoved, Kind: models.ReactionAngry},
	}

	for i, step := range sequence {
		ApplyToggle(&s, step)
		assert.Equal(t, total(s), s.Total, "step %d", i)
		if s.UserReacted != nil && s.Total > 0 {
			assert.GreaterOrEqual(t, s.Counts[*s.UserReacted], 1, "step %d", i)
		}
	}
	assert.Zero(t, s.Total)
	assert.Nil(t, s.UserReacted)
}

func TestReactionKindRejectsUnknown(t *testing.T) {
	var k models.ReactionKind
	err := json.Unmarshal([]byte(`"thumbsdown"`), &k)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`"laugh"`), &k)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionLaugh, k)
}

func TestReactionSummaryRejectsUnknownCountKey(t *testing.T) {
	// map keys must pass the same closed-set check as value positions
	var s models.ReactionSummary
	err := json.Unmarshal([]byte(`{"counts":{"thumbsdown":3},"total":3}`), &s)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"counts":{"like":2,"wow":1},"total":3,"user_reacted":"wow"}`), &s)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Counts[models.ReactionLike])
	require.NotNil(t, s.UserReacted)
	assert.Equal(t, models.ReactionWow, *s.UserReacted)
}

func TestReactionActionRejectsUnknown(t *testing.T) {
	var resp models.ToggleReactionResponse
	err := json.Unmarshal([]byte(`{"action":"upserted","reaction_type":"like"}`), &resp)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"action":"created","reaction_type":"like"}`), &resp)
	require.NoError(t, err)
	assert.Equal(t, models.ReactionCreated, resp.Action)
}

func TestApplyToggleIgnoresUnknownAction(t *testing.T) {
	s := models.ReactionSummary{
		Counts: map[models.ReactionKind]int{models.ReactionLike: 2},
		Total:  2,
	}
	before := s

	ApplyToggle(&s, models.ToggleReactionResponse{
		Action: models.ReactionAction("upserted"),
		Kind:   models.ReactionLove,
	})

	assert.Equal(t, before.Counts, s.Counts)
	assert.Equal(t, before.Total, s.Total)
	assert.Nil(t, s.UserReacted)
}
