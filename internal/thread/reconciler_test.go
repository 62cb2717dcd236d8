package thread

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waveline/pkg/models"
)

// fakeCommentService records calls and serves canned responses
type fakeCommentService struct {
	listResult    []models.Comment
	listErr       error
	createErr     error
	toggleResp    *models.ToggleReactionResponse
	toggleErr     error
	reactionsResp *models.ReactionSummary
	created       []models.CreateCommentRequest
	nextID        int
}

func (f *fakeCommentService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	return f.listResult, f.listErr
}

func (f *fakeCommentService) CreateComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	f.nextID++
	c := models.Comment{
		ID:      fmt.Sprintf("srv-%d", f.nextID),
		Post:    req.Post,
		Content: req.Content,
	}
	if req.Parent != "" {
		parent := req.Parent
		c.Parent = &parent
	}
	return &c, nil
}

func (f *fakeCommentService) DeleteComment(ctx context.Context, commentID string) error {
	return nil
}

func (f *fakeCommentService) ToggleReaction(ctx context.Context, req models.ToggleReactionRequest) (*models.ToggleReactionResponse, error) {
	return f.toggleResp, f.toggleErr
}

func (f *fakeCommentService) ListCommentReactions(ctx context.Context, commentID string) (*models.ReactionSummary, error) {
	if f.reactionsResp == nil {
		return nil, errors.New("no reactions")
	}
	return f.reactionsResp, nil
}

func TestReconcilerAddTopLevelValidation(t *testing.T) {
	svc := &fakeCommentService{}
	r := NewReconciler(svc, NewStore("post-1"))

	_, err := r.AddTopLevel(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, models.ErrEmptyComment)
	assert.Empty(t, svc.created, "validation failures must not reach the network")
}

func TestReconcilerAttachmentSatisfiesPrecondition(t *testing.T) {
	svc := &fakeCommentService{}
	r := NewReconciler(svc, NewStore("post-1"))

	upload := models.Upload{Kind: models.MediaImage, Filename: "pic.png", Data: []byte{1}}
	created, err := r.AddTopLevel(context.Background(), "", []models.Upload{upload})
	require.NoError(t, err)
	assert.Equal(t, "", created.Content)
	assert.Contains(t, r.Store().Roots(), created.ID)
}

func TestReconcilerAddReplyOptimisticInsert(t *testing.T) {
	svc := &fakeCommentService{}
	store := NewStore("post-1")
	root := comment("c1", "")
	root.Replies = []models.Comment{comment("c2", "c1")}
	store.Load([]models.Comment{root})

	r := NewReconciler(svc, store)
	created, err := r.AddReply(context.Background(), "c2", "hi", nil)
	require.NoError(t, err)

	node := store.Get(created.ID)
	require.NotNil(t, node)
	assert.Equal(t, "c2", node.ParentID)
	assert.True(t, node.Optimistic)
}

func TestReconcilerAddReplyParentGone(t *testing.T) {
	svc := &fakeCommentService{}
	store := NewStore("post-1")
	store.Load([]models.Comment{comment("c1", "")})

	r := NewReconciler(svc, store)
	created, err := r.AddReply(context.Background(), "deleted", "hi", nil)
	require.NoError(t, err, "server accepted the reply even if the local parent is gone")
	assert.Nil(t, store.Get(created.ID), "orphan reply stays out of view until reload")
}

func TestReconcilerToggleAppliesServerAction(t *testing.T) {
	svc := &fakeCommentService{
		toggleResp: &models.ToggleReactionResponse{
			Action: models.ReactionCreated,
			Kind:   models.ReactionLove,
		},
	}
	store := NewStore("post-1")
	store.Load([]models.Comment{comment("c1", "")})

	r := NewReconciler(svc, store)
	require.NoError(t, r.Toggle(context.Background(), "c1", models.ReactionLove))

	summary := store.Get("c1").Comment.Reactions
	assert.Equal(t, 1, summary.Counts[models.ReactionLove])
	assert.Equal(t, 1, summary.Total)
}

func TestReconcilerToggleFailureRevertsFromFetch(t *testing.T) {
	known := models.ReactionSummary{
		Counts: map[models.ReactionKind]int{models.ReactionLike: 4},
		Total:  4,
	}
	svc := &fakeCommentService{
		toggleErr:     errors.New("boom"),
		reactionsResp: &known,
	}
	store := NewStore("post-1")
	store.Load([]models.Comment{comment("c1", "")})

	r := NewReconciler(svc, store)
	err := r.Toggle(context.Background(), "c1", models.ReactionLike)
	assert.Error(t, err)
	assert.Equal(t, known, store.Get("c1").Comment.Reactions)
}

func TestReconcilerRefreshClobbersOptimistic(t *testing.T) {
	svc := &fakeCommentService{listResult: []models.Comment{comment("c1", "")}}
	store := NewStore("post-1")
	store.Load([]models.Comment{comment("c1", "")})

	r := NewReconciler(svc, store)
	_, err := r.AddTopLevel(context.Background(), "hello", nil)
	require.NoError(t, err)
	require.Equal(t, 2, len(store.Roots()))

	require.NoError(t, r.Refresh(context.Background()))
	assert.Equal(t, []string{"c1"}, store.Roots())
}
