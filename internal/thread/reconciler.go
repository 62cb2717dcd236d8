package thread

import (
	"context"
	"fmt"
	"time"

	"waveline/pkg/logger"
	"waveline/pkg/models"
)

// CommentService is the slice of the API client the reconciler needs
type CommentService interface {
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	ToggleReaction(ctx context.Context, req models.ToggleReactionRequest) (*models.ToggleReactionResponse, error)
	ListCommentReactions(ctx context.Context, commentID string) (*models.ReactionSummary, error)
}

// DefaultRefetchDelay is how long an optimistic insert waits before the
// authoritative reload that reconciles it.
const DefaultRefetchDelay = 1500 * time.Millisecond

// Reconciler coordinates the store with the server: optimistic inserts for
// perceived latency, wholesale reloads for correctness. Divergence between
// the two is accepted lost-update behavior, resolved by the next reload.
type Reconciler struct {
	svc          CommentService
	store        *Store
	refetchDelay time.Duration
}

// NewReconciler wires a store to its comment service
func NewReconciler(svc CommentService, store *Store) *Reconciler {
	return &Reconciler{
		svc:          svc,
		store:        store,
		refetchDelay: DefaultRefetchDelay,
	}
}

// Store returns the underlying comment store
func (r *Reconciler) Store() *Store { return r.store }

// RefetchDelay returns how long callers should wait before calling Refresh
// after an optimistic insert.
func (r *Reconciler) RefetchDelay() time.Duration { return r.refetchDelay }

// Refresh replaces the local tree with the server's, clobbering any
// optimistic entries the server has not indexed yet.
func (r *Reconciler) Refresh(ctx context.Context) error {
	flat, err := r.svc.ListComments(ctx, r.store.PostID())
	if err != nil {
		return fmt.Errorf("refresh comments: %w", err)
	}
	r.store.Load(flat)
	return nil
}

// AddTopLevel validates, creates on the server, then inserts the confirmed
// comment at the root optimistically ahead of the scheduled reload. On
// failure nothing local changes.
func (r *Reconciler) AddTopLevel(ctx context.Context, content string, attachments []models.Upload) (*models.Comment, error) {
	req := models.CreateCommentRequest{
		Post:        r.store.PostID(),
		Content:     content,
		Attachments: attachments,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created, err := r.svc.CreateComment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	r.store.InsertTopLevel(*created, true)
	return created, nil
}

// AddReply creates a nested reply and inserts it under its parent at any
// depth. If the parent vanished in the meantime the reply is silently
// dropped from view until Refresh runs.
func (r *Reconciler) AddReply(ctx context.Context, parentID, content string, attachments []models.Upload) (*models.Comment, error) {
	req := models.CreateCommentRequest{
		Post:        r.store.PostID(),
		Parent:      parentID,
		Content:     content,
		Attachments: attachments,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created, err := r.svc.CreateComment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	if !r.store.InsertReply(parentID, *created, true) {
		logger.Warnf("reply %s has no parent %s in local tree, waiting for reload", created.ID, parentID)
	}
	return created, nil
}

// Delete removes a comment on the server, then locally on success
func (r *Reconciler) Delete(ctx context.Context, commentID string) error {
	if err := r.svc.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	r.store.Remove(commentID)
	return nil
}

// Toggle flips the current user's reaction on a comment and applies the
// transition the server declares. On apply failure the summary is restored
// from a fresh fetch; no automatic retry.
func (r *Reconciler) Toggle(ctx context.Context, commentID string, kind models.ReactionKind) error {
	resp, err := r.svc.ToggleReaction(ctx, models.ToggleReactionRequest{
		Comment:      commentID,
		ReactionType: kind,
	})
	if err != nil {
		if summary, ferr := r.svc.ListCommentReactions(ctx, commentID); ferr == nil {
			r.store.SetReactions(commentID, *summary)
		}
		return fmt.Errorf("toggle reaction: %w", err)
	}
	r.store.ApplyReaction(commentID, *resp)
	return nil
}
