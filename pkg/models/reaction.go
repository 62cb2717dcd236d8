package models

import "fmt"

// ReactionKind is the closed set of reactions a user can hold on a target.
// Decoding rejects anything outside the set so an unknown kind can never
// silently no-op in the transition logic.
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionLaugh ReactionKind = "laugh"
	ReactionWow   ReactionKind = "wow"
	ReactionSad   ReactionKind = "sad"
	ReactionAngry ReactionKind = "angry"
)

// ReactionKinds lists every kind in display order
var ReactionKinds = []ReactionKind{
	ReactionLike, ReactionLove, ReactionLaugh,
	ReactionWow, ReactionSad, ReactionAngry,
}

// Valid reports whether k is a member of the closed set
func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionLike, ReactionLove, ReactionLaugh, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// UnmarshalText enforces the closed set at the wire boundary. encoding/json
// routes both value positions and map keys (Counts) through text
// unmarshaling, so neither path can smuggle an unknown kind in.
func (k *ReactionKind) UnmarshalText(text []byte) error {
	kind := ReactionKind(text)
	if !kind.Valid() {
		return fmt.Errorf("unknown reaction kind %q", string(text))
	}
	*k = kind
	return nil
}

// ReactionAction is the transition the server declares for a toggle call
type ReactionAction string

const (
	ReactionCreated ReactionAction = "created"
	ReactionRemoved ReactionAction = "removed"
	ReactionUpdated ReactionAction = "updated"
)

// Valid reports whether a is one of the three transitions
func (a ReactionAction) Valid() bool {
	switch a {
	case ReactionCreated, ReactionRemoved, ReactionUpdated:
		return true
	}
	return false
}

// UnmarshalText rejects unknown transitions the same way ReactionKind does
func (a *ReactionAction) UnmarshalText(text []byte) error {
	action := ReactionAction(text)
	if !action.Valid() {
		return fmt.Errorf("unknown reaction action %q", string(text))
	}
	*a = action
	return nil
}

// ReactionSummary aggregates reactions on one target. Total is always the
// sum of Counts; UserReacted is the current user's active kind, if any.
type ReactionSummary struct {
	Counts      map[ReactionKind]int `json:"counts"`
	Total       int                  `json:"total"`
	UserReacted *ReactionKind        `json:"user_reacted,omitempty"`
}

// ToggleReactionRequest targets exactly one of Post or Comment
type ToggleReactionRequest struct {
	Post         string       `json:"post,omitempty"`
	Comment      string       `json:"comment,omitempty"`
	ReactionType ReactionKind `json:"reaction_type"`
}

// ToggleReactionResponse declares which transition the server performed.
// Previous is set only for the "updated" action.
type ToggleReactionResponse struct {
	Action   ReactionAction `json:"action"`
	Kind     ReactionKind   `json:"reaction_type"`
	Previous *ReactionKind  `json:"previous,omitempty"`
}
