package models

import "time"

// FriendshipStatus tracks the lifecycle of a friend request
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
)

// Friendship links two users; From is the requester
type Friendship struct {
	ID        string           `json:"id"`
	From      UserSummary      `json:"from_user"`
	To        UserSummary      `json:"to_user"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// FriendRequestBody targets a user by id
type FriendRequestBody struct {
	To string `json:"to_user" validate:"required"`
}
