package models

import (
	"errors"
	"strings"
	"time"
)

// User represents a full account as returned by the profile endpoints
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserSummary - minimal author info embedded in posts, comments and stories
type UserSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// RegisterRequest
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// LoginRequest
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is returned by login/register and POST /users/auth/token/refresh/
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResponse
type LoginResponse struct {
	Tokens TokenPair `json:"tokens"`
	User   User      `json:"user"`
}

// ValidateRegisterRequest adds checks beyond struct tags
func ValidateRegisterRequest(req *RegisterRequest) error {
	if len(strings.TrimSpace(req.Username)) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}
