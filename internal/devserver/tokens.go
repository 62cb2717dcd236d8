package devserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"waveline/pkg/models"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	accessTokenLifetime  = 15 * time.Minute
	refreshTokenLifetime = 7 * 24 * time.Hour
)

// tokenClaims is the JWT payload for both token types. TokenType
// distinguishes access from refresh so one cannot stand in for the other.
type tokenClaims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService signs and validates the access/refresh token pair
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a token service with an HMAC secret
func NewTokenService(secret, issuer string) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer}
}

// IssuePair signs a fresh access/refresh pair for a user
func (t *TokenService) IssuePair(user *models.User) (models.TokenPair, error) {
	access, err := t.sign(user, "access", accessTokenLifetime)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := t.sign(user, "refresh", refreshTokenLifetime)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (t *TokenService) sign(user *models.User, tokenType string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and checks its signature, expiry and type
func (t *TokenService) Validate(tokenString, wantType string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
