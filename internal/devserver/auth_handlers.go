package devserver

import (
	"github.com/gin-gonic/gin"

	"waveline/pkg/models"
)

// register creates an account and logs it straight in
func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request body")
		return
	}
	if err := models.ValidateRegisterRequest(&req); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	user, err := s.store.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		respondError(c, 500, "failed to issue tokens")
		return
	}
	respondData(c, 201, models.LoginResponse{Tokens: pair, User: *user})
}

// login authenticates and returns a token pair
func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request body")
		return
	}

	user, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(c, 401, "invalid username or password")
		return
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		respondError(c, 500, "failed to issue tokens")
		return
	}
	respondData(c, 200, models.LoginResponse{Tokens: pair, User: *user})
}

// refreshToken swaps a refresh token for a fresh pair
func (s *Server) refreshToken(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
		respondError(c, 400, "refresh token is required")
		return
	}

	claims, err := s.tokens.Validate(req.Refresh, "refresh")
	if err != nil {
		respondError(c, 401, "invalid refresh token")
		return
	}
	user, err := s.store.User(claims.UserID)
	if err != nil {
		respondError(c, 401, "invalid refresh token")
		return
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		respondError(c, 500, "failed to issue tokens")
		return
	}
	respondData(c, 200, pair)
}

// verifyToken reports whether an access token is still valid
func (s *Server) verifyToken(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		respondError(c, 400, "token is required")
		return
	}
	if _, err := s.tokens.Validate(req.Token, "access"); err != nil {
		respondError(c, 401, "invalid token")
		return
	}
	respondMessage(c, 200, "token is valid")
}
