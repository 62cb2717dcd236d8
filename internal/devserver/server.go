package devserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"waveline/pkg/models"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local development server
	},
}

// Server hosts the REST API and WebSocket channels
type Server struct {
	router *gin.Engine
	store  *Store
	tokens *TokenService
	hub    *Hub
}

// NewServer wires the router, store and token service together
func NewServer(jwtSecret string) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	s := &Server{
		router: router,
		store:  NewStore(),
		tokens: NewTokenService(jwtSecret, "waveline-dev"),
		hub:    NewHub(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/media/:id", s.serveMedia)

	v1 := s.router.Group("/api/v1")
	{
		auth := v1.Group("/users/auth")
		{
			auth.POST("/register/", s.register)
			auth.POST("/login/", s.login)
			auth.POST("/token/refresh/", s.refreshToken)
			auth.POST("/token/verify/", s.verifyToken)
		}

		protected := v1.Group("", s.authMiddleware())
		{
			protected.GET("/settings/", s.getSettings)
			protected.PATCH("/settings/", s.patchSettings)

			protected.GET("/posts/posts/", s.listPosts)
			protected.POST("/posts/posts/", s.createPost)
			protected.GET("/posts/posts/:id/", s.getPost)
			protected.PUT("/posts/posts/:id/", s.updatePost)
			protected.DELETE("/posts/posts/:id/", s.deletePost)

			protected.GET("/comments/comments/", s.listComments)
			protected.POST("/comments/comments/", s.createComment)
			protected.PUT("/comments/comments/:id/", s.updateComment)
			protected.DELETE("/comments/comments/:id/", s.deleteComment)

			protected.POST("/reactions/reactions/toggle/", s.toggleReaction)
			protected.GET("/reactions/reactions/", s.listReactions)

			protected.GET("/stories/", s.listStories)
			protected.POST("/stories/", s.createStory)
			protected.DELETE("/stories/:id/", s.deleteStory)

			protected.GET("/users/friendships/", s.listFriendships)
			protected.POST("/users/friendships/", s.sendFriendRequest)
			protected.POST("/users/friendships/:id/accept/", s.acceptFriendRequest)
			protected.POST("/users/friendships/:id/decline/", s.declineFriendRequest)

			protected.POST("/livestreams/", s.createStream)
			// "live" shares the :id position; the handler splits them, since
			// a static "live" segment cannot coexist with the wildcard here
			protected.GET("/livestreams/:id/", s.getStream)
			protected.POST("/livestreams/:id/start/", s.startStream)
			protected.POST("/livestreams/:id/end/", s.endStream)

			protected.GET("/messages/conversations/", s.listConversations)
			protected.GET("/messages/", s.listMessages)
			protected.POST("/messages/", s.sendMessage)
		}
	}

	// WebSocket channels authenticate via ?token=, not the Authorization
	// header, because browser sockets cannot set headers.
	ws := s.router.Group("/ws")
	{
		ws.GET("/notifications/:user_id", s.notificationsChannel)
		ws.GET("/livestreams/:stream_id", s.streamChannel)
	}
}

// Start runs the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Store exposes the state store (for seeding)
func (s *Server) Store() *Store {
	return s.store
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) serveMedia(c *gin.Context) {
	contentType, data, err := s.store.Media(c.Param("id"))
	if err != nil {
		c.Status(404)
		return
	}
	c.Data(200, contentType, data)
}

// respondData writes the success envelope with a payload
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, models.APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// respondMessage writes the success envelope without a payload
func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, models.APIResponse{
		Success:   true,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// respondError writes the failure envelope
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.APIResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	})
}

// respondStoreErr maps store errors onto HTTP statuses
func respondStoreErr(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		respondError(c, 404, "not found")
	case ErrForbidden:
		respondError(c, 403, "forbidden")
	case ErrUsernameTaken:
		respondError(c, 409, err.Error())
	default:
		respondError(c, 400, err.Error())
	}
}
