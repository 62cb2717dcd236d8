package devserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	"waveline/pkg/models"
)

// listConversations groups the caller's messages by peer
func (s *Server) listConversations(c *gin.Context) {
	out := s.store.ListConversations(currentUserID(c))
	if out == nil {
		out = []models.Conversation{}
	}
	respondData(c, 200, out)
}

// listMessages returns the thread with ?peer=, oldest first
func (s *Server) listMessages(c *gin.Context) {
	peerID := c.Query("peer")
	if peerID == "" {
		respondError(c, 400, "peer query parameter is required")
		return
	}
	out := s.store.ListMessages(currentUserID(c), peerID)
	if out == nil {
		out = []models.DirectMessage{}
	}
	respondData(c, 200, out)
}

// sendMessage appends a direct message
func (s *Server) sendMessage(c *gin.Context) {
	var req struct {
		To      string `json:"to"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.To == "" {
		respondError(c, 400, "to is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(c, 400, "message is empty")
		return
	}

	msg, err := s.store.SendMessage(currentUserID(c), req.To, req.Content)
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	s.hub.Notify(req.To, "message", msg.From.DisplayName, msg.ID,
		msg.From.DisplayName+" sent you a message")
	respondData(c, 201, msg)
}
