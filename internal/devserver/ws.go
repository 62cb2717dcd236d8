package devserver

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"waveline/pkg/logger"
	"waveline/pkg/models"
)

func marshalEvent(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}

// notificationsChannel is the per-user notifications socket. The token must
// belong to the user named in the path.
func (s *Server) notificationsChannel(c *gin.Context) {
	claims, err := s.tokens.Validate(c.Query("token"), "access")
	if err != nil || claims.UserID != c.Param("user_id") {
		c.JSON(401, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := newSubscriber(conn)
	go client.writePump()
	s.hub.Subscribe(claims.UserID, client)
	logger.WebSocket("notifications", "connect", claims.UserID)

	// the channel is server-push only; the read loop just detects close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.hub.Unsubscribe(claims.UserID, client)
	logger.WebSocket("notifications", "disconnect", claims.UserID)
}

// streamChannel is the per-stream viewer socket: joining counts as a view,
// inbound frames are chat lines, and viewer totals fan out to the room.
func (s *Server) streamChannel(c *gin.Context) {
	claims, err := s.tokens.Validate(c.Query("token"), "access")
	if err != nil {
		c.JSON(401, gin.H{"error": "unauthorized"})
		return
	}

	streamID := c.Param("stream_id")
	if _, err := s.store.Stream(streamID); err != nil {
		c.JSON(404, gin.H{"error": "stream not found"})
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := newSubscriber(conn)
	go client.writePump()
	count := s.hub.JoinStream(streamID, client)
	s.store.SetViewerCount(streamID, count)
	s.hub.BroadcastStream(streamID, models.StreamEvent{Type: "viewer_count", Viewers: count})
	logger.WebSocket("stream", "join", claims.UserID)

	for {
		var inbound struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if inbound.Type != "chat" || strings.TrimSpace(inbound.Content) == "" {
			continue
		}
		s.hub.BroadcastStream(streamID, models.StreamEvent{
			Type:     "chat",
			UserID:   claims.UserID,
			Username: claims.Username,
			Content:  inbound.Content,
		})
	}

	remaining := s.hub.LeaveStream(streamID, client)
	s.store.SetViewerCount(streamID, remaining)
	s.hub.BroadcastStream(streamID, models.StreamEvent{Type: "viewer_count", Viewers: remaining})
	logger.WebSocket("stream", "leave", claims.UserID)
}
