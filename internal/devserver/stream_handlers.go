package devserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	"waveline/pkg/models"
)

// listLiveStreams returns streams currently live
func (s *Server) listLiveStreams(c *gin.Context) {
	out := s.store.ListLiveStreams()
	if out == nil {
		out = []models.Stream{}
	}
	respondData(c, 200, out)
}

// getStream serves GET /livestreams/:id/, where "live" is the live list
func (s *Server) getStream(c *gin.Context) {
	if c.Param("id") == "live" {
		s.listLiveStreams(c)
		return
	}
	stream, err := s.store.Stream(c.Param("id"))
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	respondData(c, 200, stream)
}

// createStream registers a scheduled livestream for the caller
func (s *Server) createStream(c *gin.Context) {
	var req models.CreateStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		respondError(c, 400, "title is required")
		return
	}
	respondData(c, 201, s.store.CreateStream(currentUserID(c), req.Title))
}

// startStream moves a stream live and tells the host's friends
func (s *Server) startStream(c *gin.Context) {
	stream, err := s.store.TransitionStream(c.Param("id"), currentUserID(c), models.StreamLive)
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	s.hub.BroadcastStream(stream.ID, models.StreamEvent{Type: "started"})
	for _, f := range s.store.ListFriendships(stream.Host.ID) {
		if f.Status != models.FriendshipAccepted {
			continue
		}
		friendID := f.From.ID
		if friendID == stream.Host.ID {
			friendID = f.To.ID
		}
		s.hub.Notify(friendID, "stream_live", stream.Host.DisplayName, stream.ID,
			stream.Host.DisplayName+" is live: "+stream.Title)
	}
	respondData(c, 200, stream)
}

// endStream ends a live stream and tells the room
func (s *Server) endStream(c *gin.Context) {
	stream, err := s.store.TransitionStream(c.Param("id"), currentUserID(c), models.StreamEnded)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	s.hub.BroadcastStream(stream.ID, models.StreamEvent{Type: "ended"})
	respondData(c, 200, stream)
}
