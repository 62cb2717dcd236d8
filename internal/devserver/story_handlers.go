package devserver

import (
	"time"

	"github.com/gin-gonic/gin"
)

// listStories returns unexpired stories, newest first
func (s *Server) listStories(c *gin.Context) {
	respondData(c, 200, s.store.ListStories(time.Now()))
}

// createStory accepts a multipart payload with exactly one media item
func (s *Server) createStory(c *gin.Context) {
	attachments, err := s.collectAttachments(c)
	if err != nil {
		respondError(c, 400, err.Error())
		return
	}
	if len(attachments) != 1 {
		respondError(c, 400, "story needs exactly one media item")
		return
	}

	story := s.store.CreateStory(currentUserID(c), c.PostForm("caption"), attachments[0])
	respondData(c, 201, story)
}

func (s *Server) deleteStory(c *gin.Context) {
	if err := s.store.DeleteStory(c.Param("id"), currentUserID(c)); err != nil {
		respondStoreErr(c, err)
		return
	}
	respondMessage(c, 200, "story deleted")
}
