package devserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	"waveline/pkg/models"
)

// listComments returns a post's thread as nested roots
func (s *Server) listComments(c *gin.Context) {
	postID := c.Query("post")
	if postID == "" {
		respondError(c, 400, "post query parameter is required")
		return
	}
	thread, err := s.store.ListComments(postID, currentUserID(c))
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	respondData(c, 200, thread)
}

// createComment accepts the multipart composer payload; "parent" is empty
// for top-level comments.
func (s *Server) createComment(c *gin.Context) {
	attachments, err := s.collectAttachments(c)
	if err != nil {
		respondError(c, 400, err.Error())
		return
	}

	postID := c.PostForm("post")
	if postID == "" {
		respondError(c, 400, "post is required")
		return
	}
	content := c.PostForm("content")
	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		respondError(c, 400, "comment needs text or an attachment")
		return
	}
	if len(content) > models.MaxCommentLength {
		respondError(c, 400, "comment is too long")
		return
	}

	userID := currentUserID(c)
	comment, err := s.store.CreateComment(postID, c.PostForm("parent"), userID, content, attachments)
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	if post, err := s.store.Post(postID, userID); err == nil && post.Author.ID != userID {
		s.hub.Notify(post.Author.ID, "comment", comment.Author.DisplayName,
			postID, comment.Author.DisplayName+" commented on your post")
	}
	respondData(c, 201, comment)
}

func (s *Server) updateComment(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		respondError(c, 400, "content is required")
		return
	}
	comment, err := s.store.UpdateComment(c.Param("id"), currentUserID(c), req.Content)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	respondData(c, 200, comment)
}

func (s *Server) deleteComment(c *gin.Context) {
	if err := s.store.DeleteComment(c.Param("id"), currentUserID(c)); err != nil {
		respondStoreErr(c, err)
		return
	}
	respondMessage(c, 200, "comment deleted")
}
