package devserver

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// listPosts returns a feed page, newest first
func (s *Server) listPosts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	respondData(c, 200, s.store.ListPosts(currentUserID(c), limit, offset))
}

// createPost accepts the multipart composer payload
func (s *Server) createPost(c *gin.Context) {
	attachments, err := s.collectAttachments(c)
	if err != nil {
		respondError(c, 400, err.Error())
		return
	}
	content := c.PostForm("content")
	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		respondError(c, 400, "post needs text or an attachment")
		return
	}

	post := s.store.CreatePost(currentUserID(c), content, attachments)
	respondData(c, 201, post)
}

func (s *Server) getPost(c *gin.Context) {
	post, err := s.store.Post(c.Param("id"), currentUserID(c))
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	respondData(c, 200, post)
}

func (s *Server) updatePost(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		respondError(c, 400, "content is required")
		return
	}
	post, err := s.store.UpdatePost(c.Param("id"), currentUserID(c), req.Content)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	respondData(c, 200, post)
}

func (s *Server) deletePost(c *gin.Context) {
	if err := s.store.DeletePost(c.Param("id"), currentUserID(c)); err != nil {
		respondStoreErr(c, err)
		return
	}
	respondMessage(c, 200, "post deleted")
}
