package devserver

import (
	"github.com/gin-gonic/gin"

	"waveline/pkg/models"
)

// getSettings returns the caller's preference bag
func (s *Server) getSettings(c *gin.Context) {
	respondData(c, 200, s.store.Settings(currentUserID(c)))
}

// patchSettings merges a partial update and returns the full result
func (s *Server) patchSettings(c *gin.Context) {
	var patch models.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, 400, "invalid request body")
		return
	}
	respondData(c, 200, s.store.PatchSettings(currentUserID(c), patch))
}
