package devserver

import (
	"github.com/gin-gonic/gin"

	"waveline/pkg/models"
)

// listFriendships returns every friendship involving the caller
func (s *Server) listFriendships(c *gin.Context) {
	out := s.store.ListFriendships(currentUserID(c))
	if out == nil {
		out = []models.Friendship{}
	}
	respondData(c, 200, out)
}

// sendFriendRequest creates a pending request. to_user accepts a user id or,
// as a convenience for the dev server, a username.
func (s *Server) sendFriendRequest(c *gin.Context) {
	var req models.FriendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil || req.To == "" {
		respondError(c, 400, "to_user is required")
		return
	}

	toID := req.To
	if _, err := s.store.User(toID); err != nil {
		user, err := s.store.UserByName(req.To)
		if err != nil {
			respondError(c, 404, "user not found")
			return
		}
		toID = user.ID
	}

	fromID := currentUserID(c)
	f, err := s.store.SendFriendRequest(fromID, toID)
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	s.hub.Notify(toID, "friend_request", f.From.DisplayName, f.ID,
		f.From.DisplayName+" sent you a friend request")
	respondData(c, 201, f)
}

func (s *Server) acceptFriendRequest(c *gin.Context) {
	s.resolveFriendRequest(c, true)
}

func (s *Server) declineFriendRequest(c *gin.Context) {
	s.resolveFriendRequest(c, false)
}

func (s *Server) resolveFriendRequest(c *gin.Context, accept bool) {
	f, err := s.store.ResolveFriendRequest(c.Param("id"), currentUserID(c), accept)
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	if accept {
		s.hub.Notify(f.From.ID, "friend_request", f.To.DisplayName, f.ID,
			f.To.DisplayName+" accepted your friend request")
	}
	respondData(c, 200, f)
}
