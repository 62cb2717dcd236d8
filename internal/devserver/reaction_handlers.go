package devserver

import (
	"github.com/gin-gonic/gin"

	"waveline/pkg/models"
)

// toggleReaction applies the created/removed/updated transition
func (s *Server) toggleReaction(c *gin.Context) {
	var req models.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, "invalid request body")
		return
	}
	if !req.ReactionType.Valid() {
		respondError(c, 400, "unknown reaction type")
		return
	}

	targetKey, err := reactionTargetKey(req.Post, req.Comment)
	if err != nil {
		respondError(c, 400, err.Error())
		return
	}

	userID := currentUserID(c)
	result, err := s.store.Toggle(targetKey, userID, req.ReactionType)
	if err != nil {
		respondStoreErr(c, err)
		return
	}

	if result.Action != models.ReactionRemoved {
		s.notifyReaction(req.Post, req.Comment, userID)
	}
	respondData(c, 200, result)
}

// listReactions aggregates reactions for ?post= or ?comment=
func (s *Server) listReactions(c *gin.Context) {
	targetKey, err := reactionTargetKey(c.Query("post"), c.Query("comment"))
	if err != nil {
		respondError(c, 400, err.Error())
		return
	}
	summary, err := s.store.ReactionSummary(targetKey, currentUserID(c))
	if err != nil {
		respondStoreErr(c, err)
		return
	}
	respondData(c, 200, summary)
}

// reactionTargetKey enforces the exactly-one-target rule
func reactionTargetKey(postID, commentID string) (string, error) {
	switch {
	case postID != "" && commentID != "":
		return "", errTwoTargets
	case postID != "":
		return "post:" + postID, nil
	case commentID != "":
		return "comment:" + commentID, nil
	default:
		return "", errNoTarget
	}
}

var (
	errTwoTargets = &targetError{"reaction targets exactly one of post or comment"}
	errNoTarget   = &targetError{"reaction needs a post or comment target"}
)

type targetError struct{ msg string }

func (e *targetError) Error() string { return e.msg }

// notifyReaction pushes a notification to the owner of the reacted target
func (s *Server) notifyReaction(postID, commentID, actorID string) {
	actor, err := s.store.User(actorID)
	if err != nil {
		return
	}

	var ownerID, target string
	if postID != "" {
		post, err := s.store.Post(postID, "")
		if err != nil {
			return
		}
		ownerID, target = post.Author.ID, postID
	} else {
		owningPost, err := s.store.CommentPost(commentID)
		if err != nil {
			return
		}
		thread, err := s.store.ListComments(owningPost, "")
		if err != nil {
			return
		}
		ownerID = commentOwner(thread.Data, commentID)
		target = commentID
	}

	if ownerID == "" || ownerID == actorID {
		return
	}
	s.hub.Notify(ownerID, "reaction", actor.DisplayName, target,
		actor.DisplayName+" reacted to your post")
}

func commentOwner(comments []models.Comment, commentID string) string {
	for _, c := range comments {
		if c.ID == commentID {
			return c.Author.ID
		}
		if owner := commentOwner(c.Replies, commentID); owner != "" {
			return owner
		}
	}
	return ""
}
