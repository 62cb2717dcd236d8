package devserver

import (
	"waveline/pkg/logger"
	"waveline/pkg/models"
)

// Seed loads demo accounts and content so the TUI has something to show on
// first launch. Both accounts use the password "wavelinedemo".
func (s *Server) Seed() {
	demo, err := s.store.CreateUser("demo", "demo@waveline.local", "wavelinedemo")
	if err != nil {
		// already seeded
		return
	}
	frida, _ := s.store.CreateUser("frida", "frida@waveline.local", "wavelinedemo")
	miles, _ := s.store.CreateUser("miles", "miles@waveline.local", "wavelinedemo")

	post := s.store.CreatePost(frida.ID,
		"First light on the harbor this morning. Worth the 5am alarm.",
		[]models.Attachment{{
			Kind: models.MediaImage,
			URL:  "https://picsum.photos/seed/harbor/800/600",
			Name: "harbor.jpg",
		}})
	s.store.CreatePost(miles.ID,
		"Finally finished the bookshelf build. Three weekends, zero spare screws.", nil)
	s.store.CreatePost(demo.ID, "Hello waveline!", nil)

	root, _ := s.store.CreateComment(post.ID, "", miles.ID, "That sky is unreal.", nil)
	s.store.CreateComment(post.ID, root.ID, frida.ID, "No filter, promise.", nil)
	s.store.Toggle("post:"+post.ID, demo.ID, models.ReactionLove)
	s.store.Toggle("post:"+post.ID, miles.ID, models.ReactionLike)

	s.store.CreateStory(frida.ID, "harbor run", models.Attachment{
		Kind: models.MediaImage,
		URL:  "https://picsum.photos/seed/run/600/900",
	})

	s.store.SendFriendRequest(frida.ID, demo.ID)
	if f, err := s.store.SendFriendRequest(miles.ID, demo.ID); err == nil {
		s.store.ResolveFriendRequest(f.ID, demo.ID, true)
	}

	stream := s.store.CreateStream(miles.ID, "Late night build log")
	s.store.TransitionStream(stream.ID, miles.ID, models.StreamLive)

	s.store.SendMessage(frida.ID, demo.ID, "hey, are you coming saturday?")
	s.store.SendMessage(demo.ID, frida.ID, "wouldn't miss it")

	logger.Info("seeded demo data (accounts: demo, frida, miles / password: wavelinedemo)")
}
