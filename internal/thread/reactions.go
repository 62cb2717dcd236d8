package thread

import "waveline/pkg/models"

// ApplyToggle applies the transition the server declared to a local summary.
// The client never decides the transition itself; it trusts the action field.
// Counts floor at zero and Total is recomputed from scratch after every
// transition so it can never drift from the per-kind counts.
func ApplyToggle(s *models.ReactionSummary, resp models.ToggleReactionResponse) {
	if s.Counts == nil {
		s.Counts = make(map[models.ReactionKind]int)
	}

	switch resp.Action {
	case models.ReactionCreated:
		s.Counts[resp.Kind]++
		kind := resp.Kind
		s.UserReacted = &kind

	case models.ReactionRemoved:
		decrement(s.Counts, resp.Kind)
		s.UserReacted = nil

	case models.ReactionUpdated:
		previous := resp.Previous
		if previous == nil {
			previous = s.UserReacted
		}
		if previous != nil {
			decrement(s.Counts, *previous)
		}
		s.Counts[resp.Kind]++
		kind := resp.Kind
		s.UserReacted = &kind

	default:
		// unknown actions are rejected at decode; anything that still gets
		// here must not touch the summary
		return
	}

	s.Total = 0
	for _, n := range s.Counts {
		s.Total += n
	}
}

func decrement(counts map[models.ReactionKind]int, kind models.ReactionKind) {
	if counts[kind] > 0 {
		counts[kind]--
	}
	if counts[kind] == 0 {
		delete(counts, kind)
	}
}
