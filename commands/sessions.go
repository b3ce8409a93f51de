package commands

import (
	"fmt"

	"github.com/macrokit/macrocli/types"
)

// SessionSummary is the list form of a stored session.
type SessionSummary struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	CreatedAt   float64 `json:"createdAt"`
	CoordMode   string  `json:"coordMode"`
	TargetTitle string  `json:"targetWindowTitle,omitempty"`
	EventCount  int     `json:"eventCount"`
}

func summarize(sess *types.Session) SessionSummary {
	return SessionSummary{
		ID:          sess.ID,
		Name:        sess.Name,
		CreatedAt:   sess.CreatedAt,
		CoordMode:   string(sess.CoordMode),
		TargetTitle: sess.TargetWindowTitle,
		EventCount:  len(sess.Events),
	}
}

// SessionsListCommand returns summaries of all stored sessions.
func SessionsListCommand() *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}

	sessions := s.Store.List()
	summaries := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, summarize(sess))
	}
	return NewSuccessResponse(summaries)
}

// SessionGetCommand returns one stored session with its full event list.
func SessionGetCommand(id int) *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}

	sess, ok := s.Store.Get(id)
	if !ok {
		return NewErrorResponse(fmt.Errorf("session %d not found", id))
	}
	return NewSuccessResponse(sess)
}
