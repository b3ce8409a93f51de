package commands

import (
	"fmt"

	"github.com/macrokit/macrocli/types"
)

// ScriptResult carries generated script text.
type ScriptResult struct {
	Script     string   `json:"script"`
	MacroNames []string `json:"macroNames"`
}

// selectSessions resolves the session ids to generate for. An empty id list
// selects every stored session.
func selectSessions(s *Service, ids []int) ([]*types.Session, error) {
	if len(ids) == 0 {
		sessions := s.Store.List()
		if len(sessions) == 0 {
			return nil, fmt.Errorf("no recorded sessions")
		}
		return sessions, nil
	}

	sessions := make([]*types.Session, 0, len(ids))
	for _, id := range ids {
		sess, ok := s.Store.Get(id)
		if !ok {
			return nil, fmt.Errorf("session %d not found", id)
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// GenerateScriptCommand renders the selected sessions as a full script.
func GenerateScriptCommand(ids []int) *CommandResponse {
	s, err := GetService()
	if err != nil {
		return NewErrorResponse(err)
	}

	sessions, err := selectSessions(s, ids)
	if err != nil {
		return NewErrorResponse(err)
	}

	names := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		names = append(names, sess.Name)
	}
	return NewSuccessResponse(ScriptResult{
		Script:     s.Generator.FullScript(sessions),
		MacroNames: names,
	})
}
