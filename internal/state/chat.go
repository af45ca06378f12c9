package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vantage/internal/models"
)

// SendChat appends the user's message to the transcript, marks the typing
// indicator, and asks the counsellor for a reply. The reply is appended
// on success. When the counsellor reports a server-side action, a refresh
// of profile and university state is scheduled after a short delay so the
// action's effects become visible.
//
// On failure the user's message stays in the transcript (no rollback)
// and the error is returned for the front end to surface. The typing
// indicator is cleared in all cases.
func (s *State) SendChat(message string) (*models.ChatMessage, error) {
	s.mu.Lock()
	s.chat = append(s.chat, models.ChatMessage{
		ID:      uuid.NewString(),
		Role:    models.RoleUser,
		Content: message,
	})
	s.typing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.typing = false
		s.mu.Unlock()
	}()

	resp, err := s.client.Chat(message)
	if err != nil {
		s.log.Warn("chat failed", zap.Error(err))
		return nil, fmt.Errorf("chat: %w", err)
	}

	reply := models.ChatMessage{
		ID:      uuid.NewString(),
		Role:    models.RoleAI,
		Content: resp.Message,
	}
	s.mu.Lock()
	s.chat = append(s.chat, reply)
	s.mu.Unlock()

	if resp.TookAction() {
		s.log.Info("counsellor action", zap.String("type", resp.Action.Type))
		s.scheduleRefresh()
	}

	return &reply, nil
}

// scheduleRefresh runs a full reconciliation after a short delay,
// picking up whatever the counsellor changed server-side (a shortlist,
// a lock, a created task).
func (s *State) scheduleRefresh() {
	time.AfterFunc(s.chatDelay, func() {
		if err := s.Bootstrap(); err != nil {
			s.log.Warn("post-action refresh failed", zap.Error(err))
		}
	})
}
