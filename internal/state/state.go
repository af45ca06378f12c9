// Package state holds the in-memory snapshot of server-owned resources
// for the lifetime of a session: token, profile, stage, universities,
// todos, and the chat transcript. All mutation goes through the methods
// on State; mutators apply optimistic local updates, issue the network
// call, and confirm or roll back on the outcome.
package state

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"vantage/internal/api"
	"vantage/internal/authstore"
	"vantage/internal/models"
)

// State is the client-side mirror of the backend. One instance per
// process, handed to front ends by reference.
type State struct {
	mu     sync.Mutex
	client *api.Client
	log    *zap.Logger

	// chatDelay is how long to wait after an AI action before refreshing.
	chatDelay time.Duration

	token               string
	loading             bool
	onboardingCompleted bool
	profile             *models.UserProfile
	stage               models.Stage
	universities        []models.University
	todos               []models.TodoItem
	chat                []models.ChatMessage
	typing              bool
}

// New creates a State bound to a backend client. Any 401 anywhere in the
// app invalidates the session: the stored token is cleared and in-memory
// state reset.
func New(client *api.Client, log *zap.Logger, chatDelay time.Duration) *State {
	if log == nil {
		log = zap.NewNop()
	}
	s := &State{
		client:    client,
		log:       log,
		chatDelay: chatDelay,
		token:     client.Token,
		stage:     models.StageProfileBuilding,
	}
	client.OnUnauthorized = s.invalidateSession
	return s
}

// invalidateSession is the global 401 policy: clear the durable token and
// every piece of derived state, regardless of which call tripped it.
func (s *State) invalidateSession() {
	if err := authstore.Clear(); err != nil {
		s.log.Warn("clear stored token", zap.Error(err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// clearLocked resets all in-memory state. Caller holds mu.
func (s *State) clearLocked() {
	s.token = ""
	s.client.Token = ""
	s.onboardingCompleted = false
	s.profile = nil
	s.stage = models.StageProfileBuilding
	s.universities = nil
	s.todos = nil
	s.chat = nil
	s.typing = false
}

// --- Read accessors (copies, so callers cannot mutate the cache) ---

// IsAuthenticated reports whether a session token is held. Token presence
// is the sole authentication signal.
func (s *State) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Loading reports whether the bootstrap reconciliation is in flight.
func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// OnboardingCompleted reports whether the server has an onboarding record.
func (s *State) OnboardingCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboardingCompleted
}

// Profile returns the cached profile, or nil before onboarding.
func (s *State) Profile() *models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	p.Countries = append([]string(nil), s.profile.Countries...)
	return &p
}

// Stage returns the cached journey stage.
func (s *State) Stage() models.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Universities returns a copy of the cached university list.
func (s *State) Universities() []models.University {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.University(nil), s.universities...)
}

// University returns the cached record with the given id, if present.
func (s *State) University(id int) (models.University, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.universities {
		if u.ID == id {
			return u, true
		}
	}
	return models.University{}, false
}

// Todos returns a copy of the cached checklist.
func (s *State) Todos() []models.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TodoItem(nil), s.todos...)
}

// Chat returns a copy of the session transcript.
func (s *State) Chat() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.chat...)
}

// Typing reports whether a counsellor reply is pending.
func (s *State) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// Client exposes the underlying API client for screen-scoped resources
// (university details, application documents) that are not part of the
// global cache.
func (s *State) Client() *api.Client {
	return s.client
}
