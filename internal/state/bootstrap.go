package state

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"vantage/internal/api"
	"vantage/internal/models"
)

// Bootstrap re-derives all cached state from the backend of record. Run
// once a token is present, and again after actions with server-side side
// effects. Steps run in order; each is independent except the identity
// check, whose failure is fatal for the session.
//
// Overlapping runs are not deduplicated: the last response to resolve
// wins, which is accepted behavior rather than a guarantee.
func (s *State) Bootstrap() error {
	s.setLoading(true)
	defer s.setLoading(false)

	if _, err := s.client.Me(); err != nil {
		// Token invalid or unreachable server. Either way the session
		// cannot continue.
		s.Logout()
		return fmt.Errorf("session check: %w", err)
	}

	s.loadProfile()

	if resp, err := s.client.GetStage(); err == nil {
		s.mu.Lock()
		s.stage = models.StageFromNumber(resp.Stage)
		s.mu.Unlock()
	} else {
		s.log.Warn("stage load failed", zap.Error(err))
	}

	if err := s.LoadUniversities("", ""); err != nil {
		s.log.Warn("university load failed", zap.Error(err))
	}

	if err := s.LoadTodos(); err != nil {
		s.log.Warn("todo load failed", zap.Error(err))
	}

	return nil
}

// loadProfile fetches the onboarding record and projects it into the
// cached profile. A 404 is an expected branch meaning onboarding has not
// been completed; any other failure leaves prior state untouched.
func (s *State) loadProfile() {
	rec, err := s.client.GetOnboarding()
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			s.mu.Lock()
			s.onboardingCompleted = false
			s.profile = nil
			s.mu.Unlock()
		} else {
			s.log.Warn("onboarding load failed", zap.Error(err))
		}
		return
	}

	profile := ProjectProfile(rec)
	s.mu.Lock()
	s.onboardingCompleted = true
	s.profile = profile
	s.mu.Unlock()
}

// ProjectProfile transforms a server onboarding record into the client
// profile projection.
func ProjectProfile(rec *api.OnboardingRecord) *models.UserProfile {
	var countries []string
	if rec.PreferredCountries != "" {
		countries = models.NormalizeCountries(strings.Split(rec.PreferredCountries, ","))
	}

	p := &models.UserProfile{
		Degree:      rec.CurrentEducationLevel,
		Countries:   countries,
		BudgetRange: models.FormatBudget(rec.BudgetPerYear),
		SOPStatus:   rec.SOPStatus,
		ExamStatus:  models.ExamStatusFrom(rec.IELTSStatus, rec.GREStatus),
	}
	if p.SOPStatus == "" {
		p.SOPStatus = "not-started"
	}
	if rec.GPA > 0 {
		p.GPA = strconv.FormatFloat(rec.GPA, 'f', -1, 64)
	}
	if rec.TargetIntakeYear > 0 {
		p.TargetIntake = strconv.Itoa(rec.TargetIntakeYear)
	}
	if rec.IELTSScore != nil {
		p.IELTSScore = strconv.FormatFloat(*rec.IELTSScore, 'f', -1, 64)
	}
	if rec.GREScore != nil {
		p.GREScore = strconv.FormatFloat(*rec.GREScore, 'f', -1, 64)
	}
	return p
}

// SaveProfile upserts the onboarding record and reloads the cached
// projection from the saved row.
func (s *State) SaveProfile(rec *api.OnboardingRecord) error {
	saved, err := s.client.SaveOnboarding(rec)
	if err != nil {
		return fmt.Errorf("save onboarding: %w", err)
	}
	profile := ProjectProfile(saved)
	s.mu.Lock()
	s.onboardingCompleted = true
	s.profile = profile
	s.mu.Unlock()
	return nil
}

func (s *State) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
