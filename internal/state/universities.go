package state

import (
	"fmt"

	"go.uber.org/zap"

	"vantage/internal/api"
	"vantage/internal/models"
)

// LoadUniversities replaces the cached university list: base list plus
// two independent status fetches (shortlisted, locked) joined by id. A
// failed status fetch degrades to an empty set rather than aborting the
// reload.
func (s *State) LoadUniversities(search, country string) error {
	records, err := s.client.ListUniversities(search, country)
	if err != nil {
		return fmt.Errorf("list universities: %w", err)
	}

	shortlisted := map[int]bool{}
	if recs, err := s.client.GetShortlisted(); err == nil {
		for _, r := range recs {
			shortlisted[r.ID] = true
		}
	} else {
		s.log.Warn("shortlist status load failed", zap.Error(err))
	}

	locked := map[int]bool{}
	if recs, err := s.client.GetLocked(); err == nil {
		for _, r := range recs {
			locked[r.ID] = true
		}
	} else {
		s.log.Warn("lock status load failed", zap.Error(err))
	}

	merged := make([]models.University, 0, len(records))
	for _, r := range records {
		merged = append(merged, mergeUniversity(r, shortlisted[r.ID], locked[r.ID]))
	}

	s.mu.Lock()
	s.universities = merged
	s.mu.Unlock()
	return nil
}

// mergeUniversity joins a raw server record with the user's status flags
// and fills display defaults.
func mergeUniversity(r api.UniversityRecord, isShortlisted, isLocked bool) models.University {
	u := models.University{
		ID:               r.ID,
		Name:             r.Name,
		Country:          r.Country,
		CostTier:         models.CostTierFromTuition(r.TuitionFee),
		AcceptanceChance: r.AcceptanceChance,
		Tag:              models.Tag(r.Category),
		WhyFits:          r.WhyFits,
		Risks:            "General competitive admission.",
		Ranking:          models.FormatRanking(r.Ranking),
		Image:            models.CountryImage(r.Country),
		IsShortlisted:    isShortlisted,
		IsLocked:         isLocked,
	}
	if u.AcceptanceChance == "" {
		u.AcceptanceChance = "Medium"
	}
	if u.Tag == "" {
		u.Tag = models.TagTarget
	}
	if u.WhyFits == "" {
		u.WhyFits = "Matched based on your profile."
	}
	return u
}

// Shortlist toggles a university's shortlist flag, optimistically. On
// success the full list is reloaded to pick up authoritative server
// state; on failure the local flip is inverted exactly.
func (s *State) Shortlist(id int) error {
	if !s.flipShortlist(id) {
		return nil
	}
	if err := s.client.ToggleShortlist(id); err != nil {
		s.flipShortlist(id)
		s.log.Warn("shortlist failed", zap.Int("university", id), zap.Error(err))
		return fmt.Errorf("shortlist: %w", err)
	}
	return s.LoadUniversities("", "")
}

// Lock commits to a university. Locking implies shortlisting, so both
// flags are set optimistically. On success the checklist is reloaded
// (the server generates todos when locking) and a full reconciliation
// refreshes the stage. On failure only the lock flag is reverted; the
// shortlist side effect stays until the next reload reconciles it.
func (s *State) Lock(id int) error {
	if !s.setLock(id, true, true) {
		return nil
	}
	if err := s.client.Lock(id); err != nil {
		s.setLock(id, false, false)
		s.log.Warn("lock failed", zap.Int("university", id), zap.Error(err))
		return fmt.Errorf("lock: %w", err)
	}
	if err := s.LoadTodos(); err != nil {
		s.log.Warn("todo reload after lock failed", zap.Error(err))
	}
	return s.Bootstrap()
}

// Unlock releases a locked university, optimistically. On success a full
// reconciliation refreshes the stage; on failure the lock is restored.
func (s *State) Unlock(id int) error {
	if !s.setLock(id, false, false) {
		return nil
	}
	if err := s.client.Unlock(id); err != nil {
		s.setLock(id, true, false)
		s.log.Warn("unlock failed", zap.Int("university", id), zap.Error(err))
		return fmt.Errorf("unlock: %w", err)
	}
	return s.Bootstrap()
}

// flipShortlist toggles the shortlist flag in place. Returns false when
// the id is not in the cache (mutators no-op on unknown ids).
func (s *State) flipShortlist(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.universities {
		if s.universities[i].ID == id {
			s.universities[i].IsShortlisted = !s.universities[i].IsShortlisted
			return true
		}
	}
	return false
}

// setLock sets the lock flag, also marking shortlisted when requested
// (locking implies shortlisting). Returns false on unknown id.
func (s *State) setLock(id int, locked, alsoShortlist bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.universities {
		if s.universities[i].ID == id {
			s.universities[i].IsLocked = locked
			if alsoShortlist {
				s.universities[i].IsShortlisted = true
			}
			return true
		}
	}
	return false
}
