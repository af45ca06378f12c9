package models

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stage represents the user's journey phase
type Stage string

const (
	StageProfileBuilding      Stage = "profile-building"
	StageDiscoverUniversities Stage = "discover-universities"
	StageFinalizeUniversities Stage = "finalize-universities"
	StagePrepareApplications  Stage = "prepare-applications"
)

// StageFromNumber maps the numeric stage returned by the dashboard endpoint
// to a named stage. Unknown values fall back to profile-building.
func StageFromNumber(n int) Stage {
	switch n {
	case 0, 1:
		return StageProfileBuilding
	case 2:
		return StageDiscoverUniversities
	case 3:
		return StageFinalizeUniversities
	case 4:
		return StagePrepareApplications
	default:
		return StageProfileBuilding
	}
}

// Label returns a human-readable name for the stage.
func (s Stage) Label() string {
	switch s {
	case StageDiscoverUniversities:
		return "Discover Universities"
	case StageFinalizeUniversities:
		return "Finalize Universities"
	case StagePrepareApplications:
		return "Prepare Applications"
	default:
		return "Profile Building"
	}
}

// CostTier represents a university's derived cost bucket
type CostTier string

const (
	CostLow    CostTier = "Low"
	CostMedium CostTier = "Medium"
	CostHigh   CostTier = "High"
)

// CostTierFromTuition derives the cost tier from a yearly tuition figure.
// Comparisons are strict: exactly 10000 is Low, exactly 30000 is Medium.
func CostTierFromTuition(tuition float64) CostTier {
	switch {
	case tuition > 30000:
		return CostHigh
	case tuition > 10000:
		return CostMedium
	default:
		return CostLow
	}
}

// Tag classifies a university relative to the user's profile
type Tag string

const (
	TagDream  Tag = "Dream"
	TagTarget Tag = "Target"
	TagSafe   Tag = "Safe"
)

// TodoStatus represents the completion state of a checklist item
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in-progress"
	TodoDone       TodoStatus = "done"
)

// ChatRole identifies the author of a chat message
type ChatRole string

const (
	RoleUser ChatRole = "user"
	RoleAI   ChatRole = "ai"
)

// University is the merged client-side view of a university: base record
// joined with the user's shortlist and lock status.
type University struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Country          string   `json:"country"`
	CostTier         CostTier `json:"cost_tier"`
	AcceptanceChance string   `json:"acceptance_chance"`
	Tag              Tag      `json:"tag"`
	WhyFits          string   `json:"why_fits"`
	Risks            string   `json:"risks"`
	Ranking          string   `json:"ranking"`
	Image            string   `json:"image"`
	IsShortlisted    bool     `json:"is_shortlisted"`
	IsLocked         bool     `json:"is_locked"`
}

// TodoItem is a checklist entry. Items created locally carry a negative
// temporary ID until the server assigns a real one.
type TodoItem struct {
	ID     int64      `json:"id"`
	Text   string     `json:"text"`
	Status TodoStatus `json:"status"`
}

// IsTemp reports whether the item still has a client-assigned ID.
func (t TodoItem) IsTemp() bool {
	return t.ID < 0
}

// ChatMessage is one entry in the session's counsellor transcript.
type ChatMessage struct {
	ID      string   `json:"id"`
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// UserProfile is the client projection of the server's onboarding record.
type UserProfile struct {
	Degree       string   `json:"degree"`
	GPA          string   `json:"gpa"`
	TargetIntake string   `json:"target_intake"`
	Countries    []string `json:"countries"`
	BudgetRange  string   `json:"budget_range"`
	SOPStatus    string   `json:"sop_status"`
	ExamStatus   string   `json:"exam_status"`
	IELTSScore   string   `json:"ielts_score"`
	GREScore     string   `json:"gre_score"`
}

// NormalizeCountry canonicalizes a country name: trims whitespace,
// special-cases "usa" and "uk" (matched case-insensitively on the whole
// token), and title-cases every word otherwise. Idempotent.
func NormalizeCountry(c string) string {
	trimmed := strings.TrimSpace(c)
	if trimmed == "" {
		return ""
	}
	switch strings.ToLower(trimmed) {
	case "usa":
		return "USA"
	case "uk":
		return "UK"
	}
	words := strings.Split(trimmed, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// NormalizeCountries normalizes a list of country names, dropping entries
// that are empty after trimming.
func NormalizeCountries(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if n := NormalizeCountry(c); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// countryImages maps countries to bundled image asset names.
var countryImages = map[string]string{
	"USA":       "univ_usa",
	"UK":        "univ_uk",
	"Canada":    "univ_canada",
	"Australia": "univ_australia",
	"Germany":   "univ_germany",
	"Ireland":   "univ_ireland",
}

// CountryImage returns the image asset name for a country, falling back
// to the generic asset when the country has no dedicated one.
func CountryImage(country string) string {
	if img, ok := countryImages[country]; ok {
		return img
	}
	return "univ_usa"
}

// FormatRanking renders a global ranking for display. Zero means unranked.
func FormatRanking(ranking int) string {
	if ranking <= 0 {
		return "# -- Global"
	}
	return fmt.Sprintf("#%d Global", ranking)
}

// FormatBudget renders a yearly budget figure. Zero means unspecified.
func FormatBudget(budget float64) string {
	if budget <= 0 {
		return ""
	}
	return fmt.Sprintf("$%.0f/yr", budget)
}

// ExamStatusFrom collapses the two exam-track statuses from onboarding
// into the single status shown on the profile.
func ExamStatusFrom(ieltsStatus, greStatus string) string {
	if ieltsStatus == "Completed" || greStatus == "Completed" {
		return "done"
	}
	if ieltsStatus == "In progress" || greStatus == "In progress" {
		return "in-progress"
	}
	return "not-started"
}
