// Package api provides an HTTP client for the counselling backend.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Client is an HTTP client for the counselling backend.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	// OnUnauthorized, when set, is called once for every 401 response.
	// The global session-invalidation policy hangs off this hook so the
	// client does not need to know about the state layer.
	OnUnauthorized func()
}

// New creates a new backend client.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// --- Auth types ---

// TokenResponse is the response from the login endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the authenticated user from GET /api/auth/me.
type UserResponse struct {
	ID              int    `json:"id"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	ProfileComplete bool   `json:"profile_complete"`
}

// SignupRequest is the body for POST /api/auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// --- Onboarding types ---

// OnboardingRecord is the server's onboarding payload, used for both the
// GET response and the POST upsert body. PreferredCountries is a
// comma-separated string on the wire.
type OnboardingRecord struct {
	CurrentEducationLevel string   `json:"current_education_level,omitempty"`
	DegreeMajor           string   `json:"degree_major,omitempty"`
	GraduationYear        int      `json:"graduation_year,omitempty"`
	GPA                   float64  `json:"gpa,omitempty"`
	IntendedDegree        string   `json:"intended_degree,omitempty"`
	FieldOfStudy          string   `json:"field_of_study,omitempty"`
	TargetIntakeYear      int      `json:"target_intake_year,omitempty"`
	PreferredCountries    string   `json:"preferred_countries,omitempty"`
	BudgetPerYear         float64  `json:"budget_per_year,omitempty"`
	FundingPlan           string   `json:"funding_plan,omitempty"`
	IELTSStatus           string   `json:"ielts_toefl_status,omitempty"`
	IELTSScore            *float64 `json:"ielts_toefl_score,omitempty"`
	GREStatus             string   `json:"gre_gmat_status,omitempty"`
	GREScore              *float64 `json:"gre_gmat_score,omitempty"`
	SOPStatus             string   `json:"sop_status,omitempty"`
}

// --- Dashboard types ---

// StageResponse is the response from GET /api/dashboard/stage.
type StageResponse struct {
	Stage int `json:"stage"`
}

// --- University types ---

// UniversityRecord is a raw university row from the server. Status joins
// (shortlisted/locked) happen client-side.
type UniversityRecord struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Country          string  `json:"country"`
	DegreeType       string  `json:"degree_type,omitempty"`
	FieldOfStudy     string  `json:"field_of_study,omitempty"`
	TuitionFee       float64 `json:"tuition_fee"`
	AcceptanceRate   float64 `json:"acceptance_rate,omitempty"`
	Ranking          int     `json:"ranking,omitempty"`
	Description      string  `json:"description,omitempty"`
	Category         string  `json:"category,omitempty"`
	AcceptanceChance string  `json:"acceptance_chance,omitempty"`
	WhyFits          string  `json:"why_fits,omitempty"`
}

// --- Todo types ---

// TodoRecord is a todo row from the server.
type TodoRecord struct {
	ID           int64  `json:"id"`
	UniversityID *int   `json:"university_id,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Completed    bool   `json:"completed"`
}

// CreateTodoRequest is the body for POST /api/todos.
type CreateTodoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	UniversityID *int   `json:"university_id,omitempty"`
}

// --- AI counsellor types ---

// ChatAction is a server-side action the counsellor took on the user's
// behalf. Type "none" means no action.
type ChatAction struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ChatResponse is the response from POST /api/ai-counsellor/chat.
type ChatResponse struct {
	Message      string      `json:"message"`
	Action       *ChatAction `json:"action,omitempty"`
	Reasoning    string      `json:"reasoning,omitempty"`
	UpdatedStage string      `json:"updated_stage,omitempty"`
}

// TookAction reports whether the counsellor performed a server-side
// action that the client should refresh to pick up.
func (r *ChatResponse) TookAction() bool {
	return r.Action != nil && r.Action.Type != "" && r.Action.Type != "none"
}

// SOPResponse is the response from POST /api/ai-counsellor/generate-sop.
type SOPResponse struct {
	SOPContent string `json:"sop_content"`
}

// StrategyResponse is the response from POST /api/ai-counsellor/generate-strategy.
type StrategyResponse struct {
	StrategyPoints []string `json:"strategy_points"`
}

// --- Application document types ---

// DocumentRecord is an application checklist document for a locked
// university.
type DocumentRecord struct {
	ID           int    `json:"id"`
	UniversityID int    `json:"university_id"`
	Name         string `json:"name"`
	IsCompleted  bool   `json:"is_completed"`
}

// --- Auth methods ---

// Login exchanges credentials for a session token. The endpoint expects a
// form-encoded body, unlike the rest of the API.
func (c *Client) Login(email, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequest("POST", c.BaseURL+"/api/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp TokenResponse
	if err := c.send(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleLogin exchanges a Google credential for a session token.
func (c *Client) GoogleLogin(credential string) (*TokenResponse, error) {
	body := map[string]string{"credential": credential}
	var resp TokenResponse
	if err := c.doNoAuth("POST", "/api/auth/google", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account. It does not log in; callers chain Login.
func (c *Client) Signup(req *SignupRequest) (*UserResponse, error) {
	var resp UserResponse
	if err := c.doNoAuth("POST", "/api/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me validates the session token against the identity endpoint.
func (c *Client) Me() (*UserResponse, error) {
	var resp UserResponse
	if err := c.do("GET", "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteAccount permanently deletes the authenticated account.
func (c *Client) DeleteAccount() error {
	return c.do("DELETE", "/api/auth/me", nil, nil)
}

// --- Onboarding methods ---

// GetOnboarding fetches the onboarding record. Returns ErrNotFound when
// the user has not completed onboarding; callers treat that as a state,
// not a failure.
func (c *Client) GetOnboarding() (*OnboardingRecord, error) {
	var resp OnboardingRecord
	if err := c.do("GET", "/api/onboarding", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveOnboarding creates or replaces the onboarding record.
func (c *Client) SaveOnboarding(rec *OnboardingRecord) (*OnboardingRecord, error) {
	var resp OnboardingRecord
	if err := c.do("POST", "/api/onboarding", rec, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Dashboard methods ---

// GetStage fetches the numeric journey stage.
func (c *Client) GetStage() (*StageResponse, error) {
	var resp StageResponse
	if err := c.do("GET", "/api/dashboard/stage", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- University methods ---

// ListUniversities fetches the base university list, optionally filtered.
func (c *Client) ListUniversities(search, country string) ([]UniversityRecord, error) {
	params := url.Values{}
	if search != "" {
		params.Set("search", search)
	}
	if country != "" {
		params.Set("country", country)
	}
	path := "/api/universities"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp []UniversityRecord
	if err := c.do("GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetShortlisted fetches the universities the user has shortlisted.
func (c *Client) GetShortlisted() ([]UniversityRecord, error) {
	var resp []UniversityRecord
	if err := c.do("GET", "/api/universities/shortlisted", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetLocked fetches the universities the user has locked.
func (c *Client) GetLocked() ([]UniversityRecord, error) {
	var resp []UniversityRecord
	if err := c.do("GET", "/api/universities/locked", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ToggleShortlist toggles the shortlist flag for a university server-side.
func (c *Client) ToggleShortlist(universityID int) error {
	body := map[string]int{"university_id": universityID}
	return c.do("POST", "/api/universities/shortlist", body, nil)
}

// Lock commits to a university. The server generates checklist todos and
// may advance the stage as a side effect.
func (c *Client) Lock(universityID int) error {
	body := map[string]int{"university_id": universityID}
	return c.do("POST", "/api/universities/lock", body, nil)
}

// Unlock removes the lock from a university.
func (c *Client) Unlock(universityID int) error {
	return c.do("DELETE", fmt.Sprintf("/api/universities/lock/%d", universityID), nil, nil)
}

// GetUniversityDetails fetches the detail record for one university.
func (c *Client) GetUniversityDetails(universityID int) (*UniversityRecord, error) {
	var resp UniversityRecord
	if err := c.do("GET", fmt.Sprintf("/api/universities/%d/details", universityID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- AI counsellor methods ---

// Chat sends a message to the AI counsellor.
func (c *Client) Chat(message string) (*ChatResponse, error) {
	body := map[string]string{"message": message}
	var resp ChatResponse
	if err := c.do("POST", "/api/ai-counsellor/chat", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateSOP asks the counsellor to draft a statement of purpose for a
// university.
func (c *Client) GenerateSOP(universityID int) (*SOPResponse, error) {
	body := map[string]int{"university_id": universityID}
	var resp SOPResponse
	if err := c.do("POST", "/api/ai-counsellor/generate-sop", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateStrategy asks the counsellor for an application strategy.
func (c *Client) GenerateStrategy(universityID int) (*StrategyResponse, error) {
	body := map[string]int{"university_id": universityID}
	var resp StrategyResponse
	if err := c.do("POST", "/api/ai-counsellor/generate-strategy", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Todo methods ---

// ListTodos fetches all checklist items.
func (c *Client) ListTodos() ([]TodoRecord, error) {
	var resp []TodoRecord
	if err := c.do("GET", "/api/todos", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateTodo creates a checklist item and returns the server row.
func (c *Client) CreateTodo(req *CreateTodoRequest) (*TodoRecord, error) {
	var resp TodoRecord
	if err := c.do("POST", "/api/todos", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTodo sets the completed flag on a checklist item.
func (c *Client) UpdateTodo(todoID int64, completed bool) (*TodoRecord, error) {
	body := map[string]bool{"completed": completed}
	var resp TodoRecord
	if err := c.do("PATCH", fmt.Sprintf("/api/todos/%d", todoID), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Application document methods ---

// ListDocuments fetches the document checklist for a locked university.
func (c *Client) ListDocuments(universityID int) ([]DocumentRecord, error) {
	var resp []DocumentRecord
	if err := c.do("GET", fmt.Sprintf("/api/applications/%d/documents", universityID), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateDocument sets the completion flag on an application document.
func (c *Client) UpdateDocument(documentID int, completed bool) (*DocumentRecord, error) {
	body := map[string]bool{"is_completed": completed}
	var resp DocumentRecord
	if err := c.do("PATCH", fmt.Sprintf("/api/applications/documents/%d", documentID), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- HTTP helpers ---

// apiError is the standard error body from the backend.
type apiError struct {
	Detail string `json:"detail"`
}

func (e *apiError) Error() string {
	return e.Detail
}

// do executes an authenticated JSON request.
func (c *Client) do(method, path string, body, result any) error {
	return c.doRequest(method, path, body, result, true)
}

// doNoAuth executes an unauthenticated JSON request.
func (c *Client) doNoAuth(method, path string, body, result any) error {
	return c.doRequest(method, path, body, result, false)
}

func (c *Client) doRequest(method, path string, body, result any, auth bool) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	return c.send(req, result)
}

// send executes a prepared request and decodes the response.
func (c *Client) send(req *http.Request, result any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.Unmarshal(respBody, &apiErr)

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			if c.OnUnauthorized != nil {
				c.OnUnauthorized()
			}
			if apiErr.Detail != "" {
				return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Detail)
			}
			return ErrUnauthorized
		case http.StatusNotFound:
			if apiErr.Detail != "" {
				return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Detail)
			}
			return ErrNotFound
		default:
			if apiErr.Detail != "" {
				return &apiErr
			}
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
