package state

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"vantage/internal/api"
	"vantage/internal/authstore"
	"vantage/internal/models"
)

// backend is a scripted counselling server. It keeps shortlist and lock
// membership server-side so post-mutation reloads see the mutation, and
// any path can be forced to fail per test.
type backend struct {
	mu          sync.Mutex
	srv         *httptest.Server
	failWith    map[string]int // registered path -> status code
	shortlisted map[int]bool
	locked      map[int]bool
	chatReply   api.ChatResponse
	uniFetches  int
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{
		failWith:    map[string]int{},
		shortlisted: map[int]bool{2: true},
		locked:      map[int]bool{},
		chatReply:   api.ChatResponse{Message: "Here is my advice."},
	}

	mux := http.NewServeMux()
	wrap := func(path string, h http.HandlerFunc) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			code, failing := b.failWith[path]
			b.mu.Unlock()
			if failing {
				w.WriteHeader(code)
				json.NewEncoder(w).Encode(map[string]string{"detail": "scripted failure"})
				return
			}
			h(w, r)
		})
	}

	wrap("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.UserResponse{ID: 1, Email: "a@b.c", FullName: "A B"})
	})
	wrap("/api/onboarding", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.OnboardingRecord{
			CurrentEducationLevel: "Bachelors",
			GPA:                   3.4,
			TargetIntakeYear:      2027,
			PreferredCountries:    "usa, uk ,germany",
			BudgetPerYear:         25000,
			IELTSStatus:           "Completed",
			SOPStatus:             "draft",
		})
	})
	wrap("/api/dashboard/stage", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.StageResponse{Stage: 2})
	})
	wrap("/api/universities", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.uniFetches++
		b.mu.Unlock()
		json.NewEncoder(w).Encode([]api.UniversityRecord{
			{ID: 1, Name: "TU Munich", Country: "Germany", TuitionFee: 500, Ranking: 50},
			{ID: 2, Name: "MIT", Country: "USA", TuitionFee: 55000, Category: "Dream", AcceptanceChance: "Low"},
			{ID: 3, Name: "Oxford", Country: "UK", TuitionFee: 28000},
		})
	})
	wrap("/api/universities/shortlisted", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(b.members(b.shortlisted))
	})
	wrap("/api/universities/locked", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(b.members(b.locked))
	})
	wrap("/api/universities/shortlist", func(w http.ResponseWriter, r *http.Request) {
		id := decodeUniversityID(r)
		b.mu.Lock()
		b.shortlisted[id] = !b.shortlisted[id]
		b.mu.Unlock()
	})
	wrap("/api/universities/lock", func(w http.ResponseWriter, r *http.Request) {
		id := decodeUniversityID(r)
		b.mu.Lock()
		b.locked[id] = true
		b.shortlisted[id] = true
		b.mu.Unlock()
	})
	wrap("/api/universities/lock/", func(w http.ResponseWriter, r *http.Request) {
		// DELETE /api/universities/lock/{id}; tests only ever unlock id 1.
		b.mu.Lock()
		delete(b.locked, 1)
		b.mu.Unlock()
	})
	wrap("/api/todos", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req api.CreateTodoRequest
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(api.TodoRecord{ID: 42, Title: req.Title})
		default:
			json.NewEncoder(w).Encode([]api.TodoRecord{
				{ID: 10, Title: "Request transcripts", Completed: false},
				{ID: 11, Title: "Book IELTS", Completed: true},
			})
		}
	})
	wrap("/api/todos/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.TodoRecord{ID: 10, Title: "Request transcripts", Completed: true})
	})
	wrap("/api/ai-counsellor/chat", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		reply := b.chatReply
		b.mu.Unlock()
		json.NewEncoder(w).Encode(reply)
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) members(set map[int]bool) []api.UniversityRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []api.UniversityRecord{}
	for id, ok := range set {
		if ok {
			out = append(out, api.UniversityRecord{ID: id})
		}
	}
	return out
}

func (b *backend) fail(path string, code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWith[path] = code
}

func (b *backend) universityFetches() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uniFetches
}

func decodeUniversityID(r *http.Request) int {
	var body struct {
		UniversityID int `json:"university_id"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	return body.UniversityID
}

func newTestState(t *testing.T, b *backend) *State {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	client := api.New(b.srv.URL, "test-token")
	return New(client, zap.NewNop(), 10*time.Millisecond)
}

func bootstrapped(t *testing.T, b *backend) *State {
	t.Helper()
	s := newTestState(t, b)
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return s
}

// --- Bootstrap ---

func TestBootstrapLoadsEverything(t *testing.T) {
	s := bootstrapped(t, newBackend(t))

	if !s.OnboardingCompleted() {
		t.Fatal("expected onboarding completed")
	}
	p := s.Profile()
	if p == nil {
		t.Fatal("expected profile")
	}
	wantCountries := []string{"USA", "UK", "Germany"}
	if len(p.Countries) != len(wantCountries) {
		t.Fatalf("countries: got %v, want %v", p.Countries, wantCountries)
	}
	for i, c := range wantCountries {
		if p.Countries[i] != c {
			t.Fatalf("countries: got %v, want %v", p.Countries, wantCountries)
		}
	}
	if p.GPA != "3.4" || p.TargetIntake != "2027" || p.BudgetRange != "$25000/yr" {
		t.Fatalf("profile projection: got %+v", p)
	}
	if p.ExamStatus != "done" {
		t.Fatalf("exam status: got %q, want done", p.ExamStatus)
	}

	if s.Stage() != models.StageDiscoverUniversities {
		t.Fatalf("stage: got %s", s.Stage())
	}

	unis := s.Universities()
	if len(unis) != 3 {
		t.Fatalf("universities: got %d, want 3", len(unis))
	}
	if !unis[1].IsShortlisted {
		t.Fatal("MIT should be shortlisted from the status join")
	}
	if unis[0].CostTier != models.CostLow || unis[1].CostTier != models.CostHigh || unis[2].CostTier != models.CostMedium {
		t.Fatalf("cost tiers: got %s/%s/%s", unis[0].CostTier, unis[1].CostTier, unis[2].CostTier)
	}
	if unis[0].Tag != models.TagTarget {
		t.Fatalf("default tag: got %s, want Target", unis[0].Tag)
	}
	if unis[1].Image != "univ_usa" || unis[2].Image != "univ_uk" {
		t.Fatalf("images: got %s/%s", unis[1].Image, unis[2].Image)
	}

	todos := s.Todos()
	if len(todos) != 2 {
		t.Fatalf("todos: got %d, want 2", len(todos))
	}
	if todos[0].Status != models.TodoPending || todos[1].Status != models.TodoDone {
		t.Fatalf("todo statuses: got %s/%s", todos[0].Status, todos[1].Status)
	}
}

func TestBootstrapOnboardingNotFound(t *testing.T) {
	b := newBackend(t)
	b.fail("/api/onboarding", http.StatusNotFound)

	s := newTestState(t, b)
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("bootstrap should not fail on missing onboarding: %v", err)
	}
	if s.OnboardingCompleted() {
		t.Fatal("expected onboarding incomplete")
	}
	if s.Profile() != nil {
		t.Fatal("expected nil profile")
	}
	// The rest of the sequence still ran.
	if len(s.Universities()) != 3 {
		t.Fatalf("universities should still load, got %d", len(s.Universities()))
	}
}

func TestBootstrapOnboardingServerErrorLeavesState(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)
	if s.Profile() == nil {
		t.Fatal("precondition: profile loaded")
	}

	b.fail("/api/onboarding", http.StatusInternalServerError)
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if !s.OnboardingCompleted() || s.Profile() == nil {
		t.Fatal("a non-404 onboarding failure must leave prior state untouched")
	}
}

func TestBootstrapIdentityFailureIsFatal(t *testing.T) {
	b := newBackend(t)
	b.fail("/api/auth/me", http.StatusUnauthorized)

	s := newTestState(t, b)
	if err := s.Bootstrap(); err == nil {
		t.Fatal("expected bootstrap error")
	}
	if s.IsAuthenticated() {
		t.Fatal("session must be cleared after identity failure")
	}
	if len(s.Universities()) != 0 || len(s.Todos()) != 0 {
		t.Fatal("state must be cleared after identity failure")
	}
}

func TestStatusFetchFailureDegrades(t *testing.T) {
	b := newBackend(t)
	b.fail("/api/universities/shortlisted", http.StatusInternalServerError)
	b.fail("/api/universities/locked", http.StatusInternalServerError)

	s := bootstrapped(t, b)
	unis := s.Universities()
	if len(unis) != 3 {
		t.Fatalf("base list must still load, got %d", len(unis))
	}
	for _, u := range unis {
		if u.IsShortlisted || u.IsLocked {
			t.Fatalf("status flags should degrade to false, got %+v", u)
		}
	}
}

// --- Shortlist / lock / unlock ---

func TestShortlistRollbackOnFailure(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	before, _ := s.University(1)
	if before.IsShortlisted {
		t.Fatal("precondition: not shortlisted")
	}

	b.fail("/api/universities/shortlist", http.StatusInternalServerError)
	if err := s.Shortlist(1); err == nil {
		t.Fatal("expected shortlist error")
	}

	after, _ := s.University(1)
	if after.IsShortlisted != before.IsShortlisted {
		t.Fatalf("rollback: got shortlisted=%v, want %v", after.IsShortlisted, before.IsShortlisted)
	}
}

func TestShortlistSuccessConfirmsAgainstServer(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	if err := s.Shortlist(1); err != nil {
		t.Fatalf("shortlist: %v", err)
	}
	u, _ := s.University(1)
	if !u.IsShortlisted {
		t.Fatal("shortlist flag lost after reload")
	}
	// Toggling off round-trips too.
	if err := s.Shortlist(1); err != nil {
		t.Fatalf("shortlist off: %v", err)
	}
	u, _ = s.University(1)
	if u.IsShortlisted {
		t.Fatal("expected shortlist toggled off")
	}
}

func TestLockImpliesShortlist(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	if err := s.Lock(1); err != nil {
		t.Fatalf("lock: %v", err)
	}
	u, _ := s.University(1)
	if !u.IsLocked {
		t.Fatal("expected locked after reload")
	}
	for _, u := range s.Universities() {
		if u.IsLocked && !u.IsShortlisted {
			t.Fatalf("invariant violated: %s locked but not shortlisted", u.Name)
		}
	}
}

func TestLockFailureRevertsLockOnly(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	b.fail("/api/universities/lock", http.StatusInternalServerError)
	if err := s.Lock(1); err == nil {
		t.Fatal("expected lock error")
	}

	u, _ := s.University(1)
	if u.IsLocked {
		t.Fatal("lock flag must revert on failure")
	}
	// The shortlist side effect is retained on a failed lock.
	if !u.IsShortlisted {
		t.Fatal("shortlist side effect should survive a failed lock")
	}
}

func TestUnlockFailureRestoresLock(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)
	if err := s.Lock(1); err != nil {
		t.Fatalf("setup lock: %v", err)
	}

	b.fail("/api/universities/lock/", http.StatusInternalServerError)
	if err := s.Unlock(1); err == nil {
		t.Fatal("expected unlock error")
	}
	u, _ := s.University(1)
	if !u.IsLocked {
		t.Fatal("lock must be restored after a failed unlock")
	}
}

func TestMutatorsNoOpOnUnknownID(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	if err := s.Shortlist(999); err != nil {
		t.Fatalf("unknown id should no-op, got %v", err)
	}
	if err := s.Lock(999); err != nil {
		t.Fatalf("unknown id should no-op, got %v", err)
	}
	if err := s.Unlock(999); err != nil {
		t.Fatalf("unknown id should no-op, got %v", err)
	}
}

// --- Todos ---

func TestToggleTodoRevertOnFailure(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	b.fail("/api/todos/", http.StatusInternalServerError)
	if err := s.ToggleTodo(10); err == nil {
		t.Fatal("expected toggle error")
	}
	for _, td := range s.Todos() {
		if td.ID == 10 && td.Status != models.TodoPending {
			t.Fatalf("status must revert to pending, got %s", td.Status)
		}
	}
}

func TestToggleTodoSuccess(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	if err := s.ToggleTodo(10); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	for _, td := range s.Todos() {
		if td.ID == 10 && td.Status != models.TodoDone {
			t.Fatalf("status: got %s, want done", td.Status)
		}
	}
}

func TestAddTodoReconciliation(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)
	baseline := len(s.Todos())

	if err := s.AddTodo("Submit transcripts", ""); err != nil {
		t.Fatalf("add todo: %v", err)
	}

	todos := s.Todos()
	if len(todos) != baseline+1 {
		t.Fatalf("length: got %d, want %d", len(todos), baseline+1)
	}
	var matches int
	for _, td := range todos {
		if td.Text == "Submit transcripts" {
			matches++
			if td.ID != 42 {
				t.Fatalf("id: got %d, want server-assigned 42", td.ID)
			}
			if td.IsTemp() {
				t.Fatal("temporary id leaked into the reconciled item")
			}
		}
	}
	if matches != 1 {
		t.Fatalf("want exactly one reconciled item, got %d", matches)
	}
}

func TestAddTodoFailureRemovesTempItem(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)
	before := s.Todos()

	b.fail("/api/todos", http.StatusInternalServerError)
	if err := s.AddTodo("Submit transcripts", ""); err == nil {
		t.Fatal("expected add error")
	}

	after := s.Todos()
	if len(after) != len(before) {
		t.Fatalf("length: got %d, want %d", len(after), len(before))
	}
	for i := range after {
		if after[i] != before[i] {
			t.Fatalf("contents changed at %d: got %+v, want %+v", i, after[i], before[i])
		}
	}
}

// --- Chat ---

func TestSendChatAppendsBothMessages(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	reply, err := s.SendChat("Which universities fit my budget?")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply.Role != models.RoleAI || reply.Content != "Here is my advice." {
		t.Fatalf("reply: got %+v", reply)
	}

	chat := s.Chat()
	if len(chat) != 2 {
		t.Fatalf("transcript: got %d messages, want 2", len(chat))
	}
	if chat[0].Role != models.RoleUser || chat[1].Role != models.RoleAI {
		t.Fatalf("roles: got %s/%s", chat[0].Role, chat[1].Role)
	}
	if chat[0].ID == "" || chat[1].ID == "" || chat[0].ID == chat[1].ID {
		t.Fatalf("message ids: got %q and %q", chat[0].ID, chat[1].ID)
	}
	if s.Typing() {
		t.Fatal("typing must clear after success")
	}
}

func TestSendChatFailureKeepsUserMessage(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	b.fail("/api/ai-counsellor/chat", http.StatusInternalServerError)
	if _, err := s.SendChat("hello?"); err == nil {
		t.Fatal("expected chat error")
	}

	chat := s.Chat()
	if len(chat) != 1 {
		t.Fatalf("transcript: got %d messages, want just the user's", len(chat))
	}
	if chat[0].Role != models.RoleUser || chat[0].Content != "hello?" {
		t.Fatalf("kept message: got %+v", chat[0])
	}
	if s.Typing() {
		t.Fatal("typing must clear after failure")
	}
}

func TestChatActionSchedulesRefresh(t *testing.T) {
	b := newBackend(t)
	t.Setenv("HOME", t.TempDir())
	// A generous delay so the immediate check below cannot race the timer.
	s := New(api.New(b.srv.URL, "test-token"), zap.NewNop(), 200*time.Millisecond)
	if err := s.Bootstrap(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	b.mu.Lock()
	b.chatReply = api.ChatResponse{
		Message: "Shortlisted MIT for you.",
		Action:  &api.ChatAction{Type: "shortlist_university"},
	}
	b.mu.Unlock()

	before := b.universityFetches()
	if _, err := s.SendChat("please shortlist MIT"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if got := b.universityFetches(); got != before {
		t.Fatalf("refresh must be delayed, fetches went %d -> %d immediately", before, got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for b.universityFetches() <= before {
		if time.Now().After(deadline) {
			t.Fatal("post-action refresh never hit the universities endpoint")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// One reconciliation means one university reload.
	time.Sleep(100 * time.Millisecond)
	if got := b.universityFetches(); got != before+1 {
		t.Fatalf("university reloads per action: got %d, want 1", got-before)
	}
}

func TestChatWithoutActionDoesNotRefresh(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	before := b.universityFetches()
	if _, err := s.SendChat("what is an SOP?"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	time.Sleep(50 * time.Millisecond) // well past the 10ms test delay
	if got := b.universityFetches(); got != before {
		t.Fatalf("no-action reply must not refresh, fetches went %d -> %d", before, got)
	}
}

// --- Session / auth ---

func TestAnyUnauthorizedClearsSession(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)

	if err := authstore.Save(&authstore.Credentials{Token: "test-token"}); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	b.fail("/api/todos", http.StatusUnauthorized)
	if err := s.LoadTodos(); err == nil {
		t.Fatal("expected unauthorized error")
	}

	if authstore.IsAuthenticated() {
		t.Fatal("stored token must be cleared on 401")
	}
	if s.IsAuthenticated() {
		t.Fatal("state must report unauthenticated after 401")
	}
	if len(s.Universities()) != 0 {
		t.Fatal("in-memory state must be cleared on 401")
	}
}

func TestLogoutHardReset(t *testing.T) {
	b := newBackend(t)
	s := bootstrapped(t, b)
	if _, err := s.SendChat("hi"); err != nil {
		t.Fatalf("chat: %v", err)
	}

	s.Logout()

	if s.IsAuthenticated() {
		t.Fatal("token must clear")
	}
	if s.Profile() != nil || len(s.Universities()) != 0 || len(s.Todos()) != 0 || len(s.Chat()) != 0 {
		t.Fatal("all in-memory state must clear on logout")
	}
	if authstore.IsAuthenticated() {
		t.Fatal("durable token must clear on logout")
	}
}

func TestLoginStoresToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostForm.Get("username") != "a@b.c" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "bad credentials"})
			return
		}
		json.NewEncoder(w).Encode(api.TokenResponse{AccessToken: "fresh-token"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Setenv("HOME", t.TempDir())
	s := New(api.New(srv.URL, ""), zap.NewNop(), time.Millisecond)

	if err := s.Login("a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Fatal("state should be authenticated")
	}
	if got := authstore.Token(); got != "fresh-token" {
		t.Fatalf("stored token: got %q", got)
	}
}

func TestSignupChainsLogin(t *testing.T) {
	var signedUp bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		signedUp = true
		json.NewEncoder(w).Encode(api.UserResponse{ID: 2, Email: "new@b.c"})
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.TokenResponse{AccessToken: "signup-token"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	t.Setenv("HOME", t.TempDir())
	s := New(api.New(srv.URL, ""), zap.NewNop(), time.Millisecond)

	if err := s.Signup("new@b.c", "New User", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if !signedUp {
		t.Fatal("signup endpoint never called")
	}
	if !s.IsAuthenticated() {
		t.Fatal("signup must chain into a login")
	}
}
