package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tmercadante/leanscreen-go/internal/period"
	"github.com/tmercadante/leanscreen-go/internal/service"
	"github.com/tmercadante/leanscreen-go/internal/store/memory"
)

func newTestRouter(s *memory.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(service.NewTracker(s, period.Weekly, 100)).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// currentWeek is the canonical start of the current weekly period, so
// recorded entries land inside every named window.
func currentWeek() string {
	return period.StartOf(time.Now().UTC(), period.Weekly).Format("2006-01-02")
}

func TestRecordEntryEndpoint(t *testing.T) {
	r := newTestRouter(memory.New())
	userID := uuid.New()

	body := fmt.Sprintf(`{"user_id":%q,"period_start":%q,"duration_minutes":90,"note":"movie night"}`,
		userID, currentWeek())
	w := doJSON(t, r, http.MethodPost, "/api/entries", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Entry struct {
			ID              uuid.UUID `json:"id"`
			DurationMinutes int       `json:"duration_minutes"`
		} `json:"entry"`
		Streak struct {
			CurrentStreak int `json:"current_streak"`
		} `json:"streak"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Entry.DurationMinutes != 90 || resp.Streak.CurrentStreak != 1 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}

	// Same user+period again: conflict.
	w = doJSON(t, r, http.MethodPost, "/api/entries", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", w.Code)
	}
}

func TestRecordEntryEndpointValidation(t *testing.T) {
	r := newTestRouter(memory.New())
	userID := uuid.New()

	// Over weekly capacity.
	body := fmt.Sprintf(`{"user_id":%q,"period_start":%q,"duration_minutes":10081}`, userID, currentWeek())
	if w := doJSON(t, r, http.MethodPost, "/api/entries", body); w.Code != http.StatusBadRequest {
		t.Fatalf("over-capacity status = %d, want 400", w.Code)
	}

	// Malformed date.
	body = fmt.Sprintf(`{"user_id":%q,"period_start":"06/01/2025","duration_minutes":30}`, userID)
	if w := doJSON(t, r, http.MethodPost, "/api/entries", body); w.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", w.Code)
	}
}

func TestEntryLifecycleEndpoints(t *testing.T) {
	r := newTestRouter(memory.New())
	userID := uuid.New()

	body := fmt.Sprintf(`{"user_id":%q,"period_start":%q,"duration_minutes":60}`, userID, currentWeek())
	w := doJSON(t, r, http.MethodPost, "/api/entries", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var created struct {
		Entry struct {
			ID uuid.UUID `json:"id"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	patch := fmt.Sprintf(`{"user_id":%q,"duration_minutes":45}`, userID)
	w = doJSON(t, r, http.MethodPatch, "/api/entries/"+created.Entry.ID.String(), patch)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/entries?user_id="+userID.String(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listed struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if listed.Count != 1 {
		t.Fatalf("count = %d, want 1", listed.Count)
	}

	w = doJSON(t, r, http.MethodDelete,
		"/api/entries/"+created.Entry.ID.String()+"?user_id="+userID.String(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	// Deleting again: gone.
	w = doJSON(t, r, http.MethodDelete,
		"/api/entries/"+created.Entry.ID.String()+"?user_id="+userID.String(), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	s := memory.New()
	r := newTestRouter(s)

	alice, bob := uuid.New(), uuid.New()
	s.AddUser(alice, "Alice", nil)
	s.AddUser(bob, "Bob", nil)

	for _, rec := range []struct {
		user    uuid.UUID
		minutes int
	}{{alice, 120}, {bob, 90}} {
		body := fmt.Sprintf(`{"user_id":%q,"period_start":%q,"duration_minutes":%d}`,
			rec.user, currentWeek(), rec.minutes)
		if w := doJSON(t, r, http.MethodPost, "/api/entries", body); w.Code != http.StatusCreated {
			t.Fatalf("seed status = %d", w.Code)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/leaderboard?period=weekly", "")
	if w.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d", w.Code)
	}

	var resp struct {
		Period      string `json:"period"`
		Leaderboard []struct {
			Rank         int    `json:"rank"`
			DisplayName  string `json:"display_name"`
			TotalMinutes int    `json:"total_minutes"`
		} `json:"leaderboard"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Period != "weekly" || len(resp.Leaderboard) != 2 {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if resp.Leaderboard[0].DisplayName != "Alice" || resp.Leaderboard[0].Rank != 1 {
		t.Fatalf("top row = %+v", resp.Leaderboard[0])
	}
	if resp.Leaderboard[1].DisplayName != "Bob" || resp.Leaderboard[1].Rank != 2 {
		t.Fatalf("second row = %+v", resp.Leaderboard[1])
	}

	if w := doJSON(t, r, http.MethodGet, "/api/leaderboard?limit=abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d, want 400", w.Code)
	}
}

func TestUserSettingsEndpoints(t *testing.T) {
	r := newTestRouter(memory.New())
	userID := uuid.New()

	// Default is visible.
	w := doJSON(t, r, http.MethodGet, "/api/users/"+userID.String()+"/settings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get settings status = %d", w.Code)
	}
	var settings struct {
		ShowOnLeaderboard bool `json:"show_on_leaderboard"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !settings.ShowOnLeaderboard {
		t.Fatal("default visibility should be true")
	}

	w = doJSON(t, r, http.MethodPut, "/api/users/"+userID.String()+"/settings",
		`{"show_on_leaderboard":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put settings status = %d, body = %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if settings.ShowOnLeaderboard {
		t.Fatal("visibility should be false after opt-out")
	}
}

func TestGetStreakEndpoint(t *testing.T) {
	r := newTestRouter(memory.New())
	userID := uuid.New()

	// No entries yet: zero-value streak, not a 404.
	w := doJSON(t, r, http.MethodGet, "/api/users/"+userID.String()+"/streak", "")
	if w.Code != http.StatusOK {
		t.Fatalf("streak status = %d", w.Code)
	}
	var resp struct {
		CurrentStreak int `json:"current_streak"`
		LongestStreak int `json:"longest_streak"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CurrentStreak != 0 || resp.LongestStreak != 0 {
		t.Fatalf("zero-value streak expected, got %s", w.Body.String())
	}

	body := fmt.Sprintf(`{"user_id":%q,"period_start":%q,"duration_minutes":30}`, userID, currentWeek())
	if w := doJSON(t, r, http.MethodPost, "/api/entries", body); w.Code != http.StatusCreated {
		t.Fatalf("seed status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/users/"+userID.String()+"/streak", "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CurrentStreak != 1 {
		t.Fatalf("streak = %d, want 1", resp.CurrentStreak)
	}
}
