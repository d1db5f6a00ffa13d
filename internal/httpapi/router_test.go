package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"serotonyl.ru/brain-trainer/internal/calendar"
	"serotonyl.ru/brain-trainer/internal/db/sqlite"
	"serotonyl.ru/brain-trainer/internal/features/modes"
	"serotonyl.ru/brain-trainer/internal/features/plan"
	"serotonyl.ru/brain-trainer/internal/features/profiles"
	"serotonyl.ru/brain-trainer/internal/features/scores"
	"serotonyl.ru/brain-trainer/internal/features/submissions"
	"serotonyl.ru/brain-trainer/internal/ratelimit"
)

func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "api.sqlite"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	clock := calendar.FixedClock{T: time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)}
	catalog := modes.Default()
	profileRepo := profiles.NewSQLiteRepository(db)
	profileService := profiles.NewService(profileRepo, clock)
	scoreService := scores.NewService(scores.NewSQLiteRepository(db), nil)

	h := Handlers{
		Submissions: submissions.NewHandler(submissions.NewService(submissions.NewSQLiteStore(db), catalog, clock, scoreService)),
		Scores:      scores.NewHandler(scoreService, modes.DefaultKey, scores.DefaultLimit),
		Profiles:    profiles.NewHandler(profileService),
		Plan:        plan.NewHandler(plan.NewService(profileService, catalog, clock)),
		Modes:       modes.NewHandler(catalog),
	}
	if opts.Ping == nil {
		opts.Ping = db.PingContext
	}
	return NewRouter(h, opts)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestSubmitThenRead(t *testing.T) {
	h := newTestRouter(t, Options{RequestTimeout: time.Second})

	rec := do(t, h, http.MethodPost, "/api/scores", `{"name":"Ana","mode":"focus-run","score":1200}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: status = %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("request id header missing")
	}

	rec = do(t, h, http.MethodGet, "/api/scores?mode=focus-run&limit=5", "")
	var top struct {
		Mode   string `json:"mode"`
		Scores []struct {
			Name  string `json:"name"`
			Score int64  `json:"score"`
		} `json:"scores"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &top); err != nil {
		t.Fatalf("decode scores: %v", err)
	}
	if len(top.Scores) != 1 || top.Scores[0].Name != "Ana" || top.Scores[0].Score != 1200 {
		t.Fatalf("unexpected scores: %+v", top)
	}

	rec = do(t, h, http.MethodGet, "/api/profile?name=Ana", "")
	if !strings.Contains(rec.Body.String(), `"streak_count":1`) {
		t.Fatalf("unexpected profile: %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/plan?name=Ana", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"today":"2024-03-10"`) {
		t.Fatalf("unexpected plan: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/modes", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"key":"deep-focus"`) {
		t.Fatalf("unexpected modes: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, Options{})
	rec := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}

	h = newTestRouter(t, Options{Ping: func(context.Context) error { return errors.New("down") }})
	rec = do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("health when storage is down: %d", rec.Code)
	}
}

func TestSubmitRateLimited(t *testing.T) {
	limiter := ratelimit.New(2, time.Minute)
	t.Cleanup(limiter.Close)
	h := newTestRouter(t, Options{SubmitLimiter: limiter})

	for i := 0; i < 2; i++ {
		if rec := do(t, h, http.MethodPost, "/api/scores", `{"name":"Ana","score":1}`); rec.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec := do(t, h, http.MethodPost, "/api/scores", `{"name":"Ana","score":1}`)
	if rec.Code != http.StatusTooManyRequests || !strings.Contains(rec.Body.String(), "rate_limited") {
		t.Fatalf("expected 429, got %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, h, http.MethodGet, "/api/scores", ""); rec.Code != http.StatusOK {
		t.Fatalf("reads must not be limited, got %d", rec.Code)
	}
}

func TestStaticAndAdminDisabled(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>brain</h1>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	h := newTestRouter(t, Options{StaticDir: dir})

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "brain") {
		t.Fatalf("static: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/admin/stats", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("admin must be off without password hash, got %d", rec.Code)
	}
}

func TestRecoverPanics(t *testing.T) {
	h := recoverPanics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
