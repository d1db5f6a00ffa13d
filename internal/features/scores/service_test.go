package scores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"serotonyl.ru/brain-trainer/internal/db/sqlite"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "scores.sqlite"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func seed(t *testing.T, repo *SQLiteRepository) {
	t.Helper()
	base := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	rows := []Score{
		{Name: "Ana", Score: 900, Mode: "focus-run", CreatedAt: base.Add(2 * time.Minute)},
		{Name: "Bo", Score: 1200, Mode: "focus-run", CreatedAt: base.Add(3 * time.Minute)},
		{Name: "Cy", Score: 900, Mode: "focus-run", CreatedAt: base.Add(1 * time.Minute)},
		{Name: "Di", Score: 5000, Mode: "recall-ladder", CreatedAt: base},
	}
	for i := range rows {
		if _, err := repo.AppendScore(context.Background(), &rows[i]); err != nil {
			t.Fatalf("append score: %v", err)
		}
	}
}

func TestTopScoresOrder(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)

	top, err := repo.TopScores(context.Background(), "focus-run", 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"Bo", "Cy", "Ana"}
	if len(top) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(top))
	}
	for i, name := range want {
		if top[i].Name != name {
			t.Fatalf("position %d: got %s, want %s", i, top[i].Name, name)
		}
	}
}

type memoryCache struct {
	data        map[string][]Score
	gens        map[string]int64
	gets, sets  int
	invalidated []string
	failGet     bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]Score{}, gens: map[string]int64{}}
}

func (c *memoryCache) key(mode string, limit int) string {
	return fmt.Sprintf("%s/%d", mode, limit)
}

func (c *memoryCache) GetTop(_ context.Context, mode string, limit int) ([]Score, int64, bool, error) {
	c.gets++
	if c.failGet {
		return nil, 0, false, errors.New("redis down")
	}
	list, ok := c.data[c.key(mode, limit)]
	return list, c.gens[mode], ok, nil
}

func (c *memoryCache) SetTop(_ context.Context, mode string, limit int, gen int64, list []Score) error {
	if c.gens[mode] != gen {
		return nil
	}
	c.sets++
	c.data[c.key(mode, limit)] = list
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, mode string) error {
	c.invalidated = append(c.invalidated, mode)
	c.gens[mode]++
	for k := range c.data {
		if strings.HasPrefix(k, mode+"/") {
			delete(c.data, k)
		}
	}
	return nil
}

// committingReader имитирует новый счёт, закоммиченный во время чтения:
// сначала отдаёт старый список, потом сбрасывает кеш, как это делает координатор.
type committingReader struct {
	Reader
	cache *memoryCache
}

func (r committingReader) TopScores(ctx context.Context, mode string, limit int) ([]Score, error) {
	list, err := r.Reader.TopScores(ctx, mode, limit)
	if err != nil {
		return nil, err
	}
	_ = r.cache.Invalidate(ctx, mode)
	return list, nil
}

func TestServiceSkipsStaleCacheWrite(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)
	cache := newMemoryCache()
	ctx := context.Background()

	stale := NewService(committingReader{Reader: repo, cache: cache}, cache)
	if _, err := stale.Top(ctx, "focus-run", 10); err != nil {
		t.Fatalf("top: %v", err)
	}
	if cache.sets != 0 || len(cache.data) != 0 {
		t.Fatalf("list read before invalidation must not be cached: sets=%d data=%v", cache.sets, cache.data)
	}

	if _, err := NewService(repo, cache).Top(ctx, "focus-run", 10); err != nil {
		t.Fatalf("top: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("fresh read must be cached, sets=%d", cache.sets)
	}
}

func TestServiceClampsAndCaches(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)
	cache := newMemoryCache()
	svc := NewService(repo, cache)
	ctx := context.Background()

	top, err := svc.Top(ctx, "focus-run", 0)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 1 || top[0].Name != "Bo" {
		t.Fatalf("limit 0 must clamp to 1: %+v", top)
	}
	if _, err := svc.Top(ctx, "focus-run", 0); err != nil {
		t.Fatalf("top: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("second read must be served from cache, sets=%d", cache.sets)
	}

	svc.Invalidate(ctx, "focus-run")
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "focus-run" {
		t.Fatalf("invalidated = %v", cache.invalidated)
	}
}

func TestServiceIgnoresCacheErrors(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)
	svc := NewService(repo, &memoryCache{data: map[string][]Score{}, gens: map[string]int64{}, failGet: true})

	top, err := svc.Top(context.Background(), "focus-run", 500)
	if err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(top))
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{{-5, 1}, {0, 1}, {1, 1}, {20, 20}, {100, 100}, {101, 100}}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Fatalf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHandleTop(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo)
	h := NewHandler(NewService(repo, nil), "focus-run", DefaultLimit)

	rec := httptest.NewRecorder()
	h.HandleTop(rec, httptest.NewRequest(http.MethodGet, "/api/scores?limit=abc", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp topResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Mode != "focus-run" || len(resp.Scores) != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Scores[0].CreatedAt != "2024-03-10T12:03:00.000Z" {
		t.Fatalf("created_at = %q", resp.Scores[0].CreatedAt)
	}

	rec = httptest.NewRecorder()
	h.HandleTop(rec, httptest.NewRequest(http.MethodGet, "/api/scores?limit=2.9", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Scores) != 2 {
		t.Fatalf("limit=2.9 must read 2 rows, got %d", len(resp.Scores))
	}

	rec = httptest.NewRecorder()
	h.HandleTop(rec, httptest.NewRequest(http.MethodGet, "/api/scores?mode=unknown", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Mode != "unknown" || resp.Scores == nil || len(resp.Scores) != 0 {
		t.Fatalf("unknown mode must yield an empty list: %+v", resp)
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 20},
		{"abc", 20},
		{"-", 20},
		{"7", 7},
		{"7.9", 7},
		{"5abc", 5},
		{" 12 ", 12},
		{"+3", 3},
		{"-3", -3},
		{"99999999999999999999999", MaxLimit},
		{"-99999999999999999999999", MinLimit},
	}
	for _, tt := range tests {
		if got := ParseLimit(tt.raw, 20); got != tt.want {
			t.Fatalf("ParseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
	if got := ClampLimit(ParseLimit("99999999999999999999999", 20)); got != MaxLimit {
		t.Fatalf("clamped overflow = %d, want %d", got, MaxLimit)
	}
}
