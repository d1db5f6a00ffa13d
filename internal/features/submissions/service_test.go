package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/db/sqlite"
	"serotonyl.ru/brain-trainer/internal/features/modes"
	"serotonyl.ru/brain-trainer/internal/features/profiles"
	"serotonyl.ru/brain-trainer/internal/features/scores"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "brain.sqlite"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestService(t *testing.T, start time.Time) (*Service, *testClock, *sql.DB) {
	t.Helper()
	db := openTestDB(t)
	clock := &testClock{t: start}
	return NewService(NewSQLiteStore(db), modes.Default(), clock, nil), clock, db
}

func req(name, mode, score string) Request {
	return Request{Name: name, Mode: mode, Score: json.RawMessage(score)}
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestSubmitStreakAcrossDays(t *testing.T) {
	svc, clock, db := newTestService(t, day(2024, time.March, 10, 12))
	ctx := context.Background()

	steps := []struct {
		at         time.Time
		score      string
		wantStreak int
		wantBest   int
	}{
		{day(2024, time.March, 10, 12), "1200", 1, 1},
		{day(2024, time.March, 11, 9), "900", 2, 2},
		{day(2024, time.March, 11, 18), "1500", 2, 2},
		{day(2024, time.March, 14, 8), "700", 1, 2},
		{day(2024, time.March, 15, 8), "0", 1, 2},
	}
	for i, step := range steps {
		clock.set(step.at)
		res, err := svc.Submit(ctx, req("Ana", "focus-run", step.score))
		if err != nil {
			t.Fatalf("step %d: submit: %v", i, err)
		}
		if res.Streak != step.wantStreak || res.BestStreak != step.wantBest {
			t.Fatalf("step %d: streak=%d best=%d, want %d/%d",
				i, res.Streak, res.BestStreak, step.wantStreak, step.wantBest)
		}
		if res.RunID == 0 {
			t.Fatalf("step %d: expected run id", i)
		}
	}

	p, err := profiles.NewSQLiteRepository(db).GetByName(ctx, "Ana")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.LastPracticeDate == nil || *p.LastPracticeDate != "2024-03-14" {
		t.Fatalf("last practice date = %v, want 2024-03-14", p.LastPracticeDate)
	}
	if p.LastRunAt == nil || !p.LastRunAt.Equal(day(2024, time.March, 15, 8)) {
		t.Fatalf("last run at = %v", p.LastRunAt)
	}

	top, err := scores.NewSQLiteRepository(db).TopScores(ctx, "focus-run", 10)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != len(steps) {
		t.Fatalf("expected %d scores, got %d", len(steps), len(top))
	}
	if top[0].Score != 1500 || top[len(top)-1].Score != 0 {
		t.Fatalf("unexpected order: first=%d last=%d", top[0].Score, top[len(top)-1].Score)
	}
}

func TestSubmitZeroScoreOnNewProfile(t *testing.T) {
	svc, _, db := newTestService(t, day(2024, time.March, 10, 12))
	ctx := context.Background()

	res, err := svc.Submit(ctx, req("Bo", "", "0"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Streak != 0 || res.BestStreak != 0 || res.Mode != modes.DefaultKey {
		t.Fatalf("unexpected result: %+v", res)
	}

	p, err := profiles.NewSQLiteRepository(db).GetByName(ctx, "Bo")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.LastPracticeDate != nil {
		t.Fatalf("zero score must not set practice date, got %s", *p.LastPracticeDate)
	}
}

func TestSubmitRejectsBeforeStorage(t *testing.T) {
	svc, _, db := newTestService(t, day(2024, time.March, 10, 12))
	ctx := context.Background()

	tests := []struct {
		name    string
		request Request
		wantErr error
	}{
		{"над потолком", req("Ana", "focus-run", "6000"), common.ErrScoreOutOfRange},
		{"дробный счёт", req("Ana", "focus-run", "12.5"), common.ErrInvalidPayload},
		{"отрицательный", req("Ana", "focus-run", "-1"), common.ErrInvalidPayload},
		{"строка не число", req("Ana", "focus-run", `"abc"`), common.ErrInvalidPayload},
		{"нет счёта", Request{Name: "Ana", Mode: "focus-run"}, common.ErrInvalidPayload},
		{"null", req("Ana", "focus-run", "null"), common.ErrInvalidPayload},
		{"пустое имя", req("!!!", "focus-run", "10"), common.ErrInvalidPayload},
		{"неизвестный режим", req("Ana", "speed-run", "10"), common.ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.request)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := profiles.NewSQLiteRepository(db).GetByName(ctx, "Ana"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("rejected submissions must not create a profile, got %v", err)
	}
	top, err := scores.NewSQLiteRepository(db).TopScores(ctx, "focus-run", 10)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("expected no scores, got %d", len(top))
	}
}

func TestSubmitAcceptsCeilingAndNumericString(t *testing.T) {
	svc, _, _ := newTestService(t, day(2024, time.March, 10, 12))
	ctx := context.Background()

	if _, err := svc.Submit(ctx, req("Ana", "focus-run", "5000")); err != nil {
		t.Fatalf("ceiling score must be accepted: %v", err)
	}
	res, err := svc.Submit(ctx, req("Ana", "deep-focus", `"14000"`))
	if err != nil {
		t.Fatalf("numeric string must be accepted: %v", err)
	}
	if res.Score != 14000 || res.Mode != "deep-focus" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSubmitSanitizesName(t *testing.T) {
	svc, _, db := newTestService(t, day(2024, time.March, 10, 12))
	ctx := context.Background()

	res, err := svc.Submit(ctx, req("  <script>Ana</script>  ", "focus-run", "100"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Name != "scriptAnascript" {
		t.Fatalf("name = %q", res.Name)
	}
	if _, err := profiles.NewSQLiteRepository(db).GetByName(ctx, "scriptAnascript"); err != nil {
		t.Fatalf("profile must be stored under sanitized name: %v", err)
	}
}

func TestConcurrentSubmissionsSameName(t *testing.T) {
	svc, _, db := newTestService(t, day(2024, time.March, 10, 12))
	ctx := context.Background()

	const n = 10
	submitConcurrently(t, svc, "Ana", "100", n)

	p, err := profiles.NewSQLiteRepository(db).GetByName(ctx, "Ana")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.StreakCount != 1 || p.BestStreak != 1 {
		t.Fatalf("streak=%d best=%d, want 1/1", p.StreakCount, p.BestStreak)
	}

	var runs int
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs WHERE profile_id = ?`, p.ID).Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if runs != n {
		t.Fatalf("expected %d runs, got %d", n, runs)
	}
}

// submitConcurrently отправляет n одинаковых счётов параллельно и падает на первой ошибке.
func submitConcurrently(t *testing.T, svc *Service, name, score string, n int) {
	t.Helper()
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Submit(context.Background(), req(name, "focus-run", score)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent submit: %v", err)
	}
}

func TestConcurrentSubmissionsNextDay(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteStore(db)
	ctx := context.Background()

	// Два координатора над одним хранилищем: вчера и сегодня
	yesterday := NewService(store, modes.Default(), &testClock{t: day(2024, time.March, 10, 23)}, nil)
	today := NewService(store, modes.Default(), &testClock{t: day(2024, time.March, 11, 0)}, nil)

	if _, err := yesterday.Submit(ctx, req("Ana", "focus-run", "100")); err != nil {
		t.Fatalf("first day: %v", err)
	}

	const n = 10
	submitConcurrently(t, today, "Ana", "200", n)

	p, err := profiles.NewSQLiteRepository(db).GetByName(ctx, "Ana")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.StreakCount != 2 || p.BestStreak != 2 {
		t.Fatalf("streak=%d best=%d, want 2/2", p.StreakCount, p.BestStreak)
	}
	if p.LastPracticeDate == nil || *p.LastPracticeDate != "2024-03-11" {
		t.Fatalf("last practice = %v, want 2024-03-11", p.LastPracticeDate)
	}

	var runs int
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs WHERE profile_id = ?`, p.ID).Scan(&runs); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if runs != n+1 {
		t.Fatalf("expected %d runs, got %d", n+1, runs)
	}
}

type failingLedger struct {
	Ledger
	failRun bool
}

func (l failingLedger) AppendRun(ctx context.Context, run *scores.Run) (int64, error) {
	if l.failRun {
		return 0, common.StorageError("запись забега", errors.New("disk full"))
	}
	return l.Ledger.AppendRun(ctx, run)
}

type failingStore struct {
	db *sql.DB
}

func (s failingStore) WithinTx(ctx context.Context, fn TxFunc) error {
	return NewSQLiteStore(s.db).WithinTx(ctx, func(ctx context.Context, ps ProfileStore, ledger Ledger) error {
		return fn(ctx, ps, failingLedger{Ledger: ledger, failRun: true})
	})
}

func TestSubmitRollsBackOnWriteFailure(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := NewService(failingStore{db: db}, modes.Default(), &testClock{t: day(2024, time.March, 10, 12)}, nil)

	_, err := svc.Submit(ctx, req("Ana", "focus-run", "100"))
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageWrite {
		t.Fatalf("expected write stage error, got %v", err)
	}
	if !errors.Is(err, common.ErrStorage) {
		t.Fatalf("expected ErrStorage in chain, got %v", err)
	}

	if _, err := profiles.NewSQLiteRepository(db).GetByName(ctx, "Ana"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("failed submission must leave no profile, got %v", err)
	}
	top, err := scores.NewSQLiteRepository(db).TopScores(ctx, "focus-run", 10)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("failed submission must leave no scores, got %d", len(top))
	}
}

type recordingInvalidator struct {
	modes []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, mode string) {
	r.modes = append(r.modes, mode)
}

func TestSubmitInvalidatesCacheAfterCommit(t *testing.T) {
	db := openTestDB(t)
	inv := &recordingInvalidator{}
	svc := NewService(NewSQLiteStore(db), modes.Default(), &testClock{t: day(2024, time.March, 10, 12)}, inv)

	if _, err := svc.Submit(context.Background(), req("Ana", "recall-ladder", "10")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(context.Background(), req("Ana", "recall-ladder", "9000")); err == nil {
		t.Fatalf("expected out of range error")
	}
	if len(inv.modes) != 1 || inv.modes[0] != "recall-ladder" {
		t.Fatalf("invalidated = %v", inv.modes)
	}
}

func TestOfflineServiceMarksResult(t *testing.T) {
	db := openTestDB(t)
	svc := NewOfflineService(NewSQLiteStore(db), modes.Default(), &testClock{t: day(2024, time.March, 10, 12)})

	res, err := svc.Submit(context.Background(), req("Ana", "focus-run", "10"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Offline || !res.Response().Offline {
		t.Fatalf("expected offline result: %+v", res)
	}
}
