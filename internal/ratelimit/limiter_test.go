package ratelimit

import (
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *time.Time) {
	t.Helper()
	l := New(limit, window)
	t.Cleanup(l.Close)
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllowSlidingWindow(t *testing.T) {
	l, now := newTestLimiter(t, 2, time.Minute)

	if !l.Allow("1.2.3.4") || !l.Allow("1.2.3.4") {
		t.Fatalf("first two requests must pass")
	}
	if l.Allow("1.2.3.4") {
		t.Fatalf("third request must be limited")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatalf("other keys are independent")
	}

	*now = now.Add(61 * time.Second)
	if !l.Allow("1.2.3.4") {
		t.Fatalf("window passed, request must pass")
	}
}

func TestBlockedAndRecord(t *testing.T) {
	l, now := newTestLimiter(t, 3, time.Hour)

	for i := 0; i < 3; i++ {
		if l.Blocked("ip") {
			t.Fatalf("blocked after %d failures", i)
		}
		l.Record("ip")
	}
	if !l.Blocked("ip") {
		t.Fatalf("must be blocked after 3 failures")
	}

	*now = now.Add(time.Hour + time.Second)
	if l.Blocked("ip") {
		t.Fatalf("block must expire after the window")
	}
}
