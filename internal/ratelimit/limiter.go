// Package ratelimit ограничивает количество событий на ключ (обычно IP клиента).
// Используется алгоритм скользящего окна.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter считает события по ключам в скользящем окне.
type Limiter struct {
	mu     sync.Mutex
	events map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New создаёт лимитер: не больше limit событий за window на ключ.
func New(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		events: make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Close останавливает фоновую горутину очистки.
// Его надо вызывать на shutdown (иначе cleanup будет жить вечно).
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Allow записывает событие и возвращает true, если лимит ещё не исчерпан.
// Отклонённое событие не записывается.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.recentLocked(key, now)
	if len(recent) >= l.limit {
		l.events[key] = recent
		return false
	}
	l.events[key] = append(recent, now)
	return true
}

// Blocked сообщает, исчерпан ли лимит, ничего не записывая.
func (l *Limiter) Blocked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.recentLocked(key, l.now())
	l.events[key] = recent
	return len(recent) >= l.limit
}

// Record записывает событие без проверки лимита.
// Так считаются неудачные попытки входа.
func (l *Limiter) Record(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.events[key] = append(l.recentLocked(key, now), now)
}

// recentLocked возвращает события ключа внутри окна. Вызывать под l.mu.
func (l *Limiter) recentLocked(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	var recent []time.Time
	for _, t := range l.events[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key := range l.events {
				recent := l.recentLocked(key, now)
				if len(recent) == 0 {
					delete(l.events, key)
				} else {
					l.events[key] = recent
				}
			}
			l.mu.Unlock()
		}
	}
}
