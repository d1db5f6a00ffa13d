// Package calendar переводит моменты времени в ключи календарного дня.
// Все ключи считаются в UTC: день игрока — это день по UTC, без учёта
// его локального часового пояса.
package calendar

import (
	"fmt"
	"math"
	"time"
)

// DayLayout — формат ключа календарного дня (2006-01-02).
const DayLayout = "2006-01-02"

// Clock — источник текущего времени. В тестах подменяется на FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock возвращает реальное время.
type SystemClock struct{}

// Now возвращает текущее время в UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock всегда возвращает одно и то же время.
type FixedClock struct {
	T time.Time
}

// Now возвращает зафиксированное время.
func (c FixedClock) Now() time.Time {
	return c.T
}

// DayKey возвращает ключ дня для момента t.
//
// Пример:
//
//	DayKey(time.Date(2026, 2, 10, 23, 59, 0, 0, time.UTC)) → "2026-02-10"
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// ParseDayKey разбирает ключ дня в полночь UTC.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректный ключ дня %q: %w", key, err)
	}
	return t, nil
}

// DaysBetween возвращает разницу в целых днях между from и to (to - from).
// Оба ключа привязываются к полуночи UTC, поэтому переход на летнее время
// на результат не влияет. Результат может быть отрицательным.
func DaysBetween(from, to string) (int, error) {
	fromDay, err := ParseDayKey(from)
	if err != nil {
		return 0, err
	}
	toDay, err := ParseDayKey(to)
	if err != nil {
		return 0, err
	}
	return int(math.Round(toDay.Sub(fromDay).Hours() / 24)), nil
}

// Yesterday возвращает ключ дня, предшествующего дню t.
func Yesterday(t time.Time) string {
	return DayKey(t.UTC().AddDate(0, 0, -1))
}

// FormatTimestamp форматирует время так же, как клиент: UTC с миллисекундами.
// Пример: 2026-02-10T08:15:30.123Z
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
