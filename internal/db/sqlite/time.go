package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"serotonyl.ru/brain-trainer/internal/calendar"
)

// Время хранится текстом фиксированной ширины (2006-01-02T15:04:05.000Z),
// поэтому сортировка строк совпадает с сортировкой по времени.

// FormatTime переводит время в текст для колонки.
func FormatTime(t time.Time) string {
	return calendar.FormatTimestamp(t)
}

// FormatNullTime переводит необязательное время в значение колонки.
func FormatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

// ParseTime разбирает время из колонки.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректное время %q: %w", s, err)
	}
	return t.UTC(), nil
}

// ParseNullTime разбирает необязательное время из колонки.
func ParseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// NullDay переводит необязательный ключ дня в значение колонки.
func NullDay(key *string) any {
	if key == nil {
		return nil
	}
	return *key
}

// ScanDay переводит колонку с ключом дня в *string.
func ScanDay(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	key := s.String
	return &key
}
