// Package postgres — вспомогательные функции для работы с БД.
// queries.go содержит общий интерфейс запросов и конвертеры дат.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"serotonyl.ru/brain-trainer/internal/calendar"
)

// DBTX — то, что умеют и *pgxpool.Pool, и pgx.Tx.
// Репозитории принимают DBTX, поэтому одинаково работают и вне транзакции,
// и внутри неё.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DayToDate переводит ключ дня в значение для колонки DATE.
// nil или некорректный ключ дают NULL.
func DayToDate(key *string) *time.Time {
	if key == nil {
		return nil
	}
	t, err := calendar.ParseDayKey(*key)
	if err != nil {
		return nil
	}
	return &t
}

// DateToDay переводит значение колонки DATE в ключ дня.
func DateToDay(d *time.Time) *string {
	if d == nil {
		return nil
	}
	key := d.Format(calendar.DayLayout)
	return &key
}
