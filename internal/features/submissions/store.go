package submissions

import (
	"context"
	"time"

	"serotonyl.ru/brain-trainer/internal/features/profiles"
	"serotonyl.ru/brain-trainer/internal/features/scores"
)

// ProfileStore — операции с профилем внутри транзакции отправки.
type ProfileStore interface {
	Ensure(ctx context.Context, name string, now time.Time) (int64, error)
	GetForUpdate(ctx context.Context, name string) (*profiles.Profile, error)
	Update(ctx context.Context, p *profiles.Profile) error
}

// Ledger — запись в журнал внутри транзакции отправки.
type Ledger interface {
	AppendScore(ctx context.Context, s *scores.Score) (int64, error)
	AppendRun(ctx context.Context, run *scores.Run) (int64, error)
}

// TxFunc — работа, которая выполняется в одной транзакции.
type TxFunc func(ctx context.Context, profiles ProfileStore, ledger Ledger) error

// Store открывает транзакцию, отдаёт в fn репозитории поверх неё и коммитит,
// если fn вернула nil. Любая ошибка откатывает все записи.
type Store interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
