package submissions

import (
	"context"
	"database/sql"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/features/profiles"
	"serotonyl.ru/brain-trainer/internal/features/scores"
)

// SQLiteStore выполняет отправку в транзакции SQLite.
// База открыта с одним соединением (sqlite.Open), поэтому транзакции
// отправок выполняются строго по одной.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore создаёт хранилище отправок поверх SQLite.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// WithinTx выполняет fn в транзакции.
func (s *SQLiteStore) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StageError{Stage: StageProfile, Err: common.StorageError("начало транзакции", err)}
	}
	defer tx.Rollback()

	if err := fn(ctx, profiles.NewSQLiteRepository(tx), scores.NewSQLiteRepository(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &StageError{Stage: StageWrite, Err: common.StorageError("коммит отправки", err)}
	}
	return nil
}
