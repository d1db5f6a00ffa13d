package submissions

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/features/profiles"
	"serotonyl.ru/brain-trainer/internal/features/scores"
)

// PostgresStore выполняет отправку в транзакции PostgreSQL.
// Строка профиля блокируется через SELECT ... FOR UPDATE, поэтому отправки
// для одного имени идут по очереди, а для разных — параллельно.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore создаёт хранилище отправок поверх пула.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// WithinTx выполняет fn в транзакции.
func (s *PostgresStore) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &StageError{Stage: StageProfile, Err: common.StorageError("начало транзакции", err)}
	}
	// Откатываем транзакцию, если что-то пошло не так
	defer tx.Rollback(ctx)

	if err := fn(ctx, profiles.NewRepository(tx), scores.NewRepository(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return &StageError{Stage: StageWrite, Err: common.StorageError("коммит отправки", err)}
	}
	return nil
}
