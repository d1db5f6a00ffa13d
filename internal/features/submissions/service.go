// Package submissions — service.go содержит координатор отправки счёта.
package submissions

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/calendar"
	"serotonyl.ru/brain-trainer/internal/features/modes"
	"serotonyl.ru/brain-trainer/internal/features/profiles"
	"serotonyl.ru/brain-trainer/internal/features/scores"
	"serotonyl.ru/brain-trainer/internal/features/streak"
)

// Invalidator сбрасывает кеш таблицы лидеров режима.
type Invalidator interface {
	Invalidate(ctx context.Context, mode string)
}

// Service принимает результаты забегов.
type Service struct {
	store       Store          // Транзакционное хранилище
	catalog     *modes.Catalog // Режимы и их потолки
	clock       calendar.Clock // Источник текущего времени
	invalidator Invalidator    // Кеш таблицы лидеров (может быть nil)
	offline     bool           // Помечать результаты как офлайн
}

// NewService создаёт координатор отправок. invalidator может быть nil.
func NewService(store Store, catalog *modes.Catalog, clock calendar.Clock, invalidator Invalidator) *Service {
	return &Service{
		store:       store,
		catalog:     catalog,
		clock:       clock,
		invalidator: invalidator,
	}
}

// NewOfflineService — тот же координатор для локальной базы клиента.
// Результаты помечаются Offline = true.
func NewOfflineService(store Store, catalog *modes.Catalog, clock calendar.Clock) *Service {
	s := NewService(store, catalog, clock, nil)
	s.offline = true
	return s
}

// Submit проверяет запрос и в одной транзакции:
//  1. создаёт профиль, если его нет
//  2. блокирует и читает профиль
//  3. считает новый стрик
//  4. обновляет профиль
//  5. пишет счёт в таблицу лидеров и забег в историю
//
// Ошибки проверки — common.ErrInvalidPayload или common.ErrScoreOutOfRange,
// до хранилища они не доходят. Ошибки хранилища — *StageError.
func (s *Service) Submit(ctx context.Context, req Request) (*Result, error) {
	sub, err := validate(req, s.catalog)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC().Truncate(time.Millisecond)
	today := calendar.DayKey(now)
	result := &Result{
		Name:      sub.name,
		Score:     sub.score,
		Mode:      sub.mode.Key,
		CreatedAt: now,
		Offline:   s.offline,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, ps ProfileStore, ledger Ledger) error {
		profileID, err := ps.Ensure(ctx, sub.name, now)
		if err != nil {
			return &StageError{Stage: StageProfile, Err: err}
		}

		p, err := ps.GetForUpdate(ctx, sub.name)
		if err != nil {
			return &StageError{Stage: StageProfile, Err: err}
		}

		next := streak.Compute(p.StreakState(), today, sub.score)
		applyRun(p, next, now)
		if err := ps.Update(ctx, p); err != nil {
			return &StageError{Stage: StageWrite, Err: err}
		}

		if _, err := ledger.AppendScore(ctx, &scores.Score{
			Name:      sub.name,
			Score:     sub.score,
			Mode:      sub.mode.Key,
			CreatedAt: now,
		}); err != nil {
			return &StageError{Stage: StageWrite, Err: err}
		}

		runID, err := ledger.AppendRun(ctx, &scores.Run{
			ProfileID:   profileID,
			Score:       sub.score,
			Mode:        sub.mode.Key,
			DurationSec: sub.mode.DurationSec,
			CreatedAt:   now,
		})
		if err != nil {
			return &StageError{Stage: StageWrite, Err: err}
		}

		result.RunID = runID
		result.Streak = next.StreakCount
		result.BestStreak = next.BestStreak
		return nil
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"name": sub.name,
			"mode": sub.mode.Key,
		}).Error("Отправка счёта не сохранена")
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, sub.mode.Key)
	}

	log.WithFields(log.Fields{
		"name":    result.Name,
		"mode":    result.Mode,
		"score":   result.Score,
		"streak":  result.Streak,
		"offline": result.Offline,
	}).Info("Счёт принят")
	return result, nil
}

// applyRun переносит в профиль новый стрик и время забега.
func applyRun(p *profiles.Profile, next streak.State, now time.Time) {
	p.ApplyStreak(next)
	p.LastRunAt = &now
}
