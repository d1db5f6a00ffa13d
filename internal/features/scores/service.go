// Package scores — service.go отдаёт таблицу лидеров с необязательным кешем.
package scores

import (
	"context"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/common"
)

// Reader читает таблицу лидеров из хранилища.
type Reader interface {
	TopScores(ctx context.Context, mode string, limit int) ([]Score, error)
}

// Cache — кеш таблицы лидеров. Ошибки кеша не ломают чтение:
// они пишутся в лог, и запрос идёт в базу.
//
// У каждого режима есть поколение, Invalidate его увеличивает.
// GetTop возвращает текущее поколение и при промахе, а SetTop пишет список,
// только если поколение с тех пор не сменилось: список, прочитанный из базы
// до нового счёта, не попадёт в кеш после его сброса.
type Cache interface {
	GetTop(ctx context.Context, mode string, limit int) (list []Score, gen int64, ok bool, err error)
	SetTop(ctx context.Context, mode string, limit int, gen int64, list []Score) error
	Invalidate(ctx context.Context, mode string) error
}

// Service отдаёт таблицу лидеров.
type Service struct {
	repo  Reader // Хранилище счётов
	cache Cache  // Кеш (nil — без кеша)
}

// NewService создаёт сервис таблицы лидеров. cache может быть nil.
func NewService(repo Reader, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// ClampLimit приводит лимит к диапазону [MinLimit, MaxLimit].
func ClampLimit(limit int) int {
	return common.Clamp(limit, MinLimit, MaxLimit)
}

// Top возвращает до limit лучших счётов режима.
// Лимит приводится к [1, 100] до обращения к хранилищу.
func (s *Service) Top(ctx context.Context, mode string, limit int) ([]Score, error) {
	limit = ClampLimit(limit)

	// Поколение читается до запроса в базу
	var gen int64
	cacheable := false
	if s.cache != nil {
		list, g, ok, err := s.cache.GetTop(ctx, mode, limit)
		if err != nil {
			log.WithError(err).WithField("mode", mode).Warn("Кеш таблицы лидеров недоступен")
		} else if ok {
			return list, nil
		} else {
			gen, cacheable = g, true
		}
	}

	list, err := s.repo.TopScores(ctx, mode, limit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetTop(ctx, mode, limit, gen, list); err != nil {
			log.WithError(err).WithField("mode", mode).Warn("Не удалось сохранить таблицу лидеров в кеш")
		}
	}
	return list, nil
}

// Invalidate сбрасывает кеш режима после нового счёта.
func (s *Service) Invalidate(ctx context.Context, mode string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, mode); err != nil {
		log.WithError(err).WithField("mode", mode).Warn("Не удалось сбросить кеш таблицы лидеров")
	}
}
