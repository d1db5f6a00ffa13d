// Package profiles — service.go отдаёт профили на чтение и сбрасывает просроченные серии.
package profiles

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/calendar"
	"serotonyl.ru/brain-trainer/internal/common"
)

// Reader читает профиль по имени. Реализуют Repository и SQLiteRepository.
type Reader interface {
	GetByName(ctx context.Context, name string) (*Profile, error)
}

// Expirer сбрасывает серии, прерванные пропуском дня.
type Expirer interface {
	ExpireStreaks(ctx context.Context, before string) (int64, error)
}

// Store — всё, что сервису нужно от хранилища профилей.
type Store interface {
	Reader
	Expirer
}

// Service управляет профилями на чтение.
type Service struct {
	repo  Store          // Репозиторий профилей
	clock calendar.Clock // Источник текущего времени
}

// NewService создаёт новый сервис профилей.
func NewService(repo Store, clock calendar.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// Get возвращает профиль по уже очищенному имени.
// Отсутствие профиля — не ошибка: возвращается (nil, nil).
func (s *Service) Get(ctx context.Context, name string) (*Profile, error) {
	p, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ExpireStreaks обнуляет серии игроков, пропустивших вчерашний день.
// Вызывается кроном после полуночи по UTC и командой expire-streaks.
// Результат отправки счёта от этого не меняется: после пропуска дня
// движок и так начинает серию с 1.
func (s *Service) ExpireStreaks(ctx context.Context) (int64, error) {
	yesterday := calendar.Yesterday(s.clock.Now())
	n, err := s.repo.ExpireStreaks(ctx, yesterday)
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"before":  yesterday,
		"expired": n,
	}).Info("Просроченные стрики сброшены")
	return n, nil
}
