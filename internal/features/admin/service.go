// Package admin — service.go проверяет пароль и выполняет админ-действия.
package admin

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/ratelimit"
)

// StatsReader отдаёт статистику базы.
type StatsReader interface {
	Stats(ctx context.Context) (*Stats, error)
}

// StreakExpirer сбрасывает просроченные стрики (profiles.Service).
type StreakExpirer interface {
	ExpireStreaks(ctx context.Context) (int64, error)
}

// Service управляет админ-действиями.
type Service struct {
	stats        StatsReader
	expirer      StreakExpirer
	passwordHash string             // ADMIN_PASSWORD_HASH
	failures     *ratelimit.Limiter // Неудачные попытки по IP
}

// NewService создаёт сервис. Неудачные попытки считаются за последний час.
func NewService(stats StatsReader, expirer StreakExpirer, passwordHash string) *Service {
	return &Service{
		stats:        stats,
		expirer:      expirer,
		passwordHash: passwordHash,
		failures:     ratelimit.New(MaxFailedAttempts, time.Hour),
	}
}

// Close останавливает очистку счётчика попыток.
func (s *Service) Close() {
	s.failures.Close()
}

// Authenticate проверяет пароль администратора.
// 3 неудачные попытки с одного адреса = блокировка на 1 час.
func (s *Service) Authenticate(clientIP, password string) error {
	if s.failures.Blocked(clientIP) {
		return fmt.Errorf("ip %s: %w", clientIP, common.ErrRateLimited)
	}

	if password == "" || !VerifyPassword(password, s.passwordHash) {
		s.failures.Record(clientIP)
		log.WithField("ip", clientIP).Warn("Неверный пароль администратора")
		return common.ErrUnauthorized
	}
	return nil
}

// Stats возвращает статистику базы.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.stats.Stats(ctx)
}

// ExpireStreaks сбрасывает просроченные стрики вручную.
func (s *Service) ExpireStreaks(ctx context.Context) (int64, error) {
	return s.expirer.ExpireStreaks(ctx)
}
