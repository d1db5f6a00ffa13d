// Package digest — service.go собирает топы по режимам и отправляет сводку.
package digest

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/calendar"
	"serotonyl.ru/brain-trainer/internal/features/modes"
	"serotonyl.ru/brain-trainer/internal/features/scores"
)

// TopReader отдаёт лучшие счета режима (scores.Service).
type TopReader interface {
	Top(ctx context.Context, mode string, limit int) ([]scores.Score, error)
}

// Sender отправляет текст в чат.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Service публикует сводку таблицы лидеров.
type Service struct {
	scores  TopReader
	catalog *modes.Catalog
	sender  Sender
	clock   calendar.Clock
	topN    int // Сколько мест показывать на режим
}

// NewService создаёт сервис сводки.
func NewService(scores TopReader, catalog *modes.Catalog, sender Sender, clock calendar.Clock, topN int) *Service {
	return &Service{scores: scores, catalog: catalog, sender: sender, clock: clock, topN: topN}
}

// Publish читает топы всех режимов и отправляет одно сообщение.
func (s *Service) Publish(ctx context.Context) error {
	tops := make(map[string][]scores.Score)
	for _, key := range s.catalog.Keys() {
		list, err := s.scores.Top(ctx, key, s.topN)
		if err != nil {
			return fmt.Errorf("чтение топа режима %s: %w", key, err)
		}
		tops[key] = list
	}

	text := Render(s.catalog, calendar.DayKey(s.clock.Now()), tops)
	if err := s.sender.Send(ctx, text); err != nil {
		return fmt.Errorf("отправка сводки: %w", err)
	}

	log.WithField("modes", len(tops)).Info("Сводка таблицы лидеров отправлена")
	return nil
}
