// Package plan — service.go строит план только по чтению профиля.
package plan

import (
	"context"

	"serotonyl.ru/brain-trainer/internal/calendar"
	"serotonyl.ru/brain-trainer/internal/features/modes"
	"serotonyl.ru/brain-trainer/internal/features/profiles"
)

// ProfileReader возвращает профиль или (nil, nil), если его нет.
type ProfileReader interface {
	Get(ctx context.Context, name string) (*profiles.Profile, error)
}

// Service строит планы.
type Service struct {
	profiles ProfileReader
	catalog  *modes.Catalog
	clock    calendar.Clock
}

// NewService создаёт генератор планов.
func NewService(profiles ProfileReader, catalog *modes.Catalog, clock calendar.Clock) *Service {
	return &Service{profiles: profiles, catalog: catalog, clock: clock}
}

// Generate возвращает план для уже очищенного имени.
// Несуществующий профиль — серия 0 и без даты последней тренировки.
func (s *Service) Generate(ctx context.Context, name string) (*Plan, error) {
	p, err := s.profiles.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	var (
		streakCount  int
		lastPractice *string
	)
	if p != nil {
		streakCount = p.StreakCount
		lastPractice = p.LastPracticeDate
	}

	result := Build(s.catalog, streakCount, calendar.DayKey(s.clock.Now()))
	result.Name = name
	result.LastPracticeDate = lastPractice
	return &result, nil
}

// Build собирает план по длине серии. Чистая функция.
func Build(catalog *modes.Catalog, streakCount int, today string) Plan {
	list := append([]template(nil), baseline...)
	if streakCount >= DeepFocusStreak {
		list = append(list, endurance)
	}

	tasks := make([]Task, 0, len(list))
	for _, tpl := range list {
		task := Task{
			Mode:   tpl.mode,
			Label:  catalog.Label(tpl.mode),
			Goal:   defaultGoal,
			Reason: tpl.reason,
		}
		if m, ok := catalog.Get(tpl.mode); ok {
			task.DurationSec = m.DurationSec
		}
		tasks = append(tasks, task)
	}

	return Plan{StreakCount: streakCount, Today: today, Tasks: tasks}
}
