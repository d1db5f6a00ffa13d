// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежедневный сброс просроченных стриков
// и сводку таблицы лидеров в Telegram. Все расписания — по UTC,
// как и ключи дней.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// StreakExpirer сбрасывает просроченные стрики (profiles.Service).
type StreakExpirer interface {
	ExpireStreaks(ctx context.Context) (int64, error)
}

// DigestPublisher публикует сводку (digest.Service).
type DigestPublisher interface {
	Publish(ctx context.Context) error
}

// jobTimeout — сколько может идти одна задача.
const jobTimeout = time.Minute

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron *cron.Cron
	jobs int
}

// NewScheduler создаёт планировщик задач с часовым поясом UTC.
func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithLocation(time.UTC))}
}

// AddStreakExpiry добавляет ежедневный сброс просроченных стриков.
func (s *Scheduler) AddStreakExpiry(ctx context.Context, spec string, expirer StreakExpirer) error {
	return s.add(ctx, spec, "сброс стриков", func(ctx context.Context) error {
		_, err := expirer.ExpireStreaks(ctx)
		return err
	})
}

// AddDigest добавляет публикацию сводки таблицы лидеров.
func (s *Scheduler) AddDigest(ctx context.Context, spec string, publisher DigestPublisher) error {
	return s.add(ctx, spec, "сводка", publisher.Publish)
}

// add регистрирует задачу: каждая запускается со своим таймаутом,
// ошибки только логируются.
func (s *Scheduler) add(ctx context.Context, spec, name string, run func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		log.Infof("[CRON] %s", name)
		jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()
		if err := run(jobCtx); err != nil {
			log.WithError(err).Errorf("[CRON] Ошибка: %s", name)
		}
	})
	if err != nil {
		return fmt.Errorf("некорректное расписание %q для задачи %q: %w", spec, name, err)
	}
	s.jobs++
	return nil
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.WithField("jobs", s.jobs).Info("Планировщик задач запущен (UTC)")
}

// Stop останавливает планировщик и ждёт завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
