// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: открывает хранилище, создаёт кеш, сервисы,
// обработчики, планировщик и собирает всё в один объект App.
package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/cache"
	"serotonyl.ru/brain-trainer/internal/calendar"
	"serotonyl.ru/brain-trainer/internal/config"
	"serotonyl.ru/brain-trainer/internal/features/admin"
	"serotonyl.ru/brain-trainer/internal/features/digest"
	"serotonyl.ru/brain-trainer/internal/features/modes"
	"serotonyl.ru/brain-trainer/internal/features/plan"
	"serotonyl.ru/brain-trainer/internal/features/profiles"
	"serotonyl.ru/brain-trainer/internal/features/scores"
	"serotonyl.ru/brain-trainer/internal/features/submissions"
	"serotonyl.ru/brain-trainer/internal/httpapi"
	"serotonyl.ru/brain-trainer/internal/jobs"
	"serotonyl.ru/brain-trainer/internal/ratelimit"
)

// App содержит все компоненты приложения.
type App struct {
	Server    *httpapi.Server
	Scheduler *jobs.Scheduler
	Storage   *Storage

	closers []func()
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	// === 1. Режимы ===
	catalog, err := modes.Load(cfg.ModesFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки режимов: %w", err)
	}
	log.WithField("modes", catalog.Keys()).Info("Режимы загружены")

	// === 2. Хранилище ===
	storage, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Storage = storage
	a.closers = append(a.closers, storage.Close)

	// === 3. Кеш (необязателен) ===
	var topCache scores.Cache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
		if err != nil {
			return nil, err
		}
		topCache = rc
		a.closers = append(a.closers, func() { _ = rc.Close() })
		log.WithField("addr", cfg.RedisAddr).Info("Кеш таблицы лидеров: Redis")
	}

	// === 4. Сервисы ===
	clock := calendar.SystemClock{}
	scoreService := scores.NewService(storage.Scores, topCache)
	profileService := profiles.NewService(storage.Profiles, clock)
	submitService := submissions.NewService(storage.Submissions, catalog, clock, scoreService)
	planService := plan.NewService(profileService, catalog, clock)

	// === 5. Обработчики ===
	handlers := httpapi.Handlers{
		Submissions: submissions.NewHandler(submitService),
		Scores:      scores.NewHandler(scoreService, modes.DefaultKey, cfg.ScoresDefaultLimit),
		Profiles:    profiles.NewHandler(profileService),
		Plan:        plan.NewHandler(planService),
		Modes:       modes.NewHandler(catalog),
	}
	if cfg.AdminEnabled() {
		adminService := admin.NewService(storage.Stats, profileService, cfg.AdminPasswordHash)
		a.closers = append(a.closers, adminService.Close)
		handlers.Admin = admin.NewHandler(adminService)
	}

	limiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
	a.closers = append(a.closers, limiter.Close)

	router := httpapi.NewRouter(handlers, httpapi.Options{
		StaticDir:      cfg.StaticDir,
		RequestTimeout: cfg.HTTPRequestTimeout,
		SubmitLimiter:  limiter,
		Ping:           storage.Ping,
	})
	a.Server = httpapi.NewServer(cfg.HTTPAddr, router, cfg.HTTPReadTimeout, cfg.HTTPWriteTimeout)

	// === 6. Фоновые задачи ===
	a.Scheduler = jobs.NewScheduler()
	if cfg.FeatureStreakExpiry {
		if err := a.Scheduler.AddStreakExpiry(ctx, cfg.StreakExpiryCron, profileService); err != nil {
			return nil, err
		}
	}
	if cfg.DigestEnabled() {
		sender, err := digest.NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		digestService := digest.NewService(scoreService, catalog, sender, clock, cfg.DigestTopN)
		if err := a.Scheduler.AddDigest(ctx, cfg.DigestCron, digestService); err != nil {
			return nil, err
		}
	}

	ok = true
	return a, nil
}

// Run запускает планировщик и HTTP-сервер и ждёт отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.Scheduler.Start()
	defer a.Scheduler.Stop()
	return a.Server.Run(ctx)
}

// Close освобождает ресурсы в обратном порядке.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
