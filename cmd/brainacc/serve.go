package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"serotonyl.ru/brain-trainer/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP-сервер и фоновые задачи",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
}

// runServeCmd поднимает приложение и работает до SIGINT/SIGTERM.
func runServeCmd(_ *cobra.Command, _ []string) error {
	log.Info("=== Сервер запускается ===")

	cfg, err := loadConfig()
	if err != nil {
		log.WithError(err).Error("Не удалось загрузить конфигурацию")
		return err
	}

	// Контекст отменяется по Ctrl+C или docker stop
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("Не удалось инициализировать приложение")
		return err
	}
	defer application.Close()

	log.WithFields(log.Fields{
		"addr":   cfg.HTTPAddr,
		"driver": cfg.DBDriver,
		"env":    cfg.AppEnv,
	}).Info("=== Сервер готов к работе ===")

	if err := application.Run(ctx); err != nil {
		return err
	}

	log.Info("=== Сервер остановлен ===")
	return nil
}
