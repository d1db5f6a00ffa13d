// Package main — точка входа brainacc.
// Без подкоманды запускает сервер (serve). Остальные команды: migrate,
// expire-streaks, hash-password и submit (клиент с офлайн-режимом).
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"serotonyl.ru/brain-trainer/internal/config"
)

func main() {
	// Настраиваем логирование
	setupLogging()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "brainacc",
		Short:         "Brain Accelerator: сервер счётов, стриков и планов",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServeCmd,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newExpireStreaksCmd())
	rootCmd.AddCommand(newHashPasswordCmd())
	rootCmd.AddCommand(newSubmitCmd())

	return rootCmd
}

// setupLogging настраивает формат логов.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}

// loadConfig загружает конфигурацию и применяет настройки логов из неё.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.AppLogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	// Устанавливаем уровень логирования из конфига
	if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
		log.SetLevel(level)
	}
	return cfg, nil
}
