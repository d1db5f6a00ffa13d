package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"serotonyl.ru/brain-trainer/internal/app"
	"serotonyl.ru/brain-trainer/internal/calendar"
	"serotonyl.ru/brain-trainer/internal/features/admin"
	"serotonyl.ru/brain-trainer/internal/features/profiles"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции и выйти",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			storage, err := app.OpenStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			storage.Close()
			log.WithField("driver", cfg.DBDriver).Info("Миграции применены")
			return nil
		},
	}
}

func newExpireStreaksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire-streaks",
		Short: "Сбросить серии игроков, пропустивших вчерашний день",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			storage, err := app.OpenStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer storage.Close()

			n, err := profiles.NewService(storage.Profiles, calendar.SystemClock{}).ExpireStreaks(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Сброшено стриков: %d\n", n)
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <пароль>",
		Short: "Сгенерировать Argon2id-хеш для ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := admin.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Хеш пароля (вставьте в .env как ADMIN_PASSWORD_HASH):")
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
