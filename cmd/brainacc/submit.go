package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"serotonyl.ru/brain-trainer/internal/app"
	"serotonyl.ru/brain-trainer/internal/calendar"
	"serotonyl.ru/brain-trainer/internal/client"
	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/features/modes"
	"serotonyl.ru/brain-trainer/internal/features/submissions"
)

const (
	defaultServerURL = "http://localhost:3000"
	defaultOfflineDB = "data/offline.sqlite"
)

var (
	submitName      string
	submitMode      string
	submitScore     string
	submitServer    string
	submitOfflineDB string
	submitModesFile string
)

func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Отправить результат забега (при недоступном сервере — в локальную базу)",
		Args:  cobra.NoArgs,
		RunE:  runSubmitCmd,
	}

	cmd.Flags().StringVar(&submitName, "name", "", "имя игрока")
	cmd.Flags().StringVar(&submitMode, "mode", modes.DefaultKey, "ключ режима")
	cmd.Flags().StringVar(&submitScore, "score", "", "счёт (целое неотрицательное число)")
	cmd.Flags().StringVar(&submitServer, "server", defaultServerURL, "адрес сервера")
	cmd.Flags().StringVar(&submitOfflineDB, "offline-db", defaultOfflineDB, "локальная база на случай недоступного сервера (пусто — без офлайн-режима)")
	cmd.Flags().StringVar(&submitModesFile, "modes-file", os.Getenv("MODES_FILE"), "TOML-файл с режимами для офлайн-режима")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func runSubmitCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	req := submissions.Request{Name: submitName, Mode: submitMode, Score: rawScore(submitScore)}

	var open client.OpenOffline
	if submitOfflineDB != "" {
		open = openOffline(submitOfflineDB, submitModesFile)
	}

	resp, err := client.SubmitWithFallback(ctx, client.New(submitServer), req, open)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if resp.Offline {
		fmt.Fprintln(out, "Сервер недоступен: результат сохранён локально.")
	}
	fmt.Fprintf(out, "%s — %s очков в %s\n", resp.Name, common.FormatNumber(resp.Score), resp.Mode)
	fmt.Fprintf(out, "Серия: %s (рекорд: %s)\n", common.FormatDays(resp.Streak), common.FormatDays(resp.BestStreak))
	return nil
}

// rawScore передаёт флаг как JSON-число, а всё, что числом не является,
// как строку: проверку делает сервер или офлайн-координатор.
func rawScore(s string) json.RawMessage {
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s)
	return quoted
}

// openOffline открывает локальную базу и координатор поверх неё.
func openOffline(path, modesFile string) client.OpenOffline {
	return func(ctx context.Context) (client.Submitter, func(), error) {
		catalog, err := modes.Load(modesFile)
		if err != nil {
			return nil, nil, err
		}
		storage, err := app.OpenSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		svc := submissions.NewOfflineService(storage.Submissions, catalog, calendar.SystemClock{})
		return svc, storage.Close, nil
	}
}
