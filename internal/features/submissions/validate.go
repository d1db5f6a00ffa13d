package submissions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/features/modes"
)

// submission — проверенный запрос.
type submission struct {
	name  string
	mode  modes.Mode
	score int64
}

// validate проверяет запрос до любого обращения к хранилищу.
func validate(req Request, catalog *modes.Catalog) (*submission, error) {
	name := common.SanitizeName(req.Name)
	if name == "" {
		return nil, fmt.Errorf("пустое имя: %w", common.ErrInvalidPayload)
	}

	key := common.SanitizeName(req.Mode)
	if key == "" {
		key = modes.DefaultKey
	}
	mode, ok := catalog.Get(key)
	if !ok {
		return nil, fmt.Errorf("неизвестный режим %q: %w", key, common.ErrInvalidPayload)
	}

	value, err := parseScore(req.Score)
	if err != nil {
		return nil, err
	}
	if value > float64(mode.MaxScore) {
		return nil, fmt.Errorf("счёт %v больше %d для режима %s: %w",
			value, mode.MaxScore, mode.Key, common.ErrScoreOutOfRange)
	}

	return &submission{name: name, mode: mode, score: int64(value)}, nil
}

// parseScore принимает JSON-число или строку с числом.
// Счёт должен быть конечным, целым и неотрицательным.
func parseScore(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("нет счёта: %w", common.ErrInvalidPayload)
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("счёт %s: %w", raw, common.ErrInvalidPayload)
		}
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("счёт %q не число: %w", text, common.ErrInvalidPayload)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 || value != math.Trunc(value) {
		return 0, fmt.Errorf("счёт %q не целое неотрицательное число: %w", text, common.ErrInvalidPayload)
	}
	return value, nil
}
