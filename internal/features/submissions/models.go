// Package submissions принимает результат забега и атомарно обновляет профиль,
// стрик, таблицу лидеров и историю забегов.
// models.go описывает запрос, результат и ошибку этапа.
package submissions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"serotonyl.ru/brain-trainer/internal/calendar"
)

// Request — то, что присылает клиент после забега.
// Score хранится сырым JSON: тип и целостность числа проверяет Service.
type Request struct {
	Name  string          `json:"name"`
	Mode  string          `json:"mode"`
	Score json.RawMessage `json:"score"`
}

// UnmarshalJSON принимает name и mode не только строками: число или
// логическое значение приводятся к тексту, как это делает JS-клиент.
// Нулевые значения (0, false, null) считаются пустыми.
func (r *Request) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  json.RawMessage `json:"name"`
		Mode  json.RawMessage `json:"mode"`
		Score json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	name, err := textField(raw.Name)
	if err != nil {
		return fmt.Errorf("поле name: %w", err)
	}
	mode, err := textField(raw.Mode)
	if err != nil {
		return fmt.Errorf("поле mode: %w", err)
	}
	*r = Request{Name: name, Mode: mode, Score: raw.Score}
	return nil
}

// textField приводит JSON-значение к строке.
func textField(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case 'n', 'f':
		return "", nil
	case 't':
		return "true", nil
	case '{', '[':
		return "", errors.New("ожидается строка")
	}

	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return "", err
	}
	if v == 0 {
		return "", nil
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// Result — итог принятой отправки.
type Result struct {
	RunID      int64     // ID записи в runs
	Name       string    // Очищенное имя
	Score      int64     // Принятый счёт
	Mode       string    // Ключ режима
	CreatedAt  time.Time // Время отправки (UTC, миллисекунды)
	Streak     int       // Серия после отправки
	BestStreak int       // Рекорд серии после отправки
	Offline    bool      // Записано в локальную базу, а не на сервер
}

// Response — JSON-представление результата (ответ 201 на POST /api/scores).
type Response struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Score      int64  `json:"score"`
	Mode       string `json:"mode"`
	CreatedAt  string `json:"created_at"`
	Streak     int    `json:"streak"`
	BestStreak int    `json:"best_streak"`
	Offline    bool   `json:"offline,omitempty"`
}

// Response переводит результат в тело ответа.
func (r *Result) Response() Response {
	return Response{
		ID:         r.RunID,
		Name:       r.Name,
		Score:      r.Score,
		Mode:       r.Mode,
		CreatedAt:  calendar.FormatTimestamp(r.CreatedAt),
		Streak:     r.Streak,
		BestStreak: r.BestStreak,
		Offline:    r.Offline,
	}
}

// Stage — этап, на котором отправка упала.
type Stage string

const (
	StageProfile Stage = "profile" // Создание или чтение профиля
	StageWrite   Stage = "write"   // Обновление профиля, запись счёта/забега, коммит
)

// StageError — ошибка хранилища с указанием этапа.
// errors.Is(err, common.ErrStorage) продолжает работать через Unwrap.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("этап %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Code возвращает код ошибки для клиента.
func (e *StageError) Code() string {
	if e.Stage == StageProfile {
		return "profile_failed"
	}
	return "db_write_failed"
}
