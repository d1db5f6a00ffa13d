// Package scores хранит журнал счётов и забегов и отдаёт таблицу лидеров.
// models.go описывает записи журнала.
package scores

import "time"

// Лимиты выдачи таблицы лидеров
const (
	MinLimit     = 1   // Меньше одной строки не отдаём
	MaxLimit     = 100 // Больше ста строк не отдаём
	DefaultLimit = 20  // Если лимит не передан
)

// Score — одна строка таблицы лидеров. Записи только добавляются.
type Score struct {
	ID        int64     `db:"id"         json:"-"`
	Name      string    `db:"name"       json:"name"`
	Score     int64     `db:"score"      json:"score"`
	Mode      string    `db:"mode"       json:"mode"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Run — история забега конкретного профиля.
type Run struct {
	ID          int64     `db:"id"`
	ProfileID   int64     `db:"profile_id"`   // Ссылка на profiles.id
	Score       int64     `db:"score"`        // Очки за забег
	Mode        string    `db:"mode"`         // Ключ режима
	DurationSec int       `db:"duration_sec"` // Длительность режима на момент забега
	CreatedAt   time.Time `db:"created_at"`
}
