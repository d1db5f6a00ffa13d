// Package admin — служебные эндпоинты с паролем администратора:
// статистика базы и ручной сброс просроченных стриков.
package admin

// Stats — сводка по базе (ответ GET /api/admin/stats).
type Stats struct {
	Profiles      int64 `json:"profiles"`       // Всего профилей
	Scores        int64 `json:"scores"`         // Всего строк в таблице лидеров
	Runs          int64 `json:"runs"`           // Всего забегов
	ActiveStreaks int64 `json:"active_streaks"` // Профилей с ненулевой серией
}

// Защита от подбора пароля
const (
	MaxFailedAttempts = 3 // Неудачных попыток до блокировки
)
