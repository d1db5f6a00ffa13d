// Package profiles — handlers.go обрабатывает GET /api/profile?name=...
package profiles

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/calendar"
	"serotonyl.ru/brain-trainer/internal/common"
)

// Handler обрабатывает запросы профиля.
type Handler struct {
	service *Service // Сервис профилей
}

// NewHandler создаёт новый обработчик профилей.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// profileResponse — ответ для существующего профиля.
type profileResponse struct {
	Name             string  `json:"name"`
	Exists           bool    `json:"exists"`
	CreatedAt        string  `json:"created_at"`
	LastPracticeDate *string `json:"last_practice_date"`
	StreakCount      int     `json:"streak_count"`
	BestStreak       int     `json:"best_streak"`
	LastRunAt        *string `json:"last_run_at"`
}

// HandleGet отвечает {name, exists:false} или {name, exists:true, ...поля профиля}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	name := common.SanitizeName(r.URL.Query().Get("name"))
	if name == "" {
		common.WriteError(w, http.StatusBadRequest, "invalid_name")
		return
	}

	p, err := h.service.Get(r.Context(), name)
	if err != nil {
		log.WithError(err).WithField("name", name).Error("Ошибка чтения профиля")
		common.WriteError(w, http.StatusInternalServerError, "db_read_failed")
		return
	}
	if p == nil {
		common.WriteJSON(w, http.StatusOK, map[string]any{"name": name, "exists": false})
		return
	}

	resp := profileResponse{
		Name:             p.Name,
		Exists:           true,
		CreatedAt:        calendar.FormatTimestamp(p.CreatedAt),
		LastPracticeDate: p.LastPracticeDate,
		StreakCount:      p.StreakCount,
		BestStreak:       p.BestStreak,
	}
	if p.LastRunAt != nil {
		ts := calendar.FormatTimestamp(*p.LastRunAt)
		resp.LastRunAt = &ts
	}
	common.WriteJSON(w, http.StatusOK, resp)
}
