// Package plan — handlers.go обрабатывает GET /api/plan?name=...
package plan

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/common"
)

// Handler отдаёт план на сегодня.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик плана.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGet отдаёт {name, streak_count, last_practice_date, today, tasks}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	name := common.SanitizeName(r.URL.Query().Get("name"))
	if name == "" {
		common.WriteError(w, http.StatusBadRequest, "invalid_name")
		return
	}

	p, err := h.service.Generate(r.Context(), name)
	if err != nil {
		log.WithError(err).WithField("name", name).Error("Ошибка построения плана")
		common.WriteError(w, http.StatusInternalServerError, "db_read_failed")
		return
	}
	common.WriteJSON(w, http.StatusOK, p)
}
