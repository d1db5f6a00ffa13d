// Package admin — handlers.go обрабатывает /api/admin/*.
// Пароль передаётся в заголовке X-Admin-Password.
package admin

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/common"
)

// PasswordHeader — заголовок с паролем администратора.
const PasswordHeader = "X-Admin-Password"

// Handler обрабатывает админ-запросы.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик админ-запросов.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// authorize проверяет пароль и сам отвечает клиенту, если доступа нет.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) bool {
	err := h.service.Authenticate(common.ClientIP(r), r.Header.Get(PasswordHeader))
	switch {
	case err == nil:
		return true
	case errors.Is(err, common.ErrRateLimited):
		common.WriteError(w, http.StatusTooManyRequests, "rate_limited")
	default:
		common.WriteError(w, http.StatusUnauthorized, "unauthorized")
	}
	return false
}

// HandleStats отдаёт {profiles, scores, runs, active_streaks}.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		log.WithError(err).Error("Ошибка чтения статистики")
		common.WriteError(w, http.StatusInternalServerError, "db_read_failed")
		return
	}
	common.WriteJSON(w, http.StatusOK, stats)
}

// HandleExpireStreaks сбрасывает просроченные стрики и отдаёт {expired}.
func (h *Handler) HandleExpireStreaks(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	n, err := h.service.ExpireStreaks(r.Context())
	if err != nil {
		log.WithError(err).Error("Ошибка сброса стриков")
		common.WriteError(w, http.StatusInternalServerError, "db_write_failed")
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]int64{"expired": n})
}
