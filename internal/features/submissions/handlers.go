// Package submissions — handlers.go обрабатывает POST /api/scores.
package submissions

import (
	"encoding/json"
	"errors"
	"net/http"

	"serotonyl.ru/brain-trainer/internal/common"
)

// maxBodyBytes — предел тела запроса: имя, режим и число.
const maxBodyBytes = 4 << 10

// Handler обрабатывает отправку счёта.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик отправки счёта.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleSubmit принимает {name, mode, score} и отвечает 201 с результатом.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req Request
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	result, err := h.service.Submit(r.Context(), req)
	if err != nil {
		status, code := ErrorStatus(err)
		common.WriteError(w, status, code)
		return
	}
	common.WriteJSON(w, http.StatusCreated, result.Response())
}

// ErrorStatus сопоставляет ошибку отправки HTTP-статусу и коду ответа.
func ErrorStatus(err error) (int, string) {
	var stageErr *StageError
	switch {
	case errors.Is(err, common.ErrScoreOutOfRange):
		return http.StatusBadRequest, "score_out_of_range"
	case errors.Is(err, common.ErrInvalidPayload):
		return http.StatusBadRequest, "invalid_payload"
	case errors.As(err, &stageErr):
		return http.StatusInternalServerError, stageErr.Code()
	default:
		return http.StatusInternalServerError, "db_write_failed"
	}
}
