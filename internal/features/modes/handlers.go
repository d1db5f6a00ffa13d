// Package modes — handlers.go отдаёт таблицу режимов клиенту (GET /api/modes).
package modes

import (
	"net/http"

	"serotonyl.ru/brain-trainer/internal/common"
)

// Handler обрабатывает запросы к таблице режимов.
type Handler struct {
	catalog *Catalog
}

// NewHandler создаёт обработчик режимов.
func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// HandleList отвечает {"modes": [...]}.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]any{"modes": h.catalog.All()})
}
