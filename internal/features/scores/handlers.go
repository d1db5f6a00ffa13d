// Package scores — handlers.go обрабатывает GET /api/scores?mode=...&limit=...
package scores

import (
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/calendar"
	"serotonyl.ru/brain-trainer/internal/common"
)

// Handler обрабатывает чтение таблицы лидеров.
type Handler struct {
	service      *Service
	defaultMode  string // Режим, если параметр mode не передан
	defaultLimit int    // Лимит, если параметр limit не передан или не число
}

// NewHandler создаёт обработчик таблицы лидеров.
func NewHandler(service *Service, defaultMode string, defaultLimit int) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Handler{service: service, defaultMode: defaultMode, defaultLimit: defaultLimit}
}

type scoreEntry struct {
	Name      string `json:"name"`
	Score     int64  `json:"score"`
	Mode      string `json:"mode"`
	CreatedAt string `json:"created_at"`
}

type topResponse struct {
	Mode   string       `json:"mode"`
	Scores []scoreEntry `json:"scores"`
}

// HandleTop отдаёт {mode, scores:[...]}.
func (h *Handler) HandleTop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode := common.SanitizeName(q.Get("mode"))
	if mode == "" {
		mode = h.defaultMode
	}

	limit := ParseLimit(q.Get("limit"), h.defaultLimit)

	list, err := h.service.Top(r.Context(), mode, limit)
	if err != nil {
		log.WithError(err).WithField("mode", mode).Error("Ошибка чтения таблицы лидеров")
		common.WriteError(w, http.StatusInternalServerError, "db_read_failed")
		return
	}

	resp := topResponse{Mode: mode, Scores: make([]scoreEntry, 0, len(list))}
	for _, s := range list {
		resp.Scores = append(resp.Scores, scoreEntry{
			Name:      s.Name,
			Score:     s.Score,
			Mode:      s.Mode,
			CreatedAt: calendar.FormatTimestamp(s.CreatedAt),
		})
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

// ParseLimit читает целое в начале строки, как parseInt в JS:
// "7.9" → 7, "5abc" → 5, "-3" → -3. Нет цифр — def.
// Слишком большое число становится MaxLimit, дальше лимит всё равно зажимается.
func ParseLimit(raw string, def int) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return def
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Переполнение: знак решает, к какому краю зажимать
		if s[0] == '-' {
			return MinLimit
		}
		return MaxLimit
	}
	return n
}
