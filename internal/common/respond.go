// Package common — respond.go содержит помощники для JSON-ответов HTTP.
package common

import (
	"encoding/json"
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// ErrorResponse — тело ответа с ошибкой: {"error": "invalid_payload"}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON отправляет v как JSON с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Не удалось отправить JSON-ответ")
	}
}

// WriteError отправляет {"error": code} с указанным статусом.
func WriteError(w http.ResponseWriter, status int, code string) {
	WriteJSON(w, status, ErrorResponse{Error: code})
}

// ClientIP возвращает IP клиента из RemoteAddr (без порта).
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
