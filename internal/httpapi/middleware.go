// Package httpapi собирает HTTP-сервер: маршруты, промежуточные обработчики,
// запуск и плавную остановку.
// middleware.go содержит логирование запросов, восстановление после паники,
// таймаут запроса и rate-limiting.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/ratelimit"
)

// RequestIDHeader — заголовок с ID запроса (входящий сохраняется, иначе генерируется).
const RequestIDHeader = "X-Request-ID"

// statusRecorder запоминает статус ответа для лога.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests присваивает запросу ID и пишет строку access-лога.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"ip":         common.ClientIP(r),
		}).Debug("HTTP-запрос")
	})
}

// recoverPanics превращает панику обработчика в ответ 500.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				log.WithFields(log.Fields{
					"component": "panic_recovery",
					"panic":     fmt.Sprintf("%v", rv),
					"path":      r.URL.Path,
					"stack":     string(debug.Stack()),
				}).Error("ПАНИКА в обработчике — восстановлено")
				common.WriteError(w, http.StatusInternalServerError, "internal_error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withTimeout ограничивает время жизни запроса: все обращения к хранилищу
// получают этот контекст.
func withTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// limitByIP отвечает 429, если клиент превысил лимит запросов.
func limitByIP(limiter *ratelimit.Limiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := common.ClientIP(r)
		if !limiter.Allow(ip) {
			log.WithField("ip", ip).Warn("Превышен лимит запросов")
			common.WriteError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next(w, r)
	}
}
