package httpapi

import (
	"context"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/brain-trainer/internal/common"
	"serotonyl.ru/brain-trainer/internal/features/admin"
	"serotonyl.ru/brain-trainer/internal/features/modes"
	"serotonyl.ru/brain-trainer/internal/features/plan"
	"serotonyl.ru/brain-trainer/internal/features/profiles"
	"serotonyl.ru/brain-trainer/internal/features/scores"
	"serotonyl.ru/brain-trainer/internal/features/submissions"
	"serotonyl.ru/brain-trainer/internal/ratelimit"
)

// Handlers — обработчики всех фич. Admin может быть nil (админка выключена).
type Handlers struct {
	Submissions *submissions.Handler
	Scores      *scores.Handler
	Profiles    *profiles.Handler
	Plan        *plan.Handler
	Modes       *modes.Handler
	Admin       *admin.Handler
}

// Options — настройки маршрутизатора.
type Options struct {
	StaticDir      string                          // Каталог статики ("" или нет каталога — без статики)
	RequestTimeout time.Duration                   // Таймаут одного запроса
	SubmitLimiter  *ratelimit.Limiter              // Лимит POST /api/scores (nil — без лимита)
	Ping           func(ctx context.Context) error // Проверка хранилища для /health
}

// NewRouter регистрирует маршруты и оборачивает их в промежуточные обработчики.
func NewRouter(h Handlers, opts Options) http.Handler {
	mux := http.NewServeMux()

	submit := h.Submissions.HandleSubmit
	if opts.SubmitLimiter != nil {
		submit = limitByIP(opts.SubmitLimiter, submit)
	}

	mux.HandleFunc("POST /api/scores", submit)
	mux.HandleFunc("GET /api/scores", h.Scores.HandleTop)
	mux.HandleFunc("GET /api/profile", h.Profiles.HandleGet)
	mux.HandleFunc("GET /api/plan", h.Plan.HandleGet)
	mux.HandleFunc("GET /api/modes", h.Modes.HandleList)
	mux.HandleFunc("GET /health", healthHandler(opts.Ping))

	if h.Admin != nil {
		mux.HandleFunc("GET /api/admin/stats", h.Admin.HandleStats)
		mux.HandleFunc("POST /api/admin/streaks/expire", h.Admin.HandleExpireStreaks)
	}

	if opts.StaticDir != "" {
		if info, err := os.Stat(opts.StaticDir); err == nil && info.IsDir() {
			mux.Handle("GET /", http.FileServer(http.Dir(opts.StaticDir)))
		} else {
			log.WithField("dir", opts.StaticDir).Warn("Каталог статики не найден, статика не раздаётся")
		}
	}

	var handler http.Handler = mux
	if opts.RequestTimeout > 0 {
		handler = withTimeout(opts.RequestTimeout)(handler)
	}
	handler = recoverPanics(handler)
	return logRequests(handler)
}

// healthHandler отвечает {ok:true}, если хранилище доступно.
func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				log.WithError(err).Warn("Хранилище недоступно")
				common.WriteJSON(w, http.StatusServiceUnavailable, map[string]bool{"ok": false})
				return
			}
		}
		common.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
