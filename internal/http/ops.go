package http

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger - проверка доступности зависимостей для readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewOpsRouter - служебный роутер: /livez, /healthz, /metrics.
//
// /healthz отвечает 200 только при ready == true и успешном Ping хранилища,
// иначе 503. ready снимается при начале graceful shutdown.
func NewOpsRouter(store Pinger, ready *atomic.Bool, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if !ready.Load() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}

		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}

		writeStatus(w, http.StatusOK, "ok")
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

func writeStatus(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}
