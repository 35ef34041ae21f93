package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/post-comment-service/internal/config"
	apierrors "github.com/pribylovaa/post-comment-service/internal/errors"
	"github.com/pribylovaa/post-comment-service/internal/http/handlers"
	"github.com/pribylovaa/post-comment-service/internal/http/middleware"
	"github.com/pribylovaa/post-comment-service/internal/service"
)

// DefaultBasePath - префикс REST API комментариев.
const DefaultBasePath = "/api/v1/post_comment"

// Options - параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	Limits   config.LimitsConfig
	Metrics  *middleware.Metrics // nil - без метрик.
	BasePath string              // пустой -> DefaultBasePath.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(comments handlers.Comments, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Recover(),            // паника -> 500, с request_id в логе
	)
	if opts.Metrics != nil {
		root.Use(opts.Metrics.Middleware())
	}
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// До Route: подроутер наследует обработчики родителя.
	root.NotFound(notFound)
	root.MethodNotAllowed(methodNotAllowed)

	h := handlers.New(comments, opts.Limits)

	base := opts.BasePath
	if base == "" {
		base = DefaultBasePath
	}

	root.Route(base, func(r chi.Router) {
		registerRoutes(r, h)
	})

	return root
}

// registerRoutes - единая точка регистрации REST-эндпойнтов.
// Статический сегмент /post у chi приоритетнее параметра {commentId}.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Post("/save", h.SaveComment)
	r.Get("/{postId}", h.ListByPost)
	r.Put("/{commentId}", h.UpdateComment)
	r.Delete("/{commentId}", h.DeleteComment)
	r.Delete("/post/{postId}", h.DeleteAllForPost)
}

// notFound - неизвестный путь, в общем формате ошибок.
func notFound(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteError(w, r, &service.Error{
		Kind:    service.ErrNotFound,
		Message: fmt.Sprintf("No handler found for %s %s", r.Method, r.URL.Path),
	})
}

// methodNotAllowed - путь есть, метода нет.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteError(w, r, &service.Error{
		Kind:    apierrors.ErrMethodNotAllowed,
		Message: fmt.Sprintf("Request method '%s' is not supported", r.Method),
	})
}
