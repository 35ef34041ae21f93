package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/post-comment-service/internal/config"
	"github.com/pribylovaa/post-comment-service/internal/models"
	"github.com/pribylovaa/post-comment-service/internal/service"
)

// Comments - операции сервисного слоя, нужные хендлерам (реализует *service.Service).
type Comments interface {
	CreateComment(ctx context.Context, c models.Comment) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string, page, size int64) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id string, newData models.Comment) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	DeleteAllForPost(ctx context.Context, postID string) error
}

var _ Comments = (*service.Service)(nil)

// Handlers агрегирует зависимости REST-хендлеров.
type Handlers struct {
	comments Comments
	limits   config.LimitsConfig
}

func New(comments Comments, limits config.LimitsConfig) *Handlers {
	return &Handlers{comments: comments, limits: limits}
}

// writeJSON - единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeText - текстовое подтверждение (удаления).
func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

// decode читает JSON-тело. Неизвестные поля игнорируются, отсутствующие
// и null дают нулевые значения.
func decode(r *http.Request, value any) error {
	return json.NewDecoder(r.Body).Decode(value)
}

// badRequest - локальная ошибка разбора запроса -> 400/BAD_REQUEST.
func badRequest(msg string) error {
	return &service.Error{Kind: service.ErrInvalidInput, Message: msg}
}
