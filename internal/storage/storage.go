package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/post-comment-service/internal/models"
)

var (
	// ErrNotFound - сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
)

// Storage описывает операции над коллекцией комментариев.
// Сервисный слой не выполняет запросов сверх этих форм.
type Storage interface {
	// Save записывает комментарий.
	// Пустой ID - вставка нового документа, хранилище выдаёт ID.
	// Непустой ID - полная замена документа с этим ID; если его нет - ErrNotFound.
	Save(ctx context.Context, comment models.Comment) (*models.Comment, error)

	// CommentByID возвращает комментарий по строковому идентификатору.
	// Если запись не найдена (включая некорректный формат id) - ErrNotFound.
	CommentByID(ctx context.Context, id string) (*models.Comment, error)

	// ListByPost возвращает комментарии поста в порядке записи.
	// Skip/Limit применяются на стороне хранилища; Limit == 0 - без ограничения.
	// Пустой результат - не ошибка.
	ListByPost(ctx context.Context, postID string, p models.ListParams) ([]models.Comment, error)

	// Delete физически удаляет комментарий. Если его уже нет - ErrNotFound.
	Delete(ctx context.Context, comment models.Comment) error

	// DeleteMany удаляет ровно переданный набор комментариев (по ID),
	// а не всё, что подходит под фильтр на момент удаления.
	DeleteMany(ctx context.Context, comments []models.Comment) error

	// Ping проверяет доступность хранилища (readiness).
	Ping(ctx context.Context) error

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
