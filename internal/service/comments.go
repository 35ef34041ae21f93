package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pribylovaa/post-comment-service/internal/models"
	"github.com/pribylovaa/post-comment-service/internal/storage"
	"github.com/pribylovaa/post-comment-service/pkg/log"
)

const (
	msgNoCommentsForPost = "No comments found for the post"
	msgUpdateNotFound    = "Comment not found"
	msgDeleteNotFound    = "Comment Not Found"
)

// CreateComment - валидирует и сохраняет новый комментарий.
//
// Клиентский ID отбрасывается, CreatedAt ставится сервисом.
// Нарушения валидации -> ErrInvalidInput (сообщения через ", "), хранилище не вызывается.
func (s *Service) CreateComment(ctx context.Context, c models.Comment) (*models.Comment, error) {
	const op = "service/comments/CreateComment"

	lg := log.From(ctx).With("op", op, "post_id", c.PostID)

	if violations := s.validator.Validate(c); len(violations) > 0 {
		lg.Warn("invalid comment", "violations", violations)
		return nil, fmt.Errorf("%s: %w", op, invalidInput(strings.Join(violations, ", ")))
	}

	c.ID = ""
	c.CreatedAt = s.now().UTC()

	saved, err := s.storage.Save(ctx, c)
	if err != nil {
		lg.Error("storage error on Save", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("comment created", "comment_id", saved.ID)

	return saved, nil
}

// ListByPost - страница комментариев поста (page с нуля).
//
// page < 0 или size <= 0 -> ErrInvalidInput; size больше limits.max_page_size урезается.
// Пустая страница -> ErrNotFound: «у поста нет комментариев» и «страница за концом»
// не различаются.
func (s *Service) ListByPost(ctx context.Context, postID string, page, size int64) ([]models.Comment, error) {
	const op = "service/comments/ListByPost"

	lg := log.From(ctx).With("op", op, "post_id", postID, "page", page, "size", size)

	if page < 0 {
		lg.Warn("invalid page")
		return nil, fmt.Errorf("%s: %w", op, invalidInput("page must not be negative"))
	}
	if size <= 0 {
		lg.Warn("invalid size")
		return nil, fmt.Errorf("%s: %w", op, invalidInput("size must be positive"))
	}
	if maxSize := s.cfg.Limits.MaxPageSize; maxSize > 0 && size > maxSize {
		size = maxSize
	}
	// page*size не влезает в int64: такой страницы заведомо нет.
	if page > math.MaxInt64/size {
		lg.Warn("page beyond addressable range")
		return nil, fmt.Errorf("%s: %w", op, notFound(msgNoCommentsForPost))
	}

	comments, err := s.storage.ListByPost(ctx, postID, models.ListParams{
		Skip:  page * size,
		Limit: size,
	})
	if err != nil {
		lg.Error("storage error on ListByPost", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(comments) == 0 {
		lg.Warn("no comments on page")
		return nil, fmt.Errorf("%s: %w", op, notFound(msgNoCommentsForPost))
	}

	return comments, nil
}

// UpdateComment - обновление на месте: ID и PostID сохраняются,
// текст берётся из newData, CreatedAt перезаписывается.
//
// Сначала поиск (ErrNotFound), затем валидация итоговой записи (ErrInvalidInput).
func (s *Service) UpdateComment(ctx context.Context, id string, newData models.Comment) (*models.Comment, error) {
	const op = "service/comments/UpdateComment"

	lg := log.From(ctx).With("op", op, "comment_id", id)

	existing, err := s.storage.CommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("comment not found")
			return nil, fmt.Errorf("%s: %w", op, notFound(msgUpdateNotFound))
		}
		lg.Error("storage error on CommentByID", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated := *existing
	updated.Body = newData.Body
	updated.CreatedAt = s.now().UTC()

	if violations := s.validator.Validate(updated); len(violations) > 0 {
		lg.Warn("invalid comment", "violations", violations)
		return nil, fmt.Errorf("%s: %w", op, invalidInput(strings.Join(violations, ", ")))
	}

	saved, err := s.storage.Save(ctx, updated)
	if err != nil {
		// Удалён между поиском и записью.
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("comment disappeared before save")
			return nil, fmt.Errorf("%s: %w", op, notFound(msgUpdateNotFound))
		}
		lg.Error("storage error on Save", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("comment updated")

	return saved, nil
}

// DeleteComment - физически удаляет комментарий по ID.
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	const op = "service/comments/DeleteComment"

	lg := log.From(ctx).With("op", op, "comment_id", id)

	existing, err := s.storage.CommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("comment not found")
			return fmt.Errorf("%s: %w", op, notFound(msgDeleteNotFound))
		}
		lg.Error("storage error on CommentByID", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.Delete(ctx, *existing); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("comment disappeared before delete")
			return fmt.Errorf("%s: %w", op, notFound(msgDeleteNotFound))
		}
		lg.Error("storage error on Delete", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("comment deleted")

	return nil
}

// DeleteAllForPost - удаляет все комментарии поста, найденные на момент запроса.
// Комментарии, добавленные между выборкой и удалением, остаются.
func (s *Service) DeleteAllForPost(ctx context.Context, postID string) error {
	const op = "service/comments/DeleteAllForPost"

	lg := log.From(ctx).With("op", op, "post_id", postID)

	comments, err := s.storage.ListByPost(ctx, postID, models.ListParams{})
	if err != nil {
		lg.Error("storage error on ListByPost", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(comments) == 0 {
		lg.Warn("no comments for post")
		return fmt.Errorf("%s: %w", op, notFound(msgNoCommentsForPost))
	}

	if err := s.storage.DeleteMany(ctx, comments); err != nil {
		lg.Error("storage error on DeleteMany", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("comments deleted", "count", len(comments))

	return nil
}
