// Package breaker оборачивает storage.Storage в circuit breaker (sony/gobreaker).
//
// В состоянии open вызовы завершаются gobreaker.ErrOpenState без обращения к БД.
// ErrNotFound и отмена клиентом не считаются отказом хранилища.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"

	"github.com/pribylovaa/post-comment-service/internal/config"
	"github.com/pribylovaa/post-comment-service/internal/models"
	"github.com/pribylovaa/post-comment-service/internal/storage"
)

const name = "comments-store"

// Storage - storage.Storage с circuit breaker перед каждым обращением к данным.
// Ping и Close проходят напрямую: readiness должен видеть реальное состояние БД.
type Storage struct {
	next  storage.Storage
	cb    *gobreaker.CircuitBreaker
	state prometheus.Gauge
}

var _ storage.Storage = (*Storage)(nil)

// New создаёт обёртку. reg может быть nil - тогда метрика состояния не регистрируется.
func New(next storage.Storage, cfg config.BreakerConfig, log *slog.Logger, reg prometheus.Registerer) (*Storage, error) {
	if log == nil {
		log = slog.Default()
	}

	s := &Storage{
		next: next,
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "post_comments_store_breaker_state",
			Help: "Circuit breaker state of the comments store: 0 closed, 1 half-open, 2 open.",
		}),
	}

	if reg != nil {
		if err := reg.Register(s.state); err != nil {
			return nil, fmt.Errorf("breaker: register metric: %w", err)
		}
	}

	s.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			log.Warn("store_breaker_state_changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			s.state.Set(float64(to))
		},
		IsSuccessful: isSuccessful,
	})

	return s, nil
}

// isSuccessful - что не должно «открывать» breaker.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, storage.ErrNotFound) ||
		errors.Is(err, context.Canceled)
}

// State возвращает текущее состояние breaker.
func (s *Storage) State() gobreaker.State {
	return s.cb.State()
}

func execute[T any](cb *gobreaker.CircuitBreaker, op string, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) { return fn() })
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w", op, err)
		}
		return zero, err
	}

	return res.(T), nil
}

func (s *Storage) Save(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	return execute(s.cb, "storage/breaker/Save", func() (*models.Comment, error) {
		return s.next.Save(ctx, comment)
	})
}

func (s *Storage) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	return execute(s.cb, "storage/breaker/CommentByID", func() (*models.Comment, error) {
		return s.next.CommentByID(ctx, id)
	})
}

func (s *Storage) ListByPost(ctx context.Context, postID string, p models.ListParams) ([]models.Comment, error) {
	return execute(s.cb, "storage/breaker/ListByPost", func() ([]models.Comment, error) {
		return s.next.ListByPost(ctx, postID, p)
	})
}

func (s *Storage) Delete(ctx context.Context, comment models.Comment) error {
	_, err := execute(s.cb, "storage/breaker/Delete", func() (struct{}, error) {
		return struct{}{}, s.next.Delete(ctx, comment)
	})
	return err
}

func (s *Storage) DeleteMany(ctx context.Context, comments []models.Comment) error {
	_, err := execute(s.cb, "storage/breaker/DeleteMany", func() (struct{}, error) {
		return struct{}{}, s.next.DeleteMany(ctx, comments)
	})
	return err
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *Storage) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}
