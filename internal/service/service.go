// service содержит бизнес-логику post-comment-service.
package service

import (
	"errors"
	"time"

	"github.com/pribylovaa/post-comment-service/internal/config"
	"github.com/pribylovaa/post-comment-service/internal/storage"
	"github.com/pribylovaa/post-comment-service/internal/validation"
)

var (
	// ErrInvalidInput - нарушены правила валидации или параметры запроса.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound - запрошенная сущность отсутствует.
	ErrNotFound = errors.New("not found")
)

// Error - типизированная ошибка сервиса с сообщением для клиента.
// Kind - один из сентинелов выше; errors.Is(err, ErrNotFound) работает через Unwrap.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func invalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// Service - описывает бизнес-логику жизненного цикла комментариев.
// Состояния между запросами не хранит.
type Service struct {
	storage   storage.Storage
	validator *validation.Validator
	cfg       config.Config
	now       func() time.Time
}

// New создает новый экземпляр Service.
func New(storage storage.Storage, validator *validation.Validator, cfg config.Config) *Service {
	return &Service{
		storage:   storage,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock подменяет источник времени (для тестов).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}
