// errors стандартизирует ответы об ошибках HTTP-слоя post-comment-service.
// На вход принимает ошибку сервисного слоя, на выход даёт:
//   - HTTP-статус;
//   - тело {"message": ..., "errorCode": ...}.
//
// Хендлеры сами статусы ошибок не выбирают: единственная точка трансляции здесь.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/post-comment-service/internal/service"
	"github.com/pribylovaa/post-comment-service/pkg/log"
)

// Коды ошибок в ответе - имена HTTP-статусов.
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

// ErrMethodNotAllowed - маршрут есть, но не для этого HTTP-метода.
var ErrMethodNotAllowed = errors.New("method not allowed")

// ErrorResponse - тело ответа об ошибке.
// Message - nil только при вызове с nil-ошибкой.
type ErrorResponse struct {
	Message   *string `json:"message"`
	ErrorCode string  `json:"errorCode"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и тело ответа.
//
// Поведение:
//   - err == nil - программная ошибка вызова: 500 с message: null,
//     чтобы не послать "200 OK" с телом ошибки;
//   - service.ErrInvalidInput -> 400, service.ErrNotFound -> 404,
//     ErrMethodNotAllowed -> 405,
//     message - текст *service.Error без op-префиксов;
//   - прочее -> 500, message - текст ошибки как есть.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{ErrorCode: CodeInternalServerError}
	}

	msg := err.Error()
	var se *service.Error
	if errors.As(err, &se) {
		msg = se.Message
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Message: &msg, ErrorCode: CodeBadRequest}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Message: &msg, ErrorCode: CodeNotFound}
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, ErrorResponse{Message: &msg, ErrorCode: CodeMethodNotAllowed}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: &msg, ErrorCode: CodeInternalServerError}
	}
}

// WriteError - хелпер для HTTP-хендлеров: пишет статус и JSON-тело.
// Ошибки 5xx логируются логгером запроса.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if status >= http.StatusInternalServerError {
		log.From(r.Context()).Error("request failed", "status", status, "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
