// Package validation проверяет комментарий на обязательные поля.
//
// Правила описываются тегами validate в models.Comment, а человекочитаемые
// сообщения - таблицей messages. Добавление проверки не меняет вызывающий код.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pribylovaa/post-comment-service/internal/models"
)

// messages - сообщения нарушений по ключу "<поле структуры>.<тег>".
var messages = map[string]string{
	"PostID.required": "Post Id cannot be null!",
	"Body.required":   "Comment cannot be null",
}

// Validator - обёртка над go-playground/validator. Безопасен для конкурентного использования.
type Validator struct {
	validate *validator.Validate
}

// New создаёт Validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate возвращает все найденные нарушения в порядке объявления полей.
// Пустой результат означает, что комментарий корректен.
func (v *Validator) Validate(c models.Comment) []string {
	err := v.validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError возможен только при передаче не-структуры.
		return []string{err.Error()}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, message(fe))
	}

	return out
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}

	return fmt.Sprintf("%s is invalid: %s", fe.Field(), fe.Tag())
}
