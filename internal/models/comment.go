// Package models содержит доменные сущности post-comment-service.
package models

import "time"

// Comment - доменная модель комментария к посту.
// Важно:
//   - ID - hex ObjectID MongoDB, выдаётся хранилищем при первой записи;
//     у нового (ещё не сохранённого) комментария пустой.
//   - PostID - идентификатор поста из смежной системы; существование поста не проверяется.
//   - Body - текст комментария (на проводе - поле "comment").
//   - CreatedAt - «время последнего касания»: ставится при создании и перезаписывается при обновлении.
//
// Теги validate читает internal/validation: новое правило = новый тег + сообщение.
type Comment struct {
	ID        string
	PostID    string `validate:"required"`
	Body      string `validate:"required"`
	CreatedAt time.Time
}

// ListParams - параметры выборки комментариев поста.
// Limit == 0 означает «без ограничения».
type ListParams struct {
	Skip  int64
	Limit int64
}
