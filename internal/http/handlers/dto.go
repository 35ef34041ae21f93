package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pribylovaa/post-comment-service/internal/models"
)

// DateLayout - формат dateCreated на проводе (UTC).
const DateLayout = "2006-01-02 15:04:05"

// Timestamp - время в формате DateLayout; нулевое значение кодируется как null.
type Timestamp time.Time

func (t Timestamp) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(tt.UTC().Format(DateLayout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}

	parsed, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("dateCreated: expected %q: %w", DateLayout, err)
	}
	*t = Timestamp(parsed)
	return nil
}

// Comment - представление комментария в REST API.
type Comment struct {
	CommentID   string    `json:"commentId"`
	PostID      string    `json:"postId"`
	Comment     string    `json:"comment"`
	DateCreated Timestamp `json:"dateCreated"`
}

// ToModel переводит тело запроса в доменную модель.
func (c Comment) ToModel() models.Comment {
	return models.Comment{
		ID:        c.CommentID,
		PostID:    c.PostID,
		Body:      c.Comment,
		CreatedAt: time.Time(c.DateCreated),
	}
}

// CommentFromModel - доменная модель -> ответ.
func CommentFromModel(m models.Comment) Comment {
	return Comment{
		CommentID:   m.ID,
		PostID:      m.PostID,
		Comment:     m.Body,
		DateCreated: Timestamp(m.CreatedAt),
	}
}

// CommentsFromModels - список для ответа; nil превращается в [].
func CommentsFromModels(ms []models.Comment) []Comment {
	out := make([]Comment, 0, len(ms))
	for _, m := range ms {
		out = append(out, CommentFromModel(m))
	}
	return out
}
