package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/post-comment-service/internal/models"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	v := New()

	tcs := []struct {
		name string
		in   models.Comment
		want []string
	}{
		{
			name: "valid",
			in:   models.Comment{PostID: "p1", Body: "hello"},
			want: nil,
		},
		{
			name: "missing post id",
			in:   models.Comment{Body: "hello"},
			want: []string{"Post Id cannot be null!"},
		},
		{
			name: "missing body",
			in:   models.Comment{PostID: "p1"},
			want: []string{"Comment cannot be null"},
		},
		{
			name: "both missing keep check order",
			in:   models.Comment{CreatedAt: time.Now()},
			want: []string{"Post Id cannot be null!", "Comment cannot be null"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, v.Validate(tc.in))
		})
	}
}

// ID и CreatedAt не участвуют в проверке.
func TestValidate_IgnoresServerManagedFields(t *testing.T) {
	t.Parallel()

	got := New().Validate(models.Comment{ID: "", PostID: "p", Body: "b"})
	require.Empty(t, got)
}
