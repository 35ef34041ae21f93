package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/post-comment-service/internal/config"
	"github.com/pribylovaa/post-comment-service/internal/http/middleware"
	"github.com/pribylovaa/post-comment-service/internal/models"
	"github.com/pribylovaa/post-comment-service/internal/service"
	"github.com/pribylovaa/post-comment-service/internal/storage"
	"github.com/pribylovaa/post-comment-service/internal/validation"
	"github.com/pribylovaa/post-comment-service/mocks"
)

func newTestAPI(t *testing.T) (http.Handler, *mocks.MockStorage, *prometheus.Registry) {
	t.Helper()

	ctrl := gomock.NewController(t)
	ms := mocks.NewMockStorage(ctrl)

	cfg := config.Config{Limits: config.LimitsConfig{DefaultPageSize: 20, MaxPageSize: 300}}
	svc := service.New(ms, validation.New(), cfg)

	reg := prometheus.NewRegistry()
	metrics, err := middleware.NewMetrics(reg)
	require.NoError(t, err)

	h := NewRouter(svc, Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout: time.Second,
		Limits:  cfg.Limits,
		Metrics: metrics,
	})

	return h, ms, reg
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rr
}

func TestRouter_Save(t *testing.T) {
	h, ms, _ := newTestAPI(t)

	ms.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, c models.Comment) (*models.Comment, error) {
			_, hasDeadline := ctx.Deadline()
			require.True(t, hasDeadline)
			require.Empty(t, c.ID)
			c.ID = "65f1a2b3c4d5e6f708192a3b"
			return &c, nil
		})

	rr := serve(h, http.MethodPost, "/api/v1/post_comment/save", `{"postId":"p1","comment":"hi"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"commentId":"65f1a2b3c4d5e6f708192a3b"`)
	require.NotEmpty(t, rr.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_SaveInvalid_NoStoreCall(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rr := serve(h, http.MethodPost, "/api/v1/post_comment/save", `{}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.JSONEq(t,
		`{"message":"Post Id cannot be null!, Comment cannot be null","errorCode":"BAD_REQUEST"}`,
		rr.Body.String())
}

func TestRouter_ListByPost(t *testing.T) {
	h, ms, _ := newTestAPI(t)

	ms.EXPECT().
		ListByPost(gomock.Any(), "p1", models.ListParams{Skip: 10, Limit: 5}).
		Return([]models.Comment{{ID: "a", PostID: "p1", Body: "x"}}, nil)

	rr := serve(h, http.MethodGet, "/api/v1/post_comment/p1?page=2&size=5", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(h, http.MethodGet, "/api/v1/post_comment/p1?page=-1", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_HugePageIsNotFound(t *testing.T) {
	h, _, _ := newTestAPI(t)

	// без обращения к хранилищу: mock упадёт на неожиданном вызове.
	rr := serve(h, http.MethodGet, "/api/v1/post_comment/p1?page=4611686018427387904&size=4", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t, `{"message":"No comments found for the post","errorCode":"NOT_FOUND"}`, rr.Body.String())
}

func TestRouter_DeleteRoutesDoNotCollide(t *testing.T) {
	h, ms, _ := newTestAPI(t)

	ms.EXPECT().ListByPost(gomock.Any(), "p1", models.ListParams{}).Return(nil, nil)
	rr := serve(h, http.MethodDelete, "/api/v1/post_comment/post/p1", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t, `{"message":"No comments found for the post","errorCode":"NOT_FOUND"}`, rr.Body.String())

	ms.EXPECT().CommentByID(gomock.Any(), "c1").Return(nil, storage.ErrNotFound)
	rr = serve(h, http.MethodDelete, "/api/v1/post_comment/c1", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.JSONEq(t, `{"message":"Comment Not Found","errorCode":"NOT_FOUND"}`, rr.Body.String())
}

func TestRouter_UpdateStoreFailureIs500(t *testing.T) {
	h, ms, reg := newTestAPI(t)

	ms.EXPECT().CommentByID(gomock.Any(), "c1").Return(nil, errors.New("server selection timeout"))

	rr := serve(h, http.MethodPut, "/api/v1/post_comment/c1", `{"comment":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Contains(t, rr.Body.String(), `"errorCode":"INTERNAL_SERVER_ERROR"`)
	require.Contains(t, rr.Body.String(), "server selection timeout")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	var route string
	for _, mf := range mfs {
		if mf.GetName() != "post_comments_http_requests_total" {
			continue
		}
		for _, lp := range mf.GetMetric()[0].GetLabel() {
			if lp.GetName() == "route" {
				route = lp.GetValue()
			}
		}
	}
	require.Equal(t, "/api/v1/post_comment/{commentId}", route)
}

func TestRouter_UnknownPathIs404(t *testing.T) {
	h, _, _ := newTestAPI(t)

	for _, target := range []string{"/api/v2/other", "/api/v1/post_comment/post/p1/extra"} {
		rr := serve(h, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, rr.Code, target)
		require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		require.JSONEq(t,
			`{"message":"No handler found for GET `+target+`","errorCode":"NOT_FOUND"}`,
			rr.Body.String())
	}
}

func TestRouter_UnsupportedMethodIs405(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rr := serve(h, http.MethodPatch, "/api/v1/post_comment/c1", "")
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.JSONEq(t,
		`{"message":"Request method 'PATCH' is not supported","errorCode":"METHOD_NOT_ALLOWED"}`,
		rr.Body.String())
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestOpsRouter(t *testing.T) {
	var ready atomic.Bool
	var pingErr error
	store := pingerFunc(func(context.Context) error { return pingErr })

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "t"}))

	h := NewOpsRouter(store, &ready, reg)

	rr := serve(h, http.MethodGet, "/livez", "")
	require.Equal(t, http.StatusOK, rr.Code)

	// ещё не готов
	rr = serve(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	ready.Store(true)
	rr = serve(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)

	pingErr = errors.New("no reachable servers")
	rr = serve(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.Equal(t, "store unavailable", rr.Body.String())

	rr = serve(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "test_total")
}
