package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/post-comment-service/internal/errors"
)

const (
	msgDeleted    = "Successfully deleted the comment"
	msgDeletedAll = "Successfully deleted all the comments on the post"
	msgMalformed  = "Malformed JSON request"
)

// SaveComment - POST /save.
func (h *Handlers) SaveComment(w http.ResponseWriter, r *http.Request) {
	var in Comment
	if err := decode(r, &in); err != nil {
		apierrors.WriteError(w, r, badRequest(msgMalformed))
		return
	}

	saved, err := h.comments.CreateComment(r.Context(), in.ToModel())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CommentFromModel(*saved))
}

// ListByPost - GET /{postId}?page=&size=.
func (h *Handlers) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")

	page, err := queryInt(r, "page", 0)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	size, err := queryInt(r, "size", h.limits.DefaultPageSize)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), postID, page, size)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CommentsFromModels(comments))
}

// UpdateComment - PUT /{commentId}.
func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "commentId")

	var in Comment
	if err := decode(r, &in); err != nil {
		apierrors.WriteError(w, r, badRequest(msgMalformed))
		return
	}

	updated, err := h.comments.UpdateComment(r.Context(), id, in.ToModel())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CommentFromModel(*updated))
}

// DeleteComment - DELETE /{commentId}.
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.comments.DeleteComment(r.Context(), chi.URLParam(r, "commentId")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, msgDeleted)
}

// DeleteAllForPost - DELETE /post/{postId}.
func (h *Handlers) DeleteAllForPost(w http.ResponseWriter, r *http.Request) {
	if err := h.comments.DeleteAllForPost(r.Context(), chi.URLParam(r, "postId")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, msgDeletedAll)
}

// queryInt читает целочисленный query-параметр; отсутствует -> def.
// Диапазон проверяет сервисный слой.
func queryInt(r *http.Request, name string, def int64) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return n, nil
}
