package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/pribylovaa/post-comment-service/internal/models"
	"github.com/pribylovaa/post-comment-service/internal/storage"
)

// memStore - in-memory storage.Storage для сценарных тестов.
// Порядок выдачи - порядок вставки, как сортировка по _id в MongoDB.
type memStore struct {
	mu    sync.Mutex
	seq   int
	order []string
	byID  map[string]models.Comment
}

var _ storage.Storage = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]models.Comment)}
}

func (m *memStore) Save(_ context.Context, c models.Comment) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		m.seq++
		c.ID = fmt.Sprintf("%024x", m.seq)
		m.order = append(m.order, c.ID)
	} else if _, ok := m.byID[c.ID]; !ok {
		return nil, storage.ErrNotFound
	}

	m.byID[c.ID] = c
	out := c
	return &out, nil
}

func (m *memStore) CommentByID(_ context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) ListByPost(_ context.Context, postID string, p models.ListParams) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Comment
	for _, id := range m.order {
		if c, ok := m.byID[id]; ok && c.PostID == postID {
			matched = append(matched, c)
		}
	}

	if p.Skip >= int64(len(matched)) {
		return []models.Comment{}, nil
	}
	matched = matched[p.Skip:]
	if p.Limit > 0 && p.Limit < int64(len(matched)) {
		matched = matched[:p.Limit]
	}
	return matched, nil
}

func (m *memStore) Delete(_ context.Context, c models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[c.ID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.byID, c.ID)
	return nil
}

func (m *memStore) DeleteMany(_ context.Context, comments []models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range comments {
		delete(m.byID, c.ID)
	}
	return nil
}

func (m *memStore) Ping(context.Context) error  { return nil }
func (m *memStore) Close(context.Context) error { return nil }

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
