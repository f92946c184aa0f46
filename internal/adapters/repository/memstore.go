package repository

import (
	"context"
	"sync"

	"github.com/okian/extrack/internal/domain/model"
)

// MemoryStore is an in-process Store. Contents are lost on Close.
type MemoryStore struct {
	mu        sync.RWMutex
	opts      storeOptions
	users     []model.User
	userIndex map[string]int
	exercises map[string][]model.Exercise
	total     int64
	closed    bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		opts:      applyOptions(opts),
		userIndex: make(map[string]int),
		exercises: make(map[string][]model.Exercise),
	}
}

func (s *MemoryStore) Driver() string { return "memory" }

func (s *MemoryStore) InsertUser(ctx context.Context, username string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.User{}, ErrClosed
	}

	u := model.User{ID: s.opts.newID(), Username: username}
	s.userIndex[u.ID] = len(s.users)
	s.users = append(s.users, u)
	return u, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.User{}, ErrClosed
	}

	i, ok := s.userIndex[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return s.users[i], nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *MemoryStore) InsertExercise(ctx context.Context, e model.Exercise) (model.Exercise, error) {
	if err := ctx.Err(); err != nil {
		return model.Exercise{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Exercise{}, ErrClosed
	}

	e.ID = s.opts.newID()
	e.Date = model.Day(e.Date)
	s.exercises[e.UserID] = append(s.exercises[e.UserID], e)
	s.total++
	return e, nil
}

func (s *MemoryStore) ListExercises(ctx context.Context, userID string, f model.LogFilter) ([]model.Exercise, error) {
	if f.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := []model.Exercise{}
	for _, e := range s.exercises[userID] {
		if !f.Match(e) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) Counts(ctx context.Context) (int64, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, 0, ErrClosed
	}
	return int64(len(s.users)), s.total, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return ctx.Err()
}

// Close drops all records. It is safe to call more than once.
func (s *MemoryStore) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.users = nil
	s.userIndex = nil
	s.exercises = nil
	return nil
}
