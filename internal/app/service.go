// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/extrack/internal/adapters/repository"
	"github.com/okian/extrack/internal/config"
	"github.com/okian/extrack/internal/domain/model"
	"github.com/okian/extrack/internal/domain/types"
	"github.com/okian/extrack/pkg/logger"
	"github.com/okian/extrack/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultStoreTimeout = 5 * time.Second
	closeTimeout        = 10 * time.Second
)

// Service implements the API dependencies for the exercise tracker.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	injected repository.Store

	// Store selection
	driver        string
	sqlitePath    string
	mongoURI      string
	mongoDatabase string
	storeTimeout  time.Duration

	now func() time.Time

	started bool

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		driver:        config.DriverMemory,
		sqlitePath:    "extrack.db",
		mongoURI:      "mongodb://localhost:27017",
		mongoDatabase: "extrack",
		storeTimeout:  defaultStoreTimeout,
		now:           time.Now,
		logger:        nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the configured store. It is a no-op on a started service.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	store := s.injected
	if store == nil {
		s.logger.Info(ctx, "opening store", logger.String("driver", s.driver))
		opened, err := s.openStore(ctx)
		if err != nil {
			return fmt.Errorf("open %s store: %w", s.driver, err)
		}
		store = opened
	}
	s.store = repository.Instrument(store)
	s.started = true

	s.logger.Info(ctx, "exercise service started", logger.String("driver", s.store.Driver()))
	return nil
}

func (s *Service) openStore(ctx context.Context) (repository.Store, error) {
	switch s.driver {
	case config.DriverMemory:
		return repository.NewMemoryStore(), nil
	case config.DriverSQLite:
		return repository.NewSQLiteStore(ctx, s.sqlitePath)
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
		return repository.NewMongoStore(ctx, s.mongoURI, s.mongoDatabase)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, s.driver)
	}
}

// Stop closes the store. It is safe to call on a stopped service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping exercise service...")
	if err := s.store.Close(ctx); err != nil {
		s.logger.Error(ctx, "store close failed", logger.Error(err))
	}
	s.store = nil
	s.started = false
	s.logger.Info(ctx, "exercise service stopped")
}

// acquire returns the live store and a context bounded by the store timeout.
func (s *Service) acquire(ctx context.Context) (repository.Store, context.Context, context.CancelFunc, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil, ctx, func() {}, ErrNotStarted
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	return store, ctx, cancel, nil
}

// CreateUser persists a new user.
func (s *Service) CreateUser(ctx context.Context, username string) (types.UserView, error) {
	const op = "service.create_user"
	store, ctx, cancel, err := s.acquire(ctx)
	defer cancel()
	if err != nil {
		return types.UserView{}, fmt.Errorf("%s: %w", op, err)
	}

	u, err := store.InsertUser(ctx, username)
	if err != nil {
		return types.UserView{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordUserCreated()
	s.logger.Debug(ctx, "user created", logger.String("id", u.ID), logger.String("username", u.Username))
	return userView(u), nil
}

// ListUsers returns every user in store order.
func (s *Service) ListUsers(ctx context.Context) ([]types.UserView, error) {
	const op = "service.list_users"
	store, ctx, cancel, err := s.acquire(ctx)
	defer cancel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]types.UserView, len(users))
	for i, u := range users {
		out[i] = userView(u)
	}
	return out, nil
}

// AddExercise logs an exercise for userID. The returned view carries the
// user's id, not the exercise's.
func (s *Service) AddExercise(ctx context.Context, userID string, in model.ExerciseInput) (types.ExerciseView, error) {
	const op = "service.add_exercise"
	store, ctx, cancel, err := s.acquire(ctx)
	defer cancel()
	if err != nil {
		return types.ExerciseView{}, fmt.Errorf("%s: %w", op, err)
	}

	u, err := store.GetUser(ctx, userID)
	if err != nil {
		return types.ExerciseView{}, fmt.Errorf("%s: %w", op, err)
	}

	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}
	e, err := store.InsertExercise(ctx, model.Exercise{
		UserID:      u.ID,
		Description: in.Description,
		Duration:    in.Duration,
		Date:        model.Day(date),
	})
	if err != nil {
		return types.ExerciseView{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordExerciseLogged()

	return types.ExerciseView{
		Username:    u.Username,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        model.FormatDate(e.Date),
		ID:          u.ID,
	}, nil
}

// Log returns the exercises of userID that match f.
func (s *Service) Log(ctx context.Context, userID string, f model.LogFilter) (types.LogView, error) {
	const op = "service.log"
	store, ctx, cancel, err := s.acquire(ctx)
	defer cancel()
	if err != nil {
		return types.LogView{}, fmt.Errorf("%s: %w", op, err)
	}

	u, err := store.GetUser(ctx, userID)
	if err != nil {
		return types.LogView{}, fmt.Errorf("%s: %w", op, err)
	}

	exercises, err := store.ListExercises(ctx, u.ID, f)
	if err != nil {
		return types.LogView{}, fmt.Errorf("%s: %w", op, err)
	}

	entries := make([]types.LogEntry, len(exercises))
	for i, e := range exercises {
		entries[i] = types.LogEntry{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        model.FormatDate(e.Date),
		}
	}
	metrics.RecordLogQuery(len(entries))

	return types.LogView{
		Username: u.Username,
		Count:    len(entries),
		ID:       u.ID,
		Log:      entries,
	}, nil
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	store, ctx, cancel, err := s.acquire(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	return store.Ping(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": started,
		"driver":  s.driver,
	}
	if !started {
		return stats
	}

	store, ctx, cancel, err := s.acquire(context.Background())
	defer cancel()
	if err != nil {
		return stats
	}
	stats["driver"] = store.Driver()

	users, exercises, err := store.Counts(ctx)
	if err != nil {
		stats["error"] = err.Error()
		return stats
	}
	stats["users"] = users
	stats["exercises"] = exercises

	metrics.UpdateTotalUsers(users)
	metrics.UpdateTotalExercises(exercises)

	return stats
}

func userView(u model.User) types.UserView {
	return types.UserView{Username: u.Username, ID: u.ID}
}
