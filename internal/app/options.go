package service

import (
	"time"

	repository "github.com/okian/extrack/internal/adapters/repository"
	"github.com/okian/extrack/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore injects an already opened store. Start then skips driver
// selection; Stop still closes it.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.injected = store
		}
	}
}

// WithDriver selects the store backend opened by Start: memory, sqlite or mongo.
func WithDriver(driver string) Option {
	return func(s *Service) {
		if driver != "" {
			s.driver = driver
		}
	}
}

// WithSQLitePath sets the database file for the sqlite driver.
func WithSQLitePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.sqlitePath = path
		}
	}
}

// WithMongo sets the connection string and database for the mongo driver.
func WithMongo(uri, database string) Option {
	return func(s *Service) {
		if uri != "" {
			s.mongoURI = uri
		}
		if database != "" {
			s.mongoDatabase = database
		}
	}
}

// WithStoreTimeout bounds each store call.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

// WithClock replaces time.Now for exercise default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
