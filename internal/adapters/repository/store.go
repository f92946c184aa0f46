// Package repository defines the record store interface and its backends.
package repository

import (
	"context"

	"github.com/okian/extrack/internal/domain/model"
)

// Store provides read/write access to users and their exercises.
type Store interface {
	// InsertUser persists a new user and returns it with its generated id.
	InsertUser(ctx context.Context, username string) (model.User, error)

	// GetUser returns the user with id.
	// Returns ErrNotFound if the id is unknown or malformed for the backend.
	GetUser(ctx context.Context, id string) (model.User, error)

	// ListUsers returns every user in insertion order.
	ListUsers(ctx context.Context) ([]model.User, error)

	// InsertExercise persists e and returns it with its generated id.
	// The caller is responsible for checking that e.UserID exists.
	InsertExercise(ctx context.Context, e model.Exercise) (model.Exercise, error)

	// ListExercises returns the exercises of userID matching f, in insertion
	// order, truncated to f.Limit when it is positive.
	ListExercises(ctx context.Context, userID string, f model.LogFilter) ([]model.Exercise, error)

	// Counts returns the number of stored users and exercises.
	Counts(ctx context.Context) (users, exercises int64, err error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Driver names the backend, e.g. "memory".
	Driver() string

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}
