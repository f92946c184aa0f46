package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/extrack/internal/domain/model"
	"github.com/okian/extrack/pkg/metrics"
)

// instrumented records latency and failures of every call on the wrapped
// Store. ErrNotFound is an expected outcome and is not counted as a failure.
type instrumented struct {
	next Store
}

// Instrument wraps s so each operation is observed in pkg/metrics.
func Instrument(s Store) Store {
	if s == nil {
		return nil
	}
	return &instrumented{next: s}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	failed := err != nil && !errors.Is(err, ErrNotFound)
	metrics.RecordStoreOperation(i.next.Driver(), op, float64(time.Since(start).Microseconds())/1000, failed)
}

func (i *instrumented) Driver() string { return i.next.Driver() }

func (i *instrumented) InsertUser(ctx context.Context, username string) (u model.User, err error) {
	defer func(start time.Time) { i.observe("insert_user", start, err) }(time.Now())
	return i.next.InsertUser(ctx, username)
}

func (i *instrumented) GetUser(ctx context.Context, id string) (u model.User, err error) {
	defer func(start time.Time) { i.observe("get_user", start, err) }(time.Now())
	return i.next.GetUser(ctx, id)
}

func (i *instrumented) ListUsers(ctx context.Context) (users []model.User, err error) {
	defer func(start time.Time) { i.observe("list_users", start, err) }(time.Now())
	return i.next.ListUsers(ctx)
}

func (i *instrumented) InsertExercise(ctx context.Context, e model.Exercise) (out model.Exercise, err error) {
	defer func(start time.Time) { i.observe("insert_exercise", start, err) }(time.Now())
	return i.next.InsertExercise(ctx, e)
}

func (i *instrumented) ListExercises(ctx context.Context, userID string, f model.LogFilter) (out []model.Exercise, err error) {
	defer func(start time.Time) { i.observe("list_exercises", start, err) }(time.Now())
	return i.next.ListExercises(ctx, userID, f)
}

func (i *instrumented) Counts(ctx context.Context) (users, exercises int64, err error) {
	defer func(start time.Time) { i.observe("counts", start, err) }(time.Now())
	return i.next.Counts(ctx)
}

func (i *instrumented) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { i.observe("ping", start, err) }(time.Now())
	return i.next.Ping(ctx)
}

func (i *instrumented) Close(ctx context.Context) error {
	return i.next.Close(ctx)
}
