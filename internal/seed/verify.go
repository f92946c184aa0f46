package seed

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/extrack/internal/domain/model"
	"github.com/okian/extrack/pkg/logger"
)

// verifyLimit is the limit used for the capped log check.
const verifyLimit = 2

// ErrMismatch marks a log that disagrees with what was seeded.
var ErrMismatch = errors.New("log mismatch")

// verifyUser checks one user's log three ways: the full log, a date window
// and a limit.
func verifyUser(ctx context.Context, client *httpClient, cfg *Config, u User, planned []Exercise) error {
	base := "/api/users/" + u.ID + "/logs"

	var full Log
	if err := client.getJSON(ctx, base, &full); err != nil {
		return err
	}
	if err := checkLog(full, u, len(planned)); err != nil {
		return fmt.Errorf("full log: %w", err)
	}

	from, to := verifyWindow(cfg.Start, cfg.Days)
	q := url.Values{}
	q.Set("from", from.Format(time.DateOnly))
	q.Set("to", to.Format(time.DateOnly))
	var window Log
	if err := client.getJSON(ctx, base+"?"+q.Encode(), &window); err != nil {
		return err
	}
	if err := checkLog(window, u, expectedInWindow(planned, from, to)); err != nil {
		return fmt.Errorf("window log: %w", err)
	}
	for _, e := range window.Log {
		d, err := time.Parse(model.DisplayLayout, e.Date)
		if err != nil {
			return fmt.Errorf("window log: %w: unparseable date %q", ErrMismatch, e.Date)
		}
		if d.Before(from) || d.After(to) {
			return fmt.Errorf("window log: %w: %s outside %s..%s", ErrMismatch, e.Date,
				from.Format(time.DateOnly), to.Format(time.DateOnly))
		}
	}

	q = url.Values{}
	q.Set("limit", strconv.Itoa(verifyLimit))
	var limited Log
	if err := client.getJSON(ctx, base+"?"+q.Encode(), &limited); err != nil {
		return err
	}
	if err := checkLog(limited, u, min(verifyLimit, len(planned))); err != nil {
		return fmt.Errorf("limited log: %w", err)
	}
	return nil
}

func checkLog(l Log, u User, want int) error {
	switch {
	case l.ID != u.ID || l.Username != u.Username:
		return fmt.Errorf("%w: owner %s/%s, want %s/%s", ErrMismatch, l.ID, l.Username, u.ID, u.Username)
	case l.Count != len(l.Log):
		return fmt.Errorf("%w: count %d but %d entries", ErrMismatch, l.Count, len(l.Log))
	case l.Count != want:
		return fmt.Errorf("%w: count %d, want %d", ErrMismatch, l.Count, want)
	}
	return nil
}

// verifyAll verifies every user and returns the joined failures.
func verifyAll(ctx context.Context, client *httpClient, cfg *Config, users []User, planned map[string][]Exercise, stats *Stats) error {
	var errs []error
	for _, u := range users {
		if err := verifyUser(ctx, client, cfg, u, planned[u.ID]); err != nil {
			logger.Get().Warn(ctx, "verification failed", logger.String("user_id", u.ID), logger.Error(err))
			errs = append(errs, fmt.Errorf("user %s: %w", u.ID, err))
			continue
		}
		stats.UsersVerified++
	}
	return errors.Join(errs...)
}
