// Package seed populates a running exercise tracker over HTTP and verifies
// that the log endpoint reflects what was written.
package seed

import (
	"errors"
	"time"
)

// Config holds configuration for a seed run.
type Config struct {
	BaseURL          string        // Base URL of the service
	Users            int           // Number of users to create
	ExercisesPerUser int           // Exercises logged for each user
	Workers          int           // Number of concurrent workers
	Timeout          time.Duration // HTTP request timeout
	Start            time.Time     // First date of the exercise window
	Days             int           // Length of the exercise window in days
	OutputFile       string        // Optional JSON dump of the seeded plan
	Verbose          bool          // Enable verbose logging
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid seed config")

// Validate rejects configurations that cannot produce a verifiable run.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return errors.Join(ErrInvalidConfig, errors.New("base url is required"))
	case c.Users < 1:
		return errors.Join(ErrInvalidConfig, errors.New("users must be at least 1"))
	case c.ExercisesPerUser < 1:
		return errors.Join(ErrInvalidConfig, errors.New("exercises per user must be at least 1"))
	case c.Workers < 1:
		return errors.Join(ErrInvalidConfig, errors.New("workers must be at least 1"))
	case c.Days < 1:
		return errors.Join(ErrInvalidConfig, errors.New("days must be at least 1"))
	}
	return nil
}

// User is a created user as returned by the API.
type User struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

// Exercise is one planned exercise submission.
type Exercise struct {
	UserID      string `json:"-"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogEntry is one entry of a fetched log.
type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// Log is the response of the log endpoint.
type Log struct {
	Username string     `json:"username"`
	Count    int        `json:"count"`
	ID       string     `json:"_id"`
	Log      []LogEntry `json:"log"`
}

// Stats holds run statistics
type Stats struct {
	UsersCreated       int
	ExercisesPlanned   int
	ExercisesSubmitted int
	ExercisesFailed    int
	UsersVerified      int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
