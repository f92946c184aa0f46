package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/extrack/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes a complete seed run: health check, user creation,
// concurrent exercise submission and log verification.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting seed run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("users", cfg.Users),
		logger.Int("exercisesPerUser", cfg.ExercisesPerUser),
		logger.Int("workers", cfg.Workers),
		logger.String("start", cfg.Start.Format(time.DateOnly)),
		logger.Int("days", cfg.Days))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	users, err := createUsers(ctx, client, usernames(cfg.Users), stats)
	if err != nil {
		return stats, fmt.Errorf("user creation failed: %w", err)
	}

	planned := make(map[string][]Exercise, len(users))
	var all []Exercise
	for i, u := range users {
		p := planExercises(u.ID, i, cfg.ExercisesPerUser, cfg.Start, cfg.Days)
		planned[u.ID] = p
		all = append(all, p...)
	}
	stats.ExercisesPlanned = len(all)

	if err := submitExercises(ctx, client, cfg, all, stats); err != nil {
		return stats, fmt.Errorf("exercise submission failed: %w", err)
	}

	if err := verifyAll(ctx, client, cfg, users, planned, stats); err != nil {
		return stats, fmt.Errorf("verification failed: %w", err)
	}

	if cfg.OutputFile != "" {
		if err := savePlan(cfg.OutputFile, users, planned); err != nil {
			log.Warn(ctx, "failed to save seed plan", logger.Error(err))
		} else {
			log.Info(ctx, "seed plan saved", logger.String("file", cfg.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// checkServiceHealth verifies the service and its store are reachable.
func checkServiceHealth(ctx context.Context, client *httpClient) error {
	logger.Get().Info(ctx, "checking service health")
	var health struct {
		Status string `json:"status"`
	}
	if err := client.getJSON(ctx, "/healthz", &health); err != nil {
		return err
	}
	if health.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", health.Status)
	}
	return nil
}

type savedUser struct {
	User
	Exercises []Exercise `json:"exercises"`
}

// savePlan writes the seeded users and their exercises as JSON.
func savePlan(filename string, users []User, planned map[string][]Exercise) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	out := make([]savedUser, len(users))
	for i, u := range users {
		out[i] = savedUser{User: u, Exercises: planned[u.ID]}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.ExercisesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("usersCreated", stats.UsersCreated),
		logger.Int("exercisesPlanned", stats.ExercisesPlanned),
		logger.Int("exercisesSubmitted", stats.ExercisesSubmitted),
		logger.Int("exercisesFailed", stats.ExercisesFailed),
		logger.Int("usersVerified", stats.UsersVerified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("exercisesPerSecond", perSecond))
}
