package seed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/extrack/pkg/logger"
)

// workerChannelMultiplier sizes the job buffer relative to the pool.
const workerChannelMultiplier = 2

// createUsers creates one user per name, in order.
func createUsers(ctx context.Context, client *httpClient, names []string, stats *Stats) ([]User, error) {
	users := make([]User, 0, len(names))
	for _, name := range names {
		var u User
		if err := client.postJSON(ctx, "/api/users", map[string]string{"username": name}, &u); err != nil {
			return users, fmt.Errorf("create user %q: %w", name, err)
		}
		if u.ID == "" || u.Username != name {
			return users, fmt.Errorf("create user %q: unexpected response %+v", name, u)
		}
		users = append(users, u)
	}
	stats.UsersCreated = len(users)
	return users, nil
}

// submitExercises posts every planned exercise over a bounded worker pool.
func submitExercises(ctx context.Context, client *httpClient, cfg *Config, planned []Exercise, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "submitting exercises", logger.Int("exercises", len(planned)), logger.Int("workers", cfg.Workers))

	var submitted, failed int64
	jobs := make(chan Exercise, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range jobs {
				var resp struct {
					ID       string `json:"_id"`
					Duration int    `json:"duration"`
				}
				err := client.postJSON(ctx, "/api/users/"+e.UserID+"/exercises", e, &resp)
				if err == nil && (resp.ID != e.UserID || resp.Duration != e.Duration) {
					err = fmt.Errorf("unexpected response %+v", resp)
				}
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						log.Warn(ctx, "exercise submission failed", logger.String("user_id", e.UserID), logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&submitted, 1)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, e := range planned {
			select {
			case <-ctx.Done():
				return
			case jobs <- e:
			}
		}
	}()

	wg.Wait()

	stats.ExercisesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ExercisesFailed = int(atomic.LoadInt64(&failed))

	if err := ctx.Err(); err != nil {
		return err
	}
	if stats.ExercisesFailed > 0 {
		return fmt.Errorf("%d of %d exercise submissions failed", stats.ExercisesFailed, len(planned))
	}
	return nil
}
