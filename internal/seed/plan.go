package seed

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	minDuration   = 5
	durationRange = 85
)

var activities = []string{"run", "swim", "cycle", "row", "climb", "yoga", "lift", "walk"}

// usernames returns n usernames sharing a per-run tag so repeated runs
// against the same store stay distinguishable.
func usernames(n int) []string {
	tag := uuid.NewString()[:8]
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("seed-%s-%03d", tag, i)
	}
	return out
}

// planExercises lays out perUser exercises for userID, cycling through the
// window one day at a time.
func planExercises(userID string, userIndex, perUser int, start time.Time, days int) []Exercise {
	out := make([]Exercise, perUser)
	for j := range out {
		out[j] = Exercise{
			UserID:      userID,
			Description: activities[(userIndex+j)%len(activities)],
			Duration:    minDuration + (userIndex*7+j*13)%durationRange,
			Date:        dayOf(start, j%days).Format(time.DateOnly),
		}
	}
	return out
}

// verifyWindow returns the inclusive [from, to] range checked by
// verification: the middle half of the seeding window.
func verifyWindow(start time.Time, days int) (from, to time.Time) {
	return dayOf(start, days/4), dayOf(start, days/4+max(days/2-1, 0))
}

// expectedInWindow counts planned exercises dated inside [from, to].
func expectedInWindow(planned []Exercise, from, to time.Time) int {
	n := 0
	for _, e := range planned {
		d, err := time.Parse(time.DateOnly, e.Date)
		if err != nil {
			continue
		}
		if !d.Before(from) && !d.After(to) {
			n++
		}
	}
	return n
}

func dayOf(start time.Time, offset int) time.Time {
	y, m, d := start.UTC().Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, time.UTC)
}
