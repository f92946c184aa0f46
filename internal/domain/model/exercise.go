package model

import "time"

// Exercise is a single logged activity owned by a User.
type Exercise struct {
	ID          string
	UserID      string
	Description string
	Duration    int       // minutes
	Date        time.Time // calendar day, midnight UTC
}

// ExerciseInput is a validated exercise submission. A nil Date means today.
type ExerciseInput struct {
	Description string
	Duration    int
	Date        *time.Time
}

// LogFilter narrows a user's exercise log. From and To are inclusive and
// combined with AND; a zero Limit means no limit.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// Match reports whether e falls inside the date window of f. Limit is not
// considered.
func (f LogFilter) Match(e Exercise) bool {
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	return true
}
