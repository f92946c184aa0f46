// Package types contains the response shapes shared by the service and the
// HTTP layer.
package types

// UserView is the public form of a user.
type UserView struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

// ExerciseView answers an exercise submission. ID is the owning user's id.
type ExerciseView struct {
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
	ID          string `json:"_id"`
}

// LogEntry is one exercise inside a LogView.
type LogEntry struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogView answers a log query. Count always equals len(Log).
type LogView struct {
	Username string     `json:"username"`
	Count    int        `json:"count"`
	ID       string     `json:"_id"`
	Log      []LogEntry `json:"log"`
}
