// Package model contains domain models passed between layers.
package model

// User is a named account that exercises are logged against.
// Usernames are not unique.
type User struct {
	ID       string
	Username string
}
