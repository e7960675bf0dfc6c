package domain

import "time"

// User is the domain model for everyone on the platform: end-users who submit
// tickets as well as staff who manage them. Capabilities come from the role
// set, not a subject-type split.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
