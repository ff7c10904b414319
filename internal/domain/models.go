package domain

import "time"

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	ID          string
	Name        string
	Email       string
	Status      UserStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// UserWithPassword is returned only by store lookups that feed the
// authentication path; the hash must not travel past the service layer.
type UserWithPassword struct {
	User
	PasswordHash string
}
