package models

import "time"

// Role constants for user authorization.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ValidRoles = []string{RoleUser, RoleAdmin}

// User is the profile document keyed by the auth uid. The legacy inline
// favorites/readingGoals arrays still present on older documents are not
// mapped; the favorites and goals collections are authoritative.
type User struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	Bio          string    `json:"bio,omitempty"`
	PhotoURL     string    `json:"photoURL,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	IsAdmin      bool      `json:"isAdmin"` // derived from Role, never stored
	PasswordHash string    `json:"-"`       // bcrypt hash; empty for externally authenticated users
}

// Identity is what the authentication boundary tells us about a caller.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

type NewUser struct {
	UID          string // generated when empty
	Email        string
	DisplayName  string
	Role         string
	PasswordHash string
}

// ProfileUpdate is a partial edit of the caller's own profile; nil fields are
// left untouched.
type ProfileUpdate struct {
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,min=1,max=100"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	PhotoURL    *string `json:"photoURL,omitempty" validate:"omitempty,url"`
}
