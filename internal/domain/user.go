package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength is the longest user name accepted.
const MaxNameLength = 255

// User represents a person who owns decks. Users carry no credentials;
// they are created by name only.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new, not yet persisted User with the given name.
// The ID is assigned by the store on insert.
// Returns a *ValidationError if the name is empty or too long.
func NewUser(name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	verr := &ValidationError{}
	switch {
	case u.Name == "":
		verr.Add("name", "The name field is required.")
	case utf8.RuneCountInString(u.Name) > MaxNameLength:
		verr.Add("name", "The name field must not be greater than 255 characters.")
	}
	return verr.OrNil()
}
