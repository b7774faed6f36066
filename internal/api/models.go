package api

import "github.com/phrazzld/scry-decks/internal/domain"

// CreateUserRequest defines the payload for creating a user.
type CreateUserRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// DeckCreatedResponse is returned by POST /api/decks.
type DeckCreatedResponse struct {
	Message string       `json:"message"`
	Deck    *domain.Deck `json:"deck"`
}

// UserCreatedResponse is returned by POST /api/users.
type UserCreatedResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}
