package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTopicLength is the longest deck topic accepted.
const MaxTopicLength = 255

// Deck is a named collection of flashcards generated from one uploaded
// document, owned by a user.
//
// Flashcards and User are relations loaded by the store on read; they are
// never written through the Deck.
type Deck struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id"`
	Topic      string      `json:"topic"`
	PDFPath    string      `json:"pdf_path"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Flashcards []Flashcard `json:"flashcards"`
	User       *User       `json:"user,omitempty"`
}

// NewDeck creates a new, not yet persisted Deck for the given user.
func NewDeck(userID int64, topic string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		UserID:     userID,
		Topic:      strings.TrimSpace(topic),
		CreatedAt:  now,
		UpdatedAt:  now,
		Flashcards: []Flashcard{},
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	verr := &ValidationError{}
	ValidateTopic(verr, d.Topic)
	if d.UserID <= 0 {
		verr.Add("user_id", "The user id field is required.")
	}
	return verr.OrNil()
}

// ValidateTopic records topic problems on verr.
func ValidateTopic(verr *ValidationError, topic string) {
	switch {
	case strings.TrimSpace(topic) == "":
		verr.Add("topic", "The topic field is required.")
	case utf8.RuneCountInString(topic) > MaxTopicLength:
		verr.Add("topic", "The topic field must not be greater than 255 characters.")
	}
}
