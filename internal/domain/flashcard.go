package domain

import (
	"errors"
	"strings"
	"time"
)

// Flashcard validation errors
var (
	// ErrFlashcardDeckIDEmpty is returned when a flashcard is not bound to a deck.
	ErrFlashcardDeckIDEmpty = errors.New("flashcard deck ID cannot be empty")

	// ErrFlashcardQuestionEmpty is returned when a flashcard has no question.
	ErrFlashcardQuestionEmpty = errors.New("flashcard question cannot be empty")

	// ErrFlashcardAnswerEmpty is returned when a flashcard has no answer.
	ErrFlashcardAnswerEmpty = errors.New("flashcard answer cannot be empty")
)

// FlashcardContent is a single question/answer pair, as produced by the
// generation adapter before it is bound to a deck.
type FlashcardContent struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Flashcard is a persisted question/answer pair belonging to exactly one Deck.
type Flashcard struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFlashcard binds content to a deck. Question and answer are always
// present together; a pair missing either is rejected.
func NewFlashcard(deckID int64, content FlashcardContent) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		DeckID:    deckID,
		Question:  strings.TrimSpace(content.Question),
		Answer:    strings.TrimSpace(content.Answer),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.DeckID <= 0 {
		return ErrFlashcardDeckIDEmpty
	}

	if f.Question == "" {
		return ErrFlashcardQuestionEmpty
	}

	if f.Answer == "" {
		return ErrFlashcardAnswerEmpty
	}

	return nil
}

// NewFlashcards binds every content pair to the deck, failing on the first
// invalid pair so that no partial set is produced.
func NewFlashcards(deckID int64, contents []FlashcardContent) ([]*Flashcard, error) {
	cards := make([]*Flashcard, 0, len(contents))
	for _, content := range contents {
		card, err := NewFlashcard(deckID, content)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
