package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
// Read methods return decks with their Flashcards and User relations loaded.
type DeckStore interface {
	// Create saves a new deck and assigns its ID.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, deck *domain.Deck) error

	// UpdatePDFPath records where the deck's source document was stored.
	// Returns ErrDeckNotFound if the deck does not exist.
	UpdatePDFPath(ctx context.Context, id int64, path string) error

	// GetByID retrieves a deck with its flashcards and owner.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Deck, error)

	// List returns every deck ordered by ID, with flashcards and owner.
	List(ctx context.Context) ([]*domain.Deck, error)

	// WithTx returns a new DeckStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
