package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// CreateMultiple saves all cards and assigns their IDs.
	// IMPORTANT: run it within a transaction (WithTx + RunInTransaction) so
	// that a deck never ends up with a partial set of cards:
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return flashcardStore.WithTx(tx).CreateMultiple(ctx, cards)
	//   })
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// ListByDeck returns a deck's cards ordered by ID.
	ListByDeck(ctx context.Context, deckID int64) ([]domain.Flashcard, error)

	// WithTx returns a new FlashcardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FlashcardStore
}
