//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/postgres"
	"github.com/phrazzld/scry-decks/internal/store"
	"github.com/phrazzld/scry-decks/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)
		decks := postgres.NewPostgresDeckStore(tx, nil)
		cards := postgres.NewPostgresFlashcardStore(tx, nil)

		user, err := domain.NewUser("Integration User")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, user))
		require.NotZero(t, user.ID)

		deck, err := domain.NewDeck(user.ID, "Integration Deck")
		require.NoError(t, err)
		require.NoError(t, decks.Create(ctx, deck))
		require.NoError(t, decks.UpdatePDFPath(ctx, deck.ID, "pdfs/integration.pdf"))

		flashcards, err := domain.NewFlashcards(deck.ID, []domain.FlashcardContent{
			{Question: "Q1", Answer: "A1"},
			{Question: "Q2", Answer: "A2"},
		})
		require.NoError(t, err)
		require.NoError(t, cards.CreateMultiple(ctx, flashcards))

		got, err := decks.GetByID(ctx, deck.ID)
		require.NoError(t, err)
		assert.Equal(t, "pdfs/integration.pdf", got.PDFPath)
		assert.Equal(t, user.Name, got.User.Name)
		require.Len(t, got.Flashcards, 2)
		assert.Equal(t, "Q1", got.Flashcards[0].Question)

		require.NoError(t, users.Delete(ctx, user.ID))
		_, err = decks.GetByID(ctx, deck.ID)
		assert.ErrorIs(t, err, store.ErrDeckNotFound, "decks cascade with their owner")

		remaining, err := cards.ListByDeck(ctx, deck.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining, "flashcards cascade with their deck")

		// A failed statement aborts the transaction, so this check runs last.
		orphan, err := domain.NewDeck(user.ID, "Orphan")
		require.NoError(t, err)
		assert.ErrorIs(t, decks.Create(ctx, orphan), store.ErrInvalidEntity)
	})
}
