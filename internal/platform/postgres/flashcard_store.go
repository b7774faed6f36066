package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

const flashcardSelect = `
	SELECT id, deck_id, question, answer, created_at, updated_at
	FROM flashcards
`

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the FlashcardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateMultiple implements store.FlashcardStore.CreateMultiple
// All cards are validated before the first insert. Callers must run it
// inside a transaction to get all-or-nothing semantics.
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	for i, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("flashcard validation failed during batch create",
				slog.String("error", err.Error()),
				slog.Int("index", i))
			return fmt.Errorf("flashcard %d: %w", i, err)
		}
	}

	query := `
		INSERT INTO flashcards (deck_id, question, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for i, card := range cards {
		err := s.db.QueryRowContext(
			ctx,
			query,
			card.DeckID,
			card.Question,
			card.Answer,
			card.CreatedAt,
			card.UpdatedAt,
		).Scan(&card.ID)
		if err != nil {
			if IsForeignKeyViolation(err) {
				log.Warn("foreign key violation during flashcard creation",
					slog.String("error", err.Error()),
					slog.Int64("deck_id", card.DeckID))
				return fmt.Errorf("%w: deck with ID %d not found", store.ErrInvalidEntity, card.DeckID)
			}
			log.Error("failed to insert flashcard",
				slog.String("error", err.Error()),
				slog.Int("index", i),
				slog.Int64("deck_id", card.DeckID))
			return store.NewStoreError("flashcard", "create", fmt.Sprintf("failed to insert flashcard %d", i), MapError(err))
		}
	}

	log.Info("flashcards created",
		slog.Int("count", len(cards)),
		slog.Int64("deck_id", cards[0].DeckID))
	return nil
}

// ListByDeck implements store.FlashcardStore.ListByDeck
func (s *PostgresFlashcardStore) ListByDeck(ctx context.Context, deckID int64) ([]domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := listFlashcardsByDeck(ctx, s.db, deckID)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, err
	}
	return cards, nil
}

func listFlashcardsByDeck(ctx context.Context, db store.DBTX, deckID int64) ([]domain.Flashcard, error) {
	rows, err := db.QueryContext(ctx, flashcardSelect+` WHERE deck_id = $1 ORDER BY id`, deckID)
	if err != nil {
		return nil, err
	}
	return scanFlashcards(rows)
}

func listAllFlashcards(ctx context.Context, db store.DBTX) ([]domain.Flashcard, error) {
	rows, err := db.QueryContext(ctx, flashcardSelect+` ORDER BY deck_id, id`)
	if err != nil {
		return nil, err
	}
	return scanFlashcards(rows)
}

func scanFlashcards(rows *sql.Rows) (cards []domain.Flashcard, err error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	cards = []domain.Flashcard{}
	for rows.Next() {
		var card domain.Flashcard
		if err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.Question,
			&card.Answer,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
