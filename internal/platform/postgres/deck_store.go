package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

// deckSelect loads a deck together with its owner.
const deckSelect = `
	SELECT d.id, d.user_id, d.topic, d.pdf_path, d.created_at, d.updated_at,
	       u.id, u.name, u.created_at, u.updated_at
	FROM decks d
	JOIN users u ON u.id = d.user_id
`

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.DeckStore.Create
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("user_id", deck.UserID))
		return err
	}

	query := `
		INSERT INTO decks (user_id, topic, pdf_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		deck.UserID,
		deck.Topic,
		deck.PDFPath,
		deck.CreatedAt,
		deck.UpdatedAt,
	).Scan(&deck.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during deck creation",
				slog.String("error", err.Error()),
				slog.Int64("user_id", deck.UserID))
			return fmt.Errorf("%w: %w with ID %d not found", store.ErrInvalidEntity, store.ErrUserNotFound, deck.UserID)
		}

		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.Int64("user_id", deck.UserID))
		return store.NewStoreError("deck", "create", "failed to insert deck", MapError(err))
	}

	log.Info("deck created successfully",
		slog.Int64("deck_id", deck.ID),
		slog.Int64("user_id", deck.UserID))
	return nil
}

// UpdatePDFPath implements store.DeckStore.UpdatePDFPath
func (s *PostgresDeckStore) UpdatePDFPath(ctx context.Context, id int64, path string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE decks
		SET pdf_path = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, path, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update deck pdf path",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		log.Debug("deck not found for pdf path update", slog.Int64("deck_id", id))
		return err
	}

	log.Debug("deck pdf path updated",
		slog.Int64("deck_id", id),
		slog.String("pdf_path", path))
	return nil
}

// GetByID implements store.DeckStore.GetByID
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id int64) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := scanDeck(s.db.QueryRowContext(ctx, deckSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.Int64("deck_id", id))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return nil, err
	}

	cards, err := listFlashcardsByDeck(ctx, s.db, id)
	if err != nil {
		log.Error("failed to load deck flashcards",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", id))
		return nil, err
	}
	deck.Flashcards = cards

	return deck, nil
}

// List implements store.DeckStore.List
// Flashcards for all decks are loaded with a single query and grouped in memory.
func (s *PostgresDeckStore) List(ctx context.Context) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, deckSelect+` ORDER BY d.id`)
	if err != nil {
		log.Error("failed to list decks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	decks := []*domain.Deck{}
	byID := make(map[int64]*domain.Deck)
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row", slog.String("error", err.Error()))
			return nil, err
		}
		decks = append(decks, deck)
		byID[deck.ID] = deck
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating deck rows", slog.String("error", err.Error()))
		return nil, err
	}

	if len(decks) == 0 {
		return decks, nil
	}

	cards, err := listAllFlashcards(ctx, s.db)
	if err != nil {
		log.Error("failed to load flashcards for decks", slog.String("error", err.Error()))
		return nil, err
	}
	for _, card := range cards {
		if deck, ok := byID[card.DeckID]; ok {
			deck.Flashcards = append(deck.Flashcards, card)
		}
	}

	log.Debug("decks listed",
		slog.Int("deck_count", len(decks)),
		slog.Int("flashcard_count", len(cards)))
	return decks, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	deck := &domain.Deck{Flashcards: []domain.Flashcard{}}
	user := &domain.User{}
	err := row.Scan(
		&deck.ID,
		&deck.UserID,
		&deck.Topic,
		&deck.PDFPath,
		&deck.CreatedAt,
		&deck.UpdatedAt,
		&user.ID,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	deck.User = user
	return deck, nil
}
