package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/extraction"
	"github.com/phrazzld/scry-decks/internal/generation"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/redact"
	"github.com/phrazzld/scry-decks/internal/store"
)

// MaxPDFSize is the largest accepted upload, 10240 KiB.
const MaxPDFSize = 10 * 1024 * 1024

const pdfMIMEType = "application/pdf"

const invalidUserMessage = "The selected user id is invalid."

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Data     []byte
}

// CreateDeckRequest carries the raw, unvalidated input for deck creation.
type CreateDeckRequest struct {
	Topic  string
	UserID int64
	PDF    *Upload
}

// FileStore persists uploaded documents.
type FileStore interface {
	// PutPDF stores data and returns its path relative to the store root.
	PutPDF(ctx context.Context, data []byte) (string, error)
	// Path resolves a stored relative path to a readable file path.
	Path(rel string) (string, error)
	// Delete removes a stored file.
	Delete(ctx context.Context, rel string) error
}

// DeckService provides deck-related operations.
type DeckService interface {
	// CreateDeck validates the request, stores the PDF, generates flashcards
	// from its text and returns the new deck with flashcards and owner.
	// Returns a *domain.ValidationError listing every offending field when
	// the input is invalid; nothing is written in that case.
	CreateDeck(ctx context.Context, req CreateDeckRequest) (*domain.Deck, error)

	// ListDecks returns every deck with flashcards and owner, ordered by ID.
	ListDecks(ctx context.Context) ([]*domain.Deck, error)

	// GetDeck retrieves a deck with flashcards and owner.
	// Returns ErrDeckNotFound if absent.
	GetDeck(ctx context.Context, id int64) (*domain.Deck, error)
}

// DeckServiceDeps groups the collaborators of the deck service.
type DeckServiceDeps struct {
	DB         *sql.DB
	Users      store.UserStore
	Decks      store.DeckStore
	Flashcards store.FlashcardStore
	Files      FileStore
	Extractor  extraction.Extractor
	Generator  generation.Generator
}

type deckServiceImpl struct {
	deps   DeckServiceDeps
	logger *slog.Logger
}

// NewDeckService creates a new DeckService.
// It returns an error if any of the required dependencies are nil.
func NewDeckService(deps DeckServiceDeps, logger *slog.Logger) (DeckService, error) {
	required := []struct {
		name  string
		isNil bool
	}{
		{"db", deps.DB == nil},
		{"users store", deps.Users == nil},
		{"decks store", deps.Decks == nil},
		{"flashcards store", deps.Flashcards == nil},
		{"file store", deps.Files == nil},
		{"extractor", deps.Extractor == nil},
		{"generator", deps.Generator == nil},
	}
	for _, r := range required {
		if r.isNil {
			return nil, &ServiceError{
				Operation: "create_service",
				Message:   r.name + " cannot be nil",
			}
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		deps:   deps,
		logger: logger.With(slog.String("component", "deck_service")),
	}, nil
}

// CreateDeck implements DeckService.CreateDeck.
//
// The deck row is committed before generation starts. The flashcards are
// inserted in one transaction afterwards, so a deck has either all of its
// cards or none.
func (s *deckServiceImpl) CreateDeck(ctx context.Context, req CreateDeckRequest) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	startTime := time.Now()

	// 1. Validate every field before any write.
	if err := s.validateCreate(ctx, req); err != nil {
		return nil, err
	}

	// 2. Persist the deck.
	deck, err := domain.NewDeck(req.UserID, req.Topic)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Decks.Create(ctx, deck); err != nil {
		// The user was deleted after the existence check.
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.NewValidationError("user_id", invalidUserMessage)
		}
		return nil, NewServiceError("create_deck", "failed to save deck", err)
	}
	log = log.With(slog.Int64("deck_id", deck.ID), slog.Int64("user_id", deck.UserID))

	// 3. Store the PDF and extract its text.
	rel, err := s.deps.Files.PutPDF(ctx, req.PDF.Data)
	if err != nil {
		return nil, NewServiceError("create_deck", "failed to store pdf", err)
	}
	if err := s.deps.Decks.UpdatePDFPath(ctx, deck.ID, rel); err != nil {
		if delErr := s.deps.Files.Delete(ctx, rel); delErr != nil {
			log.Warn("failed to remove orphaned pdf",
				slog.String("pdf_path", rel),
				slog.String("error", redact.Error(delErr)))
		}
		return nil, NewServiceError("create_deck", "failed to record pdf path", err)
	}
	text := s.extractText(ctx, log, rel)

	// 4. Generate flashcards, falling back to the fixed set.
	result := s.deps.Generator.Generate(ctx, text)
	contents, usedFallback := generation.CardsOrFallback(result)
	if usedFallback {
		attrs := []any{slog.Int("fallback_count", len(contents))}
		if result.Err() != nil {
			attrs = append(attrs, slog.String("error", redact.Error(result.Err())))
		}
		log.Warn("flashcard generation unavailable, using fallback flashcards", attrs...)
	}

	// 5. Persist all flashcards atomically.
	cards, err := domain.NewFlashcards(deck.ID, contents)
	if err != nil {
		return nil, NewServiceError("create_deck", "failed to build flashcards", err)
	}
	err = store.RunInTransaction(ctx, s.deps.DB, func(ctx context.Context, tx *sql.Tx) error {
		return s.deps.Flashcards.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		log.Error("failed to save flashcards", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("create_deck", "failed to save flashcards", err)
	}

	// 6. Reload with relations.
	created, err := s.deps.Decks.GetByID(ctx, deck.ID)
	if err != nil {
		return nil, NewServiceError("create_deck", "failed to reload deck", err)
	}

	log.Info("deck created",
		slog.Int("flashcard_count", len(created.Flashcards)),
		slog.Bool("fallback", usedFallback),
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
	return created, nil
}

// validateCreate collects every offending field into one ValidationError.
func (s *deckServiceImpl) validateCreate(ctx context.Context, req CreateDeckRequest) error {
	verr := &domain.ValidationError{}

	domain.ValidateTopic(verr, req.Topic)

	switch {
	case req.PDF == nil || len(req.PDF.Data) == 0:
		verr.Add("pdf_file", "The pdf file field is required.")
	default:
		if !mimetype.Detect(req.PDF.Data).Is(pdfMIMEType) {
			verr.Add("pdf_file", "The pdf file field must be a file of type: pdf.")
		}
		if len(req.PDF.Data) > MaxPDFSize {
			verr.Add("pdf_file", "The pdf file field must not be greater than 10240 kilobytes.")
		}
	}

	if req.UserID <= 0 {
		verr.Add("user_id", "The user id field is required.")
	} else {
		exists, err := s.deps.Users.Exists(ctx, req.UserID)
		if err != nil {
			return NewServiceError("create_deck", "failed to check user", err)
		}
		if !exists {
			verr.Add("user_id", invalidUserMessage)
		}
	}

	return verr.OrNil()
}

// extractText returns the stored PDF's text, or "" when it cannot be read.
// An unreadable document degrades to fallback flashcards instead of failing
// the request.
func (s *deckServiceImpl) extractText(ctx context.Context, log *slog.Logger, rel string) string {
	path, err := s.deps.Files.Path(rel)
	if err == nil {
		var text string
		text, err = s.deps.Extractor.ExtractText(ctx, path)
		if err == nil {
			return text
		}
	}

	level := slog.LevelWarn
	if !errors.Is(err, extraction.ErrExtractionFailed) {
		level = slog.LevelError
	}
	log.Log(ctx, level, "pdf text extraction failed",
		slog.String("pdf_path", rel),
		slog.String("error", redact.Error(err)))
	return ""
}

// ListDecks implements DeckService.ListDecks.
func (s *deckServiceImpl) ListDecks(ctx context.Context) ([]*domain.Deck, error) {
	decks, err := s.deps.Decks.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_decks", "failed to list decks", err)
	}
	return decks, nil
}

// GetDeck implements DeckService.GetDeck.
func (s *deckServiceImpl) GetDeck(ctx context.Context, id int64) (*domain.Deck, error) {
	if id <= 0 {
		return nil, ErrDeckNotFound
	}
	deck, err := s.deps.Decks.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_deck", "failed to retrieve deck", err)
	}
	return deck, nil
}
