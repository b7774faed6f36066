package deckstore

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/scry-decks/internal/client"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
)

// API is the subset of the deck API a Session needs.
type API interface {
	ListDecks(ctx context.Context) ([]domain.Deck, error)
	GetDeck(ctx context.Context, id int64) (*domain.Deck, error)
	CreateDeck(ctx context.Context, in client.CreateDeckInput) (*domain.Deck, error)
}

var _ API = (*client.Client)(nil)

// Session owns a State for the lifetime of a client session. Each action
// dispatches a Started event, makes one API call and dispatches the outcome.
// Actions do not retry and concurrent calls are not de-duplicated; the last
// response to arrive wins.
type Session struct {
	api    API
	logger *slog.Logger

	mu    sync.RWMutex
	state State
}

// NewSession creates a session with empty state.
func NewSession(api API, log *slog.Logger) *Session {
	if api == nil {
		panic("api cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		api:    api,
		logger: log.With("component", "deck_store"),
		state:  State{Decks: []domain.Deck{}},
	}
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := s.state
	snapshot.Decks = copyDecks(s.state.Decks)
	return snapshot
}

// Dispatch applies ev to the session state.
func (s *Session) Dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, ev)
}

// FetchDecks replaces the deck list with the server's.
func (s *Session) FetchDecks(ctx context.Context) error {
	s.Dispatch(FetchDecksStarted{})

	decks, err := s.api.ListDecks(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("fetch decks failed", slog.String("error", err.Error()))
		s.Dispatch(FetchDecksFailed{Err: err})
		return err
	}

	s.Dispatch(FetchDecksSucceeded{Decks: decks})
	return nil
}

// FetchDeck loads one deck as the current deck.
func (s *Session) FetchDeck(ctx context.Context, id int64) error {
	s.Dispatch(FetchDeckStarted{ID: id})

	deck, err := s.api.GetDeck(ctx, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("fetch deck failed",
			slog.Int64("deck_id", id),
			slog.String("error", err.Error()))
		s.Dispatch(FetchDeckFailed{ID: id, Err: err})
		return err
	}

	s.Dispatch(FetchDeckSucceeded{Deck: *deck})
	return nil
}

// CreateDeck creates a deck and appends it to the list.
func (s *Session) CreateDeck(ctx context.Context, in client.CreateDeckInput) (*domain.Deck, error) {
	s.Dispatch(CreateDeckStarted{})

	deck, err := s.api.CreateDeck(ctx, in)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("create deck failed", slog.String("error", err.Error()))
		s.Dispatch(CreateDeckFailed{Err: err})
		return nil, err
	}

	s.Dispatch(CreateDeckSucceeded{Deck: *deck})
	return deck, nil
}
