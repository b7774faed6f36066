// Package deckstore holds client-side deck state: the deck list, the deck
// being viewed and the progress of the latest fetch and create calls.
//
// State changes only through Reduce, a pure function over events. Session
// wraps it with an API client and a mutex for use from a UI or CLI.
package deckstore

import "github.com/phrazzld/scry-decks/internal/domain"

// State is a snapshot of the client's deck data.
type State struct {
	Decks       []domain.Deck
	CurrentDeck *domain.Deck
	Loading     bool
	Err         error
	Creating    bool
	CreateErr   error
}

// Event is something that happened to the deck state.
type Event interface {
	isEvent()
}

// FetchDecksStarted marks the start of a deck list fetch.
type FetchDecksStarted struct{}

// FetchDecksSucceeded replaces the deck list.
type FetchDecksSucceeded struct{ Decks []domain.Deck }

// FetchDecksFailed records a failed list fetch.
type FetchDecksFailed struct{ Err error }

// FetchDeckStarted marks the start of a single deck fetch.
type FetchDeckStarted struct{ ID int64 }

// FetchDeckSucceeded replaces the current deck.
type FetchDeckSucceeded struct{ Deck domain.Deck }

// FetchDeckFailed records a failed single deck fetch.
type FetchDeckFailed struct {
	ID  int64
	Err error
}

// CreateDeckStarted marks the start of a deck creation.
type CreateDeckStarted struct{}

// CreateDeckSucceeded appends the new deck to the list.
type CreateDeckSucceeded struct{ Deck domain.Deck }

// CreateDeckFailed records a failed creation.
type CreateDeckFailed struct{ Err error }

func (FetchDecksStarted) isEvent()   {}
func (FetchDecksSucceeded) isEvent() {}
func (FetchDecksFailed) isEvent()    {}
func (FetchDeckStarted) isEvent()    {}
func (FetchDeckSucceeded) isEvent()  {}
func (FetchDeckFailed) isEvent()     {}
func (CreateDeckStarted) isEvent()   {}
func (CreateDeckSucceeded) isEvent() {}
func (CreateDeckFailed) isEvent()    {}

// Reduce returns the state that follows s after ev. s is not modified; the
// returned state never shares a deck slice with s or with the event.
func Reduce(s State, ev Event) State {
	next := s
	next.Decks = copyDecks(s.Decks)

	switch e := ev.(type) {
	case FetchDecksStarted:
		next.Loading = true
		next.Err = nil
	case FetchDecksSucceeded:
		next.Loading = false
		next.Decks = copyDecks(e.Decks)
		if next.Decks == nil {
			next.Decks = []domain.Deck{}
		}
	case FetchDecksFailed:
		next.Loading = false
		next.Err = e.Err

	case FetchDeckStarted:
		next.Loading = true
		next.Err = nil
	case FetchDeckSucceeded:
		next.Loading = false
		deck := e.Deck
		next.CurrentDeck = &deck
	case FetchDeckFailed:
		next.Loading = false
		next.Err = e.Err

	case CreateDeckStarted:
		next.Creating = true
		next.CreateErr = nil
	case CreateDeckSucceeded:
		next.Creating = false
		next.Decks = append(next.Decks, e.Deck)
	case CreateDeckFailed:
		next.Creating = false
		next.CreateErr = e.Err
	}

	return next
}

func copyDecks(decks []domain.Deck) []domain.Deck {
	if decks == nil {
		return nil
	}
	out := make([]domain.Deck, len(decks))
	copy(out, decks)
	return out
}
