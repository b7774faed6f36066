package generation

import (
	"context"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// Generator defines the interface for generating flashcards from text.
type Generator interface {
	// Generate produces question/answer pairs from extracted document text.
	// It never returns an error; failures are reported as an unavailable Result
	// so that callers must decide explicitly what to do without cards.
	Generate(ctx context.Context, text string) Result
}

// Result is the outcome of one generation attempt: either the generated
// pairs or the reason generation was unavailable.
type Result struct {
	cards []domain.FlashcardContent
	err   error
}

// Generated returns a Result carrying cards.
func Generated(cards []domain.FlashcardContent) Result {
	if cards == nil {
		cards = []domain.FlashcardContent{}
	}
	return Result{cards: cards}
}

// Unavailable returns a Result recording why no cards could be generated.
// A nil err is replaced by ErrGenerationFailed.
func Unavailable(err error) Result {
	if err == nil {
		err = ErrGenerationFailed
	}
	return Result{err: err}
}

// Available reports whether generation succeeded. A successful result may
// still hold zero cards.
func (r Result) Available() bool {
	return r.err == nil
}

// Cards returns the generated pairs, or nil when unavailable.
func (r Result) Cards() []domain.FlashcardContent {
	return r.cards
}

// Err returns the reason generation was unavailable, or nil.
func (r Result) Err() error {
	return r.err
}

// Usable reports whether the result holds at least one card.
func (r Result) Usable() bool {
	return r.Available() && len(r.cards) > 0
}

// FallbackFlashcards returns the fixed set of pairs used when generation is
// unavailable or produced nothing. A fresh slice is returned on every call.
func FallbackFlashcards() []domain.FlashcardContent {
	return []domain.FlashcardContent{
		{
			Question: "What is the main topic of this PDF?",
			Answer:   "Based on the uploaded PDF content",
		},
		{
			Question: "Sample Question 2 from PDF",
			Answer:   "Sample Answer 2",
		},
		{
			Question: "Key concept from the document",
			Answer:   "Important information extracted",
		},
	}
}

// CardsOrFallback returns the result's cards when usable, and the fallback
// set otherwise. The boolean reports whether the fallback was used.
func CardsOrFallback(r Result) ([]domain.FlashcardContent, bool) {
	if r.Usable() {
		return r.cards, false
	}
	return FallbackFlashcards(), true
}
