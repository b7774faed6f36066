package service

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/generation"
	"github.com/phrazzld/scry-decks/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserStore) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// MockDeckStore mocks the store.DeckStore interface
type MockDeckStore struct {
	mock.Mock
}

func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *MockDeckStore) UpdatePDFPath(ctx context.Context, id int64, path string) error {
	args := m.Called(ctx, id, path)
	return args.Error(0)
}

func (m *MockDeckStore) GetByID(ctx context.Context, id int64) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, int64) *domain.Deck); ok {
		return fn(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deck), args.Error(1)
}

func (m *MockDeckStore) List(ctx context.Context) ([]*domain.Deck, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Deck), args.Error(1)
}

func (m *MockDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return m
}

// MockFlashcardStore mocks the store.FlashcardStore interface and records
// whether writes went through a transaction.
type MockFlashcardStore struct {
	mock.Mock
	txUsed bool
}

func (m *MockFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

func (m *MockFlashcardStore) ListByDeck(ctx context.Context, deckID int64) ([]domain.Flashcard, error) {
	args := m.Called(ctx, deckID)
	return args.Get(0).([]domain.Flashcard), args.Error(1)
}

func (m *MockFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	m.txUsed = tx != nil
	return m
}

// fakeFileStore keeps uploads in memory.
type fakeFileStore struct {
	putErr  error
	puts    [][]byte
	deleted []string
}

func (f *fakeFileStore) PutPDF(ctx context.Context, data []byte) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.puts = append(f.puts, data)
	return "pdfs/test.pdf", nil
}

func (f *fakeFileStore) Path(rel string) (string, error) {
	return "/public/" + rel, nil
}

func (f *fakeFileStore) Delete(ctx context.Context, rel string) error {
	f.deleted = append(f.deleted, rel)
	return nil
}

// MockExtractor is a function-field mock of extraction.Extractor.
type MockExtractor struct {
	ExtractTextFn func(ctx context.Context, path string) (string, error)
	calls         int
}

func (m *MockExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	m.calls++
	return m.ExtractTextFn(ctx, path)
}

// MockGenerator is a function-field mock of generation.Generator.
type MockGenerator struct {
	GenerateFn func(ctx context.Context, text string) generation.Result
	texts      []string
}

func (m *MockGenerator) Generate(ctx context.Context, text string) generation.Result {
	m.texts = append(m.texts, text)
	return m.GenerateFn(ctx, text)
}
