package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeckService struct {
	createFn func(ctx context.Context, req service.CreateDeckRequest) (*domain.Deck, error)
	listFn   func(ctx context.Context) ([]*domain.Deck, error)
	getFn    func(ctx context.Context, id int64) (*domain.Deck, error)

	lastCreate *service.CreateDeckRequest
}

func (f *fakeDeckService) CreateDeck(ctx context.Context, req service.CreateDeckRequest) (*domain.Deck, error) {
	f.lastCreate = &req
	return f.createFn(ctx, req)
}

func (f *fakeDeckService) ListDecks(ctx context.Context) ([]*domain.Deck, error) {
	return f.listFn(ctx)
}

func (f *fakeDeckService) GetDeck(ctx context.Context, id int64) (*domain.Deck, error) {
	return f.getFn(ctx, id)
}

type fakeUserService struct {
	listFn   func(ctx context.Context) ([]*domain.User, error)
	getFn    func(ctx context.Context, id int64) (*domain.User, error)
	createFn func(ctx context.Context, name string) (*domain.User, error)
}

func (f *fakeUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return f.listFn(ctx)
}

func (f *fakeUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return f.getFn(ctx, id)
}

func (f *fakeUserService) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	return f.createFn(ctx, name)
}

func testRouter(decks service.DeckService, users service.UserService) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewDeckHandler(decks), NewUserHandler(users))
	return r
}

func sampleDeck(id int64) *domain.Deck {
	return &domain.Deck{
		ID:      id,
		UserID:  1,
		Topic:   "Biology",
		PDFPath: "pdfs/abc.pdf",
		Flashcards: []domain.Flashcard{
			{ID: 1, DeckID: id, Question: "What is a cell?", Answer: "The basic unit of life."},
		},
		User: &domain.User{ID: 1, Name: "Ada"},
	}
}

func TestCreateDeck_Success(t *testing.T) {
	t.Parallel()

	decks := &fakeDeckService{
		createFn: func(_ context.Context, req service.CreateDeckRequest) (*domain.Deck, error) {
			return sampleDeck(42), nil
		},
	}
	router := testRouter(decks, &fakeUserService{})

	pdf := testutils.MinimalPDF("Cells are the basic unit of life.")
	body, contentType := testutils.MultipartBody(t,
		map[string]string{"topic": "Biology", "user_id": "1"},
		map[string]testutils.FileField{"pdf_file": {Filename: "bio.pdf", Data: pdf}},
	)

	req := httptest.NewRequest(http.MethodPost, "/decks", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := testutils.DecodeJSON(t, rec.Body)
	assert.Equal(t, "Deck created successfully", got["message"])
	deck, ok := got["deck"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), deck["id"])
	assert.Len(t, deck["flashcards"], 1)
	assert.NotNil(t, deck["user"])

	require.NotNil(t, decks.lastCreate)
	assert.Equal(t, "Biology", decks.lastCreate.Topic)
	assert.Equal(t, int64(1), decks.lastCreate.UserID)
	require.NotNil(t, decks.lastCreate.PDF)
	assert.Equal(t, "bio.pdf", decks.lastCreate.PDF.Filename)
	assert.Equal(t, pdf, decks.lastCreate.PDF.Data)
}

func TestCreateDeck_ValidationFailure(t *testing.T) {
	t.Parallel()

	decks := &fakeDeckService{
		createFn: func(_ context.Context, req service.CreateDeckRequest) (*domain.Deck, error) {
			verr := &domain.ValidationError{}
			verr.Add("topic", "The topic field is required.")
			verr.Add("pdf_file", "The pdf file field is required.")
			verr.Add("user_id", "The user id field is required.")
			return nil, verr
		},
	}
	router := testRouter(decks, &fakeUserService{})

	body, contentType := testutils.MultipartBody(t, map[string]string{"user_id": "abc"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/decks", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	got := testutils.DecodeJSON(t, rec.Body)
	testutils.AssertValidationFields(t, got, "topic", "pdf_file", "user_id")

	errs := got["errors"].(map[string]interface{})
	assert.Equal(t, []interface{}{"The user id field must be an integer."}, errs["user_id"])

	require.NotNil(t, decks.lastCreate)
	assert.Nil(t, decks.lastCreate.PDF, "missing file part is passed as nil")
	assert.Zero(t, decks.lastCreate.UserID)
}

func TestCreateDeck_NotMultipart(t *testing.T) {
	t.Parallel()

	decks := &fakeDeckService{
		createFn: func(_ context.Context, req service.CreateDeckRequest) (*domain.Deck, error) {
			return nil, domain.NewValidationError("pdf_file", "The pdf file field is required.")
		},
	}
	router := testRouter(decks, &fakeUserService{})

	req := httptest.NewRequest(http.MethodPost, "/decks", strings.NewReader(`{"topic":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateDeck_BodyTooLarge(t *testing.T) {
	t.Parallel()

	decks := &fakeDeckService{
		createFn: func(context.Context, service.CreateDeckRequest) (*domain.Deck, error) {
			t.Fatal("service must not be called for an oversized body")
			return nil, nil
		},
	}
	router := testRouter(decks, &fakeUserService{})

	big := bytes.Repeat([]byte("a"), maxUploadBody+1)
	body, contentType := testutils.MultipartBody(t,
		map[string]string{"topic": "Big", "user_id": "1"},
		map[string]testutils.FileField{"pdf_file": {Filename: "big.pdf", Data: big}},
	)
	req := httptest.NewRequest(http.MethodPost, "/decks", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	testutils.AssertValidationFields(t, testutils.DecodeJSON(t, rec.Body), "pdf_file")
}

func TestCreateDeck_InternalError(t *testing.T) {
	t.Parallel()

	decks := &fakeDeckService{
		createFn: func(context.Context, service.CreateDeckRequest) (*domain.Deck, error) {
			return nil, errors.New("disk full at /var/lib/app/pdfs")
		},
	}
	router := testRouter(decks, &fakeUserService{})

	body, contentType := testutils.MultipartBody(t,
		map[string]string{"topic": "Biology", "user_id": "1"},
		map[string]testutils.FileField{"pdf_file": {Filename: "bio.pdf", Data: testutils.MinimalPDF("x")}},
	)
	req := httptest.NewRequest(http.MethodPost, "/decks", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "/var/lib")
	assert.Equal(t, "Failed to create deck", testutils.DecodeJSON(t, rec.Body)["error"])
}

func TestListDecks(t *testing.T) {
	t.Parallel()

	decks := &fakeDeckService{
		listFn: func(context.Context) ([]*domain.Deck, error) {
			return []*domain.Deck{sampleDeck(1), sampleDeck(2)}, nil
		},
	}
	router := testRouter(decks, &fakeUserService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/decks", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "["), "decks are returned as a bare array")
	assert.Contains(t, rec.Body.String(), `"flashcards"`)
}

func TestGetDeck(t *testing.T) {
	t.Parallel()

	decks := &fakeDeckService{
		getFn: func(_ context.Context, id int64) (*domain.Deck, error) {
			if id == 7 {
				return sampleDeck(7), nil
			}
			return nil, fmt.Errorf("lookup: %w", service.ErrDeckNotFound)
		},
	}
	router := testRouter(decks, &fakeUserService{})

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "found", path: "/decks/7", status: http.StatusOK},
		{name: "missing", path: "/decks/8", status: http.StatusNotFound},
		{name: "non_numeric", path: "/decks/abc", status: http.StatusNotFound},
		{name: "zero", path: "/decks/0", status: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusNotFound {
				assert.Equal(t, "Deck not found", testutils.DecodeJSON(t, rec.Body)["error"])
			}
		})
	}
}

func TestUsers(t *testing.T) {
	t.Parallel()

	users := &fakeUserService{
		listFn: func(context.Context) ([]*domain.User, error) {
			return []*domain.User{{ID: 1, Name: "Ada"}}, nil
		},
		getFn: func(_ context.Context, id int64) (*domain.User, error) {
			if id == 1 {
				return &domain.User{ID: 1, Name: "Ada"}, nil
			}
			return nil, service.ErrUserNotFound
		},
		createFn: func(_ context.Context, name string) (*domain.User, error) {
			return &domain.User{ID: 2, Name: name}, nil
		},
	}
	router := testRouter(&fakeDeckService{}, users)

	t.Run("list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Ada"`)
	})

	t.Run("get_missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/99", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", testutils.DecodeJSON(t, rec.Body)["error"])
	})

	t.Run("create_json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":" Grace "}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		got := testutils.DecodeJSON(t, rec.Body)
		assert.Equal(t, "User created successfully", got["message"])
		assert.Equal(t, "Grace", got["user"].(map[string]interface{})["name"])
	})

	t.Run("create_form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("name=Linus"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("create_missing_name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		testutils.AssertValidationFields(t, testutils.DecodeJSON(t, rec.Body), "name")
	})

	t.Run("create_malformed_json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
