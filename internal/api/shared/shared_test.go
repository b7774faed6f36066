package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nameRequest struct {
	Name     string `json:"name" validate:"required,max=5"`
	Nickname string `json:"nick_name" validate:"required"`
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(nameRequest{Name: "Ada", Nickname: "a"}))

	err := ValidateRequest(nameRequest{Name: "Adaline"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"name", "nick_name"}, verr.FieldNames())
	assert.Equal(t, []string{"The name field must not be greater than 5 characters."}, verr.Fields["name"])
	assert.Equal(t, []string{"The nick name field is required."}, verr.Fields["nick_name"])
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, TraceIDLength*2)
	assert.NotEqual(t, id, GetTraceID(SetTraceID(context.Background())))
}

func TestRespondWithValidationError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/decks", nil)
	req = req.WithContext(SetTraceID(req.Context()))
	rec := httptest.NewRecorder()

	verr := domain.NewValidationError("topic", "The topic field is required.")
	RespondWithValidationError(rec, req, verr)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ValidationFailedMessage, body.Error)
	assert.Equal(t, []string{"The topic field is required."}, body.Errors["topic"])
	assert.Equal(t, GetTraceID(req.Context()), body.TraceID)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger(t)
	req := httptest.NewRequest(http.MethodGet, "/decks/1", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	rec := httptest.NewRecorder()

	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Failed to retrieve deck",
		errors.New("connect postgres://app:secret@db:5432/decks failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.True(t, buf.HasEntry(t, slog.LevelError, "API error response"))
	assert.False(t, strings.Contains(buf.String(), "secret"), "logged error is redacted")
}
