package api

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/scry-decks/internal/api/shared"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/service"
)

const (
	// multipartOverhead allows room for the non-file fields and part headers.
	multipartOverhead = 1 << 20
	// maxUploadBody caps the whole multipart request body.
	maxUploadBody = service.MaxPDFSize + multipartOverhead
)

// DeckHandler handles deck-related HTTP requests
type DeckHandler struct {
	deckService service.DeckService
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(deckService service.DeckService) *DeckHandler {
	return &DeckHandler{deckService: deckService}
}

// ListDecks handles GET /api/decks requests
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.deckService.ListDecks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// GetDeck handles GET /api/decks/{id} requests
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Deck not found")
		return
	}

	deck, err := h.deckService.GetDeck(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// CreateDeck handles POST /api/decks requests.
// The body is multipart/form-data with fields topic, user_id and pdf_file.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr), errors.Is(err, multipart.ErrMessageTooLarge):
			shared.RespondWithValidationError(w, r, domain.NewValidationError(
				"pdf_file", "The pdf file field must not be greater than 10240 kilobytes."))
			return
		case !errors.Is(err, http.ErrNotMultipart):
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
			return
		}
	}
	if r.MultipartForm != nil {
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				log.Warn("failed to remove multipart temp files", slog.String("error", err.Error()))
			}
		}()
	}

	req := service.CreateDeckRequest{Topic: r.FormValue("topic")}

	rawUserID := strings.TrimSpace(r.FormValue("user_id"))
	userIDMalformed := false
	if rawUserID != "" {
		id, err := strconv.ParseInt(rawUserID, 10, 64)
		if err != nil {
			userIDMalformed = true
		} else {
			req.UserID = id
		}
	}

	upload, err := readUpload(r, "pdf_file")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	req.PDF = upload

	deck, err := h.deckService.CreateDeck(r.Context(), req)
	if err != nil {
		var verr *domain.ValidationError
		if userIDMalformed && errors.As(err, &verr) {
			verr.Fields["user_id"] = []string{"The user id field must be an integer."}
		}
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, DeckCreatedResponse{
		Message: "Deck created successfully",
		Deck:    deck,
	})
}

// readUpload returns the named file part, or nil when the field is absent.
// At most one byte more than MaxPDFSize is read so that oversized files are
// still reported as too large by the service.
func readUpload(r *http.Request, field string) (*service.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxPDFSize+1))
	if err != nil {
		return nil, err
	}
	return &service.Upload{Filename: header.Filename, Data: data}, nil
}
