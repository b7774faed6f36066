package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// getPathID extracts a positive integer ID from the URL path parameters.
// Malformed IDs wrap domain.ErrInvalidID, which maps to 404 like an unknown ID.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s %q", domain.ErrInvalidID, paramName, raw)
	}
	return id, nil
}
