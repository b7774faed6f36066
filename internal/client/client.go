// Package client is a thin Go client for the deck API. It mirrors the
// endpoints one to one; state handling lives in the deckstore subpackage.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// DefaultTimeout bounds a whole request. Deck creation waits for text
// extraction and generation, so it is generous.
const DefaultTimeout = 2 * time.Minute

// ErrInvalidBaseURL is returned by New for an unusable base URL.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
	// Fields holds per-field messages of a 422 response.
	Fields  map[string][]string
	TraceID string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], "; ")))
	}
	return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, strings.Join(parts, ", "))
}

// IsNotFound reports whether err is a 404 APIError.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is a 422 APIError.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity
}

// CreateDeckInput is the data submitted when creating a deck.
type CreateDeckInput struct {
	Topic    string
	UserID   int64
	Filename string
	PDF      io.Reader
}

// Client calls the deck API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = DefaultTimeout

	c := &Client{baseURL: u, httpClient: hc}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListDecks fetches every deck with flashcards and owner.
func (c *Client) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	var decks []domain.Deck
	if err := c.do(ctx, http.MethodGet, "decks", nil, "", &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

// GetDeck fetches one deck.
func (c *Client) GetDeck(ctx context.Context, id int64) (*domain.Deck, error) {
	var deck domain.Deck
	if err := c.do(ctx, http.MethodGet, "decks/"+strconv.FormatInt(id, 10), nil, "", &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

// CreateDeck uploads a PDF and returns the created deck.
func (c *Client) CreateDeck(ctx context.Context, in CreateDeckInput) (*domain.Deck, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	if err := mw.WriteField("topic", in.Topic); err != nil {
		return nil, fmt.Errorf("failed to write topic field: %w", err)
	}
	if err := mw.WriteField("user_id", strconv.FormatInt(in.UserID, 10)); err != nil {
		return nil, fmt.Errorf("failed to write user_id field: %w", err)
	}
	if in.PDF != nil {
		filename := in.Filename
		if filename == "" {
			filename = "upload.pdf"
		}
		part, err := mw.CreateFormFile("pdf_file", filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := io.Copy(part, in.PDF); err != nil {
			return nil, fmt.Errorf("failed to copy pdf: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	var resp struct {
		Message string       `json:"message"`
		Deck    *domain.Deck `json:"deck"`
	}
	if err := c.do(ctx, http.MethodPost, "decks", body, mw.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	if resp.Deck == nil {
		return nil, errors.New("response did not contain a deck")
	}
	return resp.Deck, nil
}

// ListUsers fetches every user.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, "users", nil, "", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "users/"+strconv.FormatInt(id, 10), nil, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user by name.
func (c *Client) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var resp struct {
		Message string       `json:"message"`
		User    *domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "users", bytes.NewReader(payload), "application/json", &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.New("response did not contain a user")
	}
	return resp.User, nil
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body io.Reader,
	contentType string,
	out interface{},
) error {
	endpoint := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, endpoint.Path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		TraceID:    resp.Header.Get("X-Trace-ID"),
	}

	var body struct {
		Error   string              `json:"error"`
		Errors  map[string][]string `json:"errors"`
		TraceID string              `json:"trace_id"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		apiErr.Message = fmt.Sprintf("%s (failed to read body: %v)", http.StatusText(resp.StatusCode), err)
		return apiErr
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	apiErr.Message = body.Error
	apiErr.Fields = body.Errors
	if body.TraceID != "" {
		apiErr.TraceID = body.TraceID
	}
	return apiErr
}
