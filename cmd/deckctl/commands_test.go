package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/scry-decks/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/decks", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"user_id":1,"topic":"Biology","created_at":"2025-01-02T00:00:00Z","flashcards":[{"id":1,"question":"Q1","answer":"A1"}],"user":{"id":1,"name":"Ada"}}]`)
	})
	mux.HandleFunc("GET /api/decks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"Deck not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":1,"user_id":1,"topic":"Biology","pdf_path":"pdfs/a.pdf","flashcards":[{"id":1,"question":"What is a cell?","answer":"The unit of life."}],"user":{"id":1,"name":"Ada"}}`)
	})
	mux.HandleFunc("POST /api/decks", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("topic") == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"error":"Validation failed","errors":{"topic":["The topic field is required."]}}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Deck created successfully","deck":{"id":2,"user_id":1,"topic":"`+r.FormValue("topic")+`","flashcards":[]}}`)
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"name":"Ada"}]`)
	})
	mux.HandleFunc("POST /api/users", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"User created successfully","user":{"id":5,"name":"Grace Hopper"}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(append([]string{"--api", srv.URL + "/api"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDecksList(t *testing.T) {
	t.Parallel()

	out, err := run(t, fakeAPI(t), "decks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TOPIC")
	assert.Contains(t, out, "Biology")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "2025-01-02")
}

func TestDecksShow(t *testing.T) {
	t.Parallel()

	srv := fakeAPI(t)

	out, err := run(t, srv, "decks", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deck 1: Biology")
	assert.Contains(t, out, "1. Q: What is a cell?")

	_, err = run(t, srv, "decks", "show", "2")
	assert.True(t, client.IsNotFound(err))

	_, err = run(t, srv, "decks", "show", "abc")
	assert.ErrorContains(t, err, "invalid id")
}

func TestDecksCreate(t *testing.T) {
	t.Parallel()

	srv := fakeAPI(t)
	pdf := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600))

	out, err := run(t, srv, "decks", "create", "--topic", "Chemistry", "--user", "1", "--file", pdf)
	require.NoError(t, err)
	assert.Contains(t, out, "Deck created successfully")
	assert.Contains(t, out, "Deck 2: Chemistry")

	_, err = run(t, srv, "decks", "create", "--user", "1", "--file", pdf)
	require.Error(t, err)
	assert.Equal(t, "Validation failed\n  topic: The topic field is required.", describeError(err))

	_, err = run(t, srv, "decks", "create", "--topic", "x")
	assert.Error(t, err, "--file is required")
}

func TestUsers(t *testing.T) {
	t.Parallel()

	srv := fakeAPI(t)

	out, err := run(t, srv, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")

	out, err = run(t, srv, "users", "create", "Grace", "Hopper")
	require.NoError(t, err)
	assert.Contains(t, out, "5\tGrace Hopper")
}
