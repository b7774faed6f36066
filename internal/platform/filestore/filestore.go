// Package filestore keeps uploaded documents on the local "public" disk,
// the directory the HTTP server exposes under the storage URL prefix.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
)

// PDFDir is the directory, relative to the store root, holding uploaded PDFs.
const PDFDir = "pdfs"

// ErrInvalidPath is returned for stored paths that escape the store root.
var ErrInvalidPath = errors.New("invalid stored file path")

// Store writes files under a root directory and names them with random
// nanoid keys, so concurrent uploads never collide.
type Store struct {
	root      string
	urlPrefix string
	logger    *slog.Logger
}

// New creates a Store rooted at root, creating the directory if needed.
// urlPrefix is the HTTP path the root is served under (e.g. "/storage").
func New(root, urlPrefix string, logger *slog.Logger) (*Store, error) {
	if root == "" {
		return nil, errors.New("storage root cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	return &Store{
		root:      abs,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		logger:    logger.With(slog.String("component", "filestore")),
	}, nil
}

// Root returns the absolute directory files are stored under.
func (s *Store) Root() string {
	return s.root
}

// Put writes data to dir/<nanoid><ext> and returns the stored path relative
// to the root, using forward slashes (e.g. "pdfs/V1StGXR8_Z5jdHi6B-myT.pdf").
// The file appears atomically: it is written to a temp file and renamed.
func (s *Store) Put(ctx context.Context, dir, ext string, data []byte) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	rel := path.Join(dir, id+ext)

	target, err := s.Path(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn("failed to remove temp file", slog.String("error", rmErr.Error()))
		}
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	log.Info("file stored",
		slog.String("path", rel),
		slog.Int("size_bytes", len(data)))
	return rel, nil
}

// PutPDF stores a PDF under PDFDir.
func (s *Store) PutPDF(ctx context.Context, data []byte) (string, error) {
	return s.Put(ctx, PDFDir, ".pdf", data)
}

// Path resolves a stored relative path to an absolute file path.
func (s *Store) Path(rel string) (string, error) {
	clean := path.Clean("/" + rel)
	if clean == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	return full, nil
}

// URLPrefix returns the HTTP path the root is served under, without a
// trailing slash.
func (s *Store) URLPrefix() string {
	return s.urlPrefix
}

// Handler serves stored files read-only. It expects request paths under
// URLPrefix and strips the prefix before resolving against the root.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix(s.urlPrefix, http.FileServer(http.Dir(s.root)))
}

// Delete removes a stored file. Missing files are not an error.
func (s *Store) Delete(ctx context.Context, rel string) error {
	full, err := s.Path(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("file deleted", slog.String("path", rel))
	return nil
}
