// Package store persists layout documents.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per document, for the CLI
//   - [MongoStore]: a MongoDB collection, for the HTTP API
//
// Documents are validated on the way in and on the way out; a document
// that no longer passes the schema is reported as invalid, never returned
// half-decoded.
//
// # Usage
//
//	st, err := store.NewFileStore("") // ~/.local/share/adlayout/documents
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	if err := st.Save(ctx, doc); err != nil {
//	    return err
//	}
//	doc, err := st.Get(ctx, doc.ID)
//	if errors.Is(err, store.ErrNotFound) {
//	    // Unknown id
//	}
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/errors"
)

// ErrNotFound is returned when no document has the requested id. It carries
// the NOT_FOUND code.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "document not found")

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 100

// Store persists documents. Implementations are safe for concurrent use.
type Store interface {
	// Save inserts or replaces doc.
	Save(ctx context.Context, doc *document.Document) error
	// Get returns the document with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*document.Document, error)
	// List returns up to limit documents, newest first.
	List(ctx context.Context, limit int) ([]*document.Document, error)
	// Delete removes the document with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Close releases the backend.
	Close(ctx context.Context) error
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// validateID rejects ids that are not safe as file names.
func validateID(id string) error {
	if id == "" || len(id) > 128 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid document id %q", id)
	}
	for _, r := range id {
		ok := r == '-' || r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput, "invalid document id %q", id)
		}
	}
	return nil
}

func checkDocument(doc *document.Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidDocument, "nil document")
	}
	if err := validateID(doc.ID); err != nil {
		return err
	}
	return doc.Validate()
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// newestFirst orders by creation time descending, then by id.
func newestFirst(docs []*document.Document) {
	slices.SortFunc(docs, func(a, b *document.Document) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}

// DefaultDir returns $XDG_DATA_HOME/adlayout/documents, falling back to
// ~/.local/share/adlayout/documents.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "adlayout", "documents"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
	}
	return filepath.Join(home, ".local", "share", "adlayout", "documents"), nil
}
