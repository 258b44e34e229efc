package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/errors"
)

// FileStore is a file-based document store for CLI applications.
// Documents are stored as JSON files named by id.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store rooted at baseDir.
// If baseDir is empty, defaults to DefaultDir().
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create document dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) documentPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, doc *document.Document) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, ".doc-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write document %s", doc.ID)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write document %s", doc.ID)
	}
	if err := os.Rename(tmp.Name(), s.documentPath(doc.ID)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "store document %s", doc.ID)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*document.Document, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.documentPath(id), id)
}

func (s *FileStore) read(path, id string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read document %s", id)
	}
	return document.Unmarshal(data)
}

// List skips files that fail to decode.
func (s *FileStore) List(ctx context.Context, limit int) ([]*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read document dir")
	}
	docs := make([]*document.Document, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := s.read(filepath.Join(s.baseDir, name), strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	newestFirst(docs)
	if n := listLimit(limit); len(docs) > n {
		docs = docs[:n]
	}
	return docs, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.documentPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "remove document %s", id)
	}
	return nil
}

func (s *FileStore) Close(context.Context) error { return nil }

// Path returns the base directory for document files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
