package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"sentinel/internal/domain"
)

// Storage reads references from a YAML or JSON file holding a list of
// {title, abstract} records. The format follows the file extension; anything
// other than .json is treated as YAML.
type Storage struct {
	mu   sync.Mutex
	path string
}

// NewStorage creates a file-backed provider. The file is read on every call
// to References, so edits are picked up without a restart.
func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

// Name returns the identifier of this provider implementation.
func (s *Storage) Name() string { return "file" }

// Path returns the backing file path.
func (s *Storage) Path() string { return s.path }

// References loads the collection. A missing file is an empty collection.
func (s *Storage) References(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add appends doc and rewrites the file.
func (s *Storage) Add(ctx context.Context, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(doc.Title) == "" {
		return errors.New("reference title is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return err
	}
	return s.save(append(docs, doc))
}

func (s *Storage) load() ([]domain.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Document{}, nil
		}
		return nil, fmt.Errorf("read references %s: %w", s.path, err)
	}
	var docs []domain.Document
	if s.isJSON() {
		err = json.Unmarshal(data, &docs)
	} else {
		err = yaml.Unmarshal(data, &docs)
	}
	if err != nil {
		return nil, fmt.Errorf("decode references %s: %w", s.path, err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

func (s *Storage) save(docs []domain.Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if s.isJSON() {
		data, err = json.MarshalIndent(docs, "", "  ")
	} else {
		data, err = yaml.Marshal(docs)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *Storage) isJSON() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".json")
}
