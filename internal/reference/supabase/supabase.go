package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"sentinel/internal/domain"
)

// Storage is a minimal REST client for a Supabase (PostgREST) table holding
// title and abstract columns.
type Storage struct {
	baseURL string
	apiKey  string
	table   string
	client  *http.Client
}

// Config configures the Supabase client.
type Config struct {
	URL       string
	APIKeyEnv string
	Table     string
	Timeout   time.Duration
}

// NewStorage creates a client. The API key is read from cfg.APIKeyEnv
// (default SUPABASE_ANON_KEY).
func NewStorage(cfg Config) (*Storage, error) {
	if cfg.URL == "" {
		return nil, errors.New("supabase url is required")
	}
	env := cfg.APIKeyEnv
	if env == "" {
		env = "SUPABASE_ANON_KEY"
	}
	key := os.Getenv(env)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", env)
	}
	table := cfg.Table
	if table == "" {
		table = "projects"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  key,
		table:   table,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the identifier of this provider implementation.
func (s *Storage) Name() string { return "supabase" }

// References selects title and abstract from the table ordered by id.
func (s *Storage) References(ctx context.Context) ([]domain.Document, error) {
	q := url.Values{}
	q.Set("select", "title,abstract")
	q.Set("order", "id.asc")
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, url.PathEscape(s.table), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	s.authorize(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("supabase GET %s failed: %s: %s", s.table, resp.Status, readSnippet(resp.Body))
	}
	docs := []domain.Document{}
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode supabase response: %w", err)
	}
	return docs, nil
}

// Add inserts a row.
func (s *Storage) Add(ctx context.Context, doc domain.Document) error {
	if strings.TrimSpace(doc.Title) == "" {
		return errors.New("reference title is required")
	}
	row := map[string]any{"title": doc.Title, "abstract": nil}
	if doc.Abstract != "" {
		row["abstract"] = doc.Abstract
	}
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, url.PathEscape(s.table))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("supabase POST %s failed: %s: %s", s.table, resp.Status, readSnippet(resp.Body))
	}
	return nil
}

func (s *Storage) authorize(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(b))
}
