package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"sentinel/internal/domain"
)

// DefaultTable is the table scanned when none is configured.
const DefaultTable = "projects"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config configures the SQLite reference store.
type Config struct {
	Path  string
	Table string
}

// Storage reads references from a SQLite table with title and abstract columns.
type Storage struct {
	db    *sql.DB
	path  string
	table string
}

// Open opens (creating if needed) the database and ensures the table exists.
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if cfg.Path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Storage{db: db, path: cfg.Path, table: table}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            abstract TEXT,
            created_at TEXT NOT NULL
        )`, s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Name returns the identifier of this provider implementation.
func (s *Storage) Name() string { return "sqlite" }

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// References returns every row ordered by id. NULL abstracts become "".
func (s *Storage) References(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT title, abstract FROM %s ORDER BY id`, s.table))
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var (
			title    string
			abstract sql.NullString
		)
		if err := rows.Scan(&title, &abstract); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		docs = append(docs, domain.Document{Title: title, Abstract: abstract.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate references: %w", err)
	}
	return docs, nil
}

// Add inserts a reference. An empty abstract is stored as NULL.
func (s *Storage) Add(ctx context.Context, doc domain.Document) error {
	if strings.TrimSpace(doc.Title) == "" {
		return errors.New("reference title is required")
	}
	abstract := sql.NullString{String: doc.Abstract, Valid: doc.Abstract != ""}
	_, err := s.db.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s (title, abstract, created_at) VALUES (?, ?, ?)`, s.table),
		doc.Title,
		abstract,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert reference: %w", err)
	}
	return nil
}
