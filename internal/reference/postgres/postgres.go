package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sentinel/internal/domain"
)

// DefaultTable is the table scanned when none is configured.
const DefaultTable = "projects"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Config configures the PostgreSQL reference store.
type Config struct {
	// DSN is used as-is when set; otherwise it is read from DSNEnv.
	DSN         string
	DSNEnv      string
	Table       string
	MaxConns    int32
	PingTimeout time.Duration
}

// Storage reads references from a PostgreSQL table with title and abstract
// columns, the layout the project submission portal writes to.
type Storage struct {
	pool  *pgxpool.Pool
	table string
}

// ResolveDSN returns the connection string from cfg, falling back to the
// configured environment variable.
func ResolveDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	env := cfg.DSNEnv
	if env == "" {
		env = "DATABASE_URL"
	}
	dsn := os.Getenv(env)
	if dsn == "" {
		return "", fmt.Errorf("missing postgres DSN in env %s", env)
	}
	return dsn, nil
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	dsn, err := ResolveDSN(cfg)
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	timeout := cfg.PingTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	return &Storage{pool: pool, table: table}, nil
}

// Name returns the identifier of this provider implementation.
func (s *Storage) Name() string { return "postgres" }

// Close releases the connection pool.
func (s *Storage) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// References returns every row ordered by id. NULL abstracts become "".
func (s *Storage) References(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT title, abstract FROM %s ORDER BY id`, s.table))
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Document, error) {
		var (
			title    string
			abstract *string
		)
		if err := row.Scan(&title, &abstract); err != nil {
			return domain.Document{}, err
		}
		doc := domain.Document{Title: title}
		if abstract != nil {
			doc.Abstract = *abstract
		}
		return doc, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan references: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// Add inserts a reference. An empty abstract is stored as NULL.
func (s *Storage) Add(ctx context.Context, doc domain.Document) error {
	if strings.TrimSpace(doc.Title) == "" {
		return errors.New("reference title is required")
	}
	var abstract *string
	if doc.Abstract != "" {
		abstract = &doc.Abstract
	}
	_, err := s.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (title, abstract) VALUES ($1, $2)`, s.table),
		doc.Title, abstract)
	if err != nil {
		return fmt.Errorf("insert reference: %w", err)
	}
	return nil
}
