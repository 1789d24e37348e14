package reference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"sentinel/internal/config"
	"sentinel/internal/domain"
	"sentinel/internal/reference/file"
	"sentinel/internal/reference/memory"
	"sentinel/internal/reference/postgres"
	"sentinel/internal/reference/rediscache"
	"sentinel/internal/reference/sqlite"
	"sentinel/internal/reference/supabase"
)

// ErrUnknownProvider is returned for an unrecognised references.type.
var ErrUnknownProvider = errors.New("unknown reference provider")

// Provider is a configured reference source plus the function that releases
// its connections.
type Provider struct {
	domain.ReferenceProvider
	close []func() error
}

// Close releases every resource held by the provider.
func (p *Provider) Close() error {
	var errs []error
	for i := len(p.close) - 1; i >= 0; i-- {
		if err := p.close[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Writer returns the provider as a ReferenceWriter, or ErrReadOnly.
func (p *Provider) Writer() (domain.ReferenceWriter, error) {
	w, ok := p.ReferenceProvider.(domain.ReferenceWriter)
	if !ok {
		return nil, domain.ErrReadOnly
	}
	return w, nil
}

// New assembles the provider selected by cfg.Type, wrapped in a Redis cache
// when one is configured.
func New(ctx context.Context, cfg config.ReferencesConfig, log *logrus.Entry) (*Provider, error) {
	p := &Provider{}
	switch cfg.Type {
	case "memory":
		p.ReferenceProvider = memory.NewStorage()
	case "file", "":
		path := "projects.yaml"
		if cfg.File != nil && cfg.File.Path != "" {
			path = cfg.File.Path
		}
		p.ReferenceProvider = file.NewStorage(path)
	case "sqlite":
		if cfg.SQLite == nil {
			return nil, errors.New("sqlite config missing")
		}
		st, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLite.Path, Table: cfg.SQLite.Table})
		if err != nil {
			return nil, err
		}
		p.ReferenceProvider = st
		p.close = append(p.close, st.Close)
	case "postgres":
		if cfg.Postgres == nil {
			return nil, errors.New("postgres config missing")
		}
		st, err := postgres.Open(ctx, postgres.Config{
			DSNEnv:   cfg.Postgres.DSNEnv,
			Table:    cfg.Postgres.Table,
			MaxConns: cfg.Postgres.MaxConns,
		})
		if err != nil {
			return nil, err
		}
		p.ReferenceProvider = st
		p.close = append(p.close, st.Close)
	case "supabase":
		if cfg.Supabase == nil {
			return nil, errors.New("supabase config missing")
		}
		st, err := supabase.NewStorage(supabase.Config{
			URL:       cfg.Supabase.URL,
			APIKeyEnv: cfg.Supabase.APIKeyEnv,
			Table:     cfg.Supabase.Table,
			Timeout:   time.Duration(cfg.Supabase.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		p.ReferenceProvider = st
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Type)
	}

	if cfg.Cache != nil && cfg.Cache.Redis != nil {
		rc := cfg.Cache.Redis
		password := ""
		if rc.PasswordEnv != "" {
			password = os.Getenv(rc.PasswordEnv)
		}
		cache, client, err := rediscache.Dial(ctx, rediscache.Config{
			Addr:     rc.Addr,
			Password: password,
			DB:       rc.DB,
			Key:      rc.Key,
			TTL:      time.Duration(rc.TTLSecs) * time.Second,
		}, p.ReferenceProvider, log)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		p.ReferenceProvider = cache
		p.close = append(p.close, client.Close)
	}

	log.WithField("provider", p.Name()).Info("reference provider ready")
	return p, nil
}
