package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ClassifierConfig holds the two independent score bounds and scan parallelism.
type ClassifierConfig struct {
	DuplicateThreshold float64 `yaml:"duplicate_threshold"`
	RecommendThreshold float64 `yaml:"recommend_threshold"`
	// Workers > 1 scores references concurrently; -1 uses every CPU.
	Workers int `yaml:"workers"`
}

// KeywordsConfig configures keyword extraction.
type KeywordsConfig struct {
	Limit int `yaml:"limit"`
}

// FileConfig points at a YAML or JSON reference list.
type FileConfig struct {
	Path string `yaml:"path"`
}

// SQLiteConfig contains the SQLite database location.
type SQLiteConfig struct {
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
}

// PostgresConfig contains connection details for a PostgreSQL reference table.
type PostgresConfig struct {
	DSNEnv   string `yaml:"dsn_env"`
	Table    string `yaml:"table"`
	MaxConns int32  `yaml:"max_conns"`
}

// SupabaseConfig contains connection details for a Supabase REST table.
type SupabaseConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Table       string `yaml:"table"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// RedisCacheConfig enables caching of the reference collection in Redis.
type RedisCacheConfig struct {
	Addr        string `yaml:"addr"`
	PasswordEnv string `yaml:"password_env"`
	DB          int    `yaml:"db"`
	Key         string `yaml:"key"`
	TTLSecs     int    `yaml:"ttl_secs"`
}

// CacheConfig wraps the reference provider with a cache when Redis is set.
type CacheConfig struct {
	Redis *RedisCacheConfig `yaml:"redis,omitempty"`
}

// ReferencesConfig selects and configures the reference provider.
type ReferencesConfig struct {
	Type     string          `yaml:"type"`
	File     *FileConfig     `yaml:"file,omitempty"`
	SQLite   *SQLiteConfig   `yaml:"sqlite,omitempty"`
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
	Supabase *SupabaseConfig `yaml:"supabase,omitempty"`
	Cache    *CacheConfig    `yaml:"cache,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Keywords   KeywordsConfig   `yaml:"keywords"`
	References ReferencesConfig `yaml:"references"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			if err := applyEnvOverrides(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	// Thresholds start from their defaults so an explicit 0 in the file survives.
	cfg := AppConfig{Classifier: defaultConfig().Classifier}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./sentinel.yaml first, then ~/.config/sentinel/config.yaml.
// If neither exists, it writes defaults to ~/.config/sentinel/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "sentinel.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sentinel", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig { return defaultConfig() }

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Classifier: ClassifierConfig{DuplicateThreshold: 0.6, RecommendThreshold: 0.5},
		Keywords:   KeywordsConfig{Limit: 5},
		References: ReferencesConfig{Type: "file", File: &FileConfig{Path: "projects.yaml"}},
		Server:     ServerConfig{Addr: ":8080"},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Keywords.Limit == 0 {
		cfg.Keywords.Limit = 5
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	refs := &cfg.References
	switch refs.Type {
	case "file", "":
		refs.Type = "file"
		if refs.File == nil {
			refs.File = &FileConfig{}
		}
		if refs.File.Path == "" {
			refs.File.Path = "projects.yaml"
		}
	case "sqlite":
		if refs.SQLite == nil {
			refs.SQLite = &SQLiteConfig{}
		}
		if refs.SQLite.Path == "" {
			refs.SQLite.Path = "sentinel.db"
		}
		if refs.SQLite.Table == "" {
			refs.SQLite.Table = "projects"
		}
	case "postgres":
		if refs.Postgres == nil {
			refs.Postgres = &PostgresConfig{}
		}
		if refs.Postgres.DSNEnv == "" {
			refs.Postgres.DSNEnv = "DATABASE_URL"
		}
		if refs.Postgres.Table == "" {
			refs.Postgres.Table = "projects"
		}
	case "supabase":
		if refs.Supabase != nil {
			if refs.Supabase.APIKeyEnv == "" {
				refs.Supabase.APIKeyEnv = "SUPABASE_ANON_KEY"
			}
			if refs.Supabase.Table == "" {
				refs.Supabase.Table = "projects"
			}
			if refs.Supabase.TimeoutSecs == 0 {
				refs.Supabase.TimeoutSecs = 15
			}
		}
	}
	if refs.Cache != nil && refs.Cache.Redis != nil {
		r := refs.Cache.Redis
		if r.Addr == "" {
			r.Addr = "localhost:6379"
		}
		if r.Key == "" {
			r.Key = "sentinel:references"
		}
		if r.TTLSecs == 0 {
			r.TTLSecs = 300
		}
	}
}

// applyEnvOverrides lets deployments tune thresholds and the listen address
// without editing the file.
func applyEnvOverrides(cfg *AppConfig) error {
	if v := os.Getenv("SENTINEL_DUPLICATE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SENTINEL_DUPLICATE_THRESHOLD: %w", err)
		}
		cfg.Classifier.DuplicateThreshold = f
	}
	if v := os.Getenv("SENTINEL_RECOMMEND_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SENTINEL_RECOMMEND_THRESHOLD: %w", err)
		}
		cfg.Classifier.RecommendThreshold = f
	}
	if v := os.Getenv("SENTINEL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SENTINEL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return nil
}
