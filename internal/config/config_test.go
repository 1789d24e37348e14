package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SENTINEL_DUPLICATE_THRESHOLD", "SENTINEL_RECOMMEND_THRESHOLD", "SENTINEL_LOG_LEVEL", "SENTINEL_ADDR"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.Classifier.DuplicateThreshold)
	assert.Equal(t, 0.5, cfg.Classifier.RecommendThreshold)
	assert.Equal(t, 5, cfg.Keywords.Limit)
	assert.Equal(t, "file", cfg.References.Type)
	assert.Equal(t, "projects.yaml", cfg.References.File.Path)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadAppliesDefaultsPerProvider(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sentinel.yaml")
	content := `classifier:
  duplicate_threshold: 0.7
  workers: 4
references:
  type: sqlite
  cache:
    redis:
      db: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.Classifier.DuplicateThreshold)
	assert.Equal(t, 0.5, cfg.Classifier.RecommendThreshold, "thresholds default independently")
	assert.Equal(t, 4, cfg.Classifier.Workers)
	require.NotNil(t, cfg.References.SQLite)
	assert.Equal(t, "sentinel.db", cfg.References.SQLite.Path)
	assert.Equal(t, "projects", cfg.References.SQLite.Table)
	require.NotNil(t, cfg.References.Cache.Redis)
	assert.Equal(t, "localhost:6379", cfg.References.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.References.Cache.Redis.DB)
	assert.Equal(t, 300, cfg.References.Cache.Redis.TTLSecs)
}

func TestLoadPostgresAndSupabaseDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	pg := filepath.Join(dir, "pg.yaml")
	require.NoError(t, os.WriteFile(pg, []byte("references:\n  type: postgres\n"), 0o644))
	cfg, err := Load(pg)
	require.NoError(t, err)
	assert.Equal(t, "DATABASE_URL", cfg.References.Postgres.DSNEnv)
	assert.Equal(t, "projects", cfg.References.Postgres.Table)

	sb := filepath.Join(dir, "sb.yaml")
	require.NoError(t, os.WriteFile(sb, []byte("references:\n  type: supabase\n  supabase:\n    url: https://x.supabase.co\n"), 0o644))
	cfg, err = Load(sb)
	require.NoError(t, err)
	assert.Equal(t, "SUPABASE_ANON_KEY", cfg.References.Supabase.APIKeyEnv)
	assert.Equal(t, 15, cfg.References.Supabase.TimeoutSecs)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENTINEL_DUPLICATE_THRESHOLD", "0.8")
	t.Setenv("SENTINEL_RECOMMEND_THRESHOLD", "0.4")
	t.Setenv("SENTINEL_LOG_LEVEL", "debug")
	t.Setenv("SENTINEL_ADDR", ":9090")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.Classifier.DuplicateThreshold)
	assert.Equal(t, 0.4, cfg.Classifier.RecommendThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	t.Setenv("SENTINEL_DUPLICATE_THRESHOLD", "high")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "SENTINEL_DUPLICATE_THRESHOLD")
}

func TestZeroThresholdIsKept(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "zero.yaml")
	require.NoError(t, os.WriteFile(path, []byte("classifier:\n  duplicate_threshold: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Classifier.DuplicateThreshold)
	assert.Equal(t, 0.5, cfg.Classifier.RecommendThreshold)

	t.Setenv("SENTINEL_DUPLICATE_THRESHOLD", "0")
	t.Setenv("SENTINEL_RECOMMEND_THRESHOLD", "0")
	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Classifier.DuplicateThreshold)
	assert.Equal(t, 0.0, cfg.Classifier.RecommendThreshold)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("classifier: [unterminated"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Classifier.Workers = 3
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadDefaultWritesUserConfig(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, path, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "sentinel", "config.yaml"), path)
	assert.Equal(t, 0.6, cfg.Classifier.DuplicateThreshold)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
