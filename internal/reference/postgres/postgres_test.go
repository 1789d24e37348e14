package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDSN(t *testing.T) {
	t.Run("explicit dsn wins", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://env")
		dsn, err := ResolveDSN(Config{DSN: "postgres://explicit"})
		require.NoError(t, err)
		assert.Equal(t, "postgres://explicit", dsn)
	})

	t.Run("default env", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://env")
		dsn, err := ResolveDSN(Config{})
		require.NoError(t, err)
		assert.Equal(t, "postgres://env", dsn)
	})

	t.Run("custom env", func(t *testing.T) {
		t.Setenv("SUPABASE_DB_URL", "postgres://custom")
		dsn, err := ResolveDSN(Config{DSNEnv: "SUPABASE_DB_URL"})
		require.NoError(t, err)
		assert.Equal(t, "postgres://custom", dsn)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("SENTINEL_TEST_EMPTY_DSN", "")
		_, err := ResolveDSN(Config{DSNEnv: "SENTINEL_TEST_EMPTY_DSN"})
		assert.ErrorContains(t, err, "SENTINEL_TEST_EMPTY_DSN")
	})
}

func TestOpenValidatesBeforeConnecting(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Config{DSN: "postgres://localhost/db", Table: "projects;--"})
	assert.ErrorContains(t, err, "invalid table name")

	_, err = Open(ctx, Config{DSN: "::not a dsn::"})
	assert.ErrorContains(t, err, "parse postgres dsn")
}

func TestTablePattern(t *testing.T) {
	for _, ok := range []string{"projects", "public.projects", "_p1"} {
		assert.True(t, identPattern.MatchString(ok), ok)
	}
	for _, bad := range []string{"", "1abc", "a b", "a.b.c", `p"x`} {
		assert.False(t, identPattern.MatchString(bad), bad)
	}
}
