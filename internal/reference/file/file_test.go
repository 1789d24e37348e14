package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/domain"
)

func TestStorageYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	content := `- title: Smart Irrigation
  abstract: soil moisture sensors drive irrigation valves
- title: Untitled Draft
- title: Crop Doctor
  abstract: leaf images classify crop disease
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewStorage(path)
	assert.Equal(t, "file", s.Name())
	docs, err := s.References(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "Smart Irrigation", docs[0].Title)
	assert.False(t, docs[1].HasAbstract())
	assert.Equal(t, "Crop Doctor", docs[2].Title)
}

func TestStorageJSONAddRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "projects.json")
	s := NewStorage(path)
	ctx := context.Background()

	docs, err := s.References(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	require.NoError(t, s.Add(ctx, domain.Document{Title: "One", Abstract: "alpha"}))
	require.NoError(t, s.Add(ctx, domain.Document{Title: "Two"}))
	assert.Error(t, s.Add(ctx, domain.Document{}))

	docs, err = s.References(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Document{{Title: "One", Abstract: "alpha"}, {Title: "Two"}}, docs)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"title": "One"`)
}

func TestStorageDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := NewStorage(path).References(context.Background())
	assert.ErrorContains(t, err, "decode references")
}
