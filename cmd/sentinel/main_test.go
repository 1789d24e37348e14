package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/service"
)

type cliTestEnv struct {
	dir        string
	configPath string
	refsPath   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	for _, k := range []string{"SENTINEL_DUPLICATE_THRESHOLD", "SENTINEL_RECOMMEND_THRESHOLD", "SENTINEL_LOG_LEVEL", "SENTINEL_ADDR"} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	refs := filepath.Join(dir, "projects.yaml")
	require.NoError(t, os.WriteFile(refs, []byte(`- title: Crop Yield Predictor
  abstract: machine learning model predicts crop yield from soil sensor data
- title: Campus Chat Bot
  abstract: chat bot answering student questions about courses
- title: Placeholder
`), 0o644))

	cfgPath := filepath.Join(dir, "sentinel.yaml")
	cfg := fmt.Sprintf("references:\n  type: file\n  file:\n    path: %s\nlog:\n  level: error\n", refs)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return &cliTestEnv{dir: dir, configPath: cfgPath, refsPath: refs}
}

func (e *cliTestEnv) writeDoc(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScanUniqueDocument(t *testing.T) {
	env := setupCLITestEnv(t)
	doc := env.writeDoc(t, "drone.txt", "drone swarm mapping forest canopy with lidar")

	out, _, err := runCLI(t, env, "scan", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "UNIQUE PROJECT")
	assert.Contains(t, out, "GRANTED")
	assert.Contains(t, out, "Crop Yield Predictor")
	assert.NotContains(t, out, "Placeholder", "references without abstracts are not ranked")
}

func TestScanDuplicateExitCode(t *testing.T) {
	env := setupCLITestEnv(t)
	doc := env.writeDoc(t, "copy.md", "Machine learning model predicts crop yield from soil sensor data.")

	out, _, err := runCLI(t, env, "scan", doc)
	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, exitDuplicate, exit.code)
	assert.Contains(t, out, "DUPLICATE DETECTED")
	assert.Contains(t, out, "DENIED")
	assert.Contains(t, out, "Recommendation:")
}

func TestScanJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	a := env.writeDoc(t, "a.txt", "chat bot answering student questions about courses")
	b := env.writeDoc(t, "b.txt", "solar panel efficiency tracker")

	out, _, err := runCLI(t, env, "scan", "--json", a, b)
	require.Error(t, err)

	var reports []service.Report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.True(t, reports[0].IsDuplicate)
	assert.Equal(t, "Campus Chat Bot", reports[0].MatchedTitle)
	assert.False(t, reports[1].IsDuplicate)
}

func TestScanUnsupportedFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	doc := env.writeDoc(t, "deck.pdf", "%PDF-1.7")

	_, _, err := runCLI(t, env, "scan", doc)
	assert.ErrorIs(t, err, service.ErrUnsupportedFormat)
}

func TestCompare(t *testing.T) {
	env := setupCLITestEnv(t)
	a := env.writeDoc(t, "a.txt", "alpha alpha alpha beta beta beta beta")
	b := env.writeDoc(t, "b.txt", "alpha")

	out, _, err := runCLI(t, env, "compare", a, b)
	require.NoError(t, err)
	assert.Equal(t, "0.6000\n", out)
}

func TestKeywords(t *testing.T) {
	env := setupCLITestEnv(t)
	doc := env.writeDoc(t, "k.txt", "The data model uses data and model data.")

	out, _, err := runCLI(t, env, "keywords", doc, "--limit", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"data", "model"}, strings.Fields(out))
}

func TestRefsAddAndList(t *testing.T) {
	env := setupCLITestEnv(t)
	abstract := env.writeDoc(t, "abstract.txt", "greenhouse climate control with sensors")

	out, _, err := runCLI(t, env, "refs", "add", "--title", "Greenhouse Controller", "--abstract-file", abstract)
	require.NoError(t, err)
	assert.Contains(t, out, `Added "Greenhouse Controller" to file`)

	out, _, err = runCLI(t, env, "refs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Greenhouse Controller")
	assert.Contains(t, out, "greenhouse climate control")

	_, _, err = runCLI(t, env, "refs", "add")
	assert.ErrorContains(t, err, "--title is required")
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(table.Row{"A", "B"}, []table.Row{{1}}, rightAligned(1)...)
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "1")
	assert.Empty(t, renderTable(nil, nil))

	configs := rightAligned(1, 3)
	require.Len(t, configs, 2)
	assert.Equal(t, 3, configs[1].Number)
	assert.Equal(t, text.AlignRight, configs[1].Align)
}
