package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel/internal/domain"
	"sentinel/internal/service"
)

type fakePort struct {
	reports map[string]*service.Report
	calls   []string
}

func (f *fakePort) ScanFile(_ context.Context, path string) (*service.Report, error) {
	f.calls = append(f.calls, path)
	if r, ok := f.reports[path]; ok {
		return r, nil
	}
	return nil, errors.New("unsupported document format: " + path)
}

func duplicateReport() *service.Report {
	return &service.Report{
		FileName:       "proposal.txt",
		Score:          0.82,
		MatchedTitle:   "Crop Yield Predictor",
		IsDuplicate:    true,
		Status:         service.StatusDuplicate,
		Recommend:      true,
		Recommendation: `This project is too similar to "Crop Yield Predictor".`,
		Keywords:       []string{"crop", "yield"},
		Ranking: []domain.ScoredReference{
			{Index: 0, Title: "Crop Yield Predictor", Score: 0.82},
			{Index: 2, Title: "Soil Monitor", Score: 0.31},
			{Index: 1, Title: "Chat Bot", Score: 0},
		},
		References: 3,
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestViewBeforeResize(t *testing.T) {
	m := New(&fakePort{}, nil)
	assert.Equal(t, "Loading...", m.View())
}

func TestViewShowsVerdict(t *testing.T) {
	m := New(&fakePort{}, duplicateReport())
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	assert.Contains(t, view, "DUPLICATE DETECTED")
	assert.Contains(t, view, "DENIED")
	assert.Contains(t, view, "82.0%")
	assert.Contains(t, view, "Crop Yield Predictor")
	assert.Contains(t, view, "RECOMMENDATION:")
	assert.Contains(t, view, "crop")
	assert.Contains(t, view, "Soil Monitor")
}

func TestCursorWraps(t *testing.T) {
	m := New(&fakePort{}, duplicateReport())
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, m.cursor)
}

func TestEnterScansAnotherFile(t *testing.T) {
	unique := &service.Report{FileName: "next.txt", Status: service.StatusUnique, References: 3}
	port := &fakePort{reports: map[string]*service.Report{"next.txt": unique}}
	m := New(port, duplicateReport())
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m = typeText(t, m, "next.txt")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"next.txt"}, port.calls)
	assert.Same(t, unique, m.Report())
	view := m.View()
	assert.Contains(t, view, "UNIQUE PROJECT")
	assert.Contains(t, view, "GRANTED")
	assert.NotContains(t, view, "RECOMMENDATION:")
	assert.Contains(t, view, "Scanned next.txt against 3 references.")
}

func TestEnterReportsError(t *testing.T) {
	m := New(&fakePort{}, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = typeText(t, m, "deck.pdf")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, m.Report())
	assert.Contains(t, m.View(), "Error: unsupported document format")
}

func TestQuitKeys(t *testing.T) {
	m := New(&fakePort{}, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
