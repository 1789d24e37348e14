package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sentinel/internal/service"
)

// ScanPort is the TUI-facing subset of the scan service.
type ScanPort interface {
	ScanFile(ctx context.Context, path string) (*service.Report, error)
}

// Model is the Bubble Tea model for the scan result screen.
type Model struct {
	service  ScanPort
	input    textinput.Model
	viewport viewport.Model
	report   *service.Report
	status   string
	cursor   int
	width    int
	ready    bool
}

// New creates a model showing report. report may be nil, in which case the
// user is prompted for a file.
func New(svc ScanPort, report *service.Report) Model {
	ti := textinput.New()
	ti.Prompt = "analyze another project > "
	ti.Placeholder = "path/to/proposal.txt"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	status := "Enter a file path to scan."
	if report != nil {
		status = "Scan complete. Up/down to browse references, Enter to scan another file."
	}
	return Model{service: svc, input: ti, viewport: vp, report: report, status: status}
}

// Report returns the report currently on screen.
func (m Model) Report() *service.Report { return m.report }

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, rh := rankingBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := lipgloss.Height(m.renderSummary()) + 2 + ih + 1
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderRanking())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			path := strings.TrimSpace(m.input.Value())
			if path == "" {
				return m, nil
			}
			rep, err := m.service.ScanFile(context.Background(), path)
			if err != nil {
				m.status = "Error: " + err.Error()
				return m, nil
			}
			m.report = rep
			m.cursor = 0
			m.status = fmt.Sprintf("Scanned %s against %d references.", rep.FileName, rep.References)
			m.input.SetValue("")
			m.viewport.GotoTop()
			m.viewport.SetContent(m.renderRanking())
			return m, nil
		case "down":
			if m.report != nil && len(m.report.Ranking) > 0 {
				m.cursor = (m.cursor + 1) % len(m.report.Ranking)
				m.syncViewport()
				return m, nil
			}
		case "up":
			if m.report != nil && len(m.report.Ranking) > 0 {
				m.cursor = (m.cursor - 1 + len(m.report.Ranking)) % len(m.report.Ranking)
				m.syncViewport()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// syncViewport re-renders the ranking and keeps the cursor row visible.
func (m *Model) syncViewport() {
	m.viewport.SetContent(m.renderRanking())
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if bottom := m.viewport.YOffset + m.viewport.Height - 1; m.cursor > bottom {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// View renders the TUI layout and current report.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Sentinel // Project Similarity Scanner")
	ranking := rankingBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + m.renderSummary() + "\n" + ranking + "\n" + input + "\n" + status
}

func (m Model) renderSummary() string {
	if m.report == nil {
		return mutedStyle.Render("No document scanned yet.")
	}
	r := m.report
	verdictStyle := grantedStyle
	if r.IsDuplicate {
		verdictStyle = deniedStyle
	}

	var b strings.Builder
	b.WriteString(verdictStyle.Render(r.Status))
	b.WriteString(mutedStyle.Render("  Security Clearance: "))
	b.WriteString(verdictStyle.Render(r.Clearance()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "SIMILARITY %s   TIME %.2fs   FILE %s\n",
		verdictStyle.Render(fmt.Sprintf("%.1f%%", r.Score*100)), r.Elapsed.Seconds(), r.FileName)
	if r.MatchedTitle != "" {
		fmt.Fprintf(&b, "Closest match: %s\n", r.MatchedTitle)
	}
	b.WriteString("Digital DNA: ")
	if len(r.Keywords) == 0 {
		b.WriteString(mutedStyle.Render("(none)"))
	} else {
		b.WriteString(keywordStyle.Render(strings.Join(r.Keywords, " · ")))
	}
	if r.Recommend {
		width := max(20, m.width-4)
		b.WriteString("\n")
		b.WriteString(recommendBoxStyle.Width(width).Render("RECOMMENDATION:\n" + r.Recommendation))
	}
	return b.String()
}

func (m Model) renderRanking() string {
	if m.report == nil {
		return "No results yet."
	}
	if len(m.report.Ranking) == 0 {
		return "No reference projects with abstracts to compare against."
	}
	lines := make([]string, len(m.report.Ranking))
	for i, ref := range m.report.Ranking {
		line := fmt.Sprintf("%3d. %6.1f%%  %s", i+1, ref.Score*100, ref.Title)
		if i == m.cursor {
			line = highlightStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

var (
	headerStyle       = lipgloss.NewStyle().Bold(true)
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	grantedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	deniedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	keywordStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	highlightStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	rankingBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	recommendBoxStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("2")).Padding(0, 1)
)
