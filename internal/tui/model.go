// Package tui is an interactive dashboard for matching one resume against
// job descriptions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"resumatch/internal/service"
)

// AnalyzerPort is the TUI-facing subset of the analysis service.
type AnalyzerPort interface {
	Analyze(ctx context.Context, req service.AnalyzeRequest) (*service.Report, error)
}

// Model is the Bubble Tea model for the match dashboard.
type Model struct {
	analyzer   AnalyzerPort
	resumePath string
	jobs       []string
	input      textinput.Model
	viewport   viewport.Model
	report     *service.Report
	status     string
	cursor     int
	ready      bool
}

// New creates the dashboard for one resume. jobs may carry preloaded job
// descriptions; typed descriptions are added to them.
func New(analyzer AnalyzerPort, resumePath string, jobs []string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Paste a job description and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		analyzer:   analyzer,
		resumePath: resumePath,
		jobs:       jobs,
		input:      ti,
		viewport:   vp,
		status:     fmt.Sprintf("Resume loaded, %d job(s) on file. Enter runs the analysis.", len(jobs)),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + resume line, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentMatch())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if typed := strings.TrimSpace(m.input.Value()); typed != "" {
				m.jobs = append(m.jobs, typed)
				m.input.SetValue("")
			}
			if len(m.jobs) == 0 {
				m.status = "No job descriptions yet. Paste one first."
				return m, nil
			}
			report, err := m.analyzer.Analyze(context.Background(), service.AnalyzeRequest{
				ResumePath: m.resumePath,
				JobTexts:   m.jobs,
			})
			if err != nil {
				m.status = "Error: " + err.Error()
				m.report = nil
			} else {
				m.report = report
				m.cursor = 0
				m.status = fmt.Sprintf("Ranked %d job(s), best first.", len(report.Matches))
			}
			m.viewport.SetContent(m.renderCurrentMatch())
			return m, nil
		case "right":
			if m.report != nil && len(m.report.Matches) > 0 {
				m.cursor = (m.cursor + 1) % len(m.report.Matches)
				m.viewport.SetContent(m.renderCurrentMatch())
				return m, nil
			}
		case "left":
			if m.report != nil && len(m.report.Matches) > 0 {
				m.cursor = (m.cursor - 1 + len(m.report.Matches)) % len(m.report.Matches)
				m.viewport.SetContent(m.renderCurrentMatch())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the dashboard layout and the selected match.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Resume Match")
	resume := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.resumeLine())
	results := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + resume + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) resumeLine() string {
	if m.report != nil && m.report.ResumeName != "" {
		return fmt.Sprintf("Candidate: %s (%s)", m.report.ResumeName, m.resumePath)
	}
	return "Resume: " + m.resumePath
}

func (m Model) renderCurrentMatch() string {
	if m.report == nil || len(m.report.Matches) == 0 {
		return "No matches yet. Paste a job description and press Enter."
	}
	match := m.report.Matches[m.cursor]
	title := fmt.Sprintf("Match %d/%d  %s", m.cursor+1, len(m.report.Matches), match.JobID)
	bar := renderScoreBar(match.MatchPercentage, 30)

	var b strings.Builder
	b.WriteString(title + "\n\n")
	fmt.Fprintf(&b, "%s %d%%\n\n", bar, match.MatchPercentage)
	if len(match.MatchingSkills) > 0 {
		fmt.Fprintf(&b, "Matching: %s\n", strings.Join(match.MatchingSkills, ", "))
	}
	if len(match.MissingSkills) > 0 {
		fmt.Fprintf(&b, "Missing:  %s\n", strings.Join(match.MissingSkills, ", "))
	}
	if match.Explanation != "" {
		b.WriteString("\n" + match.Explanation + "\n")
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	barHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	barMidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	barLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// renderScoreBar draws a fixed-width bar filled proportionally to pct,
// colored by the same tiers the explanations use.
func renderScoreBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case pct >= 80:
		return barHighStyle.Render(bar)
	case pct >= 60:
		return barMidStyle.Render(bar)
	default:
		return barLowStyle.Render(bar)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
