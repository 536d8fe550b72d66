package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/workflow"
)

var progressLabels = []string{"Analysis", "Structure", "PDF", "Done"}

func (m *model) View() string {
	header := titleStyle.Render("Mono-Assistant") + "  " + helperStyle.Render(m.settingsLine())

	if m.state.IsAdminOpen {
		return joinNonEmpty(header, m.adminView(), helperStyle.Render("esc / ctrl+a close  •  ctrl+c quit"))
	}

	var body, help string
	switch {
	case m.state.Status.Busy():
		body = m.busyView()
	case m.state.Status == models.StatusReview:
		body = m.viewport.View()
		help = "↑/↓ scroll  •  1 classic  2 academic  3 creative  •  b back  •  ctrl+x clear"
	case m.state.Status == models.StatusCompleted:
		body = m.completedView()
		help = "r another style  •  n new transcript  •  q quit"
	case m.state.Status == models.StatusError:
		body = errorStyle.Render("Error: " + deref(m.state.ErrorMessage))
		help = "enter dismiss  •  ctrl+x clear"
	default:
		body = m.idleView()
		help = "tab switch field  •  enter load/analyze  •  ctrl+d mode  •  ctrl+a admin  •  ctrl+x clear"
	}

	var notice string
	if m.notice != "" && m.state.Status != models.StatusError {
		notice = noticeStyle.Render(m.notice)
	}

	return joinNonEmpty(header, m.progressView(), body, notice, helperStyle.Render(help))
}

func (m *model) settingsLine() string {
	parts := []string{"mode " + strings.ToLower(string(m.state.Mode))}
	if m.state.FileName != nil {
		parts = append(parts, *m.state.FileName)
	}
	if m.state.Topic != "" {
		parts = append(parts, m.state.Topic)
	}
	return strings.Join(parts, " • ")
}

func (m *model) idleView() string {
	lines := []string{
		labelStyle.Render("Transcript"),
		m.pathInput.View(),
		labelStyle.Render("Topic"),
		m.topicInput.View(),
	}
	if m.state.PreviewText != nil {
		lines = append(lines, labelStyle.Render("Preview"), previewStyle.Render(preview(*m.state.PreviewText, m.wrapWidth())))
	}
	if m.state.GeneratedSummary != nil {
		lines = append(lines, helperStyle.Render("A previous summary is kept until the next analysis."))
	}
	return strings.Join(lines, "\n")
}

func (m *model) busyView() string {
	label := "Analyzing transcript"
	switch m.state.Status {
	case models.StatusStructuring:
		label = "Structuring summary"
	case models.StatusGeneratingPDF:
		label = "Generating PDF"
	}
	return m.spinner.View() + " " + label + "…"
}

func (m *model) completedView() string {
	if m.artifact == nil {
		return successStyle.Render("Export finished.")
	}
	return joinNonEmpty(
		successStyle.Render("Export finished."),
		fmt.Sprintf("%s  (%d pages, %s)", location(m.artifact), m.artifact.Pages, strings.ToLower(string(m.state.PDFStyle))),
	)
}

func (m *model) progressView() string {
	step := workflow.ProgressStep(m.state.Status)
	if step < 0 {
		return ""
	}
	parts := make([]string, len(progressLabels))
	for i, label := range progressLabels {
		switch {
		case i < step:
			parts[i] = doneStepStyle.Render("✓ " + label)
		case i == step:
			parts[i] = activeStepStyle.Render("● " + label)
		default:
			parts[i] = helperStyle.Render("○ " + label)
		}
	}
	return strings.Join(parts, helperStyle.Render(" ─ "))
}

func (m *model) adminView() string {
	if m.usage == nil {
		return helperStyle.Render("Loading usage…")
	}
	s := m.usage.Summary
	lines := []string{
		labelStyle.Render("Usage"),
		fmt.Sprintf("Requests: %d   Input tokens: %d   Output tokens: %d", s.Requests, s.InputTokens, s.OutputTokens),
		fmt.Sprintf("Estimated cost: $%.4f", s.EstimatedCostUSD),
	}
	if len(m.usage.Logs) == 0 {
		return joinNonEmpty(strings.Join(lines, "\n"), helperStyle.Render("No requests logged yet."))
	}
	lines = append(lines, "", labelStyle.Render("Recent"))
	for i, log := range m.usage.Logs {
		if i == 10 {
			break
		}
		lines = append(lines, fmt.Sprintf("%-30s %-9s %6d in %6d out", truncate(log.Topic, 30), strings.ToLower(string(log.Mode)), log.InputTokens, log.OutputTokens))
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth() int {
	if m.width <= 0 {
		return 80
	}
	if m.width-4 < minViewportWidth {
		return minViewportWidth
	}
	return m.width - 4
}

func (m *model) resizeViewport() {
	m.viewport.Width = m.wrapWidth()
	// header, progress, notice and help take roughly eight rows
	if h := m.height - 8; h > 5 {
		m.viewport.Height = h
	}
	m.refreshViewport()
}

func (m *model) refreshViewport() {
	if m.state.GeneratedSummary == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(wordwrap.String(*m.state.GeneratedSummary, m.viewport.Width))
	m.viewport.GotoTop()
}

func preview(text string, width int) string {
	lines := strings.Split(wordwrap.String(strings.TrimSpace(text), width), "\n")
	if len(lines) > previewLines {
		lines = append(lines[:previewLines], "…")
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helperStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	successStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	previewStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).PaddingLeft(2)
	doneStepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	activeStepStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)
