// Package tui is the terminal front end for the summarization workflow.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BerylCAtieno/transcript-summarizer/internal/extractor"
	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/workflow"
)

// UsageReporter feeds the admin overlay.
type UsageReporter interface {
	Report(ctx context.Context) models.UsageReport
}

// Config wires runtime dependencies into the TUI program.
type Config struct {
	Machine *workflow.Machine
	// Changes receives a snapshot after every machine transition.
	Changes <-chan models.ProcessingState
	Usage   UsageReporter
	// ReadFile defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

type field int

const (
	fieldPath field = iota
	fieldTopic
)

const (
	minViewportWidth = 40
	previewLines     = 6
)

type model struct {
	config Config

	pathInput  textinput.Model
	topicInput textinput.Model
	focus      field
	spinner    spinner.Model
	viewport   viewport.Model

	state    models.ProcessingState
	artifact *models.Artifact
	usage    *models.UsageReport
	notice   string
	width    int
	height   int
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.ReadFile == nil {
		config.ReadFile = os.ReadFile
	}

	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/lecture.txt"
	pathInput.CharLimit = 512
	pathInput.Width = 60
	pathInput.Focus()

	topicInput := textinput.New()
	topicInput.Placeholder = "e.g. Thermodynamics, lecture 3"
	topicInput.CharLimit = 200
	topicInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return &model{
		config:     config,
		pathInput:  pathInput,
		topicInput: topicInput,
		spinner:    spin,
		viewport:   vp,
		state:      config.Machine.Snapshot(),
		notice:     "Enter the path of a .txt, .pdf or .docx transcript.",
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.config.Changes))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeViewport()
		return m, nil

	case stateChangedMsg:
		m.sync(msg.state)
		return m, waitForChange(m.config.Changes)

	case analyzeDoneMsg:
		m.sync(m.config.Machine.Snapshot())
		if msg.err == nil {
			m.notice = "Review the summary, then pick a style: 1 Classic, 2 Academic, 3 Creative."
		}
		return m, nil

	case exportDoneMsg:
		m.sync(m.config.Machine.Snapshot())
		if msg.err == nil && msg.artifact != nil {
			m.artifact = msg.artifact
			m.notice = fmt.Sprintf("Saved %s (%d pages).", location(msg.artifact), msg.artifact.Pages)
		}
		return m, nil

	case usageLoadedMsg:
		report := msg.report
		m.usage = &report
		return m, nil

	case spinner.TickMsg:
		if !m.state.Status.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func location(a *models.Artifact) string {
	if a.Location != "" {
		return a.Location
	}
	return a.Name
}

// sync adopts a machine snapshot and refreshes derived views.
func (m *model) sync(state models.ProcessingState) {
	summaryChanged := !equalString(m.state.GeneratedSummary, state.GeneratedSummary)
	m.state = state
	if summaryChanged {
		m.refreshViewport()
	}
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+a":
		return m, m.toggleAdmin()
	}

	if m.state.IsAdminOpen {
		if msg.Type == tea.KeyEsc {
			return m, m.toggleAdmin()
		}
		return m, nil
	}

	if m.state.Status.Busy() {
		return m, nil
	}

	switch m.state.Status {
	case models.StatusIdle:
		return m.handleIdleKey(msg)
	case models.StatusReview:
		return m.handleReviewKey(msg)
	case models.StatusCompleted:
		return m.handleCompletedKey(msg)
	case models.StatusError:
		return m.handleErrorKey(msg)
	}
	return m, nil
}

func (m *model) toggleAdmin() tea.Cmd {
	if m.state.IsAdminOpen {
		m.config.Machine.CloseAdmin()
		m.sync(m.config.Machine.Snapshot())
		return nil
	}
	m.config.Machine.OpenAdmin()
	m.sync(m.config.Machine.Snapshot())
	return loadUsageCmd(m.config.Usage)
}

func (m *model) handleIdleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.switchFocus()
		return m, nil
	case "ctrl+d":
		mode := models.ModeDetailed
		if m.state.Mode == models.ModeDetailed {
			mode = models.ModeStandard
		}
		m.apply(m.config.Machine.SetMode(mode))
		return m, nil
	case "ctrl+x":
		m.clear()
		return m, nil
	case "enter":
		if m.focus == fieldPath {
			m.loadFile(m.pathInput.Value())
			return m, nil
		}
		return m, m.startAnalysis()
	}

	var cmd tea.Cmd
	if m.focus == fieldPath {
		m.pathInput, cmd = m.pathInput.Update(msg)
	} else {
		m.topicInput, cmd = m.topicInput.Update(msg)
	}
	return m, cmd
}

func (m *model) switchFocus() {
	if m.focus == fieldPath {
		m.focus = fieldTopic
		m.pathInput.Blur()
		m.topicInput.Focus()
		return
	}
	m.focus = fieldPath
	m.topicInput.Blur()
	m.pathInput.Focus()
}

// loadFile reads and extracts the transcript. Input errors only show a
// notice; the machine state is left alone.
func (m *model) loadFile(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		m.notice = "Enter a file path first."
		return
	}
	if !extractor.Supported(path) {
		m.notice = extractor.ErrUnsupportedType.Error()
		return
	}

	data, err := m.config.ReadFile(path)
	if err != nil {
		m.notice = fmt.Sprintf("Could not read %s: %v", filepath.Base(path), err)
		return
	}
	text, err := extractor.Extract(path, data)
	if err != nil {
		m.notice = err.Error()
		return
	}

	if err := m.config.Machine.LoadFile(filepath.Base(path), text); err != nil {
		m.notice = err.Error()
		return
	}
	m.sync(m.config.Machine.Snapshot())
	m.notice = "Transcript loaded. Add a topic and press enter to analyze."
	m.switchFocus()
}

func (m *model) startAnalysis() tea.Cmd {
	if m.state.PreviewText == nil {
		m.notice = "Load a transcript first."
		return nil
	}
	if !m.apply(m.config.Machine.SetTopic(strings.TrimSpace(m.topicInput.Value()))) {
		return nil
	}
	m.notice = "Analyzing transcript…"
	return tea.Batch(m.spinner.Tick, analyzeCmd(m.config.Machine))
}

func (m *model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	styles := map[string]models.PDFStyle{
		"1": models.StyleClassic,
		"2": models.StyleAcademic,
		"3": models.StyleCreative,
	}
	if style, ok := styles[msg.String()]; ok {
		m.notice = fmt.Sprintf("Generating %s PDF…", strings.ToLower(string(style)))
		return m, tea.Batch(m.spinner.Tick, exportCmd(m.config.Machine, style))
	}

	switch msg.String() {
	case "b", "esc":
		if m.apply(m.config.Machine.Back()) {
			m.notice = "Adjust the topic or mode and press enter to analyze again."
		}
		return m, nil
	case "ctrl+x":
		m.clear()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) handleCompletedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		if m.apply(m.config.Machine.Reopen()) {
			m.notice = "Pick another style: 1 Classic, 2 Academic, 3 Creative."
		}
	case "n", "ctrl+x":
		m.clear()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		if m.apply(m.config.Machine.Dismiss()) {
			m.notice = "Press enter to try again."
		}
	case "ctrl+x":
		m.clear()
	}
	return m, nil
}

func (m *model) clear() {
	if !m.apply(m.config.Machine.Clear()) {
		return
	}
	m.pathInput.SetValue("")
	m.topicInput.SetValue("")
	m.artifact = nil
	if m.focus != fieldPath {
		m.switchFocus()
	}
	m.notice = "Cleared. Enter the path of a transcript."
}

// apply syncs after a machine call and reports whether it succeeded.
func (m *model) apply(err error) bool {
	if err != nil {
		if errors.Is(err, workflow.ErrBusy) {
			m.notice = "Please wait for the current step to finish."
		} else {
			m.notice = err.Error()
		}
		return false
	}
	m.sync(m.config.Machine.Snapshot())
	return true
}
