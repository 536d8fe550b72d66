package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/workflow"
)

type stateChangedMsg struct {
	state models.ProcessingState
}

type analyzeDoneMsg struct {
	err error
}

type exportDoneMsg struct {
	artifact *models.Artifact
	err      error
}

type usageLoadedMsg struct {
	report models.UsageReport
}

// waitForChange blocks until the machine reports a transition.
func waitForChange(changes <-chan models.ProcessingState) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		state, ok := <-changes
		if !ok {
			return nil
		}
		return stateChangedMsg{state: state}
	}
}

func analyzeCmd(machine *workflow.Machine) tea.Cmd {
	return func() tea.Msg {
		return analyzeDoneMsg{err: machine.Analyze(context.Background())}
	}
}

func exportCmd(machine *workflow.Machine, style models.PDFStyle) tea.Cmd {
	return func() tea.Msg {
		artifact, err := machine.Export(context.Background(), style)
		return exportDoneMsg{artifact: artifact, err: err}
	}
}

func loadUsageCmd(usage UsageReporter) tea.Cmd {
	if usage == nil {
		return nil
	}
	return func() tea.Msg {
		return usageLoadedMsg{report: usage.Report(context.Background())}
	}
}
