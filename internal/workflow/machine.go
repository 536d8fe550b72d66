// Package workflow sequences loading, analysis, review and export of one
// transcript.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/prompts"
	"github.com/BerylCAtieno/transcript-summarizer/internal/summarizer"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

var (
	// ErrBusy is returned while an analysis or export is in flight.
	ErrBusy = errors.New("an operation is already in progress")
	// ErrNotReady is returned when the current status does not allow the action.
	ErrNotReady = errors.New("action not available in the current state")
)

const (
	AnalyzeFailedMessage = "failed to analyze the transcript, please try again"
	ExportFailedMessage  = "failed to generate the PDF, please try again"

	DefaultAnalyzeDelay = 800 * time.Millisecond
	DefaultExportDelay  = time.Second
)

type Summarizer interface {
	Summarize(ctx context.Context, req summarizer.Request) (*summarizer.Result, error)
}

type Exporter interface {
	Export(ctx context.Context, summary, fileName string, style models.PDFStyle) (*models.Artifact, error)
}

type PromptSource interface {
	Load(ctx context.Context) models.PromptConfig
}

// Machine owns one ProcessingState. All methods are safe for concurrent use;
// at most one analysis or export runs at a time.
type Machine struct {
	mu    sync.Mutex
	state models.ProcessingState

	summarizer Summarizer
	exporter   Exporter
	prompts    PromptSource
	logger     *utils.Logger

	language     string
	model        string
	analyzeDelay time.Duration
	exportDelay  time.Duration
	sleep        func(context.Context, time.Duration)
	onChange     func(models.ProcessingState)

	artifact *models.Artifact
}

type Option func(*Machine)

func WithLanguage(language string) Option {
	return func(m *Machine) { m.language = language }
}

func WithModel(model string) Option {
	return func(m *Machine) { m.model = model }
}

// WithDelays overrides the cosmetic pauses before STRUCTURING and before an
// export starts.
func WithDelays(analyze, export time.Duration) Option {
	return func(m *Machine) {
		m.analyzeDelay = analyze
		m.exportDelay = export
	}
}

// WithOnChange registers a callback that receives a snapshot after every
// transition. It is called without the machine lock held.
func WithOnChange(fn func(models.ProcessingState)) Option {
	return func(m *Machine) { m.onChange = fn }
}

func NewMachine(s Summarizer, e Exporter, p PromptSource, logger *utils.Logger, opts ...Option) *Machine {
	m := &Machine{
		state:        models.InitialState(),
		summarizer:   s,
		exporter:     e,
		prompts:      p,
		logger:       logger,
		language:     prompts.DefaultLanguage,
		analyzeDelay: DefaultAnalyzeDelay,
		exportDelay:  DefaultExportDelay,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() models.ProcessingState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyState(m.state)
}

// Artifact is the document produced by the last successful export.
func (m *Machine) Artifact() *models.Artifact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.artifact
}

// update applies fn under the lock and then notifies the observer.
func (m *Machine) update(fn func(s *models.ProcessingState) error) error {
	m.mu.Lock()
	if err := fn(&m.state); err != nil {
		m.mu.Unlock()
		return err
	}
	snap := copyState(m.state)
	m.mu.Unlock()

	if m.onChange != nil {
		m.onChange(snap)
	}
	return nil
}

func (m *Machine) LoadFile(name, text string) error {
	return m.update(func(s *models.ProcessingState) error {
		if s.Status.Busy() {
			return ErrBusy
		}
		s.FileName = &name
		s.PreviewText = &text
		s.ErrorMessage = nil
		s.Status = models.StatusIdle
		return nil
	})
}

func (m *Machine) SetTopic(topic string) error {
	return m.update(func(s *models.ProcessingState) error {
		if s.Status.Busy() {
			return ErrBusy
		}
		s.Topic = topic
		return nil
	})
}

func (m *Machine) SetMode(mode models.Mode) error {
	return m.update(func(s *models.ProcessingState) error {
		if s.Status.Busy() {
			return ErrBusy
		}
		s.Mode = mode
		return nil
	})
}

// Analyze runs the summarization synchronously. Precondition failures return
// ErrBusy or ErrNotReady without touching the state; a failed call lands in
// ERROR and its error is returned as well.
func (m *Machine) Analyze(ctx context.Context) error {
	var transcript, topic string
	var mode models.Mode

	err := m.update(func(s *models.ProcessingState) error {
		if s.Status.Busy() {
			return ErrBusy
		}
		if s.Status != models.StatusIdle || s.PreviewText == nil || s.FileName == nil {
			return ErrNotReady
		}
		transcript, topic, mode = *s.PreviewText, s.Topic, s.Mode
		s.Status = models.StatusAnalyzing
		s.ErrorMessage = nil
		return nil
	})
	if err != nil {
		return err
	}

	m.sleep(ctx, m.analyzeDelay)
	m.setStatus(models.StatusStructuring)

	cfg := m.prompts.Load(ctx)
	prompt := prompts.Build(topic, transcript, mode, cfg, m.language)

	result, err := m.summarizer.Summarize(ctx, summarizer.Request{
		Prompt: prompt,
		Model:  m.model,
		Topic:  topic,
		Mode:   mode,
	})
	if err != nil {
		m.fail(analysisMessage(err))
		m.logger.Error("Analysis failed", "error", err)
		return fmt.Errorf("analyze: %w", err)
	}

	m.update(func(s *models.ProcessingState) error {
		text := result.Text
		s.GeneratedSummary = &text
		s.Status = models.StatusReview
		return nil
	})
	return nil
}

func analysisMessage(err error) string {
	if reqErr, ok := summarizer.AsRequestError(err); ok && strings.TrimSpace(reqErr.Message) != "" {
		return reqErr.Message
	}
	return AnalyzeFailedMessage
}

// Export renders the reviewed summary in the given style.
func (m *Machine) Export(ctx context.Context, style models.PDFStyle) (*models.Artifact, error) {
	var summary, fileName string

	err := m.update(func(s *models.ProcessingState) error {
		if s.Status.Busy() {
			return ErrBusy
		}
		if s.Status != models.StatusReview || s.GeneratedSummary == nil {
			return ErrNotReady
		}
		summary = *s.GeneratedSummary
		if s.FileName != nil {
			fileName = *s.FileName
		}
		s.PDFStyle = style
		s.Status = models.StatusGeneratingPDF
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The render itself is not cancellable once started.
	m.sleep(ctx, m.exportDelay)
	artifact, err := m.exporter.Export(context.WithoutCancel(ctx), summary, fileName, style)
	if err != nil {
		m.logger.Error("Export failed", "style", style, "error", err)
		m.fail(ExportFailedMessage)
		return nil, fmt.Errorf("export: %w", err)
	}

	m.mu.Lock()
	m.artifact = artifact
	m.mu.Unlock()
	m.setStatus(models.StatusCompleted)
	return artifact, nil
}

// Back returns from REVIEW or COMPLETED to IDLE to change settings. The
// summary is kept.
func (m *Machine) Back() error {
	return m.update(func(s *models.ProcessingState) error {
		if s.Status != models.StatusReview && s.Status != models.StatusCompleted {
			return ErrNotReady
		}
		s.Status = models.StatusIdle
		return nil
	})
}

// Reopen goes from COMPLETED back to REVIEW so another style can be exported.
func (m *Machine) Reopen() error {
	return m.update(func(s *models.ProcessingState) error {
		if s.Status != models.StatusCompleted || s.GeneratedSummary == nil {
			return ErrNotReady
		}
		s.Status = models.StatusReview
		return nil
	})
}

// Dismiss leaves ERROR for IDLE.
func (m *Machine) Dismiss() error {
	return m.update(func(s *models.ProcessingState) error {
		if s.Status != models.StatusError {
			return ErrNotReady
		}
		s.Status = models.StatusIdle
		s.ErrorMessage = nil
		return nil
	})
}

// Clear resets everything to the initial defaults.
func (m *Machine) Clear() error {
	err := m.update(func(s *models.ProcessingState) error {
		if s.Status.Busy() {
			return ErrBusy
		}
		*s = models.InitialState()
		return nil
	})
	if err == nil {
		m.mu.Lock()
		m.artifact = nil
		m.mu.Unlock()
	}
	return err
}

func (m *Machine) OpenAdmin() {
	m.update(func(s *models.ProcessingState) error {
		s.IsAdminOpen = true
		return nil
	})
}

func (m *Machine) CloseAdmin() {
	m.update(func(s *models.ProcessingState) error {
		s.IsAdminOpen = false
		return nil
	})
}

// ProgressStep maps a status onto the four-step indicator. -1 hides it.
func ProgressStep(status models.Status) int {
	switch status {
	case models.StatusAnalyzing:
		return 0
	case models.StatusStructuring, models.StatusReview:
		return 1
	case models.StatusGeneratingPDF:
		return 2
	case models.StatusCompleted:
		return 3
	default:
		return -1
	}
}

func (m *Machine) setStatus(status models.Status) {
	m.update(func(s *models.ProcessingState) error {
		s.Status = status
		return nil
	})
}

// fail enters ERROR. A summary kept across Back stays set so the user can
// return to it after dismissing; only a successful analysis replaces it.
func (m *Machine) fail(message string) {
	m.update(func(s *models.ProcessingState) error {
		s.Status = models.StatusError
		s.ErrorMessage = &message
		return nil
	})
}

func copyState(s models.ProcessingState) models.ProcessingState {
	out := s
	out.FileName = copyString(s.FileName)
	out.PreviewText = copyString(s.PreviewText)
	out.GeneratedSummary = copyString(s.GeneratedSummary)
	out.ErrorMessage = copyString(s.ErrorMessage)
	return out
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
