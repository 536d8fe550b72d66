// Package history keeps the bounded, newest-first log of summarization calls.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/repository"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

const (
	StatsKey = "mono_assist_stats"
	MaxLogs  = 50

	// USD per million tokens, used for the rough cost estimate.
	inputPricePerMillion  = 0.075
	outputPricePerMillion = 0.30
)

type Store struct {
	mu     sync.Mutex
	repo   repository.Repository
	logger *utils.Logger
	now    func() time.Time
	newID  func() string
}

func NewStore(repo repository.Repository, logger *utils.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  utils.GenerateID,
	}
}

// Append records a call. ID and Timestamp are assigned here when empty.
// The oldest entries are evicted beyond MaxLogs.
func (s *Store) Append(ctx context.Context, log models.UsageLog) (models.UsageLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == "" {
		log.ID = s.newID()
	}
	if log.Timestamp == 0 {
		log.Timestamp = s.now().UnixMilli()
	}

	logs := s.load(ctx)
	updated := make([]models.UsageLog, 0, len(logs)+1)
	updated = append(updated, log)
	updated = append(updated, logs...)
	if len(updated) > MaxLogs {
		updated = updated[:MaxLogs]
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return models.UsageLog{}, fmt.Errorf("encode usage logs: %w", err)
	}
	if err := s.repo.Set(ctx, StatsKey, data); err != nil {
		return models.UsageLog{}, fmt.Errorf("save usage logs: %w", err)
	}

	return log, nil
}

// List returns the stored logs, newest first. Unreadable data yields an
// empty list.
func (s *Store) List(ctx context.Context) []models.UsageLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, StatsKey); err != nil {
		return fmt.Errorf("clear usage logs: %w", err)
	}
	return nil
}

// Report bundles the logs with their totals.
func (s *Store) Report(ctx context.Context) models.UsageReport {
	logs := s.List(ctx)
	return models.UsageReport{Summary: Summarize(logs), Logs: logs}
}

func Summarize(logs []models.UsageLog) models.UsageSummary {
	summary := models.UsageSummary{Requests: len(logs)}
	for _, l := range logs {
		summary.InputTokens += l.InputTokens
		summary.OutputTokens += l.OutputTokens
	}
	summary.EstimatedCostUSD = float64(summary.InputTokens)/1e6*inputPricePerMillion +
		float64(summary.OutputTokens)/1e6*outputPricePerMillion
	return summary
}

func (s *Store) load(ctx context.Context) []models.UsageLog {
	data, err := s.repo.Get(ctx, StatsKey)
	if errors.Is(err, repository.ErrNotFound) {
		return []models.UsageLog{}
	}
	if err != nil {
		s.logger.Warn("Failed to read usage logs", "error", err)
		return []models.UsageLog{}
	}

	var logs []models.UsageLog
	if err := json.Unmarshal(data, &logs); err != nil {
		s.logger.Warn("Failed to parse usage logs, starting fresh", "error", err)
		return []models.UsageLog{}
	}
	if logs == nil {
		logs = []models.UsageLog{}
	}
	return logs
}
