package history

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/repository"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

func newTestStore() (*Store, repository.Repository) {
	repo := repository.NewMemoryRepository()
	store := NewStore(repo, utils.NewNopLogger())
	tick := int64(0)
	store.now = func() time.Time {
		tick++
		return time.UnixMilli(1_700_000_000_000 + tick)
	}
	return store, repo
}

func TestAppendKeepsFiftyNewestFirst(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		_, err := store.Append(ctx, models.UsageLog{
			Model:        "m",
			InputTokens:  i,
			OutputTokens: i * 2,
			Topic:        fmt.Sprintf("topic-%d", i),
			Mode:         models.ModeStandard,
		})
		if err != nil {
			t.Fatalf("Append(%d) error = %v", i, err)
		}
	}

	logs := store.List(ctx)
	if len(logs) != MaxLogs {
		t.Fatalf("expected %d logs, got %d", MaxLogs, len(logs))
	}
	for i, log := range logs {
		want := 59 - i
		if log.InputTokens != want {
			t.Fatalf("position %d: expected entry %d, got %d", i, want, log.InputTokens)
		}
		if i > 0 && logs[i-1].Timestamp <= log.Timestamp {
			t.Fatalf("logs not ordered newest first at %d", i)
		}
	}
}

func TestAppendAssignsUniqueIDs(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	a, _ := store.Append(ctx, models.UsageLog{Model: "m"})
	b, _ := store.Append(ctx, models.UsageLog{Model: "m"})
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
	if a.Timestamp == 0 {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestCorruptDataFallsBackToEmpty(t *testing.T) {
	store, repo := newTestStore()
	ctx := context.Background()

	if err := repo.Set(ctx, StatsKey, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if logs := store.List(ctx); len(logs) != 0 {
		t.Fatalf("expected empty logs on corrupt data, got %d", len(logs))
	}

	if _, err := store.Append(ctx, models.UsageLog{Model: "m"}); err != nil {
		t.Fatalf("Append() after corrupt data error = %v", err)
	}
	if logs := store.List(ctx); len(logs) != 1 {
		t.Fatalf("expected 1 log after recovery, got %d", len(logs))
	}
}

func TestClear(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	store.Append(ctx, models.UsageLog{Model: "m"})
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if logs := store.List(ctx); len(logs) != 0 {
		t.Fatalf("expected no logs after clear, got %d", len(logs))
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]models.UsageLog{
		{InputTokens: 1_000_000, OutputTokens: 0},
		{InputTokens: 0, OutputTokens: 1_000_000},
	})

	if summary.Requests != 2 || summary.InputTokens != 1_000_000 || summary.OutputTokens != 1_000_000 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if math.Abs(summary.EstimatedCostUSD-0.375) > 1e-9 {
		t.Fatalf("expected cost 0.375, got %f", summary.EstimatedCostUSD)
	}
}
