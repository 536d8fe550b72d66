package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/repository"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

func TestBuildIncludesRoleInstructionAndTranscriptVerbatim(t *testing.T) {
	cfg := models.PromptConfig{
		SystemRole:          "ROLE-<x>",
		StandardInstruction: "SHORT & tight",
		DetailedInstruction: "LONG \"and\" deep",
	}
	transcript := "Line one\n\n  indented **raw** <tag> & \"quotes\"\ttab\nLast line with trailing spaces   "

	tests := []struct {
		mode        models.Mode
		instruction string
		other       string
	}{
		{models.ModeStandard, cfg.StandardInstruction, cfg.DetailedInstruction},
		{models.ModeDetailed, cfg.DetailedInstruction, cfg.StandardInstruction},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := Build("Thermodynamics", transcript, tt.mode, cfg, "English")

			for _, want := range []string{cfg.SystemRole, tt.instruction, transcript, "Thermodynamics"} {
				if !strings.Contains(got, want) {
					t.Errorf("prompt missing %q", want)
				}
			}
			if strings.Contains(got, tt.other) {
				t.Errorf("prompt should not contain the other mode's instruction %q", tt.other)
			}
		})
	}
}

func TestBuildDefaultsTopicAndLanguage(t *testing.T) {
	got := Build("   ", "text", models.ModeStandard, models.DefaultPrompts, "")

	if !strings.Contains(got, "Lesson topic: "+DefaultTopic) {
		t.Errorf("expected placeholder topic in prompt")
	}
	if !strings.Contains(got, "**Language**: "+DefaultLanguage) {
		t.Errorf("expected default language in prompt")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := Build("t", "body", models.ModeDetailed, models.DefaultPrompts, "French")
	b := Build("t", "body", models.ModeDetailed, models.DefaultPrompts, "French")
	if a != b {
		t.Fatal("expected identical prompts for identical inputs")
	}
}

func TestStoreRoundTripAndReset(t *testing.T) {
	ctx := context.Background()
	store := NewStore(repository.NewMemoryRepository(), utils.NewNopLogger())

	if got := store.Load(ctx); got != models.DefaultPrompts {
		t.Fatalf("expected defaults before any save, got %+v", got)
	}

	custom := models.PromptConfig{
		SystemRole:          "custom role",
		StandardInstruction: "custom standard",
		DetailedInstruction: "custom detailed",
	}
	if err := store.Save(ctx, custom); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := store.Load(ctx); got != custom {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, custom)
	}

	defaults, err := store.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if defaults != models.DefaultPrompts {
		t.Fatalf("Reset() should return defaults")
	}
	if got := store.Load(ctx); got != models.DefaultPrompts {
		t.Fatalf("expected defaults after reset, got %+v", got)
	}
}

func TestStoreMergesPartialOverride(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	store := NewStore(repo, utils.NewNopLogger())

	repo.Set(ctx, PromptsKey, []byte(`{"systemRole":"only role"}`))

	got := store.Load(ctx)
	if got.SystemRole != "only role" {
		t.Fatalf("expected overridden role, got %q", got.SystemRole)
	}
	if got.StandardInstruction != models.DefaultPrompts.StandardInstruction {
		t.Fatalf("expected default standard instruction to survive")
	}
}

func TestStoreCorruptFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	store := NewStore(repo, utils.NewNopLogger())

	repo.Set(ctx, PromptsKey, []byte(`[1,2`))

	if got := store.Load(ctx); got != models.DefaultPrompts {
		t.Fatalf("expected defaults on corrupt data, got %+v", got)
	}
}
