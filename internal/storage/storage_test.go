package storage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/BerylCAtieno/transcript-summarizer/internal/config"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	s, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	ctx := context.Background()

	location, err := s.Upload(ctx, "lecture_summary_classic.pdf", []byte("%PDF-1.3"), "application/pdf")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if want := filepath.Join(dir, "lecture_summary_classic.pdf"); location != want {
		t.Errorf("location = %q, want %q", location, want)
	}

	data, err := s.Download(ctx, "lecture_summary_classic.pdf")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !bytes.Equal(data, []byte("%PDF-1.3")) {
		t.Errorf("data = %q", data)
	}

	if err := s.Delete(ctx, "lecture_summary_classic.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Download(ctx, "lecture_summary_classic.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("download after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "lecture_summary_classic.pdf"); err != nil {
		t.Errorf("deleting a missing file: %v", err)
	}
}

func TestLocalStorageKeepsKeysInsideDir(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewLocalStorage(dir)

	location, err := s.Upload(context.Background(), "../../escape.pdf", []byte("x"), "application/pdf")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if filepath.Dir(location) != dir {
		t.Errorf("file written to %q, outside %q", location, dir)
	}

	if _, err := s.Upload(context.Background(), "..", []byte("x"), "application/pdf"); err == nil {
		t.Error("expected error for key ..")
	}
}

func TestNewWithoutEndpointUsesLocal(t *testing.T) {
	cfg := &config.Config{OutputDir: t.TempDir()}
	s, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := s.(*localStorage); !ok {
		t.Errorf("storage = %T, want local", s)
	}
}
