package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BerylCAtieno/transcript-summarizer/internal/config"
	"github.com/BerylCAtieno/transcript-summarizer/internal/db"
	"github.com/BerylCAtieno/transcript-summarizer/internal/extractor"
	"github.com/BerylCAtieno/transcript-summarizer/internal/history"
	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/prompts"
	"github.com/BerylCAtieno/transcript-summarizer/internal/render"
	"github.com/BerylCAtieno/transcript-summarizer/internal/repository"
	"github.com/BerylCAtieno/transcript-summarizer/internal/services"
	"github.com/BerylCAtieno/transcript-summarizer/internal/storage"
	"github.com/BerylCAtieno/transcript-summarizer/internal/summarizer"
	"github.com/BerylCAtieno/transcript-summarizer/internal/tui"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
	"github.com/BerylCAtieno/transcript-summarizer/internal/workflow"
)

func main() {
	var (
		headless    = flag.Bool("headless", false, "summarize one file without the interactive UI")
		file        = flag.String("file", "", "transcript to summarize in headless mode (.txt, .pdf, .docx)")
		topic       = flag.String("topic", "", "lecture topic")
		mode        = flag.String("mode", string(models.ModeStandard), "summary mode: standard or detailed")
		style       = flag.String("style", string(models.StyleClassic), "pdf style: classic, academic or creative")
		noAltScreen = flag.Bool("no-alt-screen", false, "render inline instead of using the terminal alt screen")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Log lines go to a file so they do not tear the rendered UI.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	logger := utils.NewLoggerTo(logFile, cfg.LogLevel)

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	repo := repository.NewRepository(database)
	historyStore := history.NewStore(repo, logger)
	promptStore := prompts.NewStore(repo, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	writer := render.NewWriter(render.NewFontLoader(cfg.FontURL, logger), logger)
	exporter := services.NewExportService(writer, store, logger)

	client := summarizer.NewClient(cfg.RelayURL, historyStore, logger,
		summarizer.WithTimeout(cfg.SummaryTimeout),
		summarizer.WithModel(cfg.OpenRouterModel),
	)

	changes := make(chan models.ProcessingState, 16)
	opts := []workflow.Option{
		workflow.WithLanguage(cfg.SummaryLanguage),
		workflow.WithModel(cfg.OpenRouterModel),
	}
	if !*headless {
		opts = append(opts, workflow.WithOnChange(func(s models.ProcessingState) {
			select {
			case changes <- s:
			default:
			}
		}))
	}
	machine := workflow.NewMachine(client, exporter, promptStore, logger, opts...)

	if *headless {
		if err := runHeadless(ctx, machine, *file, *topic, *mode, *style); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	programOpts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	program := tea.NewProgram(tui.New(tui.Config{
		Machine: machine,
		Changes: changes,
		Usage:   historyStore,
	}), programOpts...)

	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runHeadless(ctx context.Context, machine *workflow.Machine, file, topic, modeFlag, styleFlag string) error {
	if file == "" {
		return fmt.Errorf("-file is required in headless mode")
	}
	mode, err := models.ParseMode(modeFlag)
	if err != nil {
		return err
	}
	style, err := models.ParseStyle(styleFlag)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	text, err := extractor.Extract(file, data)
	if err != nil {
		return err
	}

	if err := machine.LoadFile(filepath.Base(file), text); err != nil {
		return err
	}
	if err := machine.SetTopic(topic); err != nil {
		return err
	}
	if err := machine.SetMode(mode); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Analyzing %s…\n", filepath.Base(file))
	if err := machine.Analyze(ctx); err != nil {
		return errors.New(deref(machine.Snapshot().ErrorMessage, err.Error()))
	}

	fmt.Fprintf(os.Stderr, "Generating %s PDF…\n", style)
	artifact, err := machine.Export(ctx, style)
	if err != nil {
		return errors.New(deref(machine.Snapshot().ErrorMessage, err.Error()))
	}

	fmt.Printf("%s (%d pages)\n", artifact.Location, artifact.Pages)
	return nil
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
