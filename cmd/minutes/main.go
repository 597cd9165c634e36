package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nguyentantai21042004/minutes-flow/internal/chunker"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/events"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
	"github.com/nguyentantai21042004/minutes-flow/internal/processor"
	"github.com/nguyentantai21042004/minutes-flow/internal/prompt"
	"github.com/nguyentantai21042004/minutes-flow/internal/provider"
	"github.com/nguyentantai21042004/minutes-flow/internal/quality"
	"github.com/nguyentantai21042004/minutes-flow/internal/server"
	"github.com/nguyentantai21042004/minutes-flow/internal/storage"
	"github.com/nguyentantai21042004/minutes-flow/internal/summarizer"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
	"github.com/nguyentantai21042004/minutes-flow/internal/watcher"
	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	file := flag.String("file", "", "summarize a single transcript and exit")
	scan := flag.Bool("scan", false, "summarize recent transcripts under the input folder and exit")
	stats := flag.Bool("stats", false, "print output folder statistics and exit")
	flag.Parse()

	// Missing .env is fine; keys may come from the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *file, *scan, *stats); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger, file string, scan, stats bool) error {
	m := metrics.New()
	store := storage.New(cfg, log)

	if stats {
		return printStats(store)
	}

	if err := ensureDirectories(cfg); err != nil {
		return err
	}

	proc, pub, err := buildProcessor(cfg, store, m, log)
	if err != nil {
		return err
	}
	defer pub.Close()

	if file != "" {
		return proc.Process(ctx, file)
	}

	w, err := watcher.New(watcher.Config{
		Root:          cfg.Paths.Input,
		Name:          cfg.Monitoring.TranscriptName,
		MinSize:       cfg.Monitoring.MinFileSize,
		StableTime:    cfg.Monitoring.StableTime,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
	}, proc.Process, log)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	if scan {
		n, err := w.Scan(ctx, cfg.Monitoring.ScanMaxAge)
		log.Info(ctx, "Backlog scan dispatched %d transcript(s)", n)
		return err
	}

	if cfg.Server.Addr != "" {
		srv := server.New(cfg.Server.Addr, store, proc, m, log)
		srv.Start(ctx)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn(ctx, "Status server shutdown: %v", err)
			}
		}()
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting minutes watcher is ready")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Monitoring: %s (%s)", cfg.Paths.Input, cfg.Monitoring.TranscriptName)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Chunking: %d bytes, %d overlap, context %s", cfg.Chunking.MaxChunkSize, cfg.Chunking.OverlapSize, cfg.Chunking.ContextMode)
	log.Info(ctx, "Concurrent: %d transcripts at once", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	err = w.Start(ctx)
	log.Info(context.Background(), "Watcher stopped")
	return err
}

func buildProcessor(cfg *config.Config, store storage.Storage, m *metrics.Metrics, log logger.Logger) (processor.Processor, events.Publisher, error) {
	clients, err := provider.Build(cfg, executor.New(), m, log)
	if err != nil {
		return nil, nil, err
	}

	ch, err := chunker.New(chunker.Config{
		MaxSize:   cfg.Chunking.MaxChunkSize,
		Overlap:   cfg.Chunking.OverlapSize,
		Tolerance: cfg.Chunking.BoundaryTolerance,
	})
	if err != nil {
		return nil, nil, err
	}

	instructions := make(map[string]string, len(cfg.MeetingTypes))
	for kind, mt := range cfg.MeetingTypes {
		instructions[kind] = mt.Instructions
	}
	prompts, err := prompt.New(cfg.Paths.Prompts, instructions)
	if err != nil {
		return nil, nil, err
	}

	sum := summarizer.New(cfg, ch, prompts, clients, quality.New(&cfg.Quality), log)
	pub := events.New(cfg.Events, m, log)
	return processor.New(transcript.NewParser(meetingProfiles(cfg.MeetingTypes)), sum, store, pub, m, log), pub, nil
}

// meetingProfiles lays configured meeting types over the built-in profiles.
func meetingProfiles(types map[string]config.MeetingTypeConfig) map[string]transcript.Profile {
	profiles := transcript.DefaultProfiles()
	for kind, mt := range types {
		p := profiles[kind]
		if mt.Label != "" {
			p.Label = mt.Label
		}
		if len(mt.TitleKeywords) > 0 {
			p.TitleWords = mt.TitleKeywords
		}
		if len(mt.Keywords) > 0 {
			p.Keywords = mt.Keywords
		}
		if len(mt.Phrases) > 0 {
			p.Phrases = mt.Phrases
		}
		if mt.MinParticipants > 0 {
			p.MinParticipants = mt.MinParticipants
		}
		if mt.MaxParticipants > 0 {
			p.MaxParticipants = mt.MaxParticipants
		}
		profiles[kind] = p
	}
	return profiles
}

func printStats(store storage.Storage) error {
	st, err := store.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Output folder: %s\n", st.Root)
	fmt.Printf("Summaries:     %d (%.1f KB)\n", st.TotalSummaries, float64(st.TotalBytes)/1024)
	fmt.Printf("Sidecars:      %d\n", st.SidecarFiles)
	fmt.Printf("Word files:    %d\n", st.DocxFiles)

	periods := make([]string, 0, len(st.ByPeriod))
	for p := range st.ByPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	for _, p := range periods {
		fmt.Printf("  %-20s %d\n", p, st.ByPeriod[p])
	}
	return nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	for _, dir := range []string{cfg.Paths.Input, cfg.Paths.Output} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
