package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/maltedev/homepage-snapshot/internal/browser"
	"github.com/maltedev/homepage-snapshot/internal/config"
	"github.com/maltedev/homepage-snapshot/internal/queue"
	"github.com/maltedev/homepage-snapshot/internal/ratelimit"
	"github.com/maltedev/homepage-snapshot/internal/report"
	"github.com/maltedev/homepage-snapshot/internal/scraper"
	"github.com/maltedev/homepage-snapshot/internal/storage"
	"github.com/maltedev/homepage-snapshot/internal/targets"
	"github.com/maltedev/homepage-snapshot/pkg/logger"
)

func main() {
	var (
		targetList = flag.String("targets", "zara", "Comma-separated list of built-in targets to snapshot (see -list)")
		adhocURL   = flag.String("url", "", "Snapshot an ad-hoc URL instead of built-in targets")
		outputDir  = flag.String("output", "", "Output directory (overrides SNAPSHOT_OUTPUT_DIR)")
		headless   = flag.Bool("headless", true, "Run browser in headless mode")
		list       = flag.Bool("list", false, "List built-in targets and exit")
	)
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(targets.Names(), "\n"))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outputDir != "" {
		cfg.Snapshot.OutputDir = *outputDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Starting homepage snapshot run")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	store, err := storage.NewSnapshotStore(cfg.Snapshot.OutputDir)
	if err != nil {
		logger.Error("Failed to open snapshot store", "error", err)
		os.Exit(1)
	}

	b, err := browser.New(&browser.Options{
		Headless:       *headless && cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		Locale:         cfg.Browser.Locale,
		SettleDelay:    cfg.Browser.SettleDelay,
	})
	if err != nil {
		logger.Error("Failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	snapshotter := scraper.NewSnapshotter(b, store, cfg.Scraper.MaxRetries)

	taskQueue := queue.NewInMemoryQueue()
	defer taskQueue.Close()

	if err := loadTasks(taskQueue, *targetList, *adhocURL); err != nil {
		logger.Error("Failed to load tasks", "error", err)
		os.Exit(1)
	}

	if taskQueue.Size() == 0 {
		fmt.Println("No targets to snapshot. Use -targets or -url.")
		flag.Usage()
		os.Exit(1)
	}

	rateLimiter := ratelimit.NewAdaptiveRateLimiter(
		cfg.Scraper.RateLimitMin,
		cfg.Scraper.RateLimitMax,
	)

	logger.Info("Starting snapshots", "tasks", taskQueue.Size())

	failed := 0
	for taskQueue.Size() > 0 && ctx.Err() == nil {
		task, err := taskQueue.Pop(ctx)
		if err != nil {
			if err != context.Canceled {
				logger.Error("Failed to get task from queue", "error", err)
			}
			break
		}

		if err := rateLimiter.Wait(ctx); err != nil {
			logger.Error("Rate limiter interrupted", "error", err)
			break
		}

		target, err := resolveTarget(task)
		if err != nil {
			logger.Error("Unknown target", "target", task.Target, "error", err)
			failed++
			continue
		}

		snap, err := snapshotter.Snapshot(ctx, target)
		if err != nil {
			logger.Error("Snapshot failed", "target", task.Target, "error", err)
			rateLimiter.RecordError()

			if task.Retries < cfg.Scraper.MaxRetries {
				task.Retries++
				taskQueue.Push(task)
				logger.Info("Retrying target", "target", task.Target, "retry", task.Retries)
				continue
			}
			failed++
		} else {
			rateLimiter.RecordSuccess()
		}

		report.Render(os.Stdout, snap)
	}

	if ctx.Err() != nil {
		failed++
	}

	report.RenderStats(os.Stdout, store.Stats())

	if failed > 0 {
		logger.Error("Run finished with failures", "failed", failed)
		os.Exit(1)
	}
	logger.Info("Run finished")
}

func loadTasks(q queue.Queue, targetList, adhocURL string) error {
	if adhocURL != "" {
		return q.Push(&queue.Task{
			ID:        "task-url",
			Target:    "",
			URL:       adhocURL,
			Priority:  1,
			CreatedAt: time.Now(),
		})
	}

	for i, name := range strings.Split(targetList, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		// Resolve eagerly so typos fail before the browser starts.
		target, err := targets.Get(name)
		if err != nil {
			return err
		}

		if err := q.Push(&queue.Task{
			ID:        fmt.Sprintf("task-%d", i),
			Target:    target.Name,
			URL:       target.URL,
			Priority:  1,
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
	}

	return nil
}

func resolveTarget(task *queue.Task) (targets.Target, error) {
	if task.Target == "" {
		return targets.FromURL(task.URL), nil
	}
	return targets.Get(task.Target)
}
