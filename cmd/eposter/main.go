package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/posterbridge/eposter/internal/adapter"
	"github.com/posterbridge/eposter/internal/domain"
	"github.com/posterbridge/eposter/internal/posterapi"
	"github.com/posterbridge/eposter/internal/probe"
	"github.com/posterbridge/eposter/internal/refresh"
	"github.com/posterbridge/eposter/internal/store"
	"github.com/posterbridge/eposter/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Exit codes. A supervisor restarts on exitFatal but should alert (not
// restart-loop) on exitConfig.
const (
	exitFatal  = 1
	exitConfig = 2
)

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("eposter %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, adapter.ErrFatalConfig) {
			os.Exit(exitConfig)
		}
		os.Exit(exitFatal)
	}
}

func run() error {
	// Load configuration; misconfiguration terminates before any display
	// surface opens.
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return err
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting eposter", "version", Version, "device", cfg.Display.DeviceID)

	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		logger.Info("terminal detected", "cols", w, "rows", h)
	} else {
		logger.Warn("stdout is not a terminal; relying on configured geometry")
	}

	// Cache store (the only persisted state)
	st, err := store.New(cfg.Cache.Dir, cfg.Cache.EvictionGraceCycles, logger)
	if err != nil {
		return fmt.Errorf("opening poster cache: %w", err)
	}

	// Connectivity probe targets the API host
	prb, err := probe.NewForURL(cfg.API.BaseURL, cfg.API.Timeout(), logger)
	if err != nil {
		return fmt.Errorf("%w: invalid api.base_url: %v", adapter.ErrFatalConfig, err)
	}

	client := posterapi.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.Display.DeviceID, logger)

	// Shared snapshot handle + wake-up channel between scheduler and display
	handle := &domain.SnapshotHandle{}
	notify := make(chan struct{}, 1)

	sched := refresh.New(cfg.Cache.RefreshInterval(), prb, client, st, handle, notify, logger)

	// Warm-start from the on-disk mirror so the display has content even
	// if the device boots offline.
	sched.Bootstrap()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	model := tui.NewModel(tui.Options{
		Handle:      handle,
		Notify:      notify,
		Cache:       st,
		DisplayTime: time.Duration(cfg.Display.DisplayTime) * time.Second,
		Orientation: domain.Orientation(cfg.Display.Orientation),
		FixedWidth:  cfg.Display.Width,
		FixedHeight: cfg.Display.Height,
		Logger:      logger,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting display")

	if _, err := p.Run(); err != nil {
		logger.Error("display error", "error", err)
		return fmt.Errorf("display error: %w", err)
	}

	// Stop the scheduler before the terminal is restored; in-flight
	// downloads are abandoned (temp files never register as entries).
	cancel()

	logger.Info("shutting down")
	return nil
}
