package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/clipshare/internal/adapter"
	"github.com/mmcdole/clipshare/internal/api"
	"github.com/mmcdole/clipshare/internal/catalog"
	"github.com/mmcdole/clipshare/internal/history"
	"github.com/mmcdole/clipshare/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		configFile  string
		apiURL      string
		showVersion bool
	)
	flag.StringVar(&configFile, "config", "", "path to config file")
	flag.StringVar(&apiURL, "api", "", "API base URL, overrides config")
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("clipshare %s\n", Version)
		return
	}

	if err := run(configFile, apiURL, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: clipshare [flags] [command]\n\n")
	fmt.Fprintf(out, "Without a command the interactive browser starts.\n\n")
	fmt.Fprintf(out, "Commands:\n")
	fmt.Fprintf(out, "  list                                      list all videos\n")
	fmt.Fprintf(out, "  search <query>                            search titles and descriptions\n")
	fmt.Fprintf(out, "  stats                                     show catalog totals\n")
	fmt.Fprintf(out, "  like <id>                                 like a video\n")
	fmt.Fprintf(out, "  upload -title T [-description D] <file>   upload a video\n\n")
	fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
}

func run(configFile, apiURL string, args []string) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = adapter.ResolveBaseURL(apiURL)
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting clipshare", "version", Version, "api", cfg.API.BaseURL)

	client := api.NewClient(api.Config{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	}, logger)
	store := catalog.NewStore(client, logger)

	// Piped output gets a plain listing instead of the TUI
	if len(args) == 0 && !term.IsTerminal(int(os.Stdout.Fd())) {
		args = []string{"list"}
	}
	if len(args) > 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cmd := &command{store: store, out: os.Stdout, progress: os.Stderr}
		return cmd.run(ctx, args)
	}

	hist, err := history.Open(cfg.History.File, cfg.History.MaxEntries, logger)
	if err != nil {
		logger.Warn("search history unavailable, keeping it in memory", "file", cfg.History.File, "error", err)
		if hist, err = history.Open("", cfg.History.MaxEntries, logger); err != nil {
			return fmt.Errorf("failed to open search history: %w", err)
		}
	}
	defer hist.Close()

	// Create launcher (uses configured player or auto-detects)
	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)

	// Create TUI model
	model := tui.NewModel(store, tui.Options{
		Columns: cfg.UI.GridColumns,
		History: hist,
		Player:  launcher,
		Resolve: client.ResolveMediaURL,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
	})

	// Run the TUI
	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
