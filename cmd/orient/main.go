package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/orient/pkg/config"
	"github.com/Dicklesworthstone/orient/pkg/orientation"
	"github.com/Dicklesworthstone/orient/pkg/ui"
	"github.com/Dicklesworthstone/orient/pkg/watcher"
	"github.com/Dicklesworthstone/orient/pkg/window"
)

var version = "0.1.0"

const usageMarkdown = `# orient

Reports whether the terminal is in **portrait** or **landscape** orientation
(width <= height is portrait).

## Usage

    orient [options]

## Modes

- default on a terminal: interactive view that follows resizes
- ` + "`-plain`" + `: one JSON result per line on every change
- ` + "`-once`" + `: print the current result and exit

## Config

Options are read from ` + "`.orient.yaml`" + ` in the working directory:

    defaultOrientation: portrait   # or landscape
    debounce: 400ms
    pixels: false
    log_level: warn
`

// exit codes
const (
	exitOK     = 0
	exitFail   = 1
	exitConfig = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("orient", flag.ContinueOnError)
	fs.SetOutput(stderr)
	help := fs.Bool("help", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	configPath := fs.String("config", "", "Path to config file (default ./"+config.FileName+")")
	defaultFlag := fs.String("default", "", "Default orientation before a measurement: portrait | landscape")
	pixels := fs.Bool("pixels", false, "Measure in pixels when the terminal reports them")
	plain := fs.Bool("plain", false, "Print one JSON result per line on every change")
	once := fs.Bool("once", false, "Print the current result and exit")
	debugLog := fs.String("debug-log", "", "Write debug logs to this file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}

	if *help {
		printHelp(stdout, fs)
		return exitOK
	}
	if *showVersion {
		fmt.Fprintf(stdout, "orient version %s\n", version)
		return exitOK
	}

	cfg, err := loadConfig(*configPath, *defaultFlag, *pixels)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	interactive := isTerminal(stdout) && !*plain && !*once

	logger, closeLog, err := newLogger(*debugLog, cfg.LogLevel, stderr, interactive)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFail
	}
	defer closeLog()
	cfg.Options.Logger = logger

	switch {
	case *once:
		err = runOnce(cfg, stdout)
	case interactive:
		err = runTUI(cfg)
	default:
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		err = runPlain(ctx, cfg, *configPath, *defaultFlag, *pixels, stdout, logger)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if isConfigError(err) {
			return exitConfig
		}
		return exitFail
	}
	return exitOK
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	out := usageMarkdown
	if isTerminal(w) {
		if rendered, err := glamour.Render(usageMarkdown, "dark"); err == nil {
			out = rendered
		}
	}
	fmt.Fprint(w, out)
	fmt.Fprintln(w, "\nOptions:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(path, defaultFlag string, pixels bool) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load("")
	}
	if err != nil {
		return config.Config{}, err
	}

	if defaultFlag != "" {
		opts, err := orientation.ParseOptions(map[string]any{
			orientation.OptionDefaultOrientation: defaultFlag,
		})
		if err != nil {
			return config.Config{}, err
		}
		cfg.Options.DefaultOrientation = opts.DefaultOrientation
	}
	if pixels {
		cfg.Pixels = true
	}
	return cfg, nil
}

func isConfigError(err error) bool {
	var invalid *orientation.InvalidDefaultOrientationError
	return errors.Is(err, orientation.ErrInvalidOptions) || errors.As(err, &invalid)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// detectWindow measures the terminal behind w, if there is one.
func detectWindow(w io.Writer, pixels bool) window.Window {
	f, ok := w.(*os.File)
	if !ok {
		return window.None{}
	}
	return window.Detect(f, pixels)
}

// newLogger logs to stderr, or to a file when one is given. The interactive
// view owns the screen, so without a file it logs nothing.
func newLogger(path string, level slog.Level, stderr io.Writer, interactive bool) (*slog.Logger, func(), error) {
	if path != "" {
		f, err := tea.LogToFile(path, "orient")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
		}
		return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), func() { f.Close() }, nil
	}
	if interactive {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})), func() {}, nil
}

func runOnce(cfg config.Config, stdout io.Writer) error {
	win := detectWindow(stdout, cfg.Pixels)
	defer window.Close(win)

	obs, err := orientation.NewObserver(win, cfg.Options)
	if err != nil {
		return err
	}
	obs.Start()
	defer obs.Stop()

	return json.NewEncoder(stdout).Encode(obs.Result())
}

func runTUI(cfg config.Config) error {
	m, err := ui.NewModel(cfg.Options)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running orient: %w", err)
	}
	return nil
}

// runPlain streams results until ctx is done, restarting the observer
// whenever the config file changes.
func runPlain(ctx context.Context, cfg config.Config, configPath, defaultFlag string, pixels bool, stdout io.Writer, logger *slog.Logger) error {
	win := detectWindow(stdout, cfg.Pixels)
	defer window.Close(win)

	results := make(chan orientation.Result, 16)
	start := func(opts orientation.Options) (*orientation.Observer, error) {
		obs, err := orientation.NewObserver(win, opts)
		if err != nil {
			return nil, err
		}
		obs.Subscribe(func(r orientation.Result) {
			select {
			case results <- r:
			case <-ctx.Done():
			}
		})
		obs.Start()
		select {
		case results <- obs.Result():
		case <-ctx.Done():
		}
		return obs, nil
	}

	obs, err := start(cfg.Options)
	if err != nil {
		return err
	}

	fw := watcher.NewFileWatcher(cfg.Path, watcher.WithLogger(logger))
	if err := fw.Start(ctx); err != nil {
		obs.Stop()
		return err
	}
	defer fw.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		enc := json.NewEncoder(stdout)
		for {
			select {
			case <-ctx.Done():
				return nil
			case r := <-results:
				if err := enc.Encode(r); err != nil {
					return fmt.Errorf("failed to write result: %w", err)
				}
			}
		}
	})

	g.Go(func() error {
		defer func() {
			if obs != nil {
				obs.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-fw.Changed():
				next, err := loadConfig(configPath, defaultFlag, pixels)
				if err != nil {
					logger.Warn("ignoring invalid config", "path", cfg.Path, "error", err)
					continue
				}
				next.Options.Logger = logger
				obs.Stop()
				if obs, err = start(next.Options); err != nil {
					return err
				}
				logger.Info("config reloaded", "path", cfg.Path, "default", next.Options.DefaultOrientation)
			}
		}
	})

	return g.Wait()
}
