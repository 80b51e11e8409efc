package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/five82/bookshelf/internal/catalog"
	"github.com/five82/bookshelf/internal/config"
	"github.com/five82/bookshelf/internal/devserver"
	"github.com/five82/bookshelf/internal/prefs"
	"github.com/five82/bookshelf/internal/ui"
)

// Options configure the bookshelf screen. Non-empty fields override the
// config file and environment.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/bookshelf/prefs.toml
	APIURL     string
	LogFile    string
}

// ServeOptions configure the development backend.
type ServeOptions struct {
	ConfigPath string
	Addr       string
	DataDir    string
}

// Run boots the bookshelf TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	override(&cfg.APIURL, opts.APIURL)
	if opts.LogFile != "" {
		path, err := config.ExpandPath(opts.LogFile)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		cfg.LogFile = path
	}

	closeLog, err := setupFileLogger(cfg.LogFile, cfg.SlogLevel())
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := catalog.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init books client: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	slog.Info("bookshelf starting", "api", client.BaseURL(), "theme", userPrefs.Theme)
	defer slog.Info("bookshelf stopped")

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		LogFile:   cfg.LogFile,
	})
}

// Serve runs the development backend until the context is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	override(&cfg.ListenAddr, opts.Addr)
	if opts.DataDir != "" {
		dir, err := config.ExpandPath(opts.DataDir)
		if err != nil {
			return fmt.Errorf("data dir: %w", err)
		}
		cfg.DataDir = dir
	}

	setupStderrLogger(cfg.SlogLevel())

	return devserver.Run(ctx, devserver.Options{
		Addr:         cfg.ListenAddr,
		DatabasePath: cfg.DatabasePath(),
		CoversDir:    cfg.CoversDir(),
	})
}

func override(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}
