package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings shared by the screen and the dev backend.
type Config struct {
	APIURL         string
	RequestTimeout time.Duration
	LogFile        string
	LogLevel       string
	DataDir        string
	ListenAddr     string
}

const (
	defaultConfigPath     = "~/.config/bookshelf/config.toml"
	defaultAPIURL         = "http://localhost:5000"
	defaultRequestTimeout = 10 * time.Second
	defaultLogFile        = "~/.local/state/bookshelf/bookshelf.log"
	defaultLogLevel       = "info"
	defaultDataDir        = "~/.local/share/bookshelf"
	defaultListenAddr     = "127.0.0.1:5000"
)

// fileConfig is the TOML shape of config.toml.
type fileConfig struct {
	APIURL         string `toml:"api_url"`
	RequestTimeout int    `toml:"request_timeout"`
	LogFile        string `toml:"log_file"`
	LogLevel       string `toml:"log_level"`
	DataDir        string `toml:"data_dir"`
	ListenAddr     string `toml:"listen_addr"`
}

// envConfig lists the environment overrides. Unset variables leave the
// file values alone.
type envConfig struct {
	APIURL         string `env:"BOOKSHELF_API_URL"`
	RequestTimeout int    `env:"BOOKSHELF_REQUEST_TIMEOUT"`
	LogFile        string `env:"BOOKSHELF_LOG_FILE"`
	LogLevel       string `env:"BOOKSHELF_LOG_LEVEL"`
	DataDir        string `env:"BOOKSHELF_DATA_DIR"`
	ListenAddr     string `env:"BOOKSHELF_LISTEN_ADDR"`
}

// Default returns the built-in configuration with paths expanded.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		DataDir:        mustExpand(defaultDataDir),
		ListenAddr:     defaultListenAddr,
	}
}

// Load reads the config file at path (or the default location), then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	cfg.apply(raw)

	var overrides envConfig
	if err := env.Parse(&overrides); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.apply(fileConfig(overrides))

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var raw fileConfig

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

// apply overlays the non-blank values of raw.
func (c *Config) apply(raw fileConfig) {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if raw.RequestTimeout > 0 {
		c.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		c.DataDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ListenAddr); v != "" {
		c.ListenAddr = v
	}
}

// SlogLevel maps LogLevel onto slog levels, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DatabasePath returns the dev backend's SQLite file.
func (c Config) DatabasePath() string {
	return filepath.Join(c.dataDir(), "books.sqlite")
}

// CoversDir returns the directory the dev backend stores uploads in.
func (c Config) CoversDir() string {
	return filepath.Join(c.dataDir(), "covers")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

// ExpandPath resolves "~" and relative paths to an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
