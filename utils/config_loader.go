package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ─── Section configs ────────────────────────────────────────────────────

type AppConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

type IngestConfig struct {
	Format string `yaml:"format"` // "auto", "tcx" or "fit"
}

type WindowConfig struct {
	CoalesceDrag bool `yaml:"coalesce_drag"`
	EventBuffer  int  `yaml:"event_buffer"`
}

type RenderConfig struct {
	Backend       string `yaml:"backend"` // "html" or "png"
	OutputDir     string `yaml:"output_dir"`
	SessionPrefix string `yaml:"session_prefix"`
	PageFile      string `yaml:"page_file"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Theme         string `yaml:"theme"`
}

// ViewConfig describes one chart bound to an axis pair.
type ViewConfig struct {
	Name   string `yaml:"name"`
	X      string `yaml:"x"`
	Y      string `yaml:"y"`
	Kind   string `yaml:"kind"` // "line" or "scatter"
	Target string `yaml:"target"`
}

type ExportConfig struct {
	CSV          bool `yaml:"csv"`
	Points       bool `yaml:"points"` // also write each view's points
	BufferSizeKB int  `yaml:"buffer_size_kb"`
	WriteHeader  bool `yaml:"write_header"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the top-level structure for trackview.yaml.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Ingest IngestConfig `yaml:"ingest"`
	Window WindowConfig `yaml:"window"`
	Render RenderConfig `yaml:"render"`
	Views  []ViewConfig `yaml:"views"`
	Export ExportConfig `yaml:"export"`
	Server ServerConfig `yaml:"server"`
}

// Environment keys read by ApplyEnv.
const (
	EnvConfigPath = "TRACKVIEW_CONFIG"
	EnvLogLevel   = "TRACKVIEW_LOG_LEVEL"
	EnvOutputDir  = "TRACKVIEW_OUTPUT_DIR"
)

// DefaultConfig plots speed over time and speed against distance.
func DefaultConfig() *Config {
	return &Config{
		App:    AppConfig{LogLevel: "info"},
		Ingest: IngestConfig{Format: "auto"},
		Window: WindowConfig{EventBuffer: 64},
		Render: RenderConfig{
			Backend:       "html",
			OutputDir:     "out",
			SessionPrefix: "track",
			PageFile:      "index.html",
			Width:         900,
			Height:        400,
			Theme:         "macarons",
		},
		Views: []ViewConfig{
			{Name: "timeseries", X: "time", Y: "speed", Kind: "line", Target: "timeseries"},
			{Name: "xy", X: "distance", Y: "speed", Kind: "scatter", Target: "xy"},
		},
		Export: ExportConfig{BufferSizeKB: 64, WriteHeader: true},
		Server: ServerConfig{Addr: "localhost:8080"},
	}
}

// ─── Loaders ────────────────────────────────────────────────────────────

// LoadConfig reads trackview.yaml on top of DefaultConfig. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads a .env file into the process environment. A missing file is
// not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// ApplyEnv overrides config values from TRACKVIEW_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.App.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		c.Render.OutputDir = v
	}
}

// Validate rejects configs the pipeline cannot run with.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.App.LogLevel); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	switch strings.ToLower(c.Ingest.Format) {
	case "", "auto", "tcx", "fit":
	default:
		return fmt.Errorf("validate config: unknown ingest format %q", c.Ingest.Format)
	}
	switch strings.ToLower(c.Render.Backend) {
	case "", "html", "png":
	default:
		return fmt.Errorf("validate config: unknown render backend %q", c.Render.Backend)
	}
	seen := make(map[string]bool, len(c.Views))
	for i, v := range c.Views {
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("validate config: view #%d has no name", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("validate config: duplicate view %q", v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}
