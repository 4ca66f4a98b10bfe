// Package config loads the optional vdom.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/vdom/pkg/frame"
	"github.com/go-drift/vdom/pkg/telemetry"
)

// FileName is the configuration file looked up in the project root.
const FileName = "vdom.yaml"

// Config represents the vdom.yaml configuration.
type Config struct {
	App     AppConfig               `yaml:"app"`
	Engine  EngineConfig            `yaml:"engine"`
	Logging telemetry.LoggingConfig `yaml:"logging"`
	Metrics telemetry.MetricsConfig `yaml:"metrics"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty" validate:"omitempty,max=64"`
}

// EngineConfig contains runtime settings.
type EngineConfig struct {
	// FrameInterval is the period of the frame loop driving flushes.
	FrameInterval time.Duration `yaml:"frame_interval,omitempty" validate:"gte=0,lte=1s"`
	// MaxRenderLoops bounds synchronous re-renders of one instance.
	MaxRenderLoops int `yaml:"max_render_loops,omitempty" validate:"gte=0,lte=1000"`
	// Debug renders failing components as their error message.
	Debug bool `yaml:"debug,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	Config     *Config
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			FrameInterval:  frame.DefaultInterval,
			MaxRenderLoops: 25,
		},
		Logging: telemetry.LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads the configuration at path over the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional reads vdom.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Engine.FrameInterval == 0 {
		c.Engine.FrameInterval = def.Engine.FrameInterval
	}
	if c.Engine.MaxRenderLoops == 0 {
		c.Engine.MaxRenderLoops = def.Engine.MaxRenderLoops
	}
}

// Resolve loads vdom.yaml (if present) from dir and resolves defaults.
// A directory without go.mod falls back to its base name for the app name.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = sanitizeSegment(appName)
	}

	return &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppName:    appName,
		Config:     cfg,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		modName, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "vdom_app"
	}
	return base
}

// sanitizeSegment lowercases s and keeps only letters and digits, so the
// result is usable as a metrics namespace.
func sanitizeSegment(s string) string {
	var out []rune
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	if len(out) == 0 {
		return "vdom"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = append([]rune{'a'}, out...)
	}
	return string(out)
}
