package cmd

import (
	"io"

	"github.com/go-drift/vdom/pkg/config"
	"github.com/go-drift/vdom/pkg/core"
	vdomerrors "github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/frame"
	"github.com/go-drift/vdom/pkg/telemetry"
)

const defaultAppName = "vdom"

// environment is the configured engine stack shared by commands.
type environment struct {
	cfg     *config.Config
	appName string
	log     *telemetry.Logger
	metrics *telemetry.Metrics
}

// loadEnvironment resolves the configuration and installs the logger as
// the engine's error handler.
func loadEnvironment(stderr io.Writer) (*environment, error) {
	cfg, appName, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := telemetry.NewLogger(cfg.Logging, stderr)
	vdomerrors.SetHandler(vdomerrors.NewLogHandler(log.Component("errors").Zerolog()))
	core.SetDebugMode(cfg.Engine.Debug)

	return &environment{
		cfg:     cfg,
		appName: appName,
		log:     log,
		metrics: telemetry.NewMetrics(cfg.Metrics),
	}, nil
}

func loadConfig() (*config.Config, string, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, "", err
		}
		name := cfg.App.Name
		if name == "" {
			name = defaultAppName
		}
		return cfg, name, nil
	}

	root, err := config.FindProjectRoot()
	if err != nil {
		return config.Default(), defaultAppName, nil
	}
	resolved, err := config.Resolve(root)
	if err != nil {
		return nil, "", err
	}
	return resolved.Config, resolved.AppName, nil
}

// runtimeOptions maps the configuration onto runtime options.
func (e *environment) runtimeOptions(frames frame.Source) []core.Option {
	return []core.Option{
		core.WithFrames(frames),
		core.WithLogger(e.log.Component("core")),
		core.WithMetrics(e.metrics),
		core.WithMaxRenderLoops(e.cfg.Engine.MaxRenderLoops),
	}
}
