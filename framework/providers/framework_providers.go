package providers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hakrichTech/bindIt/framework/config"
	"github.com/hakrichTech/bindIt/framework/container"
	"github.com/hakrichTech/bindIt/framework/inspect"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the application configuration as "config".
// Repository is used when set; otherwise the env files are loaded on first
// resolution.
//
// Bound abstracts:
//   - "config"         → *config.Repository
//   - "configuration"  → alias of "config"
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	Repository *config.Repository
	EnvFiles   []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	repo, envFiles := p.Repository, p.EnvFiles
	err := app.Singleton("config", func() (any, error) {
		if repo != nil {
			return repo, nil
		}
		return config.Load(envFiles...)
	})
	if err != nil {
		return err
	}
	return app.Alias("config", "configuration")
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider exposes the container's logger.
//
// Bound abstracts:
//   - "log"                          → *zap.Logger
//   - container.Key[*zap.Logger]()   → alias of "log"
type LogServiceProvider struct {
	container.BaseProvider
}

func (p *LogServiceProvider) Register(app *container.Container) error {
	if err := app.Instance("log", app.Logger()); err != nil {
		return err
	}
	return app.Alias("log", container.Key[*zap.Logger]())
}

// Boot checks that "log" resolves to a logger.
func (p *LogServiceProvider) Boot(app *container.Container) error {
	logger, err := container.Resolve[*zap.Logger](app, "log")
	if err != nil {
		return err
	}
	logger.Debug("Logger ready")
	return nil
}

// ── InspectServiceProvider ────────────────────────────────────────────────────

// InspectServiceProvider registers the read-only binding inspector. It is
// deferred: the handler is built on first Make("inspector").
//
// Bound abstracts:
//   - "inspector"  → http.Handler
type InspectServiceProvider struct {
	container.BaseProvider
}

func (p *InspectServiceProvider) Register(app *container.Container) error {
	return app.Singleton("inspector", func(c *container.Container) (any, error) {
		logger, err := container.Resolve[*zap.Logger](c, "log")
		if err != nil && !errors.Is(err, container.ErrBindingResolution) {
			return nil, err
		}
		var h http.Handler = inspect.Handler(c.Root(), logger)
		return h, nil
	})
}

func (p *InspectServiceProvider) IsDeferred() bool   { return true }
func (p *InspectServiceProvider) Provides() []string { return []string{"inspector"} }
