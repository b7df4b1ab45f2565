package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hakrichTech/bindIt/framework/config"
	"github.com/hakrichTech/bindIt/framework/container"
	"github.com/hakrichTech/bindIt/framework/providers"
)

// Version is the framework version reported by Application.Version.
const Version = "0.1.0"

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly,
// exactly like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config *config.Repository
}

// New loads configuration from envFiles (".env" when none are given),
// builds the logger and registers the framework providers.
//
// APP_DEBUG=true selects zap's development logger; otherwise the
// production logger is used.
func New(envFiles ...string) (*Application, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig is New with an already loaded configuration.
func NewWithConfig(cfg *config.Repository) (*Application, error) {
	logger, err := newLogger(cfg.Bool("app.debug", false))
	if err != nil {
		return nil, err
	}

	c := container.New(container.WithLogger(logger))
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		config:    cfg,
	}

	if err := app.Instance("app", app); err != nil {
		return nil, err
	}

	// Framework core providers, in Laravel's order.
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{Repository: cfg},
		&providers.LogServiceProvider{},
		&providers.InspectServiceProvider{},
	} {
		if err := app.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config returns the application configuration.
func (a *Application) Config() *config.Repository { return a.config }

// Run boots the application (if needed) and serves the binding inspector on
// app.port until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	handler, err := container.Resolve[http.Handler](a.Container, "inspector")
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.config.String("app.port", "8000"),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger().Info("Application running",
			zap.String("name", a.config.String("app.name", "bindIt")),
			zap.String("env", a.Environment()),
			zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.String("app.env", "production") }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.config.Bool("app.debug", false) }
func (a *Application) Version() string     { return Version }
