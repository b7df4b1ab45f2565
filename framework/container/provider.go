package container

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Boot is called after every provider has been registered, so it is safe to
// resolve other bindings there.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return app.Singleton("mailer", func(c *container.Container) (any, error) {
//	        cfg, err := container.Resolve[*config.Repository](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg.String("mail.host", "localhost")), nil
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container. Do not resolve other
	// bindings here.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	Boot(app *Container) error

	// Provides lists the abstracts a deferred provider registers.
	//
	//	// Laravel: public function provides(): array { return [Cache::class]; }
	Provides() []string

	// IsDeferred reports whether the provider is registered only when one of
	// its Provides abstracts is first resolved.
	//
	//	// Laravel: protected $defer = true;
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with no-op Boot, Provides and
// IsDeferred.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(app *container.Container) error { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred ones.
//
// It mirrors Laravel's Application::registerConfiguredProviders and
// Application::bootProviders.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // abstract → provider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app and installs it as the
// container's deferred loader.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app.Root(),
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
	app.SetDeferredLoader(r.loadDeferred)
	return r
}

// Register adds a provider. Eager providers are registered immediately, and
// booted too when the registry has already booted. Deferred providers wait
// until one of their abstracts is resolved.
//
//	// Laravel: $app->register(new AppServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, abstract := range provider.Provides() {
			r.deferred[abstract] = provider
		}
		r.mu.Unlock()
		r.app.Logger().Debug("Deferred provider registered",
			zap.String("provider", fmt.Sprintf("%T", provider)),
			zap.Strings("provides", provider.Provides()))
		return nil
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	return r.start(provider, booted)
}

// loadDeferred registers the deferred provider of abstract, if any, the first
// time abstract is resolved.
func (r *ProviderRegistry) loadDeferred(abstract string) error {
	r.mu.Lock()
	provider, ok := r.deferred[abstract]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	for _, a := range provider.Provides() {
		delete(r.deferred, a)
	}
	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	r.app.Logger().Debug("Loading deferred provider",
		zap.String("provider", fmt.Sprintf("%T", provider)),
		zap.String("abstract", abstract))
	return r.start(provider, booted)
}

func (r *ProviderRegistry) start(provider ServiceProvider, boot bool) error {
	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("register %T: %w", provider, err)
	}
	if !boot {
		return nil
	}
	if err := provider.Boot(r.app); err != nil {
		return fmt.Errorf("boot %T: %w", provider, err)
	}
	return nil
}

// Boot calls Boot on every registered provider, in registration order. Later
// calls are no-ops.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range providers {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	r.app.Logger().Debug("Providers booted", zap.Int("count", len(providers)))
	return nil
}

// Booted reports whether Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns every provider registered so far, deferred ones included
// once they have loaded.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

// Deferred returns the abstracts still waiting on a deferred provider.
func (r *ProviderRegistry) Deferred() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.deferred))
	for abstract := range r.deferred {
		out = append(out, abstract)
	}
	return out
}
