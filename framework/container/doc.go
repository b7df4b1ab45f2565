// Package container provides a Laravel-compatible IoC (Inversion of Control)
// container and Service Provider system for Go.
//
// # Overview
//
// The container manages the instantiation and lifecycle of your application's
// dependencies. It supports transient bindings, singletons, pre-built instances,
// aliases, tags, contextual bindings, extension (decoration), rebound
// notification and constructor injection.
//
// It mirrors the public API of Laravel's Illuminate\Container\Container as
// closely as Go's type system allows. Abstracts are strings; Key[T]() gives
// the key of a Go type.
//
// # Container Lifecycle
//
//  1. Create: c := container.New(container.WithLogger(logger))
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()
//  4. Serve requests
//
// # Bindings
//
//	// Transient, a new instance every Make
//	// Laravel: $app->bind(Foo::class, fn($app) => new Foo)
//	c.Bind("Foo", func() any { return &Foo{} })
//
//	// Singleton, created once and reused
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache)
//	c.Singleton("cache", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Repository](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return cache.NewRedis(cfg.String("cache.host", "localhost")), nil
//	})
//
//	// Pre-built value
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", repo)
//
//	// Alias
//	// Laravel: $app->alias(Cache::class, 'cache')
//	c.Alias("cache", "cacheManager")
//
// # Constructor injection
//
// Provide registers a constructor. Its parameters are resolved from the
// container when the type is built: object parameters by their type key,
// primitive parameters from MakeWith overrides, "$name" contextual bindings
// or declared defaults.
//
//	func NewMailer(t Transport, from string) *Mailer { ... }
//
//	c.Provide(NewMailer, container.ParamNames("transport", "from"),
//	    container.Default("from", "noreply@example.com"))
//	c.Bind(container.Key[Transport](), container.Key[*SMTPTransport]())
//
//	mailer, err := container.ResolveType[*Mailer](c)
//
// Constructors that take a single struct embedding container.In get one
// parameter per field, configured with param, default, optional, variadic
// and inject struct tags.
//
// # Resolving
//
//	// Laravel: $app->make(Cache::class)
//	raw, err := c.Make("cache")
//
//	// Laravel: $app->makeWith(Server::class, ['port' => 8080])
//	srv, err := c.MakeWith("Server", container.Params{"port": 8080})
//
//	// Generic
//	cache, err := container.Resolve[*RedisCache](c, "cache")
//
// # Contextual Binding
//
//	// Laravel: $app->when(PhotoController::class)
//	//              ->needs(Filesystem::class)
//	//              ->give(fn() => new S3Filesystem)
//	c.When("PhotoController").
//	    Needs("Filesystem").
//	    Give(func() any { return &S3Filesystem{} })
//
//	c.When("PhotoController").Needs("$path").GiveValue("/tmp/photos")
//	c.When("Clock").Needs("$timezone").GiveConfig("app.timezone", "UTC")
//
// # Tags
//
//	// Laravel: $app->tag([CpuReport::class, MemReport::class], 'reports')
//	c.Tag([]string{"CpuReport", "MemReport"}, "reports")
//	reports, err := c.Tagged("reports")
//
// # Extend / Decorate
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend("logger", func(instance any, c *container.Container) any {
//	    return &TimestampLogger{Inner: instance.(Logger)}
//	})
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool     { return true }
//	func (p *HeavyProvider) Provides() []string   { return []string{"heavy"} }
//	func (p *HeavyProvider) Register(app *container.Container) error {
//	    return app.Singleton("heavy", func() any {
//	        return heavySetup() // only called on first app.Make("heavy")
//	    })
//	}
package container
