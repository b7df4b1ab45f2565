package container

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/hakrichTech/bindIt/framework/alias"
	"go.uber.org/zap"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value. It receives the container handle of the
// current resolution and the parameter overrides of the make that asked for it.
type Factory func(c *Container, params Params) (any, error)

// Extender decorates a freshly built instance before it is cached.
type Extender func(instance any, c *Container) any

// ReboundFunc is notified with the new instance when a resolved abstract is
// bound again.
type ReboundFunc func(c *Container, instance any)

// binding holds a registered concrete (type name or Factory) and whether it
// is shared.
type binding struct {
	concrete any
	shared   bool
}

// Binding is a read-only view of one registration.
type Binding struct {
	Abstract string
	Concrete any // string type name or Factory
	Shared   bool
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container. It mirrors Laravel's Illuminate\Container\Container.
//
// A *Container is a handle. The root handle returned by New starts a fresh
// resolution for every Make; the handles passed to factories, extenders and
// rebound callbacks carry the resolution they run in, so nested Make calls
// see the right build stack and parameter overrides. Such handles must not be
// shared across goroutines; call Root for one that can.
type Container struct {
	reg *registry
	res *resolution
}

// registry is the state shared by every handle of one container.
type registry struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → shared instance
	instances map[string]any

	// abstracts resolved at least once
	resolved map[string]bool

	// abstract → extenders, in registration order
	extenders map[string][]Extender

	// tag → []abstract
	tags map[string][]string

	// contextual: when[concrete][abstract] = implementation
	contextual map[string]map[string]any

	// abstract → rebound callbacks
	reboundCallbacks map[string][]ReboundFunc

	afterResolving []func(string, any)

	// "Type@method" → callback
	methodBindings map[string]MethodFunc

	// concrete type name → constructor information
	types map[string]*typeInfo

	// consulted for abstracts with no binding before resolution
	deferredLoader func(abstract string) error

	// write stamps: an in-flight resolve or Extend only stores into
	// instances when the stamp it read is still current
	gen      uint64
	seq      uint64
	versions map[string]uint64

	aliases AliasResolver
	log     *zap.Logger
	root    *Container
}

// New creates an empty container. It is registered in itself as
// "container" and under Key[*Container]().
func New(opts ...Option) *Container {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.aliases == nil {
		o.aliases = alias.New()
	}

	r := &registry{aliases: o.aliases, log: o.logger}
	r.reset()

	c := &Container{reg: r}
	r.root = c
	r.storeSelf()
	return c
}

func (r *registry) reset() {
	r.bindings = make(map[string]*binding)
	r.instances = make(map[string]any)
	r.resolved = make(map[string]bool)
	r.extenders = make(map[string][]Extender)
	r.tags = make(map[string][]string)
	r.contextual = make(map[string]map[string]any)
	r.reboundCallbacks = make(map[string][]ReboundFunc)
	r.afterResolving = nil
	r.methodBindings = make(map[string]MethodFunc)
	r.types = make(map[string]*typeInfo)
	r.versions = make(map[string]uint64)
	r.gen++
}

type stamp struct{ gen, ver uint64 }

// stampOf must hold mu.
func (r *registry) stampOf(abstract string) stamp {
	return stamp{gen: r.gen, ver: r.versions[abstract]}
}

// touch must hold mu.Lock.
func (r *registry) touch(abstract string) {
	r.seq++
	r.versions[abstract] = r.seq
}

func (r *registry) storeSelf() {
	r.instances["container"] = r.root
	r.instances[Key[*Container]()] = r.root
}

// Root returns the container's root handle.
func (c *Container) Root() *Container { return c.reg.root }

// Logger returns the container's diagnostics logger.
func (c *Container) Logger() *zap.Logger { return c.reg.log }

// tree returns c when it already carries a resolution, or a handle on a new one.
func (c *Container) tree() *Container {
	if c.res != nil {
		return c
	}
	return &Container{reg: c.reg, res: newResolution()}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient concrete for abstract.
//
// concrete may be nil (bind abstract to itself), a type name, or a factory
// func. Accepted factory shapes are Factory, func(*Container, Params) (any, error),
// func(*Container) (any, error), func(*Container) any, func() (any, error) and
// func() any.
//
//	// Laravel: $app->bind(UserRepository::class, EloquentUserRepository::class)
//	c.Bind("UserRepository", "EloquentUserRepository")
//	c.Bind("Clock", func() any { return SystemClock{} })
func (c *Container) Bind(abstract string, concrete any) error {
	return c.bind(abstract, concrete, false)
}

// Singleton registers a shared concrete whose result is cached after first
// resolution.
//
//	// Laravel: $app->singleton(Cache::class, fn($app) => new RedisCache($app))
//	c.Singleton("cache", func(c *container.Container) (any, error) {
//	    return cache.NewRedis(c)
//	})
func (c *Container) Singleton(abstract string, concrete any) error {
	return c.bind(abstract, concrete, true)
}

// BindIf binds abstract only when it is not bound yet.
func (c *Container) BindIf(abstract string, concrete any) error {
	if c.Bound(abstract) {
		return nil
	}
	return c.Bind(abstract, concrete)
}

// SingletonIf registers a singleton only when abstract is not bound yet.
func (c *Container) SingletonIf(abstract string, concrete any) error {
	if c.Bound(abstract) {
		return nil
	}
	return c.Singleton(abstract, concrete)
}

// bind stores the binding and, when abstract was already resolved, fires the
// rebound callbacks before returning.
func (c *Container) bind(abstract string, concrete any, shared bool) error {
	if concrete == nil {
		concrete = abstract
	}
	normalized, ok := normalizeConcrete(concrete)
	if !ok {
		return &TypeMismatchError{Abstract: abstract, Concrete: concrete}
	}

	r := c.reg
	r.mu.Lock()
	r.dropStaleInstances(abstract)
	r.bindings[abstract] = &binding{concrete: normalized, shared: shared}
	r.touch(abstract)
	wasResolved := r.isResolved(abstract)
	r.mu.Unlock()

	r.log.Debug("Binding registered",
		zap.String("abstract", abstract),
		zap.Bool("shared", shared),
		zap.Bool("rebound", wasResolved))

	if wasResolved {
		return c.rebound(abstract)
	}
	return nil
}

// Instance registers a pre-built value as the shared instance of abstract.
//
//	// Laravel: $app->instance(Config::class, $config)
//	c.Instance("config", cfg)
func (c *Container) Instance(abstract string, instance any) error {
	r := c.reg
	r.mu.Lock()
	r.aliases.RemoveAbstractAlias(abstract)
	wasBound := r.isBound(abstract)
	r.aliases.Forget(abstract)
	r.instances[abstract] = instance
	r.touch(abstract)
	r.mu.Unlock()

	r.log.Debug("Instance stored", zap.String("abstract", abstract), zap.Bool("rebound", wasBound))

	if wasBound {
		return c.rebound(abstract)
	}
	return nil
}

// Set binds a value, or a factory func, under key. Values are returned
// verbatim on every Make, strings included.
func (c *Container) Set(key string, value any) error {
	if f, ok := normalizeConcrete(value); ok {
		if _, isName := f.(string); !isName {
			return c.Bind(key, f)
		}
	}
	return c.Bind(key, func() any { return value })
}

// Alias registers alias as another name for abstract.
//
//	// Laravel: $app->alias(Cache::class, 'cache')
func (c *Container) Alias(abstract, alias string) error {
	return c.reg.aliases.Alias(abstract, alias)
}

// GetAlias returns the abstract name behind name.
func (c *Container) GetAlias(name string) string { return c.reg.aliases.Canonical(name) }

// IsAlias reports whether name is an alias.
func (c *Container) IsAlias(name string) bool { return c.reg.aliases.IsAlias(name) }

// AliasesOf returns the aliases registered for abstract.
func (c *Container) AliasesOf(abstract string) []string { return c.reg.aliases.AliasesOf(abstract) }

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates the resolved instance of an abstract.
//
// When a shared instance is already cached, fn is applied to it once and the
// result replaces it, unless the abstract was rebound or forgotten while fn
// ran; otherwise fn is queued and applied, after any earlier extenders, to
// every fresh build.
//
//	// Laravel: $app->extend(Logger::class, fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend("logger", func(instance any, c *container.Container) any {
//	    return &TimestampLogger{Inner: instance.(Logger)}
//	})
func (c *Container) Extend(abstract string, fn Extender) error {
	r := c.reg
	abstract = r.aliases.Canonical(abstract)

	r.mu.Lock()
	if inst, ok := r.instances[abstract]; ok {
		st := r.stampOf(abstract)
		r.mu.Unlock()
		extended := fn(inst, c)
		r.mu.Lock()
		if r.stampOf(abstract) != st {
			r.mu.Unlock()
			r.log.Debug("Extended instance discarded, abstract changed", zap.String("abstract", abstract))
			return nil
		}
		r.instances[abstract] = extended
		r.touch(abstract)
		r.mu.Unlock()
		r.log.Debug("Cached instance extended", zap.String("abstract", abstract))
		return c.rebound(abstract)
	}

	r.extenders[abstract] = append(r.extenders[abstract], fn)
	r.touch(abstract)
	wasResolved := r.isResolved(abstract)
	r.mu.Unlock()

	r.log.Debug("Extender registered", zap.String("abstract", abstract))

	if wasResolved {
		return c.rebound(abstract)
	}
	return nil
}

// ForgetExtenders removes every queued extender for abstract.
func (c *Container) ForgetExtenders(abstract string) {
	r := c.reg
	abstract = r.aliases.Canonical(abstract)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.extenders, abstract)
	r.touch(abstract)
}

func (c *Container) extendersFor(abstract string) []Extender {
	r := c.reg
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.extenders[abstract])
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple abstracts under a named group.
//
//	// Laravel: $app->tag([CpuReport::class, MemoryReport::class], 'reports')
//	c.Tag([]string{"CpuReport", "MemoryReport"}, "reports")
func (c *Container) Tag(abstracts []string, tag string) {
	r := c.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[tag] = append(r.tags[tag], abstracts...)
}

// Tagged resolves all abstracts registered under a tag, in tag order.
//
//	// Laravel: $app->tagged('reports')
//	reports, err := c.Tagged("reports")
func (c *Container) Tagged(tag string) ([]any, error) {
	r := c.reg
	r.mu.RLock()
	abstracts := slices.Clone(r.tags[tag])
	r.mu.RUnlock()

	result := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		inst, err := c.Make(abs)
		if err != nil {
			return nil, err
		}
		result = append(result, inst)
	}
	return result, nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container.
//
//	// Laravel: $app->make(UserRepository::class)
//	repo, err := c.Make("UserRepository")
func (c *Container) Make(abstract string) (any, error) {
	return c.resolve(abstract, nil)
}

// MakeWith resolves an abstract with named constructor-parameter overrides.
// Overrides always force a fresh build, even for singletons.
//
//	// Laravel: $app->makeWith(Server::class, ['port' => 8080])
//	srv, err := c.MakeWith("Server", container.Params{"port": 8080})
func (c *Container) MakeWith(abstract string, params Params) (any, error) {
	return c.resolve(abstract, params)
}

// Get is Make under the name ArrayAccess gave it.
func (c *Container) Get(id string) (any, error) { return c.Make(id) }

// Factory returns a func that resolves abstract on each call.
func (c *Container) Factory(abstract string) func() (any, error) {
	root := c.reg.root
	return func() (any, error) { return root.Make(abstract) }
}

// resolve is the resolver: canonicalise, consult contextual bindings and the
// instance cache, build or recurse, extend, then cache shared results.
func (c *Container) resolve(abstract string, params Params) (any, error) {
	return c.resolveFrame(abstract, params, len(params) == 0)
}

// resolveFrame is resolve with explicit cycle tracking. Calls carrying
// caller overrides skip it, except bound-name hops that forward the frame.
func (c *Container) resolveFrame(abstract string, params Params, trackCycle bool) (any, error) {
	h := c.tree()
	r := c.reg
	abstract = r.aliases.Canonical(abstract)

	if err := c.loadDeferred(abstract); err != nil {
		return nil, err
	}

	concrete, contextual := h.contextualConcrete(abstract)
	needsContextualBuild := len(params) > 0 || contextual

	// A cached shared instance wins unless this request carries overrides.
	if !needsContextualBuild {
		r.mu.RLock()
		inst, ok := r.instances[abstract]
		r.mu.RUnlock()
		if ok {
			return inst, nil
		}
	}

	res := h.res
	if trackCycle {
		key := resolvingKey(abstract, res)
		if slices.Contains(res.resolving, key) {
			err := &CircularDependencyError{Concrete: abstract, Chain: append(res.stack(), abstract)}
			h.logFailure(c, abstract, err)
			return nil, err
		}
		res.resolving = append(res.resolving, key)
		defer func() { res.resolving = res.resolving[:len(res.resolving)-1] }()
	}

	res.with = append(res.with, params)
	defer func() { res.with = res.with[:len(res.with)-1] }()

	var st stamp
	if !contextual {
		concrete, st = c.concreteFor(abstract)
	}

	object, err := h.produce(abstract, concrete)
	if err != nil {
		h.logFailure(c, abstract, err)
		return nil, err
	}

	for _, ext := range h.extendersFor(abstract) {
		object = ext(object, h)
	}

	r.mu.Lock()
	if r.isShared(abstract) && !needsContextualBuild {
		if existing, ok := r.instances[abstract]; ok {
			object = existing
		} else if r.stampOf(abstract) == st {
			r.instances[abstract] = object
			r.touch(abstract)
		}
	}
	r.resolved[abstract] = true
	callbacks := slices.Clone(r.afterResolving)
	r.mu.Unlock()

	for _, cb := range callbacks {
		cb(abstract, object)
	}
	return object, nil
}

// produce builds concrete when it is abstract itself or a factory, and
// resolves it as another abstract otherwise.
func (c *Container) produce(abstract string, concrete any) (any, error) {
	switch v := concrete.(type) {
	case Factory:
		return c.build(v)
	case string:
		if v == abstract {
			return c.build(v)
		}
		return c.resolveFrame(v, c.res.lastFrame(), true)
	case []string:
		return nil, &ResolutionError{
			Abstract: abstract,
			Stack:    c.res.stack(),
			Message:  fmt.Sprintf("contextual binding for [%s] is a list; only variadic parameters accept lists", abstract),
		}
	default:
		// Contextual raw value.
		return v, nil
	}
}

// concreteFor returns the bound concrete for abstract, or abstract itself,
// with the stamp it was read under.
func (c *Container) concreteFor(abstract string) (any, stamp) {
	r := c.reg
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.bindings[abstract]; ok {
		return b.concrete, r.stampOf(abstract)
	}
	return abstract, r.stampOf(abstract)
}

func (c *Container) loadDeferred(abstract string) error {
	r := c.reg
	r.mu.RLock()
	loader := r.deferredLoader
	_, hasBinding := r.bindings[abstract]
	_, hasInstance := r.instances[abstract]
	r.mu.RUnlock()

	if loader == nil || hasBinding || hasInstance {
		return nil
	}
	return loader(abstract)
}

// SetDeferredLoader installs fn, which is called with every abstract that has
// neither a binding nor an instance right before it is resolved. It is how
// deferred service providers register themselves on first use.
func (c *Container) SetDeferredLoader(fn func(abstract string) error) {
	r := c.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deferredLoader = fn
}

func (c *Container) logFailure(origin *Container, abstract string, err error) {
	// Only the call that opened the tree logs, so a deep failure is reported once.
	if origin.res != nil {
		return
	}
	var stack []string
	var re *ResolutionError
	var ce *CircularDependencyError
	switch {
	case errors.As(err, &re):
		stack = re.Stack
	case errors.As(err, &ce):
		stack = ce.Chain
	}
	c.reg.log.Debug("Resolution failed",
		zap.String("trace", c.res.traceID()),
		zap.String("abstract", abstract),
		zap.Strings("stack", stack),
		zap.Error(err))
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has a binding, an instance, or is an alias.
//
//	// Laravel: $app->bound(UserRepository::class)
func (c *Container) Bound(abstract string) bool {
	r := c.reg
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isBound(abstract)
}

// Has is Bound.
func (c *Container) Has(abstract string) bool { return c.Bound(abstract) }

// Resolved returns true if the abstract has been resolved at least once.
//
//	// Laravel: $app->resolved(Cache::class)
func (c *Container) Resolved(abstract string) bool {
	r := c.reg
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isResolved(abstract)
}

// IsShared reports whether abstract is cached or bound as a singleton.
func (c *Container) IsShared(abstract string) bool {
	r := c.reg
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isShared(abstract)
}

// Bindings returns a copy of every registered binding.
func (c *Container) Bindings() map[string]Binding {
	r := c.reg
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Binding, len(r.bindings))
	for k, b := range r.bindings {
		out[k] = Binding{Abstract: k, Concrete: b.concrete, Shared: b.shared}
	}
	return out
}

// GetBinding returns the binding registered for abstract.
func (c *Container) GetBinding(abstract string) (Binding, bool) {
	r := c.reg
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[abstract]
	if !ok {
		return Binding{}, false
	}
	return Binding{Abstract: abstract, Concrete: b.concrete, Shared: b.shared}, true
}

// Instances returns a copy of the shared instance cache.
func (c *Container) Instances() map[string]any {
	r := c.reg
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.instances)
}

// ForgetInstance removes a resolved instance from the instance cache.
//
//	// Laravel: $app->forgetInstance(Cache::class)
func (c *Container) ForgetInstance(abstract string) {
	r := c.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, abstract)
	r.touch(abstract)
}

// ForgetInstances clears the instance cache, the container's own entries
// included.
func (c *Container) ForgetInstances() {
	r := c.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = make(map[string]any)
	r.gen++
}

// Forget removes the binding, the cached instance and the resolved mark of
// an abstract.
func (c *Container) Forget(abstract string) {
	r := c.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, abstract)
	delete(r.instances, abstract)
	delete(r.resolved, abstract)
	r.touch(abstract)
}

// Flush resets the entire container. Only its self-registration survives.
func (c *Container) Flush() {
	r := c.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
	r.aliases.Flush()
	r.storeSelf()
}

// isBound must hold mu.
func (r *registry) isBound(abstract string) bool {
	_, hasBinding := r.bindings[abstract]
	_, hasInstance := r.instances[abstract]
	return hasBinding || hasInstance || r.aliases.IsAlias(abstract)
}

// isResolved must hold mu.
func (r *registry) isResolved(abstract string) bool {
	if r.aliases.IsAlias(abstract) {
		abstract = r.aliases.Canonical(abstract)
	}
	_, hasInstance := r.instances[abstract]
	return r.resolved[abstract] || hasInstance
}

// isShared must hold mu.
func (r *registry) isShared(abstract string) bool {
	if _, ok := r.instances[abstract]; ok {
		return true
	}
	b, ok := r.bindings[abstract]
	return ok && b.shared
}

// dropStaleInstances must hold mu.Lock.
func (r *registry) dropStaleInstances(abstract string) {
	delete(r.instances, abstract)
	r.aliases.Forget(abstract)
}

// normalizeConcrete maps the accepted concrete shapes onto string or Factory.
func normalizeConcrete(concrete any) (any, bool) {
	switch v := concrete.(type) {
	case string:
		return v, true
	case Factory:
		return v, v != nil
	case func(*Container, Params) (any, error):
		return Factory(v), v != nil
	case func(*Container) (any, error):
		return Factory(func(c *Container, _ Params) (any, error) { return v(c) }), v != nil
	case func(*Container) any:
		return Factory(func(c *Container, _ Params) (any, error) { return v(c), nil }), v != nil
	case func() (any, error):
		return Factory(func(*Container, Params) (any, error) { return v() }), v != nil
	case func() any:
		return Factory(func(*Container, Params) (any, error) { return v(), nil }), v != nil
	}
	return nil, false
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Rebinding registers a callback to be called whenever an abstract is re-bound.
// It returns the current instance when the abstract is already bound.
//
//	// Laravel: $app->rebinding(UserRepository::class, fn($app, $repo) => ...)
func (c *Container) Rebinding(abstract string, cb ReboundFunc) (any, error) {
	r := c.reg
	abstract = r.aliases.Canonical(abstract)
	r.mu.Lock()
	r.reboundCallbacks[abstract] = append(r.reboundCallbacks[abstract], cb)
	r.mu.Unlock()

	if c.Bound(abstract) {
		return c.Make(abstract)
	}
	return nil, nil
}

// AfterResolving registers a callback fired after every fresh resolution.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	r := c.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterResolving = append(r.afterResolving, cb)
}

// rebound resolves abstract on a new call tree and hands the result to every
// rebound callback.
func (c *Container) rebound(abstract string) error {
	r := c.reg
	root := r.root
	instance, err := root.Make(abstract)
	if err != nil {
		return err
	}

	r.mu.RLock()
	cbs := slices.Clone(r.reboundCallbacks[abstract])
	r.mu.RUnlock()

	r.log.Debug("Rebound", zap.String("abstract", abstract), zap.Int("callbacks", len(cbs)))
	for _, cb := range cbs {
		cb(root, instance)
	}
	return nil
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// abstract key when working with interfaces. Pointers are stripped, so Foo
// and *Foo share one key. A shared binding under that key must be stored as
// *Foo to be injected into *Foo parameters; a shared Foo value fails there
// instead of handing out a copy.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "main.UserRepository"
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	return typeName(t)
}

// Key returns the abstract key of T, as TypeKey does for a value.
// Key[Foo]() == Key[*Foo]().
//
//	c.Bind(container.Key[Logger](), container.Key[*FileLogger]())
func Key[T any]() string {
	return typeName(reflect.TypeFor[T]())
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Make and converts the result.
//
//	// Instead of: v, _ := c.Make("db"); db := v.(*sql.DB)
//	// Write:      db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](c *Container, abstract string) (T, error) {
	instance, err := c.Make(abstract)
	if err != nil {
		var zero T
		return zero, err
	}
	return convert[T](abstract, instance)
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, abstract string) T {
	v, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return v
}

// ResolveType resolves T under Key[T](). T is learned by the container if it
// was never registered: structs are built without a constructor, interfaces
// need a binding.
//
//	svc, err := container.ResolveType[*UserService](c)
func ResolveType[T any](c *Container) (T, error) {
	t := reflect.TypeFor[T]()
	c.learn(t)
	return Resolve[T](c, typeName(t))
}

func convert[T any](abstract string, instance any) (T, error) {
	if typed, ok := instance.(T); ok {
		return typed, nil
	}
	var zero T
	if rv, ok := coerce(instance, reflect.TypeFor[T]()); ok {
		if typed, ok := rv.Interface().(T); ok {
			return typed, nil
		}
	}
	return zero, &ResolutionError{
		Abstract: abstract,
		Message:  fmt.Sprintf("[%s] resolved to %T, not %s", abstract, instance, reflect.TypeFor[T]()),
	}
}
