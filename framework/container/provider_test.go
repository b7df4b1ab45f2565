package container_test

import (
	"errors"
	"testing"

	"github.com/hakrichTech/bindIt/framework/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalls     int
}

func (p *eagerProvider) Register(app *container.Container) error {
	p.registerCalls++
	return app.Singleton("eager-svc", func() any { return "eager" })
}

func (p *eagerProvider) Boot(_ *container.Container) error {
	p.bootCalls++
	return nil
}

// deferredProvider is only registered when "deferred-svc" is first resolved.
type deferredProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalls     int
}

func (p *deferredProvider) Register(app *container.Container) error {
	p.registerCalls++
	if err := app.Singleton("deferred-svc", func() any { return "deferred-value" }); err != nil {
		return err
	}
	return app.Bind("deferred-other", func() any { return "other" })
}

func (p *deferredProvider) Boot(_ *container.Container) error {
	p.bootCalls++
	return nil
}

func (p *deferredProvider) IsDeferred() bool   { return true }
func (p *deferredProvider) Provides() []string { return []string{"deferred-svc", "deferred-other"} }

type multiProvider struct {
	container.BaseProvider
}

func (p *multiProvider) Register(app *container.Container) error {
	if err := app.Singleton("alpha", func() any { return "α" }); err != nil {
		return err
	}
	return app.Singleton("beta", func() any { return "β" })
}

type failingProvider struct {
	container.BaseProvider
}

var errProviderBroken = errors.New("provider broken")

func (p *failingProvider) Register(_ *container.Container) error { return errProviderBroken }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_EagerProvider_RegisterCalled(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))

	assert.Equal(t, 1, p.registerCalls)
	assert.Zero(t, p.bootCalls, "Boot must wait for registry.Boot")
}

func TestRegistry_EagerProvider_BootCalledAfterBoot(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Boot())

	assert.Equal(t, 1, p.bootCalls)
}

func TestRegistry_EagerProvider_ServiceResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&eagerProvider{}))
	require.NoError(t, reg.Boot())

	got, err := container.Resolve[string](c, "eager-svc")
	require.NoError(t, err)
	assert.Equal(t, "eager", got)
}

func TestRegistry_Boot_IdempotentCallsAreIgnored(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Boot())
	require.NoError(t, reg.Boot())

	assert.True(t, reg.Booted())
	assert.Equal(t, 1, p.bootCalls)
}

func TestRegistry_Booted_FalseBeforeBoot(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	assert.False(t, reg.Booted())
}

func TestRegistry_DuplicateRegister_Ignored(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Register(p))

	assert.Equal(t, 1, p.registerCalls)
}

func TestRegistry_RegisterError_Wrapped(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	err := reg.Register(&failingProvider{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errProviderBroken)
	assert.Contains(t, err.Error(), "failingProvider")
}

// ── Deferred providers ────────────────────────────────────────────────────────

func TestRegistry_DeferredProvider_NotRegisteredEagerly(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Boot())

	assert.Zero(t, p.registerCalls)
	assert.False(t, c.Bound("deferred-svc"))
	assert.ElementsMatch(t, []string{"deferred-svc", "deferred-other"}, reg.Deferred())
}

func TestRegistry_DeferredProvider_RegisteredOnFirstMake(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Boot())

	got, err := container.Resolve[string](c, "deferred-svc")
	require.NoError(t, err)
	assert.Equal(t, "deferred-value", got)
	assert.Equal(t, 1, p.registerCalls)
	assert.Equal(t, 1, p.bootCalls, "a provider loaded after boot is booted on load")

	// The sibling abstract is already registered; the provider is not loaded twice.
	other, err := container.Resolve[string](c, "deferred-other")
	require.NoError(t, err)
	assert.Equal(t, "other", other)
	assert.Equal(t, 1, p.registerCalls)
	assert.Empty(t, reg.Deferred())
}

func TestRegistry_DeferredProvider_LoadedBeforeBoot(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	require.NoError(t, reg.Register(p))

	_, err := c.Make("deferred-svc")
	require.NoError(t, err)
	assert.Zero(t, p.bootCalls)

	require.NoError(t, reg.Boot())
	assert.Equal(t, 1, p.bootCalls)
}

// ── Multiple providers ────────────────────────────────────────────────────────

func TestRegistry_MultipleProviders_AllServicesResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&multiProvider{}))
	require.NoError(t, reg.Register(&eagerProvider{}))
	require.NoError(t, reg.Boot())

	for abstract, want := range map[string]string{"alpha": "α", "beta": "β", "eager-svc": "eager"} {
		got, err := container.Resolve[string](c, abstract)
		require.NoError(t, err)
		assert.Equal(t, want, got, abstract)
	}
}

// ── Providers list ────────────────────────────────────────────────────────────

func TestRegistry_Providers_ReturnsLoadedOnes(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	require.NoError(t, reg.Register(&eagerProvider{}))
	require.NoError(t, reg.Register(&deferredProvider{}))

	assert.Len(t, reg.Providers(), 1, "deferred providers are listed once loaded")
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider

	assert.NoError(t, p.Boot(container.New()))
	assert.False(t, p.IsDeferred())
	assert.Empty(t, p.Provides())
}

// ── Boot after registration (late provider) ───────────────────────────────────

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	require.NoError(t, reg.Boot())

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))

	assert.Equal(t, 1, p.bootCalls)
}
