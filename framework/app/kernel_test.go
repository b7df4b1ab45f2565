package app_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakrichTech/bindIt/framework/app"
	"github.com/hakrichTech/bindIt/framework/config"
	"github.com/hakrichTech/bindIt/framework/container"
)

func testingApp(t *testing.T) *app.Application {
	t.Helper()
	a, err := app.NewWithConfig(config.New(map[string]any{
		"app": map[string]any{"env": "testing", "port": "0", "name": "bindIt"},
	}))
	require.NoError(t, err)
	return a
}

func TestApplication_CoreBindings(t *testing.T) {
	a := testingApp(t)

	self, err := a.Make("app")
	require.NoError(t, err)
	assert.Same(t, a, self)

	cfg, err := container.Resolve[*config.Repository](a.Container, "configuration")
	require.NoError(t, err)
	assert.Same(t, a.Config(), cfg)

	assert.True(t, a.Bound("log"))
	assert.False(t, a.Bound("inspector"), "inspector is deferred")
}

func TestApplication_Environment(t *testing.T) {
	a := testingApp(t)

	assert.Equal(t, "testing", a.Environment())
	assert.True(t, a.IsTesting())
	assert.False(t, a.IsProduction())
	assert.False(t, a.IsLocal())
	assert.False(t, a.IsDebug())
	assert.Equal(t, app.Version, a.Version())
}

func TestApplication_NewLoadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BINDIT_KERNEL_FLAVOUR=plain\n"), 0o600))

	a, err := app.New(path)
	require.NoError(t, err)
	assert.Equal(t, "plain", a.Config().String("bindit.kernel.flavour", ""))
}

func TestApplication_BootIsIdempotent(t *testing.T) {
	a := testingApp(t)
	require.NoError(t, a.Boot())
	require.NoError(t, a.Boot())
	assert.True(t, a.Providers.Booted())
}

func TestApplication_RunStopsWithContext(t *testing.T) {
	a := testingApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	h, err := container.Resolve[http.Handler](a.Container, "inspector")
	require.NoError(t, err)
	assert.NotNil(t, h)
}
