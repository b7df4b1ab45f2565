package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakrichTech/bindIt/framework/config"
	"github.com/hakrichTech/bindIt/framework/container"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type Filesystem interface{ Disk() string }

type localDisk struct{}
type s3Disk struct{}

func (localDisk) Disk() string { return "local" }
func (s3Disk) Disk() string    { return "s3" }

type PhotoController struct{ FS Filesystem }
type VideoController struct{ FS Filesystem }

func NewPhotoController(fs Filesystem) *PhotoController { return &PhotoController{FS: fs} }
func NewVideoController(fs Filesystem) *VideoController { return &VideoController{FS: fs} }

type Gallery struct{ Photos *PhotoController }

func NewGallery(p *PhotoController) *Gallery { return &Gallery{Photos: p} }

type Clock struct{ Timezone string }

func NewClock(timezone string) *Clock { return &Clock{Timezone: timezone} }

type Uploader struct {
	Path string
	Max  int
}

func NewUploader(path string, max int) *Uploader { return &Uploader{Path: path, Max: max} }

func newControllers(t *testing.T) *container.Container {
	t.Helper()
	c := container.New()
	c.MustProvide(NewPhotoController)
	c.MustProvide(NewVideoController)
	c.MustProvide(NewGallery)
	require.NoError(t, c.Bind(container.Key[Filesystem](), func() any { return localDisk{} }))
	return c
}

// ── Scoping ───────────────────────────────────────────────────────────────────

func TestContextual_AppliesOnlyToInnermostConcrete(t *testing.T) {
	c := newControllers(t)
	c.When(container.Key[PhotoController]()).Needs(container.Key[Filesystem]()).Give(func() any { return s3Disk{} })

	photos, err := container.ResolveType[*PhotoController](c)
	require.NoError(t, err)
	assert.Equal(t, "s3", photos.FS.Disk())

	videos, err := container.ResolveType[*VideoController](c)
	require.NoError(t, err)
	assert.Equal(t, "local", videos.FS.Disk(), "another concrete is not affected")

	direct, err := container.Resolve[Filesystem](c, container.Key[Filesystem]())
	require.NoError(t, err)
	assert.Equal(t, "local", direct.Disk(), "a top-level make is not affected")
}

func TestContextual_NestedConcreteKeepsItsOverride(t *testing.T) {
	c := newControllers(t)
	c.When(container.Key[PhotoController]()).Needs(container.Key[Filesystem]()).Give(func() any { return s3Disk{} })

	g, err := container.ResolveType[*Gallery](c)
	require.NoError(t, err)
	assert.Equal(t, "s3", g.Photos.FS.Disk())
}

func TestContextual_OverrideOnOuterDoesNotReachInner(t *testing.T) {
	c := newControllers(t)
	c.When(container.Key[Gallery]()).Needs(container.Key[Filesystem]()).Give(func() any { return s3Disk{} })

	g, err := container.ResolveType[*Gallery](c)
	require.NoError(t, err)
	assert.Equal(t, "local", g.Photos.FS.Disk())
}

func TestContextual_BypassesSingletonCache(t *testing.T) {
	c := newControllers(t)
	require.NoError(t, c.Singleton(container.Key[Filesystem](), func() any { return localDisk{} }))
	_, err := c.Make(container.Key[Filesystem]())
	require.NoError(t, err)

	c.When(container.Key[PhotoController]()).Needs(container.Key[Filesystem]()).Give(func() any { return s3Disk{} })

	photos, err := container.ResolveType[*PhotoController](c)
	require.NoError(t, err)
	assert.Equal(t, "s3", photos.FS.Disk())

	cached, err := container.Resolve[Filesystem](c, container.Key[Filesystem]())
	require.NoError(t, err)
	assert.Equal(t, "local", cached.Disk(), "the contextual build is not cached")
}

func TestContextual_GiveTypeName(t *testing.T) {
	c := newControllers(t)
	require.NoError(t, c.Bind("disk.s3", func() any { return s3Disk{} }))
	c.When(container.Key[PhotoController]()).Needs(container.Key[Filesystem]()).Give("disk.s3")

	photos, err := container.ResolveType[*PhotoController](c)
	require.NoError(t, err)
	assert.Equal(t, "s3", photos.FS.Disk())
}

func TestContextual_MultipleConcretes(t *testing.T) {
	c := newControllers(t)
	c.When(container.Key[PhotoController](), container.Key[VideoController]()).
		Needs(container.Key[Filesystem]()).
		Give(func() any { return s3Disk{} })

	photos, err := container.ResolveType[*PhotoController](c)
	require.NoError(t, err)
	videos, err := container.ResolveType[*VideoController](c)
	require.NoError(t, err)
	assert.Equal(t, "s3", photos.FS.Disk())
	assert.Equal(t, "s3", videos.FS.Disk())
}

func TestContextual_FoundThroughLaterAlias(t *testing.T) {
	c := newControllers(t)
	c.When(container.Key[PhotoController]()).Needs("storage").Give(func() any { return s3Disk{} })
	require.NoError(t, c.Alias(container.Key[Filesystem](), "storage"))

	photos, err := container.ResolveType[*PhotoController](c)
	require.NoError(t, err)
	assert.Equal(t, "s3", photos.FS.Disk())
}

func TestContextual_ListOutsideVariadicFails(t *testing.T) {
	c := newControllers(t)
	c.When(container.Key[PhotoController]()).Needs(container.Key[Filesystem]()).Give([]string{"a", "b"})

	_, err := container.ResolveType[*PhotoController](c)
	assert.True(t, container.IsResolutionError(err))
}

// ── Primitives ────────────────────────────────────────────────────────────────

func TestContextual_PrimitiveValues(t *testing.T) {
	c := container.New()
	c.MustProvide(NewUploader, container.ParamNames("path", "max"))
	c.When(container.Key[Uploader]()).Needs("$path").GiveValue("/tmp/photos")
	c.When(container.Key[Uploader]()).Needs("$max").GiveValue(int32(10))

	u, err := container.ResolveType[*Uploader](c)
	require.NoError(t, err)
	assert.Equal(t, &Uploader{Path: "/tmp/photos", Max: 10}, u)
}

func TestContextual_MakeWithBeatsContextualPrimitive(t *testing.T) {
	c := container.New()
	c.MustProvide(NewUploader, container.ParamNames("path", "max"))
	c.When(container.Key[Uploader]()).Needs("$path").GiveValue("/tmp/photos")
	c.When(container.Key[Uploader]()).Needs("$max").GiveValue(10)

	u, err := c.MakeWith(container.Key[Uploader](), container.Params{"path": "/srv"})
	require.NoError(t, err)
	assert.Equal(t, "/srv", u.(*Uploader).Path)
}

func TestContextual_GiveConfig(t *testing.T) {
	c := container.New()
	c.MustProvide(NewClock, container.ParamNames("timezone"))
	require.NoError(t, c.Instance("config", config.New(map[string]any{
		"app": map[string]any{"timezone": "Europe/Paris"},
	})))

	c.When(container.Key[Clock]()).Needs("$timezone").GiveConfig("app.timezone", "UTC")

	clock, err := container.ResolveType[*Clock](c)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", clock.Timezone)
}

func TestContextual_GiveConfigDefault(t *testing.T) {
	c := container.New()
	c.MustProvide(NewClock, container.ParamNames("timezone"))
	require.NoError(t, c.Instance("config", map[string]any{}))

	c.When(container.Key[Clock]()).Needs("$timezone").GiveConfig("app.timezone", "UTC")

	clock, err := container.ResolveType[*Clock](c)
	require.NoError(t, err)
	assert.Equal(t, "UTC", clock.Timezone)
}

func TestContextual_GiveConfigWithoutConfigBinding(t *testing.T) {
	c := container.New()
	c.MustProvide(NewClock, container.ParamNames("timezone"))
	c.When(container.Key[Clock]()).Needs("$timezone").GiveConfig("app.timezone", "UTC")

	_, err := container.ResolveType[*Clock](c)
	assert.True(t, container.IsResolutionError(err))
}
