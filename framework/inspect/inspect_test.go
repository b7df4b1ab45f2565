package inspect_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hakrichTech/bindIt/framework/container"
	"github.com/hakrichTech/bindIt/framework/inspect"
)

type listBody struct {
	Data []inspect.BindingView `json:"data"`
}

type showBody struct {
	Data    inspect.BindingView `json:"data"`
	Message string              `json:"message"`
}

type aliasBody struct {
	Data inspect.AliasView `json:"data"`
}

func seeded(t *testing.T) *container.Container {
	t.Helper()
	c := container.New()
	require.NoError(t, c.Singleton("cache", func() any { return "redis" }))
	require.NoError(t, c.Bind("app/users.Repository", "app/users.SQLRepository"))
	require.NoError(t, c.Alias("cache", "store"))
	_, err := c.Make("cache")
	require.NoError(t, err)
	return c
}

func get(t *testing.T, h http.Handler, path string, into any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
	return rec
}

func TestInspect_ListBindings(t *testing.T) {
	h := inspect.Handler(seeded(t), nil)

	var body listBody
	rec := get(t, h, "/bindings", &body)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, body.Data, 2)
	assert.Equal(t, "app/users.Repository", body.Data[0].Abstract)
	assert.Equal(t, "app/users.SQLRepository", body.Data[0].Concrete)
	assert.False(t, body.Data[0].Shared)

	assert.Equal(t, inspect.BindingView{
		Abstract: "cache",
		Concrete: "factory",
		Shared:   true,
		Resolved: true,
		Aliases:  []string{"store"},
	}, body.Data[1])
}

func TestInspect_ShowBinding_KeyWithSlashes(t *testing.T) {
	h := inspect.Handler(seeded(t), nil)

	var body showBody
	rec := get(t, h, "/bindings/app/users.Repository", &body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "app/users.SQLRepository", body.Data.Concrete)
	assert.Empty(t, body.Data.Aliases)
}

func TestInspect_ShowBinding_ThroughAlias(t *testing.T) {
	h := inspect.Handler(seeded(t), nil)

	var body showBody
	rec := get(t, h, "/bindings/store", &body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cache", body.Data.Abstract)
}

func TestInspect_ShowBinding_NotFound(t *testing.T) {
	h := inspect.Handler(seeded(t), nil)

	var body showBody
	rec := get(t, h, "/bindings/missing", &body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No binding for [missing].", body.Message)
}

func TestInspect_Aliases(t *testing.T) {
	h := inspect.Handler(seeded(t), nil)

	var body aliasBody
	get(t, h, "/aliases/store", &body)
	assert.Equal(t, inspect.AliasView{
		Name:      "store",
		Canonical: "cache",
		IsAlias:   true,
		Aliases:   []string{"store"},
	}, body.Data)
}

func TestInspect_RequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := inspect.Handler(seeded(t), zap.New(core))

	var body listBody
	get(t, h, "/bindings", &body)

	entries := logs.FilterMessage("Inspector request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/bindings", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}
