// Package inspect serves a read-only JSON view of a container's bindings and
// aliases over HTTP.
//
//	GET /bindings              every binding, sorted by abstract
//	GET /bindings/{abstract}   one binding; the abstract may contain slashes
//	GET /aliases/{name}        the canonical abstract and aliases of a name
package inspect

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hakrichTech/bindIt/framework/container"
)

// Source is the part of the container the inspector reads.
type Source interface {
	Bindings() map[string]container.Binding
	GetBinding(abstract string) (container.Binding, bool)
	Resolved(abstract string) bool
	IsShared(abstract string) bool
	GetAlias(name string) string
	IsAlias(name string) bool
	AliasesOf(abstract string) []string
}

var _ Source = (*container.Container)(nil)

// BindingView is the JSON shape of one binding.
type BindingView struct {
	Abstract string   `json:"abstract"`
	Concrete string   `json:"concrete"`
	Shared   bool     `json:"shared"`
	Resolved bool     `json:"resolved"`
	Aliases  []string `json:"aliases"`
}

// AliasView is the JSON shape of an alias lookup.
type AliasView struct {
	Name      string   `json:"name"`
	Canonical string   `json:"canonical"`
	IsAlias   bool     `json:"is_alias"`
	Aliases   []string `json:"aliases"`
}

// Handler returns the inspector routes for src. Requests are logged to
// logger at debug level; a nil logger disables request logging.
func Handler(src Source, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if logger != nil {
		r.Use(requestLogger(logger))
	}

	h := &handler{src: src}
	r.Get("/bindings", h.index)
	r.Get("/bindings/*", h.show)
	r.Get("/aliases/*", h.aliases)
	return r
}

type handler struct {
	src Source
}

func (h *handler) index(w http.ResponseWriter, _ *http.Request) {
	all := h.src.Bindings()
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	views := make([]BindingView, 0, len(keys))
	for _, k := range keys {
		views = append(views, h.view(all[k]))
	}
	success(w, views)
}

func (h *handler) show(w http.ResponseWriter, r *http.Request) {
	abstract := chi.URLParam(r, "*")
	b, ok := h.src.GetBinding(h.src.GetAlias(abstract))
	if !ok {
		notFound(w, "No binding for ["+abstract+"].")
		return
	}
	success(w, h.view(b))
}

func (h *handler) aliases(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	canonical := h.src.GetAlias(name)
	success(w, AliasView{
		Name:      name,
		Canonical: canonical,
		IsAlias:   h.src.IsAlias(name),
		Aliases:   nonNil(h.src.AliasesOf(canonical)),
	})
}

func (h *handler) view(b container.Binding) BindingView {
	return BindingView{
		Abstract: b.Abstract,
		Concrete: describe(b.Concrete),
		Shared:   h.src.IsShared(b.Abstract),
		Resolved: h.src.Resolved(b.Abstract),
		Aliases:  nonNil(h.src.AliasesOf(b.Abstract)),
	}
}

// describe renders a concrete: type names as-is, factories as "factory".
func describe(concrete any) string {
	if name, ok := concrete.(string); ok {
		return name
	}
	return "factory"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("Inspector request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", strings.TrimSuffix(r.URL.Path, "/")),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)))
		})
	}
}
