package container

import (
	"github.com/hakrichTech/bindIt/framework/alias"
	"go.uber.org/zap"
)

// AliasResolver is the alias table the container canonicalises names with.
// *alias.Table is the default implementation.
type AliasResolver interface {
	Alias(abstract, alias string) error
	Canonical(name string) string
	IsAlias(name string) bool
	AliasesOf(abstract string) []string
	Forget(alias string)
	RemoveAbstractAlias(name string)
	Flush()
}

var _ AliasResolver = (*alias.Table)(nil)

type options struct {
	logger  *zap.Logger
	aliases AliasResolver
}

// Option configures a Container.
type Option func(*options)

// WithLogger sets the logger used for registration and resolution
// diagnostics. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAliases replaces the default alias table.
func WithAliases(aliases AliasResolver) Option {
	return func(o *options) {
		if aliases != nil {
			o.aliases = aliases
		}
	}
}

// ── Type options ──────────────────────────────────────────────────────────────

type typeOptions struct {
	name       string
	paramNames []string
	defaults   map[string]any
}

// TypeOption configures how Provide registers a constructor.
type TypeOption func(*typeOptions)

// As registers the constructor under name instead of its return type's key.
//
//	c.Provide(NewFileLogger, container.As("FileLogger"))
func As(name string) TypeOption {
	return func(o *typeOptions) { o.name = name }
}

// ParamNames names positional constructor parameters, in order. Names are
// what MakeWith overrides and "$name" contextual bindings refer to.
//
//	// func NewServer(host string, port int) *Server
//	c.Provide(NewServer, container.ParamNames("host", "port"))
func ParamNames(names ...string) TypeOption {
	return func(o *typeOptions) { o.paramNames = names }
}

// Default declares the value used for parameter name when nothing else
// resolves it.
func Default(name string, value any) TypeOption {
	return func(o *typeOptions) {
		if o.defaults == nil {
			o.defaults = make(map[string]any)
		}
		o.defaults[name] = value
	}
}
