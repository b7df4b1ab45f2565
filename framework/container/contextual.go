package container

import (
	"fmt"

	"go.uber.org/zap"
)

// ConfigGetter is the lookup GiveConfig expects from the "config" binding.
// *config.Repository implements it.
type ConfigGetter interface {
	Get(key string, defaultVal any) any
}

// ContextualBuilder implements the fluent contextual binding API.
//
//	// Laravel: $app->when(PhotoController::class)->needs(Filesystem::class)->give(...)
//	c.When("PhotoController").Needs("Filesystem").Give("S3Filesystem")
type ContextualBuilder struct {
	container *Container
	concretes []string
	needs     string
}

// When starts a contextual binding chain for one or more concrete types.
func (c *Container) When(concretes ...string) *ContextualBuilder {
	canonical := make([]string, 0, len(concretes))
	for _, concrete := range concretes {
		canonical = append(canonical, c.reg.aliases.Canonical(concrete))
	}
	return &ContextualBuilder{container: c, concretes: canonical}
}

// Needs specifies which abstract the concrete types depend on. Primitive
// parameters are named with a leading "$": Needs("$port").
func (b *ContextualBuilder) Needs(abstract string) *ContextualBuilder {
	b.needs = abstract
	return b
}

// Give provides the implementation used when the concrete types resolve the
// needed abstract: a type name, a []string of names for a variadic
// parameter, a factory func, or a raw value.
func (b *ContextualBuilder) Give(implementation any) {
	if f, ok := normalizeConcrete(implementation); ok {
		implementation = f
	}
	for _, concrete := range b.concretes {
		b.container.AddContextualBinding(concrete, b.needs, implementation)
	}
}

// GiveValue is a shorthand for Give when the value is a simple scalar or
// pre-built instance that must never be read as a type name.
//
//	// Laravel: ->give('/tmp/photos')
//	c.When("PhotoController").Needs("$storagePath").GiveValue("/tmp/photos")
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(func() any { return value })
}

// GiveConfig gives the value stored at key in the "config" binding, or
// defaultVal when the key is missing.
//
//	// Laravel: ->giveConfig('app.timezone', 'UTC')
func (b *ContextualBuilder) GiveConfig(key string, defaultVal any) {
	b.Give(func(c *Container) (any, error) {
		cfg, err := c.Make("config")
		if err != nil {
			return nil, err
		}
		switch repo := cfg.(type) {
		case ConfigGetter:
			return repo.Get(key, defaultVal), nil
		case map[string]any:
			if v, ok := repo[key]; ok {
				return v, nil
			}
			return defaultVal, nil
		default:
			return nil, &ResolutionError{
				Abstract: "config",
				Message:  fmt.Sprintf("config binding is %T, which has no key lookup", cfg),
			}
		}
	})
}

// GiveTagged gives every service registered under tag.
func (b *ContextualBuilder) GiveTagged(tag string) {
	b.Give(func(c *Container) (any, error) {
		return c.Tagged(tag)
	})
}

// AddContextualBinding records implementation for abstract while concrete is
// the innermost type under construction.
func (c *Container) AddContextualBinding(concrete, abstract string, implementation any) {
	r := c.reg
	abstract = r.aliases.Canonical(abstract)

	r.mu.Lock()
	if _, ok := r.contextual[concrete]; !ok {
		r.contextual[concrete] = make(map[string]any)
	}
	r.contextual[concrete][abstract] = implementation
	r.mu.Unlock()

	r.log.Debug("Contextual binding registered",
		zap.String("concrete", concrete),
		zap.String("abstract", abstract))
}

// contextualConcrete looks up abstract for the innermost concrete of the
// current resolution, then through each alias of abstract.
func (c *Container) contextualConcrete(abstract string) (any, bool) {
	if c.res == nil {
		return nil, false
	}
	top, ok := c.res.top()
	if !ok {
		return nil, false
	}

	r := c.reg
	aliases := r.aliases.AliasesOf(abstract)

	r.mu.RLock()
	defer r.mu.RUnlock()
	bindings := r.contextual[top]
	if impl, ok := bindings[abstract]; ok {
		return impl, true
	}
	for _, a := range aliases {
		if impl, ok := bindings[a]; ok {
			return impl, true
		}
	}
	return nil, false
}
