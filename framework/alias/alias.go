// Package alias keeps the alias → abstract table consulted by the container
// before every registry lookup.
//
//	// Laravel: $app->alias(Cache::class, 'cache')
//	t := alias.New()
//	_ = t.Alias("Cache", "cache")
//	t.Canonical("cache") // "Cache"
package alias

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrSelfAlias is returned when a name is aliased to itself.
	ErrSelfAlias = errors.New("alias: name is aliased to itself")

	// ErrCycle is returned when an alias would close a loop.
	ErrCycle = errors.New("alias: alias would create a cycle")
)

// Table is a concurrency-safe alias table.
type Table struct {
	mu sync.RWMutex

	// alias → abstract
	aliases map[string]string

	// abstract → aliases registered directly for it
	abstractAliases map[string][]string
}

// New creates an empty alias table.
func New() *Table {
	return &Table{
		aliases:         make(map[string]string),
		abstractAliases: make(map[string][]string),
	}
}

// Alias registers alias as another name for abstract.
func (t *Table) Alias(abstract, alias string) error {
	if abstract == alias {
		return fmt.Errorf("%w: [%s]", ErrSelfAlias, abstract)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.canonical(abstract) == alias {
		return fmt.Errorf("%w: [%s] -> [%s]", ErrCycle, alias, abstract)
	}

	t.aliases[alias] = abstract
	if !slices.Contains(t.abstractAliases[abstract], alias) {
		t.abstractAliases[abstract] = append(t.abstractAliases[abstract], alias)
	}
	return nil
}

// Canonical follows the alias chain for name and returns the abstract it
// ends on. Names that are not aliases are returned unchanged.
func (t *Table) Canonical(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.canonical(name)
}

func (t *Table) canonical(name string) string {
	seen := 0
	for {
		target, ok := t.aliases[name]
		if !ok || seen > len(t.aliases) {
			return name
		}
		name = target
		seen++
	}
}

// IsAlias reports whether name is registered as an alias.
func (t *Table) IsAlias(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.aliases[name]
	return ok
}

// AliasesOf returns the aliases registered directly for abstract, in
// registration order.
func (t *Table) AliasesOf(abstract string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.abstractAliases[abstract])
}

// Forget drops the alias entry named alias and removes it from the alias
// list of the abstract it pointed to.
func (t *Table) Forget(alias string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	abstract, ok := t.aliases[alias]
	if !ok {
		return
	}
	delete(t.aliases, alias)
	t.abstractAliases[abstract] = slices.DeleteFunc(t.abstractAliases[abstract], func(a string) bool { return a == alias })
	if len(t.abstractAliases[abstract]) == 0 {
		delete(t.abstractAliases, abstract)
	}
}

// RemoveAbstractAlias removes name from every abstract's alias list, if name
// is currently an alias.
func (t *Table) RemoveAbstractAlias(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.aliases[name]; !ok {
		return
	}
	for abstract, list := range t.abstractAliases {
		t.abstractAliases[abstract] = slices.DeleteFunc(list, func(a string) bool { return a == name })
	}
}

// Flush removes every alias.
func (t *Table) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.aliases = make(map[string]string)
	t.abstractAliases = make(map[string][]string)
}
