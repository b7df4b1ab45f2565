package config

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Repository is a key/value configuration store with dot-path lookup.
// It is what the container's GiveConfig reads through the "config" binding.
//
//	// Laravel: config('app.name', 'Laravel')
//	cfg.Get("app.name", "bindIt")
type Repository struct {
	mu    sync.RWMutex
	items map[string]any
}

// New creates a repository seeded with items. Nested maps are reachable
// through dot paths: New(map[string]any{"db": map[string]any{"host": "x"}})
// answers Get("db.host", nil) with "x".
func New(items map[string]any) *Repository {
	r := &Repository{items: make(map[string]any, len(items))}
	maps.Copy(r.items, items)
	return r
}

// Load reads each env file (missing files are skipped, ".env" when none are
// given) and then the process environment, which wins on conflicts.
// Variable names are folded to config keys: APP_NAME becomes "app.name".
func Load(envFiles ...string) (*Repository, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}

	r := New(nil)
	for _, file := range files {
		vars, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			r.items[envKey(k)] = v
		}
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || v == "" {
			continue
		}
		r.items[envKey(k)] = v
	}
	return r, nil
}

// Get returns the value stored at key, falling back to defaultVal.
func (r *Repository) Get(key string, defaultVal any) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.lookup(key); ok {
		return v
	}
	return defaultVal
}

// Has reports whether key is present.
func (r *Repository) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lookup(key)
	return ok
}

// Set stores value at key, replacing anything already there.
func (r *Repository) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = value
}

// All returns a shallow copy of every top-level item.
func (r *Repository) All() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.items)
}

// String returns key as a string, or defaultVal when missing.
func (r *Repository) String(key, defaultVal string) string {
	switch v := r.Get(key, nil).(type) {
	case nil:
		return defaultVal
	case string:
		return v
	default:
		return defaultVal
	}
}

// Int returns key as an int. Strings are parsed; unparsable values fall back.
func (r *Repository) Int(key string, defaultVal int) int {
	switch v := r.Get(key, nil).(type) {
	case int:
		return v
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return defaultVal
		}
		return i
	default:
		return defaultVal
	}
}

// Bool returns key as a bool. Strings are parsed; unparsable values fall back.
func (r *Repository) Bool(key string, defaultVal bool) bool {
	switch v := r.Get(key, nil).(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return defaultVal
		}
		return b
	default:
		return defaultVal
	}
}

// ── helpers ─────────────────────────────────────────────────────────────────

// lookup tries the flat key first, then walks nested maps segment by segment.
func (r *Repository) lookup(key string) (any, bool) {
	if v, ok := r.items[key]; ok {
		return v, true
	}

	var cur any = r.items
	for _, seg := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func envKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", ".")
}
