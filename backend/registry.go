package backend

import (
	"fmt"
	"sync"

	"github.com/gogpu/sprite"
)

// Factory creates an uninitialized backend instance.
type Factory func() Backend

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)

	// Selection order when no backend is named (first to initialize
	// wins). GPU before software: software is the always-available
	// fallback.
	priority = []string{BackendGPU, BackendSoftware}
)

// Register adds a backend factory under a name, replacing any previous
// registration. Backend packages call this from init(), so importing a
// backend package is what makes it selectable.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes a backend from the registry. Used by tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// Get returns an uninitialized backend by name, or nil when the name
// is not registered.
func Get(name string) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := factories[name]
	if !ok {
		return nil
	}
	return f()
}

// Default returns an uninitialized backend for the first capable name
// in priority order, or nil when nothing registered is capable. It
// probes without acquiring device resources; Select is the
// initializing path.
func Default() Backend {
	for _, name := range priority {
		b := Get(name)
		if b == nil {
			continue
		}
		if b.Capable() {
			return b
		}
	}
	return nil
}

// Select picks and initializes a backend for cfg. When cfg.Backend
// names one, only that backend is tried. Otherwise backends are tried
// in priority order and the first successful Init wins; each failure
// is logged before falling through, which is how GPU-less hosts land
// on the software backend without caller involvement.
func Select(cfg sprite.Config) (Backend, error) {
	if cfg.Backend != "" {
		b := Get(cfg.Backend)
		if b == nil {
			return nil, fmt.Errorf("backend: %q not registered (have %v): %w",
				cfg.Backend, Available(), ErrBackendUnavailable)
		}
		if err := b.Init(cfg); err != nil {
			return nil, fmt.Errorf("backend: init %q: %w", cfg.Backend, err)
		}
		return b, nil
	}

	for _, name := range priority {
		b := Get(name)
		if b == nil {
			continue
		}
		if err := b.Init(cfg); err != nil {
			sprite.Logger().Warn("backend init failed, trying next",
				"backend", name, "error", err)
			continue
		}
		sprite.Logger().Info("backend selected", "backend", name)
		return b, nil
	}
	return nil, ErrBackendUnavailable
}
