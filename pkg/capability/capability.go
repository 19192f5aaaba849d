// Package capability tracks the named external capabilities (data-frame
// and array backends) available in the current environment. Backends
// register themselves on import; contract checking consults the registry
// through a Probe so the checking core never depends on the mechanism
// behind availability.
package capability

import (
	"sort"
	"sync"
)

// Probe reports whether a named capability is resolvable in the current
// environment. It is the boolean oracle consumed by requirement checking.
type Probe func(name string) bool

var (
	mu         sync.RWMutex
	registered = map[string]bool{}
)

// Register marks a capability as available. Backends call Register from
// their init function; registering the same name twice is a no-op.
func Register(name string) {
	mu.Lock()
	defer mu.Unlock()
	registered[name] = true
}

// Resolvable reports whether the named capability has been registered.
// It satisfies Probe.
func Resolvable(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return registered[name]
}

// Names returns all registered capability names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultProbe returns the probe backed by the package registry.
func DefaultProbe() Probe {
	return Resolvable
}
