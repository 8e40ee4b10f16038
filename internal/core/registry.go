package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[EntityKind]EntityDefinition)
	byModal    = make(map[ModalKind]EntityKind)
	registryMu sync.RWMutex
)

// Register adds an entity definition to the registry.
// Panics if an entity with the same kind is already registered.
func Register(def EntityDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Kind]; exists {
		panic(fmt.Sprintf("entity already registered: %s", def.Kind))
	}
	if def.PrimaryKey == "" {
		panic(fmt.Sprintf("entity %s has no primary key", def.Kind))
	}

	registry[def.Kind] = def
	if def.Modal != ModalNone {
		byModal[def.Modal] = def.Kind
	}
}

// Get returns an entity definition by kind.
// Returns false if not found.
func Get(kind EntityKind) (EntityDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[kind]
	return def, ok
}

// ByModal resolves the entity a form modal edits.
func ByModal(modal ModalKind) (EntityDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kind, ok := byModal[modal]
	if !ok {
		return EntityDefinition{}, false
	}
	def, ok := registry[kind]
	return def, ok
}

// All returns all registered entity definitions sorted by kind for
// consistent ordering.
func All() []EntityDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]EntityDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})

	return result
}

// EntityCount returns the number of registered entities.
func EntityCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered entities.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[EntityKind]EntityDefinition)
	byModal = make(map[ModalKind]EntityKind)
}
