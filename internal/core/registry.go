package core

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	registry   = make(map[string]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if a table with the same kind is already registered.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if def.Info.Kind == "" {
		panic("table kind is empty")
	}
	if _, exists := registry[def.Info.Kind]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Info.Kind))
	}

	for _, id := range def.IDColumns {
		if id.Target == "" || id.Source == "" {
			panic(fmt.Sprintf("table %s: id column with empty name", def.Info.Kind))
		}
	}

	registry[def.Info.Kind] = def
}

// Get returns a table definition by kind.
// Returns false if not found.
func Get(kind string) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[kind]
	return def, ok
}

// All returns all registered table definitions.
// Sorted by group then by kind for consistent ordering.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Kind < result[j].Info.Kind
	})

	return result
}

// Kinds returns all registered table kinds, sorted alphabetically.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// MatchKind resolves a table kind from a file name.
// The longest registered kind contained in the lowercased base name wins,
// so "settlement_melon.csv" never resolves to a shorter kind it contains.
func MatchKind(fileName string) (string, bool) {
	base := strings.ToLower(filepath.Base(fileName))

	best := ""
	for _, kind := range Kinds() {
		if strings.Contains(base, kind) && len(kind) > len(best) {
			best = kind
		}
	}
	return best, best != ""
}

// TableCount returns the number of registered tables.
func TableCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]TableDefinition)
}
