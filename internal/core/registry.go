package core

import (
	"fmt"
	"sort"
	"sync"
)

// DatasetInfo contains display information about a dataset.
type DatasetInfo struct {
	Key         string // Unique identifier: "people"
	Label       string // Display name: "People"
	Description string
}

// ColumnSet is a named column layout. Build is called every time the set is
// selected, so headers can be regenerated (one per month, per quarter, ...).
type ColumnSet struct {
	Name  string
	Label string
	Build func() []ColumnHeader
}

// Dataset is a registered row collection with its column layouts.
type Dataset struct {
	Info       DatasetInfo
	ColumnSets []ColumnSet // The first set is the default
	Sample     []byte      // Embedded JSON array of rows, optional
}

// DefaultColumnSet returns the first column set.
func (d Dataset) DefaultColumnSet() ColumnSet {
	if len(d.ColumnSets) == 0 {
		return ColumnSet{Name: "empty", Label: "Empty", Build: func() []ColumnHeader { return nil }}
	}
	return d.ColumnSets[0]
}

// ColumnSet returns the set with the given name. An empty name selects the
// default set.
func (d Dataset) ColumnSet(name string) (ColumnSet, error) {
	if name == "" {
		return d.DefaultColumnSet(), nil
	}
	for _, cs := range d.ColumnSets {
		if cs.Name == name {
			return cs, nil
		}
	}
	return ColumnSet{}, fmt.Errorf("%w: %s/%s", ErrColumnSetNotFound, d.Info.Key, name)
}

var (
	registry   = make(map[string]Dataset)
	registryMu sync.RWMutex
)

// Register adds a dataset to the registry.
// Panics if a dataset with the same key is already registered.
func Register(d Dataset) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[d.Info.Key]; exists {
		panic(fmt.Sprintf("dataset already registered: %s", d.Info.Key))
	}
	registry[d.Info.Key] = d
}

// Get returns a dataset by key.
func Get(key string) (Dataset, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := registry[key]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, key)
	}
	return d, nil
}

// All returns all registered datasets sorted by key.
func All() []Dataset {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Dataset, 0, len(registry))
	for _, d := range registry {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})
	return result
}

// DatasetCount returns the number of registered datasets.
func DatasetCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered datasets.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Dataset)
}
