// Package session keeps the open tables of the web UI.
//
// Each browser tab that opens a dataset gets an Instance: the dataset, its
// active column set and a core.Table holding filter, sort and page state.
// Instances are addressed by a random UUID, evicted after idling past a TTL
// and capped in number so abandoned tabs cannot exhaust memory.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/metrics"
	"github.com/JonMunkholm/datatable/internal/source"
	"github.com/google/uuid"
)

// Defaults applied to zero Config fields.
const (
	DefaultTTL           = 30 * time.Minute
	DefaultMaxInstances  = 1000
	DefaultSweepInterval = time.Minute
	DefaultLoadTimeout   = 10 * time.Second
)

// Config holds Manager settings.
type Config struct {
	PageSize      int           // Page size of new tables
	TTL           time.Duration // Idle time before eviction
	MaxInstances  int           // Open instance cap
	SweepInterval time.Duration // How often Run evicts idle instances
	LoadTimeout   time.Duration // Bound on a single dataset load
}

// Instance is one open table.
type Instance struct {
	ID      string
	Dataset core.Dataset
	Created time.Time

	lastUsed atomic.Int64 // unix nanos

	mu        sync.Mutex
	columnSet core.ColumnSet
	table     *core.Table
}

// Do runs fn with exclusive access to the instance's table and column set.
func (i *Instance) Do(fn func(t *core.Table, cs core.ColumnSet) error) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return fn(i.table, i.columnSet)
}

// SetColumnSet switches to the named column set. Headers are rebuilt and
// filter state for columns that survive the switch is kept.
func (i *Instance) SetColumnSet(name string) error {
	cs, err := i.Dataset.ColumnSet(name)
	if err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.columnSet = cs
	i.table.SetHeaders(cs.Build())
	return nil
}

// LastUsed returns the time of the last Get or Open.
func (i *Instance) LastUsed() time.Time {
	return time.Unix(0, i.lastUsed.Load())
}

func (i *Instance) touch(now time.Time) {
	i.lastUsed.Store(now.UnixNano())
}

// Manager creates, finds and evicts instances. It is safe for concurrent
// use.
type Manager struct {
	src     source.Source
	cfg     Config
	metrics *metrics.Metrics
	now     func() time.Time

	mu        sync.RWMutex
	instances map[string]*Instance
}

// NewManager returns a manager loading rows from src. m may be nil.
func NewManager(src source.Source, cfg Config, m *metrics.Metrics) *Manager {
	if cfg.PageSize == 0 {
		cfg.PageSize = core.DefaultPageSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxInstances <= 0 {
		cfg.MaxInstances = DefaultMaxInstances
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	return &Manager{
		src:       src,
		cfg:       cfg,
		metrics:   m,
		now:       time.Now,
		instances: make(map[string]*Instance),
	}
}

// Config returns the effective settings.
func (m *Manager) Config() Config {
	return m.cfg
}

// Open loads a dataset and creates an instance showing the named column
// set ("" for the default).
func (m *Manager) Open(ctx context.Context, datasetKey, columnSet string) (*Instance, error) {
	d, err := core.Get(datasetKey)
	if err != nil {
		return nil, err
	}
	cs, err := d.ColumnSet(columnSet)
	if err != nil {
		return nil, err
	}

	if m.Len() >= m.cfg.MaxInstances {
		m.Sweep()
		if m.Len() >= m.cfg.MaxInstances {
			return nil, core.ErrTooManyInstances
		}
	}

	rows, err := m.load(ctx, d)
	if err != nil {
		return nil, err
	}

	now := m.now()
	inst := &Instance{
		ID:        uuid.NewString(),
		Dataset:   d,
		Created:   now,
		columnSet: cs,
		table:     core.NewTable(cs.Build(), rows, core.WithPageSize(m.cfg.PageSize)),
	}
	inst.touch(now)

	m.mu.Lock()
	if len(m.instances) >= m.cfg.MaxInstances {
		m.mu.Unlock()
		return nil, core.ErrTooManyInstances
	}
	m.instances[inst.ID] = inst
	n := len(m.instances)
	m.mu.Unlock()

	m.metrics.SetInstances(n)
	slog.Debug("table opened", "table_id", inst.ID, "dataset", d.Info.Key, "columns", cs.Name, "rows", len(rows))
	return inst, nil
}

// load reads the dataset rows within the configured timeout.
func (m *Manager) load(ctx context.Context, d core.Dataset) ([]any, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.LoadTimeout)
	defer cancel()

	start := time.Now()
	rows, err := m.src.Rows(ctx, d)
	m.metrics.ObserveLoad(d.Info.Key, len(rows), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", d.Info.Key, err)
	}
	return rows, nil
}

// Get returns an open instance and marks it used.
func (m *Manager) Get(id string) (*Instance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", core.ErrInstanceNotFound, id)
	}

	m.mu.RLock()
	inst, ok := m.instances[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrInstanceNotFound, id)
	}
	inst.touch(m.now())
	return inst, nil
}

// Delete discards an instance. It reports whether the instance existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	_, ok := m.instances[id]
	delete(m.instances, id)
	n := len(m.instances)
	m.mu.Unlock()

	if ok {
		m.metrics.SetInstances(n)
	}
	return ok
}

// Len returns the number of open instances.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.instances)
}

// Sweep evicts instances idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.cfg.TTL)

	m.mu.Lock()
	removed := 0
	for id, inst := range m.instances {
		if inst.LastUsed().Before(cutoff) {
			delete(m.instances, id)
			removed++
		}
	}
	n := len(m.instances)
	m.mu.Unlock()

	if removed > 0 {
		m.metrics.AddEvictions(removed)
		m.metrics.SetInstances(n)
		slog.Info("evicted idle tables", "evicted", removed, "open", n)
	}
	return removed
}

// Run evicts idle instances every SweepInterval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	slog.Info("table sweeper started", "ttl", m.cfg.TTL, "interval", m.cfg.SweepInterval)

	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("table sweeper stopped")
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
