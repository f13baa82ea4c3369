package collector

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/store"
)

// ErrCollectorNotFound is returned for an unregistered collector ID.
var ErrCollectorNotFound = errors.New("collector not found")

// Registry manages collector registration and enabled state. A nil store
// keeps state in memory only.
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]Collector
	enabled    map[string]bool
	store      *store.Store
}

// NewRegistry creates a new collector registry.
func NewRegistry(s *store.Store) *Registry {
	return &Registry{
		collectors: make(map[string]Collector),
		enabled:    make(map[string]bool),
		store:      s,
	}
}

// Register adds a collector to the registry.
func (r *Registry) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collectors[c.ID()] = c
}

// RestoreState loads enabled states from the database.
func (r *Registry) RestoreState() error {
	if r.store == nil {
		return nil
	}
	states, err := r.store.GetAllCollectorStates()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range states {
		r.enabled[s.CollectorID] = s.Enabled
	}
	return nil
}

// Enable enables a collector and saves state to DB.
func (r *Registry) Enable(id string) error { return r.setEnabled(id, true) }

// Disable disables a collector and saves state to DB.
func (r *Registry) Disable(id string) error { return r.setEnabled(id, false) }

func (r *Registry) setEnabled(id string, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.collectors[id]; !ok {
		return ErrCollectorNotFound
	}
	r.enabled[id] = on
	if r.store == nil {
		return nil
	}
	return r.store.SetCollectorEnabled(id, on)
}

// EnableAll enables every registered collector. Used on first run when no
// state has been saved yet.
func (r *Registry) EnableAll() error {
	r.mu.RLock()
	ids := r.sortedIDs()
	r.mu.RUnlock()
	for _, id := range ids {
		if err := r.Enable(id); err != nil {
			return err
		}
	}
	return nil
}

// IsEnabled returns whether a collector is enabled.
func (r *Registry) IsEnabled(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[id]
}

// GetCollector returns a collector by ID.
func (r *Registry) GetCollector(id string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collectors[id]
	return c, ok
}

// Prime runs every enabled collector once and discards the output so that
// rate baselines are warm before the first scheduled tick.
func (r *Registry) Prime(ctx context.Context) {
	for _, c := range r.EnabledCollectors() {
		if _, err := c.Collect(ctx); err != nil {
			log.Debug().Str("component", "registry").Str("collector", c.ID()).Err(err).Msg("prime failed")
		}
	}
}

// ListCollectors returns info about all registered collectors, sorted by ID.
func (r *Registry) ListCollectors() []model.CollectorInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]model.CollectorInfo, 0, len(r.collectors))
	for _, id := range r.sortedIDs() {
		c := r.collectors[id]
		names := c.MetricNames()
		states := make([]model.MetricState, len(names))
		for i, m := range names {
			desc := LookupMetricDesc(m)
			states[i] = model.MetricState{Name: m, Description: desc.Description, Unit: desc.Unit}
		}
		result = append(result, model.CollectorInfo{
			ID:           c.ID(),
			Name:         c.Name(),
			Description:  c.Description(),
			Impact:       c.Impact(),
			Warning:      c.Warning(),
			Enabled:      r.enabled[id],
			MetricStates: states,
		})
	}
	return result
}

// EnabledCollectors returns all currently enabled collectors, sorted by ID.
func (r *Registry) EnabledCollectors() []Collector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []Collector
	for _, id := range r.sortedIDs() {
		if r.enabled[id] {
			result = append(result, r.collectors[id])
		}
	}
	return result
}

// HasAnyState returns true if any collector state has been saved to DB.
func (r *Registry) HasAnyState() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.enabled) > 0
}

// sortedIDs must be called with r.mu held.
func (r *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(r.collectors))
	for id := range r.collectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
