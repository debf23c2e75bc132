package services

import (
	"errors"
	"fmt"
	"freegames/internal/models"
	"freegames/internal/providers"
	"freegames/internal/state/interfaces"
	"freegames/internal/structures"
	"sort"
	"sync"
	"time"
)

const defaultDebounce = 5 * time.Second

// Sighting is one game observed by a fetch pass.
type Sighting struct {
	ID     string
	EndsAt *time.Time
}

type RegistryInterface interface {
	IsKnown(scope, id string) bool
	RecordSighting(scope, id string, endsAt *time.Time)
	TouchLastChecked(scope, source string)
	AllScopes() []string
	Observe(scope string, sightings []Sighting) []bool
	Sweep(scope string, cooldown time.Duration) int
	SweepAll(cooldown time.Duration) int
	Scope(scope string) (*models.ScopeState, bool)
	Settings(scope string) models.ScopeSettings
	UpdateSettings(scope string, fn func(*models.ScopeSettings))
	Restore()
	Flush() error
	Close() error
}

// Registry is the in-memory map of scopes backed by a store. Every mutation
// marks it dirty and re-arms one debounce timer; the timer writes the whole
// registry once the mutations stop for the debounce window.
type Registry struct {
	mu     sync.Mutex
	scopes map[string]*models.ScopeState
	dirty  bool
	timer  *time.Timer
	closed bool

	flushMu  sync.Mutex
	debounce time.Duration
	store    interfaces.StoreInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	now      func() time.Time
}

func NewRegistry(conf *structures.Config, store interfaces.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) RegistryInterface {
	return newRegistry(conf, store, logger, metrics)
}

func newRegistry(conf *structures.Config, store interfaces.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Registry {
	debounce := conf.Persistence.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Registry{
		scopes:   make(map[string]*models.ScopeState),
		debounce: debounce,
		store:    store,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (r *Registry) IsKnown(scope, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.scopes[scope]
	if !ok {
		return false
	}
	_, known := st.Games[id]
	return known
}

func (r *Registry) RecordSighting(scope, id string, endsAt *time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recordLocked(r.scopeLocked(scope), id, endsAt, r.now().UTC())
	r.markDirtyLocked()
}

// Observe records every sighting and reports, per sighting, whether the game
// was unknown before this call. Repeated ids within one batch are new once.
func (r *Registry) Observe(scope string, sightings []Sighting) []bool {
	if len(sightings) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.scopeLocked(scope)
	now := r.now().UTC()
	fresh := make([]bool, len(sightings))
	for i, s := range sightings {
		fresh[i] = r.recordLocked(st, s.ID, s.EndsAt, now)
	}
	r.markDirtyLocked()
	r.metrics.SetTrackedGames(scope, len(st.Games))
	return fresh
}

func (r *Registry) TouchLastChecked(scope, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scopeLocked(scope).LastChecked[source] = r.now().UTC()
	r.markDirtyLocked()
}

func (r *Registry) AllScopes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.scopes))
	for id := range r.scopes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Scope returns a copy of the scope state.
func (r *Registry) Scope(scope string) (*models.ScopeState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.scopes[scope]
	if !ok {
		return nil, false
	}
	return st.Clone(), true
}

func (r *Registry) Settings(scope string) models.ScopeSettings {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.scopes[scope]
	if !ok {
		return models.ScopeSettings{}
	}
	return st.Settings.Clone()
}

func (r *Registry) UpdateSettings(scope string, fn func(*models.ScopeSettings)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(&r.scopeLocked(scope).Settings)
	r.markDirtyLocked()
}

// Restore replaces the in-memory state with what the store holds. A store
// that cannot be read leaves the registry empty.
func (r *Registry) Restore() {
	snapshot, err := r.store.Load()
	if err != nil {
		r.logger.Errorf(providers.TypeApp, "Unable to load state, starting empty: %s", err)
		snapshot = models.NewSnapshot()
	}

	scopes := make(map[string]*models.ScopeState, len(snapshot.Scopes))
	games := 0
	for id, st := range snapshot.Scopes {
		if st == nil {
			continue
		}
		st.Normalize(id)
		scopes[id] = st
		games += len(st.Games)
		r.metrics.SetTrackedGames(id, len(st.Games))
	}

	r.mu.Lock()
	r.scopes = scopes
	r.dirty = false
	r.mu.Unlock()

	r.logger.Infof(providers.TypeApp, "Restored %d scopes with %d tracked games", len(scopes), games)
}

// Flush writes the registry now if anything changed since the last write.
// A failed write keeps the registry dirty so the next flush retries.
func (r *Registry) Flush() error {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	r.mu.Lock()
	if !r.dirty {
		r.mu.Unlock()
		return nil
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	snapshot := r.snapshotLocked()
	r.dirty = false
	r.mu.Unlock()

	start := time.Now()
	err := r.store.Save(snapshot)
	r.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		r.mu.Lock()
		r.dirty = true
		r.mu.Unlock()
		return fmt.Errorf("persist registry: %w", err)
	}

	r.logger.Debugf(providers.TypeApp, "Persisted %d scopes", len(snapshot.Scopes))
	return nil
}

// Close stops the debounce timer, writes pending changes and closes the store.
func (r *Registry) Close() error {
	r.mu.Lock()
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()

	flushErr := r.Flush()
	return errors.Join(flushErr, r.store.Close())
}

func (r *Registry) onDebounce() {
	if err := r.Flush(); err != nil {
		r.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
	}
}

func (r *Registry) scopeLocked(scope string) *models.ScopeState {
	st, ok := r.scopes[scope]
	if !ok {
		st = models.NewScopeState(scope)
		r.scopes[scope] = st
	}
	return st
}

func (r *Registry) recordLocked(st *models.ScopeState, id string, endsAt *time.Time, now time.Time) bool {
	if rec, ok := st.Games[id]; ok {
		rec.Touch(now, endsAt)
		return false
	}
	st.Games[id] = models.NewSightingRecord(now, endsAt)
	return true
}

func (r *Registry) markDirtyLocked() {
	r.dirty = true
	if r.closed {
		return
	}
	if r.timer == nil {
		r.timer = time.AfterFunc(r.debounce, r.onDebounce)
		return
	}
	r.timer.Reset(r.debounce)
}

func (r *Registry) snapshotLocked() *models.Snapshot {
	snapshot := models.NewSnapshot()
	for id, st := range r.scopes {
		snapshot.Scopes[id] = st.Clone()
	}
	return snapshot
}
