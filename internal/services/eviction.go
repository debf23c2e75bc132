package services

import (
	"freegames/internal/models"
	"time"
)

// Sweep drops every record of the scope not observed for longer than
// cooldown and returns how many were dropped. A non-positive cooldown keeps
// records forever.
func (r *Registry) Sweep(scope string, cooldown time.Duration) int {
	if cooldown <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.scopes[scope]
	if !ok {
		return 0
	}
	return r.sweepLocked(st, cooldown, r.now().UTC())
}

func (r *Registry) SweepAll(cooldown time.Duration) int {
	if cooldown <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	total := 0
	for _, st := range r.scopes {
		total += r.sweepLocked(st, cooldown, now)
	}
	return total
}

func (r *Registry) sweepLocked(st *models.ScopeState, cooldown time.Duration, now time.Time) int {
	removed := 0
	for id, rec := range st.Games {
		if rec.Age(now) > cooldown {
			delete(st.Games, id)
			removed++
		}
	}
	if removed > 0 {
		r.markDirtyLocked()
		r.metrics.AddEvictions(st.ScopeID, removed)
		r.metrics.SetTrackedGames(st.ScopeID, len(st.Games))
	}
	return removed
}
