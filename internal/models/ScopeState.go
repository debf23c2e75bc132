package models

import "time"

// ScopeState is everything the registry keeps for one notification scope.
type ScopeState struct {
	ScopeID     string                     `json:"scopeId"`
	LastChecked map[string]time.Time       `json:"lastChecked"`
	Games       map[string]*SightingRecord `json:"games"`
	Settings    ScopeSettings              `json:"settings"`
}

func NewScopeState(scopeID string) *ScopeState {
	return &ScopeState{
		ScopeID:     scopeID,
		LastChecked: make(map[string]time.Time),
		Games:       make(map[string]*SightingRecord),
	}
}

// Normalize fills the maps a decoded state may be missing.
func (s *ScopeState) Normalize(scopeID string) {
	if s.ScopeID == "" {
		s.ScopeID = scopeID
	}
	if s.LastChecked == nil {
		s.LastChecked = make(map[string]time.Time)
	}
	if s.Games == nil {
		s.Games = make(map[string]*SightingRecord)
	}
	for id, rec := range s.Games {
		if rec == nil {
			delete(s.Games, id)
		}
	}
}

func (s *ScopeState) Clone() *ScopeState {
	cp := &ScopeState{
		ScopeID:     s.ScopeID,
		LastChecked: make(map[string]time.Time, len(s.LastChecked)),
		Games:       make(map[string]*SightingRecord, len(s.Games)),
		Settings:    s.Settings.Clone(),
	}
	for k, v := range s.LastChecked {
		cp.LastChecked[k] = v
	}
	for k, v := range s.Games {
		cp.Games[k] = v.Clone()
	}
	return cp
}
