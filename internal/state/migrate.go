package state

import (
	"errors"
	"fmt"
	"freegames/internal/models"
	json "github.com/goccy/go-json"
	"time"
)

var errNotObject = errors.New("state document is not a JSON object")

// storedScope is a superset of every scope layout ever written. Version 1
// kept a flat sentGames list per guild; version 2 keeps sighting records.
type storedScope struct {
	ScopeID     string                            `json:"scopeId"`
	GuildID     string                            `json:"guildId"`
	LastChecked map[string]*time.Time             `json:"lastChecked"`
	Games       map[string]*models.SightingRecord `json:"games"`
	SentGames   []string                          `json:"sentGames"`
	Settings    models.ScopeSettings              `json:"settings"`
}

// decodeSnapshot parses a state document of any known version and returns
// it upgraded to the current one. Legacy ids become records first and last
// seen at now, so they age out one cooldown after the upgrade.
func decodeSnapshot(data []byte, now time.Time) (*models.Snapshot, bool, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, false, fmt.Errorf("decode state: %w", err)
	}
	if top == nil {
		return nil, false, errNotObject
	}

	scopes := make(map[string]*storedScope)
	migrated := false
	if raw, ok := top["scopes"]; ok && top["version"] != nil {
		if err := json.Unmarshal(raw, &scopes); err != nil {
			return nil, false, fmt.Errorf("decode scopes: %w", err)
		}
	} else {
		for id, raw := range top {
			var sc storedScope
			if err := json.Unmarshal(raw, &sc); err != nil {
				return nil, false, fmt.Errorf("decode legacy scope %s: %w", id, err)
			}
			scopes[id] = &sc
		}
		migrated = len(scopes) > 0
	}

	snapshot := models.NewSnapshot()
	for id, sc := range scopes {
		if sc == nil {
			continue
		}
		st, upgraded := sc.toScopeState(id, now)
		migrated = migrated || upgraded
		snapshot.Scopes[id] = st
	}
	return snapshot, migrated, nil
}

func (sc *storedScope) toScopeState(id string, now time.Time) (*models.ScopeState, bool) {
	st := models.NewScopeState(id)
	st.Settings = sc.Settings

	for source, ts := range sc.LastChecked {
		if ts != nil {
			st.LastChecked[source] = ts.UTC()
		}
	}

	upgraded := false
	if sc.Games != nil {
		for gameID, rec := range sc.Games {
			if rec == nil {
				continue
			}
			if rec.LastSeenAt.Before(rec.FirstNotifiedAt) {
				rec.LastSeenAt = rec.FirstNotifiedAt
			}
			st.Games[gameID] = rec
		}
	} else if sc.SentGames != nil {
		upgraded = true
		// Legacy ids kept leading and trailing hyphens.
		for _, legacyID := range sc.SentGames {
			gameID := models.NormalizeTitle(legacyID)
			if gameID == "" {
				continue
			}
			st.Games[gameID] = models.NewSightingRecord(now, nil)
		}
	}
	return st, upgraded
}
