package models

// ScopeSettings holds the per-scope preferences managed through the admin API.
type ScopeSettings struct {
	WebhookURL string          `json:"webhookUrl,omitempty"`
	Sources    map[string]bool `json:"sources,omitempty"`
}

// SourceEnabled reports whether a source should be checked for the scope.
// Sources are enabled until explicitly switched off.
func (s ScopeSettings) SourceEnabled(source string) bool {
	enabled, ok := s.Sources[source]
	return !ok || enabled
}

func (s ScopeSettings) HasDestination() bool {
	return s.WebhookURL != ""
}

func (s ScopeSettings) Clone() ScopeSettings {
	cp := ScopeSettings{WebhookURL: s.WebhookURL}
	if s.Sources != nil {
		cp.Sources = make(map[string]bool, len(s.Sources))
		for k, v := range s.Sources {
			cp.Sources[k] = v
		}
	}
	return cp
}
