package models

import "time"

// SightingRecord tracks one game within a scope. FirstNotifiedAt is set once
// when the record is created; LastSeenAt moves forward on every pass that
// still observes the game.
type SightingRecord struct {
	LastSeenAt      time.Time  `json:"lastSeenAt"`
	FirstNotifiedAt time.Time  `json:"firstNotifiedAt"`
	EndsAt          *time.Time `json:"endsAt,omitempty"`
}

func NewSightingRecord(now time.Time, endsAt *time.Time) *SightingRecord {
	return &SightingRecord{
		LastSeenAt:      now,
		FirstNotifiedAt: now,
		EndsAt:          copyTime(endsAt),
	}
}

// Touch refreshes LastSeenAt and, when known, the promotion end.
// LastSeenAt never moves behind FirstNotifiedAt.
func (sr *SightingRecord) Touch(now time.Time, endsAt *time.Time) {
	if now.Before(sr.FirstNotifiedAt) {
		now = sr.FirstNotifiedAt
	}
	sr.LastSeenAt = now
	if endsAt != nil {
		sr.EndsAt = copyTime(endsAt)
	}
}

// Age is the time elapsed since the game was last observed.
func (sr *SightingRecord) Age(now time.Time) time.Duration {
	return now.Sub(sr.LastSeenAt)
}

func (sr *SightingRecord) Clone() *SightingRecord {
	return &SightingRecord{
		LastSeenAt:      sr.LastSeenAt,
		FirstNotifiedAt: sr.FirstNotifiedAt,
		EndsAt:          copyTime(sr.EndsAt),
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := t.UTC()
	return &cp
}
