package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSightingRecord_SetsBothTimestamps(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := NewSightingRecord(now, nil)

	assert.Equal(t, now, rec.FirstNotifiedAt)
	assert.Equal(t, now, rec.LastSeenAt)
	assert.Nil(t, rec.EndsAt)
}

func TestSightingRecord_TouchKeepsFirstNotified(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := NewSightingRecord(now, nil)

	later := now.Add(time.Hour)
	ends := now.Add(48 * time.Hour)
	rec.Touch(later, &ends)

	assert.Equal(t, now, rec.FirstNotifiedAt)
	assert.Equal(t, later, rec.LastSeenAt)
	require.NotNil(t, rec.EndsAt)
	assert.Equal(t, ends, *rec.EndsAt)
}

func TestSightingRecord_TouchWithoutEndKeepsPrevious(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ends := now.Add(24 * time.Hour)
	rec := NewSightingRecord(now, &ends)

	rec.Touch(now.Add(time.Minute), nil)

	require.NotNil(t, rec.EndsAt)
	assert.Equal(t, ends, *rec.EndsAt)
}

func TestSightingRecord_TouchNeverGoesBackwards(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := NewSightingRecord(now, nil)

	rec.Touch(now.Add(-time.Hour), nil)

	assert.False(t, rec.LastSeenAt.Before(rec.FirstNotifiedAt))
}

func TestSightingRecord_Age(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := NewSightingRecord(now, nil)
	assert.Equal(t, 2*time.Hour, rec.Age(now.Add(2*time.Hour)))
}

func TestSightingRecord_CloneIsDeep(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ends := now.Add(time.Hour)
	rec := NewSightingRecord(now, &ends)

	cp := rec.Clone()
	*cp.EndsAt = now
	cp.LastSeenAt = now.Add(time.Minute)

	assert.Equal(t, ends, *rec.EndsAt)
	assert.Equal(t, now, rec.LastSeenAt)
}
