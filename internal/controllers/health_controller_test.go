package controllers

import (
	"context"
	"freegames/internal/models"
	json "github.com/goccy/go-json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_ReturnsOK(t *testing.T) {
	env := newTestEnv(t)
	env.registry.TouchLastChecked("guild1", "epic")
	env.registry.TouchLastChecked("guild2", "epic")
	hc := NewHealthController(env.announcer)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "uptime")
	assert.Contains(t, resp, "uptime_seconds")
	assert.NotContains(t, resp, "last_check")
	assert.Equal(t, float64(2), resp["scopes"])
	assert.Equal(t, float64(0), resp["successful_checks"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(newTestEnv(t).announcer)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHealth_CountsChecks(t *testing.T) {
	env := newTestEnv(t)
	env.registry.UpdateSettings("guild1", func(s *models.ScopeSettings) {
		s.WebhookURL = "https://hooks.example.com/1"
	})
	_, err := env.announcer.CheckScope(context.Background(), "guild1")
	require.NoError(t, err)
	hc := NewHealthController(env.announcer)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["successful_checks"])
	assert.Equal(t, float64(0), resp["error_count"])
	assert.Contains(t, resp, "last_check")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "0h0m0s"},
		{"one minute", 60 * time.Second, "0h1m0s"},
		{"one hour", time.Hour, "1h0m0s"},
		{"mixed", time.Hour + time.Minute + time.Second, "1h1m1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}
