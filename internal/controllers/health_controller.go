package controllers

import (
	"fmt"
	"freegames/internal/services"
	json "github.com/goccy/go-json"
	"net/http"
	"time"
)

type HealthController struct {
	announcer services.AnnouncerInterface
	startTime time.Time
}

type healthResponse struct {
	Status           string     `json:"status"`
	Uptime           string     `json:"uptime"`
	UptimeSeconds    float64    `json:"uptime_seconds"`
	StartedAt        time.Time  `json:"started_at"`
	LastCheck        *time.Time `json:"last_check,omitempty"`
	SuccessfulChecks int64      `json:"successful_checks"`
	ErrorCount       int64      `json:"error_count"`
	Scopes           int        `json:"scopes"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := hc.announcer.Health()
	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:           "ok",
		Uptime:           formatDuration(uptime),
		UptimeSeconds:    uptime.Seconds(),
		StartedAt:        hc.startTime.UTC(),
		LastCheck:        stats.LastCheck,
		SuccessfulChecks: stats.SuccessfulChecks,
		ErrorCount:       stats.ErrorCount,
		Scopes:           stats.Scopes,
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(announcer services.AnnouncerInterface) *HealthController {
	return &HealthController{
		announcer: announcer,
		startTime: time.Now(),
	}
}
