package services

import (
	"context"
	"errors"
	"fmt"
	"freegames/internal/models"
	"freegames/internal/notify"
	"freegames/internal/providers"
	"freegames/internal/structures"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"net/url"
	"slices"
	"sort"
	"sync"
	"time"
)

var (
	ErrUnknownSource  = errors.New("unknown source")
	ErrInvalidWebhook = errors.New("invalid webhook url")
)

// SettingsChange is a partial update of a scope's settings. Nil fields are
// left untouched; an empty WebhookURL removes the destination.
type SettingsChange struct {
	WebhookURL *string
	Source     string
	Enabled    *bool
}

type HealthStats struct {
	StartedAt        time.Time  `json:"startedAt"`
	Uptime           string     `json:"uptime"`
	LastCheck        *time.Time `json:"lastCheck,omitempty"`
	SuccessfulChecks int64      `json:"successfulChecks"`
	ErrorCount       int64      `json:"errorCount"`
	Scopes           int        `json:"scopes"`
}

type AnnouncerInterface interface {
	CheckAll(ctx context.Context) int
	CheckScope(ctx context.Context, scope string) (int, error)
	Configure(scope string, change SettingsChange) error
	Sources() []string
	Health() HealthStats
	OnChecked(fn func(scope string))
}

// Announcer runs passes for scopes that have a destination and delivers
// each new offer on its own.
type Announcer struct {
	registry RegistryInterface
	checker  CheckerInterface
	notifier notify.Notifier
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	cooldown time.Duration

	listenersMu sync.RWMutex
	listeners   []func(scope string)

	startedAt  time.Time
	lastCheck  *atomic.Time
	successful *atomic.Int64
	failed     *atomic.Int64
}

func NewAnnouncer(conf *structures.Config, registry RegistryInterface, checker CheckerInterface, notifier notify.Notifier, logger providers.Logger, metrics providers.MetricsProviderInterface) AnnouncerInterface {
	return &Announcer{
		registry:   registry,
		checker:    checker,
		notifier:   notifier,
		logger:     logger,
		metrics:    metrics,
		cooldown:   conf.Registry.Cooldown,
		startedAt:  time.Now(),
		lastCheck:  atomic.NewTime(time.Time{}),
		successful: atomic.NewInt64(0),
		failed:     atomic.NewInt64(0),
	}
}

// CheckAll checks every known scope and returns the number of offers posted.
func (a *Announcer) CheckAll(ctx context.Context) int {
	runID := uuid.NewString()
	evicted := a.registry.SweepAll(a.cooldown)
	if evicted > 0 {
		a.logger.Infof(providers.TypeChecker, "[%s] evicted %d stale games", runID, evicted)
	}

	scopes := a.registry.AllScopes()
	a.logger.Infof(providers.TypeChecker, "[%s] checking %d scopes", runID, len(scopes))

	total := 0
	for _, scope := range scopes {
		if ctx.Err() != nil {
			a.logger.Warnf(providers.TypeChecker, "[%s] check cancelled: %s", runID, ctx.Err())
			break
		}
		posted, err := a.CheckScope(ctx, scope)
		if errors.Is(err, notify.ErrNoDestination) {
			a.logger.Infof(providers.TypeChecker, "[%s] no destination set for scope %s", runID, scope)
			if evicted > 0 {
				a.notifyChecked(scope)
			}
			continue
		}
		total += posted
	}

	a.logger.Infof(providers.TypeChecker, "[%s] check finished, %d offers posted", runID, total)
	return total
}

// CheckScope runs one pass for the scope and delivers what it found.
// A game stays recorded even when its delivery fails.
func (a *Announcer) CheckScope(ctx context.Context, scope string) (int, error) {
	settings := a.registry.Settings(scope)
	if !settings.HasDestination() {
		return 0, notify.ErrNoDestination
	}

	result := a.checker.RunPass(ctx, scope)
	posted, failed := a.deliver(ctx, scope, settings, result)

	a.lastCheck.Store(time.Now())
	a.notifyChecked(scope)
	if len(result.Failures) == 0 && failed == 0 {
		a.successful.Inc()
	} else {
		a.failed.Inc()
	}
	return posted, nil
}

func (a *Announcer) deliver(ctx context.Context, scope string, settings models.ScopeSettings, result *PassResult) (int, int) {
	names := make([]string, 0, len(result.NewOffers))
	for name := range result.NewOffers {
		names = append(names, name)
	}
	sort.Strings(names)

	posted, failed := 0, 0
	for _, source := range names {
		for _, offer := range result.NewOffers[source] {
			err := a.notifier.Deliver(ctx, scope, settings, source, []models.Offer{offer})
			if err != nil {
				a.logger.Errorf(providers.TypeChecker, "Error posting %q to scope %s: %s", offer.Title, scope, err)
				a.metrics.IncDeliveries("error")
				failed++
				continue
			}
			a.metrics.IncDeliveries("ok")
			posted++
		}
	}
	return posted, failed
}

func (a *Announcer) Configure(scope string, change SettingsChange) error {
	if change.Source != "" && !slices.Contains(a.checker.Sources(), change.Source) {
		return fmt.Errorf("%w: %s", ErrUnknownSource, change.Source)
	}
	if change.WebhookURL != nil && *change.WebhookURL != "" {
		u, err := url.Parse(*change.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidWebhook, *change.WebhookURL)
		}
	}

	a.registry.UpdateSettings(scope, func(s *models.ScopeSettings) {
		if change.WebhookURL != nil {
			s.WebhookURL = *change.WebhookURL
		}
		if change.Source != "" && change.Enabled != nil {
			if s.Sources == nil {
				s.Sources = make(map[string]bool)
			}
			s.Sources[change.Source] = *change.Enabled
		}
	})
	a.logger.Infof(providers.TypeApp, "Settings updated for scope %s", scope)
	return nil
}

// OnChecked registers fn to run after a scope's state may have changed
// through a check or an eviction sweep.
func (a *Announcer) OnChecked(fn func(scope string)) {
	a.listenersMu.Lock()
	defer a.listenersMu.Unlock()
	a.listeners = append(a.listeners, fn)
}

func (a *Announcer) notifyChecked(scope string) {
	a.listenersMu.RLock()
	defer a.listenersMu.RUnlock()
	for _, fn := range a.listeners {
		fn(scope)
	}
}

func (a *Announcer) Sources() []string {
	return a.checker.Sources()
}

func (a *Announcer) Health() HealthStats {
	stats := HealthStats{
		StartedAt:        a.startedAt.UTC(),
		Uptime:           formatUptime(time.Since(a.startedAt)),
		SuccessfulChecks: a.successful.Load(),
		ErrorCount:       a.failed.Load(),
		Scopes:           len(a.registry.AllScopes()),
	}
	if last := a.lastCheck.Load(); !last.IsZero() {
		last = last.UTC()
		stats.LastCheck = &last
	}
	return stats
}

func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
