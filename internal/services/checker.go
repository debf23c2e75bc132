package services

import (
	"context"
	"fmt"
	"freegames/internal/models"
	"freegames/internal/providers"
	"freegames/internal/sources"
	"freegames/internal/structures"
	"sync"
	"time"
)

// PassResult lists, per source, the offers a pass saw for the first time.
// Sources that failed to fetch are reported in Failures instead.
type PassResult struct {
	Scope     string
	NewOffers map[string][]models.Offer
	Failures  map[string]error
}

func (p *PassResult) Total() int {
	n := 0
	for _, offers := range p.NewOffers {
		n += len(offers)
	}
	return n
}

type CheckerInterface interface {
	RunPass(ctx context.Context, scope string) *PassResult
	Sources() []string
}

// Checker runs fetch passes for a scope, one pass at a time.
type Checker struct {
	mu       sync.Mutex
	registry RegistryInterface
	sources  *sources.SourceSet
	cooldown time.Duration
	timeout  time.Duration
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewChecker(conf *structures.Config, registry RegistryInterface, set *sources.SourceSet, logger providers.Logger, metrics providers.MetricsProviderInterface) CheckerInterface {
	return &Checker{
		registry: registry,
		sources:  set,
		cooldown: conf.Registry.Cooldown,
		timeout:  conf.Sources.Timeout,
		logger:   logger,
		metrics:  metrics,
	}
}

func (c *Checker) Sources() []string {
	return c.sources.Names()
}

// RunPass sweeps the scope, fetches every source enabled for it and records
// all fetched games. A failing source is logged and skipped.
func (c *Checker) RunPass(ctx context.Context, scope string) *PassResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := &PassResult{
		Scope:     scope,
		NewOffers: make(map[string][]models.Offer),
		Failures:  make(map[string]error),
	}

	if n := c.registry.Sweep(scope, c.cooldown); n > 0 {
		c.logger.Infof(providers.TypeChecker, "Evicted %d stale games from scope %s", n, scope)
	}

	settings := c.registry.Settings(scope)
	for _, name := range c.sources.Names() {
		if !settings.SourceEnabled(name) {
			c.logger.Debugf(providers.TypeChecker, "Source %s disabled for scope %s", name, scope)
			continue
		}
		fetcher, _ := c.sources.Get(name)

		offers, err := c.fetch(ctx, fetcher)
		if err != nil {
			c.logger.Errorf(providers.TypeChecker, "Error checking %s for scope %s: %s", name, scope, err)
			c.metrics.IncFetchErrors(name)
			result.Failures[name] = err
			continue
		}

		fresh := c.observe(scope, offers)
		if len(fresh) > 0 {
			c.registry.TouchLastChecked(scope, name)
			result.NewOffers[name] = fresh
			c.metrics.AddNewOffers(name, len(fresh))
		}
		c.logger.Debugf(providers.TypeChecker, "Source %s: %d offers, %d new for scope %s", name, len(offers), len(fresh), scope)
	}

	c.metrics.IncPasses(scope)
	return result
}

func (c *Checker) fetch(ctx context.Context, fetcher sources.Fetcher) (offers []models.Offer, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetcher %s panicked: %v", fetcher.Name(), r)
		}
	}()
	return fetcher.Fetch(ctx)
}

func (c *Checker) observe(scope string, offers []models.Offer) []models.Offer {
	if len(offers) == 0 {
		return nil
	}
	sightings := make([]Sighting, len(offers))
	for i, o := range offers {
		sightings[i] = Sighting{ID: models.Identify(o), EndsAt: o.EndDate}
	}

	var fresh []models.Offer
	for i, isNew := range c.registry.Observe(scope, sightings) {
		if isNew {
			fresh = append(fresh, offers[i])
		}
	}
	return fresh
}
