package sources

import (
	"context"
	"errors"
	"fmt"
	"freegames/internal/models"
	"freegames/internal/providers"
	"freegames/internal/structures"
	"github.com/cenkalti/backoff/v4"
	json "github.com/goccy/go-json"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxFeedBytes = 4 << 20

var ErrUnexpectedStatus = errors.New("unexpected feed status")

// FeedFetcher reads a JSON array of offers from a URL. Network errors, 429
// and 5xx answers are retried with exponential backoff; anything else fails
// the fetch at once.
type FeedFetcher struct {
	name            string
	url             string
	retries         int
	initialInterval time.Duration
	client          *http.Client
	logger          providers.Logger
}

func NewFeedFetcher(src structures.SourceConfig, conf structures.SourcesConfig, logger providers.Logger) *FeedFetcher {
	return &FeedFetcher{
		name:            src.Name,
		url:             src.Url,
		retries:         conf.Retries,
		initialInterval: 500 * time.Millisecond,
		client:          &http.Client{Timeout: conf.Timeout},
		logger:          logger,
	}
}

func (f *FeedFetcher) Name() string {
	return f.name
}

func (f *FeedFetcher) Fetch(ctx context.Context) ([]models.Offer, error) {
	var offers []models.Offer
	attempt := 0

	op := func() error {
		attempt++
		out, err := f.fetchOnce(ctx)
		if err != nil {
			return err
		}
		offers = out
		return nil
	}
	notify := func(err error, wait time.Duration) {
		f.logger.Warnf(providers.TypeChecker, "Fetch %s attempt %d failed, retrying in %s: %s", f.name, attempt, wait, err)
	}

	if err := backoff.RetryNotify(op, f.backOff(ctx), notify); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.name, err)
	}
	return offers, nil
}

func (f *FeedFetcher) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.initialInterval
	b.MaxInterval = 10 * f.initialInterval
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(f.retries, 0))), ctx)
}

func (f *FeedFetcher) fetchOnce(ctx context.Context) ([]models.Offer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxFeedBytes))
		statusErr := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	var raw []models.Offer
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&raw); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode feed: %w", err))
	}

	offers := raw[:0]
	for _, o := range raw {
		if strings.TrimSpace(o.Title) == "" {
			f.logger.Debugf(providers.TypeChecker, "Skipping untitled offer from %s", f.name)
			continue
		}
		if o.Store == "" {
			o.Store = f.name
		}
		offers = append(offers, o)
	}
	return offers, nil
}
