package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"freegames/internal/models"
	"freegames/internal/providers"
	"freegames/internal/structures"
	json "github.com/goccy/go-json"
	"io"
	"net/http"
	"time"
)

var (
	ErrNoDestination = errors.New("scope has no delivery destination")
	ErrRejected      = errors.New("webhook rejected delivery")
)

// Notifier hands new offers of one source to a scope's destination.
type Notifier interface {
	Deliver(ctx context.Context, scope string, settings models.ScopeSettings, source string, offers []models.Offer) error
}

// Envelope is the body posted to a webhook.
type Envelope struct {
	Scope  string         `json:"scope"`
	Source string         `json:"source"`
	Offers []models.Offer `json:"offers"`
	SentAt time.Time      `json:"sentAt"`
}

type WebhookNotifier struct {
	client *http.Client
	logger providers.Logger
}

func NewWebhookNotifier(conf *structures.Config, logger providers.Logger) *WebhookNotifier {
	timeout := conf.Notify.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (w *WebhookNotifier) Deliver(ctx context.Context, scope string, settings models.ScopeSettings, source string, offers []models.Offer) error {
	if !settings.HasDestination() {
		return ErrNoDestination
	}

	body, err := json.Marshal(Envelope{Scope: scope, Source: source, Offers: offers, SentAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	w.logger.Debugf(providers.TypeChecker, "Delivered %d offers from %s to scope %s", len(offers), source, scope)
	return nil
}

// LogNotifier only writes the offers to the checker log.
type LogNotifier struct {
	logger providers.Logger
}

func (l *LogNotifier) Deliver(_ context.Context, scope string, _ models.ScopeSettings, source string, offers []models.Offer) error {
	for _, o := range offers {
		l.logger.Infof(providers.TypeChecker, "[%s] new free game from %s: %s %s", scope, source, o.Title, o.URL)
	}
	return nil
}

func NewLogNotifier(logger providers.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NewNotifier returns the webhook notifier, or the log notifier when the
// config asks for a dry run.
func NewNotifier(conf *structures.Config, logger providers.Logger) Notifier {
	if conf.Notify.DryRun {
		logger.Infof(providers.TypeApp, "Notify dry run enabled, offers are only logged")
		return NewLogNotifier(logger)
	}
	return NewWebhookNotifier(conf, logger)
}
