package testutil

import (
	"context"
	"errors"
	"freegames/internal/models"
	"freegames/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Has reports whether at least one entry was logged at level.
func (m *MockLogger) Has(level string) bool {
	return m.Count(level) > 0
}

func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockStore implements interfaces.StoreInterface in memory. Saved snapshots
// are kept as given, so callers must not mutate them afterwards.
type MockStore struct {
	mu       sync.Mutex
	Snapshot *models.Snapshot
	LoadErr  error
	SaveErr  error
	Saves    int
	Closed   bool
}

func (m *MockStore) Load() (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Snapshot == nil {
		return models.NewSnapshot(), nil
	}
	return m.Snapshot, nil
}

func (m *MockStore) Save(snapshot *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Snapshot = snapshot
	return nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

func (m *MockStore) SetSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveErr = err
}

func (m *MockStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves
}

func (m *MockStore) Last() *models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Snapshot
}

// MockMetrics implements providers.MetricsProviderInterface and counts the
// domain events the services report.
type MockMetrics struct {
	mu          sync.Mutex
	Passes      int
	NewOffers   map[string]int
	FetchErrors map[string]int
	Evictions   int
	Deliveries  map[string]int
	Tracked     map[string]int
	Persisted   int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}

func (m *MockMetrics) SetTrackedGames(scope string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Tracked == nil {
		m.Tracked = make(map[string]int)
	}
	m.Tracked[scope] = count
}

func (m *MockMetrics) IncPasses(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Passes++
}

func (m *MockMetrics) AddNewOffers(source string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NewOffers == nil {
		m.NewOffers = make(map[string]int)
	}
	m.NewOffers[source] += count
}

func (m *MockMetrics) IncFetchErrors(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErrors == nil {
		m.FetchErrors = make(map[string]int)
	}
	m.FetchErrors[source]++
}

func (m *MockMetrics) AddEvictions(_ string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Evictions += count
}

func (m *MockMetrics) IncDeliveries(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Deliveries == nil {
		m.Deliveries = make(map[string]int)
	}
	m.Deliveries[status]++
}

// MockFetcher implements sources.Fetcher with a canned result.
type MockFetcher struct {
	mu      sync.Mutex
	SrcName string
	Offers  []models.Offer
	Err     error
	Block   bool
	Calls   int
}

func (m *MockFetcher) Name() string { return m.SrcName }

func (m *MockFetcher) Fetch(ctx context.Context) ([]models.Offer, error) {
	m.mu.Lock()
	m.Calls++
	offers, err, block := m.Offers, m.Err, m.Block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	out := make([]models.Offer, len(offers))
	copy(out, offers)
	return out, nil
}

func (m *MockFetcher) SetOffers(offers []models.Offer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Offers = offers
}

func (m *MockFetcher) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

var ErrDeliveryFailed = errors.New("delivery failed")

type Delivery struct {
	Scope  string
	Source string
	Offers []models.Offer
}

// MockNotifier implements notify.Notifier and records deliveries.
// Titles listed in FailTitles make Deliver fail.
type MockNotifier struct {
	mu         sync.Mutex
	Deliveries []Delivery
	FailTitles map[string]bool
}

func (m *MockNotifier) Deliver(_ context.Context, scope string, _ models.ScopeSettings, source string, offers []models.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range offers {
		if m.FailTitles[o.Title] {
			return ErrDeliveryFailed
		}
	}
	m.Deliveries = append(m.Deliveries, Delivery{Scope: scope, Source: source, Offers: offers})
	return nil
}

func (m *MockNotifier) Delivered() []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Delivery, len(m.Deliveries))
	copy(out, m.Deliveries)
	return out
}
