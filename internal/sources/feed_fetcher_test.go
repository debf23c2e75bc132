package sources

import (
	"context"
	"freegames/internal/structures"
	"freegames/internal/testutil"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `[
  {"title":"Foo: Bar!","store":"Epic Games","url":"https://store.example/foo","endDate":"2026-05-20T15:00:00Z"},
  {"title":"Portal","url":"https://store.example/portal","genres":["puzzle"],"rating":{"score":95,"source":"Metacritic"}},
  {"title":"   ","store":"Epic Games"}
]`

func newTestFetcher(url string, retries int) *FeedFetcher {
	f := NewFeedFetcher(
		structures.SourceConfig{Name: "epic", Url: url, Enabled: true},
		structures.SourcesConfig{Timeout: 5 * time.Second, Retries: retries},
		&testutil.MockLogger{},
	)
	f.initialInterval = time.Millisecond
	return f
}

func TestFeedFetcher_DecodesOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	offers, err := newTestFetcher(srv.URL, 0).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 2)

	assert.Equal(t, "Foo: Bar!", offers[0].Title)
	assert.Equal(t, "Epic Games", offers[0].Store)
	require.NotNil(t, offers[0].EndDate)
	assert.True(t, offers[0].EndDate.Equal(time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)))

	assert.Equal(t, "epic", offers[1].Store)
	require.NotNil(t, offers[1].Rating)
	assert.Equal(t, 95, offers[1].Rating.Score)
}

func TestFeedFetcher_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"title":"Portal","store":"Steam"}]`))
	}))
	defer srv.Close()

	offers, err := newTestFetcher(srv.URL, 3).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, offers, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFeedFetcher_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL, 2).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFeedFetcher_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL, 5).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFeedFetcher_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL, 3).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFeedFetcher_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTestFetcher(srv.URL, 3).Fetch(ctx)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
