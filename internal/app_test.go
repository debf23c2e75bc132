package internal

import (
	"context"
	"errors"
	"freegames/internal/testutil"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingScheduler struct {
	mu         sync.Mutex
	stops      int
	persists   int
	persistErr error
}

func (s *recordingScheduler) Init()          {}
func (s *recordingScheduler) Restore() error { return nil }
func (s *recordingScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
}
func (s *recordingScheduler) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persists++
	return s.persistErr
}

// startApp serves handler on a random local port.
func startApp(t *testing.T, handler http.Handler, scheduler *recordingScheduler) (*App, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	app := &App{
		WebServer:       &http.Server{Handler: handler},
		scheduler:       scheduler,
		logger:          &testutil.MockLogger{},
		shutdownTimeout: 50 * time.Millisecond,
	}
	go func() { _ = app.WebServer.Serve(ln) }()
	return app, "http://" + ln.Addr().String()
}

func TestAppShutdown_PersistsAfterDrain(t *testing.T) {
	scheduler := &recordingScheduler{}
	app, _ := startApp(t, http.NotFoundHandler(), scheduler)

	require.NoError(t, app.shutdown())
	assert.Equal(t, 1, scheduler.stops)
	assert.Equal(t, 1, scheduler.persists)
}

func TestAppShutdown_PersistsWhenDrainTimesOut(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})

	scheduler := &recordingScheduler{}
	app, base := startApp(t, handler, scheduler)
	defer close(release)

	go func() {
		resp, err := http.Post(base+"/check?scope=guild1", "application/json", nil)
		if err == nil {
			resp.Body.Close()
		}
	}()
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}

	err := app.shutdown()
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, scheduler.persists)
}

func TestAppShutdown_ReportsPersistError(t *testing.T) {
	persistErr := errors.New("disk full")
	scheduler := &recordingScheduler{persistErr: persistErr}
	app, _ := startApp(t, http.NotFoundHandler(), scheduler)

	err := app.shutdown()
	assert.ErrorIs(t, err, persistErr)
	assert.Equal(t, 1, scheduler.persists)
}
