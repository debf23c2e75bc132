package internal

import (
	"freegames/internal/controllers"
	"freegames/internal/services"
	"freegames/internal/sources"
	"freegames/internal/structures"
	"freegames/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouteTestController(t *testing.T) *controllers.ApiController {
	t.Helper()
	conf := &structures.Config{
		Persistence: structures.Persistence{Debounce: time.Hour},
		Registry:    structures.RegistryConfig{Cooldown: time.Hour},
	}
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	registry := services.NewRegistry(conf, &testutil.MockStore{}, logger, metrics)
	t.Cleanup(func() { _ = registry.Close() })

	checker := services.NewChecker(conf, registry, sources.NewStaticSourceSet(), logger, metrics)
	announcer := services.NewAnnouncer(conf, registry, checker, &testutil.MockNotifier{}, logger, metrics)
	return controllers.NewApiController(logger, registry, announcer, testutil.NewMockCache())
}

func TestInitRoutes_RegistersFourRoutes(t *testing.T) {
	router := InitRoutes(newRouteTestController(t), &structures.Config{})
	routes := router.GetRoutes()

	require.Len(t, routes, 4)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/scopes")
	assert.Contains(t, urls, "/status")
	assert.Contains(t, urls, "/settings")
	assert.Contains(t, urls, "/check")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	router := InitRoutes(newRouteTestController(t), &structures.Config{})

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	// GET /scopes with POST should fail
	req := httptest.NewRequest(http.MethodPost, "/scopes", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST /check with GET should fail
	req = httptest.NewRequest(http.MethodGet, "/check?scope=guild1", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/scopes", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
