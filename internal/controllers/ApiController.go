package controllers

import (
	"errors"
	"freegames/internal/notify"
	"freegames/internal/providers"
	"freegames/internal/services"
	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
	"net/http"
	"sort"
	"time"
)

const scopesCacheKey = "scopes"

var errScopeNotFound = errors.New("scope not found")

type ApiController struct {
	logger    providers.Logger
	registry  services.RegistryInterface
	announcer services.AnnouncerInterface
	cache     providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, registry services.RegistryInterface, announcer services.AnnouncerInterface, cache providers.CacheProviderInterface) *ApiController {
	ac := &ApiController{
		logger:    logger,
		registry:  registry,
		announcer: announcer,
		cache:     cache,
	}
	// Scheduled checks change lastChecked and games behind the cache.
	announcer.OnChecked(ac.invalidate)
	return ac
}

type sourceStatus struct {
	Name        string     `json:"name"`
	Enabled     bool       `json:"enabled"`
	LastChecked *time.Time `json:"lastChecked,omitempty"`
}

type statusResponse struct {
	Scope        string         `json:"scope"`
	Webhook      string         `json:"webhook,omitempty"`
	Sources      []sourceStatus `json:"sources"`
	TrackedGames int            `json:"trackedGames"`
	Games        []string       `json:"games"`
}

type checkResponse struct {
	Scope  string `json:"scope"`
	Posted int    `json:"posted"`
}

func statusCacheKey(scope string) string {
	return "status:" + scope
}

func writeJSON(w http.ResponseWriter, code int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(payload)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if errors.Is(err, errScopeNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

func (ac *ApiController) invalidate(scope string) {
	ac.cache.Del(scopesCacheKey)
	ac.cache.Del(statusCacheKey(scope))
}

func requireScope(w http.ResponseWriter, r *http.Request) (string, bool) {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		http.Error(w, "Bad Request: scope is required", http.StatusBadRequest)
		return "", false
	}
	return scope, true
}

func (ac *ApiController) GetScopes(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, scopesCacheKey, func() (any, error) {
		return ac.registry.AllScopes(), nil
	})
}

func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}

	ac.serveFromCacheOrCompute(w, statusCacheKey(scope), func() (any, error) {
		st, found := ac.registry.Scope(scope)
		if !found {
			return nil, errScopeNotFound
		}

		resp := statusResponse{
			Scope:        scope,
			Webhook:      st.Settings.WebhookURL,
			TrackedGames: len(st.Games),
			Games:        make([]string, 0, len(st.Games)),
		}
		for _, name := range ac.announcer.Sources() {
			src := sourceStatus{Name: name, Enabled: st.Settings.SourceEnabled(name)}
			if ts, checked := st.LastChecked[name]; checked {
				src.LastChecked = &ts
			}
			resp.Sources = append(resp.Sources, src)
		}
		for id := range st.Games {
			resp.Games = append(resp.Games, id)
		}
		sort.Strings(resp.Games)
		return resp, nil
	})
}

// UpdateSettings sets the scope's webhook and/or toggles one source.
func (ac *ApiController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var change services.SettingsChange
	if q.Has("webhook") {
		webhook := q.Get("webhook")
		change.WebhookURL = &webhook
	}
	if source := q.Get("source"); source != "" {
		enabled, err := cast.ToBoolE(q.Get("enabled"))
		if err != nil {
			http.Error(w, "Bad Request: enabled must be a boolean", http.StatusBadRequest)
			return
		}
		change.Source = source
		change.Enabled = &enabled
	}
	if change.WebhookURL == nil && change.Source == "" {
		http.Error(w, "Bad Request: nothing to update", http.StatusBadRequest)
		return
	}

	err := ac.announcer.Configure(scope, change)
	if errors.Is(err, services.ErrUnknownSource) || errors.Is(err, services.ErrInvalidWebhook) {
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Settings update for %s failed: %s", scope, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.invalidate(scope)
	gson, err := json.Marshal(ac.registry.Settings(scope))
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gson)
}

// Check runs a pass for one scope right away and reports how many offers
// were posted.
func (ac *ApiController) Check(w http.ResponseWriter, r *http.Request) {
	scope, ok := requireScope(w, r)
	if !ok {
		return
	}

	posted, err := ac.announcer.CheckScope(r.Context(), scope)
	if errors.Is(err, notify.ErrNoDestination) {
		http.Error(w, "Conflict: no webhook configured for scope", http.StatusConflict)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Manual check for %s failed: %s", scope, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.logger.Infof(providers.TypePost, "Manual check for %s posted %d offers", scope, posted)

	gson, err := json.Marshal(checkResponse{Scope: scope, Posted: posted})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gson)
}
