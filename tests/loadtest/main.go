package main

import (
	"fmt"
	json "github.com/goccy/go-json"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// The daemon under test is expected to listen on baseURL with its sources
// pointed at feedAddr (/epic.json, /steam.json, /gog.json).
const (
	baseURL      = "http://127.0.0.1:18090"
	feedAddr     = "127.0.0.1:19000"
	sinkAddr     = "127.0.0.1:19001"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numScopes    = 200
	numTitles    = 40
)

var stores = map[string]string{
	"/epic.json":  "Epic Games",
	"/steam.json": "Steam",
	"/gog.json":   "GOG",
}

var delivered atomic.Int64

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type feedOffer struct {
	Title string `json:"title"`
	Store string `json:"store"`
	URL   string `json:"url"`
}

func main() {
	fmt.Println("=== Free Games Notifier Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Scopes: %d | Titles per feed: %d\n\n", numScopes, numTitles)

	go serveFeeds()
	go serveSink()

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Configuring scopes (POST /settings) ---")
	for i := 0; i < numScopes; i++ {
		r := doSettings(scopeName(i))
		if r.err {
			fmt.Printf("FAILED: settings for %s returned %d\n", scopeName(i), r.status)
			return
		}
	}
	fmt.Printf("  %d scopes configured\n", numScopes)

	fmt.Println("\n--- Phase 2: Mixed load (20% POST /check, 80% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.20:
			return doCheck(rng)
		case r < 0.60:
			return doGetStatus(rng)
		default:
			return doGetScopes()
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (100% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.5 {
			return doGetStatus(rng)
		}
		return doGetScopes()
	})

	fmt.Printf("\nWebhook deliveries received: %d\n", delivered.Load())
}

func scopeName(i int) string {
	return fmt.Sprintf("scope-%d", i)
}

// serveFeeds rotates the offered titles every few seconds so passes keep
// finding new games.
func serveFeeds() {
	mux := http.NewServeMux()
	for path, store := range stores {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			shift := int(time.Now().Unix() / 3)
			offers := make([]feedOffer, 0, 5)
			for i := 0; i < 5; i++ {
				n := (shift + i) % numTitles
				offers = append(offers, feedOffer{
					Title: fmt.Sprintf("Game %d", n),
					Store: store,
					URL:   fmt.Sprintf("https://store.example.com/%d", n),
				})
			}
			data, _ := json.Marshal(offers)
			w.Header().Set("Content-Type", "application/json")
			w.Write(data)
		})
	}
	if err := http.ListenAndServe(feedAddr, mux); err != nil {
		fmt.Printf("feed server: %s\n", err)
	}
}

func serveSink() {
	err := http.ListenAndServe(sinkAddr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		delivered.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	if err != nil {
		fmt.Printf("webhook sink: %s\n", err)
	}
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doSettings(scope string) result {
	q := url.Values{}
	q.Set("scope", scope)
	q.Set("webhook", "http://"+sinkAddr+"/hook")
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/settings?"+q.Encode(), "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /settings", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /settings", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doCheck(rng *rand.Rand) result {
	scope := scopeName(rng.Intn(numScopes))
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/check?scope="+scope, "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /check", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /check", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetStatus(rng *rand.Rand) result {
	scope := scopeName(rng.Intn(numScopes))
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/status?scope=" + scope)
	lat := time.Since(start)
	if err != nil {
		return result{"GET /status", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /status", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetScopes() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/scopes")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /scopes", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /scopes", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
