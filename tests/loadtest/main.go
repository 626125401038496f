package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:8090", "daemon base URL")
	numWorkers   = flag.Int("workers", 20, "concurrent workers")
	testDuration = flag.Duration("duration", 10*time.Second, "duration of each phase")
	product      = flag.String("product", "starter-pack", "product id used for purchase checks")
	stage        = flag.String("stage", "boss-raid", "stage id used for entry checks")
)

const numCharacters = 200

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	latency  time.Duration
	failed   bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	flag.Parse()
	fmt.Println("=== StateKeeper Load Test ===")
	fmt.Printf("Target: %s | Workers: %d | Phase: %s\n\n", *baseURL, *numWorkers, *testDuration)

	fmt.Print("Waiting for daemon... ")
	if !waitReady(30) {
		fmt.Println("FAILED: daemon not responding")
		return
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: delta stream (POST /delta) ---")
	runPhase(func(rng *rand.Rand) result { return postDelta(rng) })

	fmt.Println("\n--- Phase 2: mixed (40% delta, 40% state reads, 20% limit checks) ---")
	runPhase(func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.40:
			return postDelta(rng)
		case r < 0.80:
			return get("/state", "GET /state")
		case r < 0.90:
			return get("/purchase/check?product="+*product, "GET /purchase/check")
		default:
			return get("/stage/check?stage="+*stage, "GET /stage/check")
		}
	})
}

func waitReady(attempts int) bool {
	for i := 0; i < attempts; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			drain(resp)
			return true
		}
		time.Sleep(200 * time.Millisecond)
	}
	return false
}

func runPhase(workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var issued atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
					issued.Inc()
				}
			}
		}(time.Now().UnixNano() + int64(i))
	}

	byEndpoint := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := byEndpoint[r.endpoint]
			if !ok {
				s = &stats{}
				byEndpoint[r.endpoint] = s
			}
			s.count++
			if r.failed {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(*testDuration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(byEndpoint, issued.Load())
}

func printResults(byEndpoint map[string]*stats, issued int64) {
	var totalErrors int64
	endpoints := make([]string, 0, len(byEndpoint))
	for ep := range byEndpoint {
		endpoints = append(endpoints, ep)
	}
	slices.Sort(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s\n", "Endpoint", "Reqs", "Errs", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 70))
	for _, ep := range endpoints {
		s := byEndpoint[ep]
		totalErrors += s.errors
		slices.Sort(s.latencies)
		fmt.Printf("  %-22s %8d %6d %10s %10s %10s\n", ep, s.count, s.errors,
			fmtDur(percentile(s.latencies, 0.50)), fmtDur(percentile(s.latencies, 0.95)), fmtDur(percentile(s.latencies, 0.99)))
	}
	fmt.Println("  " + strings.Repeat("-", 70))
	fmt.Printf("  Total: %d reqs | Errors: %d | RPS: %.0f\n", issued, totalErrors, float64(issued)/testDuration.Seconds())
}

// postDelta levels up a random character, which upserts it on first sight.
func postDelta(rng *rand.Rand) result {
	delta := map[string]any{
		"addedCharacters": []map[string]any{{
			"instanceId":  fmt.Sprintf("c%d", rng.Intn(numCharacters)),
			"characterId": "knight",
			"level":       rng.Intn(80) + 1,
		}},
		"currency": map[string]any{"gold": rng.Int63n(1_000_000)},
	}
	data, _ := json.Marshal(delta)

	start := time.Now()
	resp, err := httpClient.Post(*baseURL+"/delta", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /delta", lat, true}
	}
	drain(resp)
	return result{"POST /delta", lat, resp.StatusCode != http.StatusAccepted}
}

func get(path, label string) result {
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{label, lat, true}
	}
	drain(resp)
	return result{label, lat, resp.StatusCode != http.StatusOK}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := min(int(float64(len(d))*p), len(d)-1)
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
