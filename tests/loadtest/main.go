package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	baseURL       = "http://127.0.0.1:18090"
	numWorkers    = 50
	testDuration  = 10 * time.Second
	rowsPerUpload = 200
	numUsers      = 40
)

var (
	scacs    = []string{"ACME", "FRTL", "DHLX", "SCNN", "GEOD"}
	periods  = []string{"hour", "day", "week", "month"}
	snapMu   sync.Mutex
	snapIDs  []string
	rowCount atomic.Int64
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
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

func main() {
	fmt.Println("=== vehlog Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Rows per upload: %d\n\n", numWorkers, testDuration, rowsPerUpload)

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

	fmt.Println("\n--- Phase 1: Uploading logs (POST /records?mode=append) ---")
	runPhase(testDuration, doUpload)
	fmt.Printf("Rows sent: %d\n", rowCount.Load())

	fmt.Println("\n--- Phase 2: Views (90% GET, 10% upload) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doUpload(rng)
		case r < 0.30:
			return get("/categories", "/categories")
		case r < 0.50:
			return get("/grouped", "/grouped")
		case r < 0.65:
			return get("/stats", "/stats")
		case r < 0.80:
			return get("/periods", "/periods?period="+periods[rng.Intn(len(periods))])
		default:
			return get("/records", fmt.Sprintf("/records?user=user%d", rng.Intn(numUsers)))
		}
	})

	fmt.Println("\n--- Phase 3: Snapshot churn ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.20:
			return doCreateSnapshot()
		case r < 0.40:
			return get("/snapshots", "/snapshots")
		case r < 0.70:
			a, b := randomSnapshot(rng), randomSnapshot(rng)
			return get("/compare", "/compare?a="+a+"&b="+b)
		case r < 0.85:
			return get("/search", fmt.Sprintf("/search?q=user%d", rng.Intn(numUsers)))
		default:
			return get("/snapshot", "/snapshot?id="+randomSnapshot(rng))
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
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
					results <- workFn(rng)
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
	var totalOps, totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 88))
	if totalOps == 0 {
		fmt.Println("  No requests completed")
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

// logRows renders n random activity rows in the comma separated log format.
func logRows(rng *rand.Rand, n int) string {
	var b strings.Builder
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ts := base.Add(time.Duration(rng.Intn(30*24*60)) * time.Minute)
		scac := scacs[rng.Intn(len(scacs))]
		vrid, trailer := "", fmt.Sprintf("TRL%04d", rng.Intn(5000))
		switch rng.Intn(3) {
		case 0:
			vrid = fmt.Sprintf("0994-%d", rng.Intn(100000))
		case 1:
			vrid = fmt.Sprintf("%d", rng.Intn(100000))
		default:
			trailer = "VS" + scac
		}
		fmt.Fprintf(&b, "%s,user%d,%s,%s,TR%03d,%s\n",
			ts.Format("2006-01-02 15:04:05"), rng.Intn(numUsers), vrid, scac, rng.Intn(500), trailer)
	}
	return b.String()
}

func doUpload(rng *rand.Rand) result {
	body := logRows(rng, rowsPerUpload)
	rowCount.Add(rowsPerUpload)
	return send("POST /records", http.MethodPost, "/records?mode=append", body, http.StatusCreated)
}

func doCreateSnapshot() result {
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/snapshots", "text/plain", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /snapshots", 0, lat, true}
	}
	defer resp.Body.Close()

	var created struct {
		ID string `json:"id"`
	}
	if resp.StatusCode == http.StatusCreated && json.NewDecoder(resp.Body).Decode(&created) == nil {
		snapMu.Lock()
		snapIDs = append(snapIDs, created.ID)
		snapMu.Unlock()
	}
	return result{"POST /snapshots", resp.StatusCode, lat, resp.StatusCode != http.StatusCreated}
}

// randomSnapshot picks one of the ids created so far. Evicted ids are
// expected and answered with 404.
func randomSnapshot(rng *rand.Rand) string {
	snapMu.Lock()
	defer snapMu.Unlock()
	if len(snapIDs) == 0 {
		return "none"
	}
	return snapIDs[rng.Intn(len(snapIDs))]
}

func get(endpoint, path string) result {
	return send("GET "+endpoint, http.MethodGet, path, "", http.StatusOK, http.StatusNotFound)
}

func send(endpoint, method, path, body string, okStatus ...int) result {
	req, err := http.NewRequest(method, baseURL+path, strings.NewReader(body))
	if err != nil {
		return result{endpoint, 0, 0, true}
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	failed := true
	for _, s := range okStatus {
		if resp.StatusCode == s {
			failed = false
		}
	}
	return result{endpoint, resp.StatusCode, lat, failed}
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
