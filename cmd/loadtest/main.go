package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type config struct {
	baseURL     string
	total       int
	concurrency int
	timeout     time.Duration
	userID      string
	productID   string
	qty         int
}

type result struct {
	status  int
	latency time.Duration
	err     error
}

func main() {
	cfg := parseFlags()

	client := &http.Client{Timeout: cfg.timeout}
	jobs := make(chan int)
	results := make(chan result, cfg.total)

	var sent atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < cfg.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				results <- fire(client, cfg)
				sent.Add(1)
			}
		}()
	}

	start := time.Now()
	go func() {
		for i := 0; i < cfg.total; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	wg.Wait()
	close(results)
	elapsed := time.Since(start)

	report(results, cfg.total, elapsed)
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.baseURL, "addr", "http://localhost:8080", "base URL of the order service")
	flag.IntVar(&cfg.total, "total", 100, "total number of create-order requests")
	flag.IntVar(&cfg.concurrency, "concurrency", 10, "number of concurrent workers")
	flag.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "per-request timeout")
	flag.StringVar(&cfg.userID, "user", "1", "user id to order for")
	flag.StringVar(&cfg.productID, "product", "1", "product id to order")
	flag.IntVar(&cfg.qty, "qty", 1, "quantity per order")
	flag.Parse()

	if cfg.total <= 0 || cfg.concurrency <= 0 {
		fmt.Fprintln(os.Stderr, "total and concurrency must be positive")
		os.Exit(1)
	}
	return cfg
}

// fire выполняет один POST /orders и возвращает статус с латентностью.
func fire(client *http.Client, cfg config) result {
	payload, _ := json.Marshal(map[string]any{
		"user_id":    cfg.userID,
		"product_id": cfg.productID,
		"quantity":   cfg.qty,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return result{err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return result{latency: latency, err: err}
	}
	defer resp.Body.Close()

	return result{status: resp.StatusCode, latency: latency}
}

func report(results chan result, total int, elapsed time.Duration) {
	var ok, failed int
	statusCounts := make(map[int]int)
	latencies := make([]time.Duration, 0, total)

	for r := range results {
		if r.err != nil {
			failed++
			continue
		}
		statusCounts[r.status]++
		latencies = append(latencies, r.latency)
		if r.status == http.StatusCreated {
			ok++
		} else {
			failed++
		}
	}

	fmt.Printf("total=%d ok=%d failed=%d elapsed=%s rps=%.1f\n",
		total, ok, failed, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	for status, count := range statusCounts {
		fmt.Printf("  status %d: %d\n", status, count)
	}

	if len(latencies) == 0 {
		return
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	fmt.Printf("latency min=%s p50=%s p95=%s max=%s\n",
		latencies[0].Round(time.Millisecond),
		percentile(latencies, 50).Round(time.Millisecond),
		percentile(latencies, 95).Round(time.Millisecond),
		latencies[len(latencies)-1].Round(time.Millisecond))
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted) - 1) * p / 100
	return sorted[idx]
}
