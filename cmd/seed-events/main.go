// Command seed-events generates synthetic engagement events and submits
// them to a running instance over HTTP. It is a load and smoke tool for
// the ingestion path: every event carries a fresh UUID so the dedupe
// layer passes them through, and a configurable fraction is re-sent to
// exercise the duplicate path.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Default configuration constants.
const (
	defaultNumEvents   = 10000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
	defaultDupePercent = 5
)

var itemIDs = []string{
	"mash-001", "mash-002", "mash-003", "mash-004", "mash-005",
	"mash-006", "mash-007", "mash-008", "mash-009",
}

var eventTypes = []string{"impression", "play", "skip", "like", "share", "open"}

type eventPayload struct {
	EventID  string `json:"event_id"`
	ItemID   string `json:"item_id"`
	ViewerID string `json:"viewer_id"`
	Type     string `json:"type"`
	TS       string `json:"ts"`
}

type counters struct {
	accepted   atomic.Int64
	duplicates atomic.Int64
	rejected   atomic.Int64
	failed     atomic.Int64
}

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numEvents   = flag.Int("events", defaultNumEvents, "Number of events to generate and submit")
		numViewers  = flag.Int("viewers", 200, "Number of distinct synthetic viewers")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		dupePercent = flag.Int("dupes", defaultDupePercent, "Percent of events re-sent to exercise dedupe")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "RNG seed for reproducible runs")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	client := &http.Client{Timeout: *timeout}

	events := generate(*numEvents, *numViewers, *dupePercent, rand.New(rand.NewSource(*seed)))

	fmt.Printf("submitting %d events (%d workers) to %s\n", len(events), *workers, *baseURL)
	start := time.Now()

	var c counters
	jobs := make(chan eventPayload)
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range jobs {
				submit(ctx, client, *baseURL, ev, &c)
			}
		}()
	}
feed:
	for _, ev := range events {
		select {
		case jobs <- ev:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	fmt.Printf("done in %s: accepted=%d duplicates=%d rejected=%d failed=%d (%.0f ev/s)\n",
		elapsed.Round(time.Millisecond),
		c.accepted.Load(), c.duplicates.Load(), c.rejected.Load(), c.failed.Load(),
		float64(len(events))/elapsed.Seconds())

	if err := printFeed(ctx, client, *baseURL); err != nil {
		os.Stderr.WriteString("failed to fetch feed: " + err.Error() + "\n")
	}
}

// generate builds the event batch. A dupePercent slice of the batch is
// appended a second time with the same event id, shuffled into place.
func generate(n, viewers, dupePercent int, rng *rand.Rand) []eventPayload {
	out := make([]eventPayload, 0, n+n*dupePercent/100)
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		out = append(out, eventPayload{
			EventID:  uuid.NewString(),
			ItemID:   itemIDs[rng.Intn(len(itemIDs))],
			ViewerID: fmt.Sprintf("viewer-%03d", rng.Intn(viewers)),
			Type:     eventTypes[rng.Intn(len(eventTypes))],
			TS:       now.Add(-time.Duration(rng.Intn(7*24)) * time.Hour).Format(time.RFC3339),
		})
	}
	dupes := n * dupePercent / 100
	for i := 0; i < dupes; i++ {
		out = append(out, out[rng.Intn(n)])
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func submit(ctx context.Context, client *http.Client, baseURL string, ev eventPayload, c *counters) {
	body, err := json.Marshal(ev)
	if err != nil {
		c.failed.Add(1)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		c.failed.Add(1)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		c.failed.Add(1)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		c.accepted.Add(1)
	case http.StatusOK:
		c.duplicates.Add(1)
	case http.StatusTooManyRequests:
		c.rejected.Add(1)
	default:
		c.failed.Add(1)
	}
}

// printFeed fetches the momentum feed so a seeding run ends with a
// visible ranking instead of a bare counter line.
func printFeed(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/feed/momentum?limit=5", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var feed struct {
		Items []struct {
			ID            string  `json:"id"`
			Title         string  `json:"title"`
			AdjustedScore float64 `json:"adjustedScore"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return err
	}
	fmt.Println("top of the momentum feed:")
	for i, it := range feed.Items {
		fmt.Printf("  %d. %-28s %s (%.1f)\n", i+1, it.Title, it.ID, it.AdjustedScore)
	}
	return nil
}
