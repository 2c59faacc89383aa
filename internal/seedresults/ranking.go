package seedresults

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// invalidateCache forces the service to rebuild its snapshot so freshly
// ingested results become visible without waiting out the cache TTL.
func invalidateCache(ctx context.Context, config *Config) error {
	log.Println("♻️  Invalidating the leaderboard cache...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/leaderboard/invalidate"

	resp, err := client.Post(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// retrieveWindows retrieves rank neighborhoods for a sample of subjects
// concurrently.
func retrieveWindows(ctx context.Context, config *Config, expected *Expectations, stats *Stats) ([]WindowResponse, error) {
	sampleSize := minInt(WindowSampleSize, len(expected.SubjectIDs))
	subjectIDs := expected.SubjectIDs[:sampleSize]

	log.Printf("🏆 Retrieving rank windows for %d subjects with %d workers...", len(subjectIDs), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage
	windows := make([]WindowResponse, len(subjectIDs))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	subjectChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of IDs
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range subjectChan {
				select {
				case <-ctx.Done():
					return
				default:
					subjectID := subjectIDs[index]
					window, err := retrieveSingleWindow(ctx, client, config.BaseURL, subjectID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get rank for %s: %v", subjectID, err)
						}
					} else {
						windows[index] = window
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						log.Printf("🏆 Windows: %d/%d retrieved (success: %d, failed: %d)",
							total, len(subjectIDs), ret, fail)
					}
				}
			}
		}(i)
	}

	// Send subject indices to workers
	go func() {
		defer close(subjectChan)
		for i := range subjectIDs {
			select {
			case <-ctx.Done():
				return
			case subjectChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (failed retrievals)
	validWindows := make([]WindowResponse, 0, len(windows))
	for _, window := range windows {
		if window.SelfRank > 0 {
			validWindows = append(validWindows, window)
		}
	}

	// Update stats
	stats.WindowsRetrieved = len(validWindows)

	log.Printf(`✅ Window retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validWindows), int(atomic.LoadInt64(&failed)))

	return validWindows, nil
}

// retrieveSingleWindow retrieves the rank neighborhood for a single subject.
func retrieveSingleWindow(ctx context.Context, client *HTTPClient, baseURL, subjectID string) (WindowResponse, error) {
	url := fmt.Sprintf("%s/rank/%s", baseURL, subjectID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return WindowResponse{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return WindowResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return WindowResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var window WindowResponse
	if err := unmarshalJSON(body, &window); err != nil {
		return WindowResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return window, nil
}

// getLeaderboard retrieves one leaderboard page of the requested size.
func getLeaderboard(ctx context.Context, config *Config, page int, stats *Stats) (PageResponse, error) {
	log.Printf("🥇 Getting leaderboard page %d (size %d)...", page, config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?page=%d&size=%d", config.BaseURL, page, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return PageResponse{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return PageResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return PageResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var pageResp PageResponse
	if err := unmarshalJSON(body, &pageResp); err != nil {
		return PageResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LeaderboardEntries += len(pageResp.Entries)
	log.Printf("✅ Retrieved %d leaderboard entries", len(pageResp.Entries))

	return pageResp, nil
}

// getStats retrieves the aggregate statistics.
func getStats(ctx context.Context, config *Config) (StatsResponse, error) {
	log.Println("📈 Getting leaderboard statistics...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/leaderboard/stats"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return StatsResponse{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return StatsResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return StatsResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var statsResp StatsResponse
	if err := unmarshalJSON(body, &statsResp); err != nil {
		return StatsResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return statsResp, nil
}
