package seedresults

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitResults submits results concurrently using worker pools
func submitResults(ctx context.Context, config *Config, submissions []Submission, stats *Stats) error {
	log.Printf("📤 Submitting %d results with %d workers...", len(submissions), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/results"

	// Counters for statistics
	var (
		accepted  int64
		rejected  int64
		failed    int64
		submitted int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	submissionChan := make(chan Submission, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for submission := range submissionChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleResult(ctx, client, url, submission)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "rejected":
						atomic.AddInt64(&rejected, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						acc := atomic.LoadInt64(&accepted)
						rej := atomic.LoadInt64(&rejected)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (accepted: %d, rejected: %d, failed: %d)",
								total, len(submissions), acc, rej, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (accepted: %d, rejected: %d, failed: %d)",
								total, len(submissions), acc, rej, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send submissions to workers
	go func() {
		defer close(submissionChan)
		for _, submission := range submissions {
			select {
			case <-ctx.Done():
				return
			case submissionChan <- submission:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.ResultsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ResultsAccepted = int(atomic.LoadInt64(&accepted))
	stats.ResultsRejected = int(atomic.LoadInt64(&rejected))
	stats.ResultsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Result submission completed:
   Accepted: %d
   Rejected: %d
   Failed: %d
`, stats.ResultsAccepted, stats.ResultsRejected, stats.ResultsFailed)

	return nil
}

// submitSingleResult submits a single result and returns the outcome
func submitSingleResult(ctx context.Context, client *HTTPClient, url string, submission Submission) string {
	resp, err := client.Post(ctx, url, submission)
	if err != nil {
		return "failed"
	}

	// Read response body
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	// Parse response based on status code
	switch resp.StatusCode {
	case StatusAccepted:
		// Accepted into the ingest queue
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Status == "accepted" {
			return "accepted"
		}
		return "accepted" // Assume accepted for 202 even if parsing fails
	case StatusTooBusy:
		// Queue saturated; the service sheds load instead of blocking
		return "rejected"
	default:
		// Error
		return "failed"
	}
}
