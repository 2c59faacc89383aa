package seedresults

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hanawi96/testiq-sub006/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes one complete seeding pass against a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting leaderboard seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("results", config.NumResults),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.Int("anonymousPercent", config.AnonymousPercent),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate results
	submissions, expected, err := generateResults(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("result generation failed: %w", err)
	}

	// Step 3: Submit results concurrently
	if err := submitResults(ctx, config, submissions, stats); err != nil {
		return fmt.Errorf("result submission failed: %w", err)
	}

	// Step 4: Wait for the ingest workers to drain the queue, then force a
	// snapshot rebuild so the seeded results are visible immediately
	logger.Get().Info(ctx, "waiting for ingest workers to drain the queue")
	time.Sleep(IngestDrainDelay)
	if err := invalidateCache(ctx, config); err != nil {
		return fmt.Errorf("cache invalidation failed: %w", err)
	}

	// Step 5: Retrieve rank windows for a sample of subjects
	windows, err := retrieveWindows(ctx, config, expected, stats)
	if err != nil {
		return fmt.Errorf("window retrieval failed: %w", err)
	}

	// Step 6: Get the top leaderboard page
	page, err := getLeaderboard(ctx, config, 1, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 7: Get aggregate statistics
	aggregates, err := getStats(ctx, config)
	if err != nil {
		return fmt.Errorf("statistics retrieval failed: %w", err)
	}

	// Step 8: Verify results
	if err := verifyResults(ctx, config, expected, page, windows, aggregates, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 9: Save submissions to file
	if err := saveResultsToFile(ctx, config, submissions); err != nil {
		logger.Get().Warn(ctx, "failed to save results to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveResultsToFile saves the generated submissions to a JSON file.
func saveResultsToFile(ctx context.Context, config *Config, submissions []Submission) error {
	if len(submissions) == 0 {
		return fmt.Errorf("no results to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_results_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write submissions to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, submission := range submissions {
		jsonData, err := marshalJSON(submission)
		if err != nil {
			return fmt.Errorf("failed to marshal result %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write result %d: %w", i, err)
		}

		// Add comma except for last entry
		if i < len(submissions)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "results saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var acceptRate, resultsPerSecond float64

	if stats.ResultsSubmitted > 0 {
		acceptRate = float64(stats.ResultsAccepted) / float64(stats.ResultsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		resultsPerSecond = float64(stats.ResultsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("resultsGenerated", stats.ResultsGenerated),
		logger.Int("resultsSubmitted", stats.ResultsSubmitted),
		logger.Int("resultsAccepted", stats.ResultsAccepted),
		logger.Int("resultsRejected", stats.ResultsRejected),
		logger.Int("resultsFailed", stats.ResultsFailed),
		logger.Int("windowsRetrieved", stats.WindowsRetrieved),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("resultsPerSecond", resultsPerSecond))
}
