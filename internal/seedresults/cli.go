package seedresults

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/hanawi96/testiq-sub006/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seed results tool.
func ShowHelp() {
	os.Stdout.WriteString(`Leaderboard Seed Tool
=====================

A concurrent tool for seeding the leaderboard service with generated test
results and verifying the ranking it produces.

Usage:
  go run cmd/seed-results/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -results int
        Number of test results to generate and submit (default 10000)
  -identities int
        Number of distinct identities; repeat attempts exercise
        best-score deduplication (default: one per three results)
  -top int
        Number of top entries to fetch from the leaderboard (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -anonymous int
        Percentage of anonymous submissions (default 10)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated results (default: generated_results_TIMESTAMP.json)
  -log string
        Log file for run output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-results/main.go

  # Seed with custom parameters
  go run cmd/seed-results/main.go -results 50000 -identities 8000 -workers 16

  # Seed with verbose output
  go run cmd/seed-results/main.go -verbose -results 10000

  # Seed with custom log file
  go run cmd/seed-results/main.go -results 50000 -log my_seed.log
`)
}
