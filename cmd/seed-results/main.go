package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/hanawi96/testiq-sub006/internal/seedresults"
)

// Default configuration constants.
const (
	defaultNumResults  = 10000
	defaultIdentities  = 0 // derived from -results when zero
	defaultTopN        = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultAnonPercent = 10
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8080", "Base URL of the service")
		numResults  = flag.Int("results", defaultNumResults, "Number of test results to generate and submit")
		identities  = flag.Int("identities", defaultIdentities, "Number of distinct identities (0 derives one per three results)")
		topN        = flag.Int("top", defaultTopN, "Number of top entries to fetch from the leaderboard")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		anonPercent = flag.Int("anonymous", defaultAnonPercent, "Percentage of anonymous submissions")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Output file for generated results (default: generated_results_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seedresults.ShowHelp()
		return
	}

	// Setup logging
	if err := seedresults.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &seedresults.Config{
		BaseURL:          *baseURL,
		NumResults:       *numResults,
		Identities:       *identities,
		TopN:             *topN,
		Workers:          *workers,
		AnonymousPercent: *anonPercent,
		Timeout:          *timeout,
		OutputFile:       *outputFile,
		LogFile:          *logFile,
		Verbose:          *verbose,
	}

	// Run the seeding pass
	if err := seedresults.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		return
	}
}
