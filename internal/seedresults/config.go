package seedresults

import "time"

// Config holds configuration for one seeding run
type Config struct {
	BaseURL          string        // Base URL of the service
	NumResults       int           // Number of results to generate
	Identities       int           // Number of distinct identities (0 derives from NumResults)
	TopN             int           // Number of top entries to fetch
	Workers          int           // Number of concurrent workers
	AnonymousPercent int           // Percentage of anonymous submissions
	Timeout          time.Duration // HTTP request timeout
	OutputFile       string        // Output file for results
	LogFile          string        // Log file for run output
	Verbose          bool          // Enable verbose logging
}

// Submission is one test result as posted to the service
type Submission struct {
	IdentityKey string `json:"identityKey,omitempty"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Location    string `json:"location,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Age         int    `json:"age,omitempty"`
	TestedAt    string `json:"testedAt"`
	SubjectID   string `json:"subjectId,omitempty"`
}

// Entry mirrors one ranked leaderboard entry from the service
type Entry struct {
	Rank        int    `json:"rank"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Badge       string `json:"badge"`
	SubjectID   string `json:"subjectId"`
}

// StatsResponse mirrors the aggregate statistics from the service
type StatsResponse struct {
	TotalParticipants   int     `json:"totalParticipants"`
	HighestScore        int     `json:"highestScore"`
	AverageScore        int     `json:"averageScore"`
	MedianScore         float64 `json:"medianScore"`
	TopPercentileScore  int     `json:"topPercentileScore"`
	GeniusPercentage    float64 `json:"geniusPercentage"`
	RecentGrowthPercent float64 `json:"recentGrowthPercent"`
	AverageImprovement  float64 `json:"averageImprovement"`
}

// PageResponse mirrors one leaderboard page from the service
type PageResponse struct {
	Entries     []Entry       `json:"entries"`
	Stats       StatsResponse `json:"stats"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	PageSize    int           `json:"pageSize"`
}

// WindowResponse mirrors the rank neighborhood around one participant
type WindowResponse struct {
	SelfRank          int     `json:"selfRank"`
	SelfEntry         Entry   `json:"selfEntry"`
	Window            []Entry `json:"window"`
	TotalParticipants int     `json:"totalParticipants"`
}

// AckResponse represents the response from result submission
type AckResponse struct {
	Status string `json:"status"`
}

// Expectations carries what the generator knows so verification can check
// the service against it
type Expectations struct {
	// Best submitted score per subject id, named identities only
	BestScores map[string]int
	// Number of identities that submitted at least one named result
	NamedIdentities int
	// Subject ids eligible for rank lookups
	SubjectIDs []string
}

// Stats holds run statistics
type Stats struct {
	ResultsGenerated   int
	ResultsSubmitted   int
	ResultsAccepted    int
	ResultsRejected    int
	ResultsFailed      int
	WindowsRetrieved   int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
