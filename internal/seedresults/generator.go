package seedresults

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/hanawi96/testiq-sub006/pkg/logger"
)

// Score band boundaries, inclusive minimum plus band width.
const (
	averageScoreMin    = 85
	averageScoreRange  = 30 // 85..114
	aboveScoreMin      = 115
	aboveScoreRange    = 15 // 115..129
	superiorScoreMin   = 130
	superiorScoreRange = 10 // 130..139
	geniusScoreMin     = 140
	geniusScoreRange   = 21 // 140..160
	lowScoreMin        = 55
	lowScoreRange      = 30 // 55..84
	wideScoreMin       = 55
	wideScoreRange     = 106 // 55..160
)

// Constants for score band cases.
const (
	caseAverageBandA = 0
	caseAverageBandB = 1
	caseAverageBandC = 2
	caseAboveBand    = 3
	caseSuperiorBand = 4
	caseGeniusBand   = 5
	caseLowBand      = 6
	caseWideBand     = 7
	scoreBandCount   = 8
)

// Constants for attribute generation.
const (
	testedAtSpreadDays = 60
	secondsPerDay      = 86400
	minAge             = 16
	ageRange           = 45 // 16..60
	identityDivisor    = 3  // default: one identity per three results
	percentDivisor     = 100
)

// Attribute pools for generated identities.
var locations = []string{"Hanoi", "Da Nang", "Saigon", "Hue", "Can Tho", ""} //nolint:gochecknoglobals // fixed attribute pool
var genders = []string{"female", "male", "other", ""}                        //nolint:gochecknoglobals // fixed attribute pool

// identity is one generated participant that can submit repeat attempts.
type identity struct {
	key         string
	displayName string
	subjectID   string
	location    string
	gender      string
	age         int
}

// randomInt returns a uniform random integer in [0, limit) using crypto/rand.
func randomInt(limit int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	return int(n.Int64())
}

// generateResults creates the submissions for one seeding run together with
// the expectations used to verify the ranking afterwards.
func generateResults(ctx context.Context, config *Config, stats *Stats) ([]Submission, *Expectations, error) {
	identityCount := config.Identities
	if identityCount <= 0 {
		identityCount = config.NumResults / identityDivisor
	}
	if identityCount < 1 {
		identityCount = 1
	}

	anonymous := config.NumResults * config.AnonymousPercent / percentDivisor
	named := config.NumResults - anonymous
	if identityCount > named && named > 0 {
		identityCount = named
	}

	logger.Get().Info(ctx, "generating test results",
		logger.Int("numResults", config.NumResults),
		logger.Int("identities", identityCount),
		logger.Int("anonymous", anonymous))

	// Pre-build the identity pool; repeat attempts share the same identity
	// key and subject id
	pool := make([]identity, identityCount)
	for i := range pool {
		pool[i] = identity{
			key:         fmt.Sprintf("tester-%05d@example.com", i),
			displayName: fmt.Sprintf("Tester %05d", i),
			subjectID:   uuid.New().String(),
			location:    locations[randomInt(len(locations))],
			gender:      genders[randomInt(len(genders))],
			age:         minAge + randomInt(ageRange),
		}
	}

	expected := &Expectations{
		BestScores: make(map[string]int, identityCount),
	}
	submissions := make([]Submission, 0, config.NumResults)

	// Named submissions go round-robin across the pool so every identity
	// collects repeat attempts
	for i := 0; i < named; i++ {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("context cancelled during result generation: %w", ctx.Err())
		default:
		}

		id := pool[i%identityCount]
		score := generateVariedScore()
		submissions = append(submissions, Submission{
			IdentityKey: id.key,
			DisplayName: id.displayName,
			Score:       score,
			Location:    id.location,
			Gender:      id.gender,
			Age:         id.age,
			TestedAt:    randomTestedAt(),
			SubjectID:   id.subjectID,
		})

		if best, ok := expected.BestScores[id.subjectID]; !ok || score > best {
			expected.BestScores[id.subjectID] = score
		}
	}

	// Anonymous submissions carry no identity key; the service keeps them
	// out of the ranking
	for i := 0; i < anonymous; i++ {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("context cancelled during result generation: %w", ctx.Err())
		default:
		}

		submissions = append(submissions, Submission{
			DisplayName: "Anonymous",
			Score:       generateVariedScore(),
			TestedAt:    randomTestedAt(),
		})
	}

	for subjectID := range expected.BestScores {
		expected.SubjectIDs = append(expected.SubjectIDs, subjectID)
	}
	expected.NamedIdentities = len(expected.BestScores)

	stats.ResultsGenerated = len(submissions)
	logger.Get().Info(ctx, "generated test results",
		logger.Int("count", len(submissions)),
		logger.Int("namedIdentities", expected.NamedIdentities))

	return submissions, expected, nil
}

// generateVariedScore creates a score with a distribution weighted toward the
// average band, matching how real test scores cluster.
func generateVariedScore() int {
	switch randomInt(scoreBandCount) {
	case caseAverageBandA, caseAverageBandB, caseAverageBandC:
		// Average performers (85 - 114) - most common
		return averageScoreMin + randomInt(averageScoreRange)
	case caseAboveBand:
		// Above average (115 - 129)
		return aboveScoreMin + randomInt(aboveScoreRange)
	case caseSuperiorBand:
		// Superior (130 - 139)
		return superiorScoreMin + randomInt(superiorScoreRange)
	case caseGeniusBand:
		// Genius (140 - 160) - rare
		return geniusScoreMin + randomInt(geniusScoreRange)
	case caseLowBand:
		// Low performers (55 - 84)
		return lowScoreMin + randomInt(lowScoreRange)
	case caseWideBand:
		// Random across the full range (55 - 160)
		return wideScoreMin + randomInt(wideScoreRange)
	default:
		return wideScoreMin + randomInt(wideScoreRange)
	}
}

// randomTestedAt spreads submissions through the recent window so growth
// statistics see both recent and older cohorts.
func randomTestedAt() string {
	offset := time.Duration(randomInt(testedAtSpreadDays*secondsPerDay)) * time.Second
	return time.Now().UTC().Add(-offset).Format(time.RFC3339)
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
