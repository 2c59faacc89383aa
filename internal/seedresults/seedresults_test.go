package seedresults

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hanawi96/testiq-sub006/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerateResults(t *testing.T) {
	Convey("Given a seeding configuration", t, func() {
		config := &Config{
			NumResults:       200,
			Identities:       40,
			AnonymousPercent: 10,
		}
		stats := &Stats{}

		Convey("When generating results", func() {
			submissions, expected, err := generateResults(context.Background(), config, stats)

			Convey("Then the cohort should match the configuration", func() {
				So(err, ShouldBeNil)
				So(len(submissions), ShouldEqual, 200)
				So(stats.ResultsGenerated, ShouldEqual, 200)
				So(expected.NamedIdentities, ShouldEqual, 40)
				So(len(expected.SubjectIDs), ShouldEqual, 40)

				anonymous := 0
				for _, submission := range submissions {
					if submission.IdentityKey == "" {
						anonymous++
						So(submission.SubjectID, ShouldBeBlank)
					} else {
						So(submission.SubjectID, ShouldNotBeBlank)
					}
					So(submission.Score, ShouldBeBetweenOrEqual, 55, 160)
					So(submission.DisplayName, ShouldNotBeBlank)
					So(submission.TestedAt, ShouldNotBeBlank)
				}
				So(anonymous, ShouldEqual, 20)
			})

			Convey("And best scores should track the maximum per subject", func() {
				So(err, ShouldBeNil)

				best := make(map[string]int)
				for _, submission := range submissions {
					if submission.SubjectID == "" {
						continue
					}
					if submission.Score > best[submission.SubjectID] {
						best[submission.SubjectID] = submission.Score
					}
				}
				So(best, ShouldResemble, expected.BestScores)
			})
		})
	})
}

func TestVerification(t *testing.T) {
	Convey("Given a retrieved leaderboard page", t, func() {
		expected := &Expectations{
			BestScores: map[string]int{
				"subj-a": 145,
				"subj-b": 131,
				"subj-c": 118,
				"subj-d": 96,
			},
			NamedIdentities: 4,
			SubjectIDs:      []string{"subj-a", "subj-b", "subj-c", "subj-d"},
		}
		page := PageResponse{
			Entries: []Entry{
				{Rank: 1, DisplayName: "A", Score: 145, Badge: "genius", SubjectID: "subj-a"},
				{Rank: 2, DisplayName: "B", Score: 131, Badge: "superior", SubjectID: "subj-b"},
				{Rank: 3, DisplayName: "C", Score: 118, Badge: "above", SubjectID: "subj-c"},
				{Rank: 4, DisplayName: "D", Score: 96, Badge: "good", SubjectID: "subj-d"},
			},
			Stats:       StatsResponse{TotalParticipants: 4, HighestScore: 145},
			TotalPages:  1,
			CurrentPage: 1,
			PageSize:    50,
		}

		Convey("When the page is consistent, every check should pass", func() {
			So(verifyPageOrdering(page), ShouldBeNil)
			So(verifyBestScores(expected, page, true), ShouldBeNil)
			So(verifyBadges(page), ShouldBeNil)
			So(verifyAggregates(expected, page, page.Stats, true), ShouldBeNil)
		})

		Convey("When ranks are not contiguous", func() {
			page.Entries[2].Rank = 5
			So(verifyPageOrdering(page), ShouldNotBeNil)
		})

		Convey("When a subject appears twice", func() {
			page.Entries[3].SubjectID = "subj-a"
			So(verifyPageOrdering(page), ShouldNotBeNil)
		})

		Convey("When the page arithmetic disagrees with the totals", func() {
			page.TotalPages = 3
			So(verifyPageOrdering(page), ShouldNotBeNil)
		})

		Convey("When a score exceeds its best submission", func() {
			page.Entries[1].Score = 139
			So(verifyBestScores(expected, page, true), ShouldNotBeNil)
		})

		Convey("When a badge disagrees with its score", func() {
			page.Entries[0].Badge = "superior"
			So(verifyBadges(page), ShouldNotBeNil)
		})

		Convey("When participants disagree with the named cohort", func() {
			aggregates := StatsResponse{TotalParticipants: 7, HighestScore: 145}
			So(verifyAggregates(expected, page, aggregates, true), ShouldNotBeNil)
		})
	})

	Convey("Given retrieved rank windows", t, func() {
		aggregates := StatsResponse{TotalParticipants: 4}
		window := WindowResponse{
			SelfRank:  2,
			SelfEntry: Entry{Rank: 2, Score: 131, SubjectID: "subj-b"},
			Window: []Entry{
				{Rank: 1, Score: 145, SubjectID: "subj-a"},
				{Rank: 2, Score: 131, SubjectID: "subj-b"},
				{Rank: 3, Score: 118, SubjectID: "subj-c"},
			},
			TotalParticipants: 4,
		}

		Convey("Then a consistent window should verify", func() {
			So(verifyWindows([]WindowResponse{window}, aggregates), ShouldBeNil)
		})

		Convey("Then a window missing its subject should fail", func() {
			window.SelfEntry.SubjectID = "subj-x"
			So(verifyWindows([]WindowResponse{window}, aggregates), ShouldNotBeNil)
		})

		Convey("Then a gap in the neighborhood should fail", func() {
			window.Window[2].Rank = 4
			So(verifyWindows([]WindowResponse{window}, aggregates), ShouldNotBeNil)
		})
	})
}
