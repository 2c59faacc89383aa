package ranking_test

import (
	"context"
	"testing"
	"time"

	"github.com/hanawi96/testiq-sub006/internal/domain/model"
	"github.com/hanawi96/testiq-sub006/internal/domain/ranking"
	"github.com/hanawi96/testiq-sub006/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func entry(key string, score int, subjectID string) model.DeduplicatedEntry {
	return model.DeduplicatedEntry{
		IdentityKey: key,
		DisplayName: "user-" + key,
		Score:       score,
		Location:    "Hanoi",
		TestedAt:    time.Now(),
		SubjectID:   subjectID,
	}
}

func TestDescendingRanker(t *testing.T) {
	ctx := context.Background()
	r := ranking.NewDescendingRanker()

	Convey("Given the standard leaderboard ranker", t, func() {
		Convey("When ranking an empty entry set", func() {
			ranked := r.Rank(ctx, nil)

			Convey("Then the output should be empty", func() {
				So(ranked, ShouldBeEmpty)
			})
		})

		Convey("When ranking entries with distinct scores", func() {
			entries := []model.DeduplicatedEntry{
				entry("a", 120, "s-a"),
				entry("b", 150, "s-b"),
				entry("c", 135, "s-c"),
			}

			ranked := r.Rank(ctx, entries)

			Convey("Then entries should be sorted by score descending", func() {
				So(ranked[0].Score, ShouldEqual, 150)
				So(ranked[1].Score, ShouldEqual, 135)
				So(ranked[2].Score, ShouldEqual, 120)
			})

			Convey("And ranks should be the contiguous integers 1..N", func() {
				for i, e := range ranked {
					So(e.Rank, ShouldEqual, i+1)
				}
			})

			Convey("And the input slice should be left untouched", func() {
				So(entries[0].IdentityKey, ShouldEqual, "a")
				So(entries[0].Score, ShouldEqual, 120)
			})
		})

		Convey("When ranking entries with equal scores", func() {
			entries := []model.DeduplicatedEntry{
				entry("first", 130, "s-1"),
				entry("second", 130, "s-2"),
				entry("third", 140, "s-3"),
			}

			ranked := r.Rank(ctx, entries)

			Convey("Then ties should receive distinct adjacent ranks", func() {
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[1].Rank, ShouldEqual, 2)
				So(ranked[2].Rank, ShouldEqual, 3)
			})

			Convey("And the stable sort should keep tied input order", func() {
				So(ranked[1].IdentityKey, ShouldEqual, "first")
				So(ranked[2].IdentityKey, ShouldEqual, "second")
			})
		})

		Convey("When ranking a larger set", func() {
			var entries []model.DeduplicatedEntry
			for i := 0; i < 40; i++ {
				entries = append(entries, entry(string(rune('a'+i%26))+string(rune('0'+i/26)), 90+i%17, "s"))
			}

			ranked := r.Rank(ctx, entries)

			Convey("Then ranks should be exactly {1..N} with no repeats", func() {
				seen := make(map[int]bool)
				for _, e := range ranked {
					So(e.Rank, ShouldBeBetweenOrEqual, 1, len(entries))
					So(seen[e.Rank], ShouldBeFalse)
					seen[e.Rank] = true
				}
				So(len(seen), ShouldEqual, len(entries))
			})

			Convey("And scores should never increase down the list", func() {
				for i := 0; i < len(ranked)-1; i++ {
					So(ranked[i].Score, ShouldBeGreaterThanOrEqualTo, ranked[i+1].Score)
				}
			})
		})

		Convey("When ranking entries across the badge thresholds", func() {
			entries := []model.DeduplicatedEntry{
				entry("genius", 142, "s-1"),
				entry("superior", 133, "s-2"),
				entry("above", 117, "s-3"),
				entry("good", 104, "s-4"),
			}

			ranked := r.Rank(ctx, entries)

			Convey("Then each entry should carry its badge", func() {
				So(ranked[0].Badge, ShouldEqual, types.BadgeGenius)
				So(ranked[1].Badge, ShouldEqual, types.BadgeSuperior)
				So(ranked[2].Badge, ShouldEqual, types.BadgeAbove)
				So(ranked[3].Badge, ShouldEqual, types.BadgeGood)
			})
		})

		Convey("When ranking entries without subject ids", func() {
			entries := []model.DeduplicatedEntry{
				entry("registered", 125, "s-1"),
				entry("anon", 119, ""),
			}

			ranked := r.Rank(ctx, entries)

			Convey("Then IsAnonymous should mirror the missing subject id", func() {
				So(ranked[0].IsAnonymous, ShouldBeFalse)
				So(ranked[1].IsAnonymous, ShouldBeTrue)
			})
		})
	})
}
