package dedupe_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hanawi96/testiq-sub006/internal/domain/dedupe"
	"github.com/hanawi96/testiq-sub006/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func record(id, key string, score int, testedAt time.Time) model.TestResultRecord {
	return model.TestResultRecord{
		ID:          id,
		IdentityKey: key,
		DisplayName: "user-" + id,
		Score:       score,
		Location:    "Hanoi",
		TestedAt:    testedAt,
	}
}

func TestMaxScoreDeduper(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	Convey("Given a new max-score deduper", t, func() {
		d := dedupe.NewMaxScoreDeduper()

		Convey("When collapsing an empty input", func() {
			out := d.Collapse(ctx, nil)

			Convey("Then the output should be empty", func() {
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When collapsing records with distinct identity keys", func() {
			records := []model.TestResultRecord{
				record("1", "a@example.com", 120, now),
				record("2", "b@example.com", 135, now),
				record("3", "c@example.com", 98, now),
			}

			out := d.Collapse(ctx, records)

			Convey("Then every identity should survive", func() {
				So(len(out), ShouldEqual, 3)
			})

			Convey("And first-encounter order should be preserved", func() {
				So(out[0].IdentityKey, ShouldEqual, "a@example.com")
				So(out[1].IdentityKey, ShouldEqual, "b@example.com")
				So(out[2].IdentityKey, ShouldEqual, "c@example.com")
			})
		})

		Convey("When one identity has several attempts", func() {
			records := []model.TestResultRecord{
				record("1", "a@example.com", 110, now.Add(-3*time.Hour)),
				record("2", "a@example.com", 131, now.Add(-2*time.Hour)),
				record("3", "a@example.com", 125, now.Add(-time.Hour)),
			}

			out := d.Collapse(ctx, records)

			Convey("Then only the highest-scoring attempt should remain", func() {
				So(len(out), ShouldEqual, 1)
				So(out[0].Score, ShouldEqual, 131)
				So(out[0].DisplayName, ShouldEqual, "user-2")
			})
		})

		Convey("When two attempts for one identity tie on score", func() {
			records := []model.TestResultRecord{
				record("first", "a@example.com", 127, now.Add(-2*time.Hour)),
				record("second", "a@example.com", 127, now.Add(-time.Hour)),
			}

			out := d.Collapse(ctx, records)

			Convey("Then the first-encountered attempt should win", func() {
				So(len(out), ShouldEqual, 1)
				So(out[0].DisplayName, ShouldEqual, "user-first")
			})
		})

		Convey("When a later attempt matches the best score exactly", func() {
			records := []model.TestResultRecord{
				record("best", "a@example.com", 140, now),
				record("equal", "a@example.com", 140, now),
				record("lower", "a@example.com", 139, now),
			}

			out := d.Collapse(ctx, records)

			Convey("Then strict greater-than keeps the original record", func() {
				So(out[0].DisplayName, ShouldEqual, "user-best")
			})
		})

		Convey("When records lack an identity key", func() {
			records := []model.TestResultRecord{
				record("1", "a@example.com", 120, now),
				record("2", "", 150, now),
				record("3", "", 145, now),
			}

			out := d.Collapse(ctx, records)

			Convey("Then anonymous records should be dropped", func() {
				So(len(out), ShouldEqual, 1)
				So(out[0].IdentityKey, ShouldEqual, "a@example.com")
			})
		})

		Convey("When collapsing a larger mixed input", func() {
			var records []model.TestResultRecord
			for i := 0; i < 50; i++ {
				key := fmt.Sprintf("user-%d@example.com", i%10)
				records = append(records, record(fmt.Sprintf("%d", i), key, 100+i, now))
			}

			out := d.Collapse(ctx, records)

			Convey("Then there should be one entry per distinct key", func() {
				So(len(out), ShouldEqual, 10)
			})

			Convey("And each entry should hold the maximum score for its key", func() {
				best := make(map[string]int)
				for _, r := range records {
					if r.Score > best[r.IdentityKey] {
						best[r.IdentityKey] = r.Score
					}
				}
				for _, e := range out {
					So(e.Score, ShouldEqual, best[e.IdentityKey])
				}
			})
		})
	})
}

func TestAnonymousRetention(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	Convey("Given a deduper with anonymous retention enabled", t, func() {
		d := dedupe.NewMaxScoreDeduper(dedupe.WithAnonymousRetention(true))

		Convey("When collapsing records without identity keys", func() {
			records := []model.TestResultRecord{
				record("1", "", 150, now),
				record("2", "", 145, now),
				record("3", "a@example.com", 120, now),
			}

			out := d.Collapse(ctx, records)

			Convey("Then anonymous records should each survive on their own key", func() {
				So(len(out), ShouldEqual, 3)
			})

			Convey("And synthetic keys should never collide with emails", func() {
				for _, e := range out[:2] {
					So(e.IdentityKey, ShouldStartWith, "anon:")
				}
				So(out[2].IdentityKey, ShouldEqual, "a@example.com")
			})
		})

		Convey("When an anonymous record has no store id", func() {
			records := []model.TestResultRecord{
				{DisplayName: "Guest", Score: 101, TestedAt: now},
				{DisplayName: "Guest", Score: 99, TestedAt: now},
			}

			out := d.Collapse(ctx, records)

			Convey("Then each row should still get a distinct key", func() {
				So(len(out), ShouldEqual, 2)
				So(out[0].IdentityKey, ShouldNotEqual, out[1].IdentityKey)
			})
		})

		Convey("When retention is explicitly disabled", func() {
			off := dedupe.NewMaxScoreDeduper(dedupe.WithAnonymousRetention(false))
			records := []model.TestResultRecord{
				record("1", "", 150, now),
			}

			out := off.Collapse(ctx, records)

			Convey("Then anonymous records should be dropped as by default", func() {
				So(out, ShouldBeEmpty)
			})
		})
	})
}
