package statscache_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/juju/clock/testclock"

	"github.com/hanawi96/testiq-sub006/internal/adapters/statscache"
	"github.com/hanawi96/testiq-sub006/internal/domain/types"
	"github.com/hanawi96/testiq-sub006/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func sampleStats() types.Stats {
	return types.Stats{
		TotalParticipants:   45,
		HighestScore:        152,
		AverageScore:        117,
		MedianScore:         116.5,
		TopPercentileScore:  144,
		GeniusPercentage:    8.9,
		RecentGrowthPercent: 31.1,
		ComputedAt:          time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory stats cache", t, func() {
		clk := testclock.NewClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
		cache := statscache.NewMemory(
			statscache.WithTTL(15*time.Minute),
			statscache.WithClock(clk),
		)

		Convey("When nothing has been stored", func() {
			_, ok := cache.Get(ctx)

			Convey("Then Get should miss", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When stats are stored", func() {
			cache.Put(ctx, sampleStats())

			Convey("Then a fresh Get should hit", func() {
				got, ok := cache.Get(ctx)
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, sampleStats())
			})

			Convey("And a Get within the TTL should still hit", func() {
				clk.Advance(14 * time.Minute)
				_, ok := cache.Get(ctx)
				So(ok, ShouldBeTrue)
			})

			Convey("And a Get at the TTL boundary should miss", func() {
				clk.Advance(15 * time.Minute)
				_, ok := cache.Get(ctx)
				So(ok, ShouldBeFalse)
			})

			Convey("And clearing should discard the value", func() {
				cache.Clear(ctx)
				_, ok := cache.Get(ctx)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When stats are replaced", func() {
			cache.Put(ctx, sampleStats())
			clk.Advance(10 * time.Minute)

			updated := sampleStats()
			updated.TotalParticipants = 60
			cache.Put(ctx, updated)

			Convey("Then the newer value should win", func() {
				got, ok := cache.Get(ctx)
				So(ok, ShouldBeTrue)
				So(got.TotalParticipants, ShouldEqual, 60)
			})

			Convey("And the TTL should restart from the replacement", func() {
				clk.Advance(14 * time.Minute)
				_, ok := cache.Get(ctx)
				So(ok, ShouldBeTrue)
			})
		})
	})
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file-backed stats cache", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "stats.json")
		clk := testclock.NewClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
		cache := statscache.NewFile(path,
			statscache.WithTTL(15*time.Minute),
			statscache.WithClock(clk),
		)

		Convey("When the file does not exist", func() {
			_, ok := cache.Get(ctx)

			Convey("Then Get should miss without error", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When stats are stored", func() {
			cache.Put(ctx, sampleStats())

			Convey("Then the file should exist", func() {
				_, err := os.Stat(path)
				So(err, ShouldBeNil)
			})

			Convey("And a fresh Get should return the stored stats", func() {
				got, ok := cache.Get(ctx)
				So(ok, ShouldBeTrue)
				So(got, ShouldResemble, sampleStats())
			})

			Convey("And a Get past the TTL should miss", func() {
				clk.Advance(16 * time.Minute)
				_, ok := cache.Get(ctx)
				So(ok, ShouldBeFalse)
			})

			Convey("And a second cache over the same file should hit", func() {
				other := statscache.NewFile(path,
					statscache.WithTTL(15*time.Minute),
					statscache.WithClock(clk),
				)
				got, ok := other.Get(ctx)
				So(ok, ShouldBeTrue)
				So(got.TotalParticipants, ShouldEqual, 45)
			})

			Convey("And clearing should remove the file", func() {
				cache.Clear(ctx)
				_, err := os.Stat(path)
				So(os.IsNotExist(err), ShouldBeTrue)

				_, ok := cache.Get(ctx)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the file holds garbage", func() {
			So(os.WriteFile(path, []byte("not json"), 0o600), ShouldBeNil)

			_, ok := cache.Get(ctx)

			Convey("Then Get should treat it as a miss", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When clearing an absent file", func() {
			cache.Clear(ctx)

			Convey("Then nothing should blow up", func() {
				_, ok := cache.Get(ctx)
				So(ok, ShouldBeFalse)
			})
		})
	})
}
