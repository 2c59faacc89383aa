package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hanawi96/testiq-sub006/internal/app"
	"github.com/hanawi96/testiq-sub006/internal/config"
	"github.com/hanawi96/testiq-sub006/internal/leaderboard"
	"github.com/hanawi96/testiq-sub006/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// testConfig returns defaults adjusted for tests: ephemeral ports, a small
// ingest pipeline, and no startup preload. The queue capacity stays above
// any burst a test submits so enqueues never hit backpressure.
func testConfig() *config.Config {
	cfg := config.New()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.HealthAddr = "127.0.0.1:0"
	cfg.Ingest.Workers = 2
	cfg.Ingest.QueueCapacity = 256
	cfg.Cache.Preload = false
	return cfg
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with a nil config", t, func() {
		svc := app.New(nil)

		Convey("Then it should fall back to defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := app.New(testConfig(),
			app.WithLogger(logger.Get().Named("test")),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := app.New(testConfig())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stopping should succeed", func() {
				So(svc.Stop(ctx), ShouldBeNil)

				Convey("And stopping again should be a no-op", func() {
					So(svc.Stop(ctx), ShouldBeNil)
				})
			})
		})
	})
}

func TestService_ReadsOnEmptyStore(t *testing.T) {
	Convey("Given a started service with an empty store", t, func() {
		svc := app.New(testConfig())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When reading the first page", func() {
			page, err := svc.Page(ctx, 1, 20)

			Convey("Then it should be empty without error", func() {
				So(err, ShouldBeNil)
				So(page.Entries, ShouldBeEmpty)
				So(page.Stats.TotalParticipants, ShouldEqual, 0)
			})
		})

		Convey("When looking up a rank", func() {
			_, err := svc.Window(ctx, "nobody")

			Convey("Then it should report the identity as unknown", func() {
				So(errors.Is(err, leaderboard.ErrIdentityNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_EnqueueLifecycle(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := app.New(testConfig())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When enqueueing a record", func() {
			err := svc.Enqueue(ctx, sampleRecord("ada@example.com", "subj-ada", 142))

			Convey("Then it should be accepted", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When the service is stopped", func() {
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then further submissions should be rejected", func() {
				err := svc.Enqueue(ctx, sampleRecord("late@example.com", "subj-late", 120))
				So(err, ShouldNotBeNil)
			})
		})
	})
}
