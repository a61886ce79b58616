package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	service "github.com/okian/posterboard/internal/app"
	"github.com/okian/posterboard/internal/domain/model"
	"github.com/okian/posterboard/internal/domain/samples"
	"github.com/okian/posterboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const twoDays = "1 Perşembe\t13.00-15.00 Yoga\n1 Perşembe\t15.00-16.00 Resim\n2 Cuma\t10.00-11.00 Dans"

func waitDone(svc *service.Service, id string) model.Job {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		j, err := svc.Job(context.Background(), id)
		if err == nil && j.Status == model.JobDone {
			return j
		}
		time.Sleep(5 * time.Millisecond)
	}
	j, _ := svc.Job(context.Background(), id)
	return j
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports sensible defaults", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["maxInputBytes"], ShouldEqual, 64<<10)
			So(stats["queueSize"], ShouldEqual, 1024)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(3),
			service.WithQueueSize(10),
			service.WithJobRetention(5),
			service.WithMaxInputBytes(100),
			service.WithLogger(logger.Nop()),
		)

		Convey("Then the options are applied", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 3)
			So(stats["queueSize"], ShouldEqual, 10)
			So(stats["jobRetention"], ShouldEqual, 5)
			So(stats["maxInputBytes"], ShouldEqual, 100)
		})
	})
}

func TestService_Layout(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New(service.WithMaxInputBytes(256))
		ctx := context.Background()

		Convey("When laying out a two-day schedule", func() {
			l, err := svc.Layout(ctx, twoDays)

			Convey("Then days, columns and file name are computed", func() {
				So(err, ShouldBeNil)
				So(l.Schedule.Order, ShouldResemble, []model.DayKey{"1 Perşembe", "2 Cuma"})
				So(l.Schedule.Days["1 Perşembe"], ShouldHaveLength, 2)
				So(l.Columns.Left, ShouldResemble, []model.DayKey{"1 Perşembe"})
				So(l.Columns.Right, ShouldResemble, []model.DayKey{"2 Cuma"})
				So(l.FileName, ShouldEqual, "workshop-days-1-to-2.png")
				So(l.Stats.Combined, ShouldEqual, 3)
			})
		})

		Convey("When laying out empty text", func() {
			l, err := svc.Layout(ctx, "  \n\n")

			Convey("Then the layout is empty but valid", func() {
				So(err, ShouldBeNil)
				So(l.Schedule.Len(), ShouldEqual, 0)
				So(l.Columns.Left, ShouldBeEmpty)
				So(l.Columns.Right, ShouldBeEmpty)
				So(l.FileName, ShouldEqual, "workshop-schedule.png")
			})
		})

		Convey("When the text contains garbage lines", func() {
			l, err := svc.Layout(ctx, "hello\n10.00 orphan\n1 Mon\n10.00 Yoga")

			Convey("Then they are counted and ignored", func() {
				So(err, ShouldBeNil)
				So(l.Schedule.TotalEvents(), ShouldEqual, 1)
				So(l.Stats.Dropped, ShouldEqual, 1)
				So(l.Stats.Orphaned, ShouldEqual, 1)
			})
		})

		Convey("When the text exceeds the byte limit", func() {
			_, err := svc.Layout(ctx, strings.Repeat("x", 257))

			Convey("Then ErrInputTooLarge is returned", func() {
				So(errors.Is(err, service.ErrInputTooLarge), ShouldBeTrue)
			})
		})

		Convey("When submitting a job", func() {
			_, err := svc.Submit(ctx, twoDays)

			Convey("Then ErrNotStarted is returned", func() {
				So(err, ShouldEqual, service.ErrNotStarted)
			})
		})

		Convey("When looking up a job", func() {
			_, err := svc.Job(ctx, "nope")

			Convey("Then ErrJobNotFound is returned", func() {
				So(err, ShouldEqual, service.ErrJobNotFound)
			})
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		defer svc.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it is marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
				So(stats["storedJobs"], ShouldEqual, 0)
			})

			Convey("And when stopping it twice", func() {
				svc.Stop()
				svc.Stop()

				Convey("Then it is marked as stopped", func() {
					So(svc.GetStats()["started"], ShouldEqual, false)
				})
			})
		})
	})
}

func TestService_Jobs(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(16), service.WithMaxInputBytes(4096))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a job is submitted", func() {
			id, err := svc.Submit(ctx, twoDays)
			So(err, ShouldBeNil)

			Convey("Then it gets a uuid and eventually completes", func() {
				_, perr := uuid.Parse(id)
				So(perr, ShouldBeNil)

				j := waitDone(svc, id)
				So(j.Status, ShouldEqual, model.JobDone)
				So(j.Layout, ShouldNotBeNil)
				So(j.Layout.FileName, ShouldEqual, "workshop-days-1-to-2.png")
				So(j.CompletedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When the three-day sample is submitted", func() {
			text, err := svc.Sample("three-days")
			So(err, ShouldBeNil)
			id, err := svc.Submit(ctx, text)
			So(err, ShouldBeNil)

			Convey("Then the async layout equals the sync one", func() {
				want, err := svc.Layout(ctx, text)
				So(err, ShouldBeNil)
				j := waitDone(svc, id)
				So(j.Layout, ShouldNotBeNil)
				So(*j.Layout, ShouldResemble, want)
			})
		})

		Convey("When the input is too large", func() {
			_, err := svc.Submit(ctx, strings.Repeat("1 Mon\n", 1000))

			Convey("Then it is rejected before queueing", func() {
				So(errors.Is(err, service.ErrInputTooLarge), ShouldBeTrue)
				So(svc.GetStats()["storedJobs"], ShouldEqual, 0)
			})
		})

		Convey("When looking up an unknown job", func() {
			_, err := svc.Job(ctx, uuid.NewString())

			Convey("Then ErrJobNotFound is returned", func() {
				So(err, ShouldEqual, service.ErrJobNotFound)
			})
		})

		Convey("When listing samples", func() {
			Convey("Then the canned inputs are available", func() {
				So(svc.SampleNames(), ShouldResemble, samples.Names())
				_, err := svc.Sample("missing")
				So(errors.Is(err, samples.ErrUnknownSample), ShouldBeTrue)
			})
		})
	})
}
