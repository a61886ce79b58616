package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	app "github.com/okian/posterboard/internal/app"
	"github.com/okian/posterboard/internal/config"
	"github.com/okian/posterboard/internal/domain/model"
	"github.com/okian/posterboard/internal/domain/samples"
	"github.com/okian/posterboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	convey.Convey("Given POSTER_ environment variables", t, func() {
		_ = os.Setenv("POSTER_ADDR", ":8080")
		_ = os.Setenv("POSTER_QUEUE_SIZE", "100")
		_ = os.Setenv("POSTER_WORKER_COUNT", "4")
		defer func() {
			_ = os.Unsetenv("POSTER_ADDR")
			_ = os.Unsetenv("POSTER_QUEUE_SIZE")
			_ = os.Unsetenv("POSTER_WORKER_COUNT")
		}()

		convey.Convey("Then configuration picks them up", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 100)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
		})
	})

	convey.Convey("Given an empty address", t, func() {
		_ = os.Setenv("POSTER_ADDR", " ")
		defer func() { _ = os.Unsetenv("POSTER_ADDR") }()

		convey.Convey("Then configuration loading fails", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestMux(t *testing.T) {
	convey.Convey("Given the application mux over a started service", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.WorkerCount = 2
		svc := app.New(
			app.WithLogger(logger.Nop()),
			app.WithWorkerCount(cfg.WorkerCount),
			app.WithMaxInputBytes(cfg.MaxInputBytes),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		mux := newMux(ctx, cfg, svc)

		convey.Convey("When the three-day sample is laid out", func() {
			text, err := samples.Get("three-days")
			convey.So(err, convey.ShouldBeNil)
			b, _ := json.Marshal(map[string]string{"text": text})
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("POST", "/layout", strings.NewReader(string(b))))

			convey.Convey("Then the balanced columns come back", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var l model.Layout
				convey.So(json.Unmarshal(w.Body.Bytes(), &l), convey.ShouldBeNil)
				convey.So(l.Columns.Left, convey.ShouldResemble, []model.DayKey{"1 Perşembe"})
				convey.So(l.Columns.Right, convey.ShouldResemble, []model.DayKey{"2 Cuma", "3 Cumartesi"})
				convey.So(l.FileName, convey.ShouldEqual, "workshop-days-1-to-3.png")
			})
		})

		convey.Convey("When a job is submitted and polled", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("POST", "/jobs", strings.NewReader(`{"text":"1 Mon\n10.00 Yoga"}`)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusAccepted)
			var sub struct {
				ID string `json:"id"`
			}
			convey.So(json.Unmarshal(w.Body.Bytes(), &sub), convey.ShouldBeNil)

			var job model.Job
			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				w = httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest("GET", "/jobs/"+sub.ID, http.NoBody))
				_ = json.Unmarshal(w.Body.Bytes(), &job)
				if job.Status == model.JobDone {
					break
				}
				time.Sleep(5 * time.Millisecond)
			}

			convey.Convey("Then the job finishes with its layout", func() {
				convey.So(job.Status, convey.ShouldEqual, model.JobDone)
				convey.So(job.Layout, convey.ShouldNotBeNil)
				convey.So(job.Layout.FileName, convey.ShouldEqual, "workshop-day-1.png")
			})
		})

		convey.Convey("When the docs are requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/openapi.yaml", http.NoBody))

			convey.Convey("Then the OpenAPI document is served", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "/layout")
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metrics updaters", t, func() {
		svc := app.New(app.WithLogger(logger.Nop()))

		convey.Convey("Then single updates do not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loops return when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
			}, convey.ShouldNotPanic)
		})
	})
}
