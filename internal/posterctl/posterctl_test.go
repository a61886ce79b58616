package posterctl_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/posterboard/internal/adapters/http/api"
	service "github.com/okian/posterboard/internal/app"
	"github.com/okian/posterboard/internal/domain/model"
	"github.com/okian/posterboard/internal/posterctl"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func init() {
	var sink bytes.Buffer
	if err := posterctl.SetupLogging(&sink, false); err != nil {
		panic(err)
	}
}

func run(cfg *posterctl.Config, stdin string) (string, error) {
	var out bytes.Buffer
	err := posterctl.Run(context.Background(), cfg, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestConfigValidate(t *testing.T) {
	Convey("Given posterctl options", t, func() {
		Convey("Then known formats are accepted in any case", func() {
			for _, f := range []string{"json", "YAML", "text"} {
				So((&posterctl.Config{Format: f}).Validate(), ShouldBeNil)
			}
		})

		Convey("Then unknown formats are refused", func() {
			err := (&posterctl.Config{Format: "png"}).Validate()
			So(errors.Is(err, posterctl.ErrInvalidFormat), ShouldBeTrue)
		})

		Convey("Then a sample and a file cannot both be given", func() {
			err := (&posterctl.Config{Format: "text", Sample: "two-days", Input: "x.txt"}).Validate()
			So(err, ShouldEqual, posterctl.ErrConflictingInput)
		})
	})
}

func TestRunLocal(t *testing.T) {
	Convey("Given a local run", t, func() {
		Convey("When the three-day sample is printed as text", func() {
			out, err := run(&posterctl.Config{Sample: "three-days", Format: "text"}, "")

			Convey("Then both columns are listed with their workshops", func() {
				So(err, ShouldBeNil)
				So(out, ShouldStartWith, "workshop-days-1-to-3.png\n")
				So(out, ShouldContainSubstring, "[left]\n  1 Perşembe (5)\n")
				So(out, ShouldContainSubstring, "[right]\n  2 Cuma (3)\n")
				So(out, ShouldContainSubstring, "  3 Cumartesi (2)\n")
				So(out, ShouldContainSubstring, "Seramik Atölyesi")
				So(out, ShouldNotContainSubstring, "ignored")
			})
		})

		Convey("When stdin is laid out as json", func() {
			out, err := run(&posterctl.Config{Format: "json"}, "1 Mon\n10.00 Yoga\nnoise\n")

			Convey("Then the layout decodes", func() {
				So(err, ShouldBeNil)
				var l model.Layout
				So(json.Unmarshal([]byte(out), &l), ShouldBeNil)
				So(l.Schedule.Order, ShouldResemble, []model.DayKey{"1 Mon"})
				So(l.Columns.Left, ShouldResemble, []model.DayKey{"1 Mon"})
				So(l.FileName, ShouldEqual, "workshop-day-1.png")
				So(l.Stats.Dropped, ShouldEqual, 1)
			})
		})

		Convey("When a file is laid out as yaml", func() {
			path := filepath.Join(t.TempDir(), "schedule.txt")
			So(os.WriteFile(path, []byte("1 Mon\t10.00 Yoga\n2 Tue\t11.00 Dans\n"), 0o600), ShouldBeNil)
			out, err := run(&posterctl.Config{Input: path, Format: "yaml"}, "")

			Convey("Then the yaml carries the columns", func() {
				So(err, ShouldBeNil)
				var l model.Layout
				So(yaml.Unmarshal([]byte(out), &l), ShouldBeNil)
				So(l.Columns.Left, ShouldResemble, []model.DayKey{"1 Mon"})
				So(l.Columns.Right, ShouldResemble, []model.DayKey{"2 Tue"})
				So(l.Schedule.Days["2 Tue"][0].Title, ShouldEqual, "Dans")
				So(out, ShouldContainSubstring, "file_name: workshop-days-1-to-2.png")
			})
		})

		Convey("When the input has nothing recognisable", func() {
			out, err := run(&posterctl.Config{Format: "text"}, "hello\n09.00 early\n")

			Convey("Then an empty poster is reported", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "workshop-schedule.png\n(no days)\n")
				So(out, ShouldContainSubstring, "ignored: 1 unrecognised, 1 without a day")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := run(&posterctl.Config{Input: filepath.Join(t.TempDir(), "missing.txt"), Format: "text"}, "")

			Convey("Then the read error is returned", func() {
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})
	})
}

func TestRunRemote(t *testing.T) {
	Convey("Given a running layout service", t, func() {
		svc := service.New(service.WithMaxInputBytes(512))
		mux := http.NewServeMux()
		api.NewServer(svc, svc, 512).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When a sample is laid out remotely", func() {
			out, err := run(&posterctl.Config{Sample: "two-days", BaseURL: srv.URL + "/", Format: "json", Timeout: time.Second}, "")

			Convey("Then the remote layout matches the local one", func() {
				So(err, ShouldBeNil)
				local, lerr := run(&posterctl.Config{Sample: "two-days", Format: "json"}, "")
				So(lerr, ShouldBeNil)
				So(out, ShouldEqual, local)
			})
		})

		Convey("When the input is over the service limit", func() {
			_, err := run(&posterctl.Config{BaseURL: srv.URL, Format: "json", Timeout: time.Second}, strings.Repeat("1 Mon\n", 200))

			Convey("Then the service error is reported", func() {
				So(errors.Is(err, posterctl.ErrRemote), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "413 input_too_large")
			})
		})
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Given the help text", t, func() {
		var buf bytes.Buffer
		posterctl.ShowHelp(&buf)

		Convey("Then every flag is documented", func() {
			for _, flag := range []string{"-in", "-sample", "-url", "-format", "-timeout", "-verbose", "-help"} {
				So(buf.String(), ShouldContainSubstring, flag)
			}
		})
	})
}
