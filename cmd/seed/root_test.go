package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/extrack/internal/adapters/http/api"
	app "github.com/okian/extrack/internal/app"
	"github.com/okian/extrack/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given a running exercise tracker", t, func() {
		svc := app.New()
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()
		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		convey.Convey("When the seed command runs against it", func() {
			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"--url", srv.URL, "--users", "2", "--exercises", "5", "--workers", "2", "--days", "4"})
			err := cmd.ExecuteContext(context.Background())

			convey.Convey("Then it reports a verified run", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, "Seeded 2 users with 10 exercises, 2 verified")
			})
		})

		convey.Convey("When the start date is malformed", func() {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{"--url", srv.URL, "--start", "01/01/2024"})

			convey.Convey("Then the command fails", func() {
				convey.So(cmd.Execute(), convey.ShouldNotBeNil)
			})
		})
	})
}
