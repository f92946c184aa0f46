package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	repository "github.com/okian/extrack/internal/adapters/repository"
	service "github.com/okian/extrack/internal/app"
	"github.com/okian/extrack/internal/domain/model"
	"github.com/okian/extrack/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func startedService(opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{service.WithClock(fixedClock)}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("When it is used before Start", func() {
			_, err := svc.CreateUser(context.Background(), "ada")

			Convey("Then ErrNotStarted is returned", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(errors.Is(svc.Ping(context.Background()), service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())
			defer svc.Stop()

			Convey("Then it should start on the memory driver", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["driver"], ShouldEqual, "memory")
				So(svc.Ping(context.Background()), ShouldBeNil)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			svc.Stop()

			Convey("Then it is marked stopped and stopping again is harmless", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})

	Convey("Given a service with an unknown driver", t, func() {
		svc := service.New(service.WithDriver("cassandra"))

		Convey("Then Start fails with ErrUnknownDriver", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, service.ErrUnknownDriver), ShouldBeTrue)
		})
	})

	Convey("Given a service on the sqlite driver", t, func() {
		path := filepath.Join(t.TempDir(), "svc.db")
		svc := startedService(service.WithDriver("sqlite"), service.WithSQLitePath(path))
		defer svc.Stop()

		Convey("Then users persist through it", func() {
			u, err := svc.CreateUser(context.Background(), "ada")
			So(err, ShouldBeNil)
			users, err := svc.ListUsers(context.Background())
			So(err, ShouldBeNil)
			So(users, ShouldContain, u)
			So(svc.GetStats()["driver"], ShouldEqual, "sqlite")
		})
	})
}

func TestService_Users(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService()
		defer svc.Stop()

		Convey("When a user is created", func() {
			u, err := svc.CreateUser(ctx, "ada")

			Convey("Then the username is echoed with a generated id", func() {
				So(err, ShouldBeNil)
				So(u.Username, ShouldEqual, "ada")
				So(u.ID, ShouldNotBeEmpty)
			})

			Convey("And listing users includes it", func() {
				users, err := svc.ListUsers(ctx)
				So(err, ShouldBeNil)
				So(users, ShouldHaveLength, 1)
				So(users[0], ShouldResemble, u)
			})

			Convey("And the stats count it", func() {
				So(svc.GetStats()["users"], ShouldEqual, int64(1))
			})
		})
	})
}

func TestService_AddExercise(t *testing.T) {
	Convey("Given a started service with one user", t, func() {
		ctx := context.Background()
		svc := startedService()
		defer svc.Stop()
		u, err := svc.CreateUser(ctx, "ada")
		So(err, ShouldBeNil)

		Convey("When an exercise is added without a date", func() {
			ex, err := svc.AddExercise(ctx, u.ID, model.ExerciseInput{Description: "run", Duration: 30})

			Convey("Then the date defaults to today", func() {
				So(err, ShouldBeNil)
				So(ex.Date, ShouldEqual, "Sat Jun 15 2024")
			})

			Convey("And the response carries the user's id and name", func() {
				So(ex.ID, ShouldEqual, u.ID)
				So(ex.Username, ShouldEqual, "ada")
				So(ex.Description, ShouldEqual, "run")
				So(ex.Duration, ShouldEqual, 30)
			})
		})

		Convey("When an exercise is added with a date", func() {
			ex, err := svc.AddExercise(ctx, u.ID, model.ExerciseInput{
				Description: "swim",
				Duration:    45,
				Date:        day(2024, 1, 1),
			})

			Convey("Then the date is rendered in display form", func() {
				So(err, ShouldBeNil)
				So(ex.Date, ShouldEqual, "Mon Jan 01 2024")
			})
		})

		Convey("When the user does not exist", func() {
			_, err := svc.AddExercise(ctx, "missing", model.ExerciseInput{Description: "run", Duration: 30})

			Convey("Then ErrNotFound is returned and nothing is stored", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(svc.GetStats()["exercises"], ShouldEqual, int64(0))
			})
		})
	})
}

func TestService_Log(t *testing.T) {
	Convey("Given a user with exercises across January and February", t, func() {
		ctx := context.Background()
		svc := startedService()
		defer svc.Stop()
		u, err := svc.CreateUser(ctx, "ada")
		So(err, ShouldBeNil)

		for _, d := range []*time.Time{day(2023, 12, 31), day(2024, 1, 1), day(2024, 1, 15), day(2024, 1, 31), day(2024, 2, 1)} {
			_, err := svc.AddExercise(ctx, u.ID, model.ExerciseInput{Description: "run", Duration: 30, Date: d})
			So(err, ShouldBeNil)
		}

		Convey("When the whole log is requested", func() {
			log, err := svc.Log(ctx, u.ID, model.LogFilter{})

			Convey("Then every exercise is returned and count matches", func() {
				So(err, ShouldBeNil)
				So(log.Count, ShouldEqual, 5)
				So(log.Log, ShouldHaveLength, log.Count)
				So(log.ID, ShouldEqual, u.ID)
				So(log.Username, ShouldEqual, "ada")
			})
		})

		Convey("When January is requested", func() {
			log, err := svc.Log(ctx, u.ID, model.LogFilter{From: day(2024, 1, 1), To: day(2024, 1, 31)})

			Convey("Then only January entries are returned, bounds included", func() {
				So(err, ShouldBeNil)
				So(log.Count, ShouldEqual, 3)
				So(log.Log[0].Date, ShouldEqual, "Mon Jan 01 2024")
				So(log.Log[2].Date, ShouldEqual, "Wed Jan 31 2024")
			})
		})

		Convey("When January is requested with limit 2", func() {
			log, err := svc.Log(ctx, u.ID, model.LogFilter{From: day(2024, 1, 1), To: day(2024, 1, 31), Limit: 2})

			Convey("Then count reflects the capped log", func() {
				So(err, ShouldBeNil)
				So(log.Count, ShouldEqual, 2)
				So(log.Log, ShouldHaveLength, 2)
			})
		})

		Convey("When the user does not exist", func() {
			_, err := svc.Log(ctx, "missing", model.LogFilter{})

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

type failingStore struct {
	repository.Store
	err error
}

func (f failingStore) InsertUser(context.Context, string) (model.User, error) {
	return model.User{}, f.err
}

func TestService_StoreFailure(t *testing.T) {
	Convey("Given a service whose store fails writes", t, func() {
		boom := errors.New("disk full")
		svc := startedService(service.WithStore(failingStore{Store: repository.NewMemoryStore(), err: boom}))
		defer svc.Stop()

		Convey("When a user is created", func() {
			_, err := svc.CreateUser(context.Background(), "ada")

			Convey("Then the store error is wrapped with the operation", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "service.create_user")
			})
		})
	})
}
