package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/okian/extrack/internal/adapters/repository"
	"github.com/okian/extrack/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func jan(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// runStoreSuite checks the behaviour every Store backend must share.
// newStore is called once per Convey leaf and must return an empty store.
func runStoreSuite(t *testing.T, newStore func() repository.Store) {
	t.Helper()

	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		s := newStore()
		defer func() { _ = s.Close(ctx) }()

		Convey("When users are inserted", func() {
			ada, err := s.InsertUser(ctx, "ada")
			So(err, ShouldBeNil)
			bob, err := s.InsertUser(ctx, "bob")
			So(err, ShouldBeNil)

			Convey("Then each gets a distinct generated id", func() {
				So(ada.ID, ShouldNotBeEmpty)
				So(bob.ID, ShouldNotBeEmpty)
				So(ada.ID, ShouldNotEqual, bob.ID)
				So(ada.Username, ShouldEqual, "ada")
			})

			Convey("And they can be fetched by id", func() {
				got, err := s.GetUser(ctx, ada.ID)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, ada)
			})

			Convey("And listing returns them in insertion order", func() {
				users, err := s.ListUsers(ctx)
				So(err, ShouldBeNil)
				So(users, ShouldResemble, []model.User{ada, bob})
			})

			Convey("And usernames are not required to be unique", func() {
				again, err := s.InsertUser(ctx, "ada")
				So(err, ShouldBeNil)
				So(again.ID, ShouldNotEqual, ada.ID)
			})

			Convey("And the counts reflect them", func() {
				users, exercises, err := s.Counts(ctx)
				So(err, ShouldBeNil)
				So(users, ShouldEqual, 2)
				So(exercises, ShouldEqual, 0)
			})
		})

		Convey("When an unknown user is requested", func() {
			_, errUnknown := s.GetUser(ctx, "000000000000000000000000")
			_, errMalformed := s.GetUser(ctx, "not-an-id")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(errUnknown, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(errMalformed, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When exercises are logged for a user", func() {
			ada, err := s.InsertUser(ctx, "ada")
			So(err, ShouldBeNil)
			bob, err := s.InsertUser(ctx, "bob")
			So(err, ShouldBeNil)

			for _, d := range []int{5, 15, 31, 1, 20} {
				_, err := s.InsertExercise(ctx, model.Exercise{
					UserID:      ada.ID,
					Description: "run",
					Duration:    d,
					Date:        jan(d).Add(7 * time.Hour),
				})
				So(err, ShouldBeNil)
			}
			_, err = s.InsertExercise(ctx, model.Exercise{UserID: bob.ID, Description: "swim", Duration: 40, Date: jan(10)})
			So(err, ShouldBeNil)

			durations := func(es []model.Exercise) []int {
				out := make([]int, len(es))
				for i, e := range es {
					out[i] = e.Duration
				}
				return out
			}

			Convey("Then the full log is returned in insertion order", func() {
				log, err := s.ListExercises(ctx, ada.ID, model.LogFilter{})
				So(err, ShouldBeNil)
				So(durations(log), ShouldResemble, []int{5, 15, 31, 1, 20})
			})

			Convey("And stored dates are truncated to the calendar day", func() {
				log, err := s.ListExercises(ctx, ada.ID, model.LogFilter{Limit: 1})
				So(err, ShouldBeNil)
				So(log, ShouldHaveLength, 1)
				So(log[0].Date.Equal(jan(5)), ShouldBeTrue)
				So(log[0].ID, ShouldNotBeEmpty)
				So(log[0].UserID, ShouldEqual, ada.ID)
			})

			Convey("And a date window is inclusive on both ends", func() {
				from, to := jan(5), jan(20)
				log, err := s.ListExercises(ctx, ada.ID, model.LogFilter{From: &from, To: &to})
				So(err, ShouldBeNil)
				So(durations(log), ShouldResemble, []int{5, 15, 20})
			})

			Convey("And a single bound filters one side", func() {
				from := jan(16)
				log, err := s.ListExercises(ctx, ada.ID, model.LogFilter{From: &from})
				So(err, ShouldBeNil)
				So(durations(log), ShouldResemble, []int{31, 20})
			})

			Convey("And a limit caps the result after filtering", func() {
				to := jan(31)
				log, err := s.ListExercises(ctx, ada.ID, model.LogFilter{To: &to, Limit: 2})
				So(err, ShouldBeNil)
				So(durations(log), ShouldResemble, []int{5, 15})
			})

			Convey("And other users' exercises are not included", func() {
				log, err := s.ListExercises(ctx, bob.ID, model.LogFilter{})
				So(err, ShouldBeNil)
				So(durations(log), ShouldResemble, []int{40})
			})

			Convey("And a negative limit is rejected", func() {
				_, err := s.ListExercises(ctx, ada.ID, model.LogFilter{Limit: -1})
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})

			Convey("And the exercise count includes every user", func() {
				_, exercises, err := s.Counts(ctx)
				So(err, ShouldBeNil)
				So(exercises, ShouldEqual, 6)
			})
		})

		Convey("When a user has no exercises", func() {
			ada, err := s.InsertUser(ctx, "ada")
			So(err, ShouldBeNil)
			log, err := s.ListExercises(ctx, ada.ID, model.LogFilter{})

			Convey("Then an empty, non-nil log is returned", func() {
				So(err, ShouldBeNil)
				So(log, ShouldNotBeNil)
				So(log, ShouldBeEmpty)
			})
		})

		Convey("When the store is pinged", func() {
			Convey("Then it is reachable", func() {
				So(s.Ping(ctx), ShouldBeNil)
			})
		})
	})
}
