package repository_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/okian/extrack/internal/adapters/repository"
	"github.com/okian/extrack/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInstrument(t *testing.T) {
	runStoreSuite(t, func() repository.Store {
		return repository.Instrument(repository.NewMemoryStore())
	})

	Convey("Given an instrumented memory store", t, func() {
		ctx := context.Background()
		s := repository.Instrument(repository.NewMemoryStore())

		Convey("Then it reports the wrapped driver", func() {
			So(s.Driver(), ShouldEqual, "memory")
		})

		Convey("And errors pass through unchanged", func() {
			_, err := s.GetUser(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			_, err = s.ListExercises(ctx, "missing", model.LogFilter{Limit: -3})
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("And a nil store stays nil", func() {
			So(repository.Instrument(nil), ShouldBeNil)
		})
	})
}
