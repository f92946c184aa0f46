package repository_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	repository "github.com/okian/extrack/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSQLiteStore(t *testing.T) {
	dir := t.TempDir()
	n := 0
	runStoreSuite(t, func() repository.Store {
		n++
		path := filepath.Join(dir, "suite", fmt.Sprintf("store-%d.db", n))
		s, err := repository.NewSQLiteStore(context.Background(), path)
		if err != nil {
			t.Fatalf("failed to open sqlite store: %v", err)
		}
		return s
	})
}

func TestSQLiteStore_Reopen(t *testing.T) {
	Convey("Given a sqlite file with data", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "reopen.db")
		s, err := repository.NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		u, err := s.InsertUser(ctx, "ada")
		So(err, ShouldBeNil)
		So(s.Close(ctx), ShouldBeNil)

		Convey("When the file is opened again", func() {
			s2, err := repository.NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer func() { _ = s2.Close(ctx) }()

			Convey("Then the user survives", func() {
				got, err := s2.GetUser(ctx, u.ID)
				So(err, ShouldBeNil)
				So(got.Username, ShouldEqual, "ada")
			})
		})
	})
}
