package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/extrack/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWireNames(t *testing.T) {
	Convey("Given the response views", t, func() {
		Convey("When a user view is encoded", func() {
			b, err := json.Marshal(types.UserView{Username: "ada", ID: "u1"})

			Convey("Then the id is exposed as _id", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"username":"ada","_id":"u1"}`)
			})
		})

		Convey("When a log view is encoded", func() {
			b, err := json.Marshal(types.LogView{
				Username: "ada",
				Count:    1,
				ID:       "u1",
				Log:      []types.LogEntry{{Description: "run", Duration: 30, Date: "Mon Jan 01 2024"}},
			})

			Convey("Then fields appear in response order", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual,
					`{"username":"ada","count":1,"_id":"u1","log":[{"description":"run","duration":30,"date":"Mon Jan 01 2024"}]}`)
			})
		})
	})
}
