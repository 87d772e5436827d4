package stream_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	stream "github.com/okian/gambit/internal/domain/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordDecoder(t *testing.T) {
	Convey("Given an NDJSON game feed", t, func() {
		Convey("When decoding a well-formed line", func() {
			g, err := stream.DecodeRecord(`{"id":"abc123","status":"mate","moves":"e4 e5 Nf3","players":{"white":{"username":"alice","teamId":"rooks","analysis":{"inaccuracy":1,"mistake":2,"blunder":0,"accuracy":93.5}},"black":{"username":"bob"}}}`)

			Convey("Then the record round-trips into the model", func() {
				So(err, ShouldBeNil)
				So(g.ID, ShouldEqual, "abc123")
				So(g.MoveCount(), ShouldEqual, 3)
				So(g.Players.White.Username, ShouldEqual, "alice")
				So(g.Players.White.Analysis, ShouldNotBeNil)
				So(int(g.Players.White.Analysis.Mistake), ShouldEqual, 2)
				So(g.Players.White.Analysis.Accuracy, ShouldNotBeNil)
				So(float64(*g.Players.White.Analysis.Accuracy), ShouldEqual, 93.5)
				So(g.Players.Black.Analysis, ShouldBeNil)
			})
		})

		Convey("When a numeric field is garbage", func() {
			g, err := stream.DecodeRecord(`{"id":"x","players":{"white":{"username":"a","analysis":{"inaccuracy":"lots","mistake":null,"blunder":2,"accuracy":"88.5"}},"black":{}}}`)

			Convey("Then bad values coerce to zero instead of failing", func() {
				So(err, ShouldBeNil)
				So(int(g.Players.White.Analysis.Inaccuracy), ShouldEqual, 0)
				So(int(g.Players.White.Analysis.Mistake), ShouldEqual, 0)
				So(int(g.Players.White.Analysis.Blunder), ShouldEqual, 2)
				So(float64(*g.Players.White.Analysis.Accuracy), ShouldEqual, 88.5)
			})
		})

		Convey("When a line is not JSON at all", func() {
			_, err := stream.DecodeRecord("definitely not json")

			Convey("Then it fails with a decode error", func() {
				So(errors.Is(err, stream.ErrDecode), ShouldBeTrue)
			})
		})

		Convey("When reading a feed with blank lines in between", func() {
			feed := "{\"id\":\"g1\",\"players\":{\"white\":{},\"black\":{}}}\n\n   \n{\"id\":\"g2\",\"players\":{\"white\":{},\"black\":{}}}\n"
			r := stream.NewRecordReader(strings.NewReader(feed))

			var ids []string
			for {
				g, err := r.Next()
				if err == io.EOF {
					break
				}
				So(err, ShouldBeNil)
				ids = append(ids, g.ID)
			}

			Convey("Then blank lines are skipped and both records decode", func() {
				So(ids, ShouldResemble, []string{"g1", "g2"})
			})
		})

		Convey("When one line in the feed is malformed", func() {
			feed := "{\"id\":\"g1\",\"players\":{\"white\":{},\"black\":{}}}\n{broken\n"
			r := stream.NewRecordReader(strings.NewReader(feed))

			_, err := r.Next()
			So(err, ShouldBeNil)
			_, err = r.Next()

			Convey("Then the whole pass aborts with a decode error", func() {
				So(errors.Is(err, stream.ErrDecode), ShouldBeTrue)
			})
		})
	})
}
