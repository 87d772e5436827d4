package mockfeed_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/gambit/internal/domain/stream"
	mockfeed "github.com/okian/gambit/internal/mockfeed"
	"github.com/okian/gambit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMockFeed(t *testing.T) {
	_ = logger.Init()

	Convey("Given a mock upstream server", t, func() {
		gen := mockfeed.NewGenerator(
			mockfeed.WithGameCount(30),
			mockfeed.WithPlayerCount(6),
			mockfeed.WithSeed(7),
		)
		srv := httptest.NewServer(mockfeed.Handler(gen))
		defer srv.Close()

		Convey("When fetching tournament metadata", func() {
			resp, err := http.Get(srv.URL + "/api/tournament/mock0001")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			body, _ := io.ReadAll(resp.Body)

			Convey("Then it serves a tournament document", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(string(body), ShouldContainSubstring, "mock0001")
				So(string(body), ShouldContainSubstring, "nbPlayers")
			})
		})

		Convey("When fetching the game feed", func() {
			resp, err := http.Get(srv.URL + "/api/tournament/mock0001/games")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then every line decodes as a game record", func() {
				So(resp.Header.Get("Content-Type"), ShouldEqual, "application/x-ndjson")
				reader := stream.NewRecordReader(resp.Body)
				count := 0
				for {
					g, err := reader.Next()
					if err == io.EOF {
						break
					}
					So(err, ShouldBeNil)
					So(g.ID, ShouldNotBeEmpty)
					count++
				}
				So(count, ShouldEqual, 30)
			})
		})

		Convey("When fetching an unknown resource", func() {
			resp, err := http.Get(srv.URL + "/api/tournament/mock0001/players")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then it is not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given two generators with the same seed", t, func() {
		a := mockfeed.NewGenerator(mockfeed.WithSeed(11), mockfeed.WithGameCount(10))
		b := mockfeed.NewGenerator(mockfeed.WithSeed(11), mockfeed.WithGameCount(10))

		Convey("When generating games", func() {
			ga := a.Games()
			gb := b.Games()

			Convey("Then players and classes line up deterministically", func() {
				So(len(ga), ShouldEqual, len(gb))
				for i := range ga {
					So(ga[i].Status, ShouldEqual, gb[i].Status)
					So(ga[i].Players.White.Username, ShouldEqual, gb[i].Players.White.Username)
					So(ga[i].Moves, ShouldEqual, gb[i].Moves)
				}
			})
		})
	})
}
