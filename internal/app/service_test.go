package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	upstream "github.com/okian/gambit/internal/adapters/upstream"
	app "github.com/okian/gambit/internal/app"
	"github.com/okian/gambit/internal/domain/rank"
	"github.com/okian/gambit/internal/domain/stream"
	"github.com/okian/gambit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const fullMoves = "e4 e5 Nf3 Nc6 Bb5 a6 Ba4 Nf6 O-O Be7 Re1"

func fullGame(id string) string {
	return `{"id":"` + id + `","status":"mate","moves":"` + fullMoves + `","players":{` +
		`"white":{"username":"alice","teamId":"rooks","analysis":{"inaccuracy":1,"mistake":0,"blunder":0,"accuracy":90}},` +
		`"black":{"username":"bob","teamId":"knights","analysis":{"inaccuracy":0,"mistake":1,"blunder":1,"accuracy":85}}}}`
}

func feedServer(meta string, lines []string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/games") {
			w.Header().Set("Content-Type", "application/x-ndjson")
			for _, l := range lines {
				_, _ = w.Write([]byte(l + "\n"))
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(meta))
	}))
}

func newService(baseURL string, opts ...app.Option) *app.Service {
	opts = append(opts, app.WithClient(upstream.New(
		upstream.WithBaseURL(baseURL),
		upstream.WithTimeout(2*time.Second),
	)))
	svc := app.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestServiceReport(t *testing.T) {
	_ = logger.Init()

	Convey("Given a tournament with a mixed game feed", t, func() {
		meta := `{"id":"spring01","fullName":"Spring Arena","nbPlayers":2}`
		lines := []string{
			fullGame("g1"),
			fullGame("g2"),
			fullGame("g3"),
			fullGame("g4"),
			// One side analyzed only.
			`{"id":"g5","status":"mate","moves":"` + fullMoves + `","players":{` +
				`"white":{"username":"alice","analysis":{"inaccuracy":1,"mistake":0,"blunder":0,"accuracy":90}},` +
				`"black":{"username":"bob"}}}`,
			// Aborted short game, nobody analyzed.
			`{"id":"g6","status":"aborted","moves":"e4 e5","players":{` +
				`"white":{"username":"alice"},"black":{"username":"bob"}}}`,
		}
		srv := feedServer(meta, lines)
		defer srv.Close()
		svc := newService(srv.URL)
		defer svc.Stop()

		Convey("When computing the report", func() {
			rep, err := svc.Report(context.Background(), upstream.KindArena, "spring01")

			Convey("Then the tournament identity is carried through", func() {
				So(err, ShouldBeNil)
				So(rep.Tournament.ID, ShouldEqual, "spring01")
				So(rep.Tournament.Name, ShouldEqual, "Spring Arena")
				So(rep.Tournament.Players, ShouldEqual, 2)
			})

			Convey("And the tournament counters partition the feed", func() {
				So(err, ShouldBeNil)
				So(rep.Games.Total, ShouldEqual, 6)
				So(rep.Games.WithAnalysis, ShouldEqual, 5)
				So(rep.Games.FullyAnalyzed, ShouldEqual, 4)
				So(rep.Games.Short, ShouldEqual, 1)
				So(rep.Games.Unanalyzed, ShouldEqual, 1)
			})

			Convey("And both players make the eligible pool", func() {
				So(err, ShouldBeNil)
				So(rep.Pool.Eligible, ShouldEqual, 2)
				So(rep.Pool.Size, ShouldEqual, 2)
				So(rep.Pool.WithAnalysis, ShouldEqual, 2)
			})

			Convey("And the superlatives reflect the accumulated counters", func() {
				So(err, ShouldBeNil)
				So(rep.Superlatives.MostInaccuracies.Name, ShouldEqual, "alice")
				So(rep.Superlatives.MostInaccuracies.Value, ShouldEqual, 5)
				So(rep.Superlatives.MostBlunders.Name, ShouldEqual, "bob")
				So(rep.Superlatives.MostBlunders.Value, ShouldEqual, 4)
				So(rep.Superlatives.LeastBlunders.Name, ShouldEqual, "alice")
				So(rep.Superlatives.HighestAccuracy.Name, ShouldEqual, "alice")
				So(rep.Superlatives.HighestAccuracy.Value, ShouldEqual, 90.0)
				So(rep.Superlatives.LowestAccuracy.Name, ShouldEqual, "bob")
			})

			Convey("And per-player metrics keep first-seen order and teams", func() {
				So(err, ShouldBeNil)
				So(len(rep.Players), ShouldEqual, 2)
				So(rep.Players[0].Name, ShouldEqual, "alice")
				So(rep.Players[0].Team, ShouldEqual, "rooks")
				So(rep.Players[0].GamesPlayed, ShouldEqual, 6)
				So(rep.Players[0].AnalyzedGames, ShouldEqual, 5)
				So(rep.Players[0].Accuracy, ShouldEqual, 90.0)
				So(rep.Players[1].Name, ShouldEqual, "bob")
				So(rep.Players[1].AnalyzedGames, ShouldEqual, 4)
			})
		})
	})

	Convey("Given an empty game feed", t, func() {
		srv := feedServer(`{"id":"empty001","fullName":"Ghost Arena","nbPlayers":0}`, nil)
		defer srv.Close()
		svc := newService(srv.URL)
		defer svc.Stop()

		Convey("When computing the report", func() {
			_, err := svc.Report(context.Background(), upstream.KindArena, "empty001")

			Convey("Then it fails with no data rather than an empty payload", func() {
				So(errors.Is(err, rank.ErrNoData), ShouldBeTrue)
			})
		})
	})

	Convey("Given a feed with one malformed line", t, func() {
		srv := feedServer(`{"id":"bad00001","fullName":"Broken Arena","nbPlayers":2}`,
			[]string{fullGame("g1"), "{not json"})
		defer srv.Close()
		svc := newService(srv.URL)
		defer svc.Stop()

		Convey("When computing the report", func() {
			_, err := svc.Report(context.Background(), upstream.KindArena, "bad00001")

			Convey("Then the whole request aborts with a decode error", func() {
				So(errors.Is(err, stream.ErrDecode), ShouldBeTrue)
			})
		})
	})

	Convey("Given an upstream without the tournament", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()
		svc := newService(srv.URL)
		defer svc.Stop()

		Convey("When computing the report", func() {
			_, err := svc.Report(context.Background(), upstream.KindArena, "gone0001")

			Convey("Then the not-found kind propagates", func() {
				So(errors.Is(err, upstream.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a feed that stalls mid-stream", t, func() {
		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/games") {
				w.Header().Set("Content-Type", "application/x-ndjson")
				_, _ = w.Write([]byte(fullGame("g1") + "\n"))
				if f, ok := w.(http.Flusher); ok {
					f.Flush()
				}
				<-block
				return
			}
			_, _ = w.Write([]byte(`{"id":"slow0001","fullName":"Slow Arena","nbPlayers":2}`))
		}))
		defer func() {
			close(block)
			srv.Close()
		}()

		slow := app.New(app.WithClient(upstream.New(
			upstream.WithBaseURL(srv.URL),
			upstream.WithTimeout(100*time.Millisecond),
		)))
		So(slow.Start(context.Background()), ShouldBeNil)
		defer slow.Stop()

		Convey("When the deadline passes before the feed completes", func() {
			_, err := slow.Report(context.Background(), upstream.KindArena, "slow0001")

			Convey("Then the request surfaces an upstream timeout", func() {
				So(errors.Is(err, upstream.ErrTimeout), ShouldBeTrue)
			})
		})
	})
}
