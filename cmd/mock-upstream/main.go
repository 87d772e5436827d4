package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/gambit/internal/mockfeed"
	"github.com/okian/gambit/pkg/logger"
)

// Default configuration constants.
const (
	defaultAddr       = ":9081"
	defaultGames      = 120
	defaultPlayers    = 16
	defaultSeed       = 42
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	var (
		addr    = flag.String("addr", defaultAddr, "Listen address for the mock chess server")
		games   = flag.Int("games", defaultGames, "Number of games per feed")
		players = flag.Int("players", defaultPlayers, "Number of distinct players per feed")
		seed    = flag.Int64("seed", defaultSeed, "Random seed for reproducible feeds")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := mockfeed.NewGenerator(
		mockfeed.WithGameCount(*games),
		mockfeed.WithPlayerCount(*players),
		mockfeed.WithSeed(*seed),
	)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mockfeed.Handler(gen),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Get().Info(ctx, "starting mock upstream", logger.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("mock upstream failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
