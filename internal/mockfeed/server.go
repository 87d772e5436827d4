package mockfeed

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/okian/gambit/pkg/logger"
)

// Handler serves the two upstream-shaped endpoints:
//
//	GET /api/tournament/{id}        and  GET /api/swiss/{id}
//	GET /api/tournament/{id}/games  and  GET /api/swiss/{id}/games
func Handler(gen *Generator) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tournament/", serve(gen))
	mux.HandleFunc("/api/swiss/", serve(gen))
	return mux
}

func serve(gen *Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		// api/{surface}/{id} or api/{surface}/{id}/games
		switch len(parts) {
		case 3:
			writeMeta(w, gen, parts[2])
		case 4:
			if parts[3] != "games" {
				http.NotFound(w, r)
				return
			}
			writeGames(w, r, gen)
		default:
			http.NotFound(w, r)
		}
	}
}

func writeMeta(w http.ResponseWriter, gen *Generator, id string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(gen.Tournament(id))
}

func writeGames(w http.ResponseWriter, r *http.Request, gen *Generator) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	for _, g := range gen.Games() {
		if err := enc.Encode(g); err != nil {
			logger.Get().Warn(r.Context(), "mock feed write failed", logger.Error(err))
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
