package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/PrintfDebuggerr/cift-wordle/game"
	"github.com/PrintfDebuggerr/cift-wordle/handlers"
	"github.com/PrintfDebuggerr/cift-wordle/presence"
	"github.com/PrintfDebuggerr/cift-wordle/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := words.Open(getEnv("WORDS_DB", "./data/words.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open word database")
	}
	defer db.Close()

	if seed := os.Getenv("WORDS_SEED_FILE"); seed != "" {
		if err := db.Seed(context.Background(), seed); err != nil {
			log.Fatal().Err(err).Str("file", seed).Msg("failed to seed words")
		}
	}

	registry := game.NewRegistry(db)
	pres := presence.NewService()
	ws := handlers.NewWebSocketHandler(registry, pres)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"service":"cift-wordle","status":"running","endpoints":["/health","/debug/words","/ws"]}`))
	})
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		rooms, players := registry.Counts()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":      "OK",
			"rooms":       rooms,
			"players":     players,
			"connections": pres.Len(),
		})
	})
	r.Get("/debug/words", func(w http.ResponseWriter, req *http.Request) {
		stats, err := db.Stats(req.Context())
		if err != nil {
			http.Error(w, `{"error":"word stats unavailable"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	})
	r.Handle("/ws", ws)

	port := getEnv("PORT", "3001")
	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
