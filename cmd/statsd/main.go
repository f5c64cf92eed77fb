// Command statsd serves tournament standings and live exhibition games over
// HTTP.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"skygrid/results"
	"skygrid/server"
)

func main() {
	var (
		dbPath = flag.String("db", "results.db", "results database")
		addr   = flag.String("addr", ":8080", "listen address")
	)
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	store, err := results.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("opening results db")
	}
	defer store.Close()

	srv := &http.Server{
		Addr:         *addr,
		Handler:      server.New(store).Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // websocket streams stay open
	}
	log.Info().Str("addr", *addr).Msg("listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
