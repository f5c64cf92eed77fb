// Command tournament runs a round-robin tournament from a YAML config and
// prints the standings, optionally recording every game to a results
// database.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"skygrid/harness"
	"skygrid/results"
)

func main() {
	var (
		configPath = flag.String("config", "tournament.yaml", "tournament config file")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := harness.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("loading tournament config")
	}

	standings, games, err := cfg.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("tournament failed")
	}

	if cfg.ResultsDB != "" {
		store, err := results.Open(cfg.ResultsDB)
		if err != nil {
			log.Fatal().Err(err).Msg("opening results db")
		}
		defer store.Close()
		for _, g := range games {
			if err := store.RecordGame(g); err != nil {
				log.Fatal().Err(err).Int64("seed", g.Seed).Msg("recording game")
			}
		}
		log.Info().Int("games", len(games)).Str("db", cfg.ResultsDB).Msg("results recorded")
	}

	fmt.Printf("%-20s %6s %5s %7s %6s %7s\n", "agent", "games", "wins", "losses", "draws", "points")
	for _, s := range standings {
		fmt.Printf("%-20s %6d %5d %7d %6d %7.1f\n",
			s.Name, s.Games, s.Wins, s.Losses, s.Draws, s.Points())
	}
}
