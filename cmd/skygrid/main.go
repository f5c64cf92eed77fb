// Command skygrid plays a single game between two agents, optionally with a
// human at the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"skygrid/agent"
	"skygrid/harness"
)

func main() {
	var (
		seed    = flag.Int64("seed", time.Now().UnixNano(), "game seed")
		one     = flag.String("one", "rollout", "player one agent: random, heuristic, rollout, human")
		two     = flag.String("two", "heuristic", "player two agent: random, heuristic, rollout, human")
		trials  = flag.Int("trials", 50, "playouts per candidate action for rollout agents")
		replays = flag.String("replays", "", "directory for replay files, empty disables")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	agentOne, err := buildAgent(*one, "P1-"+*one, *seed, *trials)
	if err != nil {
		log.Fatal().Err(err).Msg("building player one")
	}
	agentTwo, err := buildAgent(*two, "P2-"+*two, *seed+1, *trials)
	if err != nil {
		log.Fatal().Err(err).Msg("building player two")
	}

	h := &harness.Harness{ReplayDir: *replays}
	result, err := h.RunGame(agentOne, agentTwo, *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("game aborted")
	}

	fmt.Printf("seed %d: %s vs %s, winner: %s (%d placement turns)\n",
		result.Seed, result.One, result.Two, result.WinnerName(), result.Turns)
}

func buildAgent(kind, name string, seed int64, trials int) (agent.Agent, error) {
	if kind == "human" {
		return agent.NewHuman(name, os.Stdin, os.Stdout), nil
	}
	spec := harness.AgentSpec{Kind: kind, Name: name, Seed: seed, Trials: trials}
	return spec.Build()
}
