// Package harness runs complete games between agents: the placement loop,
// the dogfight turn protocol and the end-of-game bookkeeping, with optional
// replay capture.
package harness

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"skygrid/agent"
	"skygrid/engine"
	"skygrid/game"
	"skygrid/replay"
)

// GameResult summarizes one finished game.
type GameResult struct {
	Seed   int64
	One    string // PlayerOne agent name
	Two    string // PlayerTwo agent name
	Winner game.Player
	Draw   bool
	Turns  int
}

// WinnerName returns the winning agent's name, or "draw".
func (r GameResult) WinnerName() string {
	if r.Draw {
		return "draw"
	}
	if r.Winner == game.PlayerOne {
		return r.One
	}
	return r.Two
}

// MatchResult aggregates a series of games.
type MatchResult struct {
	Games []GameResult
	Wins  map[string]int
	Draws int
}

// Harness runs games. The zero value works; set ReplayDir to write a
// compressed replay per game.
type Harness struct {
	ReplayDir string
}

// RunGame plays one full game, one as PlayerOne and two as PlayerTwo. An
// agent returning an index the engine rejects aborts the game with an error.
func (h *Harness) RunGame(one, two agent.Agent, seed int64) (GameResult, error) {
	eng := engine.New(seed)
	agents := [2]agent.Agent{one, two}

	for _, p := range []game.Player{game.PlayerOne, game.PlayerTwo} {
		if starter, ok := agents[p].(agent.GameStarter); ok {
			starter.GameStart(p, seed)
		}
	}

	for eng.Phase() == game.Placement && !eng.GameOver() {
		p := eng.CurrentPlayer()
		idx := agents[p].SelectAction(eng.State(), eng.LegalActions(), p)
		if !eng.ApplyAction(idx) {
			return GameResult{}, fmt.Errorf("agent %s chose illegal action %d on turn %d",
				agents[p].Name(), idx, eng.State().Turn)
		}
	}

	for eng.Phase() == game.Dogfights && !eng.GameOver() {
		pos := eng.BeginDogfight()
		for !eng.DogfightComplete() {
			actor := eng.DogfightActor()
			idx := agents[actor].SelectAction(eng.State(), eng.DogfightLegalActions(actor), actor)
			if !eng.ApplyDogfightTurnAction(actor, idx) {
				return GameResult{}, fmt.Errorf("agent %s chose illegal action %d in dogfight at %s",
					agents[actor].Name(), idx, pos)
			}
		}
		eng.FinishDogfight()
	}

	final := eng.State()
	result := GameResult{
		Seed:   seed,
		One:    one.Name(),
		Two:    two.Name(),
		Winner: final.Winner,
		Draw:   final.Draw,
		Turns:  final.Turn,
	}

	for _, p := range []game.Player{game.PlayerOne, game.PlayerTwo} {
		if ender, ok := agents[p].(agent.GameEnder); ok {
			ender.GameEnd(final.Copy(), final.Winner, final.Draw)
		}
	}

	if h.ReplayDir != "" {
		path := filepath.Join(h.ReplayDir, fmt.Sprintf("%s-vs-%s-%d.replay.zst", one.Name(), two.Name(), seed))
		if err := replay.FromEngine(eng, one.Name(), two.Name()).Save(path); err != nil {
			return GameResult{}, fmt.Errorf("writing replay: %w", err)
		}
	}

	log.Info().
		Int64("seed", seed).
		Str("one", one.Name()).
		Str("two", two.Name()).
		Str("winner", result.WinnerName()).
		Msg("game finished")
	return result, nil
}

// RunMatch plays the given number of games with consecutive seeds, swapping
// seats every game so neither agent always moves first.
func (h *Harness) RunMatch(a, b agent.Agent, games int, baseSeed int64) (MatchResult, error) {
	match := MatchResult{Wins: map[string]int{a.Name(): 0, b.Name(): 0}}
	for i := 0; i < games; i++ {
		one, two := a, b
		if i%2 == 1 {
			one, two = b, a
		}
		result, err := h.RunGame(one, two, baseSeed+int64(i))
		if err != nil {
			return match, err
		}
		match.Games = append(match.Games, result)
		if result.Draw {
			match.Draws++
		} else {
			match.Wins[result.WinnerName()]++
		}
	}
	return match, nil
}
