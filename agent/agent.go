// Package agent holds the decision-makers: random, heuristic, rollout-search
// and human. Agents never mutate engine state; they receive state copies and
// a legal index list and return one of those indices.
package agent

import "skygrid/game"

// Agent selects one action index from the legal list for the given state.
// The returned index must come from legal; the caller treats anything else as
// an agent bug.
type Agent interface {
	Name() string
	SelectAction(state *game.State, legal []int, player game.Player) int
}

// GameStarter is implemented by agents that want to know when a game begins.
type GameStarter interface {
	GameStart(player game.Player, seed int64)
}

// GameEnder is implemented by agents that want to see the final state.
type GameEnder interface {
	GameEnd(final *game.State, winner game.Player, draw bool)
}
