package agent

import (
	"golang.org/x/exp/rand"

	"skygrid/game"
)

// Random picks uniformly among the legal actions. Useful as a baseline and as
// the playout policy inside rollouts.
type Random struct {
	name string
	rng  *rand.Rand
}

func NewRandom(name string, seed int64) *Random {
	return &Random{name: name, rng: rand.New(rand.NewSource(uint64(seed)))}
}

func (a *Random) Name() string { return a.name }

func (a *Random) SelectAction(_ *game.State, legal []int, _ game.Player) int {
	return legal[a.rng.Intn(len(legal))]
}
