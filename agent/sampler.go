package agent

import (
	"golang.org/x/exp/rand"

	"skygrid/game"
)

var concealable = []int{2, 3, 9, 10}

// SampleHidden returns a copy of state with the viewer's hidden information
// about the opponent randomized consistently with everything the viewer has
// observed: hidden unit powers are redrawn from the concealable powers not
// yet seen, and the opponent's draw pile is rebuilt from the cards not in
// their discard. The input state is never mutated.
func SampleHidden(state *game.State, viewer game.Player, seed int64) *game.State {
	sampled := state.Copy()
	opponent := viewer.Opponent()
	rng := rand.New(rand.NewSource(uint64(seed)))

	// Powers the viewer has already observed: the opponent's unplaced pool
	// plus every revealed opponent unit on the grid.
	known := make(map[int]bool)
	for _, p := range sampled.ResourcesOf(opponent).Unplaced {
		known[p] = true
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			for _, u := range sampled.Grid[row][col].Units {
				if u.Owner == opponent && !u.Hidden {
					known[u.Power] = true
				}
			}
		}
	}

	options := make([]int, 0, len(concealable))
	for _, p := range concealable {
		if !known[p] {
			options = append(options, p)
		}
	}

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			units := sampled.Grid[row][col].Units
			for i, u := range units {
				if u.Owner != opponent || !u.Hidden {
					continue
				}
				var power int
				if len(options) > 0 {
					// Draw without replacement so two hidden units never
					// share a power.
					pick := rng.Intn(len(options))
					power = options[pick]
					options = append(options[:pick], options[pick+1:]...)
				} else {
					power = concealable[rng.Intn(len(concealable))]
				}
				units[i].Power = power
			}
		}
	}

	// The opponent's pile order is unknown; only their discard is public.
	res := sampled.ResourcesOf(opponent)
	discarded := make(map[int]bool)
	for _, c := range res.Discard {
		discarded[c] = true
	}
	unknown := make([]int, 0, game.DeckSize)
	for c := 1; c <= game.DeckSize; c++ {
		if !discarded[c] {
			unknown = append(unknown, c)
		}
	}
	rng.Shuffle(len(unknown), func(i, j int) {
		unknown[i], unknown[j] = unknown[j], unknown[i]
	})
	res.Deck = unknown[:len(res.Deck)]

	return sampled
}
