package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skygrid/actions"
	"skygrid/engine"
	"skygrid/game"
)

func TestRolloutSelectsLegalPlacement(t *testing.T) {
	eng := engine.New(7)
	a := NewRollout(1, WithTrials(2))

	idx := a.SelectAction(eng.State(), eng.LegalActions(), game.PlayerOne)
	require.True(t, eng.ApplyAction(idx), "selected action must be legal")
}

func TestRolloutSingleLegalShortcut(t *testing.T) {
	a := NewRollout(1, WithTrials(1))
	s := game.NewState(1)
	require.Equal(t, 42, a.SelectAction(s, []int{42}, game.PlayerOne))
}

func TestRolloutHiddenSampling(t *testing.T) {
	eng := engine.New(11)
	// Opponent placed a hidden unit, so sampled playouts see a guess, not
	// the truth.
	require.True(t, eng.ApplyAction(actions.PlaceIndex(5, game.Position{Row: 0, Col: 0})))
	require.True(t, eng.ApplyAction(actions.PlaceIndex(9, game.Position{Row: 1, Col: 1})))

	a := NewRollout(2, WithTrials(1), WithHiddenSampling(2))
	idx := a.SelectAction(eng.State(), eng.LegalActions(), game.PlayerOne)
	require.True(t, eng.ApplyAction(idx))
}

func TestRolloutDogfightGating(t *testing.T) {
	s := game.NewState(1)
	s.Phase = game.Dogfights
	legal := []int{actions.WeaponIndex(0), actions.PassIndex}

	t.Run("disabled evaluation plays randomly", func(t *testing.T) {
		a := NewRollout(1, WithTrials(1))
		require.Contains(t, legal, a.SelectAction(s, legal, game.PlayerOne))
	})

	t.Run("mid-dogfight falls back to random", func(t *testing.T) {
		a := NewRollout(1, WithTrials(1), WithDogfightEvaluation())
		s := s.Copy()
		s.Context = &game.DogfightContext{
			Pos:           game.Position{Row: 1, Col: 1},
			Underdog:      game.PlayerOne,
			Other:         game.PlayerTwo,
			WeaponPending: true,
			PendingBy:     game.PlayerTwo,
		}
		require.Contains(t, legal, a.SelectAction(s, legal, game.PlayerOne))
	})

	t.Run("opponent underdog falls back to random", func(t *testing.T) {
		a := NewRollout(1, WithTrials(1), WithDogfightEvaluation())
		s := s.Copy()
		s.Context = &game.DogfightContext{
			Pos:      game.Position{Row: 1, Col: 1},
			Underdog: game.PlayerTwo,
			Other:    game.PlayerOne,
		}
		require.Contains(t, legal, a.SelectAction(s, legal, game.PlayerOne))
	})
}

func TestRolloutEvaluatesDogfightOpening(t *testing.T) {
	s := game.NewState(1)
	s.Phase = game.Dogfights
	s.Turn = 18
	pos := game.Position{Row: 1, Col: 1}
	s.Square(pos).Units = []game.Unit{
		{Owner: game.PlayerOne, Power: 9},
		{Owner: game.PlayerTwo, Power: 2},
	}
	s.DogfightOrder = []game.Position{pos}
	for _, p := range []game.Player{game.PlayerOne, game.PlayerTwo} {
		res := s.ResourcesOf(p)
		res.Unplaced = nil
		deck := make([]int, game.DeckSize)
		for i := range deck {
			deck[i] = i + 1
		}
		res.Deck = deck
	}
	s.Context = &game.DogfightContext{Pos: pos, Underdog: game.PlayerTwo, Other: game.PlayerOne}

	a := NewRollout(1, WithTrials(5), WithDogfightEvaluation())
	legal := []int{actions.WeaponIndex(0), actions.PassIndex}
	require.Contains(t, legal, a.SelectAction(s, legal, game.PlayerTwo))
}

func TestTallyScore(t *testing.T) {
	require.Equal(t, 0.5, tally{}.score(), "no playouts scores neutral")
	require.Equal(t, 0.5, tally{total: 10, failures: 6, draws: 6}.score(),
		"mostly failed evaluations are discarded")
	require.Equal(t, 0.75, tally{total: 4, wins: 2, draws: 2}.score())
	require.Equal(t, 1.0, tally{total: 3, wins: 3}.score())
}

func TestDeriveSeedSpreads(t *testing.T) {
	seen := make(map[int64]bool)
	for turn := int64(0); turn < 4; turn++ {
		for trial := int64(0); trial < 4; trial++ {
			for sample := int64(0); sample < 4; sample++ {
				s := deriveSeed(42, turn, trial, sample)
				require.False(t, seen[s], "derived seeds must not collide")
				seen[s] = true
			}
		}
	}
	require.Equal(t, deriveSeed(42, 1, 2, 3), deriveSeed(42, 1, 2, 3))
}
