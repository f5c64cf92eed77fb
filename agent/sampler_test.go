package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skygrid/game"
)

func hiddenInfoState() *game.State {
	s := game.NewState(3)
	// PlayerTwo has placed a hidden 9 and a hidden 2 and an open 5; the rest
	// of their powers are still unplaced.
	s.Grid[0][0].Units = []game.Unit{{Owner: game.PlayerTwo, Power: 9, Hidden: true}}
	s.Grid[1][1].Units = []game.Unit{{Owner: game.PlayerTwo, Power: 2, Hidden: true}}
	s.Grid[2][2].Units = []game.Unit{{Owner: game.PlayerTwo, Power: 5}}
	res := s.ResourcesOf(game.PlayerTwo)
	res.RemoveUnplaced(9)
	res.RemoveUnplaced(2)
	res.RemoveUnplaced(5)
	res.Deck = []int{4, 8, 1, 11, 6, 13, 2, 9, 5, 12}
	res.Discard = []int{3, 7, 10}
	return s
}

func TestSampleHiddenRedrawsConcealedPowers(t *testing.T) {
	s := hiddenInfoState()
	sampled := SampleHidden(s, game.PlayerOne, 99)

	var powers []int
	for _, pos := range []game.Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}} {
		u, ok := sampled.Square(pos).UnitOf(game.PlayerTwo)
		require.True(t, ok)
		require.True(t, u.Hidden, "sampling does not reveal")
		powers = append(powers, u.Power)
	}

	// The viewer knows 3 and 10 are still unplaced, so the two hidden units
	// must be 2 and 9 in some order.
	require.ElementsMatch(t, []int{2, 9}, powers)
}

func TestSampleHiddenRebuildsOpponentPile(t *testing.T) {
	s := hiddenInfoState()
	sampled := SampleHidden(s, game.PlayerOne, 7)

	res := sampled.ResourcesOf(game.PlayerTwo)
	require.Len(t, res.Deck, 10, "pile size is observable and preserved")
	require.Equal(t, []int{3, 7, 10}, res.Discard, "the discard is public")

	seen := make(map[int]bool)
	for _, c := range res.Deck {
		require.NotContains(t, []int{3, 7, 10}, c, "discarded cards cannot be in the pile")
		require.False(t, seen[c])
		seen[c] = true
	}
}

func TestSampleHiddenLeavesInputUntouched(t *testing.T) {
	s := hiddenInfoState()
	before := s.Copy()
	for seed := int64(0); seed < 5; seed++ {
		SampleHidden(s, game.PlayerOne, seed)
	}
	require.Equal(t, before, s)
}

func TestSampleHiddenIsSeedDeterministic(t *testing.T) {
	s := hiddenInfoState()
	a := SampleHidden(s, game.PlayerOne, 42)
	b := SampleHidden(s, game.PlayerOne, 42)
	require.Equal(t, a, b)
}
