package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"skygrid/actions"
	"skygrid/engine"
	"skygrid/game"
)

func TestHeuristicOpensWithStrongestAtCenter(t *testing.T) {
	eng := engine.New(1)
	a := NewHeuristic("h", 1)

	idx := a.SelectAction(eng.State(), eng.LegalActions(), game.PlayerOne)
	require.Equal(t, actions.PlaceIndex(10, game.Position{Row: 1, Col: 1}), idx,
		"empty board: power 10 on the center scores highest")
}

func TestHeuristicBlocksOpponentLine(t *testing.T) {
	s := game.NewState(1)
	s.Grid[0][0].Units = []game.Unit{{Owner: game.PlayerTwo, Power: 4}}
	s.Grid[0][1].Units = []game.Unit{{Owner: game.PlayerTwo, Power: 6}}
	s.ResourcesOf(game.PlayerTwo).RemoveUnplaced(4)
	s.ResourcesOf(game.PlayerTwo).RemoveUnplaced(6)

	a := NewHeuristic("h", 1)
	legal := actions.Default().LegalIndices(s, game.PlayerOne)
	idx := a.SelectAction(s, legal, game.PlayerOne)

	action, err := actions.Default().Get(idx)
	require.NoError(t, err)
	require.Equal(t, game.Position{Row: 0, Col: 2}, action.Pos,
		"two opposing squares in a row demand a block")
}

func dogfightDecisionState(myPower, oppPower int, pending bool) *game.State {
	s := game.NewState(1)
	s.Phase = game.Dogfights
	pos := game.Position{Row: 1, Col: 1}
	s.Square(pos).Units = []game.Unit{
		{Owner: game.PlayerOne, Power: myPower},
		{Owner: game.PlayerTwo, Power: oppPower},
	}
	s.DogfightOrder = []game.Position{pos}
	ctx := &game.DogfightContext{Pos: pos, Underdog: game.PlayerOne, Other: game.PlayerTwo}
	if pending {
		ctx.WeaponPending = true
		ctx.PendingBy = game.PlayerTwo
	}
	s.Context = ctx
	return s
}

func TestHeuristicDogfightDecisions(t *testing.T) {
	a := NewHeuristic("h", 1)
	weapons := []int{
		actions.WeaponIndex(0), actions.WeaponIndex(1),
		actions.WeaponIndex(2), actions.WeaponIndex(3),
	}

	t.Run("attacks when tied on power", func(t *testing.T) {
		s := dogfightDecisionState(5, 5, false)
		legal := actions.Default().LegalIndices(s, game.PlayerOne)
		require.Contains(t, weapons, a.SelectAction(s, legal, game.PlayerOne))
	})

	t.Run("saves weapons when far behind on defense", func(t *testing.T) {
		s := dogfightDecisionState(2, 9, true)
		legal := actions.Default().LegalIndices(s, game.PlayerOne)
		require.Equal(t, actions.PassIndex, a.SelectAction(s, legal, game.PlayerOne))
	})

	t.Run("defends when ahead", func(t *testing.T) {
		s := dogfightDecisionState(9, 2, true)
		legal := actions.Default().LegalIndices(s, game.PlayerOne)
		require.Contains(t, weapons, a.SelectAction(s, legal, game.PlayerOne))
	})

	t.Run("passes with no weapons left", func(t *testing.T) {
		s := dogfightDecisionState(5, 5, false)
		s.ResourcesOf(game.PlayerOne).Weapons = 0
		legal := actions.Default().LegalIndices(s, game.PlayerOne)
		require.Equal(t, actions.PassIndex, a.SelectAction(s, legal, game.PlayerOne))
	})
}

func TestRandomAgentStaysLegal(t *testing.T) {
	eng := engine.New(9)
	a := NewRandom("r", 3)
	for i := 0; i < 5; i++ {
		idx := a.SelectAction(eng.State(), eng.LegalActions(), eng.CurrentPlayer())
		require.True(t, eng.ApplyAction(idx))
	}
}
