package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHiddenPower(t *testing.T) {
	for _, power := range []int{2, 3, 9, 10} {
		require.True(t, HiddenPower(power), "power %d is placed hidden", power)
	}
	for power := 4; power <= 8; power++ {
		require.False(t, HiddenPower(power), "power %d is placed open", power)
	}
}

func TestSquareController(t *testing.T) {
	var sq Square
	_, ok := sq.Controller()
	require.False(t, ok, "empty square has no controller")

	sq.Units = append(sq.Units, Unit{Owner: PlayerOne, Power: 5})
	owner, ok := sq.Controller()
	require.True(t, ok)
	require.Equal(t, PlayerOne, owner)

	sq.Units = append(sq.Units, Unit{Owner: PlayerTwo, Power: 7})
	require.True(t, sq.Contested())
	_, ok = sq.Controller()
	require.False(t, ok, "contested square has no controller")
}

func TestHasLine(t *testing.T) {
	s := NewState(1)
	require.False(t, s.HasLine(PlayerOne))

	for col := 0; col < 3; col++ {
		s.Grid[1][col].Units = []Unit{{Owner: PlayerOne, Power: 5}}
	}
	require.True(t, s.HasLine(PlayerOne))
	require.False(t, s.HasLine(PlayerTwo))

	// Contesting one square of the line breaks it.
	s.Grid[1][1].Units = append(s.Grid[1][1].Units, Unit{Owner: PlayerTwo, Power: 4})
	require.False(t, s.HasLine(PlayerOne))
}

func TestLinesThrough(t *testing.T) {
	require.Len(t, LinesThrough(Position{Row: 1, Col: 1}), 4, "center sits on four lines")
	require.Len(t, LinesThrough(Position{Row: 0, Col: 0}), 3, "corner sits on three lines")
	require.Len(t, LinesThrough(Position{Row: 0, Col: 1}), 2, "edge sits on two lines")
}

func TestCopyIndependence(t *testing.T) {
	s := NewState(7)
	s.Grid[0][0].Units = []Unit{{Owner: PlayerOne, Power: 9, Hidden: true}}
	s.ResourcesOf(PlayerOne).Deck = []int{1, 2, 3}
	s.DogfightOrder = []Position{{Row: 0, Col: 0}}
	s.Context = &DogfightContext{Pos: Position{Row: 0, Col: 0}, Underdog: PlayerTwo}

	c := s.Copy()
	require.Equal(t, s, c)

	c.Grid[0][0].Units[0].Hidden = false
	c.ResourcesOf(PlayerOne).Deck[0] = 99
	c.ResourcesOf(PlayerTwo).RemoveUnplaced(2)
	c.DogfightOrder[0] = Position{Row: 2, Col: 2}
	c.Context.Underdog = PlayerOne

	require.True(t, s.Grid[0][0].Units[0].Hidden, "copy must not share unit storage")
	require.Equal(t, 1, s.ResourcesOf(PlayerOne).Deck[0], "copy must not share deck storage")
	require.True(t, s.ResourcesOf(PlayerTwo).HasUnplaced(2))
	require.Equal(t, Position{Row: 0, Col: 0}, s.DogfightOrder[0])
	require.Equal(t, PlayerTwo, s.Context.Underdog, "copy must not share the context")
}

func TestResourcesRemoveUnplaced(t *testing.T) {
	r := NewResources()
	require.Len(t, r.Unplaced, 9)
	require.True(t, r.RemoveUnplaced(7))
	require.False(t, r.HasUnplaced(7))
	require.False(t, r.RemoveUnplaced(7), "each power exists once")
	require.Len(t, r.Unplaced, 8)
}
