package game

import (
	"fmt"
	"strings"
)

// DogfightContext is the read-only view agents get of the dogfight being
// negotiated: where it is, who acts first and whether an offensive weapon is
// pending a response.
type DogfightContext struct {
	Pos           Position
	Underdog      Player // lower power, acts first
	Other         Player
	WeaponPending bool   // an offensive weapon awaits a response
	PendingBy     Player // who played it; meaningful only when WeaponPending
}

// State is the complete game state. The engine is its sole mutator; agents
// and other collaborators only ever receive deep copies.
type State struct {
	Grid      [3][3]Square
	Resources [2]Resources
	Phase     Phase
	Current   Player // whose placement turn it is
	Turn      int    // placement turns taken so far

	// Contested squares awaiting resolution (center, edges, corners) and the
	// index of the next one up.
	DogfightOrder []Position
	DogfightIndex int
	Context       *DogfightContext

	// TokenHolder acts first when dogfight powers tie; the token starts on
	// player two and flips each time it breaks a tie.
	TokenHolder Player

	Over   bool
	Winner Player
	Draw   bool

	Seed int64
}

// NewState returns the starting state for a game reproducible from seed.
func NewState(seed int64) *State {
	return &State{
		Resources:   [2]Resources{NewResources(), NewResources()},
		TokenHolder: PlayerTwo,
		Seed:        seed,
	}
}

// Square returns a mutable reference to the square at pos.
func (s *State) Square(pos Position) *Square {
	return &s.Grid[pos.Row][pos.Col]
}

// ResourcesOf returns a mutable reference to p's resources.
func (s *State) ResourcesOf(p Player) *Resources {
	return &s.Resources[p]
}

// ControlledCount counts the squares p controls outright.
func (s *State) ControlledCount(p Player) int {
	count := 0
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if owner, ok := s.Grid[row][col].Controller(); ok && owner == p {
				count++
			}
		}
	}
	return count
}

var allLines = [8][3]Position{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// HasLine reports whether p controls three squares in a row, column or
// diagonal.
func (s *State) HasLine(p Player) bool {
	for _, line := range allLines {
		complete := true
		for _, pos := range line {
			owner, ok := s.Square(pos).Controller()
			if !ok || owner != p {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}
	return false
}

// LinesThrough returns every row, column or diagonal containing pos.
func LinesThrough(pos Position) [][3]Position {
	var lines [][3]Position
	for _, line := range allLines {
		for _, lp := range line {
			if lp == pos {
				lines = append(lines, line)
				break
			}
		}
	}
	return lines
}

// Copy returns a deep copy. Mutating the copy never affects the original.
func (s *State) Copy() *State {
	out := *s

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out.Grid[row][col].Units = append([]Unit(nil), s.Grid[row][col].Units...)
		}
	}
	out.Resources[PlayerOne] = s.Resources[PlayerOne].copy()
	out.Resources[PlayerTwo] = s.Resources[PlayerTwo].copy()
	out.DogfightOrder = append([]Position(nil), s.DogfightOrder...)
	if s.Context != nil {
		ctx := *s.Context
		out.Context = &ctx
	}
	return &out
}

func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== skygrid - %s ===\n", s.Phase)
	fmt.Fprintf(&b, "turn %d, to act: %s\n\n", s.Turn, s.Current)
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cells[col] = s.Grid[row][col].String()
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, p := range []Player{PlayerOne, PlayerTwo} {
		res := s.Resources[p]
		fmt.Fprintf(&b, "%s: unplaced %v, weapons %d, pile %d cards, discard %v\n",
			p, res.Unplaced, res.Weapons, len(res.Deck), res.Discard)
	}
	if s.Over {
		if s.Draw {
			b.WriteString("\n*** game over - draw ***")
		} else {
			fmt.Fprintf(&b, "\n*** game over - winner: %s ***", s.Winner)
		}
	}
	return b.String()
}
