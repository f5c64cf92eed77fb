package game

import "fmt"

// Player identifies one of the two players.
type Player int

const (
	PlayerOne Player = iota
	PlayerTwo
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (p Player) String() string {
	return fmt.Sprintf("Player%d", int(p)+1)
}

// Phase of the game. Phases only ever advance: Placement, then Dogfights,
// then Ended.
type Phase int

const (
	Placement Phase = iota
	Dogfights
	Ended
)

func (ph Phase) String() string {
	switch ph {
	case Placement:
		return "placement"
	case Dogfights:
		return "dogfights"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("Phase(%d)", int(ph))
}

// Position is a square on the 3x3 grid.
type Position struct {
	Row int
	Col int
}

func (pos Position) String() string {
	return fmt.Sprintf("[%d,%d]", pos.Row, pos.Col)
}

// Unit is a placed piece with a power value 2-10. Hidden units conceal their
// power from the opponent until the showdown at the start of their square's
// dogfight; the flag transitions true->false exactly once and never back.
type Unit struct {
	Owner  Player
	Power  int
	Hidden bool
}

func (u Unit) String() string {
	if u.Hidden {
		return fmt.Sprintf("P%d:??", int(u.Owner)+1)
	}
	return fmt.Sprintf("P%d:%d", int(u.Owner)+1, u.Power)
}

// HiddenPower reports whether units of this power are placed hidden.
func HiddenPower(power int) bool {
	switch power {
	case 2, 3, 9, 10:
		return true
	}
	return false
}

// Square holds zero, one or two units. Two units of the same owner never
// share a square; two units of different owners make the square contested.
type Square struct {
	Units []Unit
}

func (s Square) Empty() bool { return len(s.Units) == 0 }

// Contested reports whether both players have a unit here.
func (s Square) Contested() bool { return len(s.Units) == 2 }

// Controller returns the sole occupant's owner. ok is false when the square
// is empty or contested.
func (s Square) Controller() (Player, bool) {
	if len(s.Units) == 1 {
		return s.Units[0].Owner, true
	}
	return 0, false
}

// UnitOf returns p's unit on this square, if present.
func (s Square) UnitOf(p Player) (Unit, bool) {
	for _, u := range s.Units {
		if u.Owner == p {
			return u, true
		}
	}
	return Unit{}, false
}

func (s Square) String() string {
	switch len(s.Units) {
	case 0:
		return "[ ]"
	case 1:
		return fmt.Sprintf("[%s]", s.Units[0])
	default:
		return fmt.Sprintf("[%s vs %s]", s.Units[0], s.Units[1])
	}
}
