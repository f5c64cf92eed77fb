package game

// DeckSize is the number of resolution cards in each player's pile. The draw
// pile and discard together always hold exactly this many.
const DeckSize = 13

// InitialWeapons is the number of dual-purpose weapon tokens each player
// starts with. A weapon has no offensive or defensive identity of its own;
// the dogfight turn order decides its role.
const InitialWeapons = 4

// HitThreshold is the minimum resolution-card value for an undefended
// offensive weapon to eliminate the defender outright.
const HitThreshold = 7

// Resources tracks one player's unplaced unit powers, remaining weapon
// tokens and resolution-card piles.
type Resources struct {
	Unplaced []int // unit powers not yet placed, one each of 2..10 initially
	Weapons  int
	Deck     []int // face-down resolution cards, drawn from the front
	Discard  []int
}

// NewResources returns the starting resources for one player. The deck is
// left empty; the engine shuffles it from its own RNG stream.
func NewResources() Resources {
	unplaced := make([]int, 0, 9)
	for power := 2; power <= 10; power++ {
		unplaced = append(unplaced, power)
	}
	return Resources{Unplaced: unplaced, Weapons: InitialWeapons}
}

// HasUnplaced reports whether the player still holds a unit of this power.
func (r *Resources) HasUnplaced(power int) bool {
	for _, p := range r.Unplaced {
		if p == power {
			return true
		}
	}
	return false
}

// RemoveUnplaced takes one unit of the given power out of the unplaced pool.
func (r *Resources) RemoveUnplaced(power int) bool {
	for i, p := range r.Unplaced {
		if p == power {
			r.Unplaced = append(r.Unplaced[:i], r.Unplaced[i+1:]...)
			return true
		}
	}
	return false
}

func (r Resources) copy() Resources {
	out := Resources{Weapons: r.Weapons}
	out.Unplaced = append([]int(nil), r.Unplaced...)
	out.Deck = append([]int(nil), r.Deck...)
	out.Discard = append([]int(nil), r.Discard...)
	return out
}
