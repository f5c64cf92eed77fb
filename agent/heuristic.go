package agent

import (
	"golang.org/x/exp/rand"

	"skygrid/actions"
	"skygrid/game"
)

// positionValues ranks squares center > edges > corners.
var positionValues = map[game.Position]float64{
	{Row: 1, Col: 1}: 10,
	{Row: 0, Col: 1}: 7, {Row: 1, Col: 0}: 7, {Row: 1, Col: 2}: 7, {Row: 2, Col: 1}: 7,
	{Row: 0, Col: 0}: 4, {Row: 0, Col: 2}: 4, {Row: 2, Col: 0}: 4, {Row: 2, Col: 2}: 4,
}

// Heuristic plays simple strategic rules: strong units on valuable squares,
// line completion and blocking during placement, and a weapon-economy tree
// during dogfights. It reads only public state, never hidden powers.
type Heuristic struct {
	name    string
	rng     *rand.Rand
	catalog *actions.Catalog
}

func NewHeuristic(name string, seed int64) *Heuristic {
	return &Heuristic{
		name:    name,
		rng:     rand.New(rand.NewSource(uint64(seed))),
		catalog: actions.Default(),
	}
}

func (a *Heuristic) Name() string { return a.name }

func (a *Heuristic) SelectAction(state *game.State, legal []int, player game.Player) int {
	switch state.Phase {
	case game.Placement:
		return a.selectPlacement(state, legal, player)
	case game.Dogfights:
		return a.selectDogfight(state, legal, player)
	default:
		return legal[a.rng.Intn(len(legal))]
	}
}

// selectPlacement scores every legal placement and picks uniformly among the
// best. Score is position value plus a strength bonus for putting big powers
// on big squares, a contest bonus and line awareness.
func (a *Heuristic) selectPlacement(state *game.State, legal []int, player game.Player) int {
	bestScore := 0.0
	var best []int

	for _, idx := range legal {
		action, err := a.catalog.Get(idx)
		if err != nil || action.Type != actions.Place {
			continue
		}

		posValue := positionValues[action.Pos]
		strength := float64(action.Power-2) / 8.0
		score := posValue + strength*posValue*0.5

		if owner, ok := state.Square(action.Pos).Controller(); ok && owner == player.Opponent() {
			score += 3.0
		}
		score += placementLineBonus(state, player, action.Pos)

		switch {
		case len(best) == 0 || score > bestScore:
			bestScore = score
			best = []int{idx}
		case score == bestScore:
			best = append(best, idx)
		}
	}
	if len(best) == 0 {
		return legal[a.rng.Intn(len(legal))]
	}
	return best[a.rng.Intn(len(best))]
}

// placementLineBonus rewards completing a line, blocking the opponent's, and
// building or contesting partial lines.
func placementLineBonus(state *game.State, player game.Player, pos game.Position) float64 {
	bonus := 0.0
	for _, line := range game.LinesThrough(pos) {
		mine, theirs := 0, 0
		for _, lp := range line {
			if lp == pos {
				continue
			}
			if owner, ok := state.Square(lp).Controller(); ok {
				if owner == player {
					mine++
				} else {
					theirs++
				}
			}
		}
		switch {
		case mine == 2 && theirs == 0:
			bonus += 50.0
		case theirs == 2 && mine == 0:
			bonus += 30.0
		case mine == 1 && theirs == 0:
			bonus += 5.0
		case theirs == 1 && mine == 0:
			bonus += 3.0
		}
	}
	return bonus
}

// dogfightImportance measures how much winning the square at pos matters for
// line control, ignoring the square itself.
func dogfightImportance(state *game.State, player game.Player, pos game.Position) float64 {
	importance := 0.0
	for _, line := range game.LinesThrough(pos) {
		mine, theirs := 0, 0
		for _, lp := range line {
			if lp == pos {
				continue
			}
			if owner, ok := state.Square(lp).Controller(); ok {
				if owner == player {
					mine++
				} else {
					theirs++
				}
			}
		}
		switch {
		case mine == 2 && theirs == 0:
			importance += 100.0
		case theirs == 2 && mine == 0:
			importance += 80.0
		case mine == 1 && theirs == 0:
			importance += 10.0
		case theirs == 1 && mine == 0:
			importance += 8.0
		}
	}
	return importance
}

func (a *Heuristic) selectDogfight(state *game.State, legal []int, player game.Player) int {
	ctx := state.Context
	if ctx == nil || state.DogfightIndex >= len(state.DogfightOrder) {
		return a.pickType(legal, actions.Pass)
	}

	sq := state.Square(ctx.Pos)
	mine, okMine := sq.UnitOf(player)
	theirs, okTheirs := sq.UnitOf(player.Opponent())
	if !okMine || !okTheirs {
		return a.pickType(legal, actions.Pass)
	}

	res := state.ResourcesOf(player)
	if res.Weapons == 0 || !a.hasType(legal, actions.PlayWeapon) {
		return a.pickType(legal, actions.Pass)
	}

	powerDiff := mine.Power - theirs.Power
	importance := dogfightImportance(state, player, ctx.Pos)
	defending := ctx.WeaponPending

	// Critical squares are worth a weapon regardless of role.
	if importance >= 80.0 {
		return a.pickType(legal, actions.PlayWeapon)
	}

	if defending {
		switch {
		case importance >= 20.0 && res.Weapons >= 2:
			return a.pickType(legal, actions.PlayWeapon)
		case powerDiff >= -1:
			return a.pickType(legal, actions.PlayWeapon)
		case powerDiff == -2 && res.Weapons >= 3:
			return a.pickType(legal, actions.PlayWeapon)
		default:
			// Far behind, save weapons for squares we can still win.
			return a.pickType(legal, actions.Pass)
		}
	}

	switch {
	case importance >= 20.0:
		return a.pickType(legal, actions.PlayWeapon)
	case powerDiff <= 0:
		return a.pickType(legal, actions.PlayWeapon)
	case res.Weapons >= 3:
		return a.pickType(legal, actions.PlayWeapon)
	default:
		// Ahead with few weapons left, win on the card draw instead.
		return a.pickType(legal, actions.Pass)
	}
}

func (a *Heuristic) hasType(legal []int, t actions.Type) bool {
	for _, idx := range legal {
		if action, err := a.catalog.Get(idx); err == nil && action.Type == t {
			return true
		}
	}
	return false
}

// pickType returns a legal index of the given type, falling back to any legal
// action.
func (a *Heuristic) pickType(legal []int, t actions.Type) int {
	matching := make([]int, 0, len(legal))
	for _, idx := range legal {
		if action, err := a.catalog.Get(idx); err == nil && action.Type == t {
			matching = append(matching, idx)
		}
	}
	if len(matching) == 0 {
		return legal[a.rng.Intn(len(legal))]
	}
	return matching[a.rng.Intn(len(matching))]
}
