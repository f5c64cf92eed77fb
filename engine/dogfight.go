package engine

import (
	"github.com/rs/zerolog/log"

	"skygrid/actions"
	"skygrid/game"
)

// fight tracks the negotiation of one dogfight between BeginDogfight and
// FinishDogfight. Turn actions are stored in order; roles fall out of that
// order at resolution time.
type fight struct {
	pos      game.Position
	underdog game.Player
	other    game.Player

	first  *actions.Action
	second *actions.Action
	third  *actions.Action

	actor     game.Player // whose turn it is
	pending   bool        // an offensive weapon awaits its response
	pendingBy game.Player
	complete  bool // negotiation done, resolution may run
}

// DogfightPosition returns the contested square up next. ok is false when no
// dogfights remain.
func (e *Engine) DogfightPosition() (game.Position, bool) {
	if e.state.Phase != game.Dogfights || e.state.DogfightIndex >= len(e.state.DogfightOrder) {
		return game.Position{}, false
	}
	return e.state.DogfightOrder[e.state.DogfightIndex], true
}

// DogfightActive reports whether a dogfight is currently being negotiated.
func (e *Engine) DogfightActive() bool { return e.fight != nil }

// BeginDogfight opens the next dogfight: both units on the square are
// revealed (the showdown), then the underdog is determined from the revealed
// powers. Equal powers are broken by the priority token, which flips to the
// other player each time it is used. Panics when called outside the dogfight
// phase or while another dogfight is still open.
func (e *Engine) BeginDogfight() game.Position {
	if e.state.Phase != game.Dogfights {
		panic("engine: BeginDogfight outside dogfight phase")
	}
	if e.fight != nil {
		panic("engine: BeginDogfight with a dogfight already open")
	}
	pos, ok := e.DogfightPosition()
	if !ok {
		panic("engine: BeginDogfight with no dogfights remaining")
	}

	sq := e.state.Square(pos)
	for i := range sq.Units {
		sq.Units[i].Hidden = false
	}

	underdog := e.underdogAt(sq)
	e.fight = &fight{
		pos:      pos,
		underdog: underdog,
		other:    underdog.Opponent(),
		actor:    underdog,
	}
	e.publishContext()

	log.Debug().
		Stringer("pos", pos).
		Stringer("underdog", underdog).
		Msg("dogfight begins")
	return pos
}

// underdogAt picks the lower-power unit's owner. On a tie the token holder
// goes first and the token flips.
func (e *Engine) underdogAt(sq *game.Square) game.Player {
	one, _ := sq.UnitOf(game.PlayerOne)
	two, _ := sq.UnitOf(game.PlayerTwo)
	switch {
	case one.Power < two.Power:
		return game.PlayerOne
	case two.Power < one.Power:
		return game.PlayerTwo
	default:
		holder := e.state.TokenHolder
		e.state.TokenHolder = holder.Opponent()
		return holder
	}
}

func (e *Engine) publishContext() {
	f := e.fight
	e.state.Context = &game.DogfightContext{
		Pos:           f.pos,
		Underdog:      f.underdog,
		Other:         f.other,
		WeaponPending: f.pending,
		PendingBy:     f.pendingBy,
	}
}

// DogfightActor returns who must act next in the open dogfight.
func (e *Engine) DogfightActor() game.Player {
	if e.fight == nil {
		panic("engine: DogfightActor with no dogfight open")
	}
	return e.fight.actor
}

// DogfightLegalActions returns p's legal indices for the open dogfight.
// Panics when p is not the player to act.
func (e *Engine) DogfightLegalActions(p game.Player) []int {
	if e.fight == nil {
		panic("engine: DogfightLegalActions with no dogfight open")
	}
	if p != e.fight.actor {
		panic("engine: DogfightLegalActions for the wrong player")
	}
	return e.catalog.LegalIndices(e.state, p)
}

// ApplyDogfightTurnAction applies one turn action for p in the open dogfight.
// It returns false, changing nothing, when the index is not legal for p.
// Calling it out of turn or with no dogfight open is a protocol violation and
// panics.
//
// The protocol: the underdog acts first. A weapon on the first turn is
// offensive and hands the turn to the other player; the dogfight then runs a
// third turn only if the other player answers with a weapon of their own,
// giving the underdog the chance to defend. A first-turn pass hands the turn
// over too, and the other player's weapon (now the offensive one) sends the
// turn back for the underdog's defensive response. Two turns where nobody
// escalates end the negotiation early.
func (e *Engine) ApplyDogfightTurnAction(p game.Player, index int) bool {
	f := e.fight
	if f == nil {
		panic("engine: ApplyDogfightTurnAction with no dogfight open")
	}
	if f.complete {
		panic("engine: ApplyDogfightTurnAction on a completed dogfight")
	}
	if p != f.actor {
		panic("engine: ApplyDogfightTurnAction out of turn")
	}
	if !containsIndex(e.catalog.LegalIndices(e.state, p), index) {
		return false
	}

	action, err := e.catalog.Get(index)
	if err != nil {
		panic(err) // unreachable, legality was just checked
	}
	e.history = append(e.history, Record{Player: p, Index: index})

	switch {
	case f.first == nil:
		f.first = &action
		if action.Type == actions.PlayWeapon {
			f.pending = true
			f.pendingBy = p
		}
		f.actor = f.other

	case f.second == nil:
		f.second = &action
		switch {
		case f.pending:
			// Underdog attacked first; this turn is the other player's
			// response and the negotiation is over either way.
			f.complete = true
		case action.Type == actions.PlayWeapon:
			f.pending = true
			f.pendingBy = p
			f.actor = f.underdog
		default:
			// Both passed.
			f.complete = true
		}

	default:
		f.third = &action
		f.complete = true
	}

	e.publishContext()
	return true
}

// DogfightComplete reports whether the open dogfight's negotiation is done
// and FinishDogfight may run.
func (e *Engine) DogfightComplete() bool {
	return e.fight != nil && e.fight.complete
}
