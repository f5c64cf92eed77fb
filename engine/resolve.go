package engine

import (
	"github.com/rs/zerolog/log"

	"skygrid/actions"
	"skygrid/game"
)

// Result is the outcome of one resolved dogfight.
type Result struct {
	Pos        game.Position
	Winner     game.Player
	Draw       bool // both units eliminated
	Eliminated []game.Player
	Cards      [2][]int // resolution cards drawn, by player
}

// FinishDogfight resolves the open dogfight from its recorded turn actions
// and advances to the next contested square, ending the game when a line is
// completed or no dogfights remain. Panics when the negotiation is not
// complete.
func (e *Engine) FinishDogfight() Result {
	f := e.fight
	if f == nil {
		panic("engine: FinishDogfight with no dogfight open")
	}
	if !f.complete {
		panic("engine: FinishDogfight before the negotiation is complete")
	}

	offense, defense := f.roles()
	e.spendWeapons(offense, defense)

	res := Result{Pos: f.pos}
	sq := e.state.Square(f.pos)

	resolved := false
	if offense != nil && defense == nil {
		// Undefended attack: one card decides an outright hit, a miss falls
		// through to base resolution.
		card := e.drawCard(*offense)
		res.Cards[*offense] = append(res.Cards[*offense], card)
		if card >= game.HitThreshold {
			res.Winner = *offense
			res.Eliminated = []game.Player{offense.Opponent()}
			resolved = true
		}
	}
	if !resolved {
		res = e.resolveBase(res, sq)
	}

	for _, p := range res.Eliminated {
		e.eliminate(sq, p)
	}

	log.Debug().
		Stringer("pos", f.pos).
		Bool("draw", res.Draw).
		Msg("dogfight resolved")

	e.fight = nil
	e.state.Context = nil
	e.state.DogfightIndex++
	e.afterResolution()
	return res
}

// roles derives the offensive and defensive weapon players from the recorded
// turn order. Nil means no weapon was played in that role. Two offensive
// weapons are impossible under the turn protocol.
func (f *fight) roles() (offense, defense *game.Player) {
	plays := []struct {
		act    *actions.Action
		player game.Player
	}{
		{f.first, f.underdog},
		{f.second, f.other},
		{f.third, f.underdog},
	}
	for _, turn := range plays {
		if turn.act == nil || turn.act.Type != actions.PlayWeapon {
			continue
		}
		p := turn.player
		switch {
		case offense == nil:
			offense = &p
		case defense == nil:
			defense = &p
		default:
			panic("engine: more than two weapons in one dogfight")
		}
	}
	if offense != nil && defense != nil && *offense == *defense {
		panic("engine: both weapons from the same player")
	}
	return offense, defense
}

func (e *Engine) spendWeapons(players ...*game.Player) {
	for _, p := range players {
		if p == nil {
			continue
		}
		res := e.state.ResourcesOf(*p)
		if res.Weapons <= 0 {
			panic("engine: weapon played with none remaining")
		}
		res.Weapons--
	}
}

// resolveBase settles the square on raw power plus one resolution card each.
// The higher total wins; a tie eliminates both units.
func (e *Engine) resolveBase(res Result, sq *game.Square) Result {
	one, _ := sq.UnitOf(game.PlayerOne)
	two, _ := sq.UnitOf(game.PlayerTwo)

	cardOne := e.drawCard(game.PlayerOne)
	cardTwo := e.drawCard(game.PlayerTwo)
	res.Cards[game.PlayerOne] = append(res.Cards[game.PlayerOne], cardOne)
	res.Cards[game.PlayerTwo] = append(res.Cards[game.PlayerTwo], cardTwo)

	totalOne := one.Power + cardOne
	totalTwo := two.Power + cardTwo
	switch {
	case totalOne > totalTwo:
		res.Winner = game.PlayerOne
		res.Eliminated = append(res.Eliminated, game.PlayerTwo)
	case totalTwo > totalOne:
		res.Winner = game.PlayerTwo
		res.Eliminated = append(res.Eliminated, game.PlayerOne)
	default:
		res.Draw = true
		res.Eliminated = append(res.Eliminated, game.PlayerOne, game.PlayerTwo)
	}
	return res
}

func (e *Engine) eliminate(sq *game.Square, p game.Player) {
	kept := sq.Units[:0]
	for _, u := range sq.Units {
		if u.Owner != p {
			kept = append(kept, u)
		}
	}
	sq.Units = kept
}

// afterResolution checks for completed lines after every dogfight. If both
// players completed a line in the same resolution the priority-token holder
// takes the game.
func (e *Engine) afterResolution() {
	lineOne := e.state.HasLine(game.PlayerOne)
	lineTwo := e.state.HasLine(game.PlayerTwo)
	switch {
	case lineOne && lineTwo:
		e.declareWinner(e.state.TokenHolder)
	case lineOne:
		e.declareWinner(game.PlayerOne)
	case lineTwo:
		e.declareWinner(game.PlayerTwo)
	default:
		if e.state.DogfightIndex >= len(e.state.DogfightOrder) {
			e.endGame()
		}
	}
}

func (e *Engine) declareWinner(p game.Player) {
	e.state.Over = true
	e.state.Winner = p
	e.state.Phase = game.Ended
	log.Info().Int64("seed", e.seed).Stringer("winner", p).Msg("game over")
}

// endGame settles a game with no dogfights left: a completed line wins,
// otherwise most controlled squares, otherwise a draw.
func (e *Engine) endGame() {
	lineOne := e.state.HasLine(game.PlayerOne)
	lineTwo := e.state.HasLine(game.PlayerTwo)
	switch {
	case lineOne && lineTwo:
		e.declareWinner(e.state.TokenHolder)
		return
	case lineOne:
		e.declareWinner(game.PlayerOne)
		return
	case lineTwo:
		e.declareWinner(game.PlayerTwo)
		return
	}

	countOne := e.state.ControlledCount(game.PlayerOne)
	countTwo := e.state.ControlledCount(game.PlayerTwo)
	switch {
	case countOne > countTwo:
		e.declareWinner(game.PlayerOne)
	case countTwo > countOne:
		e.declareWinner(game.PlayerTwo)
	default:
		e.state.Over = true
		e.state.Draw = true
		e.state.Phase = game.Ended
		log.Info().Int64("seed", e.seed).Msg("game over, draw")
	}
}

// drawCard draws the top resolution card for p, reshuffling the discard back
// into an empty pile first. The drawn card goes straight to the discard, so
// pile plus discard always hold all thirteen cards.
func (e *Engine) drawCard(p game.Player) int {
	res := e.state.ResourcesOf(p)
	if len(res.Deck) == 0 {
		res.Deck = res.Discard
		res.Discard = nil
		e.rng.Shuffle(len(res.Deck), func(i, j int) {
			res.Deck[i], res.Deck[j] = res.Deck[j], res.Deck[i]
		})
	}
	card := res.Deck[0]
	res.Deck = res.Deck[1:]
	res.Discard = append(res.Discard, card)
	return card
}
