// Package engine owns the authoritative game state and every piece of
// game-affecting randomness. Agents only propose action indices; the engine
// validates and applies them. Given a seed and an action sequence the
// resulting state is fully deterministic.
package engine

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"skygrid/actions"
	"skygrid/game"
)

// Record is one applied action. The history plus the seed is enough to
// reproduce a game exactly; it is what the replay format serializes.
type Record struct {
	Player game.Player
	Index  int
}

// Engine drives one game.
type Engine struct {
	seed    int64
	rng     *rand.Rand
	state   *game.State
	catalog *actions.Catalog
	history []Record
	fight   *fight
}

// New creates an engine for a fresh game. The seed fixes the initial shuffle
// of both resolution decks and every later draw and reshuffle.
func New(seed int64) *Engine {
	e := &Engine{
		seed:    seed,
		rng:     rand.New(rand.NewSource(uint64(seed))),
		state:   game.NewState(seed),
		catalog: actions.Default(),
	}
	for _, p := range []game.Player{game.PlayerOne, game.PlayerTwo} {
		deck := make([]int, game.DeckSize)
		for i := range deck {
			deck[i] = i + 1
		}
		e.rng.Shuffle(len(deck), func(i, j int) {
			deck[i], deck[j] = deck[j], deck[i]
		})
		e.state.ResourcesOf(p).Deck = deck
	}
	return e
}

// FromState creates a disposable engine continuing from a snapshot, with its
// own fresh RNG stream. The snapshot is deep-copied, so nothing a simulation
// does on the returned engine can reach the caller's state.
func FromState(snapshot *game.State, seed int64) *Engine {
	return &Engine{
		seed:    seed,
		rng:     rand.New(rand.NewSource(uint64(seed))),
		state:   snapshot.Copy(),
		catalog: actions.Default(),
	}
}

func (e *Engine) Seed() int64 { return e.seed }

// State returns a deep copy of the current state.
func (e *Engine) State() *game.State { return e.state.Copy() }

func (e *Engine) Phase() game.Phase { return e.state.Phase }

// CurrentPlayer returns whose placement turn it is.
func (e *Engine) CurrentPlayer() game.Player { return e.state.Current }

// History returns the applied (player, action index) pairs in order.
func (e *Engine) History() []Record {
	out := make([]Record, len(e.history))
	copy(out, e.history)
	return out
}

// LegalActions returns the legal indices for the current placement player.
func (e *Engine) LegalActions() []int {
	return e.catalog.LegalIndices(e.state, e.state.Current)
}

// LegalActionsFor returns the legal indices for p.
func (e *Engine) LegalActionsFor(p game.Player) []int {
	return e.catalog.LegalIndices(e.state, p)
}

// LegalMask returns the legality mask for p.
func (e *Engine) LegalMask(p game.Player) []bool {
	return e.catalog.LegalMask(e.state, p)
}

// ApplyAction validates and applies a placement action for the current
// player. It returns false, leaving the state untouched, when the index is
// not currently legal. Calling it at all during the dogfight phase is a
// caller bug and panics: dogfights use the turn protocol in dogfight.go.
func (e *Engine) ApplyAction(index int) bool {
	if e.state.Phase == game.Dogfights {
		panic("engine: ApplyAction during dogfight phase, use ApplyDogfightTurnAction")
	}
	if !containsIndex(e.LegalActions(), index) {
		return false
	}

	action, err := e.catalog.Get(index)
	if err != nil {
		panic(err) // unreachable, legality was just checked
	}
	player := e.state.Current
	e.history = append(e.history, Record{Player: player, Index: index})
	e.applyPlacement(action, player)
	return true
}

func (e *Engine) applyPlacement(a actions.Action, p game.Player) {
	e.state.ResourcesOf(p).RemoveUnplaced(a.Power)

	unit := game.Unit{Owner: p, Power: a.Power, Hidden: game.HiddenPower(a.Power)}
	sq := e.state.Square(a.Pos)
	sq.Units = append(sq.Units, unit)

	e.state.Turn++
	e.state.Current = p.Opponent()

	if e.allPlaced() {
		e.enterDogfights()
	}
}

func (e *Engine) allPlaced() bool {
	return len(e.state.Resources[game.PlayerOne].Unplaced) == 0 &&
		len(e.state.Resources[game.PlayerTwo].Unplaced) == 0
}

// resolutionOrder is the fixed sweep for contested squares: center first,
// then edges, then corners.
var resolutionOrder = []game.Position{
	{Row: 1, Col: 1},
	{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 2}, {Row: 2, Col: 1},
	{Row: 0, Col: 0}, {Row: 0, Col: 2}, {Row: 2, Col: 0}, {Row: 2, Col: 2},
}

func (e *Engine) enterDogfights() {
	e.state.Phase = game.Dogfights
	for _, pos := range resolutionOrder {
		if e.state.Square(pos).Contested() {
			e.state.DogfightOrder = append(e.state.DogfightOrder, pos)
		}
	}
	e.state.DogfightIndex = 0

	log.Debug().
		Int64("seed", e.seed).
		Int("contested", len(e.state.DogfightOrder)).
		Msg("placement complete")

	if len(e.state.DogfightOrder) == 0 {
		e.endGame()
	}
}

// GameOver reports whether the game has ended.
func (e *Engine) GameOver() bool { return e.state.Over }

// Winner returns the winning player. ok is false while the game is still
// running and when it ended in a draw.
func (e *Engine) Winner() (game.Player, bool) {
	if !e.state.Over || e.state.Draw {
		return 0, false
	}
	return e.state.Winner, true
}

func containsIndex(indices []int, index int) bool {
	for _, i := range indices {
		if i == index {
			return true
		}
	}
	return false
}
