package agent

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"skygrid/engine"
	"skygrid/game"
)

// maxPlayoutSteps bounds a single playout. A game needs well under a hundred
// steps; hitting the bound means the simulation wedged.
const maxPlayoutSteps = 1000

// Rollout evaluates each candidate action by playing random games to the end
// on disposable engine copies and picking the action with the best win rate.
// Draws count half. With hidden-information sampling enabled each trial runs
// against freshly sampled opponent hidden powers and pile order instead of
// peeking at the true state.
type Rollout struct {
	name      string
	seed      int64
	trials    int
	samples   int // hidden-information samples per trial, 0 = perfect information
	dogfights bool
	rng       *rand.Rand
}

// Option configures a Rollout agent.
type Option func(*Rollout)

// WithTrials sets the number of playouts per candidate action.
func WithTrials(n int) Option {
	return func(a *Rollout) { a.trials = n }
}

// WithHiddenSampling enables information-set sampling with the given number
// of samples per trial.
func WithHiddenSampling(samples int) Option {
	return func(a *Rollout) { a.samples = samples }
}

// WithDogfightEvaluation makes the agent evaluate the opening decision of
// each dogfight via rollouts instead of playing it randomly.
func WithDogfightEvaluation() Option {
	return func(a *Rollout) { a.dogfights = true }
}

func WithName(name string) Option {
	return func(a *Rollout) { a.name = name }
}

func NewRollout(seed int64, opts ...Option) *Rollout {
	a := &Rollout{
		name:   "Rollout",
		seed:   seed,
		trials: 50,
		rng:    rand.New(rand.NewSource(uint64(seed))),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Rollout) Name() string { return a.name }

func (a *Rollout) SelectAction(state *game.State, legal []int, player game.Player) int {
	if len(legal) == 1 {
		return legal[0]
	}

	if state.Phase == game.Dogfights {
		if !a.dogfights {
			return legal[a.rng.Intn(len(legal))]
		}
		// Only the opening decision of a dogfight is evaluated. Mid-fight
		// states cannot be reconstructed on a disposable engine, and when the
		// opponent is the underdog the first move is not ours to make.
		ctx := state.Context
		if ctx == nil || ctx.WeaponPending || ctx.Underdog != player {
			return legal[a.rng.Intn(len(legal))]
		}
		return a.best(state, legal, player, a.evaluateDogfight)
	}

	return a.best(state, legal, player, a.evaluatePlacement)
}

type evaluator func(state *game.State, index int, player game.Player) float64

func (a *Rollout) best(state *game.State, legal []int, player game.Player, eval evaluator) int {
	bestScore := -1.0
	var best []int
	for _, idx := range legal {
		score := eval(state, idx, player)
		switch {
		case score > bestScore:
			bestScore = score
			best = []int{idx}
		case score == bestScore:
			best = append(best, idx)
		}
	}
	return best[a.rng.Intn(len(best))]
}

// tally accumulates playout outcomes for one candidate action.
type tally struct {
	wins     int
	draws    int
	failures int
	total    int
}

// score converts the tally to a win rate with draws worth half. When more
// than half the playouts failed the estimate is junk, so the action scores
// neutral instead.
func (t tally) score() float64 {
	if t.total == 0 || t.failures*2 > t.total {
		return 0.5
	}
	return (float64(t.wins) + 0.5*float64(t.draws)) / float64(t.total)
}

func (a *Rollout) evaluatePlacement(state *game.State, index int, player game.Player) float64 {
	var t tally
	samples := a.samples
	if samples < 1 {
		samples = 1
	}
	for trial := 0; trial < a.trials; trial++ {
		for sample := 0; sample < samples; sample++ {
			t.total++
			base := state
			trialSeed := deriveSeed(state.Seed, int64(state.Turn), int64(trial), int64(sample))
			if a.samples > 0 {
				base = SampleHidden(state, player, trialSeed)
			}

			winner, draw, err := a.playTrial(base, trialSeed, player, func(sim *engine.Engine) error {
				if !sim.ApplyAction(index) {
					return fmt.Errorf("candidate action %d rejected", index)
				}
				return nil
			})
			t.record(winner, draw, err, player)
		}
	}
	return t.score()
}

func (a *Rollout) evaluateDogfight(state *game.State, index int, player game.Player) float64 {
	var t tally
	samples := a.samples
	if samples < 1 {
		samples = 1
	}
	for trial := 0; trial < a.trials; trial++ {
		for sample := 0; sample < samples; sample++ {
			t.total++
			base := state
			trialSeed := deriveSeed(state.Seed, int64(state.Turn), int64(trial), int64(sample))
			if a.samples > 0 {
				base = SampleHidden(state, player, trialSeed)
			}

			winner, draw, err := a.playTrial(base, trialSeed, player, func(sim *engine.Engine) error {
				// The disposable engine re-opens the dogfight; its actor may
				// differ from us after a token tie-break, which is fine for
				// evaluation purposes.
				sim.BeginDogfight()
				actor := sim.DogfightActor()
				if !sim.ApplyDogfightTurnAction(actor, index) {
					return fmt.Errorf("candidate action %d rejected", index)
				}
				return nil
			})
			t.record(winner, draw, err, player)
		}
	}
	return t.score()
}

func (t *tally) record(winner game.Player, draw bool, err error, player game.Player) {
	switch {
	case err != nil:
		t.failures++
		t.draws++ // failed playouts count neutral
	case draw:
		t.draws++
	case winner == player:
		t.wins++
	}
}

// playTrial runs one playout on a disposable engine: apply the candidate via
// start, then play randomly to the end. Panics from inconsistent sampled
// states are recovered and reported as errors.
func (a *Rollout) playTrial(base *game.State, seed int64, player game.Player, start func(*engine.Engine) error) (winner game.Player, draw bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("playout failed: %v", r)
			log.Debug().Str("agent", a.name).Interface("cause", r).Msg("playout recovered")
		}
	}()

	sim := engine.FromState(base, seed)
	rng := rand.New(rand.NewSource(uint64(seed) ^ 0x9e3779b97f4a7c15))
	if err := start(sim); err != nil {
		return 0, false, err
	}
	return playOut(sim, rng)
}

// playOut plays randomly until the game ends.
func playOut(sim *engine.Engine, rng *rand.Rand) (game.Player, bool, error) {
	for steps := 0; !sim.GameOver(); steps++ {
		if steps >= maxPlayoutSteps {
			return 0, false, fmt.Errorf("playout exceeded %d steps", maxPlayoutSteps)
		}
		switch sim.Phase() {
		case game.Placement:
			legal := sim.LegalActions()
			sim.ApplyAction(legal[rng.Intn(len(legal))])
		case game.Dogfights:
			if !sim.DogfightActive() {
				sim.BeginDogfight()
			}
			for !sim.DogfightComplete() {
				actor := sim.DogfightActor()
				legal := sim.DogfightLegalActions(actor)
				sim.ApplyDogfightTurnAction(actor, legal[rng.Intn(len(legal))])
			}
			sim.FinishDogfight()
		}
	}
	winner, ok := sim.Winner()
	return winner, !ok, nil
}

// deriveSeed mixes the game seed, turn number, trial and sample into one
// well-spread playout seed, so evaluations are reproducible per position.
func deriveSeed(seed, turn, trial, sample int64) int64 {
	x := uint64(seed)
	for _, v := range []int64{turn, trial, sample} {
		x ^= uint64(v) + 0x9e3779b97f4a7c15 + (x << 6) + (x >> 2)
		x *= 0xbf58476d1ce4e5b9
		x ^= x >> 27
	}
	return int64(x)
}
