// Package replay serializes finished games to a compact, versioned format:
// zstd-compressed JSON validated against an embedded schema. A replay plus
// the engine is enough to reconstruct every intermediate state.
package replay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"skygrid/engine"
	"skygrid/game"
)

// Version of the replay format.
const Version = 1

// Step is one applied action.
type Step struct {
	Player int `json:"player"`
	Index  int `json:"index"`
}

// Replay is the serialized form of one finished game.
type Replay struct {
	Version   int    `json:"version"`
	Seed      int64  `json:"seed"`
	PlayerOne string `json:"player_one"`
	PlayerTwo string `json:"player_two"`
	Winner    string `json:"winner"` // "Player1", "Player2" or "draw"
	Actions   []Step `json:"actions"`
}

// FromEngine captures a finished game from its engine.
func FromEngine(e *engine.Engine, playerOne, playerTwo string) *Replay {
	r := &Replay{
		Version:   Version,
		Seed:      e.Seed(),
		PlayerOne: playerOne,
		PlayerTwo: playerTwo,
		Winner:    "draw",
	}
	if winner, ok := e.Winner(); ok {
		r.Winner = winner.String()
	}
	for _, rec := range e.History() {
		r.Actions = append(r.Actions, Step{Player: int(rec.Player), Index: rec.Index})
	}
	return r
}

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "seed", "player_one", "player_two", "winner", "actions"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "seed": {"type": "integer"},
    "player_one": {"type": "string", "minLength": 1},
    "player_two": {"type": "string", "minLength": 1},
    "winner": {"enum": ["Player1", "Player2", "draw"]},
    "actions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["player", "index"],
        "properties": {
          "player": {"type": "integer", "minimum": 0, "maximum": 1},
          "index": {"type": "integer", "minimum": 0, "maximum": 85}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

func replaySchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		schema = jsonschema.MustCompileString("replay.schema.json", schemaJSON)
	})
	return schema
}

// Validate checks a raw replay document against the schema.
func Validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parsing replay: %w", err)
	}
	if err := replaySchema().Validate(doc); err != nil {
		return fmt.Errorf("invalid replay: %w", err)
	}
	return nil
}

// Save writes the replay to path as zstd-compressed JSON.
func (r *Replay) Save(path string) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding replay: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating replay file: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("opening compressor: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return fmt.Errorf("writing replay: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flushing replay: %w", err)
	}
	return f.Close()
}

// Load reads, decompresses and validates a replay file.
func Load(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening replay file: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("opening decompressor: %w", err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompressing replay: %w", err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}

	var r Replay
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding replay: %w", err)
	}
	if r.Version != Version {
		return nil, fmt.Errorf("unsupported replay version %d", r.Version)
	}
	return &r, nil
}

// Rebuild replays the recorded actions through a fresh engine and returns it
// in its final state. It fails when a recorded action does not match what the
// engine expects, which indicates a corrupted or mismatched replay.
func (r *Replay) Rebuild() (*engine.Engine, error) {
	e := engine.New(r.Seed)
	for i, step := range r.Actions {
		player := game.Player(step.Player)
		switch e.Phase() {
		case game.Placement:
			if e.CurrentPlayer() != player {
				return nil, fmt.Errorf("step %d: recorded player %s, engine expects %s",
					i, player, e.CurrentPlayer())
			}
			if !e.ApplyAction(step.Index) {
				return nil, fmt.Errorf("step %d: action %d rejected", i, step.Index)
			}
		case game.Dogfights:
			if !e.DogfightActive() {
				e.BeginDogfight()
			}
			if e.DogfightActor() != player {
				return nil, fmt.Errorf("step %d: recorded player %s, engine expects %s",
					i, player, e.DogfightActor())
			}
			if !e.ApplyDogfightTurnAction(player, step.Index) {
				return nil, fmt.Errorf("step %d: action %d rejected", i, step.Index)
			}
			if e.DogfightComplete() {
				e.FinishDogfight()
			}
		default:
			return nil, fmt.Errorf("step %d: action recorded after game end", i)
		}
	}
	if !e.GameOver() {
		return nil, fmt.Errorf("replay ends before the game does")
	}
	return e, nil
}
