package harness

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"skygrid/agent"
)

// AgentSpec describes one tournament entrant in the YAML config.
type AgentSpec struct {
	Kind      string `yaml:"kind"` // random, heuristic, rollout
	Name      string `yaml:"name"`
	Seed      int64  `yaml:"seed"`
	Trials    int    `yaml:"trials"`
	Samples   int    `yaml:"hidden_samples"`
	Dogfights bool   `yaml:"evaluate_dogfights"`
}

// Build constructs the agent this spec describes.
func (s AgentSpec) Build() (agent.Agent, error) {
	name := s.Name
	if name == "" {
		name = s.Kind
	}
	switch s.Kind {
	case "random":
		return agent.NewRandom(name, s.Seed), nil
	case "heuristic":
		return agent.NewHeuristic(name, s.Seed), nil
	case "rollout":
		opts := []agent.Option{agent.WithName(name)}
		if s.Trials > 0 {
			opts = append(opts, agent.WithTrials(s.Trials))
		}
		if s.Samples > 0 {
			opts = append(opts, agent.WithHiddenSampling(s.Samples))
		}
		if s.Dogfights {
			opts = append(opts, agent.WithDogfightEvaluation())
		}
		return agent.NewRollout(s.Seed, opts...), nil
	default:
		return nil, fmt.Errorf("unknown agent kind %q", s.Kind)
	}
}

// Config is a round-robin tournament definition.
type Config struct {
	Games     int         `yaml:"games"` // per pairing
	BaseSeed  int64       `yaml:"base_seed"`
	ReplayDir string      `yaml:"replay_dir"`
	ResultsDB string      `yaml:"results_db"`
	Agents    []AgentSpec `yaml:"agents"`
}

// LoadConfig reads a tournament config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Games <= 0 {
		cfg.Games = 10
	}
	if len(cfg.Agents) < 2 {
		return nil, fmt.Errorf("tournament needs at least two agents, got %d", len(cfg.Agents))
	}
	return &cfg, nil
}

// Standing is one agent's tournament record. Wins score 1 point, draws half.
type Standing struct {
	Name   string
	Games  int
	Wins   int
	Losses int
	Draws  int
}

func (s Standing) Points() float64 {
	return float64(s.Wins) + 0.5*float64(s.Draws)
}

// Run plays every pairing round-robin and returns the standings sorted by
// points, plus every individual game result.
func (cfg *Config) Run() ([]Standing, []GameResult, error) {
	entrants := make([]agent.Agent, len(cfg.Agents))
	for i, spec := range cfg.Agents {
		a, err := spec.Build()
		if err != nil {
			return nil, nil, fmt.Errorf("agent %d: %w", i, err)
		}
		entrants[i] = a
	}

	h := &Harness{ReplayDir: cfg.ReplayDir}
	table := make(map[string]*Standing)
	for _, a := range entrants {
		if _, dup := table[a.Name()]; dup {
			return nil, nil, fmt.Errorf("duplicate agent name %q", a.Name())
		}
		table[a.Name()] = &Standing{Name: a.Name()}
	}

	var games []GameResult
	seed := cfg.BaseSeed
	for i := 0; i < len(entrants); i++ {
		for j := i + 1; j < len(entrants); j++ {
			match, err := h.RunMatch(entrants[i], entrants[j], cfg.Games, seed)
			if err != nil {
				return nil, nil, fmt.Errorf("%s vs %s: %w", entrants[i].Name(), entrants[j].Name(), err)
			}
			seed += int64(cfg.Games)
			games = append(games, match.Games...)

			for _, res := range match.Games {
				for _, name := range []string{res.One, res.Two} {
					table[name].Games++
				}
				switch {
				case res.Draw:
					table[res.One].Draws++
					table[res.Two].Draws++
				default:
					winner := res.WinnerName()
					loser := res.One
					if winner == res.One {
						loser = res.Two
					}
					table[winner].Wins++
					table[loser].Losses++
				}
			}
		}
	}

	standings := make([]Standing, 0, len(table))
	for _, s := range table {
		standings = append(standings, *s)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points() != standings[j].Points() {
			return standings[i].Points() > standings[j].Points()
		}
		return standings[i].Name < standings[j].Name
	})
	return standings, games, nil
}
