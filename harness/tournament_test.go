package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const configYAML = `
games: 2
base_seed: 50
agents:
  - kind: random
    name: rnd
    seed: 1
  - kind: heuristic
    name: heur
    seed: 2
  - kind: rollout
    name: mc
    seed: 3
    trials: 2
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tournament.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, configYAML))
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Games)
	require.Equal(t, int64(50), cfg.BaseSeed)
	require.Len(t, cfg.Agents, 3)
	require.Equal(t, "mc", cfg.Agents[2].Name)
	require.Equal(t, 2, cfg.Agents[2].Trials)

	_, err = LoadConfig(writeConfig(t, "agents:\n  - kind: random\n"))
	require.Error(t, err, "one agent is not a tournament")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestTournamentRoundRobin(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, configYAML))
	require.NoError(t, err)

	standings, games, err := cfg.Run()
	require.NoError(t, err)
	require.Len(t, games, 6, "three pairings, two games each")
	require.Len(t, standings, 3)

	totalGames := 0
	for _, s := range standings {
		require.Equal(t, 4, s.Games, "each agent plays every pairing")
		require.Equal(t, s.Games, s.Wins+s.Losses+s.Draws)
		totalGames += s.Games
	}
	require.Equal(t, 12, totalGames)

	for i := 1; i < len(standings); i++ {
		require.GreaterOrEqual(t, standings[i-1].Points(), standings[i].Points(),
			"standings sort by points")
	}
}

func TestTournamentRejectsDuplicateNames(t *testing.T) {
	cfg := &Config{
		Games: 1,
		Agents: []AgentSpec{
			{Kind: "random", Name: "x", Seed: 1},
			{Kind: "random", Name: "x", Seed: 2},
		},
	}
	_, _, err := cfg.Run()
	require.Error(t, err)
}
