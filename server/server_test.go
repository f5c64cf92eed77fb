package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"skygrid/game"
	"skygrid/harness"
	"skygrid/results"
)

func testServer(t *testing.T) (*httptest.Server, *results.Store) {
	t.Helper()
	store, err := results.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	srv := httptest.NewServer(New(store).Router())
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv, store
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStandingsEndpoint(t *testing.T) {
	srv, store := testServer(t)
	require.NoError(t, store.RecordGame(harness.GameResult{
		Seed: 1, One: "alice", Two: "bob", Winner: game.PlayerOne, Turns: 18,
	}))

	resp, err := http.Get(srv.URL + "/api/standings")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var standings []results.Standing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&standings))
	require.Len(t, standings, 2)
	require.Equal(t, "alice", standings[0].Agent)
	require.Equal(t, 1, standings[0].Wins)
}

func TestStandingsEmptyIsArray(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/api/standings")
	require.NoError(t, err)
	defer resp.Body.Close()

	var standings []results.Standing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&standings))
	require.NotNil(t, standings, "empty standings encode as [], not null")
	require.Empty(t, standings)
}

func TestWatchStreamsFullGame(t *testing.T) {
	srv, _ := testServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/watch?seed=42"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	actionsSeen := 0
	for {
		var ev event
		require.NoError(t, conn.ReadJSON(&ev))
		if ev.Type == "result" {
			if !ev.Draw {
				require.Contains(t, []string{"Player1", "Player2"}, ev.Winner)
			}
			break
		}
		require.Equal(t, "action", ev.Type)
		require.Contains(t, []string{"Player1", "Player2"}, ev.Player)
		actionsSeen++
	}
	require.GreaterOrEqual(t, actionsSeen, 18, "at least every placement streams")
}
