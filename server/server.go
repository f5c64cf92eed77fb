// Package server exposes tournament standings over HTTP and streams live
// exhibition games over a websocket.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"skygrid/actions"
	"skygrid/agent"
	"skygrid/engine"
	"skygrid/game"
	"skygrid/results"
)

// Server serves standings from a results store and exhibition game streams.
type Server struct {
	store    *results.Store
	upgrader websocket.Upgrader
	catalog  *actions.Catalog
}

func New(store *results.Store) *Server {
	return &Server{
		store:    store,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		catalog:  actions.Default(),
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/standings", s.handleStandings).Methods(http.MethodGet)
	r.HandleFunc("/api/watch", s.handleWatch)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStandings(w http.ResponseWriter, _ *http.Request) {
	standings, err := s.store.Standings()
	if err != nil {
		log.Error().Err(err).Msg("standings query failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "standings unavailable"})
		return
	}
	if standings == nil {
		standings = []results.Standing{}
	}
	writeJSON(w, http.StatusOK, standings)
}

// event is one frame of an exhibition stream.
type event struct {
	Type   string `json:"type"` // "action" or "result"
	Player string `json:"player,omitempty"`
	Index  int    `json:"index,omitempty"`
	Action string `json:"action,omitempty"`
	Turn   int    `json:"turn"`
	Winner string `json:"winner,omitempty"`
	Draw   bool   `json:"draw,omitempty"`
}

// handleWatch upgrades to a websocket and streams one heuristic-vs-heuristic
// exhibition game, one event per applied action. The seed query parameter
// makes the game reproducible; it defaults to the current time.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	seed := time.Now().UnixNano()
	if q := r.URL.Query().Get("seed"); q != "" {
		if parsed, err := strconv.ParseInt(q, 10, 64); err == nil {
			seed = parsed
		}
	}

	if err := s.streamGame(conn, seed); err != nil {
		log.Warn().Err(err).Int64("seed", seed).Msg("exhibition stream ended early")
	}
}

func (s *Server) streamGame(conn *websocket.Conn, seed int64) error {
	eng := engine.New(seed)
	agents := [2]agent.Agent{
		agent.NewHeuristic("Exhibition-1", seed),
		agent.NewHeuristic("Exhibition-2", seed+1),
	}

	emit := func(p game.Player, idx int) error {
		action, err := s.catalog.Get(idx)
		if err != nil {
			return err
		}
		return conn.WriteJSON(event{
			Type:   "action",
			Player: p.String(),
			Index:  idx,
			Action: action.String(),
			Turn:   eng.State().Turn,
		})
	}

	for eng.Phase() == game.Placement && !eng.GameOver() {
		p := eng.CurrentPlayer()
		idx := agents[p].SelectAction(eng.State(), eng.LegalActions(), p)
		if !eng.ApplyAction(idx) {
			break
		}
		if err := emit(p, idx); err != nil {
			return err
		}
	}
	for eng.Phase() == game.Dogfights && !eng.GameOver() {
		eng.BeginDogfight()
		for !eng.DogfightComplete() {
			actor := eng.DogfightActor()
			idx := agents[actor].SelectAction(eng.State(), eng.DogfightLegalActions(actor), actor)
			if !eng.ApplyDogfightTurnAction(actor, idx) {
				return nil
			}
			if err := emit(actor, idx); err != nil {
				return err
			}
		}
		eng.FinishDogfight()
	}

	final := eng.State()
	result := event{Type: "result", Turn: final.Turn, Draw: final.Draw}
	if !final.Draw {
		result.Winner = final.Winner.String()
	}
	return conn.WriteJSON(result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("writing response")
	}
}
