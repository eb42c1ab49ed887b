// Package api is the transport between the query engine and the dashboard
// frontend: plain JSON endpoints for one-shot queries and a WebSocket
// channel for type-ahead search.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dclough/roledash/internal/roles"
	"github.com/dclough/roledash/internal/telemetry"
)

// SnapshotLoader re-runs the dataset load and returns a fresh snapshot.
type SnapshotLoader func() (*roles.Snapshot, error)

// Server answers dashboard queries over HTTP and WebSocket. The engine is
// swapped atomically on reload so in-flight requests keep a consistent
// snapshot view.
type Server struct {
	engine atomic.Pointer[roles.Engine]
	ids    roles.IdentityTable
	load   SnapshotLoader
	reload singleflight.Group
	hub    *wsHub
}

func NewServer(engine *roles.Engine, ids roles.IdentityTable, load SnapshotLoader, queryRate float64, queryBurst int) *Server {
	s := &Server{ids: ids, load: load}
	s.engine.Store(engine)
	s.hub = newWSHub(s, queryRate, queryBurst)
	return s
}

// Engine returns the currently active query engine.
func (s *Server) Engine() *roles.Engine { return s.engine.Load() }

// RegisterRoutes wires HTTP routes onto the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /players/card", s.handlePlayerCard)
	mux.HandleFunc("GET /clusters/{id}/report", s.handleClusterReport)
	mux.HandleFunc("GET /clusters", s.handleClusterList)
	mux.HandleFunc("GET /scatter", s.handleScatter)
	mux.HandleFunc("POST /reload", s.handleReload)
	mux.HandleFunc("GET /ws", s.hub.handleWS)
}

// ListenAndServe starts the API server.
func (s *Server) ListenAndServe(host string, port int) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", host, port)
	telemetry.Infof("api: listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"players": len(s.Engine().Snapshot().Players()),
	})
}

// handleSearch resolves ?q= to matching names. An empty query is a valid
// request with an empty result, not an error. ?clusters=0,2 restricts
// matches to players whose primary cluster is in the set.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	telemetry.Metrics.SearchQueries.Inc()

	eng := s.Engine()
	names := eng.Search(r.URL.Query().Get("q"))

	if filter, err := parseClusterFilter(r.URL.Query().Get("clusters")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	} else if filter != nil {
		names = filterByCluster(eng.Snapshot(), names, filter)
	}

	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"names": names})
	telemetry.Metrics.QueryLatency.Record(time.Since(start))
}

func (s *Server) handlePlayerCard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	telemetry.Metrics.CardRequests.Inc()

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing ?name= query param")
		return
	}

	card, err := s.Engine().PlayerCard(name)
	if errors.Is(err, roles.ErrPlayerNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("player %q not found", name))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, card)
	telemetry.Metrics.QueryLatency.Record(time.Since(start))
}

func (s *Server) handleClusterReport(w http.ResponseWriter, r *http.Request) {
	telemetry.Metrics.ReportRequests.Inc()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cluster id must be an integer")
		return
	}

	rep, err := s.Engine().ClusterReport(id)
	if errors.Is(err, roles.ErrClusterNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("cluster %d not found", id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleClusterList(w http.ResponseWriter, _ *http.Request) {
	eng := s.Engine()
	type entry struct {
		ClusterID   int    `json:"cluster_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		PlayerCount int    `json:"player_count"`
	}
	var out []entry
	for _, id := range eng.Snapshot().ClusterIDs() {
		out = append(out, entry{
			ClusterID:   id,
			Name:        s.ids.Name(id),
			Description: s.ids.Description(id),
			PlayerCount: len(eng.Snapshot().PlayersInCluster(id)),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"clusters": out})
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	telemetry.Metrics.ScatterRequests.Inc()

	filter, err := parseClusterFilter(r.URL.Query().Get("clusters"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"series": s.Engine().Scatter(filter)})
}

// handleReload re-runs the dataset load and swaps in the fresh snapshot.
// Concurrent reload requests collapse into a single load; everyone gets
// the same outcome.
func (s *Server) handleReload(w http.ResponseWriter, _ *http.Request) {
	_, err, shared := s.reload.Do("reload", func() (any, error) {
		snap, err := s.load()
		if err != nil {
			return nil, err
		}
		s.engine.Store(roles.NewEngine(snap, s.ids))
		telemetry.Metrics.SnapshotReloads.Inc()
		s.hub.notifySnapshot()
		return nil, nil
	})
	if err != nil {
		telemetry.Errorf("api: reload failed: %v", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("reload failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"players": len(s.Engine().Snapshot().Players()),
		"shared":  shared,
	})
}

func parseClusterFilter(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad cluster filter %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func filterByCluster(snap *roles.Snapshot, names []string, filter []int) []string {
	keep := make(map[int]struct{}, len(filter))
	for _, id := range filter {
		keep[id] = struct{}{}
	}
	var out []string
	for _, n := range names {
		p, ok := snap.PlayerByName(n)
		if !ok {
			continue
		}
		if _, ok := keep[p.ClusterID]; ok {
			out = append(out, n)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		telemetry.Warnf("api: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
