package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/toolscout/toolscout/internal/store"
	"github.com/toolscout/toolscout/pkg/catalog"
	"github.com/toolscout/toolscout/pkg/leaderboard"
	"github.com/toolscout/toolscout/pkg/ranking"
	"github.com/toolscout/toolscout/pkg/search"
)

// Server provides the HTTP API.
type Server struct {
	store     store.Store
	matcher   *search.Matcher
	tracker   *ranking.Tracker
	refresher *ranking.Refresher
	port      int
}

// New creates a new HTTP server.
func New(s store.Store, matcher *search.Matcher, tracker *ranking.Tracker, refresher *ranking.Refresher, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		store:     s,
		matcher:   matcher,
		tracker:   tracker,
		refresher: refresher,
		port:      port,
	}
}

// Handler returns the API route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/search", s.handleSearch)
	mux.HandleFunc("/api/v1/tools", s.handleTools)
	mux.HandleFunc("/api/v1/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/api/v1/rankings", s.handleRankings)
	mux.HandleFunc("/api/v1/rankings/refresh", s.handleRefresh)
	mux.HandleFunc("/api/v1/track", s.handleTrack)
	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("toolscout server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query parameter q"})
		return
	}

	resp := s.matcher.Search(r.Context(), query, nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  resp,
		"count": len(resp.Results),
	})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	opts := store.ToolListOpts{Status: catalog.StatusPublished, Limit: 100}
	if status := r.URL.Query().Get("status"); status != "" {
		opts.Status = catalog.Status(status)
	}

	tools, err := s.store.ListTools(r.Context(), opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  tools,
		"count": len(tools),
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	collections, err := s.store.ListCollections(r.Context(), store.CollectionListOpts{
		PublicOnly: true,
		Limit:      50,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	ranked := leaderboard.Rank(collections, time.Now().UTC())
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  ranked,
		"count": len(ranked),
	})
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	kind := catalog.RankKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = catalog.RankPopular
	}

	entries, err := s.store.ListRankings(r.Context(), kind, 50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  entries,
		"count": len(entries),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	s.refresher.RefreshAll(r.Context())
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshed"})
}

type trackRequest struct {
	ToolID string `json:"tool_id"`
	Kind   string `json:"kind"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.ToolID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing tool_id"})
		return
	}

	switch catalog.InteractionKind(req.Kind) {
	case catalog.InteractionView:
		s.tracker.RecordView(r.Context(), req.ToolID)
	case catalog.InteractionClick:
		s.tracker.RecordClick(r.Context(), req.ToolID)
	case catalog.InteractionFavorite:
		s.tracker.RecordFavorite(r.Context(), req.ToolID)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown interaction kind"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
