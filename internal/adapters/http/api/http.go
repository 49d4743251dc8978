// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/mtgrater/mtgrater/internal/app"
	"github.com/mtgrater/mtgrater/internal/domain/catalog"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit runs one rating attempt through the admission protocol.
	Submit(ctx context.Context, sub app.Submission) (app.Outcome, error)

	// Read operations expose rating and catalog data.
	Ratings(ctx context.Context, collectionID string) (app.RatingsView, error)
	Collections(ctx context.Context) catalog.Document
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	ratingsHandler     *RatingsHandler
	collectionsHandler *CollectionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		ratingsHandler:     NewRatingsHandler(deps),
		collectionsHandler: NewCollectionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/ratings", MetricsMiddleware(RequestID(s.ratingsHandler.HandleRatings), "ratings"))
	mux.HandleFunc("/collections", MetricsMiddleware(s.collectionsHandler.HandleGetCollections, "collections"))
}

// ratingRequest mirrors the JSON schema for POST /ratings.
type ratingRequest struct {
	CollectionID string `json:"collection_id"`
	FormatID     string `json:"format_id"`
	SetCode      string `json:"set_code"`
	CardCode     string `json:"card_code"`
	Rating       string `json:"rating"`
}

func (e ratingRequest) validate() error {
	switch {
	case strings.TrimSpace(e.CollectionID) == "":
		return errors.New("missing collection_id")
	case strings.TrimSpace(e.FormatID) == "":
		return errors.New("missing format_id")
	case strings.TrimSpace(e.SetCode) == "":
		return errors.New("missing set_code")
	case strings.TrimSpace(e.CardCode) == "":
		return errors.New("missing card_code")
	case strings.TrimSpace(e.Rating) == "":
		return errors.New("missing rating")
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// clientIP resolves the submitting actor's address for throttling. Proxy
// headers win over the socket peer: leftmost X-Forwarded-For entry, then
// X-Real-IP, then RemoteAddr without its port.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
