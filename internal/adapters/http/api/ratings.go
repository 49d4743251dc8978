// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mtgrater/mtgrater/internal/app"
	"github.com/mtgrater/mtgrater/internal/domain/catalog"
)

// RatingsHandler handles rating submissions and reads.
type RatingsHandler struct {
	deps Dependencies
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps Dependencies) *RatingsHandler {
	return &RatingsHandler{deps: deps}
}

// HandleRatings dispatches POST and GET /ratings requests.
func (h *RatingsHandler) HandleRatings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		h.handleRead(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RatingsHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rating"

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	out, err := h.deps.Submit(r.Context(), app.Submission{
		ClientID:     clientIP(r),
		CollectionID: req.CollectionID,
		FormatID:     req.FormatID,
		SetCode:      req.SetCode,
		CardCode:     req.CardCode,
		Rating:       req.Rating,
	})
	if err != nil {
		// Storage details stay out of the response body.
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	switch {
	case out.Status == app.StatusAccepted:
		writeJSON(w, http.StatusAccepted, out)
	case out.Reason == app.ReasonThrottled:
		writeError(w, http.StatusTooManyRequests, "throttled", NewKind(op, ErrThrottled))
		return
	default:
		writeJSON(w, http.StatusBadRequest, out)
	}
}

func (h *RatingsHandler) handleRead(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ratings"

	collectionID := r.URL.Query().Get("collection_id")
	if collectionID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	view, err := h.deps.Ratings(r.Context(), collectionID)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCollection) {
			writeError(w, http.StatusBadRequest, "unknown_collection", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
