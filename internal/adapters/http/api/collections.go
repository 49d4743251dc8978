// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// CollectionsHandler serves the catalog document.
type CollectionsHandler struct {
	deps Dependencies
}

// NewCollectionsHandler creates a new collections handler.
func NewCollectionsHandler(deps Dependencies) *CollectionsHandler {
	return &CollectionsHandler{deps: deps}
}

// HandleGetCollections handles GET /collections requests.
func (h *CollectionsHandler) HandleGetCollections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Collections(r.Context()))
}
