package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/snapgrid/snapgrid-be/internal/gate"
	"github.com/snapgrid/snapgrid-be/internal/grid"
)

// GridHandler handles HTTP requests for the picture grid.
type GridHandler struct {
	collection *grid.Collection
	gate       *gate.Gate
}

// NewGridHandler creates a new GridHandler.
func NewGridHandler(collection *grid.Collection, g *gate.Gate) *GridHandler {
	return &GridHandler{collection: collection, gate: g}
}

// Get returns the current sequence. Anonymous callers get the grid read-only
// with a prompt pointing at the login view.
func (h *GridHandler) Get(w http.ResponseWriter, r *http.Request) {
	items, loading := h.collection.Snapshot()
	authenticated := h.gate.IsAuthenticated(r.Context(), sessionKey(r))

	resp := map[string]interface{}{
		"items":     items,
		"loading":   loading,
		"draggable": authenticated,
	}
	if loading {
		resp["placeholderCount"] = grid.PlaceholderCount
	}
	if !authenticated {
		resp["loginPrompt"] = "Please login to enjoy drag and drop features"
	}
	writeJSON(w, http.StatusOK, resp)
}

// ReorderPayload defines a drag result. DestinationIndex is a pointer so a
// drop outside any valid target (absent destination) is distinguishable from
// index zero.
type ReorderPayload struct {
	SourceIndex      int  `json:"sourceIndex"`
	DestinationIndex *int `json:"destinationIndex"`
}

// Reorder applies a drag result to the sequence. Unauthenticated callers and
// invalid drops are no-ops; either way the resulting order is returned.
func (h *GridHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var payload ReorderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	authenticated := h.gate.IsAuthenticated(r.Context(), sessionKey(r))
	if payload.DestinationIndex != nil {
		h.collection.Reorder(payload.SourceIndex, *payload.DestinationIndex, authenticated)
	}

	items, loading := h.collection.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":   items,
		"loading": loading,
	})
}

// QueryPayload carries a search query change.
type QueryPayload struct {
	Query string `json:"query"`
}

// SetQuery updates the search query and kicks off a reload. The reload runs
// out of band; failures keep the previous sequence and land in the
// notification feed, so the handler only acknowledges the trigger.
func (h *GridHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var payload QueryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	go func(query string) {
		if err := h.collection.SetQuery(context.Background(), query); err != nil {
			log.Error().Err(err).Str("query", query).Msg("Query-triggered load failed")
		}
	}(payload.Query)

	w.WriteHeader(http.StatusAccepted)
}
