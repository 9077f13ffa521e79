package api

import (
	"encoding/json"
	"net/http"
)

// Read-only handler methods for routerHandlers. The realtime protocol runs
// over the websocket hub; these expose the same state for dashboards and
// diagnostics.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"participants": h.state.Participants(),
		"count":        h.state.ParticipantCount(),
	})
}

func (h *routerHandlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.state.TopScores())
}

func (h *routerHandlers) handleGetWorld(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.state.WorldSnapshot())
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
