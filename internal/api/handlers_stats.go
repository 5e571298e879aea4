package api

import (
	"encoding/json"
	"net/http"
)

// handleLLMStats reports rolling latency statistics for the summarizer.
func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"model": s.summarizer.Model(),
		"stats": s.summarizer.Stats(),
	})
}
