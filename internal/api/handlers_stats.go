package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleExtractStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "extraction stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"default_model": s.cfg.ExtractDefaultModel,
		"stats":         s.stats.Snapshot(),
		"queue_depth":   s.orchestrator.QueueDepth(),
		"sessions":      s.sessions.Len(),
	})
}
