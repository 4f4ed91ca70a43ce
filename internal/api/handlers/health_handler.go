package handlers

import (
	"net/http"
)

// HealthCheck はストアへの疎通状況を返すハンドラーです。
// GET /api/health
func (h *GameHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := h.gameService.HealthCheck(r.Context())
	if status.Status != "up" {
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
