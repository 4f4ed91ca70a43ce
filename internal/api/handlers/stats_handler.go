package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// GetStats はカタログ全体の統計を返すハンドラーです。
// GET /api/stats
func (h *GameHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.gameService.GetStats(r.Context())
	if err != nil {
		h.writeError(w, err, "統計取得エラー")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// writeJSON はレスポンスをJSONとして書き出します。
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("レスポンスのエンコードに失敗しました: %v", err)
	}
}
