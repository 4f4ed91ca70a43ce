package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gameshelf-labs/gameshelf-backend/internal/models"
	"github.com/gameshelf-labs/gameshelf-backend/internal/services"
)

// GameHandler はゲームカタログ関連のHTTPリクエストを処理します。
type GameHandler struct {
	gameService *services.GameService
}

// NewGameHandler は新しいGameHandlerインスタンスを作成します。
func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// ListGames はフィルタ付きでゲーム一覧を取得するハンドラーです。
// GET /api/games?genre=&platform=&title=
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	filter := models.SearchFilter{
		Genre:    r.URL.Query().Get("genre"),
		Platform: r.URL.Query().Get("platform"),
		Title:    r.URL.Query().Get("title"),
	}

	games, err := h.gameService.ListGames(r.Context(), filter)
	if err != nil {
		h.writeError(w, err, "ゲーム一覧取得エラー")
		return
	}

	writeJSON(w, http.StatusOK, games)
}

// GetGame は1件のゲームを取得するハンドラーです。
// GET /api/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	game, err := h.gameService.GetGame(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "ゲーム取得エラー")
		return
	}

	writeJSON(w, http.StatusOK, game)
}

// CreateGame は新しいゲームを登録するハンドラーです。
// POST /api/games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var input models.GameInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
		return
	}

	id, err := h.gameService.CreateGame(r.Context(), input)
	if err != nil {
		h.writeError(w, err, "ゲーム登録エラー")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "game created",
		"id":      id,
	})
}

// UpdateGame はゲームを置き換えるハンドラーです。
// PUT /api/games/{id}
func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input models.GameInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
		return
	}

	if err := h.gameService.UpdateGame(r.Context(), id, input); err != nil {
		h.writeError(w, err, "ゲーム更新エラー")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "game updated",
	})
}

// DeleteGame はゲームを削除するハンドラーです。
// DELETE /api/games/{id}
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.gameService.DeleteGame(r.Context(), id); err != nil {
		h.writeError(w, err, "ゲーム削除エラー")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "game deleted",
	})
}

// ToggleFavorite はお気に入りフラグを反転するハンドラーです。
// PATCH /api/games/{id}/favorite
func (h *GameHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	favorite, err := h.gameService.ToggleFavorite(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "お気に入り更新エラー")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "favorite updated",
		"favorite": favorite,
	})
}

// writeError はサービス層のエラーをHTTPステータスに変換します。
// ストア由来のエラーの詳細はログにのみ出力し、クライアントへは
// 汎用メッセージだけを返します。
func (h *GameHandler) writeError(w http.ResponseWriter, err error, logContext string) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "invalid game id",
		})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error": "game not found",
		})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	default:
		log.Printf("%s: %v", logContext, err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "internal server error",
		})
	}
}
