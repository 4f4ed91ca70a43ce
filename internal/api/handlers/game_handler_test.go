package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gameshelf-labs/gameshelf-backend/internal/database"
	"github.com/gameshelf-labs/gameshelf-backend/internal/models"
	"github.com/gameshelf-labs/gameshelf-backend/internal/services"
)

// newTestRouter は本番と同じルーティングでテスト用ルーターを構築します。
// ストアはインメモリ実装に差し替えます。
func newTestRouter() *mux.Router {
	repo := database.NewMemoryGameRepository()
	service := services.NewGameService(repo)
	handler := NewGameHandler(service)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	api.HandleFunc("/games", handler.ListGames).Methods("GET")
	api.HandleFunc("/games", handler.CreateGame).Methods("POST")
	api.HandleFunc("/games/{id}", handler.GetGame).Methods("GET")
	api.HandleFunc("/games/{id}", handler.UpdateGame).Methods("PUT")
	api.HandleFunc("/games/{id}", handler.DeleteGame).Methods("DELETE")
	api.HandleFunc("/games/{id}/favorite", handler.ToggleFavorite).Methods("PATCH")
	api.HandleFunc("/stats", handler.GetStats).Methods("GET")
	return r
}

func doRequest(t *testing.T, r *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func chronoTriggerBody() map[string]interface{} {
	return map[string]interface{}{
		"title":            "Chrono Trigger",
		"genres":           []string{"RPG"},
		"platforms":        []string{"SNES"},
		"metacritic_score": 92,
		"hours_played":     30,
		"completed":        true,
	}
}

// TestHealthEndpoint はヘルスチェックが200で up を返すことをテストします。
func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(t, r, "GET", "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "up" || body["database"] != "connected" {
		t.Errorf("Unexpected health body: %v", body)
	}
}

// TestCreateAndGetGame は作成から取得までの一連の流れをテストします。
func TestCreateAndGetGame(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(t, r, "POST", "/api/games", chronoTriggerBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	id, ok := created["id"].(string)
	if !ok || id == "" {
		t.Fatalf("Expected generated id in response, got %v", created)
	}

	rec = doRequest(t, r, "GET", "/api/games/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	game := decodeBody(t, rec)
	if game["title"] != "Chrono Trigger" {
		t.Errorf("Expected title Chrono Trigger, got %v", game["title"])
	}
	if game["created_at"] == "" || game["created_at"] != game["updated_at"] {
		t.Errorf("Expected matching server timestamps, got %v / %v", game["created_at"], game["updated_at"])
	}
}

// TestCreateGame_IgnoresClientID はクライアントが送ったIDやタイムスタンプが
// 無視されることをテストします。
func TestCreateGame_IgnoresClientID(t *testing.T) {
	r := newTestRouter()

	body := chronoTriggerBody()
	body["id"] = primitive.NewObjectID().Hex()
	body["_id"] = body["id"]
	body["created_at"] = "1999-01-01T00:00:00Z"

	rec := doRequest(t, r, "POST", "/api/games", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}
	created := decodeBody(t, rec)
	if created["id"] == body["id"] {
		t.Error("Expected server to assign a fresh id, but client id was kept")
	}

	rec = doRequest(t, r, "GET", "/api/games/"+created["id"].(string), nil)
	game := decodeBody(t, rec)
	if game["created_at"] == "1999-01-01T00:00:00Z" {
		t.Error("Expected server to assign created_at, but client value was kept")
	}
}

// TestCreateGame_ValidationErrors は422で全違反がフィールド名付きで返ることをテストします。
func TestCreateGame_ValidationErrors(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(t, r, "POST", "/api/games", map[string]interface{}{
		"title":            "",
		"genres":           []string{},
		"metacritic_score": 101,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	fields, ok := body["fields"].([]interface{})
	if !ok {
		t.Fatalf("Expected fields list in response, got %v", body)
	}
	if len(fields) != 3 {
		t.Errorf("Expected 3 violations, got %d: %v", len(fields), fields)
	}
}

// TestCreateGame_MalformedBody は壊れたJSONが400になることをテストします。
func TestCreateGame_MalformedBody(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("POST", "/api/games", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

// TestGameEndpoints_InvalidID は不正な形式のIDが全エンドポイントで400になることをテストします。
func TestGameEndpoints_InvalidID(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/api/games/not-an-id", nil},
		{"PUT", "/api/games/not-an-id", chronoTriggerBody()},
		{"DELETE", "/api/games/not-an-id", nil},
		{"PATCH", "/api/games/not-an-id/favorite", nil},
	}
	for _, c := range cases {
		rec := doRequest(t, r, c.method, c.path, c.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected 400, got %d", c.method, c.path, rec.Code)
		}
	}
}

// TestGameEndpoints_NotFound は存在しないIDが全エンドポイントで404になることをテストします。
func TestGameEndpoints_NotFound(t *testing.T) {
	r := newTestRouter()
	id := primitive.NewObjectID().Hex()

	cases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/api/games/" + id, nil},
		{"PUT", "/api/games/" + id, chronoTriggerBody()},
		{"DELETE", "/api/games/" + id, nil},
		{"PATCH", "/api/games/" + id + "/favorite", nil},
	}
	for _, c := range cases {
		rec := doRequest(t, r, c.method, c.path, c.body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", c.method, c.path, rec.Code)
		}
	}
}

// TestUpdateAndDeleteGame は更新・削除のレスポンスと削除後の404をテストします。
func TestUpdateAndDeleteGame(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(t, r, "POST", "/api/games", chronoTriggerBody())
	id := decodeBody(t, rec)["id"].(string)

	update := chronoTriggerBody()
	update["title"] = "Chrono Trigger (DS)"
	rec = doRequest(t, r, "PUT", "/api/games/"+id, update)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on update, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, r, "GET", "/api/games/"+id, nil)
	if got := decodeBody(t, rec)["title"]; got != "Chrono Trigger (DS)" {
		t.Errorf("Expected updated title, got %v", got)
	}

	rec = doRequest(t, r, "DELETE", "/api/games/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on delete, got %d", rec.Code)
	}
	rec = doRequest(t, r, "GET", "/api/games/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}

// TestToggleFavoriteEndpoint はお気に入りの反転が往復することをテストします。
func TestToggleFavoriteEndpoint(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(t, r, "POST", "/api/games", chronoTriggerBody())
	id := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, r, "PATCH", "/api/games/"+id+"/favorite", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if fav := decodeBody(t, rec)["favorite"]; fav != true {
		t.Errorf("Expected favorite true after first toggle, got %v", fav)
	}

	rec = doRequest(t, r, "PATCH", "/api/games/"+id+"/favorite", nil)
	if fav := decodeBody(t, rec)["favorite"]; fav != false {
		t.Errorf("Expected favorite false after second toggle, got %v", fav)
	}
}

// TestListGames_QueryFilters はクエリパラメータによる絞り込みをテストします。
func TestListGames_QueryFilters(t *testing.T) {
	r := newTestRouter()

	doRequest(t, r, "POST", "/api/games", chronoTriggerBody())
	doRequest(t, r, "POST", "/api/games", map[string]interface{}{
		"title":     "DOOM",
		"genres":    []string{"FPS"},
		"platforms": []string{"PC"},
	})

	rec := doRequest(t, r, "GET", "/api/games", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var all []models.Game
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("Failed to decode list response: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(all))
	}

	rec = doRequest(t, r, "GET", "/api/games?genre=RPG", nil)
	var rpgs []models.Game
	if err := json.Unmarshal(rec.Body.Bytes(), &rpgs); err != nil {
		t.Fatalf("Failed to decode filtered response: %v", err)
	}
	if len(rpgs) != 1 || rpgs[0].Title != "Chrono Trigger" {
		t.Errorf("Expected only Chrono Trigger for genre=RPG, got %v", rpgs)
	}

	rec = doRequest(t, r, "GET", "/api/games?title=doom", nil)
	var dooms []models.Game
	if err := json.Unmarshal(rec.Body.Bytes(), &dooms); err != nil {
		t.Fatalf("Failed to decode filtered response: %v", err)
	}
	if len(dooms) != 1 || dooms[0].Title != "DOOM" {
		t.Errorf("Expected only DOOM for title=doom, got %v", dooms)
	}
}

// TestListGames_EmptyCatalog は空のカタログで null ではなく [] が返ることをテストします。
func TestListGames_EmptyCatalog(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(t, r, "GET", "/api/games", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body == "null\n" {
		t.Errorf("Expected empty array, got %q", body)
	}
}

// TestStatsEndpoint は統計エンドポイントのレスポンス形式をテストします。
func TestStatsEndpoint(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(t, r, "GET", "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	empty := decodeBody(t, rec)
	if empty["total_games"] != float64(0) {
		t.Errorf("Expected total_games 0, got %v", empty["total_games"])
	}
	if empty["average_score"] != nil {
		t.Errorf("Expected average_score null on empty catalog, got %v", empty["average_score"])
	}

	doRequest(t, r, "POST", "/api/games", chronoTriggerBody())

	rec = doRequest(t, r, "GET", "/api/stats", nil)
	stats := decodeBody(t, rec)
	if stats["total_games"] != float64(1) {
		t.Errorf("Expected total_games 1, got %v", stats["total_games"])
	}
	if stats["completed_games"] != float64(1) {
		t.Errorf("Expected completed_games 1, got %v", stats["completed_games"])
	}
	if stats["total_hours"] != float64(30) {
		t.Errorf("Expected total_hours 30, got %v", stats["total_hours"])
	}
	if stats["average_score"] != float64(92) {
		t.Errorf("Expected average_score 92, got %v", stats["average_score"])
	}
}
