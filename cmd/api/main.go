package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/gameshelf-labs/gameshelf-backend/internal/api/handlers"
	"github.com/gameshelf-labs/gameshelf-backend/internal/api/middleware"
	"github.com/gameshelf-labs/gameshelf-backend/internal/database"
	"github.com/gameshelf-labs/gameshelf-backend/internal/services"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("warning: Error loading .env file (this is fine in production): %v", err)
		}
	}

	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	dbService, err := database.NewDatabaseService(config.MongoURI, config.MongoDatabase)
	if err != nil {
		log.Fatalf("データベース初期化に失敗しました: %v", err)
	}
	defer dbService.Close(context.Background())

	gameRepo := database.NewGameRepository(dbService.DB)
	gameService := services.NewGameService(gameRepo)
	gameHandler := handlers.NewGameHandler(gameService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", gameHandler.HealthCheck).Methods("GET")
	api.HandleFunc("/games", gameHandler.ListGames).Methods("GET")
	api.HandleFunc("/games", gameHandler.CreateGame).Methods("POST")
	api.HandleFunc("/games/{id}", gameHandler.GetGame).Methods("GET")
	api.HandleFunc("/games/{id}", gameHandler.UpdateGame).Methods("PUT")
	api.HandleFunc("/games/{id}", gameHandler.DeleteGame).Methods("DELETE")
	api.HandleFunc("/games/{id}/favorite", gameHandler.ToggleFavorite).Methods("PATCH")
	api.HandleFunc("/stats", gameHandler.GetStats).Methods("GET")

	handler := middleware.CORSHandler()(middleware.RequestLogger(r))

	addr := fmt.Sprintf("%s:%s", config.ServerHost, config.ServerPort)
	log.Printf("Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
