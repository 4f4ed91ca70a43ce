package main

import (
	"fmt"
	"os"
)

// Config はサーバー起動に必要な環境変数をまとめた構造体です。
type Config struct {
	MongoURI      string
	MongoDatabase string
	ServerHost    string
	ServerPort    string
}

// LoadConfig は環境変数から設定を読み込みます。
// MONGODB_URI のみ必須で、それ以外はデフォルト値があります。
func LoadConfig() (*Config, error) {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI 環境変数が設定されていません")
	}

	return &Config{
		MongoURI:      mongoURI,
		MongoDatabase: getEnv("MONGODB_DATABASE", "gameshelf"),
		ServerHost:    getEnv("SERVER_HOST", "127.0.0.1"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
	}, nil
}

func getEnv(key, defValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defValue
}
