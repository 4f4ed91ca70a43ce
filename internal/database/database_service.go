package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// DatabaseService はMongoDBへの接続を保持する構造体です。
// プロセス起動時に一度だけ生成し、全リクエストで共有します。
// 初期化後に変更されないため、ハンドル自体の同期は不要です。
type DatabaseService struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewDatabaseService はMongoDBに接続し、Pingで疎通を確認します。
func NewDatabaseService(uri, dbName string) (*DatabaseService, error) {
	log.Printf("データベース接続を試行中: URIの最初の30文字: %s...", truncate(uri, 30))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Printf("DatabaseService Error: mongo.Connectに失敗しました: %v", err)
		return nil, fmt.Errorf("データベースへの接続に失敗しました: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Printf("DatabaseService Error: Pingに失敗しました: %v", err)
		return nil, fmt.Errorf("データベースのPingに失敗しました。接続情報やネットワークを確認してください: %w", err)
	}

	log.Printf("データベースに正常に接続しました。使用DB: %s", dbName)
	return &DatabaseService{
		Client: client,
		DB:     client.Database(dbName),
	}, nil
}

// Close はクライアント接続を切断します。
func (s *DatabaseService) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// truncate helper for logging connection strings
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
