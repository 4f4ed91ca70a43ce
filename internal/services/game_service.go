package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gameshelf-labs/gameshelf-backend/internal/database"
	"github.com/gameshelf-labs/gameshelf-backend/internal/models"
)

// GameService はHTTPリクエストをストア操作に変換するサービスです。
// 入力の検証、サーバー側フィールド（ID・タイムスタンプ）の付与、
// 統計の集計を担当します。プロセス内に可変状態は持ちません。
type GameService struct {
	repo database.GameRepository
}

// NewGameService は新しいGameServiceインスタンスを作成します。
func NewGameService(repo database.GameRepository) *GameService {
	return &GameService{repo: repo}
}

// HealthStatus はヘルスチェックの結果です。
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HealthCheck はストアへの疎通を確認します。エラーは返さず、
// 常に構造化されたステータスを返します。
func (s *GameService) HealthCheck(ctx context.Context) HealthStatus {
	if err := s.repo.Ping(ctx); err != nil {
		log.Printf("GameService Error: データベースの疎通確認に失敗しました: %v", err)
		return HealthStatus{Status: "down", Error: "database unreachable"}
	}
	return HealthStatus{Status: "up", Database: "connected"}
}

// ListGames はフィルタに一致するゲームの一覧を返します。
// フィルタの各フィールドはAND条件で適用され、空のフィルタは全件を返します。
func (s *GameService) ListGames(ctx context.Context, filter models.SearchFilter) ([]models.Game, error) {
	games, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ゲーム一覧の取得に失敗しました: %w", err)
	}
	if games == nil {
		games = []models.Game{}
	}
	return games, nil
}

// GetGame は指定したIDのゲームを返します。
func (s *GameService) GetGame(ctx context.Context, id string) (*models.Game, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	game, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("ゲームの取得に失敗しました: %w", err)
	}
	if game == nil {
		return nil, ErrNotFound
	}
	return game, nil
}

// CreateGame は入力を検証し、新しいゲームを保存して生成されたIDを返します。
// クライアントが送ってきたIDやタイムスタンプは一切信用せず、
// サーバー側で新しいObjectIDと現在時刻を割り当てます。
func (s *GameService) CreateGame(ctx context.Context, input models.GameInput) (string, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return "", &ValidationError{Fields: errs}
	}

	game := input.NewGame(nowUTC())
	game.ID = primitive.NewObjectID()

	if err := s.repo.Insert(ctx, &game); err != nil {
		return "", fmt.Errorf("ゲームの保存に失敗しました: %w", err)
	}
	return game.ID.Hex(), nil
}

// UpdateGame は指定したIDのゲームを入力内容で置き換えます。
// _id と created_at は置換対象に含まれないため変更されません。
// updated_at は現在時刻に更新されます。
func (s *GameService) UpdateGame(ctx context.Context, id string, input models.GameInput) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	if errs := input.Validate(); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	game := input.NewGame(nowUTC())
	matched, err := s.repo.Update(ctx, oid, &game)
	if err != nil {
		return fmt.Errorf("ゲームの更新に失敗しました: %w", err)
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGame は指定したIDのゲームを完全に削除します。
func (s *GameService) DeleteGame(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	deleted, err := s.repo.Delete(ctx, oid)
	if err != nil {
		return fmt.Errorf("ゲームの削除に失敗しました: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFavorite はお気に入りフラグを反転し、反転後の値を返します。
func (s *GameService) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrInvalidID
	}
	game, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return false, fmt.Errorf("ゲームの取得に失敗しました: %w", err)
	}
	if game == nil {
		return false, ErrNotFound
	}

	game.Favorite = !game.Favorite
	game.UpdatedAt = nowUTC()

	matched, err := s.repo.Update(ctx, oid, game)
	if err != nil {
		return false, fmt.Errorf("お気に入りの更新に失敗しました: %w", err)
	}
	if matched == 0 {
		return false, ErrNotFound
	}
	return game.Favorite, nil
}

// GetStats はカタログ全体の統計を計算します。
// コレクションが空の場合もエラーにはせず、全カウンタ0のサマリを返します。
func (s *GameService) GetStats(ctx context.Context) (*models.GameStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("統計の計算に失敗しました: %w", err)
	}
	return stats, nil
}

// nowUTC はタイムスタンプ文字列を生成します。
// ナノ秒精度にすることで、同一秒内の連続更新でも updated_at が変化します。
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
