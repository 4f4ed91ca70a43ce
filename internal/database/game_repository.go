package database

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gameshelf-labs/gameshelf-backend/internal/models"
)

// GameRepository はゲームカタログ関連のデータベース操作を定義するインターフェースです。
// サービス層はこの抽象のみに依存するため、テストではインメモリ実装に差し替えられます。
type GameRepository interface {
	// Ping はストアへの疎通を確認します
	Ping(ctx context.Context) error

	// Find はフィルタに一致するゲームを挿入順で取得します
	Find(ctx context.Context, filter models.SearchFilter) ([]models.Game, error)

	// FindByID は指定したIDのゲームを取得します。存在しない場合は nil を返します
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error)

	// Insert は新しいゲームドキュメントを保存します
	Insert(ctx context.Context, game *models.Game) error

	// Update は _id と created_at を除く全フィールドを置き換え、一致件数を返します
	Update(ctx context.Context, id primitive.ObjectID, game *models.Game) (int64, error)

	// Delete は指定したIDのゲームを削除し、削除件数を返します
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)

	// Stats は全ゲームに対する集計を実行します
	Stats(ctx context.Context) (*models.GameStats, error)
}

// gameRepositoryImpl はGameRepositoryインターフェースのMongoDB実装です。
type gameRepositoryImpl struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewGameRepository はGameRepositoryの新しいインスタンスを作成します。
func NewGameRepository(db *mongo.Database) GameRepository {
	return &gameRepositoryImpl{
		db:   db,
		coll: db.Collection("games"),
	}
}

// Ping はデータベースに対して ping コマンドを実行します。
func (r *gameRepositoryImpl) Ping(ctx context.Context) error {
	return r.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Find はフィルタに一致するゲームを取得します。
// 並び順は明示しないため、MongoDBの自然順（通常は挿入順）になります。
func (r *gameRepositoryImpl) Find(ctx context.Context, filter models.SearchFilter) ([]models.Game, error) {
	query := bson.M{}
	if filter.Genre != "" {
		query["genres"] = filter.Genre
	}
	if filter.Platform != "" {
		query["platforms"] = filter.Platform
	}
	if filter.Title != "" {
		// 大文字小文字を区別しない部分一致
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Title), Options: "i"}
	}

	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ゲーム一覧の取得に失敗しました: %w", err)
	}
	defer cursor.Close(ctx)

	var games []models.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("ゲーム一覧のデコードに失敗しました: %w", err)
	}
	return games, nil
}

// FindByID は指定したIDのゲームを取得します。
func (r *gameRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	var game models.Game
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err == mongo.ErrNoDocuments {
		return nil, nil // 該当ドキュメントなし
	}
	if err != nil {
		return nil, fmt.Errorf("ゲームの取得に失敗しました: %w", err)
	}
	return &game, nil
}

// Insert は新しいゲームドキュメントを保存します。
func (r *gameRepositoryImpl) Insert(ctx context.Context, game *models.Game) error {
	if _, err := r.coll.InsertOne(ctx, game); err != nil {
		return fmt.Errorf("ゲームの保存に失敗しました: %w", err)
	}
	return nil
}

// Update は $set でドキュメントのフィールドを置き換えます。
// _id と created_at は置換対象から除外され、上書きされることはありません。
func (r *gameRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, game *models.Game) (int64, error) {
	raw, err := bson.Marshal(game)
	if err != nil {
		return 0, fmt.Errorf("更新ドキュメントの構築に失敗しました: %w", err)
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return 0, fmt.Errorf("更新ドキュメントの構築に失敗しました: %w", err)
	}
	delete(set, "_id")
	delete(set, "created_at")

	result, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("ゲームの更新に失敗しました: %w", err)
	}
	return result.MatchedCount, nil
}

// Delete は指定したIDのゲームを削除します。
func (r *gameRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("ゲームの削除に失敗しました: %w", err)
	}
	return result.DeletedCount, nil
}

// Stats は集計パイプラインでカタログ全体のサマリを計算します。
// $avg は metacritic_score が存在しないドキュメントを無視するため、
// スコアを持つゲームが1つもない場合 average_score は nil になります。
func (r *gameRepositoryImpl) Stats(ctx context.Context) (*models.GameStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_games", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total_hours", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{"$hours_played", 0}},
			}}}},
			{Key: "completed_games", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{"$completed", 1, 0}},
			}}}},
			{Key: "average_score", Value: bson.D{{Key: "$avg", Value: "$metacritic_score"}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("統計の集計に失敗しました: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.GameStats
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("統計結果のデコードに失敗しました: %w", err)
	}
	if len(results) == 0 {
		// コレクションが空の場合 $group は1件も返さない
		return &models.GameStats{}, nil
	}
	return &results[0], nil
}
