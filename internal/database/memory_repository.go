package database

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gameshelf-labs/gameshelf-backend/internal/models"
)

// MemoryGameRepository はGameRepositoryのインメモリ実装です。
// MongoDBなしでサービス層とハンドラーをテストするために使用します。
// 検索・更新・集計のセマンティクスはMongoDB実装と一致させています。
type MemoryGameRepository struct {
	mu    sync.RWMutex
	games []models.Game // 挿入順を保持
}

// NewMemoryGameRepository は空のインメモリリポジトリを作成します。
func NewMemoryGameRepository() *MemoryGameRepository {
	return &MemoryGameRepository{}
}

func (r *MemoryGameRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryGameRepository) Find(ctx context.Context, filter models.SearchFilter) ([]models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Game
	for _, game := range r.games {
		if filter.Genre != "" && !contains(game.Genres, filter.Genre) {
			continue
		}
		if filter.Platform != "" && !contains(game.Platforms, filter.Platform) {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(game.Title), strings.ToLower(filter.Title)) {
			continue
		}
		result = append(result, game)
	}
	return result, nil
}

func (r *MemoryGameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, game := range r.games {
		if game.ID == id {
			g := game
			return &g, nil
		}
	}
	return nil, nil
}

func (r *MemoryGameRepository) Insert(ctx context.Context, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.games = append(r.games, *game)
	return nil
}

func (r *MemoryGameRepository) Update(ctx context.Context, id primitive.ObjectID, game *models.Game) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.games {
		if r.games[i].ID == id {
			// _id と created_at はMongoDB実装と同様に保持する
			replacement := *game
			replacement.ID = r.games[i].ID
			replacement.CreatedAt = r.games[i].CreatedAt
			r.games[i] = replacement
			return 1, nil
		}
	}
	return 0, nil
}

func (r *MemoryGameRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.games {
		if r.games[i].ID == id {
			r.games = append(r.games[:i], r.games[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *MemoryGameRepository) Stats(ctx context.Context) (*models.GameStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.GameStats{}
	var scoreSum float64
	var scoreCount int64
	for _, game := range r.games {
		stats.TotalGames++
		if game.HoursPlayed != nil {
			stats.TotalHours += *game.HoursPlayed
		}
		if game.Completed {
			stats.CompletedGames++
		}
		if game.MetacriticScore != nil {
			scoreSum += float64(*game.MetacriticScore)
			scoreCount++
		}
	}
	if scoreCount > 0 {
		avg := scoreSum / float64(scoreCount)
		stats.AverageScore = &avg
	}
	return stats, nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
