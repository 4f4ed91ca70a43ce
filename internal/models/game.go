package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Game は games コレクションの1ドキュメントに対応する構造体です。
// ID と CreatedAt はサーバー側で設定され、以後変更されません。
type Game struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Genres          []string           `bson:"genres" json:"genres"`
	Platforms       []string           `bson:"platforms" json:"platforms"`
	Publisher       *string            `bson:"publisher" json:"publisher"`
	Developer       *string            `bson:"developer" json:"developer"`
	ReleaseYear     *int               `bson:"release_year" json:"release_year"`
	MetacriticScore *int               `bson:"metacritic_score" json:"metacritic_score"`
	HoursPlayed     *float64           `bson:"hours_played" json:"hours_played"`
	Completed       bool               `bson:"completed" json:"completed"`
	Favorite        bool               `bson:"favorite" json:"favorite"`
	CreatedAt       string             `bson:"created_at" json:"created_at"`
	UpdatedAt       string             `bson:"updated_at" json:"updated_at"`
}

// GameInput はゲーム作成・更新リクエスト用の構造体です。
// クライアントが設定できるフィールドのみを持ち、ID やタイムスタンプは
// リクエストボディに含まれていても無視されます。
type GameInput struct {
	Title           string   `json:"title"`
	Genres          []string `json:"genres"`
	Platforms       []string `json:"platforms"`
	Publisher       *string  `json:"publisher"`
	Developer       *string  `json:"developer"`
	ReleaseYear     *int     `json:"release_year"`
	MetacriticScore *int     `json:"metacritic_score"`
	HoursPlayed     *float64 `json:"hours_played"`
	Completed       bool     `json:"completed"`
	Favorite        bool     `json:"favorite"`
}

// NewGame builds a Game document from the client-settable fields only.
// Both timestamps are set to now; the caller decides whether created_at
// actually reaches the store (it never does on update).
func (in *GameInput) NewGame(now string) Game {
	game := Game{
		Title:           in.Title,
		Genres:          in.Genres,
		Platforms:       in.Platforms,
		Publisher:       in.Publisher,
		Developer:       in.Developer,
		ReleaseYear:     in.ReleaseYear,
		MetacriticScore: in.MetacriticScore,
		HoursPlayed:     in.HoursPlayed,
		Completed:       in.Completed,
		Favorite:        in.Favorite,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if game.Genres == nil {
		game.Genres = []string{}
	}
	if game.Platforms == nil {
		game.Platforms = []string{}
	}
	return game
}

// GameStats はカタログ全体の集計結果です。保存はされません。
// AverageScore はスコアを持つゲームが1つもない場合 nil になります。
type GameStats struct {
	TotalGames     int64    `bson:"total_games" json:"total_games"`
	TotalHours     float64  `bson:"total_hours" json:"total_hours"`
	CompletedGames int64    `bson:"completed_games" json:"completed_games"`
	AverageScore   *float64 `bson:"average_score" json:"average_score"`
}

// SearchFilter は GET /api/games のクエリパラメータに対応します。
// 空のフィールドは条件として適用されません。
type SearchFilter struct {
	Genre    string
	Platform string
	Title    string
}
