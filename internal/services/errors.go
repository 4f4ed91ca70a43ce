package services

import (
	"errors"
	"strings"

	"github.com/gameshelf-labs/gameshelf-backend/internal/models"
)

// サービス層のエラー種別。ハンドラーはこれらをHTTPステータスに変換します。
var (
	// ErrInvalidID はIDがObjectIDの形式として不正な場合に返されます (400相当)
	ErrInvalidID = errors.New("invalid game id")

	// ErrNotFound は形式は正しいが該当するゲームが存在しない場合に返されます (404相当)
	ErrNotFound = errors.New("game not found")
)

// ValidationError は1つ以上のフィールド制約違反を表します (422相当)。
// 最初の違反だけでなく、すべての違反を保持します。
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
