package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImageData はデコード済みの画像ペイロードです。そのまま保存・表示に使える自己完結したリソースなのだ。
type ImageData struct {
	Data     []byte
	MimeType string
}

// GeneratedArtifact は生成に成功した画像1枚の成果物メタデータです。
// 生成バイト列そのものは保持せず、保存先（Location）への軽量な参照として扱うのだ。
// 一度生成された後は不変です。
type GeneratedArtifact struct {
	ID         string    `json:"id"`
	PromptID   string    `json:"prompt_id"`
	PromptText string    `json:"prompt_text"`
	Filename   string    `json:"filename"`
	Location   string    `json:"location"` // 保存先パス（ローカル or gs://）
	MimeType   string    `json:"mime_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// ArtifactFilename は有効プロンプト一覧内での位置（0始まり）から出力ファイル名を決定します。
// 位置の純粋関数であり、同一バッチ内で一意になるのだ。
func ArtifactFilename(position int) string {
	return fmt.Sprintf("batch_image_%d.png", position+1)
}

// NewArtifact は生成成功1件ぶんの成果物を組み立てるのだ。IDは毎回新規に採番されます。
func NewArtifact(prompt PromptItem, position int, location, mimeType string, createdAt time.Time) GeneratedArtifact {
	return GeneratedArtifact{
		ID:         uuid.NewString(),
		PromptID:   prompt.ID,
		PromptText: prompt.Text,
		Filename:   ArtifactFilename(position),
		Location:   location,
		MimeType:   mimeType,
		CreatedAt:  createdAt,
	}
}
