package generator

import (
	"fmt"
	"strings"

	"github.com/shouni/go-chara-batch-kit/pkg/domain"

	"google.golang.org/genai"
)

// credentialLostMarker は無効・失効したAPIキーに対してリモートサービスが返す定型文なのだ。
// エラー本文のテキストだけが「認証無効」と「その他の失敗」を見分ける唯一の手掛かりです。
const credentialLostMarker = "Requested entity was not found"

// classifyRemoteError はリモート呼び出しの失敗を仕様上の分類に振り分けます。
// 認証喪失だけが特別扱いで、残りはすべて GenerationFailed として呼び出し元に返るのだ。
func classifyRemoteError(err error) error {
	if strings.Contains(err.Error(), credentialLostMarker) {
		return fmt.Errorf("%w: %v", domain.ErrCredentialLost, err)
	}
	return domain.NewGenerationError("リモート呼び出しに失敗しました", err)
}

// extractImage はレスポンスを走査し、インライン画像データを含む最初のパートを取り出すのだ。
// 画像パートが1つも見つからない場合は生成失敗として扱います。
func extractImage(resp *genai.GenerateContentResponse) (*domain.ImageData, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, domain.NewGenerationError("レスポンスに候補が含まれていません", nil)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				return &domain.ImageData{
					Data:     part.InlineData.Data,
					MimeType: mimeType,
				}, nil
			}
		}
	}

	return nil, domain.NewGenerationError("レスポンスに画像データが見つかりません", nil)
}
