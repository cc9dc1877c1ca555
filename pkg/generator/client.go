package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-chara-batch-kit/pkg/composer"
	"github.com/shouni/go-chara-batch-kit/pkg/domain"

	"google.golang.org/genai"
)

// Client は組み立て済みペイロード1件に対して1回のリモート生成呼び出しを行う窓口です。
// 内部でのバッチングやプーリングは行わないのだ。
type Client interface {
	Generate(ctx context.Context, payload *composer.Payload) (*domain.ImageData, error)
}

// KeyFunc は呼び出し時点の認証情報を返す関数なのだ。
type KeyFunc func() string

// GeminiImageClient は google.golang.org/genai を直接使う標準実装です。
//
// SDKクライアントは呼び出しごとに新規構築するのだ。認証情報が呼び出しの合間に
// 差し替えられても、プロセス再起動なしで次の呼び出しから反映させるためです。
type GeminiImageClient struct {
	model     string
	imageSize string
	keyFn     KeyFunc
}

// NewGeminiImageClient は GeminiImageClient を初期化します。
func NewGeminiImageClient(model, imageSize string, keyFn KeyFunc) (*GeminiImageClient, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if keyFn == nil {
		return nil, fmt.Errorf("keyFn is required")
	}
	return &GeminiImageClient{
		model:     model,
		imageSize: imageSize,
		keyFn:     keyFn,
	}, nil
}

// Generate は1回の生成呼び出しを実行し、デコード済み画像か分類済みの失敗を返すのだ。
func (c *GeminiImageClient) Generate(ctx context.Context, payload *composer.Payload) (*domain.ImageData, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.keyFn(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domain.NewGenerationError("クライアントの初期化に失敗しました", err)
	}

	config := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: payload.AspectRatio,
			ImageSize:   c.imageSize,
		},
	}
	contents := []*genai.Content{genai.NewContentFromParts(payload.Parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		slog.Error("Gemini生成エラーなのだ", "model", c.model, "error", err)
		return nil, classifyRemoteError(err)
	}

	img, err := extractImage(resp)
	if err != nil {
		return nil, err
	}
	return img, nil
}
