package builder

import (
	"fmt"

	"github.com/shouni/go-chara-batch-kit/internal/config"
	"github.com/shouni/go-chara-batch-kit/pkg/archiver"
	"github.com/shouni/go-chara-batch-kit/pkg/asset"
	"github.com/shouni/go-chara-batch-kit/pkg/batch"
	"github.com/shouni/go-chara-batch-kit/pkg/credential"
	"github.com/shouni/go-chara-batch-kit/pkg/gallery"
	"github.com/shouni/go-chara-batch-kit/pkg/generator"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-text-format/pkg/builder"
	"golang.org/x/time/rate"
)

// BuildAssetLoader は参照画像の読み込み器を構築します。
// 取得済みバイト列はインメモリキャッシュに乗せ、同一パスの再取得を避けるのだ。
func BuildAssetLoader(appCtx *AppContext) (*asset.Loader, error) {
	imgCache := cache.New(config.DefaultCacheExpiration, config.CacheCleanupInterval)

	loader, err := asset.NewLoader(appCtx.Reader, appCtx.HTTPClient, imgCache, config.DefaultCacheExpiration)
	if err != nil {
		return nil, fmt.Errorf("参照画像ローダーの初期化に失敗したのだ: %w", err)
	}
	return loader, nil
}

// BuildOrchestrator はバッチ生成の中核一式（ゲート・クライアント・シンク）を束ねて構築するのだ。
func BuildOrchestrator(appCtx *AppContext, gate credential.Gate) (*batch.Orchestrator, error) {
	client, err := generator.NewGeminiImageClient(
		appCtx.Config.GeminiImageModel,
		appCtx.Config.ImageSize,
		gate.CurrentKey,
	)
	if err != nil {
		return nil, fmt.Errorf("生成クライアントの初期化に失敗したのだ: %w", err)
	}

	sink, err := gallery.NewStore(appCtx.Writer, appCtx.Options.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("ギャラリーストアの初期化に失敗したのだ: %w", err)
	}

	// 逐次ループの呼び出し間隔なのだ。Burst 1 で最初の1回だけ即時に通ります
	var limiter *rate.Limiter
	if appCtx.Options.CallInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(appCtx.Options.CallInterval), 1)
	}

	orch, err := batch.NewOrchestrator(gate, client, sink, limiter)
	if err != nil {
		return nil, fmt.Errorf("オーケストレーターの初期化に失敗したのだ: %w", err)
	}
	return orch, nil
}

// BuildPublisher はギャラリー目次（JSON / Markdown / HTML）のパブリッシャーを構築します。
func BuildPublisher(appCtx *AppContext) (*gallery.Publisher, error) {
	builderConfig := builder.BuilderConfig{
		EnableHardWraps: true,
		Mode:            "webtoon",
	}
	appBuilder, err := builder.NewBuilder(builderConfig)
	if err != nil {
		return nil, fmt.Errorf("アプリケーションビルダーの初期化に失敗しました: %w", err)
	}

	htmlRunner, err := appBuilder.BuildRunner()
	if err != nil {
		return nil, fmt.Errorf("MarkdownToHtmlRunnerの初期化に失敗しました: %w", err)
	}

	pub, err := gallery.NewPublisher(appCtx.Writer, htmlRunner)
	if err != nil {
		return nil, fmt.Errorf("パブリッシャーの初期化に失敗したのだ: %w", err)
	}
	return pub, nil
}

// BuildArchiver は成果物のzipバンドラーを構築するのだ。
func BuildArchiver(appCtx *AppContext) (*archiver.Archiver, error) {
	fetcher, err := archiver.NewRemoteFetcher(appCtx.Reader, appCtx.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("フェッチャーの初期化に失敗したのだ: %w", err)
	}

	arc, err := archiver.NewArchiver(fetcher)
	if err != nil {
		return nil, fmt.Errorf("アーカイバーの初期化に失敗したのだ: %w", err)
	}
	return arc, nil
}
