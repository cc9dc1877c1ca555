package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shouni/go-chara-batch-kit/internal/builder"
	"github.com/shouni/go-chara-batch-kit/internal/config"
	"github.com/shouni/go-chara-batch-kit/pkg/asset"
	"github.com/shouni/go-chara-batch-kit/pkg/credential"
	"github.com/shouni/go-chara-batch-kit/pkg/domain"
	"github.com/shouni/go-chara-batch-kit/pkg/gallery"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// Execute はバッチ生成パイプラインの全工程（入力→生成→公開→バンドル）を実行するのだ。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	// --- 入力の準備 ---
	roster, err := loadRoster(ctx, appCtx)
	if err != nil {
		return err
	}

	prompts, err := loadPrompts(ctx, appCtx)
	if err != nil {
		return err
	}

	selection, err := buildSelection(appCtx.Options)
	if err != nil {
		return err
	}

	// --- バッチ生成 ---
	gate := credential.NewEnvGate()
	orch, err := builder.BuildOrchestrator(appCtx, gate)
	if err != nil {
		return err
	}

	result, runErr := orch.Run(ctx, roster, prompts, selection)
	if runErr != nil && result == nil {
		// 開始前の拒否（バリデーション・認証情報なし）はそのまま返すのだ
		return runErr
	}

	for _, skipped := range result.Skipped {
		slog.Warn("スキップされたプロンプトがあるのだ",
			"position", skipped.Position+1, "prompt_id", skipped.PromptID, "reason", skipped.Reason)
	}

	// --- ギャラリー公開 ---
	// 認証喪失で中断された場合でも、生成済みの成果物はギャラリーとして残すのだ
	if len(result.Artifacts) > 0 {
		pub, err := builder.BuildPublisher(appCtx)
		if err != nil {
			return err
		}

		published, err := pub.Publish(ctx, result.Artifacts, appCtx.Options.OutputDir)
		if err != nil {
			return fmt.Errorf("ギャラリーの公開に失敗したのだ: %w", err)
		}
		slog.Info("ギャラリーを公開したのだ",
			"manifest", published.ManifestPath, "index", published.MarkdownPath, "html", published.HTMLPath)
	}

	if runErr != nil {
		if errors.Is(runErr, domain.ErrCredentialLost) {
			slog.Error("APIキーのセッションが無効になったのだ。再接続してから再実行してほしいのだ",
				"completed", len(result.Artifacts))
		}
		return runErr
	}

	// --- zipバンドル（オプション） ---
	if appCtx.Options.Zip && len(result.Artifacts) > 0 {
		if err := bundleArtifacts(ctx, appCtx, result.Artifacts); err != nil {
			return err
		}
	}

	return nil
}

// ExecuteBundle は既存ギャラリーのマニフェストを読み込み、再生成なしでzipバンドルだけを作るのだ。
func ExecuteBundle(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	manifestPath, err := asset.ResolveOutputPath(appCtx.Options.OutputDir, asset.DefaultManifestName)
	if err != nil {
		return err
	}

	manifest, err := gallery.LoadManifest(ctx, appCtx.Reader, manifestPath)
	if err != nil {
		return err
	}

	return bundleArtifacts(ctx, appCtx, manifest.Artifacts)
}

// bundleArtifacts は成果物一式を日付入りの名前でzipに固めて書き出すのだ。
func bundleArtifacts(ctx context.Context, appCtx *builder.AppContext, artifacts []domain.GeneratedArtifact) error {
	arc, err := builder.BuildArchiver(appCtx)
	if err != nil {
		return err
	}

	bundle, err := arc.Bundle(ctx, artifacts)
	if err != nil {
		return fmt.Errorf("バンドル作成に失敗したのだ: %w", err)
	}

	zipPath, err := asset.ResolveOutputPath(appCtx.Options.OutputDir, bundle.Filename)
	if err != nil {
		return err
	}
	if err := appCtx.Writer.Write(ctx, zipPath, bytes.NewReader(bundle.Data), bundle.MimeType); err != nil {
		return fmt.Errorf("バンドルの書き込みに失敗したのだ: %w", err)
	}

	slog.Info("zipバンドルを書き出したのだ", "path", zipPath, "entries", len(artifacts))
	return nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, reader, writer)
	return &appCtx, nil
}

// loadRoster はキャラクタースロット定義を読み込み、参照画像を束縛するのだ。
// 定義ファイルが指定されなければ、参照なしの既定ロースターで進みます（テキストのみの生成）。
func loadRoster(ctx context.Context, appCtx *builder.AppContext) (domain.Roster, error) {
	roster := domain.NewRoster()

	if path := appCtx.Options.CharacterConfig; path != "" {
		rc, err := appCtx.Reader.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("キャラクター設定 '%s' の読み込みに失敗したのだ: %w", path, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		roster, err = domain.LoadRoster(data)
		if err != nil {
			return nil, err
		}
	}

	loader, err := builder.BuildAssetLoader(appCtx)
	if err != nil {
		return nil, err
	}
	return loader.BindRoster(ctx, roster), nil
}

// loadPrompts はプロンプト一覧を読み込むのだ。
// 位置引数が最優先で、なければファイル（1行1プロンプト、'-'で標準入力）から読みます。
func loadPrompts(ctx context.Context, appCtx *builder.AppContext) (domain.PromptList, error) {
	if args := appCtx.Options.PromptArgs; len(args) > 0 {
		return domain.NewPromptList(args)
	}

	path := appCtx.Options.PromptsFile
	if path == "" {
		return nil, fmt.Errorf("プロンプトファイル（--prompts-file）を指定してほしいのだ")
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("標準入力の読み取りに失敗したのだ: %w", err)
		}
	} else {
		rc, openErr := appCtx.Reader.Open(ctx, path)
		if openErr != nil {
			return nil, fmt.Errorf("プロンプトファイル '%s' の読み込みに失敗したのだ: %w", path, openErr)
		}
		defer rc.Close()

		data, err = io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
	}

	return domain.NewPromptList(domain.ParsePromptLines(data))
}

// buildSelection はCLIフラグからアスペクト比の選択を組み立てるのだ。
func buildSelection(opts config.GenerateOptions) (domain.AspectRatioSelection, error) {
	ratio, err := domain.ParseAspectRatio(opts.AspectRatio)
	if err != nil {
		return domain.AspectRatioSelection{}, err
	}

	if ratio == domain.AspectCustom && opts.CustomText == "" {
		return domain.AspectRatioSelection{}, fmt.Errorf("カスタム比率を使うなら --custom-aspect で比率を指定してほしいのだ")
	}

	return domain.AspectRatioSelection{Ratio: ratio, CustomText: opts.CustomText}, nil
}
