package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-chara-batch-kit/internal/config"
	"github.com/shouni/go-chara-batch-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、プロンプトごとに1枚ずつ、キャラクターの一貫性を保った画像を一括生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate [プロンプト...]",
	Short: "プロンプト一覧から画像を一括生成するのだ。",
	Long: `最大10件のプロンプトを順番に処理し、1件につき1枚の画像を生成するのだ。
最大4体のキャラクター参照画像を添えることで、全画像で外見の一貫性を保てるのだよ。
生成された画像は1枚ずつギャラリーに保存され、完了後に目次とマニフェストが書き出されるのだ。`,
	RunE: generateCommand,
}

func init() {
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック。位置引数 → ファイル → 標準入力の順で入力元を決めるのだ
	opts.PromptArgs = args
	if len(args) == 0 && opts.PromptsFile == "" {
		if !isStdin() {
			return fmt.Errorf("プロンプトを位置引数か --prompts-file で指定してほしいのだ")
		}
		opts.PromptsFile = "-"
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.GeminiImageModel = opts.ImageModel
	cfg.Options = opts

	slog.Info("バッチ生成パイプラインを起動するのだ！",
		"prompts_file", opts.PromptsFile,
		"char_config", opts.CharacterConfig,
		"aspect_ratio", opts.AspectRatio,
		"image_model", cfg.GeminiImageModel,
		"output_dir", opts.OutputDir)

	// 3. パイプライン実行
	if err := pipeline.Execute(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
