package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-chara-batch-kit/internal/config"
	"github.com/shouni/go-chara-batch-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// bundleCmd は、生成済みギャラリーのマニフェストを読み込んでzipバンドルだけを作り直すのだ。
// 画像の再生成は行わないため、APIコストをかけずに配布物をまとめ直せるのだよ。
var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "生成済みギャラリーをzipにまとめるのだ。",
	Long: `--output-dir にある gallery.json（マニフェスト）を読み込み、
記録された全成果物を1つのzipアーカイブに固めるのだ。
1件でも画像の取得に失敗した場合、部分的なzipは出力されないのだ。`,
	RunE: bundleCommand,
}

func init() {
}

func bundleCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("バンドルモードを起動するのだ！", "output_dir", opts.OutputDir)

	if err := pipeline.ExecuteBundle(ctx, cfg); err != nil {
		return fmt.Errorf("バンドル作成中にエラーが発生したのだ: %w", err)
	}

	slog.Info("バンドルが完成したのだ！")
	return nil
}
