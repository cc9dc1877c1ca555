package cmd

import (
	"github.com/shouni/go-chara-batch-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は各サブコマンドで共有される実行時パラメータなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.PromptsFile, "prompts-file", "f", "", "プロンプト一覧のパス（1行1プロンプト、'-'で標準入力なのだ）。")
	rootCmd.PersistentFlags().StringVarP(&opts.CharacterConfig, "char-config", "c", "", "キャラクタースロット（最大4体）を定義したJSONパスなのだ。")

	// --- アスペクト比設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.AspectRatio, "aspect-ratio", "a", config.DefaultAspectRatio, "アスペクト比（1:1, 3:4, 4:3, 9:16, 16:9, custom）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.CustomText, "custom-aspect", "", "customモード時の自由記述比率（例: 21:9）なのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "ギャラリーの保存先ディレクトリ（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.Zip, "zip", false, "バッチ完了後にzipバンドルも書き出すのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "使用する Gemini 画像モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.CallInterval, "call-interval", config.DefaultCallInterval, "生成呼び出しの間隔（レート制限）なのだ。")
}

// preRunAppE は、コマンド実行前の共通チェックなのだ。
// APIキーの存在チェックはここでは行わないのだ。未設定でも認証ゲートが対話的に取得を試みるからなのだよ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"chara-batch-go",
		addAppFlags,
		preRunAppE,
		generateCmd,
		bundleCmd,
	)
}
