package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel   = "gemini-3-pro-image-preview"
	DefaultImageSize    = "4K" // サポートされる最高解像度ティアなのだ
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultCallInterval = 5 * time.Second // 逐次生成の呼び出し間隔（レート制限）
	DefaultAspectRatio  = "16:9"
	DefaultOutputDir    = "output/gallery" // ギャラリーの保存先（ローカル or gs://...）

	// 参照画像キャッシュの寿命なのだ
	DefaultCacheExpiration = 30 * time.Minute
	CacheCleanupInterval   = 1 * time.Hour
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiImageModel string
	ImageSize        string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		ImageSize:        envutil.GetEnv("IMAGE_SIZE", DefaultImageSize),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	PromptsFile     string   // --prompts-file: 1行1プロンプトのテキスト（'-'で標準入力）
	PromptArgs      []string // 位置引数で直接渡されたプロンプト群（ファイルより優先）
	CharacterConfig string   // --char-config: キャラクタースロット定義のJSONパス

	// アスペクト比設定
	AspectRatio string // --aspect-ratio: 固定列挙のいずれか、または "custom"
	CustomText  string // --custom-aspect: カスタムモード時の自由記述（例: "21:9"）

	// 出力設定
	OutputDir string // --output-dir: ギャラリー保存先（ローカル or gs://...）
	Zip       bool   // --zip: バッチ完了後にzipバンドルも書き出す

	// AI挙動設定
	ImageModel string // --image-model: 使用する Gemini 画像モデル名

	// 実行制御
	HTTPTimeout  time.Duration // --http-timeout
	CallInterval time.Duration // --call-interval: 生成呼び出しの間隔
}
