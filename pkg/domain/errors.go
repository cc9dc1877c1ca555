package domain

import (
	"errors"
	"fmt"
)

// バッチ実行の失敗分類なのだ。
// ErrCredentialLost だけがループ全体を中断させ、それ以外の生成失敗は該当プロンプトのスキップに留まります。
var (
	// ErrNoActivePrompts は有効なプロンプトが1件もない状態での開始要求を表します。
	ErrNoActivePrompts = errors.New("有効なプロンプトが1件もないのだ。最低1件は入力してほしいのだ")

	// ErrCredentialUnavailable は対話的な取得を試みてもなお認証情報が得られなかったことを表します。
	// 実行中の喪失（ErrCredentialLost）とは区別されるのだ。
	ErrCredentialUnavailable = errors.New("APIキーが設定されていないのだ。接続してから再実行してほしいのだ")

	// ErrCredentialLost は有効だったはずの認証情報が実行中にリモートサービスから拒否されたことを表します。
	ErrCredentialLost = errors.New("APIキーのセッションが無効になったのだ。再接続が必要なのだ")
)

// GenerationError は認証以外の理由による単一プロンプトの生成失敗です。
// リモートサービスの元メッセージを保持したままログ・スキップ処理に回されるのだ。
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("画像生成に失敗しました: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("画像生成に失敗しました: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError は生成失敗を組み立てる小さなヘルパーなのだ。
func NewGenerationError(message string, err error) *GenerationError {
	return &GenerationError{Message: message, Err: err}
}

// ArchiveError は一括アーカイブ処理の失敗です。1件でも取得に失敗すれば全体が失敗し、
// 部分的なアーカイブは決して出力されないのだ。
type ArchiveError struct {
	Filename string
	Err      error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("アーカイブの作成に失敗しました（%s）: %v", e.Filename, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}
