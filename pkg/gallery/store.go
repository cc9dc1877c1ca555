package gallery

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shouni/go-chara-batch-kit/pkg/asset"
	"github.com/shouni/go-chara-batch-kit/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// Store は生成直後の画像を出力ディレクトリへ書き出す成果物シンクです。
// バッチの進行に合わせて1枚ずつファイルが現れる、CLIなりの逐次公開なのだ。
type Store struct {
	writer  remoteio.OutputWriter
	baseDir string // 保存先のベースディレクトリ（ローカル or gs://）
}

// NewStore は Store を初期化します。
func NewStore(writer remoteio.OutputWriter, baseDir string) (*Store, error) {
	if writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	if baseDir == "" {
		return nil, fmt.Errorf("baseDir is required")
	}
	return &Store{writer: writer, baseDir: baseDir}, nil
}

// Store は画像バイト列を指定ファイル名で永続化し、保存先のパスを返すのだ。
func (s *Store) Store(ctx context.Context, filename string, img *domain.ImageData) (string, error) {
	fullPath, err := asset.ResolveOutputPath(s.baseDir, filename)
	if err != nil {
		return "", fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	if err := s.writer.Write(ctx, fullPath, bytes.NewReader(img.Data), img.MimeType); err != nil {
		return "", fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
	}
	return fullPath, nil
}
