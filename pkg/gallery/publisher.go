package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-chara-batch-kit/pkg/asset"
	"github.com/shouni/go-chara-batch-kit/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/go-text-format/pkg/md2htmlrunner"
)

const galleryTitle = "Generated Results"

// Manifest はギャラリー1回ぶんの成果物メタデータです。
// bundle サブコマンドが再生成なしでアーカイブを作るときの入力になるのだ。
type Manifest struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Artifacts   []domain.GeneratedArtifact `json:"artifacts"`
}

// Publisher はバッチ完了後のギャラリー目次（JSON / Markdown / HTML）の書き出しを担います。
type Publisher struct {
	writer     remoteio.OutputWriter
	htmlRunner md2htmlrunner.Runner
}

// PublishResult はパブリッシュ処理で生成されたファイルの情報を保持します。
type PublishResult struct {
	ManifestPath string
	MarkdownPath string
	HTMLPath     string
}

// NewPublisher は Publisher を初期化するのだ。htmlRunner が nil の場合、HTML変換はスキップされます。
func NewPublisher(writer remoteio.OutputWriter, htmlRunner md2htmlrunner.Runner) (*Publisher, error) {
	if writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	return &Publisher{writer: writer, htmlRunner: htmlRunner}, nil
}

// Publish はマニフェストと目次をまとめて書き出し、生成されたファイル情報を返却するのだ！
func (p *Publisher) Publish(ctx context.Context, artifacts []domain.GeneratedArtifact, outputDir string) (PublishResult, error) {
	result := PublishResult{}

	// 1. マニフェストJSON
	manifestPath, err := asset.ResolveOutputPath(outputDir, asset.DefaultManifestName)
	if err != nil {
		return result, err
	}

	manifest := Manifest{GeneratedAt: time.Now(), Artifacts: artifacts}
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return result, fmt.Errorf("マニフェストのエンコードに失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, manifestPath, strings.NewReader(string(manifestJSON)), "application/json"); err != nil {
		return result, fmt.Errorf("マニフェストの書き込みに失敗しました: %w", err)
	}
	result.ManifestPath = manifestPath

	// 2. Markdown目次
	markdownPath, err := asset.ResolveOutputPath(outputDir, asset.DefaultIndexName)
	if err != nil {
		return result, err
	}

	content := p.buildMarkdown(artifacts)
	if err := p.writer.Write(ctx, markdownPath, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}
	result.MarkdownPath = markdownPath

	// 3. HTML変換と保存
	if p.htmlRunner != nil {
		slog.Info("ギャラリーをHTMLに変換するのだ", "artifacts", len(artifacts))
		htmlBuffer, err := p.htmlRunner.Run(ctx, galleryTitle, []byte(content))
		if err != nil {
			return result, fmt.Errorf("HTMLの変換に失敗しました: %w", err)
		}

		htmlPath := strings.TrimSuffix(markdownPath, filepath.Ext(markdownPath)) + ".html"
		if err := p.writer.Write(ctx, htmlPath, htmlBuffer, "text/html; charset=utf-8"); err != nil {
			return result, fmt.Errorf("HTMLファイルの書き込みに失敗しました: %w", err)
		}
		result.HTMLPath = htmlPath
	}

	return result, nil
}

// buildMarkdown は成果物一覧からギャラリー目次のMarkdownを構築するのだ。
// 画像へのリンクは目次からの相対パスにします。
func (p *Publisher) buildMarkdown(artifacts []domain.GeneratedArtifact) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", galleryTitle))
	sb.WriteString(fmt.Sprintf("%d images ready\n\n", len(artifacts)))

	for _, a := range artifacts {
		relPath := path.Base(a.Location)
		sb.WriteString(fmt.Sprintf("## %s\n\n", a.Filename))
		sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", a.PromptText, relPath))
		sb.WriteString(fmt.Sprintf("- prompt: %s\n", a.PromptText))
		sb.WriteString(fmt.Sprintf("- created: %s\n\n", a.CreatedAt.Format(time.RFC3339)))
	}
	return sb.String()
}

// LoadManifest は保存済みのマニフェストJSONを読み込んで復元するのだ。
func LoadManifest(ctx context.Context, reader remoteio.InputReader, manifestPath string) (*Manifest, error) {
	rc, err := reader.Open(ctx, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("マニフェスト '%s' の読み込みに失敗しました: %w", manifestPath, err)
	}
	defer rc.Close()

	var manifest Manifest
	if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("マニフェスト '%s' のデコードに失敗しました: %w", manifestPath, err)
	}
	return &manifest, nil
}
