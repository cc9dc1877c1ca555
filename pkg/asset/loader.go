package asset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-chara-batch-kit/pkg/domain"

	"github.com/shouni/gemini-image-kit/pkg/imgutil"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const (
	// UseImageCompression が true の間、参照画像はJPEGに再圧縮してから送信するのだ。
	UseImageCompression     = true
	ImageCompressionQuality = 75

	cacheKeyRefImage = "ref_image:"
)

// ImageCacher は取得済みの参照画像バイト列をキャッシュするためのインターフェースです。
type ImageCacher interface {
	Get(key string) (any, bool)
	Set(key string, value any, d time.Duration)
}

// Loader はキャラクタースロットに参照画像を束縛する読み込み器なのだ。
// ローカルパスと gs:// は remoteio 経由、http(s) は httpkit 経由で取得します。
type Loader struct {
	reader     remoteio.InputReader
	httpClient httpkit.ClientInterface
	cache      ImageCacher
	expiration time.Duration
}

// NewLoader は依存関係を注入して Loader を初期化します。cache は nil を許容するのだ（キャッシュなし動作）。
func NewLoader(reader remoteio.InputReader, httpClient httpkit.ClientInterface, cache ImageCacher, cacheTTL time.Duration) (*Loader, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	return &Loader{
		reader:     reader,
		httpClient: httpClient,
		cache:      cache,
		expiration: cacheTTL,
	}, nil
}

// BindRoster は各スロットの image_path から参照画像を読み込み、束縛済みのロースターを返すのだ。
//
// 読み込みに失敗したスロットはエラーにせず、未束縛のまま残します。
// 未束縛のスロットはコンポーザー側で静かに除外されるため、バッチ全体は止まらないのだ。
func (l *Loader) BindRoster(ctx context.Context, roster domain.Roster) domain.Roster {
	bound := make(domain.Roster, len(roster))
	copy(bound, roster)

	for i := range bound {
		char := &bound[i]
		if !char.Selected || char.ImagePath == "" {
			continue
		}

		data, mimeType, err := l.loadImage(ctx, char.ImagePath)
		if err != nil {
			slog.Warn("参照画像の読み込みに失敗したのだ。このスロットは除外されます",
				"character", char.Name, "path", char.ImagePath, "error", err)
			char.ClearImage()
			continue
		}

		char.BindImage(data, mimeType)
		slog.Info("参照画像を束縛したのだ", "character", char.Name, "mime_type", mimeType, "bytes", len(data))
	}
	return bound
}

// loadImage は1枚ぶんの画像取得・検証・圧縮を行うのだ。
func (l *Loader) loadImage(ctx context.Context, path string) ([]byte, string, error) {
	if l.cache != nil {
		if val, ok := l.cache.Get(cacheKeyRefImage + path); ok {
			if data, ok := val.([]byte); ok {
				return data, http.DetectContentType(data), nil
			}
		}
	}

	data, err := l.fetchBytes(ctx, path)
	if err != nil {
		return nil, "", err
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("画像ではないデータが指定されました（%s）", mimeType)
	}

	if UseImageCompression {
		if compressed, err := imgutil.CompressToJPEG(data, ImageCompressionQuality); err == nil {
			data = compressed
			mimeType = "image/jpeg"
		}
	}

	if l.cache != nil {
		l.cache.Set(cacheKeyRefImage+path, data, l.expiration)
	}
	return data, mimeType, nil
}

// fetchBytes は参照元の種類に応じて取得経路を切り替えるのだ。
func (l *Loader) fetchBytes(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return l.httpClient.FetchBytes(ctx, path)
	}

	rc, err := l.reader.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
