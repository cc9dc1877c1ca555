package asset

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/shouni/go-chara-batch-kit/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockReader struct {
	files map[string][]byte
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	content, ok := m.files[uri]
	if !ok {
		return nil, fmt.Errorf("not found: %s", uri)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}

type mockHTTPClient struct {
	data  []byte
	err   error
	calls int
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

type mockCache struct {
	data map[string]any
}

func (m *mockCache) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	m.data[key] = value
}

// --- Helpers ---

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	buf := &bytes.Buffer{}
	require.NoError(t, jpeg.Encode(buf, img, nil))
	return buf.Bytes()
}

// --- Tests ---

func TestLoader_BindRoster(t *testing.T) {
	reader := &mockReader{files: map[string][]byte{
		"hero.png": encodePNG(t),
	}}
	loader, err := NewLoader(reader, &mockHTTPClient{}, nil, 0)
	require.NoError(t, err)

	roster := domain.NewRoster()
	roster[0].ImagePath = "hero.png"
	roster[0].Selected = true
	roster[1].ImagePath = "unused.png" // 未選択スロットは読み込み対象外なのだ

	bound := loader.BindRoster(context.Background(), roster)

	require.True(t, bound[0].HasImage())
	assert.Equal(t, "image/jpeg", bound[0].MimeType, "参照画像は送信前にJPEGへ再圧縮されるのだ")
	assert.False(t, bound[1].HasImage())

	// 元のロースターには副作用がないこと
	assert.False(t, roster[0].HasImage())
}

func TestLoader_BindRoster_FailureClearsSlot(t *testing.T) {
	t.Run("取得失敗はスロット除外に留まること", func(t *testing.T) {
		reader := &mockReader{files: map[string][]byte{}}
		loader, err := NewLoader(reader, &mockHTTPClient{}, nil, 0)
		require.NoError(t, err)

		roster := domain.NewRoster()
		roster[0].ImagePath = "missing.png"
		roster[0].Selected = true

		bound := loader.BindRoster(context.Background(), roster)
		assert.False(t, bound[0].HasImage())
	})

	t.Run("画像ではないデータはスロット除外に留まること", func(t *testing.T) {
		reader := &mockReader{files: map[string][]byte{
			"note.txt": []byte("this is not an image"),
		}}
		loader, err := NewLoader(reader, &mockHTTPClient{}, nil, 0)
		require.NoError(t, err)

		roster := domain.NewRoster()
		roster[0].ImagePath = "note.txt"
		roster[0].Selected = true

		bound := loader.BindRoster(context.Background(), roster)
		assert.False(t, bound[0].HasImage())
	})
}

func TestLoader_BindRoster_HTTPSource(t *testing.T) {
	httpClient := &mockHTTPClient{data: encodePNG(t)}
	loader, err := NewLoader(&mockReader{}, httpClient, nil, 0)
	require.NoError(t, err)

	roster := domain.NewRoster()
	roster[0].ImagePath = "https://example.com/hero.png"
	roster[0].Selected = true

	bound := loader.BindRoster(context.Background(), roster)

	require.True(t, bound[0].HasImage())
	assert.Equal(t, 1, httpClient.calls, "http(s) の参照は httpkit 経由で取得されるはずです")
}

func TestLoader_BindRoster_CacheHit(t *testing.T) {
	cached := encodeJPEG(t)
	cache := &mockCache{data: map[string]any{
		cacheKeyRefImage + "hero.png": cached,
	}}
	// リーダーは空なので、キャッシュが効かなければ読み込みは失敗するのだ
	loader, err := NewLoader(&mockReader{files: map[string][]byte{}}, &mockHTTPClient{}, cache, time.Minute)
	require.NoError(t, err)

	roster := domain.NewRoster()
	roster[0].ImagePath = "hero.png"
	roster[0].Selected = true

	bound := loader.BindRoster(context.Background(), roster)

	require.True(t, bound[0].HasImage())
	assert.Equal(t, cached, bound[0].ImageData)
	assert.Equal(t, "image/jpeg", bound[0].MimeType)
}
