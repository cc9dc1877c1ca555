package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/shouni/go-chara-batch-kit/pkg/composer"
	"github.com/shouni/go-chara-batch-kit/pkg/domain"
)

// mockGate はテスト用の認証ゲートなのだ。可用性と対話的取得の成否を差し替えられます。
type mockGate struct {
	available    bool
	acquireErr   error
	acquireGrant bool // 対話的取得の成功で available に転じるかどうか
	acquireCalls int
}

func (g *mockGate) IsAvailable(_ context.Context) bool { return g.available }

func (g *mockGate) AcquireInteractively(_ context.Context) error {
	g.acquireCalls++
	if g.acquireErr != nil {
		return g.acquireErr
	}
	if g.acquireGrant {
		g.available = true
	}
	return nil
}

func (g *mockGate) CurrentKey() string { return "test-key" }

// mockClient は生成呼び出しを記録し、位置ごとに失敗を注入できるクライアントなのだ。
type mockClient struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	failAt  map[int]error // 呼び出し順（0始まり）→ 返すエラー
}

func (c *mockClient) Generate(_ context.Context, payload *composer.Payload) (*domain.ImageData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.calls
	c.calls++
	c.prompts = append(c.prompts, payload.FinalPrompt)
	if err, ok := c.failAt[idx]; ok {
		return nil, err
	}
	return &domain.ImageData{Data: []byte("fake"), MimeType: "image/png"}, nil
}

// mockSink は保存先を模擬し、受け取ったファイル名を記録するのだ。
type mockSink struct {
	mu        sync.Mutex
	filenames []string
	storeErr  error
}

func (s *mockSink) Store(_ context.Context, filename string, _ *domain.ImageData) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return "", s.storeErr
	}
	s.filenames = append(s.filenames, filename)
	return fmt.Sprintf("mem://%s", filename), nil
}
