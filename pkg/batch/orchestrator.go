package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/shouni/go-chara-batch-kit/pkg/composer"
	"github.com/shouni/go-chara-batch-kit/pkg/credential"
	"github.com/shouni/go-chara-batch-kit/pkg/domain"
	"github.com/shouni/go-chara-batch-kit/pkg/generator"

	"golang.org/x/time/rate"
)

// ArtifactSink は生成直後の画像バイト列を永続化し、保存先の参照を返す出力先です。
// ギャラリーへの逐次保存がこの差し込み口で行われるのだ。
type ArtifactSink interface {
	Store(ctx context.Context, filename string, img *domain.ImageData) (string, error)
}

// SkippedPrompt は生成に失敗してスキップされたプロンプト1件の記録なのだ。
// 静かな欠落ではなく型付きのマーカーとして結果に残します。
type SkippedPrompt struct {
	Position int    // 有効プロンプト一覧内での位置（0始まり）
	PromptID string
	Reason   string
}

// RunResult はバッチ実行1回ぶんの最終結果です。
// 認証喪失で中断された場合でも、それまでに生成済みの成果物は保持されるのだ。
type RunResult struct {
	Artifacts []domain.GeneratedArtifact
	Skipped   []SkippedPrompt
	Aborted   bool
}

// Orchestrator はバッチ生成の逐次ステートマシンです。状態は Idle → Running → Idle の
// 一方向で、実行ごとに完結します。進捗と成果物コレクションの唯一の書き手なのだ。
type Orchestrator struct {
	gate    credential.Gate
	client  generator.Client
	sink    ArtifactSink
	limiter *rate.Limiter // nil なら待機なし
	now     func() time.Time

	mu           sync.RWMutex
	running      bool
	progress     int
	credentialOK bool
	collection   *Collection
}

// NewOrchestrator は依存関係を検証しつつオーケストレーターを初期化するのだ。
func NewOrchestrator(gate credential.Gate, client generator.Client, sink ArtifactSink, limiter *rate.Limiter) (*Orchestrator, error) {
	if gate == nil {
		return nil, fmt.Errorf("gate is required")
	}
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	return &Orchestrator{
		gate:       gate,
		client:     client,
		sink:       sink,
		limiter:    limiter,
		now:        time.Now,
		collection: NewCollection(),
	}, nil
}

// Run は有効プロンプトごとに1回ずつ生成を実行し、最終結果を返すのだ。
//
// 開始条件: 有効プロンプトが1件以上あること、かつ認証情報が使えること。
// 認証情報がなければ対話的取得を1回だけ試み、それでも得られなければ開始しません。
// 実行中の認証喪失は残りを即座に中断し、それ以外の失敗は記録して次に進みます。
func (o *Orchestrator) Run(ctx context.Context, roster domain.Roster, prompts domain.PromptList, sel domain.AspectRatioSelection) (*RunResult, error) {
	// 1. バリデーション: 有効プロンプトが1件もなければ開始を拒否するのだ
	active := prompts.Active()
	if len(active) == 0 {
		return nil, domain.ErrNoActivePrompts
	}

	// 2. 認証情報の確認。毎回ゲートに問い直し、過去の値を信用しないのだ
	if err := o.ensureCredential(ctx); err != nil {
		return nil, err
	}

	if err := o.enterRunning(); err != nil {
		return nil, err
	}
	defer o.leaveRunning()

	total := len(active)
	result := &RunResult{}

	slog.Info("バッチ生成を開始するのだ",
		"active_prompts", total,
		"references", len(roster.References()),
		"aspect_ratio", sel.Structural())

	for i, item := range active {
		// キャンセルの確認は次の生成呼び出しを発行する前に1回だけ行うのだ
		if err := ctx.Err(); err != nil {
			result.Aborted = true
			result.Artifacts = o.collection.Snapshot()
			return result, err
		}

		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				result.Aborted = true
				result.Artifacts = o.collection.Snapshot()
				return result, err
			}
		}

		err := o.generateOne(ctx, i, item, roster, sel)
		if err != nil {
			if errors.Is(err, domain.ErrCredentialLost) {
				// 認証喪失だけは特別扱い: 状態を落として残りを即中断するのだ。
				// 生成済みの成果物はそのまま残します。
				o.setCredentialAvailable(false)
				slog.Error("実行中にAPIキーが無効になったのだ。残りのプロンプトを中断します",
					"prompt_index", i+1, "completed", o.collection.Len())
				result.Aborted = true
				result.Artifacts = o.collection.Snapshot()
				return result, err
			}

			// それ以外の失敗は該当プロンプトのスキップに留め、バッチは続行するのだ
			slog.Warn("プロンプトの生成に失敗したのでスキップするのだ",
				"prompt_index", i+1, "prompt_id", item.ID, "error", err)
			result.Skipped = append(result.Skipped, SkippedPrompt{
				Position: i,
				PromptID: item.ID,
				Reason:   err.Error(),
			})
		}

		// 成否に関わらず、処理済み件数ベースで進捗を更新するのだ
		o.setProgress(progressPercent(i+1, total))
	}

	result.Artifacts = o.collection.Snapshot()
	slog.Info("バッチ生成が完了したのだ",
		"generated", len(result.Artifacts), "skipped", len(result.Skipped), "total", total)
	return result, nil
}

// generateOne は1プロンプトぶんの合成・生成・保存を行うのだ。
func (o *Orchestrator) generateOne(ctx context.Context, position int, item domain.PromptItem, roster domain.Roster, sel domain.AspectRatioSelection) error {
	payload, err := composer.Compose(item.Text, roster, sel)
	if err != nil {
		return err
	}

	slog.Info("画像を生成中なのだ...", "prompt_index", position+1, "prompt_id", item.ID)

	img, err := o.client.Generate(ctx, payload)
	if err != nil {
		return err
	}

	filename := domain.ArtifactFilename(position)
	location, err := o.sink.Store(ctx, filename, img)
	if err != nil {
		return domain.NewGenerationError("成果物の保存に失敗しました", err)
	}

	artifact := domain.NewArtifact(item, position, location, img.MimeType, o.now())
	o.collection.Append(artifact)

	slog.Info("画像が完成したのだ", "prompt_index", position+1, "filename", filename, "location", location)
	return nil
}

// ensureCredential は認証情報を確認し、なければ対話的取得を1回だけ試みるのだ。
func (o *Orchestrator) ensureCredential(ctx context.Context) error {
	if !o.gate.IsAvailable(ctx) {
		if err := o.gate.AcquireInteractively(ctx); err != nil {
			slog.Warn("対話的なAPIキー取得に失敗したのだ", "error", err)
		}
		if !o.gate.IsAvailable(ctx) {
			o.setCredentialAvailable(false)
			return domain.ErrCredentialUnavailable
		}
	}
	o.setCredentialAvailable(true)
	return nil
}

// enterRunning は Idle → Running の遷移なのだ。進捗と前回の結果はここでリセットされます。
func (o *Orchestrator) enterRunning() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return fmt.Errorf("バッチは既に実行中なのだ")
	}
	o.running = true
	o.progress = 0
	o.collection.Reset()
	return nil
}

// leaveRunning は Running → Idle の遷移なのだ。完了・中断を問わず無条件に戻ります。
func (o *Orchestrator) leaveRunning() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.running = false
}

// Running は実行中かどうかを返します。
func (o *Orchestrator) Running() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.running
}

// Progress は現在の進捗率（0〜100）を返します。
func (o *Orchestrator) Progress() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.progress
}

// CredentialAvailable は最後に確認した認証情報の有無を返すのだ。
// 実行開始時にゲートへ問い直して更新され、実行中の喪失で false に落ちます。
func (o *Orchestrator) CredentialAvailable() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.credentialOK
}

// Results は成果物コレクションの現時点のスナップショットを返します。
// 実行中でも安全に呼べるのだ（進行に応じて伸びるプレフィックスが見えます）。
func (o *Orchestrator) Results() []domain.GeneratedArtifact {
	return o.collection.Snapshot()
}

func (o *Orchestrator) setProgress(p int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = p
}

func (o *Orchestrator) setCredentialAvailable(ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.credentialOK = ok
}

// progressPercent は処理済み件数から進捗率を計算するのだ。
func progressPercent(processed, total int) int {
	return int(math.Round(float64(processed) / float64(total) * 100))
}
