package batch

import (
	"sync"

	"github.com/shouni/go-chara-batch-kit/pkg/domain"
)

// Collection はバッチ実行中の成果物を保持する追記専用のシーケンスなのだ。
//
// 書き込みはオーケストレーターの単一制御スレッドだけが行い、読み手（描画側など）は
// 実行中でも Snapshot で一貫したプレフィックスを取得できます。実行中に要素が
// 巻き戻されたり削除されたりすることはありません。リセットされるのは次の実行開始時だけです。
type Collection struct {
	mu        sync.RWMutex
	artifacts []domain.GeneratedArtifact
}

// NewCollection は空のコレクションを生成します。
func NewCollection() *Collection {
	return &Collection{}
}

// Append は成果物を末尾に追加するのだ。追加された瞬間から観測者に見えるようになります。
func (c *Collection) Append(artifact domain.GeneratedArtifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifacts = append(c.artifacts, artifact)
}

// Snapshot は現時点の成果物一覧のコピーを返します。
// 返り値は呼び出し側が自由に触ってよい防御的コピーなのだ。
func (c *Collection) Snapshot() []domain.GeneratedArtifact {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot := make([]domain.GeneratedArtifact, len(c.artifacts))
	copy(snapshot, c.artifacts)
	return snapshot
}

// Len は現在の件数を返すのだ。
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.artifacts)
}

// Reset は前回の実行結果を破棄します。新しいバッチの開始時にだけ呼ばれるのだ。
func (c *Collection) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifacts = nil
}
