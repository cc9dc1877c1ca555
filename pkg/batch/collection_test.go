package batch

import (
	"testing"

	"github.com/shouni/go-chara-batch-kit/pkg/domain"
)

func TestCollection_AppendAndSnapshot(t *testing.T) {
	c := NewCollection()
	c.Append(domain.GeneratedArtifact{ID: "1", Filename: "batch_image_1.png"})
	c.Append(domain.GeneratedArtifact{ID: "2", Filename: "batch_image_2.png"})

	snap := c.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("期待値 2 件, 実際の値 %d", len(snap))
	}
	if snap[0].ID != "1" || snap[1].ID != "2" {
		t.Errorf("追記順が保たれていません: %v", snap)
	}

	// スナップショットは防御的コピーであること
	snap[0].ID = "tampered"
	if c.Snapshot()[0].ID != "1" {
		t.Error("スナップショットへの変更が内部状態に漏れています")
	}
}

func TestCollection_Reset(t *testing.T) {
	c := NewCollection()
	c.Append(domain.GeneratedArtifact{ID: "1"})
	c.Reset()

	if c.Len() != 0 {
		t.Errorf("リセット後は 0 件のはずです: %d", c.Len())
	}
}
