package domain

import (
	"encoding/json"
	"fmt"
)

// RosterSize はキャラクタースロットの固定数です。
// セッション開始時に必ずこの数のスロットが生成され、以後増減しません。
const RosterSize = 4

// Character は生成画像の一貫性を保つための参照キャラクター1体を表します。
// Selected が true かつ参照画像が束縛されている場合のみ、リクエストに寄与するのだ。
type Character struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImagePath string `json:"image_path"` // 参照画像の場所（ローカルパス / https:// / gs://）
	Selected  bool   `json:"selected"`

	// 以下は実行時に束縛される生データで、設定ファイルには保存しないのだ。
	ImageData []byte `json:"-"`
	MimeType  string `json:"-"`
}

// Roster は固定4スロットのキャラクター一覧なのだ。スロット順がそのまま参照画像の送信順になります。
type Roster []Character

// HasImage は参照画像のバイト列が束縛済みかどうかを返します。
func (c Character) HasImage() bool {
	return len(c.ImageData) > 0 && c.MimeType != ""
}

// IsReference はこのキャラクターがリクエストに寄与するかどうかを返すのだ。
// 選択フラグと画像束縛の両方が揃って初めて true になります。
func (c Character) IsReference() bool {
	return c.Selected && c.HasImage()
}

// BindImage は参照画像を束縛します。既存の束縛は置き換えられ、選択フラグは暗黙的に true になるのだ。
func (c *Character) BindImage(data []byte, mimeType string) {
	c.ImageData = data
	c.MimeType = mimeType
	c.Selected = true
}

// ClearImage は画像の束縛を解除します。スロット自体は削除されず、空の状態に戻るだけなのだ。
func (c *Character) ClearImage() {
	c.ImageData = nil
	c.MimeType = ""
	c.Selected = false
}

// String はキャラクターの情報を文字列で返すのだ。
func (c Character) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}

// NewRoster は既定の名前を持つ4スロットのロースターを生成します。
// 最初のスロットだけ選択済みで始まるのは、元々のフォーム仕様に合わせているのだ。
func NewRoster() Roster {
	roster := make(Roster, RosterSize)
	for i := range roster {
		roster[i] = Character{
			ID:       fmt.Sprintf("%d", i+1),
			Name:     fmt.Sprintf("Character %d", i+1),
			Selected: i == 0,
		}
	}
	return roster
}

// LoadRoster はJSONバイト列からロースターを復元するのだ。
// 定義が4件に満たない場合は既定スロットで埋め、4件を超える分はエラーにします。
func LoadRoster(data []byte) (Roster, error) {
	var defined []Character
	if err := json.Unmarshal(data, &defined); err != nil {
		return nil, fmt.Errorf("キャラクター設定のデコードに失敗したのだ: %w", err)
	}
	if len(defined) > RosterSize {
		return nil, fmt.Errorf("キャラクタースロットは最大 %d 件までなのだ（%d 件定義されています）", RosterSize, len(defined))
	}

	roster := NewRoster()
	for i, c := range defined {
		if c.ID == "" {
			c.ID = roster[i].ID
		}
		if c.Name == "" {
			c.Name = roster[i].Name
		}
		roster[i] = c
	}
	return roster, nil
}

// References は選択済みかつ画像束縛済みのキャラクターだけを、スロット順のまま返します。
func (r Roster) References() []Character {
	var refs []Character
	for _, c := range r {
		if c.IsReference() {
			refs = append(refs, c)
		}
	}
	return refs
}
