package domain

import (
	"fmt"
	"strings"
)

// MaxPromptCount はバッチ1回で扱えるプロンプトの最大数です。
const MaxPromptCount = 10

// PromptItem は生成指示1件を表します。並び順がそのまま生成順と出力番号になるのだ。
type PromptItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PromptList はユーザーが入力した順序付きのプロンプト一覧なのだ。
type PromptList []PromptItem

// NewPromptList は素のテキスト群からプロンプト一覧を構築します。
// 少なくとも1件は必要で、上限を超えた場合はエラーになるのだ。
func NewPromptList(texts []string) (PromptList, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("プロンプトが1件もないのだ。最低1件は入力してほしいのだ")
	}
	if len(texts) > MaxPromptCount {
		return nil, fmt.Errorf("プロンプトは最大 %d 件までなのだ（%d 件入力されています）", MaxPromptCount, len(texts))
	}

	list := make(PromptList, 0, len(texts))
	for i, text := range texts {
		list = append(list, PromptItem{
			ID:   fmt.Sprintf("p%d", i+1),
			Text: text,
		})
	}
	return list, nil
}

// Active はトリム後に空でないプロンプトだけを、元の順序のまま返します。
// バッチ生成の対象になるのはこの一覧だけで、出力番号もこの並びで決まるのだ。
func (l PromptList) Active() PromptList {
	var active PromptList
	for _, item := range l {
		if strings.TrimSpace(item.Text) != "" {
			active = append(active, item)
		}
	}
	return active
}

// ParsePromptLines はテキスト（1行1プロンプト）をプロンプト文字列に分解します。
// 空行もそのまま保持するのだ。空行を有効集合から外すのは Active の仕事なのだよ。
func ParsePromptLines(data []byte) []string {
	normalized := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	// 末尾の改行で生まれる最後の空要素だけは入力として数えないのだ
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
