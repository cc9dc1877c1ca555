package composer

import (
	"fmt"
	"strings"

	"github.com/shouni/go-chara-batch-kit/pkg/domain"

	"google.golang.org/genai"
)

// referenceTextFormat は参照画像とキャラクター名を結び付け、外見の維持を指示する定型文なのだ。
// 表示名は逐語的に埋め込まれます。
const referenceTextFormat = `Reference image for character named "%s". Maintain the appearance of this character.`

// Payload はリモート生成サービスへ渡す、組み立て済みのマルチモーダルリクエストです。
type Payload struct {
	// Parts は送信順に並んだコンテンツパーツ群なのだ。
	// 参照キャラクターごとに（画像 + 説明文）のペア、最後にプロンプト本文が1つ続きます。
	Parts []*genai.Part
	// AspectRatio はAPIの設定ブロックに渡す構造化アスペクト比です。
	AspectRatio string
	// FinalPrompt は末尾に付加されたプロンプト本文（カスタム比率ヒント込み）なのだ。
	FinalPrompt string
}

// Compose はプロンプト本文・キャラクターロースター・アスペクト比選択からリクエストを組み立てます。
// ネットワークやI/Oへの副作用は一切ない純粋な変換なのだ。
//
// ロースターはフィルタ前の全スロットを渡してほしいのだ。選択済みかつ画像束縛済みの
// スロットだけが、スロット順のまま参照ペアとして展開されます。
func Compose(promptText string, roster domain.Roster, sel domain.AspectRatioSelection) (*Payload, error) {
	if strings.TrimSpace(promptText) == "" {
		return nil, fmt.Errorf("プロンプト本文が空なのだ")
	}

	var parts []*genai.Part

	// 1. 参照画像とその説明文をスロット順に並べるのだ。
	// 選択済みでも画像が未束縛のスロットは、空の参照として送らず静かに除外します。
	for _, char := range roster.References() {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: char.MimeType,
				Data:     char.ImageData,
			},
		})
		parts = append(parts, genai.NewPartFromText(fmt.Sprintf(referenceTextFormat, char.Name)))
	}

	// 2. プロンプト本文を最後に1つだけ付けるのだ。
	// カスタム比率のときはヒント文字列が逐語的に連結されます。
	finalPrompt := promptText + sel.PromptSuffix()
	parts = append(parts, genai.NewPartFromText(finalPrompt))

	return &Payload{
		Parts:       parts,
		AspectRatio: sel.Structural(),
		FinalPrompt: finalPrompt,
	}, nil
}
