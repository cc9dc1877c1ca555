package composer

import (
	"testing"

	"github.com/shouni/go-chara-batch-kit/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRoster(t *testing.T) domain.Roster {
	t.Helper()
	roster := domain.NewRoster()
	roster[0].Name = "Hero"
	roster[0].BindImage([]byte("hero-bytes"), "image/png")
	roster[2].Name = "Rival"
	roster[2].BindImage([]byte("rival-bytes"), "image/jpeg")
	// スロット2は選択済みだが画像なし、スロット4は未選択のままなのだ
	roster[1].Selected = true
	return roster
}

func TestCompose_WithReferences(t *testing.T) {
	roster := buildRoster(t)
	sel := domain.AspectRatioSelection{Ratio: domain.AspectWide}

	payload, err := Compose("街並みを描いて", roster, sel)
	require.NoError(t, err)

	// 参照ペア2組（画像+説明文）+ プロンプト本文 = 5パーツ
	require.Len(t, payload.Parts, 5)

	require.NotNil(t, payload.Parts[0].InlineData)
	assert.Equal(t, "image/png", payload.Parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte("hero-bytes"), payload.Parts[0].InlineData.Data)
	assert.Contains(t, payload.Parts[1].Text, `character named "Hero"`)

	require.NotNil(t, payload.Parts[2].InlineData)
	assert.Equal(t, "image/jpeg", payload.Parts[2].InlineData.MIMEType)
	assert.Contains(t, payload.Parts[3].Text, `character named "Rival"`)

	assert.Equal(t, "街並みを描いて", payload.Parts[4].Text)
	assert.Equal(t, "16:9", payload.AspectRatio)
	assert.Equal(t, "街並みを描いて", payload.FinalPrompt)
}

func TestCompose_NoReferences(t *testing.T) {
	roster := domain.NewRoster() // 選択はあるが画像束縛はゼロ
	sel := domain.AspectRatioSelection{Ratio: domain.AspectSquare}

	payload, err := Compose("海を描いて", roster, sel)
	require.NoError(t, err)

	// 画像なしロースターではプロンプト本文だけが送られるのだ
	require.Len(t, payload.Parts, 1)
	assert.Equal(t, "海を描いて", payload.Parts[0].Text)
}

func TestCompose_CustomAspectRatio(t *testing.T) {
	roster := domain.NewRoster()
	sel := domain.AspectRatioSelection{Ratio: domain.AspectCustom, CustomText: "21:9"}

	payload, err := Compose("a castle", roster, sel)
	require.NoError(t, err)

	// カスタム比率はヒント文として本文に連結され、構造化パラメータは正方形に戻るのだ
	assert.Equal(t, "a castle (Aspect Ratio: 21:9)", payload.FinalPrompt)
	assert.Equal(t, "a castle (Aspect Ratio: 21:9)", payload.Parts[len(payload.Parts)-1].Text)
	assert.Equal(t, "1:1", payload.AspectRatio)
}

func TestCompose_EmptyPrompt(t *testing.T) {
	roster := domain.NewRoster()
	sel := domain.AspectRatioSelection{Ratio: domain.AspectSquare}

	_, err := Compose("   ", roster, sel)
	assert.Error(t, err, "空白のみのプロンプトはエラーになるはずです")
}
