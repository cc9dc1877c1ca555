package domain

import (
	"testing"
)

func TestParseAspectRatio(t *testing.T) {
	t.Run("固定列挙の値はそのまま通ること", func(t *testing.T) {
		for _, s := range []string{"1:1", "3:4", "4:3", "9:16", "16:9"} {
			ratio, err := ParseAspectRatio(s)
			if err != nil {
				t.Fatalf("'%s' でエラーが発生しました: %v", s, err)
			}
			if string(ratio) != s {
				t.Errorf("期待値 '%s', 実際の値 '%s'", s, ratio)
			}
		}
	})

	t.Run("customは大文字小文字を問わないこと", func(t *testing.T) {
		ratio, err := ParseAspectRatio("Custom")
		if err != nil {
			t.Fatalf("エラーが発生しました: %v", err)
		}
		if ratio != AspectCustom {
			t.Errorf("期待値 '%s', 実際の値 '%s'", AspectCustom, ratio)
		}
	})

	t.Run("列挙外の値はエラーになること", func(t *testing.T) {
		if _, err := ParseAspectRatio("21:9"); err == nil {
			t.Error("'21:9' でエラーが発生しませんでした。固定列挙外はcustomモード経由のはずです")
		}
	})
}

func TestAspectRatioSelection_Structural(t *testing.T) {
	t.Run("固定列挙はそのまま構造化パラメータになること", func(t *testing.T) {
		sel := AspectRatioSelection{Ratio: AspectWide}
		if got := sel.Structural(); got != "16:9" {
			t.Errorf("期待値 '16:9', 実際の値 '%s'", got)
		}
	})

	t.Run("customは正方形へフォールバックすること", func(t *testing.T) {
		sel := AspectRatioSelection{Ratio: AspectCustom, CustomText: "21:9"}
		if got := sel.Structural(); got != "1:1" {
			t.Errorf("期待値 '1:1', 実際の値 '%s'", got)
		}
	})
}

func TestAspectRatioSelection_PromptSuffix(t *testing.T) {
	t.Run("custom時だけヒント文字列が付くこと", func(t *testing.T) {
		sel := AspectRatioSelection{Ratio: AspectCustom, CustomText: "21:9"}
		if got := sel.PromptSuffix(); got != " (Aspect Ratio: 21:9)" {
			t.Errorf("期待値 ' (Aspect Ratio: 21:9)', 実際の値 '%s'", got)
		}
	})

	t.Run("固定列挙では空文字列であること", func(t *testing.T) {
		sel := AspectRatioSelection{Ratio: AspectSquare}
		if got := sel.PromptSuffix(); got != "" {
			t.Errorf("期待値 '', 実際の値 '%s'", got)
		}
	})
}
