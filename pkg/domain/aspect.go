package domain

import (
	"fmt"
	"strings"
)

// AspectRatio はリモートAPIが受け付ける構造化アスペクト比、または自由記述モードの識別子です。
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectPortrait  AspectRatio = "3:4"
	AspectLandscape AspectRatio = "4:3"
	AspectTall      AspectRatio = "9:16"
	AspectWide      AspectRatio = "16:9"

	// AspectCustom は固定列挙に含まれない自由記述モードなのだ。
	// APIには構造化パラメータとして渡せないため、プロンプト文へのヒントに変換されます。
	AspectCustom AspectRatio = "custom"
)

// DefaultAspectRatio はセッション開始時の既定値です。
const DefaultAspectRatio = AspectWide

// structuralFallback はカスタムモード時にAPIへ渡す既定値なのだ。
// APIの列挙が厳格なため、意図した比率はプロンプト文のヒントでしか伝わらない（既知の精度損失）。
const structuralFallback = AspectSquare

// supportedRatios はAPIの固定列挙（gemini-3-pro-image-preview がサポートする値）なのだ。
var supportedRatios = []AspectRatio{AspectSquare, AspectPortrait, AspectLandscape, AspectTall, AspectWide}

// AspectRatioSelection はユーザーが選んだアスペクト比と、カスタムモード時の自由記述を保持します。
type AspectRatioSelection struct {
	Ratio      AspectRatio
	CustomText string
}

// ParseAspectRatio はCLIフラグ等の文字列を検証済みの AspectRatio に変換するのだ。
func ParseAspectRatio(s string) (AspectRatio, error) {
	candidate := AspectRatio(strings.TrimSpace(s))
	if strings.EqualFold(string(candidate), string(AspectCustom)) {
		return AspectCustom, nil
	}
	for _, r := range supportedRatios {
		if candidate == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("サポートされていないアスペクト比: '%s'。サポートされている値は [%s, %s] です",
		s, joinRatios(supportedRatios), AspectCustom)
}

// Structural はAPIの設定ブロックへ実際に渡す構造化アスペクト比を返します。
// カスタムモードのときだけ固定列挙のデフォルト（正方形）へフォールバックするのだ。
func (sel AspectRatioSelection) Structural() string {
	if sel.Ratio == AspectCustom {
		return string(structuralFallback)
	}
	return string(sel.Ratio)
}

// PromptSuffix はプロンプト文の末尾に逐語的に付加するヒント文字列を返します。
// カスタムモード以外では空文字列なのだ。
func (sel AspectRatioSelection) PromptSuffix() string {
	if sel.Ratio != AspectCustom {
		return ""
	}
	return fmt.Sprintf(" (Aspect Ratio: %s)", sel.CustomText)
}

func joinRatios(ratios []AspectRatio) string {
	strs := make([]string, len(ratios))
	for i, r := range ratios {
		strs[i] = string(r)
	}
	return strings.Join(strs, ", ")
}
