package asset

import (
	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultManifestName はギャラリーのマニフェストJSONのファイル名です。
	DefaultManifestName = "gallery.json"
	// DefaultIndexName はギャラリーの目次Markdownのファイル名です。
	DefaultIndexName = "gallery.md"
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolveOutputPath(baseDir, fileName)
}
