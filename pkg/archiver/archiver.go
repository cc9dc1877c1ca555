package archiver

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-chara-batch-kit/pkg/domain"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/sync/errgroup"
)

// archiveNamePrefix は出力アーカイブ名の固定プレフィックスです。
// 同じ日のうちは何度バンドルしても安定した名前になるのだ。
const archiveNamePrefix = "chara_batch"

// Fetcher は成果物の参照（保存先パス）から画像バイト列を再取得する窓口です。
// 成果物は軽量な参照として保持されるため、バンドル時にここで実体化するのだ。
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// RemoteFetcher はローカル/GCSを remoteio、http(s) を httpkit で取得する標準実装なのだ。
type RemoteFetcher struct {
	reader     remoteio.InputReader
	httpClient httpkit.ClientInterface
}

// NewRemoteFetcher は RemoteFetcher を初期化します。
func NewRemoteFetcher(reader remoteio.InputReader, httpClient httpkit.ClientInterface) (*RemoteFetcher, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	return &RemoteFetcher{reader: reader, httpClient: httpClient}, nil
}

// Fetch は保存先の種類に応じて取得経路を切り替えるのだ。
func (f *RemoteFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return f.httpClient.FetchBytes(ctx, location)
	}

	rc, err := f.reader.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ArchiveResult は完成した単一の圧縮バンドルです。
type ArchiveResult struct {
	Data     []byte
	Filename string
	MimeType string
}

// Archiver は成果物一式を1つのzipにまとめる結果アーカイバなのだ。
type Archiver struct {
	fetcher Fetcher
	now     func() time.Time
}

// NewArchiver は Archiver を初期化します。
func NewArchiver(fetcher Fetcher) (*Archiver, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	return &Archiver{fetcher: fetcher, now: time.Now}, nil
}

// Bundle は全成果物のバイト列を並行に再取得し、1つのzipに固めるのだ。
//
// 各成果物の取得は独立して並行に走り、アーカイブの確定は全取得の完了後です。
// 1件でも取得に失敗した場合は全体が失敗し、部分的なアーカイブは出力されません。
func (a *Archiver) Bundle(ctx context.Context, artifacts []domain.GeneratedArtifact) (*ArchiveResult, error) {
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("アーカイブ対象の成果物が1件もないのだ")
	}

	slog.Info("アーカイブの作成を開始するのだ", "artifacts", len(artifacts))

	// 1. 並行フェッチ。各ゴルーチンは自分のスロットにだけ書き込むのだ
	contents := make([][]byte, len(artifacts))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, artifact := range artifacts {
		i, artifact := i, artifact

		eg.Go(func() error {
			data, err := a.fetcher.Fetch(egCtx, artifact.Location)
			if err != nil {
				return &domain.ArchiveError{Filename: artifact.Filename, Err: err}
			}
			contents[i] = data
			return nil
		})
	}

	// すべての取得が完了するのを待つのだ。失敗が1つでもあればここで全体が落ちます
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 2. zipへの書き込みは取得完了後に、成果物の並び順のまま行うのだ
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	for i, artifact := range artifacts {
		entry, err := zw.Create(artifact.Filename)
		if err != nil {
			return nil, &domain.ArchiveError{Filename: artifact.Filename, Err: err}
		}
		if _, err := entry.Write(contents[i]); err != nil {
			return nil, &domain.ArchiveError{Filename: artifact.Filename, Err: err}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("アーカイブの確定に失敗しました: %w", err)
	}

	name := fmt.Sprintf("%s_%s.zip", archiveNamePrefix, a.now().Format("2006-01-02"))
	slog.Info("アーカイブが完成したのだ", "filename", name, "bytes", buf.Len())

	return &ArchiveResult{
		Data:     buf.Bytes(),
		Filename: name,
		MimeType: "application/zip",
	}, nil
}
