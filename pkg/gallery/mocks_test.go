package gallery

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// mockWriter は書き込み内容をメモリに蓄えるOutputWriterなのだ。
type mockWriter struct {
	files map[string][]byte
	mimes map[string]string
	err   error
}

func newMockWriter() *mockWriter {
	return &mockWriter{files: map[string][]byte{}, mimes: map[string]string{}}
}

func (w *mockWriter) Write(ctx context.Context, path string, data io.Reader, mimeType string) error {
	if w.err != nil {
		return w.err
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	w.files[path] = content
	w.mimes[path] = mimeType
	return nil
}

// mockReader は固定のコンテンツを返すInputReaderなのだ。
type mockReader struct {
	files map[string][]byte
}

func (r *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	content, ok := r.files[uri]
	if !ok {
		return nil, fmt.Errorf("not found: %s", uri)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (r *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}
