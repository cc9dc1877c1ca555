package gallery

import (
	"context"
	"strings"
	"testing"

	"github.com/shouni/go-chara-batch-kit/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Store(t *testing.T) {
	writer := newMockWriter()
	s, err := NewStore(writer, "output/gallery")
	require.NoError(t, err)

	img := &domain.ImageData{Data: []byte("png-bytes"), MimeType: "image/png"}
	location, err := s.Store(context.Background(), "batch_image_1.png", img)
	require.NoError(t, err)

	// 返された保存先にそのまま書き込まれていること
	assert.True(t, strings.HasSuffix(location, "batch_image_1.png"))
	assert.Equal(t, []byte("png-bytes"), writer.files[location])
	assert.Equal(t, "image/png", writer.mimes[location])
}

func TestNewStore_Validation(t *testing.T) {
	if _, err := NewStore(nil, "output"); err == nil {
		t.Error("writer なしでエラーが発生しませんでした")
	}
	if _, err := NewStore(newMockWriter(), ""); err == nil {
		t.Error("baseDir なしでエラーが発生しませんでした")
	}
}
