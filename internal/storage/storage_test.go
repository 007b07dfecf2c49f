package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewDiskStore(dir, "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Put(ctx, "image-1-123.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/image-1-123.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "image-1-123.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	require.NoError(t, s.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(dir, "image-1-123.png"))
	assert.True(t, os.IsNotExist(err))
	// 重复删除不报错
	assert.NoError(t, s.Delete(ctx, url))
}

func TestDiskStoreIgnoresForeignURL(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir, "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Put(ctx, "cover.png", []byte("png"), "image/png")
	require.NoError(t, err)

	for _, url := range []string{"https://cdn.example.com/cover.png", "/static/cover.png", "cover.png"} {
		assert.NoError(t, s.Delete(ctx, url), url)
	}
	_, err = os.Stat(filepath.Join(dir, "cover.png"))
	assert.NoError(t, err)
}

func TestRejectsTraversal(t *testing.T) {
	s := NewMemoryStore("/uploads")
	for _, name := range []string{"", "../etc/passwd", "a/b.png", `a\b.png`, ".hidden"} {
		_, err := s.Put(context.Background(), name, nil, "")
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore("/uploads")
	url, err := s.Put(context.Background(), "ebook-1-1.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	f, ok := s.Get(url)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", f.ContentType)
}
