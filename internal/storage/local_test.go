package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"veggieapp/internal/storage"

	"github.com/stretchr/testify/assert"
)

func TestLocalStore_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	store, err := storage.NewLocalStore(root)
	assert.NoError(t, err)

	url, err := store.Save(ctx, "products", "abc.jpg", "image/jpeg", strings.NewReader("jpegdata"))
	assert.NoError(t, err)
	assert.Equal(t, "/uploads/products/abc.jpg", url)

	data, err := os.ReadFile(filepath.Join(root, "products", "abc.jpg"))
	assert.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))

	assert.NoError(t, store.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(root, "products", "abc.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_DeleteIgnoresMissingFile(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "/uploads/products/missing.jpg"))
}

func TestLocalStore_DeleteIgnoresForeignURLs(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := storage.NewLocalStore(root)
	assert.NoError(t, err)

	victim := filepath.Join(root, "keep.txt")
	assert.NoError(t, os.WriteFile(victim, []byte("x"), 0o644))

	// /uploads/ 以外と、ルートを抜ける相対パスは対象外
	assert.NoError(t, store.Delete(ctx, "https://cdn.example.com/products/a.jpg"))
	assert.NoError(t, store.Delete(ctx, "/uploads/../keep.txt"))

	_, err = os.Stat(victim)
	assert.NoError(t, err)
}

func TestAllowedExtension(t *testing.T) {
	cases := map[string]bool{
		"photo.jpg":    true,
		"photo.JPEG":   true,
		"banner.png":   true,
		"anim.gif":     true,
		"modern.webp":  true,
		"script.exe":   false,
		"page.html":    false,
		"noextension":  false,
		"archive.part": false,
	}
	for name, want := range cases {
		assert.Equal(t, want, storage.AllowedExtension(name), name)
	}
}
