package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// 1ファイルあたりの上限（5MiB）
const MaxImageSize = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// AllowedExtension は画像として受け付ける拡張子かどうかを返す
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedExtensions[ext]
}

// ImageStore は画像の保存先（ローカル / S3）を抽象化する。
// dirは保存先のサブディレクトリ（products / categories / banners）、
// Saveは公開URLを返す
type ImageStore interface {
	Save(ctx context.Context, dir, filename, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}
