package usecase

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"carstock_backend/internal/feature/carmatch/domain"
)

// MaxImageSize はアップロード画像の最大サイズ（10,000,000バイト）です。
const MaxImageSize int64 = 10_000_000

// allowedImageTypes は拡張子とMIMEサブタイプの許可リストです。
var allowedImageTypes = map[string]struct{}{
	"jpeg": {},
	"jpg":  {},
	"png":  {},
	"gif":  {},
	"svg":  {},
}

// ValidateUpload はファイル名・宣言MIMEタイプ・サイズを検証します。
// 拡張子とMIMEタイプの両方が許可リストに含まれている必要があります。
func ValidateUpload(filename, mimeType string, size, maxSize int64) error {
	if !allowedExtension(filename) || !allowedMIMEType(mimeType) {
		return fmt.Errorf("%w: %q (%s)", domain.ErrUnsupportedMediaType, filename, mimeType)
	}
	if maxSize <= 0 {
		maxSize = MaxImageSize
	}
	if size > maxSize {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d bytes", domain.ErrPayloadTooLarge, size, maxSize)
	}
	// 0バイトの画像は分類APIに送らず400で拒否する
	if size == 0 {
		return domain.ErrEmptyImage
	}
	return nil
}

func allowedExtension(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	_, ok := allowedImageTypes[ext]
	return ok
}

// allowedMIMEType は "image/svg+xml" のような構造化サフィックスを除いたサブタイプで判定します。
func allowedMIMEType(mimeType string) bool {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}
	_, subtype, ok := strings.Cut(mediaType, "/")
	if !ok {
		return false
	}
	subtype, _, _ = strings.Cut(subtype, "+")
	_, ok = allowedImageTypes[subtype]
	return ok
}
