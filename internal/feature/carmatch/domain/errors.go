// Package domain はcarmatchフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrMissingImage は image フィールドが無い場合のエラーです。
	ErrMissingImage = errors.New("image file is required")
	// ErrEmptyImage はファイルが0バイトの場合のエラーです。
	ErrEmptyImage = errors.New("image file is empty")
	// ErrUnsupportedMediaType は拡張子またはMIMEタイプが許可リストに無い場合のエラーです。
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrPayloadTooLarge はファイルサイズが上限を超えた場合のエラーです。
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrUpstreamFailure は分類APIの呼び出しに失敗した場合のエラーです。
	ErrUpstreamFailure = errors.New("classification upstream failure")
	// ErrStoreQueryFailure は在庫ストアの検索に失敗した場合のエラーです。
	ErrStoreQueryFailure = errors.New("inventory store query failure")
)
