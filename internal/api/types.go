// Package api はHTTPレスポンスの共通型を定義します。
package api

// ErrorResponse はエラー時のJSONレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
