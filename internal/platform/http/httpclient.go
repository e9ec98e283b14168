// Package http は分類APIへの画像送信に使うHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeout は timeout に0以下が渡された場合のリクエスト全体のタイムアウトです。
const DefaultTimeout = 30 * time.Second

// clientOptions は分類APIクライアントの接続設定です。
type clientOptions struct {
	dialTimeout         time.Duration
	tlsHandshakeTimeout time.Duration
	maxIdleConnsPerHost int
	idleConnTimeout     time.Duration
}

// Option はHTTPクライアントの設定を変更します。
type Option func(*clientOptions)

// WithMaxIdleConnsPerHost は予測エンドポイントへのアイドル接続数を変更します。
func WithMaxIdleConnsPerHost(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.maxIdleConnsPerHost = n
		}
	}
}

// WithDialTimeout はTCP接続のタイムアウトを変更します。
func WithDialTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.dialTimeout = d
		}
	}
}

// NewHTTPClient は分類APIへの送信用クライアントを作成します。
// 接続先は予測エンドポイント1つなので、アイドル接続はホスト単位で確保します。
// timeout は画像のアップロードを含むリクエスト全体にかかります。
// http.DefaultClient はタイムアウトが無いため使わないこと。
func NewHTTPClient(timeout time.Duration, opts ...Option) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	o := clientOptions{
		dialTimeout:         5 * time.Second,
		tlsHandshakeTimeout: 5 * time.Second,
		maxIdleConnsPerHost: 10,
		idleConnTimeout:     90 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   o.dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        o.maxIdleConnsPerHost,
		MaxIdleConnsPerHost: o.maxIdleConnsPerHost,
		IdleConnTimeout:     o.idleConnTimeout,
		TLSHandshakeTimeout: o.tlsHandshakeTimeout,
		// multipart本体を送る前にサーバーの応答を待ちすぎない
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
