package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader はリクエストIDを運ぶヘッダー名です。
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey はgin.Contextに保存するキーです。
	RequestIDKey = "requestID"

	maxRequestIDLen = 128
)

// RequestID は受信したX-Request-IDを引き継ぎ、無ければUUIDを採番してレスポンスに付与します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID はgin.Contextに保存されたリクエストIDを返します。
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
