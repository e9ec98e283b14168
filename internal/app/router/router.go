package router

import (
	"github.com/gin-gonic/gin"

	carmatchhandler "carstock_backend/internal/feature/carmatch/transport/handler"
	"carstock_backend/internal/platform/http/handler"
	"carstock_backend/internal/platform/middleware"
)

// NewRouter はミドルウェアとルートを登録したgin.Engineを返します。
func NewRouter(carMatch *carmatchhandler.CarMatchHandler, readiness map[string]handler.Checker,
	allowedOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID(), middleware.CORS(allowedOrigins))

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	// 依存サービスの疎通確認
	r.GET("/readyz", handler.Readiness(readiness))

	// 画像をアップロードして在庫を照合
	r.POST("/uploadsingleimage", carMatch.UploadSingleImage)

	return r
}
