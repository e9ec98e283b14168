// Package di は設定に応じてアプリケーションの構成要素を組み立てます。
package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"carstock_backend/internal/feature/carmatch/adapters/customvision"
	"carstock_backend/internal/feature/carmatch/adapters/vision"
	"carstock_backend/internal/feature/carmatch/usecase"
	"carstock_backend/internal/platform/config"
	infrahttp "carstock_backend/internal/platform/http"
	"carstock_backend/internal/shared/ratelimiter"
)

// NewClassifier は PREDICTION_BACKEND に応じた分類器を生成します。
// 返される cleanup は終了時に呼び出してください。
func NewClassifier(ctx context.Context, cfg config.Config) (usecase.Classifier, func(), error) {
	switch cfg.PredictionBackend {
	case config.BackendCustomVision:
		httpClient := infrahttp.NewHTTPClient(cfg.CustomVision.Timeout)
		var limiter ratelimiter.Limiter
		if rl := ratelimiter.NewRateLimiter(cfg.CustomVision.RateLimit, time.Minute); rl != nil {
			limiter = rl
		}
		c, err := customvision.NewPredictionClient(cfg.CustomVision, httpClient, limiter)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil

	case config.BackendGoogleVision:
		c, err := vision.NewVisionLabelClassifier(ctx, int32(cfg.VisionMaxResults))
		if err != nil {
			return nil, nil, err
		}
		return c, func() {
			if err := c.Close(); err != nil {
				slog.Error("Failed to close vision client", "error", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown prediction backend %q", cfg.PredictionBackend)
	}
}
