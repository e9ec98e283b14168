package customvision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-resty/resty/v2"

	"carstock_backend/internal/feature/carmatch/adapters/customvision/dto"
	"carstock_backend/internal/feature/carmatch/domain/entity"
	"carstock_backend/internal/feature/carmatch/usecase"
	"carstock_backend/internal/shared/ratelimiter"
)

// PredictionClient はCustom Vision予測APIに画像を送って分類結果を取得します。
type PredictionClient struct {
	cfg     Config
	client  *resty.Client
	limiter ratelimiter.Limiter
}

// PredictionClientがClassifierを実装していることをコンパイル時に検証します。
var _ usecase.Classifier = (*PredictionClient)(nil)

// NewPredictionClient は指定された設定とHTTPクライアントでPredictionClientを生成します。
// limiter が nil の場合は呼び出し頻度を制限しません。
func NewPredictionClient(cfg Config, hc *http.Client, limiter ratelimiter.Limiter) (*PredictionClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("custom vision endpoint is required")
	}
	if cfg.PredictionKey == "" {
		return nil, errors.New("custom vision prediction key is required")
	}
	return &PredictionClient{
		cfg:     cfg,
		client:  resty.NewWithClient(hc),
		limiter: limiter,
	}, nil
}

// Classify は保存済み画像を multipart の image フィールドで送信し、予測一覧を返します。
func (p *PredictionClient) Classify(ctx context.Context, img entity.StagedImage) (*entity.ClassificationResult, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	f, err := os.Open(img.Path)
	if err != nil {
		return nil, fmt.Errorf("open staged image: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader(PredictionKeyHeader, p.cfg.PredictionKey).
		SetHeader("Accept", "application/json").
		SetMultipartField(ImageField, img.OriginalName, img.MIMEType, f).
		Post(p.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("custom vision request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("custom vision http %d: %s", resp.StatusCode(), truncate(resp.Body(), 256))
	}

	raw := resp.Body()
	var body dto.PredictionResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode custom vision response: %w", err)
	}

	predictions := make([]entity.Prediction, 0, len(body.Predictions))
	for _, pr := range body.Predictions {
		predictions = append(predictions, entity.Prediction{
			TagID:       pr.TagID,
			TagName:     pr.TagName,
			Probability: pr.Probability,
		})
	}
	return &entity.ClassificationResult{Raw: raw, Predictions: predictions}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
