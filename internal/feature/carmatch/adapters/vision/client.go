// Package vision はGoogle Cloud Vision APIのラベル検出を分類器として提供します。
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"

	"carstock_backend/internal/feature/carmatch/domain/entity"
	"carstock_backend/internal/feature/carmatch/usecase"
)

// DefaultMaxResults はラベル検出で要求する最大件数です。
const DefaultMaxResults = 10

// ImageAnnotator はVision APIクライアントのうち利用するメソッドだけを切り出したものです。
type ImageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
}

var _ ImageAnnotator = (*gvision.ImageAnnotatorClient)(nil)

// VisionLabelClassifier はGoogle Cloud Vision APIのラベル検出結果を予測一覧に変換します。
type VisionLabelClassifier struct {
	annotator  ImageAnnotator
	closer     func() error
	maxResults int32
}

// VisionLabelClassifierがClassifierを実装していることをコンパイル時に検証します。
var _ usecase.Classifier = (*VisionLabelClassifier)(nil)

// NewVisionLabelClassifier はADCを使用してVisionLabelClassifierの新しいインスタンスを生成します。
func NewVisionLabelClassifier(ctx context.Context, maxResults int32) (*VisionLabelClassifier, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	v := NewVisionLabelClassifierWithAnnotator(client, maxResults)
	v.closer = client.Close
	return v, nil
}

// NewVisionLabelClassifierWithAnnotator は任意のAnnotatorで分類器を生成します。
func NewVisionLabelClassifierWithAnnotator(a ImageAnnotator, maxResults int32) *VisionLabelClassifier {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &VisionLabelClassifier{annotator: a, maxResults: maxResults}
}

// Close はVision APIクライアントを解放します。
func (v *VisionLabelClassifier) Close() error {
	if v.closer == nil {
		return nil
	}
	return v.closer()
}

// rawResponse はCustom Visionと同じ形のJSONを返すための型です。
type rawResponse struct {
	Predictions []entity.Prediction `json:"predictions"`
}

// Classify は画像からラベルを検出し、ラベル名をタグ名、スコアを確信度として返します。
func (v *VisionLabelClassifier) Classify(ctx context.Context, img entity.StagedImage) (*entity.ClassificationResult, error) {
	imageData, err := os.ReadFile(img.Path)
	if err != nil {
		return nil, fmt.Errorf("read staged image: %w", err)
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: v.maxResults},
				},
			},
		},
	}

	resp, err := v.annotator.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}

	predictions := []entity.Prediction{}
	if len(resp.GetResponses()) > 0 {
		first := resp.GetResponses()[0]
		if first.GetError() != nil {
			return nil, fmt.Errorf("vision API error: %s", first.GetError().GetMessage())
		}
		for _, label := range first.GetLabelAnnotations() {
			predictions = append(predictions, entity.Prediction{
				TagID:       label.GetMid(),
				TagName:     label.GetDescription(),
				Probability: float64(label.GetScore()),
			})
		}
	}

	raw, err := json.Marshal(rawResponse{Predictions: predictions})
	if err != nil {
		return nil, fmt.Errorf("encode vision predictions: %w", err)
	}
	return &entity.ClassificationResult{Raw: raw, Predictions: predictions}, nil
}
