package vision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/status"

	"carstock_backend/internal/feature/carmatch/domain/entity"
)

// mockAnnotator はImageAnnotatorのモック実装です。
type mockAnnotator struct {
	resp    *visionpb.BatchAnnotateImagesResponse
	err     error
	lastReq *visionpb.BatchAnnotateImagesRequest
}

func (m *mockAnnotator) BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

func stageFile(t *testing.T) entity.StagedImage {
	t.Helper()

	path := filepath.Join(t.TempDir(), "1--car.jpg")
	require.NoError(t, os.WriteFile(path, []byte("fake-image"), 0o600))
	return entity.StagedImage{Path: path, OriginalName: "car.jpg", MIMEType: "image/jpeg", Size: 10}
}

func TestVisionLabelClassifier_Classify(t *testing.T) {
	t.Parallel()

	annotator := &mockAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{{
			LabelAnnotations: []*visionpb.EntityAnnotation{
				{Mid: "/m/01", Description: "sedan", Score: 0.5},
				{Mid: "/m/02", Description: "hatchback", Score: 0.75},
			},
		}},
	}}
	c := NewVisionLabelClassifierWithAnnotator(annotator, 0)

	res, err := c.Classify(context.Background(), stageFile(t))

	require.NoError(t, err)
	assert.Equal(t, []entity.Prediction{
		{TagID: "/m/01", TagName: "sedan", Probability: 0.5},
		{TagID: "/m/02", TagName: "hatchback", Probability: 0.75},
	}, res.Predictions)
	assert.JSONEq(t, `{"predictions":[
		{"tagId":"/m/01","tagName":"sedan","probability":0.5},
		{"tagId":"/m/02","tagName":"hatchback","probability":0.75}
	]}`, string(res.Raw))

	require.Len(t, annotator.lastReq.GetRequests(), 1)
	r := annotator.lastReq.GetRequests()[0]
	assert.Equal(t, []byte("fake-image"), r.GetImage().GetContent())
	assert.Equal(t, visionpb.Feature_LABEL_DETECTION, r.GetFeatures()[0].GetType())
	assert.Equal(t, int32(DefaultMaxResults), r.GetFeatures()[0].GetMaxResults())
}

func TestVisionLabelClassifier_Classify_NoResponses(t *testing.T) {
	t.Parallel()

	c := NewVisionLabelClassifierWithAnnotator(&mockAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{}}, 5)

	res, err := c.Classify(context.Background(), stageFile(t))

	require.NoError(t, err)
	assert.Empty(t, res.Predictions)
	assert.JSONEq(t, `{"predictions":[]}`, string(res.Raw))
}

func TestVisionLabelClassifier_Classify_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		annotator   *mockAnnotator
		expectedErr string
	}{
		{
			name:        "error: request failed",
			annotator:   &mockAnnotator{err: errors.New("unavailable")},
			expectedErr: "vision API request failed",
		},
		{
			name: "error: per-image error",
			annotator: &mockAnnotator{resp: &visionpb.BatchAnnotateImagesResponse{
				Responses: []*visionpb.AnnotateImageResponse{{Error: &status.Status{Message: "bad image"}}},
			}},
			expectedErr: "vision API error: bad image",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewVisionLabelClassifierWithAnnotator(tt.annotator, 0)
			_, err := c.Classify(context.Background(), stageFile(t))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestVisionLabelClassifier_Close_WithoutClient(t *testing.T) {
	t.Parallel()

	c := NewVisionLabelClassifierWithAnnotator(&mockAnnotator{}, 0)
	assert.NoError(t, c.Close())
}
