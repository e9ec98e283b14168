// Package customvision はAzure Custom Vision予測APIのクライアントを提供します。
package customvision

import "time"

// PredictionKeyHeader は予測APIの認証ヘッダー名です。
const PredictionKeyHeader = "Prediction-Key"

// ImageField はmultipartで画像を送るフィールド名です。
const ImageField = "image"

// Config holds configuration for the Custom Vision prediction client.
type Config struct {
	Endpoint      string        // 予測エンドポイントの完全なURL（.../classify/iterations/<name>/image）
	PredictionKey string        // Prediction-Key ヘッダーの値
	ResourceID    string        // 予測リソースID（リレーでは未使用）
	ProjectID     string        // プロジェクトID（リレーでは未使用）
	Timeout       time.Duration // HTTP request timeout
	RateLimit     int           // 1分あたりの最大呼び出し数（0で無制限）
}
