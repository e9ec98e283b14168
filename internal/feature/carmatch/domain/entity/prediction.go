// Package entity はcarmatchフィーチャーのドメインモデルを定義します。
package entity

// Prediction は画像分類APIが返す1件の予測結果を表します。
type Prediction struct {
	TagID       string  `json:"tagId,omitempty"`
	TagName     string  `json:"tagName"`     // 予測されたタグ名（ボディスタイル）
	Probability float64 `json:"probability"` // 確信度（0.0 ~ 1.0）
}

// ClassificationResult は分類APIの応答です。
// Raw は上流が返したJSONそのもので、Predictions はそこから取り出した予測一覧です。
type ClassificationResult struct {
	Raw         []byte
	Predictions []Prediction
}

// SelectTop は確信度が最大の予測を返します。
// 同値の場合は先に現れた要素を優先します。空の場合は false を返します。
func SelectTop(predictions []Prediction) (Prediction, bool) {
	if len(predictions) == 0 {
		return Prediction{}, false
	}
	top := predictions[0]
	for _, p := range predictions[1:] {
		if p.Probability > top.Probability {
			top = p
		}
	}
	return top, true
}
