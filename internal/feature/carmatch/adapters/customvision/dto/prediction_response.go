// Package dto defines the wire format of the Custom Vision prediction API.
package dto

// PredictionResponse is the body returned by the classify endpoint.
// Only the fields the relay reads are declared; the raw body is kept separately.
type PredictionResponse struct {
	ID          string           `json:"id"`
	Project     string           `json:"project"`
	Iteration   string           `json:"iteration"`
	Created     string           `json:"created"`
	Predictions []PredictionItem `json:"predictions"`
}

// PredictionItem is one ranked tag.
type PredictionItem struct {
	Probability float64 `json:"probability"`
	TagID       string  `json:"tagId"`
	TagName     string  `json:"tagName"`
}
