package models

// HuggingFace inference API payloads for text classification.
type (
	SentimentAnalysisBatchRequest struct {
		Inputs  []string                 `json:"inputs"`
		Options SentimentAnalysisOptions `json:"options"`
	}
	SentimentAnalysisOptions struct {
		WaitForModel bool `json:"wait_for_model"`
	}
)

// SentimentAnalysisBatchResponse has one list of scored labels per input.
type (
	SentimentAnalysisBatchResponse []SentimentAnalysisResponse
	SentimentAnalysisResponse      []SentimentLabelScore
	SentimentLabelScore            struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
)
