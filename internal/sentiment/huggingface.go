package sentiment

import (
	"context"
	"fmt"

	"github.com/spacesedan/firebird/internal/models"
	"github.com/spacesedan/firebird/internal/utils"
)

// SOURCE_MODEL_NAME is the PyTorch model DEFAULT_MODEL_NAME was exported from.
// The hosted inference API serves this one, not the ONNX export.
const SOURCE_MODEL_NAME = "nlptown/bert-base-multilingual-uncased-sentiment"

// InferenceModelName maps the local ONNX export back to the model the hosted
// inference API serves. Other names pass through.
func InferenceModelName(modelName string) string {
	if modelName == DEFAULT_MODEL_NAME {
		return SOURCE_MODEL_NAME
	}
	return modelName
}

type batchAnalyzer interface {
	GetBatchedSentimentAnalysis(ctx context.Context, texts []string) (models.SentimentAnalysisBatchResponse, error)
}

// HuggingFaceClassifier sends the batch to the hosted inference API instead
// of running the model locally.
type HuggingFaceClassifier struct {
	client    batchAnalyzer
	batchSize int
}

func NewHuggingFaceClassifier(client batchAnalyzer, batchSize int) *HuggingFaceClassifier {
	if batchSize <= 0 {
		batchSize = DEFAULT_BATCH_SIZE
	}
	return &HuggingFaceClassifier{client: client, batchSize: batchSize}
}

func (h *HuggingFaceClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	results := make([]models.SentimentResult, 0, len(texts))
	for _, batch := range utils.Chunk(texts, h.batchSize) {
		response, err := h.client.GetBatchedSentimentAnalysis(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(response) != len(batch) {
			return nil, fmt.Errorf("[HuggingFaceClassifier] expected %d results, got %d", len(batch), len(response))
		}
		for i, labels := range response {
			if len(labels) == 0 {
				return nil, fmt.Errorf("[HuggingFaceClassifier] no label for input %d", i)
			}
			best := labels[0]
			for _, candidate := range labels[1:] {
				if candidate.Score > best.Score {
					best = candidate
				}
			}
			results = append(results, models.SentimentResult{Label: best.Label, Score: best.Score})
		}
	}
	return results, nil
}
