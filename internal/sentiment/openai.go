package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spacesedan/firebird/internal/models"
	"github.com/spacesedan/firebird/internal/utils"
)

const openAIRatingPrompt = `Rate the sentiment of each post on a 1 to 5 star scale, where 1 is very negative,
3 is neutral and 5 is very positive. Posts may be in any language.

You MUST return only valid JSON, formatted exactly as follows:
{"ratings": [{"index": 0, "stars": 4, "confidence": 0.8}]}

- Return exactly one rating per post, using the index given in the input.
- "stars" is an integer from 1 to 5, "confidence" a number from 0 to 1.
- No Markdown formatting and no text before or after the JSON.`

type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClassifier asks a chat model for star ratings.
type OpenAIClassifier struct {
	client    completer
	batchSize int
}

func NewOpenAIClassifier(client completer, batchSize int) *OpenAIClassifier {
	if batchSize <= 0 {
		batchSize = DEFAULT_BATCH_SIZE
	}
	return &OpenAIClassifier{client: client, batchSize: batchSize}
}

func (o *OpenAIClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	results := make([]models.SentimentResult, 0, len(texts))
	for _, batch := range utils.Chunk(texts, o.batchSize) {
		requests := make([]models.OpenAIRatingRequest, len(batch))
		for i, text := range batch {
			requests[i] = models.OpenAIRatingRequest{Index: i, Text: text}
		}
		payload, err := json.Marshal(requests)
		if err != nil {
			return nil, fmt.Errorf("[OpenAIClassifier] failed to marshal batch: %w", err)
		}

		reply, err := o.client.Complete(ctx, openAIRatingPrompt, string(payload))
		if err != nil {
			return nil, fmt.Errorf("[OpenAIClassifier] completion failed: %w", err)
		}

		converted, err := parseRatings(reply, len(batch))
		if err != nil {
			slog.Warn("[OpenAIClassifier] Unusable rating reply", slog.String("error", err.Error()))
			return nil, err
		}
		results = append(results, converted...)
	}
	return results, nil
}

// parseRatings orders the ratings by index and checks every post got one.
func parseRatings(reply string, expected int) ([]models.SentimentResult, error) {
	var response models.OpenAIRatingResponse
	if err := json.Unmarshal([]byte(reply), &response); err != nil {
		return nil, fmt.Errorf("[OpenAIClassifier] failed to parse ratings: %w", err)
	}

	results := make([]models.SentimentResult, expected)
	seen := make([]bool, expected)
	for _, rating := range response.Ratings {
		if rating.Index < 0 || rating.Index >= expected {
			return nil, fmt.Errorf("[OpenAIClassifier] rating index %d out of range", rating.Index)
		}
		if rating.Stars < 1 || rating.Stars > 5 {
			return nil, fmt.Errorf("[OpenAIClassifier] rating %d has %d stars", rating.Index, rating.Stars)
		}
		results[rating.Index] = models.SentimentResult{
			Label: StarLabel(rating.Stars),
			Score: min(1, max(0, rating.Confidence)),
		}
		seen[rating.Index] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("[OpenAIClassifier] missing rating for post %d", i)
		}
	}
	return results, nil
}
