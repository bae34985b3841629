package processing

import (
	"context"
	"time"

	"github.com/spacesedan/firebird/internal/models"
)

// CampaignStore lists campaign records and applies partial updates to them.
type CampaignStore interface {
	ListCampaigns(ctx context.Context) ([]models.CampaignDocument, error)
	UpdateCampaign(ctx context.Context, id string, update models.CampaignUpdate) error
}

// PostFeed searches a social network for recent posts.
type PostFeed interface {
	Search(ctx context.Context, query string, maxResults int, since time.Time) (PostIterator, error)
}

// PostIterator yields posts until it returns io.EOF. It cannot be restarted.
type PostIterator interface {
	Next() (models.Post, error)
}

// SentimentClassifier labels each text with a star rating. Results line up
// with the inputs by index.
type SentimentClassifier interface {
	Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error)
}

type Reporter interface {
	Report(ctx context.Context, report models.CampaignReport) error
}
