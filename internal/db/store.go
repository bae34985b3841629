package db

import (
	"context"
	"errors"

	"github.com/spacesedan/firebird/internal/models"
)

var ErrCampaignNotFound = errors.New("campaign not found")

// CampaignWriter is implemented by every store that can be seeded.
type CampaignWriter interface {
	PutCampaigns(ctx context.Context, campaigns []models.Campaign) error
}
