package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spacesedan/firebird/internal/models"
)

type seedFile struct {
	Campaigns []models.CampaignDocument `yaml:"campaigns"`
}

// LoadSeedFile reads campaigns from a YAML file and validates every record.
func LoadSeedFile(path string) ([]models.Campaign, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[Seed] read %s: %w", path, err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) ([]models.Campaign, error) {
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("[Seed] decode yaml: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Campaigns))
	campaigns := make([]models.Campaign, 0, len(file.Campaigns))
	for i, doc := range file.Campaigns {
		campaign, err := doc.Campaign()
		if err != nil {
			return nil, fmt.Errorf("[Seed] campaign %d: %w", i, err)
		}
		if _, dup := seen[campaign.ID]; dup {
			return nil, fmt.Errorf("[Seed] duplicate campaign id %q", campaign.ID)
		}
		seen[campaign.ID] = struct{}{}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, nil
}

func Seed(ctx context.Context, writer CampaignWriter, campaigns []models.Campaign) error {
	if err := writer.PutCampaigns(ctx, campaigns); err != nil {
		return err
	}
	slog.Info("[Seed] Campaigns written", slog.Int("count", len(campaigns)))
	return nil
}
