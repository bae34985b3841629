package reporting

import (
	"context"
	"strconv"
	"time"

	"github.com/spacesedan/firebird/internal/models"
)

const DEFAULT_TALLY_TTL = 24 * time.Hour

type hashWriter interface {
	SetHash(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
}

// ValkeyReporter caches the latest tally of every campaign. Failed runs leave
// the previous tally in place.
type ValkeyReporter struct {
	client hashWriter
	ttl    time.Duration
}

func NewValkeyReporter(client hashWriter, ttl time.Duration) *ValkeyReporter {
	if ttl <= 0 {
		ttl = DEFAULT_TALLY_TTL
	}
	return &ValkeyReporter{client: client, ttl: ttl}
}

func LatestTallyKey(campaignID string) string {
	return "campaign:" + campaignID + ":latest"
}

func (v *ValkeyReporter) Report(ctx context.Context, report models.CampaignReport) error {
	if report.Status != models.ReportStatusEvaluated {
		return nil
	}

	return v.client.SetHash(ctx, LatestTallyKey(report.CampaignID), map[string]string{
		"run_id":       report.RunID,
		"track":        report.Track,
		"positive":     strconv.Itoa(report.Tally.Positive),
		"negative":     strconv.Itoa(report.Tally.Negative),
		"neutral":      strconv.Itoa(report.Tally.Neutral),
		"post_count":   strconv.Itoa(report.PostCount),
		"evaluated_at": report.EvaluatedAt.UTC().Format(time.RFC3339),
	}, v.ttl)
}
