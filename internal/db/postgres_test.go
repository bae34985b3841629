package db

import (
	"strings"
	"testing"
	"time"

	"github.com/spacesedan/firebird/internal/models"
)

func TestBuildCampaignUpsert(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	query, values := buildCampaignUpsert([]models.Campaign{
		{ID: "a", Track: "#a", IsActive: true, TweetLimit: 1, Duration: 2, Start: start},
		{ID: "b", Track: "#b", IsActive: false, TweetLimit: 3, Duration: 4, Start: start},
	})

	if !strings.Contains(query, "($1, $2, $3, $4, $5, $6), ($7, $8, $9, $10, $11, $12)") {
		t.Fatalf("unexpected placeholders in %q", query)
	}
	if !strings.Contains(query, "ON CONFLICT (id) DO UPDATE") {
		t.Fatalf("expected upsert clause in %q", query)
	}
	if len(values) != 12 {
		t.Fatalf("expected 12 values, got %d", len(values))
	}
	if got := values[5].(time.Time); got.Location() != time.UTC {
		t.Fatalf("expected start stored in UTC, got %v", got)
	}
}
