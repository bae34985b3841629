package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spacesedan/firebird/internal/models"
)

func openTestStore(t *testing.T) *SQLiteCampaignStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "campaigns.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close sqlite store: %v", err)
		}
	})
	return store
}

func sameCampaign(a, b models.Campaign) bool {
	return a.ID == b.ID && a.Track == b.Track && a.IsActive == b.IsActive &&
		a.TweetLimit == b.TweetLimit && a.Duration == b.Duration && a.Start.Equal(b.Start)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	campaigns := []models.Campaign{
		{ID: "b", Track: "#beta", IsActive: true, TweetLimit: 20, Duration: 3, Start: start},
		{ID: "a", Track: "#alpha", IsActive: false, TweetLimit: 0, Duration: 0, Start: start},
	}
	if err := store.PutCampaigns(ctx, campaigns); err != nil {
		t.Fatalf("put campaigns: %v", err)
	}

	docs, err := store.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "a" || docs[1].ID != "b" {
		t.Fatalf("expected campaigns ordered by id, got %+v", docs)
	}

	beta, err := docs[1].Campaign()
	if err != nil {
		t.Fatalf("validate campaign: %v", err)
	}
	if !sameCampaign(beta, campaigns[0]) {
		t.Fatalf("expected %+v, got %+v", campaigns[0], beta)
	}
}

func TestSQLiteStoreUpdateCampaign(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := store.PutCampaigns(ctx, []models.Campaign{{ID: "demo", Track: "#demo", IsActive: true, TweetLimit: 5, Duration: 1, Start: start}}); err != nil {
		t.Fatalf("put campaigns: %v", err)
	}
	if err := store.UpdateCampaign(ctx, "demo", models.Deactivate()); err != nil {
		t.Fatalf("update campaign: %v", err)
	}

	docs, err := store.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	active, err := docs[0].Active()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active {
		t.Fatalf("expected campaign to be deactivated")
	}

	err = store.UpdateCampaign(ctx, "missing", models.Deactivate())
	if !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
}

func TestSQLiteStoreSurfacesIncompleteRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.sqlDB.Exec(`INSERT INTO campaigns (id, track, is_active) VALUES ('partial', '#p', 1)`); err != nil {
		t.Fatalf("insert partial: %v", err)
	}
	if _, err := store.sqlDB.Exec(`INSERT INTO campaigns (id, track, is_active, tweet_limit, duration, start) VALUES ('garbled', '#g', 1, 1, 1, 'yesterday')`); err != nil {
		t.Fatalf("insert garbled: %v", err)
	}

	docs, err := store.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	var dataErr *models.DataError
	if _, err := docs[0].Active(); !errors.As(err, &dataErr) {
		t.Fatalf("expected decode failure for garbled start, got %v", err)
	}
	if _, err := docs[1].Campaign(); !errors.As(err, &dataErr) || dataErr.Field != "tweet_limit" {
		t.Fatalf("expected missing tweet_limit, got %v", err)
	}
}

func TestSQLiteInactiveRecordWithBadStartIsInactive(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.sqlDB.Exec(`INSERT INTO campaigns (id, track, is_active, tweet_limit, duration, start) VALUES ('old', '#old', 0, 10, 1, '2022-04-19 22:00')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	docs, err := store.ListCampaigns(context.Background())
	if err != nil {
		t.Fatalf("list campaigns: %v", err)
	}
	if len(docs) != 1 || docs[0].DecodeErr == nil {
		t.Fatalf("expected the unparsable start to be recorded, got %+v", docs)
	}

	active, err := docs[0].Active()
	if err != nil || active {
		t.Fatalf("expected the retired campaign to read as inactive, got %v %v", active, err)
	}
}
