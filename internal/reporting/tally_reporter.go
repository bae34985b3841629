package reporting

import (
	"context"

	"github.com/spacesedan/firebird/internal/models"
)

type tallyStore interface {
	StoreCampaignTally(ctx context.Context, report models.CampaignReport) error
}

// TallyStoreReporter persists evaluated tallies to a store of run history.
type TallyStoreReporter struct {
	store tallyStore
}

func NewTallyStoreReporter(store tallyStore) *TallyStoreReporter {
	return &TallyStoreReporter{store: store}
}

func (t *TallyStoreReporter) Report(ctx context.Context, report models.CampaignReport) error {
	if report.Status != models.ReportStatusEvaluated {
		return nil
	}
	return t.store.StoreCampaignTally(ctx, report)
}
