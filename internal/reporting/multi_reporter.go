package reporting

import (
	"context"
	"errors"

	"github.com/spacesedan/firebird/internal/models"
	"github.com/spacesedan/firebird/internal/processing"
)

// MultiReporter fans a report out to every reporter, even when one fails.
type MultiReporter struct {
	reporters []processing.Reporter
}

func NewMultiReporter(reporters ...processing.Reporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

func (m *MultiReporter) Add(r processing.Reporter) {
	m.reporters = append(m.reporters, r)
}

func (m *MultiReporter) Report(ctx context.Context, report models.CampaignReport) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.Report(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
