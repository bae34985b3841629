package reporting

import (
	"context"
	"fmt"

	"github.com/spacesedan/firebird/internal/models"
)

const DEFAULT_NATS_SUBJECT = "firebird.campaign.reports"

type natsPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSReporter broadcasts JSON reports for live dashboards.
type NATSReporter struct {
	conn    natsPublisher
	subject string
}

func NewNATSReporter(conn natsPublisher, subject string) *NATSReporter {
	if subject == "" {
		subject = DEFAULT_NATS_SUBJECT
	}
	return &NATSReporter{conn: conn, subject: subject}
}

func (n *NATSReporter) Report(ctx context.Context, report models.CampaignReport) error {
	data, err := EncodeReport(report, EncodingJSON)
	if err != nil {
		return err
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("[NATSReporter] failed to publish report for %s: %w", report.CampaignID, err)
	}
	return nil
}
