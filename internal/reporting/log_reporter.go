package reporting

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spacesedan/firebird/internal/models"
)

// LogReporter prints one human readable line per campaign.
type LogReporter struct {
	out io.Writer
}

func NewLogReporter(out io.Writer) *LogReporter {
	return &LogReporter{out: out}
}

func (l *LogReporter) Report(ctx context.Context, report models.CampaignReport) error {
	if report.Status == models.ReportStatusFailed {
		slog.Warn("[LogReporter] Campaign failed",
			slog.String("run_id", report.RunID),
			slog.String("campaign_id", report.CampaignID),
			slog.String("kind", report.ErrorKind))
	} else {
		slog.Info("[LogReporter] Campaign evaluated",
			slog.String("run_id", report.RunID),
			slog.String("campaign_id", report.CampaignID),
			slog.Int("positive", report.Tally.Positive),
			slog.Int("negative", report.Tally.Negative),
			slog.Int("neutral", report.Tally.Neutral))
	}

	_, err := fmt.Fprintln(l.out, FormatReport(report))
	return err
}

func FormatReport(report models.CampaignReport) string {
	if report.Status == models.ReportStatusFailed {
		return fmt.Sprintf("Sentiment evaluation failed for campaign %s (%s): %s error: %s",
			report.Track, report.CampaignID, report.ErrorKind, report.Error)
	}
	return fmt.Sprintf("Sentiment results for campaign %s: %d positive, %d negative, %d neutral.",
		report.Track, report.Tally.Positive, report.Tally.Negative, report.Tally.Neutral)
}
