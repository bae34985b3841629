package processing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/firebird/internal/models"
	"github.com/spacesedan/firebird/internal/sentiment"
)

type Options struct {
	WindowPolicy WindowPolicy
	// Midpoint is the neutral rating. Zero means sentiment.DefaultMidpoint.
	Midpoint int
	// SinceTruncate rounds the search lower bound down, e.g. 24h searches
	// from the start of the current UTC day. Zero searches from currentTime.
	SinceTruncate time.Duration
	// NewRunID is uuid.NewString unless set.
	NewRunID func() string
}

func (o Options) withDefaults() Options {
	if o.Midpoint == 0 {
		o.Midpoint = sentiment.DefaultMidpoint
	}
	if o.NewRunID == nil {
		o.NewRunID = uuid.NewString
	}
	return o
}

func (o Options) since(currentTime time.Time) time.Time {
	if o.SinceTruncate > 0 {
		return currentTime.Truncate(o.SinceTruncate)
	}
	return currentTime
}

// RunSummary describes one pass over the campaign collection.
type RunSummary struct {
	RunID       string
	Evaluated   int
	Deactivated int
	Inactive    int
	NotStarted  int
	Failed      int
	Reports     []models.CampaignReport
	Errors      []*CampaignError
}

// CampaignEvaluator scores every active campaign against the posts matching
// its track.
type CampaignEvaluator struct {
	store      CampaignStore
	feed       PostFeed
	classifier SentimentClassifier
	reporter   Reporter
	opts       Options
}

func NewCampaignEvaluator(store CampaignStore, feed PostFeed, classifier SentimentClassifier, reporter Reporter, opts Options) *CampaignEvaluator {
	return &CampaignEvaluator{
		store:      store,
		feed:       feed,
		classifier: classifier,
		reporter:   reporter,
		opts:       opts.withDefaults(),
	}
}

type outcome int

const (
	outcomeEvaluated outcome = iota
	outcomeDeactivated
	outcomeInactive
	outcomeNotStarted
)

// EvaluateAll processes the campaigns one at a time, in listing order. Only a
// failure to list campaigns, or cancellation, ends the run early; any other
// failure is recorded against its campaign.
func (e *CampaignEvaluator) EvaluateAll(ctx context.Context, currentTime time.Time) (RunSummary, error) {
	summary := RunSummary{RunID: e.opts.NewRunID()}
	start := time.Now()

	slog.Info("[CampaignEvaluator] Starting run",
		slog.String("run_id", summary.RunID),
		slog.Time("current_time", currentTime),
		slog.String("window_policy", e.opts.WindowPolicy.String()))

	docs, err := e.store.ListCampaigns(ctx)
	if err != nil {
		return summary, fmt.Errorf("[CampaignEvaluator] failed to list campaigns: %w", err)
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			slog.Warn("[CampaignEvaluator] Run cancelled", slog.String("run_id", summary.RunID))
			return summary, err
		}

		result, report, err := e.evaluate(ctx, summary.RunID, doc, currentTime)
		if err != nil {
			var campaignErr *CampaignError
			if !errors.As(err, &campaignErr) {
				campaignErr = &CampaignError{CampaignID: doc.ID, Kind: ErrorKindData, Err: err}
			}
			e.fail(ctx, &summary, campaignErr, currentTime)
			continue
		}

		switch result {
		case outcomeInactive:
			summary.Inactive++
		case outcomeNotStarted:
			summary.NotStarted++
		case outcomeDeactivated:
			summary.Deactivated++
		case outcomeEvaluated:
			summary.Evaluated++
			summary.Reports = append(summary.Reports, report)
			if err := e.reporter.Report(ctx, report); err != nil {
				campaignErr := &CampaignError{CampaignID: report.CampaignID, Track: report.Track, Kind: ErrorKindReport, Err: err}
				slog.Error("[CampaignEvaluator] Failed to report tally",
					slog.String("campaign_id", report.CampaignID),
					slog.String("error", err.Error()))
				summary.Errors = append(summary.Errors, campaignErr)
			}
		}
	}

	slog.Info("[CampaignEvaluator] Run complete",
		slog.String("run_id", summary.RunID),
		slog.Int("evaluated", summary.Evaluated),
		slog.Int("deactivated", summary.Deactivated),
		slog.Int("inactive", summary.Inactive),
		slog.Int("not_started", summary.NotStarted),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", time.Since(start)))
	return summary, nil
}

func (e *CampaignEvaluator) evaluate(ctx context.Context, runID string, doc models.CampaignDocument, currentTime time.Time) (outcome, models.CampaignReport, error) {
	active, err := doc.Active()
	if err != nil {
		return 0, models.CampaignReport{}, &CampaignError{CampaignID: doc.ID, Track: trackOf(doc), Kind: ErrorKindData, Err: err}
	}
	if !active {
		slog.Debug("[CampaignEvaluator] Skipping inactive campaign", slog.String("campaign_id", doc.ID))
		return outcomeInactive, models.CampaignReport{}, nil
	}

	campaign, err := doc.Campaign()
	if err != nil {
		return 0, models.CampaignReport{}, &CampaignError{CampaignID: doc.ID, Track: trackOf(doc), Kind: ErrorKindData, Err: err}
	}

	switch checkWindow(e.opts.WindowPolicy, campaign, currentTime) {
	case windowExpired:
		if err := e.store.UpdateCampaign(ctx, campaign.ID, models.Deactivate()); err != nil {
			return 0, models.CampaignReport{}, &CampaignError{CampaignID: campaign.ID, Track: campaign.Track, Kind: ErrorKindStore, Err: err}
		}
		slog.Info("[CampaignEvaluator] Campaign deactivated",
			slog.String("campaign_id", campaign.ID),
			slog.Time("end", campaign.End()))
		return outcomeDeactivated, models.CampaignReport{}, nil
	case windowNotStarted:
		slog.Info("[CampaignEvaluator] Campaign has not started",
			slog.String("campaign_id", campaign.ID),
			slog.Time("start", campaign.Start))
		return outcomeNotStarted, models.CampaignReport{}, nil
	}

	texts, err := e.fetchTexts(ctx, campaign, e.opts.since(currentTime))
	if err != nil {
		return 0, models.CampaignReport{}, &CampaignError{CampaignID: campaign.ID, Track: campaign.Track, Kind: ErrorKindFeed, Err: err}
	}

	var results []models.SentimentResult
	if len(texts) > 0 {
		results, err = e.classifier.Classify(ctx, texts)
		if err != nil {
			return 0, models.CampaignReport{}, &CampaignError{CampaignID: campaign.ID, Track: campaign.Track, Kind: ErrorKindClassifier, Err: err}
		}
		if len(results) != len(texts) {
			err := fmt.Errorf("expected %d results, got %d", len(texts), len(results))
			return 0, models.CampaignReport{}, &CampaignError{CampaignID: campaign.ID, Track: campaign.Track, Kind: ErrorKindClassifier, Err: err}
		}
	}

	tally, err := sentiment.Tally(results, e.opts.Midpoint)
	if err != nil {
		return 0, models.CampaignReport{}, &CampaignError{CampaignID: campaign.ID, Track: campaign.Track, Kind: ErrorKindData, Err: err}
	}

	return outcomeEvaluated, models.CampaignReport{
		RunID:       runID,
		CampaignID:  campaign.ID,
		Track:       campaign.Track,
		Status:      models.ReportStatusEvaluated,
		Tally:       tally,
		PostCount:   len(texts),
		EvaluatedAt: currentTime,
	}, nil
}

// fetchTexts drains the iterator, never reading more than the campaign limit.
func (e *CampaignEvaluator) fetchTexts(ctx context.Context, campaign models.Campaign, since time.Time) ([]string, error) {
	it, err := e.feed.Search(ctx, campaign.Track, campaign.TweetLimit, since)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, campaign.TweetLimit)
	for len(texts) < campaign.TweetLimit {
		post, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		texts = append(texts, post.Text)
	}

	slog.Debug("[CampaignEvaluator] Posts fetched",
		slog.String("campaign_id", campaign.ID),
		slog.Int("posts", len(texts)),
		slog.Time("since", since))
	return texts, nil
}

func (e *CampaignEvaluator) fail(ctx context.Context, summary *RunSummary, campaignErr *CampaignError, currentTime time.Time) {
	slog.Error("[CampaignEvaluator] Campaign failed",
		slog.String("campaign_id", campaignErr.CampaignID),
		slog.String("kind", string(campaignErr.Kind)),
		slog.String("error", campaignErr.Err.Error()))

	summary.Failed++
	summary.Errors = append(summary.Errors, campaignErr)

	report := models.CampaignReport{
		RunID:       summary.RunID,
		CampaignID:  campaignErr.CampaignID,
		Track:       campaignErr.Track,
		Status:      models.ReportStatusFailed,
		EvaluatedAt: currentTime,
		ErrorKind:   string(campaignErr.Kind),
		Error:       campaignErr.Err.Error(),
	}
	summary.Reports = append(summary.Reports, report)

	if err := e.reporter.Report(ctx, report); err != nil {
		slog.Error("[CampaignEvaluator] Failed to report campaign failure",
			slog.String("campaign_id", campaignErr.CampaignID),
			slog.String("error", err.Error()))
	}
}

func trackOf(doc models.CampaignDocument) string {
	if doc.Track == nil {
		return ""
	}
	return *doc.Track
}
