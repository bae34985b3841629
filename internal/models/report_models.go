package models

import "time"

type ReportStatus string

const (
	ReportStatusEvaluated ReportStatus = "evaluated"
	ReportStatusFailed    ReportStatus = "failed"
)

// CampaignReport is what a run emits for each campaign it evaluated or
// failed to evaluate.
type CampaignReport struct {
	RunID       string       `json:"run_id"`
	CampaignID  string       `json:"campaign_id"`
	Track       string       `json:"track"`
	Status      ReportStatus `json:"status"`
	Tally       Tally        `json:"tally"`
	PostCount   int          `json:"post_count"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
	ErrorKind   string       `json:"error_kind,omitempty"`
	Error       string       `json:"error,omitempty"`
}
