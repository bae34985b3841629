package processing

import "fmt"

// ErrorKind says which collaborator a campaign failed on.
type ErrorKind string

const (
	ErrorKindData       ErrorKind = "data"
	ErrorKindFeed       ErrorKind = "feed"
	ErrorKindClassifier ErrorKind = "classifier"
	ErrorKindStore      ErrorKind = "store"
	ErrorKindReport     ErrorKind = "report"
)

// CampaignError is a failure scoped to one campaign. The run carries on
// with the next campaign.
type CampaignError struct {
	CampaignID string
	Track      string
	Kind       ErrorKind
	Err        error
}

func (e *CampaignError) Error() string {
	return fmt.Sprintf("campaign %s (%s): %s error: %v", e.CampaignID, e.Track, e.Kind, e.Err)
}

func (e *CampaignError) Unwrap() error {
	return e.Err
}
