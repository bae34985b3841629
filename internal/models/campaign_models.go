package models

import (
	"fmt"
	"time"
)

// CampaignDocument is a campaign record as read from a store. Fields are
// pointers so a missing attribute can be told apart from its zero value.
type CampaignDocument struct {
	ID         string     `json:"id" dynamodbav:"id" yaml:"id"`
	Track      *string    `json:"track" dynamodbav:"track" yaml:"track"`
	IsActive   *bool      `json:"isActive" dynamodbav:"isActive" yaml:"isActive"`
	TweetLimit *int       `json:"tweet_limit" dynamodbav:"tweet_limit" yaml:"tweet_limit"`
	Duration   *int       `json:"duration" dynamodbav:"duration" yaml:"duration"`
	Start      *time.Time `json:"start" dynamodbav:"start" yaml:"start"`

	// DecodeErr is set by a store when part of the raw record could not be
	// decoded. Stores still fill IsActive when the flag itself was readable.
	DecodeErr error `json:"-" dynamodbav:"-" yaml:"-"`
}

// Campaign is a validated campaign record.
type Campaign struct {
	ID         string
	Track      string
	IsActive   bool
	TweetLimit int
	Duration   int
	Start      time.Time
}

// CampaignUpdate is a partial update. Nil fields are left untouched.
type CampaignUpdate struct {
	IsActive *bool
}

// Deactivate returns the update used to retire a campaign.
func Deactivate() CampaignUpdate {
	inactive := false
	return CampaignUpdate{IsActive: &inactive}
}

// DataError reports a campaign record that is missing a field or holds an
// unusable value.
type DataError struct {
	CampaignID string
	Field      string
	Reason     string
	Err        error
}

func (e *DataError) Error() string {
	msg := fmt.Sprintf("campaign %q: field %q %s", e.CampaignID, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Active reports the isActive flag. A record stored as inactive is inactive
// whatever else is wrong with it; otherwise a decode failure or a missing
// flag is a data error.
func (d CampaignDocument) Active() (bool, error) {
	if d.IsActive != nil && !*d.IsActive {
		return false, nil
	}
	if d.DecodeErr != nil {
		return false, &DataError{CampaignID: d.ID, Field: "*", Reason: "could not be decoded", Err: d.DecodeErr}
	}
	if d.IsActive == nil {
		return false, &DataError{CampaignID: d.ID, Field: "isActive", Reason: "is missing"}
	}
	return true, nil
}

// Campaign validates the document into a Campaign.
func (d CampaignDocument) Campaign() (Campaign, error) {
	active, err := d.Active()
	if err != nil {
		return Campaign{}, err
	}

	switch {
	case d.ID == "":
		return Campaign{}, &DataError{CampaignID: d.ID, Field: "id", Reason: "is missing"}
	case d.Track == nil || *d.Track == "":
		return Campaign{}, &DataError{CampaignID: d.ID, Field: "track", Reason: "is missing"}
	case d.TweetLimit == nil:
		return Campaign{}, &DataError{CampaignID: d.ID, Field: "tweet_limit", Reason: "is missing"}
	case *d.TweetLimit < 0:
		return Campaign{}, &DataError{CampaignID: d.ID, Field: "tweet_limit", Reason: fmt.Sprintf("is negative (%d)", *d.TweetLimit)}
	case d.Duration == nil:
		return Campaign{}, &DataError{CampaignID: d.ID, Field: "duration", Reason: "is missing"}
	case *d.Duration < 0:
		return Campaign{}, &DataError{CampaignID: d.ID, Field: "duration", Reason: fmt.Sprintf("is negative (%d)", *d.Duration)}
	case d.Start == nil || d.Start.IsZero():
		return Campaign{}, &DataError{CampaignID: d.ID, Field: "start", Reason: "is missing"}
	}

	return Campaign{
		ID:         d.ID,
		Track:      *d.Track,
		IsActive:   active,
		TweetLimit: *d.TweetLimit,
		Duration:   *d.Duration,
		Start:      d.Start.UTC(),
	}, nil
}

// End is the first instant outside the campaign window.
func (c Campaign) End() time.Time {
	return c.Start.AddDate(0, 0, c.Duration)
}

// Document converts a validated campaign back into its stored form.
func (c Campaign) Document() CampaignDocument {
	track, active, limit, duration, start := c.Track, c.IsActive, c.TweetLimit, c.Duration, c.Start.UTC()
	return CampaignDocument{
		ID:         c.ID,
		Track:      &track,
		IsActive:   &active,
		TweetLimit: &limit,
		Duration:   &duration,
		Start:      &start,
	}
}
