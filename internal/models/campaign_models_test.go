package models

import (
	"errors"
	"testing"
)

func TestCampaignDocumentActive(t *testing.T) {
	yes, no := true, false
	garbled := errors.New("tweet_limit is not a number")

	tests := []struct {
		name       string
		doc        CampaignDocument
		wantActive bool
		wantErr    bool
	}{
		{"active", CampaignDocument{ID: "c1", IsActive: &yes}, true, false},
		{"inactive", CampaignDocument{ID: "c1", IsActive: &no}, false, false},
		{"inactive with decode error", CampaignDocument{ID: "c1", IsActive: &no, DecodeErr: garbled}, false, false},
		{"active with decode error", CampaignDocument{ID: "c1", IsActive: &yes, DecodeErr: garbled}, false, true},
		{"unreadable flag with decode error", CampaignDocument{ID: "c1", DecodeErr: garbled}, false, true},
		{"missing flag", CampaignDocument{ID: "c1"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active, err := tt.doc.Active()
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if active != tt.wantActive {
				t.Fatalf("expected active %v, got %v", tt.wantActive, active)
			}
			if err != nil {
				var dataErr *DataError
				if !errors.As(err, &dataErr) {
					t.Fatalf("expected a DataError, got %T", err)
				}
			}
		})
	}
}

func TestInactiveCampaignWithDecodeErrorDoesNotValidate(t *testing.T) {
	no := false
	doc := CampaignDocument{ID: "c1", IsActive: &no, DecodeErr: errors.New("bad start")}

	if _, err := doc.Campaign(); err == nil {
		t.Fatalf("expected Campaign to reject a record missing its fields")
	}
}
