package sentiment

import (
	"errors"
	"testing"

	"github.com/spacesedan/firebird/internal/models"
)

func TestParseOrdinal(t *testing.T) {
	tests := []struct {
		label string
		want  int
		err   bool
	}{
		{"5 stars", 5, false},
		{"1 star", 1, false},
		{" 3 stars", 3, false},
		{"4", 4, false},
		{"0 stars", 0, false},
		{"10 stars", 0, true},
		{"12", 0, true},
		{"stars", 0, true},
		{"", 0, true},
		{"POSITIVE", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseOrdinal(tt.label)
		if tt.err {
			if !errors.Is(err, ErrUnparsableLabel) {
				t.Errorf("ParseOrdinal(%q): expected ErrUnparsableLabel, got %v", tt.label, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOrdinal(%q): unexpected error: %v", tt.label, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrdinal(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestBucketForStarScale(t *testing.T) {
	tests := map[string]models.Bucket{
		"1 stars": models.BucketNegative,
		"2 stars": models.BucketNegative,
		"3 stars": models.BucketNeutral,
		"4 stars": models.BucketPositive,
		"5 stars": models.BucketPositive,
	}

	for label, want := range tests {
		ordinal, err := ParseOrdinal(label)
		if err != nil {
			t.Fatalf("parse %q: %v", label, err)
		}
		if got := BucketFor(ordinal, DefaultMidpoint); got != want {
			t.Errorf("%q: expected %s, got %s", label, want, got)
		}
	}
}

func TestTallyCountsEveryResult(t *testing.T) {
	results := []models.SentimentResult{
		{Label: "5 stars", Score: 0.77},
		{Label: "3 stars", Score: 0.26},
		{Label: "1 star", Score: 0.9},
		{Label: "4 stars", Score: 0.5},
	}

	tally, err := Tally(results, DefaultMidpoint)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if tally.Positive != 2 || tally.Negative != 1 || tally.Neutral != 1 {
		t.Fatalf("unexpected tally %+v", tally)
	}
	if tally.Total() != len(results) {
		t.Fatalf("expected total %d, got %d", len(results), tally.Total())
	}
}

func TestTallyRejectsUnparsableLabel(t *testing.T) {
	results := []models.SentimentResult{{Label: "5 stars"}, {Label: "LABEL_0"}}

	tally, err := Tally(results, DefaultMidpoint)
	if !errors.Is(err, ErrUnparsableLabel) {
		t.Fatalf("expected ErrUnparsableLabel, got %v", err)
	}
	if tally.Total() != 0 {
		t.Fatalf("expected empty tally on error, got %+v", tally)
	}
}

func TestTallyRejectsOrdinalOffScale(t *testing.T) {
	for _, label := range []string{"0 stars", "6 stars", "10 stars"} {
		results := []models.SentimentResult{{Label: "4 stars"}, {Label: label}}

		tally, err := Tally(results, DefaultMidpoint)
		if !errors.Is(err, ErrUnparsableLabel) {
			t.Fatalf("%q: expected ErrUnparsableLabel, got %v", label, err)
		}
		if tally.Total() != 0 {
			t.Fatalf("%q: expected empty tally on error, got %+v", label, tally)
		}
	}
}

func TestTallyScaleFollowsMidpoint(t *testing.T) {
	results := []models.SentimentResult{{Label: "7 points"}, {Label: "1 point"}}

	tally, err := Tally(results, 4)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if tally.Positive != 1 || tally.Negative != 1 {
		t.Fatalf("unexpected tally %+v", tally)
	}
}

func TestStarLabel(t *testing.T) {
	if got := StarLabel(1); got != "1 star" {
		t.Errorf("expected singular label, got %q", got)
	}
	if got := StarLabel(4); got != "4 stars" {
		t.Errorf("expected plural label, got %q", got)
	}
}
