package sentiment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spacesedan/firebird/internal/models"
)

// DefaultMidpoint is the neutral rating on the 1-5 star scale.
const DefaultMidpoint = 3

var ErrUnparsableLabel = errors.New("label has no leading ordinal")

// ParseOrdinal reads the single-digit rating at the start of a label such as
// "4 stars". A label led by two or more digits is rejected.
func ParseOrdinal(label string) (int, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" || !isDigit(trimmed[0]) {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableLabel, label)
	}
	if len(trimmed) > 1 && isDigit(trimmed[1]) {
		return 0, fmt.Errorf("%w: %q: more than one digit", ErrUnparsableLabel, label)
	}
	return int(trimmed[0] - '0'), nil
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// BucketFor maps an ordinal onto positive, negative or neutral around midpoint.
func BucketFor(ordinal, midpoint int) models.Bucket {
	switch {
	case ordinal > midpoint:
		return models.BucketPositive
	case ordinal < midpoint:
		return models.BucketNegative
	default:
		return models.BucketNeutral
	}
}

// StarLabel formats a rating the way the multilingual star model does.
func StarLabel(stars int) string {
	if stars == 1 {
		return "1 star"
	}
	return fmt.Sprintf("%d stars", stars)
}

// Tally buckets every result. Ordinals must lie in 1..2*midpoint-1. It stops
// at the first unparsable label so a campaign never reports a partial count.
func Tally(results []models.SentimentResult, midpoint int) (models.Tally, error) {
	var tally models.Tally
	for i, result := range results {
		ordinal, err := ParseOrdinal(result.Label)
		if err != nil {
			return models.Tally{}, fmt.Errorf("result %d: %w", i, err)
		}
		if ordinal < 1 || ordinal > 2*midpoint-1 {
			return models.Tally{}, fmt.Errorf("result %d: %w: %q outside 1..%d", i, ErrUnparsableLabel, result.Label, 2*midpoint-1)
		}
		tally.Add(BucketFor(ordinal, midpoint))
	}
	return tally, nil
}
