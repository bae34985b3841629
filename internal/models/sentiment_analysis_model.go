package models

// SentimentResult is the classifier output for one text. Label starts with
// the ordinal rating, e.g. "5 stars"; Score is the confidence in [0,1].
type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Bucket is the aggregate class an ordinal rating falls into.
type Bucket string

const (
	BucketPositive Bucket = "positive"
	BucketNegative Bucket = "negative"
	BucketNeutral  Bucket = "neutral"
)

// Tally holds the per campaign bucket counts for one run.
type Tally struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

func (t *Tally) Add(b Bucket) {
	switch b {
	case BucketPositive:
		t.Positive++
	case BucketNegative:
		t.Negative++
	default:
		t.Neutral++
	}
}

func (t Tally) Total() int {
	return t.Positive + t.Negative + t.Neutral
}
