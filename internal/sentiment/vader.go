package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/firebird/internal/models"
)

var (
	linkPattern    = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := htmlTagPattern.ReplaceAllString(string(output), " ")
	plainText = strings.Join(strings.Fields(plainText), " ")

	return strings.TrimSpace(RemoveLinks(plainText))
}

// VaderClassifier is an offline lexicon classifier. It is English only, so it
// is a fallback for when the multilingual model is not available. The VADER
// compound score is mapped onto the same 1-5 star labels the model emits.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	results := make([]models.SentimentResult, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score := v.analyzer.PolarityScores(ConvertMarkdownToText(text)).Compound
		results = append(results, models.SentimentResult{
			Label: StarLabel(compoundToStars(score)),
			Score: math.Abs(score),
		})
	}
	return results, nil
}

// compoundToStars spreads [-1,1] evenly over 1..5, with [-0.25,0.25) neutral.
func compoundToStars(compound float64) int {
	stars := int(math.Round((compound+1)*2)) + 1
	return max(1, min(5, stars))
}
