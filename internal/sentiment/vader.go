package sentiment

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/captionflow/internal/models"
)

// Compound-score cutoffs for the positive/negative labels.
const (
	positiveThreshold = 0.20
	negativeThreshold = -0.20
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURLPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// VADERScorer scores captions with the VADER lexicon. Pure Go, loaded once,
// safe for reuse across requests.
type VADERScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADERScorer() *VADERScorer {
	return &VADERScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VADERScorer) Score(caption string) (*models.Sentiment, error) {
	plain := FlattenMarkdown(caption)

	compound := s.analyzer.PolarityScores(plain).Compound
	label, confidence := labelFor(compound)

	return &models.Sentiment{Label: label, Score: confidence}, nil
}

// labelFor maps a VADER compound score in [-1,1] to a label and a confidence
// in [0,1]. A compound near zero is a confident neutral.
func labelFor(compound float64) (string, float64) {
	switch {
	case compound >= positiveThreshold:
		return LabelPositive, math.Abs(compound)
	case compound <= negativeThreshold:
		return LabelNegative, math.Abs(compound)
	default:
		return LabelNeutral, 1 - math.Abs(compound)
	}
}

// FlattenMarkdown renders markdown to text and removes links so URLs don't
// skew the lexicon scores.
func FlattenMarkdown(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plain)
}

// RemoveLinks keeps the text of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	input = bareURLPattern.ReplaceAllString(input, "")

	return input
}
