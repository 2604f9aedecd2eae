package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVADERScorerLabels(t *testing.T) {
	scorer := NewVADERScorer()

	tests := []struct {
		name    string
		caption string
		label   string
	}{
		{"positive", "What an amazing, wonderful day! I love this so much!", LabelPositive},
		{"negative", "This is terrible, I hate everything about it.", LabelNegative},
		{"neutral", "The meeting is scheduled for Tuesday.", LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := scorer.Score(tt.caption)
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, tt.label, result.Label)
			assert.GreaterOrEqual(t, result.Score, 0.0)
			assert.LessOrEqual(t, result.Score, 1.0)
		})
	}
}

func TestVADERScorerIsDeterministic(t *testing.T) {
	scorer := NewVADERScorer()

	first, err := scorer.Score("Great launch, the team crushed it! 🚀")
	require.NoError(t, err)
	second, err := scorer.Score("Great launch, the team crushed it! 🚀")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestVADERScorerEmojiOnlyCaption(t *testing.T) {
	scorer := NewVADERScorer()

	result, err := scorer.Score("✨🚀")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 1.0)
}

func TestRemoveLinks(t *testing.T) {
	assert.Equal(t, "check this out",
		RemoveLinks("check this [out](https://example.com/post)"))
	assert.Equal(t, "details at ",
		RemoveLinks("details at https://example.com/launch"))
}

func TestFlattenMarkdown(t *testing.T) {
	flat := FlattenMarkdown("**Big news** today: [read more](https://example.com)")
	assert.NotContains(t, flat, "**")
	assert.NotContains(t, flat, "https://")
	assert.Contains(t, flat, "Big news")
	assert.Contains(t, flat, "read more")
}
