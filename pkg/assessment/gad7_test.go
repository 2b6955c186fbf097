package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		answers   []int
		score     int
		severity  Severity
		sentiment int
	}{
		{name: "all zero", answers: []int{0, 0, 0, 0, 0, 0, 0}, score: 0, severity: SeverityMinimal, sentiment: 100},
		{name: "upper minimal", answers: []int{1, 1, 1, 1, 0, 0, 0}, score: 4, severity: SeverityMinimal, sentiment: 68},
		{name: "lower mild", answers: []int{1, 1, 1, 1, 1, 0, 0}, score: 5, severity: SeverityMild, sentiment: 60},
		{name: "upper mild", answers: []int{3, 3, 3, 0, 0, 0, 0}, score: 9, severity: SeverityMild, sentiment: 28},
		{name: "lower moderate", answers: []int{3, 3, 3, 1, 0, 0, 0}, score: 10, severity: SeverityModerate, sentiment: 20},
		{name: "upper moderate", answers: []int{2, 2, 2, 2, 2, 2, 2}, score: 14, severity: SeverityModerate, sentiment: 20},
		{name: "all three", answers: []int{3, 3, 3, 3, 3, 3, 3}, score: 21, severity: SeveritySevere, sentiment: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.score, res.Score)
			assert.Equal(t, tt.severity, res.Severity)
			assert.Equal(t, tt.sentiment, res.Sentiment)
		})
	}
}

func TestScoreRejectsIncompleteAnswers(t *testing.T) {
	for _, answers := range [][]int{
		nil,
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, -1, 0, 0, 0},
		{0, 0, 0, 4, 0, 0, 0},
	} {
		_, err := Score(answers)
		assert.ErrorIs(t, err, ErrIncomplete)
	}
}

func TestAdviceSwitchesAtNine(t *testing.T) {
	assert.Contains(t, Advice(9), "mindfulness")
	assert.Contains(t, Advice(10), "mental health professional")
}

func TestQuestionsAreCopied(t *testing.T) {
	q := Questions()
	q[0].Text = "changed"
	assert.Equal(t, "Feeling nervous, anxious, or on edge", Questions()[0].Text)
	assert.Len(t, Choices(), 4)
}
