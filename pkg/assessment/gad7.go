// Package assessment scores the GAD-7 anxiety screener.
package assessment

import (
	"errors"
)

const (
	TypeGAD7      = "GAD-7"
	QuestionCount = 7
	MaxAnswer     = 3
)

type Severity string

const (
	SeverityMinimal  Severity = "minimal"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

var ErrIncomplete = errors.New("answer all questions")

type Question struct {
	Index       int    `json:"index"`
	Text        string `json:"text"`
	Description string `json:"description"`
}

type Choice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type SeverityBand struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

var questions = []Question{
	{Index: 0, Text: "Feeling nervous, anxious, or on edge", Description: "General feelings of unease or tension"},
	{Index: 1, Text: "Not being able to stop or control worrying", Description: "Difficulty managing anxious thoughts"},
	{Index: 2, Text: "Worrying too much about different things", Description: "Excessive concern about various life areas"},
	{Index: 3, Text: "Trouble relaxing", Description: "Difficulty finding calm or peace"},
	{Index: 4, Text: "Being so restless that it is hard to sit still", Description: "Physical agitation or inability to stay calm"},
	{Index: 5, Text: "Becoming easily annoyed or irritable", Description: "Quick to anger or frustration"},
	{Index: 6, Text: "Feeling afraid as if something awful might happen", Description: "Sense of impending doom or danger"},
}

var choices = []Choice{
	{Label: "Not at all", Value: 0},
	{Label: "Several days", Value: 1},
	{Label: "More than half the days", Value: 2},
	{Label: "Nearly every day", Value: 3},
}

var bands = map[Severity]SeverityBand{
	SeverityMinimal:  {Label: "Minimal", Description: "Low anxiety levels"},
	SeverityMild:     {Label: "Mild", Description: "Some anxiety symptoms"},
	SeverityModerate: {Label: "Moderate", Description: "Significant anxiety"},
	SeveritySevere:   {Label: "Severe", Description: "High anxiety levels"},
}

// Questions returns a copy so callers cannot mutate the instrument.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

func Choices() []Choice {
	out := make([]Choice, len(choices))
	copy(out, choices)
	return out
}

func Band(s Severity) SeverityBand {
	return bands[s]
}

type Result struct {
	Score     int      `json:"score"`
	Severity  Severity `json:"severity"`
	Label     string   `json:"label"`
	Sentiment int      `json:"sentiment"`
	Advice    string   `json:"advice"`
}

// Score validates a complete answer set and grades it.
func Score(answers []int) (*Result, error) {
	if len(answers) != QuestionCount {
		return nil, ErrIncomplete
	}

	total := 0
	for _, a := range answers {
		if a < 0 || a > MaxAnswer {
			return nil, ErrIncomplete
		}
		total += a
	}

	severity := SeverityFor(total)
	return &Result{
		Score:     total,
		Severity:  severity,
		Label:     bands[severity].Label,
		Sentiment: Sentiment(total),
		Advice:    Advice(total),
	}, nil
}

func SeverityFor(score int) Severity {
	switch {
	case score <= 4:
		return SeverityMinimal
	case score <= 9:
		return SeverityMild
	case score <= 14:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// Sentiment maps a score onto a 20..100 wellbeing index for charts.
func Sentiment(score int) int {
	s := 100 - score*8
	if s < 20 {
		return 20
	}
	return s
}

func Advice(score int) string {
	band := bands[SeverityFor(score)]
	if score <= 9 {
		return band.Description + ". Consider practicing mindfulness and stress management techniques."
	}
	return band.Description + ". It may be helpful to speak with a mental health professional."
}
