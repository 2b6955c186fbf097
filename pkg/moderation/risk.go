package moderation

import "strings"

var riskKeywords = []string{"suicide", "kill myself", "self-harm", "hurt myself", "end it", "die", "harm"}

func RiskKeywords() []string {
	out := make([]string, len(riskKeywords))
	copy(out, riskKeywords)
	return out
}

// IsRisky is a plain lower-case substring match, so "diet" trips "die".
// Flagged content is surfaced for support, never blocked.
func IsRisky(content string) bool {
	return len(Matches(content)) > 0
}

// Matches returns the keywords found in content in list order.
func Matches(content string) []string {
	s := strings.ToLower(content)
	var hits []string
	for _, k := range riskKeywords {
		if strings.Contains(s, k) {
			hits = append(hits, k)
		}
	}
	return hits
}
