package insight

import (
	"fmt"
	"strings"
)

// AnalysisPrompt asks the model for a plain-language summary of a report.
func AnalysisPrompt(recordType string, metadata []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize this %s lab report for a student in 3-4 short sentences.\n", Subject(recordType, metadata))
	b.WriteString("Mention any marker outside its normal range. Do not diagnose.\n\nMarkers:\n")
	for _, m := range Markers(metadata) {
		flag := ""
		if m.OutOfRange {
			flag = " (out of range)"
		}
		fmt.Fprintf(&b, "- %s: %s %s, normal %s-%s%s\n", m.Name, formatNumber(m.Value), m.Unit,
			formatNumber(m.NormalRange.Min), formatNumber(m.NormalRange.Max), flag)
	}
	if len(metadata) > 0 {
		fmt.Fprintf(&b, "\nRaw metadata: %s\n", metadata)
	}
	return b.String()
}

// ChatSystemPrompt grounds the record chat on the record, if any.
func ChatSystemPrompt(recordType string, metadata []byte) string {
	base := "You are MedPlus, a careful health assistant. Explain lab results in simple terms and never diagnose. " +
		"End every answer with: " + Disclaimer
	if recordType == "" && len(metadata) == 0 {
		return base
	}
	return fmt.Sprintf("%s\nThe user is asking about %s. Record metadata: %s", base, Subject(recordType, metadata), metadata)
}
