// Package markdown renders the small markdown subset journal entries use.
package markdown

import (
	"html"
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)
	listPattern   = regexp.MustCompile(`^\s*[-*]\s+`)
)

// Render escapes HTML first, then applies **bold**, *italic*, "-"/"*" list
// items (wrapped in one <ul> per run) and paragraphs. An empty line becomes
// <p>&nbsp;</p>.
func Render(src string) string {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	var b strings.Builder
	inList := false
	closeList := func() {
		if inList {
			b.WriteString("</ul>")
			inList = false
		}
	}

	for _, line := range lines {
		if listPattern.MatchString(line) {
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li>")
			b.WriteString(inline(listPattern.ReplaceAllString(line, "")))
			b.WriteString("</li>")
			continue
		}

		closeList()
		if strings.TrimSpace(line) == "" {
			b.WriteString("<p>&nbsp;</p>")
			continue
		}
		b.WriteString("<p>")
		b.WriteString(inline(line))
		b.WriteString("</p>")
	}
	closeList()

	return b.String()
}

func inline(s string) string {
	s = html.EscapeString(s)
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
	return italicPattern.ReplaceAllString(s, "<em>$1</em>")
}
