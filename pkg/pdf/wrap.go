package pdf

import "strings"

// Metrics measures the rendered width of a text run. Implementations must agree with the
// backend that draws the glyphs, otherwise wrapped lines overflow visually.
type Metrics interface {
	StringWidth(text string, font Font) float64
}

// Wrap splits text into lines no wider than maxWidth using a greedy word fill. Words are
// never broken: a word wider than maxWidth sits alone on its own line. Empty or blank text
// yields no lines.
func Wrap(m Metrics, text string, font Font, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := ""
	for _, w := range words {
		if line == "" {
			line = w
			continue
		}
		candidate := line + " " + w
		if m.StringWidth(candidate, font) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
