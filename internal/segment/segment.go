// Package segment splits free text into normalized, period-terminated
// sentences for the check-worthiness scorer, which requires every
// sentence to end with a terminal period.
package segment

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Split breaks text into sentence units. Each returned sentence is
// non-empty, has collapsed internal whitespace, and ends with a single
// period; trailing '!' and '?' are rewritten to '.'. Output order matches
// order of appearance. Empty or whitespace-only input yields no sentences
// and is not an error.
func Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	for _, unit := range splitUnits(text) {
		s := Normalize(unit)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// splitUnits cuts text at sentence terminators, keeping each terminator
// with the text that precedes it. A trailing chunk without punctuation is
// kept as its own unit.
func splitUnits(text string) []string {
	var units []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			units = append(units, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		units = append(units, current.String())
	}
	return units
}

// Normalize collapses whitespace and rewrites the terminator of a single
// sentence so it ends with exactly one period. Returns "" for units that
// are empty after normalization.
func Normalize(unit string) string {
	s := whitespaceRe.ReplaceAllString(unit, " ")
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == "!" || s == "?" {
		return ""
	}

	switch {
	case strings.HasSuffix(s, "!"), strings.HasSuffix(s, "?"):
		s = s[:len(s)-1] + "."
	case !strings.HasSuffix(s, "."):
		s += "."
	}
	return s
}

// Join recombines sentences into a single passage. Splitting the result
// of Join(Split(t)) yields the same sentences again.
func Join(sentences []string) string {
	return strings.Join(sentences, " ")
}
