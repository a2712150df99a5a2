package clip

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTextLength is the longest text accepted from manual input or edits.
const MaxTextLength = 10000

var whitespaceRun = regexp.MustCompile(`\s+`)

// Truncate shortens text to at most max runes, adding "..." when cut.
func Truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}

// CleanText collapses whitespace runs into single spaces and trims the ends.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// Preview returns the first wordCount words of text, adding "..." when cut.
func Preview(text string, wordCount int) string {
	words := strings.Split(CleanText(text), " ")
	if len(words) <= wordCount {
		return text
	}
	return strings.Join(words[:wordCount], " ") + "..."
}

// TextStats holds simple counts shown on the detail view.
type TextStats struct {
	Words              int
	Characters         int
	CharactersNoSpaces int
	Lines              int
}

// Stats counts words, characters and lines in text.
func Stats(text string) TextStats {
	return TextStats{
		Words:              len(strings.Fields(text)),
		Characters:         utf8.RuneCountInString(text),
		CharactersNoSpaces: utf8.RuneCountInString(whitespaceRun.ReplaceAllString(text, "")),
		Lines:              strings.Count(text, "\n") + 1,
	}
}

// FormatRelative renders ts relative to now: "Just now", "5m ago", "3h ago",
// "2d ago", or a date once it is a week old.
func FormatRelative(ts, now time.Time) string {
	diff := now.Sub(ts)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	default:
		return ts.Local().Format("2006-01-02")
	}
}
