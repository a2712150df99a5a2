// Package classify derives a content kind and keyword tags from raw
// clipboard text. Everything here is pure and safe for concurrent use.
package classify

import (
	"regexp"
	"sort"
	"strings"
)

// Kind is the coarse content classification of a snippet.
type Kind string

const (
	Text    Kind = "text"
	Link    Kind = "link"
	Hashtag Kind = "hashtag"
	Code    Kind = "code"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case Text, Link, Hashtag, Code:
		return true
	}
	return false
}

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern   = regexp.MustCompile(`(\+?1?[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
)

// codePatterns are checked in order; any match marks the text as code.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`function\s+\w+\s*\(`),
	regexp.MustCompile(`const\s+\w+\s*=`),
	regexp.MustCompile(`let\s+\w+\s*=`),
	regexp.MustCompile(`var\s+\w+\s*=`),
	regexp.MustCompile(`class\s+\w+`),
	regexp.MustCompile(`import\s+.*from`),
	regexp.MustCompile(`export\s+(default\s+)?`),
	regexp.MustCompile(`console\.(log|error|warn)`),
	regexp.MustCompile(`(?s)\{\s*\n.*\n\s*\}`),
	regexp.MustCompile(`(?i)</?[a-z][\s\S]*>`),
}

// Type classifies text. URLs win over hashtags, hashtags over code, so a code
// snippet with a URL in a comment is a Link.
func Type(text string) Kind {
	if urlPattern.MatchString(text) {
		return Link
	}
	if hashtagPattern.MatchString(text) {
		return Hashtag
	}
	if LooksLikeCode(text) {
		return Code
	}
	return Text
}

// LooksLikeCode reports whether any of the code heuristics match.
func LooksLikeCode(text string) bool {
	for _, p := range codePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Hashtags returns the unique lowercased hashtag bodies found in text.
func Hashtags(text string) []string {
	set := make(map[string]struct{})
	for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		set[strings.ToLower(m[1])] = struct{}{}
	}
	return sortedKeys(set)
}

// Tags extracts keyword tags: hashtags, @mentions, and the marker tags
// "link", "email" and "phone". The result has no duplicates and is sorted;
// callers should treat it as a set.
func Tags(text string) []string {
	set := make(map[string]struct{})

	for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		set[strings.ToLower(m[1])] = struct{}{}
	}
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		set["@"+strings.ToLower(m[1])] = struct{}{}
	}
	if urlPattern.MatchString(text) {
		set["link"] = struct{}{}
	}
	if emailPattern.MatchString(text) {
		set["email"] = struct{}{}
	}
	if phonePattern.MatchString(text) {
		set["phone"] = struct{}{}
	}

	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
