package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Vulgar words replaced in narration of worlds that do not allow mature content.
var profanity = map[string]string{
	"địt":   "[...]",
	"đụ":    "[...]",
	"lồn":   "[...]",
	"cặc":   "[...]",
	"buồi":  "[...]",
	"đĩ":    "kẻ xấu",
	"đéo":   "chẳng",
	"đếch":  "chẳng",
	"fuck":  "[...]",
	"shit":  "chết tiệt",
	"bitch": "kẻ xấu",
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{M}]+`)

// ProfanityFilter replaces vulgar words with milder alternatives. It is safe for
// concurrent use.
type ProfanityFilter struct {
	words map[string]string
}

// NewProfanityFilter creates a filter over the built-in word list.
func NewProfanityFilter() *ProfanityFilter {
	return &ProfanityFilter{words: profanity}
}

// FilterText replaces whole-word matches, keeping the case pattern of each match.
func (pf *ProfanityFilter) FilterText(text string) string {
	return wordPattern.ReplaceAllStringFunc(text, func(word string) string {
		replacement, ok := pf.words[Fold(word)]
		if !ok {
			return word
		}
		return pf.preserveCase(word, replacement)
	})
}

// ContainsProfanity reports whether text holds any filtered word.
func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	for _, word := range wordPattern.FindAllString(text, -1) {
		if _, ok := pf.words[Fold(word)]; ok {
			return true
		}
	}
	return false
}

func (pf *ProfanityFilter) preserveCase(original, replacement string) string {
	if strings.ToUpper(original) == original && strings.ToLower(original) != original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return replacement
	}
	r := []rune(original)
	if unicode.IsUpper(r[0]) {
		return cases.Title(language.Vietnamese).String(replacement)
	}
	return replacement
}
