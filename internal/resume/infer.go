package resume

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Keywords is the skill vocabulary, in reporting order.
var Keywords = []string{
	"JavaScript", "TypeScript", "React", "Node.js", "Python", "Java", "C++",
	"AWS", "Docker", "MongoDB", "SQL", "HTML", "CSS", "Tailwind", "Next.js",
	"Go", "Kubernetes",
}

var experienceRe = regexp.MustCompile(`(?i)(\d+)\+?\s*years?`)

// Infer returns the keywords present in text as whole words, matched
// case-insensitively, and the first "N years" figure (0 when absent).
func Infer(text string) ([]string, int) {
	lower := strings.ToLower(norm.NFKC.String(text))

	skills := make([]string, 0)
	for _, kw := range Keywords {
		if containsWord(lower, strings.ToLower(kw)) {
			skills = append(skills, kw)
		}
	}

	years := 0
	if m := experienceRe.FindStringSubmatch(lower); m != nil {
		years, _ = strconv.Atoi(m[1])
	}
	return skills, years
}

// containsWord finds word in text with no letter or digit directly touching
// an alphanumeric edge of word, so "java" does not match "javascript".
func containsWord(text, word string) bool {
	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)

	for from := 0; from < len(text); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		okBefore := start == 0 || !isWordRune(first) || !isWordRune(before)
		okAfter := end == len(text) || !isWordRune(last) || !isWordRune(after)
		if okBefore && okAfter {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
