// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeAuthorName lowercases a name, strips accents and punctuation,
// collapses whitespace, and drops the "collaboration" marker that large
// experiment author lists carry.
func NormalizeAuthorName(name string) string {
	// NFKD decomposition, then drop the combining marks.
	decomposed := norm.NFKD.String(name)
	var sb strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}

	name = strings.ToLower(sb.String())
	name = strings.ReplaceAll(name, "collaboration", "")

	var cleaned strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || r == '_' {
			cleaned.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(cleaned.String()), " ")
}

// IsValidAuthorName reports whether a normalized name looks like one
// person: at least two alphabetic tokens, no digits, and not an
// affiliation line (too many commas or words).
func IsValidAuthorName(name string) bool {
	if name == "" {
		return false
	}

	hasAlpha := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			hasAlpha = true
		}
		if unicode.IsDigit(r) {
			return false
		}
	}
	if !hasAlpha {
		return false
	}

	tokens := 0
	for _, t := range strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		for _, r := range t {
			if unicode.IsLetter(r) {
				tokens++
				break
			}
		}
	}
	if tokens < 2 {
		return false
	}

	if strings.Count(name, ",") > 5 || len(strings.Fields(name)) > 5 {
		return false
	}
	return true
}

// BaseAuthorID derives the author key "surname_firstInitial" from a
// normalized name. Names are surname-first in the arXiv snapshot.
func BaseAuthorID(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) < 2 {
		return "unknown"
	}
	return tokens[0] + "_" + string([]rune(tokens[1])[0])
}
