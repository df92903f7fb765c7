// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

package detect

import "strings"

// politenessPrefixes is the fixed set of request openers stripped from
// the front of the residual text, in check order. Only these are
// removed; arbitrary filler words stay.
var politenessPrefixes = []string{
	"please",
	"can you",
	"could you",
	"help me",
	"i want to",
	"i need to",
}

// extract removes every matched term from the normalized input as a
// whole-word token sequence, strips the fixed politeness prefixes, and
// trims. The result is the residual text handed to the winning plugin.
//
// Removal is token-based rather than regexp word boundaries: the input
// is split on whitespace, tokens are compared case-insensitively with
// surrounding punctuation ignored, and a multi-word term removes its
// run of consecutive tokens. This keeps behavior independent of any
// regexp engine's boundary semantics.
func extract(norm string, matchedTerms []string) string {
	tokens := strings.Fields(norm)
	for _, term := range matchedTerms {
		tokens = removeTermTokens(tokens, strings.Fields(normalize(term)))
	}

	out := strings.Join(tokens, " ")
	for _, prefix := range politenessPrefixes {
		if out == prefix {
			out = ""
			continue
		}
		if strings.HasPrefix(out, prefix+" ") {
			out = strings.TrimSpace(out[len(prefix)+1:])
		}
	}
	return strings.TrimSpace(out)
}

// removeTermTokens deletes every occurrence of the consecutive token
// sequence term from tokens.
func removeTermTokens(tokens, term []string) []string {
	if len(term) == 0 {
		return tokens
	}

	var out []string
	for i := 0; i < len(tokens); {
		if matchesAt(tokens, i, term) {
			i += len(term)
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

// matchesAt reports whether the term token sequence appears at position
// i, comparing tokens with surrounding punctuation stripped.
func matchesAt(tokens []string, i int, term []string) bool {
	if i+len(term) > len(tokens) {
		return false
	}
	for j, want := range term {
		if bareToken(tokens[i+j]) != bareToken(want) {
			return false
		}
	}
	return true
}

// bareToken trims leading and trailing punctuation so "task," still
// compares equal to "task".
func bareToken(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '\'': // keep contractions intact
		return true
	default:
		return false
	}
}
