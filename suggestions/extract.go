// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package suggestions

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxSuggestionLen is the longest input treated as a suggestion when
// it has no bullet or label structure. Anything longer is narrative.
const MaxSuggestionLen = 120

var (
	// bulletPrefix matches a leading bullet marker and any whitespace
	// after it. Same glyph set as the outline parser.
	bulletPrefix = regexp.MustCompile(`^[-*•—]\s*`)

	// labelPrefix matches a leading suggestion label such as
	// "topic:", "Suggestion -", "cover:" or "idea:".
	labelPrefix = regexp.MustCompile(`(?i)^(topic|suggestion|cover|idea)\s*[:\-]\s*`)
)

// Extract mines candidate suggestion strings from one participant's
// free-text feedback. Bulleted lines and labeled lines are taken as
// suggestions; other lines are assumed to be narrative and ignored.
// If no line matched, a short input is taken whole as a single
// suggestion, and a long unstructured paragraph yields nothing.
// Extract is total and deterministic.
func Extract(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var captured []string
	for _, raw := range strings.Split(normalizeNewlines(trimmed), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := bulletPrefix.FindString(line); m != "" {
			if rest := strings.TrimSpace(line[len(m):]); rest != "" {
				captured = append(captured, rest)
			}
			continue
		}
		if m := labelPrefix.FindString(line); m != "" {
			if rest := strings.TrimSpace(line[len(m):]); rest != "" {
				captured = append(captured, rest)
			}
		}
	}

	if len(captured) > 0 {
		return captured
	}

	if utf8.RuneCountInString(trimmed) <= MaxSuggestionLen {
		return []string{trimmed}
	}

	return nil
}

// normalizeNewlines converts CRLF and bare CR line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
