// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package outline

import (
	"regexp"
	"strings"
)

// Limits for parsed outlines. These are format constants: the stored
// topic strings are read back by other components, so changing them
// changes what existing sessions mean.
const (
	MaxTopics    = 12
	MaxSubtopics = 6
	MaxLineLen   = 120
)

// TopicBlock is the decoded form of one stored topic: a title plus its
// ordered sub-points. It only ever exists in memory — the string form
// produced by Encode is the single source of truth.
type TopicBlock struct {
	Title     string   `json:"title"`
	Subtopics []string `json:"subtopics"`
}

// bulletPrefix matches a leading bullet marker (hyphen, asterisk,
// bullet glyph, or em dash) and any whitespace after it.
var bulletPrefix = regexp.MustCompile(`^[-*•—]\s*`)

// Encode flattens a title and its subtopics into the stored topic
// string: title on the first line, each subtopic on its own line with
// a "- " prefix. An empty title (after trimming) encodes to "",
// meaning "no block". Blank subtopics are dropped; order is preserved.
func Encode(title string, subtopics []string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	lines := []string{title}
	for _, sub := range subtopics {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			continue
		}
		lines = append(lines, "- "+sub)
	}

	return strings.Join(lines, "\n")
}

// Decode parses a stored topic string back into a TopicBlock. The
// first non-blank line is the title; every later line has its bullet
// marker stripped and becomes a subtopic. Decode is total: empty or
// garbage input yields a zero TopicBlock, never an error. Subtopic
// duplicates (case-insensitive) and entries past MaxSubtopics are
// dropped so hand-edited rows still satisfy the block invariants.
func Decode(block string) TopicBlock {
	var tb TopicBlock

	seen := make(map[string]bool)
	for _, raw := range strings.Split(normalizeNewlines(block), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if tb.Title == "" {
			tb.Title = line
			continue
		}

		sub := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if sub == "" {
			continue
		}
		key := strings.ToLower(sub)
		if seen[key] || len(tb.Subtopics) >= MaxSubtopics {
			continue
		}
		seen[key] = true
		tb.Subtopics = append(tb.Subtopics, sub)
	}

	return tb
}

// NormalizeBlockList re-canonicalizes a list of stored topic strings:
// blocks that decode to an empty title are discarded, titles that
// repeat case-insensitively keep only their first occurrence, and the
// survivors are re-encoded in their original relative order.
func NormalizeBlockList(blocks []string) []string {
	seen := make(map[string]bool)
	out := []string{}

	for _, block := range blocks {
		tb := Decode(block)
		if tb.Title == "" {
			continue
		}
		key := strings.ToLower(tb.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Encode(tb.Title, tb.Subtopics))
	}

	return out
}

// normalizeNewlines converts CRLF and bare CR line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
