// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package outline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Thresholds for the short-line attach heuristic: an unbulleted,
// unindented line this small, with no blank line before it, reads as
// an informal sub-point of the topic above it.
const (
	shortLineMaxChars = 25
	shortLineMaxWords = 4
)

var (
	// enumPrefix matches a leading enumerator like "1." or "3)".
	enumPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

	// topicLabel matches a leading "Topic:" label, case-insensitive.
	topicLabel = regexp.MustCompile(`(?i)^topic\s*:\s*`)
)

// headerVocab lists section words that mark a line as a standalone
// header even when it is short enough for the attach heuristic.
// Matched case-insensitively against the whole normalized line.
var headerVocab = map[string]bool{
	"introduction": true,
	"intro":        true,
	"overview":     true,
	"summary":      true,
	"agenda":       true,
	"objectives":   true,
	"goals":        true,
	"takeaways":    true,
	"q&a":          true,
	"qa":           true,
	"questions":    true,
	"case study":   true,
	"background":   true,
	"conclusion":   true,
	"discussion":   true,
	"next steps":   true,
	"wrap-up":      true,
	"wrap up":      true,
	"recap":        true,
	"demo":         true,
	"resources":    true,
}

// scannedLine carries the structural signals of one raw outline line
// alongside its normalized text.
type scannedLine struct {
	text          string // after marker/label strip, trailing punctuation strip, trim
	indented      bool   // raw line began with a space or tab
	bulleted      bool   // raw line carried a bullet marker
	endsWithColon bool   // checked before trailing punctuation is stripped
}

// disposition is the parser's decision for one non-blank line.
type disposition int

const (
	lineDiscard  disposition = iota // empty or over-length after normalization
	lineAttach                      // becomes a subtopic of the current block
	lineNewBlock                    // starts a new topic block
)

// scanLine normalizes one raw line: strip a leading bullet marker OR
// enumerator OR "Topic:" label (whichever matches first, at most one),
// then strip trailing '.', ',', ';', ':' and trim. The colon check
// happens before the trailing strip so "Agenda:" still reads as a
// header afterwards.
func scanLine(raw string) scannedLine {
	var s scannedLine
	s.indented = strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t")

	text := strings.TrimSpace(raw)
	if m := bulletPrefix.FindString(text); m != "" {
		s.bulleted = true
		text = strings.TrimSpace(text[len(m):])
	} else if m := enumPrefix.FindString(text); m != "" {
		text = strings.TrimSpace(text[len(m):])
	} else if m := topicLabel.FindString(text); m != "" {
		text = strings.TrimSpace(text[len(m):])
	}

	s.endsWithColon = strings.HasSuffix(text, ":")
	s.text = strings.TrimSpace(strings.TrimRight(text, ".,;:"))
	return s
}

// classify decides what to do with a scanned line. Indentation and
// bullets are unambiguous attach signals; the short-line rule recovers
// outlines that write sub-points as adjacent short lines, while the
// header checks keep short titles like "Q&A" from being swallowed by
// the previous block.
func classify(s scannedLine, haveBlock, lastBlank bool) disposition {
	if s.text == "" || utf8.RuneCountInString(s.text) > MaxLineLen {
		return lineDiscard
	}
	if haveBlock && (s.indented || s.bulleted || (!lastBlank && isShortPoint(s))) {
		return lineAttach
	}
	return lineNewBlock
}

func isShortPoint(s scannedLine) bool {
	if utf8.RuneCountInString(s.text) > shortLineMaxChars {
		return false
	}
	if len(strings.Fields(s.text)) > shortLineMaxWords {
		return false
	}
	return !looksLikeHeader(s)
}

// looksLikeHeader reports whether a line reads as a standalone section
// header: a known section word, three or more words, or a trailing
// colon on the raw text.
func looksLikeHeader(s scannedLine) bool {
	if headerVocab[strings.ToLower(s.text)] {
		return true
	}
	if len(strings.Fields(s.text)) >= 3 {
		return true
	}
	return s.endsWithColon
}

// Parse converts a raw outline — AI-generated or hand-written — into
// an ordered list of stored topic strings. One left-to-right pass with
// constant extra state: each non-blank line is normalized, classified,
// and either discarded, attached to the current block, or opened as a
// new block. Afterwards titles are deduplicated case-insensitively
// (first occurrence wins), the list is capped at MaxTopics, and each
// survivor is encoded via the codec. Parse never fails; unparseable
// input yields an empty list.
func Parse(outlineText string) []string {
	var blocks []*TopicBlock
	var current *TopicBlock
	lastBlank := true

	for _, raw := range strings.Split(normalizeNewlines(outlineText), "\n") {
		if strings.TrimSpace(raw) == "" {
			lastBlank = true
			continue
		}

		s := scanLine(raw)
		switch classify(s, current != nil, lastBlank) {
		case lineDiscard:
			// Dropped, not truncated: a 200-char ramble is prose,
			// not a topic line.
		case lineAttach:
			attachSubtopic(current, s.text)
		case lineNewBlock:
			current = &TopicBlock{Title: s.text}
			blocks = append(blocks, current)
		}
		lastBlank = false
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, b := range blocks {
		key := strings.ToLower(b.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Encode(b.Title, b.Subtopics))
		if len(out) == MaxTopics {
			break
		}
	}

	return out
}

// attachSubtopic appends text to a block's subtopics unless the block
// is full or already holds a case-insensitive duplicate.
func attachSubtopic(block *TopicBlock, text string) {
	if len(block.Subtopics) >= MaxSubtopics {
		return
	}
	for _, existing := range block.Subtopics {
		if strings.EqualFold(existing, text) {
			return
		}
	}
	block.Subtopics = append(block.Subtopics, text)
}
