// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package suggestions

import (
	"regexp"
	"strings"
)

// Sentinel tokens delimiting the structured suggestions sub-block
// inside a stored feedback field. Literal format constants: stored
// rows embed them, so they must never change.
const (
	suggestedOpen  = "[SUGGESTED_TOPICS]"
	suggestedClose = "[/SUGGESTED_TOPICS]"
)

// suggestedBlock matches the sentinel-delimited sub-block,
// case-insensitive and non-greedy, capturing the inner content.
var suggestedBlock = regexp.MustCompile(`(?is)\[SUGGESTED_TOPICS\]\s*(.*?)\s*\[/SUGGESTED_TOPICS\]`)

// ParsedFeedback is the two-part view of a stored feedback field.
// Empty strings stand in for absent parts; the storage layer maps
// them to SQL NULL.
type ParsedFeedback struct {
	SuggestedTopicsRaw string `json:"suggested_topics_raw,omitempty"`
	FreeformText       string `json:"freeform_text,omitempty"`
}

// SerializeFeedback packs structured suggestions and freeform comment
// text into the single stored feedback string. Both inputs are
// trimmed first. Both empty yields "" (store NULL); suggestions are
// wrapped in the sentinel tokens; when both parts are present a blank
// line separates them.
func SerializeFeedback(suggestedRaw, freeform string) string {
	suggestedRaw = strings.TrimSpace(suggestedRaw)
	freeform = strings.TrimSpace(freeform)

	switch {
	case suggestedRaw == "" && freeform == "":
		return ""
	case suggestedRaw == "":
		return freeform
	}

	block := suggestedOpen + "\n" + suggestedRaw + "\n" + suggestedClose
	if freeform == "" {
		return block
	}
	return block + "\n\n" + freeform
}

// ParseFeedback splits a stored feedback string back into its parts.
// If the sentinel block is present its trimmed inner content becomes
// SuggestedTopicsRaw and the surrounding text (block removed, trimmed)
// becomes FreeformText; otherwise the whole trimmed input is freeform.
// ParseFeedback(SerializeFeedback(s, f)) recovers (s, f) exactly for
// any trimmed s without sentinel substrings.
func ParseFeedback(stored string) ParsedFeedback {
	var parsed ParsedFeedback

	trimmed := strings.TrimSpace(stored)
	if trimmed == "" {
		return parsed
	}

	m := suggestedBlock.FindStringSubmatchIndex(trimmed)
	if m == nil {
		parsed.FreeformText = trimmed
		return parsed
	}

	parsed.SuggestedTopicsRaw = strings.TrimSpace(trimmed[m[2]:m[3]])
	parsed.FreeformText = strings.TrimSpace(trimmed[:m[0]] + trimmed[m[1]:])
	return parsed
}

// SplitStructured breaks a structured sub-block into its suggestion
// lines: one candidate per non-blank line, bullet markers stripped.
// The lines are already suggestions, so they bypass the extractor's
// narrative heuristics.
func SplitStructured(raw string) []string {
	var out []string
	for _, line := range strings.Split(normalizeNewlines(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := bulletPrefix.FindString(line); m != "" {
			line = strings.TrimSpace(line[len(m):])
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
