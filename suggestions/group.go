// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package suggestions

import (
	"regexp"
	"sort"
	"strings"
)

// SuggestionGroup is one ranked cluster of equivalent suggestions.
// Label keeps the first-seen display form; Normalized is the grouping
// key and is pairwise-distinct within a result set.
type SuggestionGroup struct {
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Normalized string `json:"normalized"`
}

// whitespaceRun matches one or more whitespace characters.
var whitespaceRun = regexp.MustCompile(`\s+`)

// edgePunct is the set of punctuation and bullet characters stripped
// from the ends of a suggestion during normalization.
const edgePunct = ".,;:!?()\"'“”‘’-–—•* "

// Normalize reduces a suggestion to its grouping key: lowercase,
// internal whitespace collapsed to single spaces, leading and trailing
// punctuation/bullet runs removed. Idempotent, so keys can be
// re-normalized freely.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.Trim(s, edgePunct)
}

// Group deduplicates and counts suggestions. Items normalizing to ""
// are skipped. The first sighting of a key fixes the group's Label
// (trimmed, original casing); repeats only increment Count. Groups
// come back sorted by Count descending, ties broken by
// case-insensitive Label ascending.
func Group(items []string) []SuggestionGroup {
	index := make(map[string]int)
	groups := []SuggestionGroup{}

	for _, item := range items {
		key := Normalize(item)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			groups[i].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, SuggestionGroup{
			Label:      strings.TrimSpace(item),
			Count:      1,
			Normalized: key,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return strings.ToLower(groups[i].Label) < strings.ToLower(groups[j].Label)
	})

	return groups
}

// BuildGroupsFromResponses gathers suggestion candidates across all
// stored feedback fields and groups them. A field with a structured
// sub-block contributes that block's lines directly; otherwise the
// extractor runs over the whole field. The raw candidate list is
// returned alongside the groups for display and debugging.
func BuildGroupsFromResponses(fields []string) ([]SuggestionGroup, []string) {
	raw := []string{}

	for _, field := range fields {
		parsed := ParseFeedback(field)
		if parsed.SuggestedTopicsRaw != "" {
			raw = append(raw, SplitStructured(parsed.SuggestedTopicsRaw)...)
			continue
		}
		if parsed.FreeformText != "" {
			raw = append(raw, Extract(parsed.FreeformText)...)
		}
	}

	return Group(raw), raw
}
