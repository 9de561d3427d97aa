// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package outline

import (
	"reflect"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		subtopics []string
		want      string
	}{
		{
			name:  "title only",
			title: "Market context",
			want:  "Market context",
		},
		{
			name:      "title with subtopics",
			title:     "Market context",
			subtopics: []string{"why now", "why later"},
			want:      "Market context\n- why now\n- why later",
		},
		{
			name:      "trims title and subtopics",
			title:     "  Market context  ",
			subtopics: []string{" why now ", "\twhy later"},
			want:      "Market context\n- why now\n- why later",
		},
		{
			name:      "drops blank subtopics",
			title:     "Market context",
			subtopics: []string{"", "  ", "why now"},
			want:      "Market context\n- why now",
		},
		{
			name:      "empty title means no block",
			title:     "   ",
			subtopics: []string{"why now"},
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.title, tt.subtopics)
			if got != tt.want {
				t.Errorf("Encode(%q, %v) = %q, want %q", tt.title, tt.subtopics, got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  TopicBlock
	}{
		{
			name:  "title only",
			block: "Market context",
			want:  TopicBlock{Title: "Market context"},
		},
		{
			name:  "title with bulleted subtopics",
			block: "Market context\n- why now\n- why later",
			want:  TopicBlock{Title: "Market context", Subtopics: []string{"why now", "why later"}},
		},
		{
			name:  "mixed bullet glyphs",
			block: "Market context\n* why now\n• why later\n— why ever",
			want:  TopicBlock{Title: "Market context", Subtopics: []string{"why now", "why later", "why ever"}},
		},
		{
			name:  "blank lines and padding ignored",
			block: "\n  Market context  \n\n  - why now \n\n",
			want:  TopicBlock{Title: "Market context", Subtopics: []string{"why now"}},
		},
		{
			name:  "crlf input",
			block: "Market context\r\n- why now\r\n- why later",
			want:  TopicBlock{Title: "Market context", Subtopics: []string{"why now", "why later"}},
		},
		{
			name:  "case-insensitive duplicate subtopics dropped",
			block: "Market context\n- Why Now\n- why now",
			want:  TopicBlock{Title: "Market context", Subtopics: []string{"Why Now"}},
		},
		{
			name:  "subtopics capped",
			block: "T\n- a\n- b\n- c\n- d\n- e\n- f\n- g\n- h",
			want:  TopicBlock{Title: "T", Subtopics: []string{"a", "b", "c", "d", "e", "f"}},
		},
		{
			name:  "bare bullet line dropped",
			block: "Market context\n- \n- why now",
			want:  TopicBlock{Title: "Market context", Subtopics: []string{"why now"}},
		},
		{
			name:  "empty input",
			block: "",
			want:  TopicBlock{},
		},
		{
			name:  "whitespace only",
			block: "  \n\t\n  ",
			want:  TopicBlock{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.block)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode(%q) = %+v, want %+v", tt.block, got, tt.want)
			}
		})
	}
}

// Round trip: Decode(Encode(t, s)) recovers the trimmed title and the
// trimmed, blank-free subtopic list whenever s has no duplicates.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		subtopics []string
	}{
		{name: "title only", title: "Q&A"},
		{name: "single subtopic", title: "Market context", subtopics: []string{"why now"}},
		{name: "full block", title: "Growth levers", subtopics: []string{"hiring", "funding", "partnerships"}},
		{name: "unicode", title: "Stratégie de prix", subtopics: []string{"remises", "paliers €"}},
		{name: "punctuation inside subtopics", title: "Roadmap", subtopics: []string{"Q3: stabilization", "Q4 (stretch)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(Encode(tt.title, tt.subtopics))
			if got.Title != tt.title {
				t.Errorf("round trip title = %q, want %q", got.Title, tt.title)
			}
			want := tt.subtopics
			if len(want) == 0 {
				want = nil
			}
			if !reflect.DeepEqual(got.Subtopics, want) {
				t.Errorf("round trip subtopics = %v, want %v", got.Subtopics, want)
			}
		})
	}
}

func TestNormalizeBlockList(t *testing.T) {
	tests := []struct {
		name   string
		blocks []string
		want   []string
	}{
		{
			name:   "passes canonical blocks through",
			blocks: []string{"Market context\n- why now", "Analysis"},
			want:   []string{"Market context\n- why now", "Analysis"},
		},
		{
			name:   "drops empty-title blocks",
			blocks: []string{"", "   ", "Analysis"},
			want:   []string{"Analysis"},
		},
		{
			name:   "deduplicates titles case-insensitively, first wins",
			blocks: []string{"Market Context\n- why now", "market context\n- other"},
			want:   []string{"Market Context\n- why now"},
		},
		{
			name:   "re-encodes messy blocks",
			blocks: []string{"  Market context \n*  why now  "},
			want:   []string{"Market context\n- why now"},
		},
		{
			name:   "empty input",
			blocks: nil,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBlockList(tt.blocks)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeBlockList(%v) = %v, want %v", tt.blocks, got, tt.want)
			}
		})
	}
}
