// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase", input: "Pricing Strategy", want: "pricing strategy"},
		{name: "trailing period", input: "pricing strategy.", want: "pricing strategy"},
		{name: "edge punctuation runs", input: `-- "Pricing strategy!?" --`, want: "pricing strategy"},
		{name: "curly quotes", input: "“pricing strategy”", want: "pricing strategy"},
		{name: "internal whitespace collapsed", input: "pricing \t  strategy", want: "pricing strategy"},
		{name: "internal punctuation kept", input: "pricing, strategy", want: "pricing, strategy"},
		{name: "bullet glyph stripped", input: "• pricing strategy", want: "pricing strategy"},
		{name: "punctuation only", input: "?!...", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

// Normalization is idempotent: applying it twice changes nothing.
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Pricing Strategy",
		"  - pricing   strategy!  ",
		`"quoted (thing)"`,
		"?!...",
		"déjà vu — again",
		"",
		"a",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "Normalize not idempotent for %q", input)
	}
}

func TestGroupCaseInsensitive(t *testing.T) {
	groups := Group([]string{"Pricing strategy", "pricing strategy.", "PRICING STRATEGY"})

	require.Len(t, groups, 1)
	assert.Equal(t, "Pricing strategy", groups[0].Label, "label keeps first-seen casing")
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, "pricing strategy", groups[0].Normalized)
}

func TestGroupOrdering(t *testing.T) {
	groups := Group([]string{
		"beta topic",
		"Alpha topic",
		"gamma topic",
		"gamma topic",
		"Alpha topic!",
	})

	require.Len(t, groups, 3)
	// Count descending, then case-insensitive label ascending.
	assert.Equal(t, "Alpha topic", groups[0].Label)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "gamma topic", groups[1].Label)
	assert.Equal(t, 2, groups[1].Count)
	assert.Equal(t, "beta topic", groups[2].Label)
	assert.Equal(t, 1, groups[2].Count)
}

func TestGroupSkipsEmptyKeys(t *testing.T) {
	groups := Group([]string{"?!", "   ", "", "real topic"})

	require.Len(t, groups, 1)
	assert.Equal(t, "real topic", groups[0].Label)
}

func TestGroupDistinctKeys(t *testing.T) {
	groups := Group([]string{"a", "b", "A.", "b!", "c", "a"})

	seen := make(map[string]bool)
	for _, g := range groups {
		assert.False(t, seen[g.Normalized], "duplicate normalized key %q", g.Normalized)
		seen[g.Normalized] = true
		assert.GreaterOrEqual(t, g.Count, 1)
	}
	assert.Len(t, groups, 3)
}

func TestBuildGroupsFromResponses(t *testing.T) {
	structured := SerializeFeedback("Pricing strategy\nCompetitive landscape", "Loved it overall.")
	bulleted := "- pricing strategy!\n- open source plans"
	prose := "pricing strategy"

	groups, raw := BuildGroupsFromResponses([]string{structured, bulleted, prose, ""})

	assert.Equal(t, []string{
		"Pricing strategy",
		"Competitive landscape",
		"pricing strategy!",
		"open source plans",
		"pricing strategy",
	}, raw)

	require.NotEmpty(t, groups)
	assert.Equal(t, "Pricing strategy", groups[0].Label)
	assert.Equal(t, 3, groups[0].Count, "structured, bulleted and prose variants group together")
	assert.Len(t, groups, 3)
}

// A structured sub-block contributes its lines directly; the freeform
// remainder of the same field is not mined a second time.
func TestBuildGroupsPrefersStructuredBlock(t *testing.T) {
	field := SerializeFeedback("Pricing strategy", "- this bullet is narrative context")

	groups, raw := BuildGroupsFromResponses([]string{field})

	assert.Equal(t, []string{"Pricing strategy"}, raw)
	require.Len(t, groups, 1)
	assert.Equal(t, "Pricing strategy", groups[0].Label)
}
