// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package suggestions mines topic suggestions out of participant
feedback and aggregates them across responses.

A response's feedback lives in one stored text field which may carry a
structured suggestions sub-block next to ordinary prose:

	[SUGGESTED_TOPICS]
	Pricing strategy
	Competitive landscape
	[/SUGGESTED_TOPICS]

	Loved the demo, would attend again.

SerializeFeedback and ParseFeedback own that format and round-trip it.

Extract pulls candidate suggestions from unstructured text (bulleted
lines, "topic:"/"suggestion:"-style labels, or a short whole-input
fallback). Normalize reduces a candidate to a case-, punctuation- and
whitespace-insensitive grouping key; Group deduplicates, counts, and
ranks. BuildGroupsFromResponses composes the above over every stored
feedback field for a session.

Everything here is a pure function over strings: total, deterministic,
and safe for concurrent use.
*/
package suggestions
