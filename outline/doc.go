// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package outline turns raw outline text into stored topic strings and
back.

There is no structured topic column anywhere in the system: a topic is
persisted as a single string whose first line is the title and whose
later lines are "- " bullets. This package owns that format.

# Codec

	block := outline.Encode("Market context", []string{"why now", "why later"})
	// "Market context\n- why now\n- why later"

	tb := outline.Decode(block)
	// TopicBlock{Title: "Market context", Subtopics: ["why now", "why later"]}

Encode and Decode round-trip for any title and duplicate-free subtopic
list. Decode never fails; bad input degrades to a zero TopicBlock.

# Parser

	blocks := outline.Parse(rawOutline)

Parse runs a single pass over the lines, classifying each as a new
topic, a sub-point of the topic above it, or noise. Structural signals
(indentation, bullet markers) always attach; short unmarked lines
attach only when they directly follow other text and do not look like
section headers. Output is capped at MaxTopics blocks of MaxSubtopics
sub-points, every line at most MaxLineLen characters.

All functions are pure and safe for concurrent use.
*/
package outline
