// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/danielhkuo/session-pulse/outline"
)

// Markdown converts markdown text to HTML. On conversion failure the
// input is returned escaped rather than dropped.
func Markdown(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return html.EscapeString(md)
	}
	return buf.String()
}

// TopicBlockMarkdown renders one decoded topic block as a markdown
// fragment: bold title line plus a bullet list of sub-points.
func TopicBlockMarkdown(tb outline.TopicBlock) string {
	if tb.Title == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("**")
	b.WriteString(tb.Title)
	b.WriteString("**")
	for _, sub := range tb.Subtopics {
		b.WriteString("\n- ")
		b.WriteString(sub)
	}
	return b.String()
}

// TopicListMarkdown renders stored topic strings as one markdown
// document, blocks separated by blank lines. Blocks that decode to an
// empty title are skipped.
func TopicListMarkdown(blocks []string) string {
	var parts []string
	for _, block := range blocks {
		md := TopicBlockMarkdown(outline.Decode(block))
		if md != "" {
			parts = append(parts, md)
		}
	}
	return strings.Join(parts, "\n\n")
}
