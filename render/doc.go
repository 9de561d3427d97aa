// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package render converts stored session text into display formats.
//
// Session descriptions are markdown and render to HTML via goldmark.
// Stored topic blocks render to markdown fragments (bold title plus a
// bullet list) for clients that show the agenda as one document:
//
//	md := render.TopicListMarkdown(blocks)
//	html := render.Markdown(md)
package render
