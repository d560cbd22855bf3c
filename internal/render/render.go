// Package render converts block content to Markdown. Rendering is a pure
// function of its inputs; identical input yields byte-identical output.
package render

import (
	"strings"

	"git.home.luguber.info/inful/notionsync/internal/content"
)

// Page renders a full Markdown body for one page.
//
// The type label is part of the documented contract but does not influence
// the body today; it only drives front matter, which the reconciler owns.
//
// The body is an optional "# <title>" heading (omitted for the fallback title
// "Untitled") followed by every non-empty block rendering, joined with blank
// lines and trimmed.
func Page(title string, _ string, blocks []content.Block) string {
	parts := make([]string, 0, len(blocks)+1)
	if title != content.UntitledTitle {
		parts = append(parts, "# "+title)
	}
	for _, b := range blocks {
		if md := renderBlock(b); md != "" {
			parts = append(parts, md)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// RichText concatenates spans, decorating each span's content per its flags.
// Decoration order is fixed: bold, then italic, then code, then
// strikethrough. A hyperlink wraps the already-decorated text last, so
// {bold, link} on "hi" yields "[**hi**](url)".
func RichText(spans []content.RichTextSpan) string {
	var sb strings.Builder
	for _, span := range spans {
		text := span.Content
		if span.Bold {
			text = "**" + text + "**"
		}
		if span.Italic {
			text = "*" + text + "*"
		}
		if span.Code {
			text = "`" + text + "`"
		}
		if span.Strikethrough {
			text = "~~" + text + "~~"
		}
		if span.Href != "" {
			text = "[" + text + "](" + span.Href + ")"
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// renderBlock maps one block variant to its Markdown fragment. Variants whose
// rich text renders empty contribute nothing.
func renderBlock(b content.Block) string {
	switch b.Type {
	case content.BlockParagraph, content.BlockUnsupported:
		return RichText(b.Text)
	case content.BlockHeading1:
		return prefixed("# ", b.Text)
	case content.BlockHeading2:
		return prefixed("## ", b.Text)
	case content.BlockHeading3:
		return prefixed("### ", b.Text)
	case content.BlockBulletedItem:
		return prefixed("- ", b.Text)
	case content.BlockNumberedItem:
		// Every item is emitted as "1. "; Markdown viewers renumber.
		return prefixed("1. ", b.Text)
	case content.BlockToDo:
		if b.Checked {
			return prefixed("- [x] ", b.Text)
		}
		return prefixed("- [ ] ", b.Text)
	case content.BlockQuote:
		return prefixed("> ", b.Text)
	case content.BlockCode:
		text := RichText(b.Text)
		if text == "" {
			return ""
		}
		return "```" + b.Lang + "\n" + text + "\n```"
	case content.BlockDivider:
		return "---"
	case content.BlockImage:
		return renderImage(b)
	default:
		return ""
	}
}

func prefixed(prefix string, spans []content.RichTextSpan) string {
	text := RichText(spans)
	if text == "" {
		return ""
	}
	return prefix + text
}

func renderImage(b content.Block) string {
	if b.URL == "" {
		return ""
	}
	alt := RichText(b.Caption)
	if alt == "" {
		alt = altFromURL(b.URL)
	}
	if alt == "" {
		alt = "Image"
	}
	return "![" + alt + "](" + b.URL + ")"
}

// altFromURL derives alt text from the URL's last path segment, with query
// string and file extension stripped.
func altFromURL(rawURL string) string {
	segment := rawURL
	if i := strings.IndexByte(segment, '?'); i >= 0 {
		segment = segment[:i]
	}
	if i := strings.LastIndexByte(segment, '/'); i >= 0 {
		segment = segment[i+1:]
	}
	if i := strings.LastIndexByte(segment, '.'); i >= 0 {
		segment = segment[:i]
	}
	return segment
}
